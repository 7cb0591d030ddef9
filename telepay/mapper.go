package telepay

import (
	"encoding/json"

	"github.com/telepay-cash/telepay-go/pkg/apperror"
)

// extraFields returns every key of a JSON object that is not in known.
// Declared fields stay strictly typed on the model; anything else survives
// here so additive server-side schema changes never drop data.
func extraFields(data []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// decode maps a successful response body into v, surfacing any schema
// mismatch (malformed JSON, bad timestamp) as a parse error.
func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return apperror.Parse("decoding response body", err)
	}
	return nil
}
