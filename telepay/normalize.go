package telepay

import (
	"encoding/json"

	"github.com/telepay-cash/telepay-go/pkg/apperror"
)

// checkResponse decides success for a completed HTTP exchange. 2xx passes the
// body through untouched; anything else becomes a structured API error built
// from the body's "error" and "message" fields when present, falling back to
// the status code and the raw body text when not. A body that is valid JSON
// but not an object counts as having neither field.
func checkResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	code := ""
	message := string(body)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		if raw, ok := fields["error"]; ok {
			code = scalarText(raw)
		}
		if raw, ok := fields["message"]; ok {
			message = scalarText(raw)
		}
	}

	return apperror.API(statusCode, code, message)
}

// scalarText renders a JSON scalar as bare text: strings lose their quotes,
// numbers and booleans keep their literal form.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
