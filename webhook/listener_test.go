package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telepay-cash/telepay-go/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type dispatched struct {
	headers http.Header
	payload []byte
}

func newTestListener(t *testing.T, secret string) (*Listener, *[]dispatched) {
	t.Helper()

	var calls []dispatched
	l, err := NewListener(ListenerConfig{
		Secret: secret,
		Logger: zerolog.Nop(),
		Callback: func(headers http.Header, payload []byte) {
			calls = append(calls, dispatched{headers: headers, payload: payload})
		},
	})
	require.NoError(t, err)
	return l, &calls
}

func deliver(l *Listener, payload string, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	l.Engine().ServeHTTP(w, req)
	return w
}

func TestNewListener_RequiresSecretAndCallback(t *testing.T) {
	_, err := NewListener(ListenerConfig{Callback: func(http.Header, []byte) {}})
	require.Error(t, err)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.TypeConfiguration, appErr.Type)

	_, err = NewListener(ListenerConfig{Secret: "hello"})
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.TypeConfiguration, appErr.Type)
}

func TestNewListener_Defaults(t *testing.T) {
	l, _ := newTestListener(t, "hello")
	assert.Equal(t, "http://localhost:5000/webhook", l.URL())
}

func TestListener_ValidSignature_DispatchesAndAcks(t *testing.T) {
	payload := `{"name":"invoice.completed","invoice":{"number":"PS8JLM2V0R"}}`
	l, calls := newTestListener(t, "hello")

	w := deliver(l, payload, Signature("hello", payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, AckBody, w.Body.String())

	require.Len(t, *calls, 1)
	assert.Equal(t, []byte(payload), (*calls)[0].payload)
	assert.Equal(t, "application/json", (*calls)[0].headers.Get("Content-Type"))
}

func TestListener_InvalidSignature_RejectsWithoutDispatch(t *testing.T) {
	payload := `{"name":"invoice.completed"}`
	l, calls := newTestListener(t, "hello")

	good := Signature("hello", payload)
	altered := "0" + good[1:]
	if altered == good {
		altered = "1" + good[1:]
	}

	w := deliver(l, payload, altered)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, *calls, "callback must not fire on mismatch")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_signature", body["error"])
	assert.Equal(t, "Invalid signature", body["message"])
}

func TestListener_MissingSignatureHeader_Rejects(t *testing.T) {
	l, calls := newTestListener(t, "hello")

	w := deliver(l, `{}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, *calls)
}

func TestListener_RejectionLeaksNoCause(t *testing.T) {
	l, _ := newTestListener(t, "hello")

	wrongSecret := deliver(l, `{}`, Signature("other", `{}`))
	wrongPayload := deliver(l, `{"a":1}`, Signature("hello", `{}`))

	assert.Equal(t, wrongSecret.Code, wrongPayload.Code)
	// Identical reply shape either way: the caller cannot tell which input
	// failed to match.
	assert.Equal(t, wrongSecret.Body.Len() > 0, wrongPayload.Body.Len() > 0)
	assert.NotContains(t, wrongSecret.Body.String(), "secret")
	assert.NotContains(t, wrongPayload.Body.String(), "payload")
}

func TestListener_DoubleEncodedPayload_CanonicalizedOnce(t *testing.T) {
	inner := `{"name":"invoice.expired"}`
	outer, err := json.Marshal(inner) // legacy deliveries wrap the JSON text in a string
	require.NoError(t, err)

	l, calls := newTestListener(t, "hello")

	w := deliver(l, string(outer), Signature("hello", inner))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *calls, 1)
	assert.Equal(t, []byte(inner), (*calls)[0].payload, "callback sees the decoded canonical text")
}

func TestListener_PanickingCallback_Recovers(t *testing.T) {
	l, err := NewListener(ListenerConfig{
		Secret: "hello",
		Logger: zerolog.Nop(),
		Callback: func(http.Header, []byte) {
			panic("merchant code blew up")
		},
	})
	require.NoError(t, err)

	w := deliver(l, `{}`, Signature("hello", `{}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListener_OversizedBody_Rejected(t *testing.T) {
	l, calls := newTestListener(t, "hello")
	payload := `{"pad":"` + strings.Repeat("x", defaultMaxBody) + `"}`

	w := deliver(l, payload, Signature("hello", payload))

	assert.NotEqual(t, http.StatusOK, w.Code)
	assert.Empty(t, *calls)
}

func TestListener_CustomPath(t *testing.T) {
	var called bool
	l, err := NewListener(ListenerConfig{
		Secret: "hello",
		Path:   "/hooks/telepay",
		Logger: zerolog.Nop(),
		Callback: func(http.Header, []byte) {
			called = true
		},
	})
	require.NoError(t, err)

	payload := `{}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hooks/telepay", bytes.NewReader([]byte(payload)))
	req.Header.Set(SignatureHeader, Signature("hello", payload))
	l.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)

	// The old default path is not wired.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(payload)))
	req.Header.Set(SignatureHeader, Signature("hello", payload))
	l.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
