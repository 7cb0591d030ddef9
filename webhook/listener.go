package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/telepay-cash/telepay-go/pkg/apperror"
)

// SignatureHeader carries the payload signature on every delivery.
const SignatureHeader = "Webhook-Signature"

// AckBody is the fixed acknowledgement the server expects on success.
const AckBody = "Thanks TelePay"

const defaultMaxBody = 1 << 20 // 1 MB

// HandlerFunc is invoked for each delivery whose signature verified. payload
// is the canonical JSON text that was fed into the signature hash.
type HandlerFunc func(headers http.Header, payload []byte)

// ListenerConfig configures a Listener. Secret and Callback are required;
// the rest default to localhost:5000 /webhook with a disabled logger.
type ListenerConfig struct {
	Host     string
	Port     int
	Path     string
	Secret   string
	Callback HandlerFunc
	Logger   zerolog.Logger
}

// Listener is a single-route inbound webhook server. Its (host, port, path)
// binding, secret and callback are fixed at construction and immutable.
// Each delivery is handled independently with no shared mutable state.
type Listener struct {
	addr     string
	path     string
	secret   string
	callback HandlerFunc
	log      zerolog.Logger
	engine   *gin.Engine
}

// NewListener builds a Listener and wires its single POST route.
func NewListener(cfg ListenerConfig) (*Listener, error) {
	if cfg.Secret == "" {
		return nil, apperror.ErrMissingAPIKey()
	}
	if cfg.Callback == nil {
		return nil, apperror.Configuration("webhook callback is not set")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.Path == "" {
		cfg.Path = "/webhook"
	}

	l := &Listener{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		path:     cfg.Path,
		secret:   cfg.Secret,
		callback: cfg.Callback,
		log:      cfg.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(recovery(l.log))
	engine.Use(requestID())
	engine.Use(requestLogger(l.log))
	engine.Use(maxBodySize(defaultMaxBody))
	engine.POST(l.path, l.handle)
	l.engine = engine

	return l, nil
}

// Engine exposes the wired gin engine, mainly for tests and embedding into a
// larger server.
func (l *Listener) Engine() *gin.Engine {
	return l.engine
}

// URL returns the full local endpoint deliveries should be sent to.
func (l *Listener) URL() string {
	return fmt.Sprintf("http://%s%s", l.addr, l.path)
}

func (l *Listener) handle(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":      "invalid_payload",
			"message":    "Could not read request body",
			"request_id": c.GetString("request_id"),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	// Older server revisions double-encode the payload as a JSON string.
	// The decoded text is then the canonical payload for both the hash and
	// the callback.
	payload := string(raw)
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		payload = inner
	}

	received := c.GetHeader(SignatureHeader)
	if received == "" || !Verify(l.secret, payload, received) {
		replyError(c, apperror.ErrInvalidSignature())
		return
	}

	l.callback(c.Request.Header, []byte(payload))
	c.String(http.StatusOK, AckBody)
}

func replyError(c *gin.Context, err *apperror.Error) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error":      err.Code,
		"message":    err.Message,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// Run serves deliveries until the process exits or the server fails.
func (l *Listener) Run() error {
	l.log.Info().Str("addr", l.addr).Str("path", l.path).Msg("webhook listener starting")
	return l.engine.Run(l.addr)
}

// RunContext serves deliveries until ctx is done, then shuts down gracefully.
func (l *Listener) RunContext(ctx context.Context) error {
	srv := &http.Server{
		Addr:    l.addr,
		Handler: l.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		l.log.Info().Str("addr", l.addr).Str("path", l.path).Msg("webhook listener starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
