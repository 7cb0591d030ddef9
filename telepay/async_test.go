package telepay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telepay-cash/telepay-go/pkg/apperror"
)

func newTestAsyncClient(t *testing.T, handler http.Handler) *AsyncClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewAsync("sk_test", WithBaseURL(srv.URL))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestNewAsync_EmptyKeyFails(t *testing.T) {
	client, err := NewAsync("")
	require.Error(t, err)
	assert.Nil(t, client)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.TypeConfiguration, appErr.Type)
}

func TestAsync_AwaitReturnsSameResultAsSync(t *testing.T) {
	client := newTestAsyncClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"wallets":[{"asset":"TON","blockchain":"TON","network":"mainnet","balance":"1"}]}`))
	}))

	result, err := client.GetBalance(context.Background(), nil).Await(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Wallets, 1)
	assert.Equal(t, "TON", result.Wallets[0].Asset)
}

func TestAsync_ErrorTaxonomyMatchesSync(t *testing.T) {
	client := newTestAsyncClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden","message":"You are not authorized to perform this action."}`))
	}))

	_, err := client.GetMe(context.Background()).Await(context.Background())
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.TypeAPI, appErr.Type)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
}

func TestAsync_CallsDoNotBlockEachOther(t *testing.T) {
	release := make(chan struct{})
	var inFlight atomic.Int32

	client := newTestAsyncClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"merchant":{},"version":"2.0"}`))
	}))

	ctx := context.Background()
	first := client.GetMe(ctx)
	second := client.GetMe(ctx)

	// Both requests must be in flight concurrently before either completes.
	require.Eventually(t, func() bool {
		return inFlight.Load() == 2
	}, 2*time.Second, 5*time.Millisecond)
	close(release)

	_, err := first.Await(ctx)
	require.NoError(t, err)
	_, err = second.Await(ctx)
	require.NoError(t, err)
}

func TestAsync_AwaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	client := newTestAsyncClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"merchant":{}}`))
	}))

	pending := client.GetMe(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pending.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAsync_AwaitIsRepeatable(t *testing.T) {
	client := newTestAsyncClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"merchant":{"name":"Shop"}}`))
	}))

	pending := client.GetMe(context.Background())
	<-pending.Done()

	first, err := pending.Await(context.Background())
	require.NoError(t, err)
	second, err := pending.Await(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}
