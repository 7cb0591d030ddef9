package telepay

import (
	"context"

	"github.com/telepay-cash/telepay-go/config"
)

// Result is an in-flight asynchronous call. Await blocks until the call
// completes or ctx is done; it may be called any number of times.
type Result[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Await returns the call's outcome. A ctx cancellation here only abandons
// the wait; the underlying request keeps its own context.
func (r *Result[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done exposes completion for select loops.
func (r *Result[T]) Done() <-chan struct{} {
	return r.done
}

func run[T any](fn func() (T, error)) *Result[T] {
	r := &Result[T]{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.value, r.err = fn()
	}()
	return r
}

// AsyncClient mirrors Client method for method: same inputs, same typed
// outputs, same error taxonomy. Each call runs on its own goroutine and
// returns a Result immediately instead of blocking the caller.
type AsyncClient struct {
	c *Client
}

// NewAsync creates an AsyncClient. Construction rules match New.
func NewAsync(secretAPIKey string, opts ...Option) (*AsyncClient, error) {
	c, err := New(secretAPIKey, opts...)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{c: c}, nil
}

// AsyncFromConfig creates an AsyncClient from a loaded configuration.
func AsyncFromConfig(cfg *config.Config, opts ...Option) (*AsyncClient, error) {
	c, err := FromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{c: c}, nil
}

// Sync returns the blocking client sharing this transport.
func (a *AsyncClient) Sync() *Client {
	return a.c
}

// Close releases the transport's idle connections.
func (a *AsyncClient) Close() {
	a.c.Close()
}

func (a *AsyncClient) GetMe(ctx context.Context) *Result[*Account] {
	return run(func() (*Account, error) { return a.c.GetMe(ctx) })
}

func (a *AsyncClient) GetAssets(ctx context.Context) *Result[*Assets] {
	return run(func() (*Assets, error) { return a.c.GetAssets(ctx) })
}

func (a *AsyncClient) GetBalance(ctx context.Context, filter *BalanceFilter) *Result[*BalanceResult] {
	return run(func() (*BalanceResult, error) { return a.c.GetBalance(ctx, filter) })
}

func (a *AsyncClient) GetInvoices(ctx context.Context) *Result[*InvoiceList] {
	return run(func() (*InvoiceList, error) { return a.c.GetInvoices(ctx) })
}

func (a *AsyncClient) GetInvoice(ctx context.Context, number string) *Result[*Invoice] {
	return run(func() (*Invoice, error) { return a.c.GetInvoice(ctx, number) })
}

func (a *AsyncClient) CreateInvoice(ctx context.Context, input CreateInvoiceInput) *Result[*Invoice] {
	return run(func() (*Invoice, error) { return a.c.CreateInvoice(ctx, input) })
}

func (a *AsyncClient) CancelInvoice(ctx context.Context, number string) *Result[*Invoice] {
	return run(func() (*Invoice, error) { return a.c.CancelInvoice(ctx, number) })
}

func (a *AsyncClient) DeleteInvoice(ctx context.Context, number string) *Result[DeleteResult] {
	return run(func() (DeleteResult, error) { return a.c.DeleteInvoice(ctx, number) })
}

func (a *AsyncClient) Transfer(ctx context.Context, input TransferInput) *Result[TransferResult] {
	return run(func() (TransferResult, error) { return a.c.Transfer(ctx, input) })
}

func (a *AsyncClient) GetWithdrawMinimum(ctx context.Context, input WithdrawInput) *Result[WithdrawResult] {
	return run(func() (WithdrawResult, error) { return a.c.GetWithdrawMinimum(ctx, input) })
}

func (a *AsyncClient) GetWithdrawFee(ctx context.Context, input WithdrawInput) *Result[WithdrawResult] {
	return run(func() (WithdrawResult, error) { return a.c.GetWithdrawFee(ctx, input) })
}

func (a *AsyncClient) Withdraw(ctx context.Context, input WithdrawInput) *Result[WithdrawResult] {
	return run(func() (WithdrawResult, error) { return a.c.Withdraw(ctx, input) })
}

func (a *AsyncClient) GetWebhooks(ctx context.Context) *Result[*Webhooks] {
	return run(func() (*Webhooks, error) { return a.c.GetWebhooks(ctx) })
}

func (a *AsyncClient) GetWebhook(ctx context.Context, id string) *Result[*Webhook] {
	return run(func() (*Webhook, error) { return a.c.GetWebhook(ctx, id) })
}

func (a *AsyncClient) CreateWebhook(ctx context.Context, input WebhookInput) *Result[*Webhook] {
	return run(func() (*Webhook, error) { return a.c.CreateWebhook(ctx, input) })
}

func (a *AsyncClient) UpdateWebhook(ctx context.Context, id string, input WebhookInput) *Result[*Webhook] {
	return run(func() (*Webhook, error) { return a.c.UpdateWebhook(ctx, id, input) })
}

func (a *AsyncClient) ActivateWebhook(ctx context.Context, id string) *Result[*Webhook] {
	return run(func() (*Webhook, error) { return a.c.ActivateWebhook(ctx, id) })
}

func (a *AsyncClient) DeactivateWebhook(ctx context.Context, id string) *Result[*Webhook] {
	return run(func() (*Webhook, error) { return a.c.DeactivateWebhook(ctx, id) })
}

func (a *AsyncClient) DeleteWebhook(ctx context.Context, id string) *Result[DeleteResult] {
	return run(func() (DeleteResult, error) { return a.c.DeleteWebhook(ctx, id) })
}
