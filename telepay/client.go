// Package telepay is a Go client for the TelePay payment-processing REST API.
//
// Every method maps one typed call onto one HTTP request, normalizes non-2xx
// responses into *apperror.Error values, and decodes 2xx bodies into typed
// models that preserve unknown fields. The client performs no business
// validation and no retries: the server is the source of truth and its
// verdicts surface unchanged through the error taxonomy.
package telepay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/telepay-cash/telepay-go/config"
	"github.com/telepay-cash/telepay-go/pkg/apperror"
)

// Client is the synchronous TelePay API client. It is safe for concurrent
// use: it holds no mutable state beyond the transport's connection pool.
type Client struct {
	baseURL      string
	secretAPIKey string
	timeout      time.Duration
	http         Doer
	log          zerolog.Logger
}

// New creates a Client authenticated with the merchant's secret API key.
// An empty key fails immediately, before any network attempt; requests made
// with a wrong key surface later as 403 API errors.
func New(secretAPIKey string, opts ...Option) (*Client, error) {
	if secretAPIKey == "" {
		return nil, apperror.ErrMissingAPIKey()
	}

	c := &Client{
		baseURL:      config.DefaultBaseURL,
		secretAPIKey: secretAPIKey,
		timeout:      DefaultTimeout,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// FromConfig creates a Client from a loaded configuration.
func FromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	var base []Option
	if cfg.BaseURL != "" {
		base = append(base, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		base = append(base, WithTimeout(cfg.Timeout))
	}
	return New(cfg.SecretAPIKey, append(base, opts...)...)
}

// Close releases the transport's idle connections. Calling any method after
// Close is a usage error. Close is safe to call on a shared transport; it
// never tears down in-flight requests.
func (c *Client) Close() {
	if hc, ok := c.http.(*http.Client); ok {
		hc.CloseIdleConnections()
	}
}

// request runs one exchange: marshal body (nil means no body), send with the
// Authorization header, read, normalize. The returned bytes are the raw 2xx
// body ready for decoding.
func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apperror.Parse("encoding request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", c.secretAPIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("telepay request")

	if err := checkResponse(resp.StatusCode, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetMe returns info about the current merchant account.
func (c *Client) GetMe(ctx context.Context) (*Account, error) {
	body, err := c.request(ctx, http.MethodGet, "getMe", nil)
	if err != nil {
		return nil, err
	}
	var account Account
	if err := decode(body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAssets lists the assets supported by TelePay.
func (c *Client) GetAssets(ctx context.Context) (*Assets, error) {
	body, err := c.request(ctx, http.MethodGet, "getAssets", nil)
	if err != nil {
		return nil, err
	}
	var assets Assets
	if err := decode(body, &assets); err != nil {
		return nil, err
	}
	return &assets, nil
}

// GetBalance returns merchant wallet balances. With a nil filter it lists
// every wallet (Wallets branch); with a full (asset, blockchain, network)
// triple it returns that single wallet's snapshot (Wallet branch). The two
// shapes are a deliberate server-side contract, modeled here as the tagged
// BalanceResult union.
func (c *Client) GetBalance(ctx context.Context, filter *BalanceFilter) (*BalanceResult, error) {
	if filter != nil {
		body, err := c.request(ctx, http.MethodPost, "getBalance", filter)
		if err != nil {
			return nil, err
		}
		var wallet Wallet
		if err := decode(body, &wallet); err != nil {
			return nil, err
		}
		return &BalanceResult{Wallet: &wallet}, nil
	}

	body, err := c.request(ctx, http.MethodGet, "getBalance", nil)
	if err != nil {
		return nil, err
	}
	var wallets Wallets
	if err := decode(body, &wallets); err != nil {
		return nil, err
	}
	return &BalanceResult{Wallets: wallets.Wallets}, nil
}

// GetInvoices lists the merchant's invoices.
func (c *Client) GetInvoices(ctx context.Context) (*InvoiceList, error) {
	body, err := c.request(ctx, http.MethodGet, "getInvoices", nil)
	if err != nil {
		return nil, err
	}
	var list InvoiceList
	if err := decode(body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetInvoice fetches one invoice by its number.
func (c *Client) GetInvoice(ctx context.Context, number string) (*Invoice, error) {
	body, err := c.request(ctx, http.MethodGet, "getInvoice/"+number, nil)
	if err != nil {
		return nil, err
	}
	var invoice Invoice
	if err := decode(body, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoiceInput holds createInvoice parameters. Optional fields that
// stay nil are sent as explicit JSON nulls, which the server tolerates.
type CreateInvoiceInput struct {
	Asset       string          `json:"asset"`
	Blockchain  string          `json:"blockchain"`
	Network     string          `json:"network"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	Metadata    map[string]any  `json:"metadata"`
	SuccessURL  *string         `json:"success_url"`
	CancelURL   *string         `json:"cancel_url"`
	ExpiresAt   *int            `json:"expires_at"` // minutes until expiry
}

// CreateInvoice creates a payment request. Amount validity, asset support and
// the rest of the business rules are enforced server-side only.
func (c *Client) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*Invoice, error) {
	body, err := c.request(ctx, http.MethodPost, "createInvoice", input)
	if err != nil {
		return nil, err
	}
	var invoice Invoice
	if err := decode(body, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CancelInvoice cancels an invoice. Cancelling an already-cancelled invoice
// is a conflict reported through the API error, not a success.
func (c *Client) CancelInvoice(ctx context.Context, number string) (*Invoice, error) {
	body, err := c.request(ctx, http.MethodPost, "cancelInvoice/"+number, nil)
	if err != nil {
		return nil, err
	}
	var invoice Invoice
	if err := decode(body, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// DeleteInvoice deletes an invoice. Terminal: the number cannot be fetched
// afterwards.
func (c *Client) DeleteInvoice(ctx context.Context, number string) (DeleteResult, error) {
	body, err := c.request(ctx, http.MethodPost, "deleteInvoice/"+number, nil)
	if err != nil {
		return nil, err
	}
	var result DeleteResult
	if err := decode(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TransferInput holds transfer parameters. Off-chain operation between
// TelePay accounts.
type TransferInput struct {
	Asset      string          `json:"asset"`
	Blockchain string          `json:"blockchain"`
	Network    string          `json:"network"`
	Amount     decimal.Decimal `json:"amount"`
	Username   string          `json:"username"`
	Message    *string         `json:"message"`
}

// Transfer moves funds between internal wallets.
func (c *Client) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	body, err := c.request(ctx, http.MethodPost, "transfer", input)
	if err != nil {
		return nil, err
	}
	var result TransferResult
	if err := decode(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// WithdrawInput holds parameters shared by withdraw, getWithdrawMinimum and
// getWithdrawFee. On-chain operation to an external address.
type WithdrawInput struct {
	Asset      string          `json:"asset"`
	Blockchain string          `json:"blockchain"`
	Network    string          `json:"network"`
	Amount     decimal.Decimal `json:"amount"`
	ToAddress  string          `json:"to_address"`
	Message    *string         `json:"message"`
}

// GetWithdrawMinimum returns the minimum withdrawable amount for an asset.
func (c *Client) GetWithdrawMinimum(ctx context.Context, input WithdrawInput) (WithdrawResult, error) {
	return c.withdrawCall(ctx, "getWithdrawMinimum", input)
}

// GetWithdrawFee returns the estimated withdraw fee, composed of blockchain
// fee and processing fee.
func (c *Client) GetWithdrawFee(ctx context.Context, input WithdrawInput) (WithdrawResult, error) {
	return c.withdrawCall(ctx, "getWithdrawFee", input)
}

// Withdraw moves funds from the merchant wallet to an external address.
func (c *Client) Withdraw(ctx context.Context, input WithdrawInput) (WithdrawResult, error) {
	return c.withdrawCall(ctx, "withdraw", input)
}

func (c *Client) withdrawCall(ctx context.Context, path string, input WithdrawInput) (WithdrawResult, error) {
	body, err := c.request(ctx, http.MethodPost, path, input)
	if err != nil {
		return nil, err
	}
	var result WithdrawResult
	if err := decode(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetWebhooks lists the merchant's registered webhooks.
func (c *Client) GetWebhooks(ctx context.Context) (*Webhooks, error) {
	body, err := c.request(ctx, http.MethodGet, "getWebhooks", nil)
	if err != nil {
		return nil, err
	}
	var hooks Webhooks
	if err := decode(body, &hooks); err != nil {
		return nil, err
	}
	return &hooks, nil
}

// GetWebhook fetches one webhook by id.
func (c *Client) GetWebhook(ctx context.Context, id string) (*Webhook, error) {
	body, err := c.request(ctx, http.MethodGet, "getWebhook/"+id, nil)
	if err != nil {
		return nil, err
	}
	var hook Webhook
	if err := decode(body, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// WebhookInput holds createWebhook/updateWebhook parameters.
type WebhookInput struct {
	URL    string   `json:"url"`
	Secret string   `json:"secret"`
	Events []string `json:"events"`
	Active bool     `json:"active"`
}

// CreateWebhook registers a webhook subscription.
func (c *Client) CreateWebhook(ctx context.Context, input WebhookInput) (*Webhook, error) {
	return c.webhookCall(ctx, "createWebhook", input)
}

// UpdateWebhook replaces a webhook's settings and returns the new snapshot.
func (c *Client) UpdateWebhook(ctx context.Context, id string, input WebhookInput) (*Webhook, error) {
	return c.webhookCall(ctx, "updateWebhook/"+id, input)
}

// ActivateWebhook enables event delivery for a webhook.
func (c *Client) ActivateWebhook(ctx context.Context, id string) (*Webhook, error) {
	return c.webhookCall(ctx, "activateWebhook/"+id, nil)
}

// DeactivateWebhook pauses event delivery for a webhook.
func (c *Client) DeactivateWebhook(ctx context.Context, id string) (*Webhook, error) {
	return c.webhookCall(ctx, "deactivateWebhook/"+id, nil)
}

// DeleteWebhook removes a webhook. Terminal.
func (c *Client) DeleteWebhook(ctx context.Context, id string) (DeleteResult, error) {
	body, err := c.request(ctx, http.MethodPost, "deleteWebhook/"+id, nil)
	if err != nil {
		return nil, err
	}
	var result DeleteResult
	if err := decode(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) webhookCall(ctx context.Context, path string, body any) (*Webhook, error) {
	raw, err := c.request(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	var hook Webhook
	if err := decode(raw, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}
