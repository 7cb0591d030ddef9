package telepay

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the fixed timestamp format used by the TelePay API
// (microsecond precision, UTC, trailing fractional zeros omitted).
const TimeLayout = "2006-01-02T15:04:05.999999Z"

// Time is a time.Time that marshals using TimeLayout.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(TimeLayout))
}

// Account is the merchant profile returned by getMe. The profile is an
// open-ended mapping whose attributes vary by server version, so only the
// envelope is typed.
type Account struct {
	Merchant map[string]json.RawMessage `json:"merchant"`
	Version  json.RawMessage            `json:"version,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (a *Account) UnmarshalJSON(data []byte) error {
	type alias Account
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "merchant", "version")
	if err != nil {
		return err
	}
	*a = Account(out)
	a.Extra = extra
	return nil
}

// Asset is a currency supported by TelePay, with chain and pricing metadata.
type Asset struct {
	Asset       string          `json:"asset"`
	Blockchain  string          `json:"blockchain"`
	URL         string          `json:"url"`
	PriceUSD    decimal.Decimal `json:"usd_price"`
	Networks    []string        `json:"networks"`
	CoingeckoID string          `json:"coingecko_id"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	type alias Asset
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "asset", "blockchain", "url", "usd_price", "networks", "coingecko_id")
	if err != nil {
		return err
	}
	*a = Asset(out)
	a.Extra = extra
	return nil
}

// Assets is the getAssets response envelope.
type Assets struct {
	Assets []Asset `json:"assets"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (a *Assets) UnmarshalJSON(data []byte) error {
	type alias Assets
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "assets")
	if err != nil {
		return err
	}
	*a = Assets(out)
	a.Extra = extra
	return nil
}

// Wallet is a balance record scoped to one (asset, blockchain, network)
// triple. Balance is non-negative in the general case; the server may return
// a negative value only to signal an error state.
type Wallet struct {
	Asset      string          `json:"asset"`
	Blockchain string          `json:"blockchain"`
	Network    string          `json:"network"`
	Balance    decimal.Decimal `json:"balance"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (w *Wallet) UnmarshalJSON(data []byte) error {
	type alias Wallet
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "asset", "blockchain", "network", "balance")
	if err != nil {
		return err
	}
	*w = Wallet(out)
	w.Extra = extra
	return nil
}

// Wallets is the unfiltered getBalance response envelope.
type Wallets struct {
	Wallets []Wallet `json:"wallets"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (w *Wallets) UnmarshalJSON(data []byte) error {
	type alias Wallets
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "wallets")
	if err != nil {
		return err
	}
	*w = Wallets(out)
	w.Extra = extra
	return nil
}

// Invoice statuses known to this client. The field itself is an open string:
// the server may introduce new states without a client release.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusCompleted = "completed"
	InvoiceStatusCancelled = "cancelled"
	InvoiceStatusExpired   = "expired"
	InvoiceStatusDeleted   = "deleted"
)

// Invoice is a merchant-created payment request. It is an immutable snapshot:
// re-fetch by number for fresh state.
type Invoice struct {
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	Asset         string          `json:"asset"`
	Blockchain    string          `json:"blockchain"`
	Network       string          `json:"network"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	HiddenMessage string          `json:"hidden_message"`
	Metadata      json.RawMessage `json:"metadata"`
	SuccessURL    string          `json:"success_url"`
	CancelURL     string          `json:"cancel_url"`
	ExplorerURL   string          `json:"explorer_url"`
	CheckoutURL   string          `json:"checkout_url"`
	CreatedAt     Time            `json:"created_at"`
	ExpiresAt     Time            `json:"expires_at"`
	UpdatedAt     *Time           `json:"updated_at"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (i *Invoice) UnmarshalJSON(data []byte) error {
	type alias Invoice
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data,
		"number", "status", "asset", "blockchain", "network", "amount",
		"description", "hidden_message", "metadata", "success_url",
		"cancel_url", "explorer_url", "checkout_url", "created_at",
		"expires_at", "updated_at")
	if err != nil {
		return err
	}
	*i = Invoice(out)
	i.Extra = extra
	return nil
}

// InvoiceList is the getInvoices response envelope. Order is preserved as
// returned by the server.
type InvoiceList struct {
	Invoices []Invoice `json:"invoices"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (l *InvoiceList) UnmarshalJSON(data []byte) error {
	type alias InvoiceList
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "invoices")
	if err != nil {
		return err
	}
	*l = InvoiceList(out)
	l.Extra = extra
	return nil
}

// Webhook is a registered callback URL receiving signed event notifications.
type Webhook struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Secret string   `json:"secret"`
	Events []string `json:"events"`
	Active bool     `json:"active"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (w *Webhook) UnmarshalJSON(data []byte) error {
	type alias Webhook
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "id", "url", "secret", "events", "active")
	if err != nil {
		return err
	}
	*w = Webhook(out)
	w.Extra = extra
	return nil
}

// Webhooks is the getWebhooks response envelope.
type Webhooks struct {
	Webhooks []Webhook `json:"webhooks"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (w *Webhooks) UnmarshalJSON(data []byte) error {
	type alias Webhooks
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	extra, err := extraFields(data, "webhooks")
	if err != nil {
		return err
	}
	*w = Webhooks(out)
	w.Extra = extra
	return nil
}

// TransferResult is the outcome of an off-chain transfer. The server's shape
// is not contractual beyond error detection, so it passes through opaque.
type TransferResult map[string]any

// WithdrawResult is the outcome of an on-chain withdrawal or a fee estimate.
// Opaque pass-through, same as TransferResult.
type WithdrawResult map[string]any

// DeleteResult is the acknowledgement returned by delete operations.
type DeleteResult map[string]any

// BalanceFilter narrows getBalance to a single wallet. All three fields are
// required for the filtered branch.
type BalanceFilter struct {
	Asset      string `json:"asset"`
	Blockchain string `json:"blockchain"`
	Network    string `json:"network"`
}

// BalanceResult is the tagged union returned by GetBalance: exactly one of
// Wallet (filtered call) or Wallets (unfiltered call) is set. The server has
// shipped both shapes for the filtered call over time; this client pins the
// single-wallet form.
type BalanceResult struct {
	Wallet  *Wallet
	Wallets []Wallet
}
