package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                    string          `json:"id"`
	AccountID             string          `json:"accountId"`
	ProviderTransactionID string          `json:"providerTransactionId"`
	Amount                decimal.Decimal `json:"amount"`
	Name                  string          `json:"name"`
	MerchantName          *string         `json:"merchantName,omitempty"`
	Category              []string        `json:"category"`
	Date                  time.Time       `json:"date"`
	AuthorizedDate        *time.Time      `json:"authorizedDate,omitempty"`
	Pending               bool            `json:"pending"`
	ISOCurrencyCode       *string         `json:"isoCurrencyCode,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// UpsertTransactionParams is used when applying provider deltas. The
// provider transaction id is the conflict key, so re-applying the same
// delta is idempotent.
type UpsertTransactionParams struct {
	AccountID             string
	ProviderTransactionID string
	Amount                decimal.Decimal
	Name                  string
	MerchantName          *string
	Date                  time.Time
	AuthorizedDate        *time.Time
	Pending               bool
	ISOCurrencyCode       *string
}
