package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID                string           `json:"id"`
	ItemID            string           `json:"itemId"`
	ProviderAccountID string           `json:"providerAccountId"`
	Name              string           `json:"name"`
	Mask              *string          `json:"mask,omitempty"`
	Balance           *decimal.Decimal `json:"balance,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

type CreateAccountParams struct {
	ItemID            string
	ProviderAccountID string
	Name              string
	Mask              *string
	Balance           *decimal.Decimal
}
