// Package item models one linked financial-institution connection.
// An item owns the durable provider access token and the sync cursor
// marking how much of the provider's transaction stream has been consumed.
package item

import (
	"time"
)

type Item struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	AccessToken     string    `json:"-"` // Encrypted at rest, never exposed to clients
	ProviderItemID  string    `json:"providerItemId"`
	InstitutionID   string    `json:"institutionId"`
	InstitutionName string    `json:"institutionName"`
	Cursor          *string   `json:"-"` // Nil means the item has never been synced
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateItemParams struct {
	UserID          string
	AccessToken     string
	ProviderItemID  string
	InstitutionID   string
	InstitutionName string
}
