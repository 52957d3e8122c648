package provider

import (
	"context"
)

// ClientInterface defines the methods required from the aggregation
// provider client.
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, userID string) (*LinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncResponse, error)
	RemoveItem(ctx context.Context, accessToken string) error
}
