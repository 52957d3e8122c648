package transaction

import "context"

// Repository defines the interface for transaction data access.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error)
	// UpsertByProviderID inserts the transaction or, when a row with the
	// same provider transaction id exists, updates its mutable fields.
	UpsertByProviderID(ctx context.Context, params UpsertTransactionParams) (*Transaction, error)
	// DeleteByProviderID removes the row matching the provider transaction
	// id. Deleting an absent row is not an error.
	DeleteByProviderID(ctx context.Context, providerTransactionID string) error
}
