package account

import "context"

// Repository defines the interface for account data access.
type Repository interface {
	Create(ctx context.Context, params CreateAccountParams) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	ListByItemID(ctx context.Context, itemID string) ([]*Account, error)
	ListByUserID(ctx context.Context, userID string) ([]*Account, error)
	UpdateName(ctx context.Context, id string, name string) (*Account, error)
	// Delete removes the account and, when it was the last account under
	// its item, removes the item in the same database transaction.
	// Returns true when the parent item was removed.
	Delete(ctx context.Context, id string) (itemRemoved bool, err error)
}
