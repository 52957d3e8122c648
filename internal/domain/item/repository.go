package item

import "context"

// Repository defines the interface for item data access.
type Repository interface {
	Create(ctx context.Context, params CreateItemParams) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByUserID(ctx context.Context, userID string) ([]*Item, error)
	// ListAll returns every linked item. Used by the background sync
	// scheduler to build its job batch.
	ListAll(ctx context.Context) ([]*Item, error)
	// GetCursor returns the item's sync cursor, or nil if the item has
	// never completed a sync run.
	GetCursor(ctx context.Context, id string) (*string, error)
	// SetCursor durably advances the item's sync cursor. Callers must only
	// invoke this after every page of the run has been applied.
	SetCursor(ctx context.Context, id string, cursor string) error
	Delete(ctx context.Context, id string) error
}
