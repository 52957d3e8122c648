package item

import (
	"context"
	"errors"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrForbidden    = errors.New("item does not belong to user")
)

// Service contains the business logic for item operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetItem retrieves an item by ID and verifies user ownership.
func (s *Service) GetItem(ctx context.Context, itemID, userID string) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrItemNotFound
	}
	if it.UserID != userID {
		return nil, ErrForbidden
	}
	return it, nil
}

// ListItemsByUserID retrieves all items linked by the user.
func (s *Service) ListItemsByUserID(ctx context.Context, userID string) ([]*Item, error) {
	return s.repo.ListByUserID(ctx, userID)
}
