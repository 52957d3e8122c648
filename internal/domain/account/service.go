package account

import (
	"context"
	"errors"

	"finch/internal/domain/item"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("account does not belong to user")
)

// Service contains the business logic for account operations. Ownership
// is indirect: an account belongs to an item, and the item belongs to a
// user, so every per-account operation walks that chain.
type Service struct {
	repo     Repository
	itemRepo item.Repository
}

func NewService(repo Repository, itemRepo item.Repository) *Service {
	return &Service{repo: repo, itemRepo: itemRepo}
}

// GetAccount retrieves an account by ID and verifies user ownership.
func (s *Service) GetAccount(ctx context.Context, accountID, userID string) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}

	it, err := s.itemRepo.GetByID(ctx, acc.ItemID)
	if err != nil {
		return nil, err
	}
	if it == nil || it.UserID != userID {
		return nil, ErrForbidden
	}

	return acc, nil
}

// ListAccountsByUserID retrieves all accounts across the user's items.
func (s *Service) ListAccountsByUserID(ctx context.Context, userID string) ([]*Account, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// ListAccountsByItemID retrieves the accounts of one item after verifying
// the item belongs to the user.
func (s *Service) ListAccountsByItemID(ctx context.Context, itemID, userID string) ([]*Account, error) {
	it, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, item.ErrItemNotFound
	}
	if it.UserID != userID {
		return nil, ErrForbidden
	}

	return s.repo.ListByItemID(ctx, itemID)
}

// RenameAccount updates the account's display name after verifying
// ownership.
func (s *Service) RenameAccount(ctx context.Context, accountID, userID, name string) (*Account, error) {
	if name == "" {
		return nil, errors.New("account name is required")
	}

	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return nil, err
	}

	return s.repo.UpdateName(ctx, accountID, name)
}

// DeleteAccount deletes an account after verifying ownership. When the
// account was the item's last, the item is deleted with it; the caller is
// told so it can surface the side effect.
func (s *Service) DeleteAccount(ctx context.Context, accountID, userID string) (itemRemoved bool, err error) {
	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return false, err
	}

	return s.repo.Delete(ctx, accountID)
}
