package transaction

import (
	"context"
	"errors"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("transaction does not belong to user")
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Service contains the business logic for reading transactions. Writes go
// through the reconciliation engine, never through the API.
type Service struct {
	repo        Repository
	accountRepo account.Repository
	itemRepo    item.Repository
}

func NewService(repo Repository, accountRepo account.Repository, itemRepo item.Repository) *Service {
	return &Service{repo: repo, accountRepo: accountRepo, itemRepo: itemRepo}
}

// GetTransaction retrieves a transaction and verifies ownership through
// the account and item chain.
func (s *Service) GetTransaction(ctx context.Context, transactionID, userID string) (*Transaction, error) {
	txn, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}

	if err := s.verifyAccountOwnership(ctx, txn.AccountID, userID); err != nil {
		return nil, err
	}

	return txn, nil
}

// ListTransactionsByUserID retrieves the user's transactions across all
// accounts, newest first.
func (s *Service) ListTransactionsByUserID(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error) {
	limit, offset = clampPagination(limit, offset)
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

// ListTransactionsByAccountID retrieves one account's transactions after
// verifying the account belongs to the user.
func (s *Service) ListTransactionsByAccountID(ctx context.Context, accountID, userID string, limit, offset int) ([]*Transaction, error) {
	if err := s.verifyAccountOwnership(ctx, accountID, userID); err != nil {
		return nil, err
	}

	limit, offset = clampPagination(limit, offset)
	return s.repo.ListByAccountID(ctx, accountID, limit, offset)
}

func (s *Service) verifyAccountOwnership(ctx context.Context, accountID, userID string) error {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acc == nil {
		return account.ErrAccountNotFound
	}

	it, err := s.itemRepo.GetByID(ctx, acc.ItemID)
	if err != nil {
		return err
	}
	if it == nil || it.UserID != userID {
		return ErrForbidden
	}

	return nil
}

func clampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
