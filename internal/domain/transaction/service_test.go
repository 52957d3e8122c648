package transaction

import (
	"context"
	"errors"
	"testing"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
)

type MockRepository struct {
	GetByIDFunc         func(ctx context.Context, id string) (*Transaction, error)
	ListByAccountIDFunc func(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error)
	ListByUserIDFunc    func(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error) {
	if m.ListByAccountIDFunc != nil {
		return m.ListByAccountIDFunc(ctx, accountID, limit, offset)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockRepository) UpsertByProviderID(ctx context.Context, params UpsertTransactionParams) (*Transaction, error) {
	return nil, nil
}

func (m *MockRepository) DeleteByProviderID(ctx context.Context, providerTransactionID string) error {
	return nil
}

type MockAccountRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*account.Account, error)
}

func (m *MockAccountRepository) Create(ctx context.Context, params account.CreateAccountParams) (*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountRepository) ListByItemID(ctx context.Context, itemID string) ([]*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepository) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepository) UpdateName(ctx context.Context, id string, name string) (*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type MockItemRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*item.Item, error)
}

func (m *MockItemRepository) Create(ctx context.Context, params item.CreateItemParams) (*item.Item, error) {
	return nil, nil
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockItemRepository) ListByUserID(ctx context.Context, userID string) ([]*item.Item, error) {
	return nil, nil
}

func (m *MockItemRepository) ListAll(ctx context.Context) ([]*item.Item, error) {
	return nil, nil
}

func (m *MockItemRepository) GetCursor(ctx context.Context, id string) (*string, error) {
	return nil, nil
}

func (m *MockItemRepository) SetCursor(ctx context.Context, id string, cursor string) error {
	return nil
}

func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func ownershipChain(ownerID string) (*MockAccountRepository, *MockItemRepository) {
	accountRepo := &MockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return &account.Account{ID: id, ItemID: "item-1"}, nil
		},
	}
	itemRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return &item.Item{ID: id, UserID: ownerID}, nil
		},
	}
	return accountRepo, itemRepo
}

func TestGetTransaction_Success(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Transaction, error) {
			return &Transaction{ID: id, AccountID: "acc-1", Name: "Coffee"}, nil
		},
	}
	accountRepo, itemRepo := ownershipChain("user-1")

	svc := NewService(repo, accountRepo, itemRepo)

	txn, err := svc.GetTransaction(context.Background(), "txn-1", "user-1")
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if txn.Name != "Coffee" {
		t.Errorf("unexpected transaction: %+v", txn)
	}
}

func TestGetTransaction_NotFound(t *testing.T) {
	accountRepo, itemRepo := ownershipChain("user-1")
	svc := NewService(&MockRepository{}, accountRepo, itemRepo)

	_, err := svc.GetTransaction(context.Background(), "missing", "user-1")
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestGetTransaction_Forbidden(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Transaction, error) {
			return &Transaction{ID: id, AccountID: "acc-1"}, nil
		},
	}
	accountRepo, itemRepo := ownershipChain("someone-else")

	svc := NewService(repo, accountRepo, itemRepo)

	_, err := svc.GetTransaction(context.Background(), "txn-1", "user-1")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestListTransactionsByAccountID_ChecksOwnership(t *testing.T) {
	repo := &MockRepository{
		ListByAccountIDFunc: func(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error) {
			return []*Transaction{{ID: "txn-1", AccountID: accountID}}, nil
		},
	}
	accountRepo, itemRepo := ownershipChain("user-1")

	svc := NewService(repo, accountRepo, itemRepo)

	txns, err := svc.ListTransactionsByAccountID(context.Background(), "acc-1", "user-1", 0, 0)
	if err != nil {
		t.Fatalf("ListTransactionsByAccountID failed: %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(txns))
	}

	if _, err := svc.ListTransactionsByAccountID(context.Background(), "acc-1", "intruder", 0, 0); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for other user, got %v", err)
	}
}

func TestListTransactionsByUserID_ClampsPagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults applied", limit: 0, offset: -5, wantLimit: defaultListLimit, wantOffset: 0},
		{name: "cap enforced", limit: 10000, offset: 20, wantLimit: maxListLimit, wantOffset: 20},
		{name: "passthrough", limit: 50, offset: 100, wantLimit: 50, wantOffset: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit, gotOffset int
			repo := &MockRepository{
				ListByUserIDFunc: func(ctx context.Context, userID string, limit, offset int) ([]*Transaction, error) {
					gotLimit, gotOffset = limit, offset
					return nil, nil
				},
			}
			accountRepo, itemRepo := ownershipChain("user-1")

			svc := NewService(repo, accountRepo, itemRepo)

			if _, err := svc.ListTransactionsByUserID(context.Background(), "user-1", tt.limit, tt.offset); err != nil {
				t.Fatalf("ListTransactionsByUserID failed: %v", err)
			}
			if gotLimit != tt.wantLimit || gotOffset != tt.wantOffset {
				t.Errorf("pagination = (%d, %d), want (%d, %d)", gotLimit, gotOffset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
