package sync

import (
	"context"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
	"finch/internal/domain/transaction"
	"finch/internal/infrastructure/provider"
)

// MockClient is a func-field fake of the provider client.
type MockClient struct {
	CreateLinkTokenFunc     func(ctx context.Context, userID string) (*provider.LinkTokenResponse, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string) (*provider.ExchangeResponse, error)
	GetAccountsFunc         func(ctx context.Context, accessToken string) (*provider.AccountsResponse, error)
	SyncTransactionsFunc    func(ctx context.Context, accessToken, cursor string) (*provider.SyncResponse, error)
	RemoveItemFunc          func(ctx context.Context, accessToken string) error
}

func (m *MockClient) CreateLinkToken(ctx context.Context, userID string) (*provider.LinkTokenResponse, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, userID)
	}
	return &provider.LinkTokenResponse{LinkToken: "link-test"}, nil
}

func (m *MockClient) ExchangePublicToken(ctx context.Context, publicToken string) (*provider.ExchangeResponse, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken)
	}
	return &provider.ExchangeResponse{AccessToken: "access-test", ProviderItemID: "provider-item-test"}, nil
}

func (m *MockClient) GetAccounts(ctx context.Context, accessToken string) (*provider.AccountsResponse, error) {
	if m.GetAccountsFunc != nil {
		return m.GetAccountsFunc(ctx, accessToken)
	}
	return &provider.AccountsResponse{}, nil
}

func (m *MockClient) SyncTransactions(ctx context.Context, accessToken, cursor string) (*provider.SyncResponse, error) {
	if m.SyncTransactionsFunc != nil {
		return m.SyncTransactionsFunc(ctx, accessToken, cursor)
	}
	return &provider.SyncResponse{}, nil
}

func (m *MockClient) RemoveItem(ctx context.Context, accessToken string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, accessToken)
	}
	return nil
}

type MockItemRepo struct {
	CreateFunc       func(ctx context.Context, params item.CreateItemParams) (*item.Item, error)
	GetByIDFunc      func(ctx context.Context, id string) (*item.Item, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*item.Item, error)
	ListAllFunc      func(ctx context.Context) ([]*item.Item, error)
	GetCursorFunc    func(ctx context.Context, id string) (*string, error)
	SetCursorFunc    func(ctx context.Context, id string, cursor string) error
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockItemRepo) Create(ctx context.Context, params item.CreateItemParams) (*item.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &item.Item{ID: "item-1", UserID: params.UserID, AccessToken: params.AccessToken}, nil
}

func (m *MockItemRepo) GetByID(ctx context.Context, id string) (*item.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockItemRepo) ListByUserID(ctx context.Context, userID string) ([]*item.Item, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockItemRepo) ListAll(ctx context.Context) ([]*item.Item, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockItemRepo) GetCursor(ctx context.Context, id string) (*string, error) {
	if m.GetCursorFunc != nil {
		return m.GetCursorFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockItemRepo) SetCursor(ctx context.Context, id string, cursor string) error {
	if m.SetCursorFunc != nil {
		return m.SetCursorFunc(ctx, id, cursor)
	}
	return nil
}

func (m *MockItemRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockAccountRepo struct {
	CreateFunc       func(ctx context.Context, params account.CreateAccountParams) (*account.Account, error)
	GetByIDFunc      func(ctx context.Context, id string) (*account.Account, error)
	ListByItemIDFunc func(ctx context.Context, itemID string) ([]*account.Account, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*account.Account, error)
	UpdateNameFunc   func(ctx context.Context, id string, name string) (*account.Account, error)
	DeleteFunc       func(ctx context.Context, id string) (bool, error)
}

func (m *MockAccountRepo) Create(ctx context.Context, params account.CreateAccountParams) (*account.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &account.Account{ID: "acc-" + params.ProviderAccountID, ItemID: params.ItemID, ProviderAccountID: params.ProviderAccountID}, nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListByItemID(ctx context.Context, itemID string) ([]*account.Account, error) {
	if m.ListByItemIDFunc != nil {
		return m.ListByItemIDFunc(ctx, itemID)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAccountRepo) UpdateName(ctx context.Context, id string, name string) (*account.Account, error) {
	if m.UpdateNameFunc != nil {
		return m.UpdateNameFunc(ctx, id, name)
	}
	return nil, nil
}

func (m *MockAccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

type MockTransactionRepo struct {
	GetByIDFunc            func(ctx context.Context, id string) (*transaction.Transaction, error)
	ListByAccountIDFunc    func(ctx context.Context, accountID string, limit, offset int) ([]*transaction.Transaction, error)
	ListByUserIDFunc       func(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error)
	UpsertByProviderIDFunc func(ctx context.Context, params transaction.UpsertTransactionParams) (*transaction.Transaction, error)
	DeleteByProviderIDFunc func(ctx context.Context, providerTransactionID string) error
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*transaction.Transaction, error) {
	if m.ListByAccountIDFunc != nil {
		return m.ListByAccountIDFunc(ctx, accountID, limit, offset)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockTransactionRepo) UpsertByProviderID(ctx context.Context, params transaction.UpsertTransactionParams) (*transaction.Transaction, error) {
	if m.UpsertByProviderIDFunc != nil {
		return m.UpsertByProviderIDFunc(ctx, params)
	}
	return &transaction.Transaction{ProviderTransactionID: params.ProviderTransactionID}, nil
}

func (m *MockTransactionRepo) DeleteByProviderID(ctx context.Context, providerTransactionID string) error {
	if m.DeleteByProviderIDFunc != nil {
		return m.DeleteByProviderIDFunc(ctx, providerTransactionID)
	}
	return nil
}

// fakeLedger is an in-memory transaction store used by tests that assert
// on the net state after a run (ordering and replay properties).
type fakeLedger struct {
	rows map[string]transaction.UpsertTransactionParams
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]transaction.UpsertTransactionParams)}
}

func (l *fakeLedger) repo() *MockTransactionRepo {
	return &MockTransactionRepo{
		UpsertByProviderIDFunc: func(ctx context.Context, params transaction.UpsertTransactionParams) (*transaction.Transaction, error) {
			l.rows[params.ProviderTransactionID] = params
			return &transaction.Transaction{ProviderTransactionID: params.ProviderTransactionID}, nil
		},
		DeleteByProviderIDFunc: func(ctx context.Context, providerTransactionID string) error {
			delete(l.rows, providerTransactionID)
			return nil
		},
	}
}
