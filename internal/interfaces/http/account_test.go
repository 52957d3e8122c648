package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
)

func accountFixtures(owner string) *account.Service {
	accountRepo := &MockAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			if id == "acc-1" {
				return &account.Account{ID: id, ItemID: "item-1", Name: "Checking"}, nil
			}
			return nil, nil
		},
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*account.Account, error) {
			return []*account.Account{{ID: "acc-1", ItemID: "item-1", Name: "Checking"}}, nil
		},
		UpdateNameFunc: func(ctx context.Context, id string, name string) (*account.Account, error) {
			return &account.Account{ID: id, ItemID: "item-1", Name: name}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) (bool, error) {
			return true, nil
		},
	}
	itemRepo := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return &item.Item{ID: id, UserID: owner}, nil
		},
	}
	return account.NewService(accountRepo, itemRepo)
}

func TestHandleListAccounts(t *testing.T) {
	handler := NewAccountHandler(accountFixtures("user-1"))

	rr := httptest.NewRecorder()
	handler.HandleListAccounts(rr, authedRequest(http.MethodGet, "/api/accounts", "user-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var accounts []*account.Account
	if err := json.NewDecoder(rr.Body).Decode(&accounts); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Checking" {
		t.Errorf("unexpected accounts: %+v", accounts)
	}
}

func TestHandleAccountByID_Get(t *testing.T) {
	handler := NewAccountHandler(accountFixtures("user-1"))

	req := authedRequest(http.MethodGet, "/api/accounts/acc-1", "user-1")
	req.SetPathValue("id", "acc-1")
	rr := httptest.NewRecorder()

	handler.HandleAccountByID(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestHandleAccountByID_Forbidden(t *testing.T) {
	handler := NewAccountHandler(accountFixtures("someone-else"))

	req := authedRequest(http.MethodGet, "/api/accounts/acc-1", "user-1")
	req.SetPathValue("id", "acc-1")
	rr := httptest.NewRecorder()

	handler.HandleAccountByID(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

func TestHandleAccountByID_NotFound(t *testing.T) {
	handler := NewAccountHandler(accountFixtures("user-1"))

	req := authedRequest(http.MethodGet, "/api/accounts/missing", "user-1")
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	handler.HandleAccountByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandleAccountByID_Delete(t *testing.T) {
	handler := NewAccountHandler(accountFixtures("user-1"))

	req := authedRequest(http.MethodDelete, "/api/accounts/acc-1", "user-1")
	req.SetPathValue("id", "acc-1")
	rr := httptest.NewRecorder()

	handler.HandleAccountByID(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp DeleteAccountResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.ItemRemoved {
		t.Error("expected itemRemoved=true for last account")
	}
}
