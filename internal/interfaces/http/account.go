package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
	"finch/internal/shared/middleware"
)

type AccountHandler struct {
	accountService *account.Service
}

func NewAccountHandler(accountService *account.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type RenameAccountRequest struct {
	Name string `json:"name"`
}

type DeleteAccountResponse struct {
	ItemRemoved bool `json:"itemRemoved"`
}

// HandleListAccounts returns all accounts for the authenticated user.
// With ?itemId= it narrows to one item's accounts.
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var accounts []*account.Account
	var err error
	if itemID := r.URL.Query().Get("itemId"); itemID != "" {
		accounts, err = h.accountService.ListAccountsByItemID(r.Context(), itemID, userID)
	} else {
		accounts, err = h.accountService.ListAccountsByUserID(r.Context(), userID)
	}
	if err != nil {
		writeAccountError(w, userID, err)
		return
	}

	if accounts == nil {
		accounts = []*account.Account{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

// HandleAccountByID handles operations on a specific account (GET, PATCH
// and DELETE).
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetAccount(w, r, userID, accountID)
	case http.MethodPatch:
		h.handleRenameAccount(w, r, userID, accountID)
	case http.MethodDelete:
		h.handleDeleteAccount(w, r, userID, accountID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleGetAccount(w http.ResponseWriter, r *http.Request, userID, accountID string) {
	acc, err := h.accountService.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acc)
}

func (h *AccountHandler) handleRenameAccount(w http.ResponseWriter, r *http.Request, userID, accountID string) {
	var req RenameAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Account name is required", http.StatusBadRequest)
		return
	}

	acc, err := h.accountService.RenameAccount(r.Context(), accountID, userID, req.Name)
	if err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acc)
}

func (h *AccountHandler) handleDeleteAccount(w http.ResponseWriter, r *http.Request, userID, accountID string) {
	itemRemoved, err := h.accountService.DeleteAccount(r.Context(), accountID, userID)
	if err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DeleteAccountResponse{ItemRemoved: itemRemoved})
}

func writeAccountError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, item.ErrItemNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
	case errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Printf("Error on account %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
