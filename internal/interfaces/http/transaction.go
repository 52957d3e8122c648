package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"finch/internal/domain/account"
	"finch/internal/domain/transaction"
	"finch/internal/shared/middleware"
)

type TransactionHandler struct {
	transactionService *transaction.Service
}

func NewTransactionHandler(transactionService *transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// HandleListTransactions returns the user's transactions, newest first.
// With ?accountId= it narrows to one account. Supports ?limit= and
// ?offset= for paging.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	var txns []*transaction.Transaction
	var err error
	if accountID := r.URL.Query().Get("accountId"); accountID != "" {
		txns, err = h.transactionService.ListTransactionsByAccountID(r.Context(), accountID, userID, limit, offset)
	} else {
		txns, err = h.transactionService.ListTransactionsByUserID(r.Context(), userID, limit, offset)
	}
	if err != nil {
		writeTransactionError(w, userID, err)
		return
	}

	if txns == nil {
		txns = []*transaction.Transaction{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txns)
}

// HandleGetTransaction returns a single transaction.
func (h *TransactionHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactionID := r.PathValue("id")
	if transactionID == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	txn, err := h.transactionService.GetTransaction(r.Context(), transactionID, userID)
	if err != nil {
		writeTransactionError(w, transactionID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}

func writeTransactionError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, transaction.ErrTransactionNotFound):
		http.Error(w, "Transaction not found", http.StatusNotFound)
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrForbidden), errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Printf("Error on transaction %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
