package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finch/internal/domain/item"
	"finch/internal/domain/sync"
	"finch/internal/shared/middleware"
)

type ItemHandler struct {
	itemService *item.Service
	syncService *sync.Service
}

func NewItemHandler(itemService *item.Service, syncService *sync.Service) *ItemHandler {
	return &ItemHandler{itemService: itemService, syncService: syncService}
}

// HandleListItems returns all items linked by the authenticated user.
func (h *ItemHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.itemService.ListItemsByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing items for user %s: %v", userID, err)
		http.Error(w, "Failed to list items", http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []*item.Item{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// HandleItemByID handles operations on a specific item (GET and DELETE).
func (h *ItemHandler) HandleItemByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := r.PathValue("id")
	if itemID == "" {
		http.Error(w, "Item ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetItem(w, r, userID, itemID)
	case http.MethodDelete:
		h.handleUnlinkItem(w, r, userID, itemID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ItemHandler) handleGetItem(w http.ResponseWriter, r *http.Request, userID, itemID string) {
	it, err := h.itemService.GetItem(r.Context(), itemID, userID)
	if err != nil {
		writeItemError(w, itemID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(it)
}

// handleUnlinkItem revokes the provider connection and deletes the item
// along with its accounts and transactions.
func (h *ItemHandler) handleUnlinkItem(w http.ResponseWriter, r *http.Request, userID, itemID string) {
	if _, err := h.itemService.GetItem(r.Context(), itemID, userID); err != nil {
		writeItemError(w, itemID, err)
		return
	}

	if err := h.syncService.UnlinkItem(r.Context(), itemID); err != nil {
		log.Printf("Error unlinking item %s: %v", itemID, err)
		http.Error(w, "Failed to unlink item", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeItemError(w http.ResponseWriter, itemID string, err error) {
	switch {
	case errors.Is(err, item.ErrItemNotFound), errors.Is(err, sync.ErrItemNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
	case errors.Is(err, item.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Printf("Error on item %s: %v", itemID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
