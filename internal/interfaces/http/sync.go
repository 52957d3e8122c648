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

type SyncHandler struct {
	itemService *item.Service
	syncService *sync.Service
}

func NewSyncHandler(itemService *item.Service, syncService *sync.Service) *SyncHandler {
	return &SyncHandler{itemService: itemService, syncService: syncService}
}

// HandleSyncItem triggers a reconciliation pass for one item.
func (h *SyncHandler) HandleSyncItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

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

	// Ownership check before the engine runs.
	if _, err := h.itemService.GetItem(r.Context(), itemID, userID); err != nil {
		writeItemError(w, itemID, err)
		return
	}

	result, err := h.syncService.SyncItem(r.Context(), itemID)
	if err != nil {
		switch {
		case errors.Is(err, sync.ErrSyncInFlight):
			http.Error(w, "Sync already in progress", http.StatusConflict)
		case errors.Is(err, sync.ErrItemNotFound):
			http.Error(w, "Item not found", http.StatusNotFound)
		default:
			log.Printf("Error syncing item %s: %v", itemID, err)
			http.Error(w, "Sync failed", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type BatchSyncResponse struct {
	Results []BatchSyncEntry `json:"results"`
}

type BatchSyncEntry struct {
	ItemID string           `json:"itemId"`
	Result *sync.SyncResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// HandleSyncAll triggers reconciliation for every item the user owns.
// Items succeed or fail independently; the response carries one entry
// per item.
func (h *SyncHandler) HandleSyncAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	results, err := h.syncService.SyncAllForUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error syncing items for user %s: %v", userID, err)
		http.Error(w, "Sync failed", http.StatusInternalServerError)
		return
	}

	response := BatchSyncResponse{Results: make([]BatchSyncEntry, 0, len(results))}
	for _, r := range results {
		entry := BatchSyncEntry{ItemID: r.ItemID, Result: r.Result}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		response.Results = append(response.Results, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
