package http

import (
	"encoding/json"
	"log"
	"net/http"

	"finch/internal/domain/item"
	"finch/internal/domain/sync"
	"finch/internal/infrastructure/provider"
	"finch/internal/shared/middleware"
)

// LinkHandler drives the provider link flow: handing a link token to the
// client and exchanging the public token it comes back with.
type LinkHandler struct {
	client      provider.ClientInterface
	syncService *sync.Service
}

func NewLinkHandler(client provider.ClientInterface, syncService *sync.Service) *LinkHandler {
	return &LinkHandler{client: client, syncService: syncService}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken     string `json:"publicToken"`
	InstitutionID   string `json:"institutionId"`
	InstitutionName string `json:"institutionName"`
}

type ExchangeResponse struct {
	Item   *item.Item       `json:"item"`
	Result *sync.SyncResult `json:"result"`
}

// HandleCreateLinkToken requests a short-lived link token from the
// provider for the authenticated user.
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resp, err := h.client.CreateLinkToken(r.Context(), userID)
	if err != nil {
		log.Printf("Error creating link token for user %s: %v", userID, err)
		http.Error(w, "Failed to create link token", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LinkTokenResponse{LinkToken: resp.LinkToken})
}

// HandleExchange exchanges the public token for a durable connection:
// it creates the item and its accounts and runs the initial backfill.
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PublicToken == "" {
		http.Error(w, "Public token is required", http.StatusBadRequest)
		return
	}

	it, result, err := h.syncService.LinkItem(r.Context(), userID, req.PublicToken, req.InstitutionID, req.InstitutionName)
	if err != nil {
		log.Printf("Error linking item for user %s: %v", userID, err)
		if it == nil {
			// Nothing was created; the exchange itself failed.
			http.Error(w, "Failed to link item", http.StatusBadGateway)
			return
		}
		// The item exists but the backfill did not finish. Return it so
		// the client can trigger a sync later instead of re-linking.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(ExchangeResponse{Item: it})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ExchangeResponse{Item: it, Result: result})
}
