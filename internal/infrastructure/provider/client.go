// Package provider implements the HTTP client for the external account
// aggregation API: link-token creation, public-token exchange, account
// listing and the cursor-based transaction delta stream.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout        = 60 * time.Second
	linkTokenPath         = "/link/token/create"
	exchangeTokenPath     = "/item/public_token/exchange"
	accountsPath          = "/accounts/get"
	transactionsSyncPath  = "/transactions/sync"
	itemRemovePath        = "/item/remove"
	dateLayout            = "2006-01-02"
)

// Client handles communication with the aggregation provider API.
// Credentials are injected at construction so tests can substitute a fake
// via ClientInterface; there is no process-wide provider state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new aggregation provider client.
func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
	}
}

// APIError is a non-2xx response from the provider. Callers inspect
// StatusCode to distinguish revoked credentials (401/403) from transient
// failures.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error_code"`
	Message    string `json:"error_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider API error (status %d): %s - %s", e.StatusCode, e.Code, e.Message)
}

// IsUnauthorized reports whether err is a provider rejection of the
// access credential.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// LinkTokenResponse represents the response to a link-token creation request.
type LinkTokenResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
}

// ExchangeResponse represents the response to a public-token exchange.
type ExchangeResponse struct {
	AccessToken    string `json:"access_token"`
	ProviderItemID string `json:"item_id"`
}

// AccountsResponse represents the provider's account listing for one item.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// Account represents one financial account as reported by the provider.
type Account struct {
	AccountID     string  `json:"account_id"`
	Name          string  `json:"name"`
	Mask          *string `json:"mask"`
	BalanceString *string `json:"balance"` // Provider sends balances as strings
}

// GetBalance returns the available balance as an exact decimal, or nil
// when the provider did not report one.
func (a *Account) GetBalance() (*decimal.Decimal, error) {
	if a.BalanceString == nil || *a.BalanceString == "" {
		return nil, nil
	}
	balance, err := decimal.NewFromString(*a.BalanceString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance %q: %w", *a.BalanceString, err)
	}
	return &balance, nil
}

// SyncResponse is one page of the transaction delta stream. NextCursor is
// opaque to callers; HasMore signals that another page must be fetched
// before the stream is exhausted.
type SyncResponse struct {
	Added      []DeltaTransaction   `json:"added"`
	Modified   []DeltaTransaction   `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	HasMore    bool                 `json:"has_more"`
	NextCursor string               `json:"next_cursor"`
}

// DeltaTransaction is one added or modified transaction in a sync page.
type DeltaTransaction struct {
	TransactionID   string  `json:"transaction_id"`
	AccountID       string  `json:"account_id"`
	AmountString    string  `json:"amount"` // Provider sends amounts as decimal strings
	Name            string  `json:"name"`
	MerchantName    *string `json:"merchant_name"`
	DateString      string  `json:"date"`
	AuthorizedDate  *string `json:"authorized_date"`
	Pending         bool    `json:"pending"`
	ISOCurrencyCode *string `json:"iso_currency_code"`
}

// RemovedTransaction identifies a transaction deleted upstream.
type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// GetAmount returns the amount as an exact decimal.
func (t *DeltaTransaction) GetAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(t.AmountString)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse amount %q: %w", t.AmountString, err)
	}
	return amount, nil
}

// GetDate parses and returns the transaction date.
func (t *DeltaTransaction) GetDate() (time.Time, error) {
	parsed, err := time.Parse(dateLayout, t.DateString)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", t.DateString, err)
	}
	return parsed, nil
}

// GetAuthorizedDate parses and returns the authorization date if present.
func (t *DeltaTransaction) GetAuthorizedDate() (*time.Time, error) {
	if t.AuthorizedDate == nil || *t.AuthorizedDate == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *t.AuthorizedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorized_date %q: %w", *t.AuthorizedDate, err)
	}
	return &parsed, nil
}

// CreateLinkToken requests a short-lived link token for the given user.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (*LinkTokenResponse, error) {
	body := map[string]any{
		"client_user_id": userID,
		"client_name":    "Finch",
		"language":       "en",
		"country_codes":  []string{"US"},
		"products":       []string{"transactions"},
	}

	var resp LinkTokenResponse
	if err := c.post(ctx, linkTokenPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExchangePublicToken swaps a short-lived public token for the durable
// access token and provider item id.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	body := map[string]any{
		"public_token": publicToken,
	}

	var resp ExchangeResponse
	if err := c.post(ctx, exchangeTokenPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccounts fetches the current account list for an item.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	body := map[string]any{
		"access_token": accessToken,
	}

	var resp AccountsResponse
	if err := c.post(ctx, accountsPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncTransactions fetches the next page of transaction deltas. An empty
// cursor means "start of history" and triggers a full backfill.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncResponse, error) {
	body := map[string]any{
		"access_token": accessToken,
	}
	if cursor != "" {
		body["cursor"] = cursor
	}

	var resp SyncResponse
	if err := c.post(ctx, transactionsSyncPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveItem revokes the access token with the provider.
func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	body := map[string]any{
		"access_token": accessToken,
	}
	return c.post(ctx, itemRemovePath, body, &struct{}{})
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Client-Secret", c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			return fmt.Errorf("provider request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
