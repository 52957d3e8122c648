// Package sync implements the incremental transaction reconciliation
// engine: the cursor-driven loop that pulls added/modified/removed deltas
// from the aggregation provider, applies them against local accounts with
// per-record failure isolation, and persists the resumption cursor only
// after every page of a run has been applied.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
	"finch/internal/domain/transaction"
	"finch/internal/infrastructure/provider"
)

// ErrSyncInFlight is returned when a sync is already running for the item.
// Cursor advancement is serialized per item; callers should retry later.
var ErrSyncInFlight = errors.New("sync already in progress for item")

// ErrItemNotFound is returned when the target item does not exist.
var ErrItemNotFound = errors.New("item not found")

// SyncResult contains the aggregate counters of one sync run.
type SyncResult struct {
	ItemID   string   `json:"itemId"`
	Added    int      `json:"added"`
	Modified int      `json:"modified"`
	Removed  int      `json:"removed"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ItemSyncResult is one slot of a multi-item batch run. Exactly one of
// Result and Err is set.
type ItemSyncResult struct {
	ItemID string
	Result *SyncResult
	Err    error
}

// Service drives transaction reconciliation for items.
type Service struct {
	client          provider.ClientInterface
	itemRepo        item.Repository
	accountRepo     account.Repository
	transactionRepo transaction.Repository

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates a new reconciliation service.
func NewService(
	client provider.ClientInterface,
	itemRepo item.Repository,
	accountRepo account.Repository,
	transactionRepo transaction.Repository,
) *Service {
	return &Service{
		client:          client,
		itemRepo:        itemRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		inFlight:        make(map[string]struct{}),
	}
}

// acquireItem marks the item as having a sync in flight. It fails rather
// than blocks: two concurrent runs of the same item could race to advance
// the cursor out of order.
func (s *Service) acquireItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[itemID]; busy {
		return ErrSyncInFlight
	}
	s.inFlight[itemID] = struct{}{}
	return nil
}

func (s *Service) releaseItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, itemID)
}

// SyncItem runs one reconciliation pass for a single item: it resumes
// from the item's stored cursor (or the start of history on first sync),
// pages through the provider's delta stream, and commits the new cursor
// once the final page has been applied.
func (s *Service) SyncItem(ctx context.Context, itemID string) (*SyncResult, error) {
	if err := s.acquireItem(itemID); err != nil {
		return nil, err
	}
	defer s.releaseItem(itemID)

	it, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if it == nil {
		return nil, ErrItemNotFound
	}

	accountMap, err := s.buildAccountMap(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return s.syncLocked(ctx, it, accountMap)
}

// syncLocked runs the delta loop for an item whose in-flight slot the
// caller already holds.
func (s *Service) syncLocked(ctx context.Context, it *item.Item, accountMap map[string]string) (*SyncResult, error) {
	result := &SyncResult{ItemID: it.ID}

	// The cursor store is authoritative; nil means the item has never
	// completed a run and the stream starts from the beginning of history.
	stored, err := s.itemRepo.GetCursor(ctx, it.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cursor: %w", err)
	}
	cursor := ""
	if stored != nil {
		cursor = *stored
	}

	pages := 0
	for {
		page, err := s.client.SyncTransactions(ctx, it.AccessToken, cursor)
		if err != nil {
			// Provider failure aborts the run. The stored cursor is
			// untouched, so a retry resumes from the last committed page.
			return nil, fmt.Errorf("failed to fetch transaction deltas: %w", err)
		}

		s.applyPage(ctx, page, accountMap, result)
		pages++

		cursor = page.NextCursor
		if !page.HasMore {
			break
		}
	}

	if cursor != "" {
		if err := s.itemRepo.SetCursor(ctx, it.ID, cursor); err != nil {
			// Records are applied but the cursor did not advance; the next
			// run replays the same pages, which is safe because every
			// record application is idempotent by provider id.
			return nil, fmt.Errorf("failed to persist cursor: %w", err)
		}
	}

	log.Printf("Item %s: sync complete - pages=%d added=%d modified=%d removed=%d skipped=%d errors=%d",
		it.ID, pages, result.Added, result.Modified, result.Removed, result.Skipped, len(result.Errors))

	return result, nil
}

// applyPage applies one page of deltas in added, modified, removed order.
// Removed runs last so an add-then-remove of the same id within the page
// nets out to absent. Each record is isolated: a failure is logged and
// counted, never aborting the rest of the page.
func (s *Service) applyPage(ctx context.Context, page *provider.SyncResponse, accountMap map[string]string, result *SyncResult) {
	for i := range page.Added {
		if s.applyDelta(ctx, &page.Added[i], accountMap, result) {
			result.Added++
		}
	}

	for i := range page.Modified {
		if s.applyDelta(ctx, &page.Modified[i], accountMap, result) {
			result.Modified++
		}
	}

	for _, removed := range page.Removed {
		if err := s.transactionRepo.DeleteByProviderID(ctx, removed.TransactionID); err != nil {
			errMsg := fmt.Sprintf("failed to remove transaction %s: %v", removed.TransactionID, err)
			result.Errors = append(result.Errors, errMsg)
			result.Skipped++
			log.Printf("Error: %s", errMsg)
			continue
		}
		result.Removed++
	}
}

// applyDelta upserts one added or modified transaction, reporting whether
// it was applied. Unresolvable accounts and per-record store failures are
// counted as skipped.
func (s *Service) applyDelta(ctx context.Context, delta *provider.DeltaTransaction, accountMap map[string]string, result *SyncResult) bool {
	accountID, ok := accountMap[delta.AccountID]
	if !ok {
		// The account is not known locally yet; it will be picked up once
		// the account list is refreshed. Not fatal.
		log.Printf("Item %s: skipping transaction %s: unknown account %s",
			result.ItemID, delta.TransactionID, delta.AccountID)
		result.Skipped++
		return false
	}

	params, err := buildUpsertParams(accountID, delta)
	if err != nil {
		errMsg := fmt.Sprintf("failed to parse transaction %s: %v", delta.TransactionID, err)
		result.Errors = append(result.Errors, errMsg)
		result.Skipped++
		log.Printf("Error: %s", errMsg)
		return false
	}

	if _, err := s.transactionRepo.UpsertByProviderID(ctx, params); err != nil {
		errMsg := fmt.Sprintf("failed to apply transaction %s: %v", delta.TransactionID, err)
		result.Errors = append(result.Errors, errMsg)
		result.Skipped++
		log.Printf("Error: %s", errMsg)
		return false
	}

	return true
}

// buildUpsertParams converts a provider delta into upsert parameters.
// Amounts are parsed as exact decimals; a float64 round-trip would corrupt
// values like 12.30.
func buildUpsertParams(accountID string, delta *provider.DeltaTransaction) (transaction.UpsertTransactionParams, error) {
	amount, err := delta.GetAmount()
	if err != nil {
		return transaction.UpsertTransactionParams{}, err
	}

	date, err := delta.GetDate()
	if err != nil {
		return transaction.UpsertTransactionParams{}, err
	}

	authorizedDate, err := delta.GetAuthorizedDate()
	if err != nil {
		return transaction.UpsertTransactionParams{}, err
	}

	return transaction.UpsertTransactionParams{
		AccountID:             accountID,
		ProviderTransactionID: delta.TransactionID,
		Amount:                amount,
		Name:                  delta.Name,
		MerchantName:          delta.MerchantName,
		Date:                  date,
		AuthorizedDate:        authorizedDate,
		Pending:               delta.Pending,
		ISOCurrencyCode:       delta.ISOCurrencyCode,
	}, nil
}

// SyncAllForUser reconciles every item the user owns. Items are disjoint
// partitions, so they run concurrently with one result slot per item; one
// item's failure (e.g. a revoked credential) never prevents the others
// from being attempted.
func (s *Service) SyncAllForUser(ctx context.Context, userID string) ([]ItemSyncResult, error) {
	items, err := s.itemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	results := make([]ItemSyncResult, len(items))
	var wg sync.WaitGroup

	for i, it := range items {
		wg.Add(1)
		go func(slot int, itemID string) {
			defer wg.Done()

			result, err := s.SyncItem(ctx, itemID)
			if err != nil {
				log.Printf("Failed to sync item %s: %v", itemID, err)
				results[slot] = ItemSyncResult{ItemID: itemID, Err: err}
				return
			}
			results[slot] = ItemSyncResult{ItemID: itemID, Result: result}
		}(i, it.ID)
	}

	wg.Wait()
	return results, nil
}
