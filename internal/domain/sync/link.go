package sync

import (
	"context"
	"fmt"
	"log"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
)

// LinkItem performs the one-time link bootstrap: it exchanges the
// short-lived public token for a durable access token, creates the item
// and its accounts, and runs the first reconciliation pass from the start
// of history. A failure after item creation leaves a resumable item: the
// next SyncItem call completes the backfill from whatever cursor (if any)
// was committed.
func (s *Service) LinkItem(ctx context.Context, userID, publicToken, institutionID, institutionName string) (*item.Item, *SyncResult, error) {
	exchange, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange public token: %w", err)
	}

	it, err := s.itemRepo.Create(ctx, item.CreateItemParams{
		UserID:          userID,
		AccessToken:     exchange.AccessToken,
		ProviderItemID:  exchange.ProviderItemID,
		InstitutionID:   institutionID,
		InstitutionName: institutionName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create item: %w", err)
	}

	if err := s.acquireItem(it.ID); err != nil {
		return it, nil, err
	}
	defer s.releaseItem(it.ID)

	accountMap, err := s.createAccounts(ctx, it)
	if err != nil {
		return it, nil, err
	}

	result, err := s.syncLocked(ctx, it, accountMap)
	if err != nil {
		return it, nil, fmt.Errorf("initial backfill failed: %w", err)
	}

	return it, result, nil
}

// createAccounts fetches the provider's account list for a freshly linked
// item and inserts local rows, building the identifier map as it goes.
// A single account's failure is logged and skipped; its transactions will
// be counted as skipped by the engine until the account exists.
func (s *Service) createAccounts(ctx context.Context, it *item.Item) (map[string]string, error) {
	accountsResp, err := s.client.GetAccounts(ctx, it.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountMap := make(map[string]string, len(accountsResp.Accounts))
	for i := range accountsResp.Accounts {
		providerAccount := &accountsResp.Accounts[i]

		balance, err := providerAccount.GetBalance()
		if err != nil {
			log.Printf("Item %s: skipping account %s: %v", it.ID, providerAccount.AccountID, err)
			continue
		}

		acc, err := s.accountRepo.Create(ctx, account.CreateAccountParams{
			ItemID:            it.ID,
			ProviderAccountID: providerAccount.AccountID,
			Name:              providerAccount.Name,
			Mask:              providerAccount.Mask,
			Balance:           balance,
		})
		if err != nil {
			log.Printf("Item %s: failed to create account %s: %v", it.ID, providerAccount.AccountID, err)
			continue
		}

		accountMap[acc.ProviderAccountID] = acc.ID
	}

	log.Printf("Item %s: created %d of %d accounts", it.ID, len(accountMap), len(accountsResp.Accounts))
	return accountMap, nil
}

// UnlinkItem revokes the item's access token with the provider and
// deletes the item; owned accounts and transactions cascade. Revocation
// is best-effort: a provider failure is logged but never blocks local
// deletion.
func (s *Service) UnlinkItem(ctx context.Context, itemID string) error {
	it, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if it == nil {
		return ErrItemNotFound
	}

	if err := s.client.RemoveItem(ctx, it.AccessToken); err != nil {
		log.Printf("Item %s: failed to revoke access token with provider: %v", itemID, err)
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}
