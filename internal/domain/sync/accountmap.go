package sync

import (
	"context"
	"fmt"
)

// buildAccountMap maps every provider account id on record for the item
// to its local account id. The map is rebuilt at the start of each run
// rather than cached: accounts can be added between syncs and deltas must
// attach to whatever the ledger holds right now.
func (s *Service) buildAccountMap(ctx context.Context, itemID string) (map[string]string, error) {
	accounts, err := s.accountRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for item: %w", err)
	}

	accountMap := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		accountMap[acc.ProviderAccountID] = acc.ID
	}

	return accountMap, nil
}
