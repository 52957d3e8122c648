package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"finch/internal/domain/item"
	"finch/internal/domain/sync"
)

// ItemSyncJob reconciles one linked item's transactions against the
// provider feed.
type ItemSyncJob struct {
	itemID      string
	institution string
	syncService *sync.Service
}

func NewItemSyncJob(itemID, institution string, syncService *sync.Service) *ItemSyncJob {
	return &ItemSyncJob{
		itemID:      itemID,
		institution: institution,
		syncService: syncService,
	}
}

// Execute runs the sync. An item already being synced (for example by a
// user-triggered request) is skipped, not failed.
func (j *ItemSyncJob) Execute(ctx context.Context) error {
	result, err := j.syncService.SyncItem(ctx, j.itemID)
	if errors.Is(err, sync.ErrSyncInFlight) {
		log.Printf("Sync for item %s already in progress, skipping", j.itemID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if len(result.Errors) > 0 {
		log.Printf("Sync for item %s completed with errors: Added=%d, Modified=%d, Removed=%d, Skipped=%d, Errors=%d",
			j.itemID, result.Added, result.Modified, result.Removed, result.Skipped, len(result.Errors))
		// Surface partial failure so the job is counted as an error.
		return fmt.Errorf("sync completed with %d errors", len(result.Errors))
	}

	log.Printf("Sync for item %s completed: Added=%d, Modified=%d, Removed=%d, Skipped=%d",
		j.itemID, result.Added, result.Modified, result.Removed, result.Skipped)

	return nil
}

func (j *ItemSyncJob) ItemID() string {
	return j.itemID
}

func (j *ItemSyncJob) Description() string {
	return fmt.Sprintf("Transaction sync for item %s (%s)", j.itemID, j.institution)
}

// NewItemJobProvider returns a job provider that builds one sync job per
// linked item across all users.
func NewItemJobProvider(itemRepo item.Repository, syncService *sync.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		items, err := itemRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}

		jobs := make([]Job, 0, len(items))
		for _, it := range items {
			jobs = append(jobs, NewItemSyncJob(it.ID, it.InstitutionName, syncService))
		}
		return jobs, nil
	}
}
