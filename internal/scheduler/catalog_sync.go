package scheduler

import (
	"context"
	"time"

	"github.com/aristath/fundlens/internal/modules/funds"
	"github.com/rs/zerolog"
)

// CatalogSyncJob refreshes the fund catalog from the upstream list.
type CatalogSyncJob struct {
	service *funds.Service
	timeout time.Duration
	log     zerolog.Logger
}

// NewCatalogSyncJob creates a new catalog sync job
func NewCatalogSyncJob(service *funds.Service, log zerolog.Logger) *CatalogSyncJob {
	return &CatalogSyncJob{
		service: service,
		timeout: 2 * time.Minute,
		log:     log.With().Str("job", "catalog_sync").Logger(),
	}
}

// Name returns the job name
func (j *CatalogSyncJob) Name() string {
	return "catalog_sync"
}

// Run executes the catalog sync
func (j *CatalogSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	count, err := j.service.SyncCatalog(ctx)
	if err != nil {
		return err
	}

	j.log.Info().Int("funds", count).Msg("Catalog sync completed")
	return nil
}
