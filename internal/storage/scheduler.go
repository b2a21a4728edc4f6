package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"scoringd/internal/providers"
	"scoringd/internal/services"
	"scoringd/internal/storage/interfaces"
	"scoringd/internal/structures"
)

// Scheduler runs periodic snapshot persistence and retention pruning.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.AnalyticsServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cache       providers.CacheProviderInterface
	cron        *cron.Cron
	opsMu       sync.Mutex
	now         func() time.Time
}

// fileSnapshots reports whether history is persisted to the snapshot file.
// Redis and Postgres keep their own history, restoring a file into them would
// append every snapshot a second time.
func (s *Scheduler) fileSnapshots() bool {
	return s.config.Persistence.Enabled && s.config.Store.InMemory()
}

func (s *Scheduler) Init() error {
	s.cron = cron.New()

	if s.config.Persistence.Enabled && !s.config.Store.InMemory() {
		s.logger.Infof(providers.TypeApp, "Snapshot file disabled for %s store backend", s.config.Store.Backend)
	}
	if s.fileSnapshots() {
		spec := fmt.Sprintf("@every %s", s.config.Persistence.SaveInterval)
		if _, err := s.cron.AddFunc(spec, s.persistJob); err != nil {
			return fmt.Errorf("schedule persistence: %w", err)
		}
	}

	if s.config.Analytics.Retention > 0 && s.config.Analytics.PruneInterval > 0 {
		spec := fmt.Sprintf("@every %s", s.config.Analytics.PruneInterval)
		if _, err := s.cron.AddFunc(spec, s.pruneJob); err != nil {
			return fmt.Errorf("schedule pruning: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) persistJob() {
	if err := s.Persist(); err != nil {
		return
	}
	s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
}

func (s *Scheduler) pruneJob() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.config.Analytics.Retention)
	removed, err := s.service.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while pruning history: %s", err)
		return
	}
	s.metrics.AddSnapshotsPruned(removed)
	if removed > 0 {
		// cached reports may still describe pruned snapshots
		s.cache.Clear()
	}
	s.logger.Infof(providers.TypeApp, "Pruned %d snapshots older than %s", removed, cutoff.Format(time.RFC3339))
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) Restore() error {
	if !s.fileSnapshots() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return s.fileManager.LoadFromFile(ctx, s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	if !s.fileSnapshots() {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	s.logger.Infof(providers.TypeApp, "Persisting history to file...")
	err := s.fileManager.SaveToFile(ctx, s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.AnalyticsServiceInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface, cache providers.CacheProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
		cache:       cache,
		now:         time.Now,
	}
}
