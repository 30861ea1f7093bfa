package services

import (
	"catalogd/internal/providers"
	"catalogd/internal/snapshot"
	"catalogd/internal/structures"
	"context"
	"errors"
	"sync"

	"github.com/roylee0704/gron"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

// Scheduler runs the two periodic jobs of the daemon: refreshing the
// content stores so regenerated JSON is picked up, and flushing the
// admin snapshot lists to disk.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	catalog  CatalogServiceInterface
	activity *snapshot.ActivityLog
	backups  *snapshot.BackupStore
	cache    providers.CacheProviderInterface
	metrics  providers.MetricsProviderInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, catalog CatalogServiceInterface, activity *snapshot.ActivityLog, backups *snapshot.BackupStore, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		catalog:  catalog,
		activity: activity,
		backups:  backups,
		cache:    cache,
		metrics:  metrics,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Content.RefreshInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Content.RefreshInterval)
		defer cancel()

		s.logger.Infof(providers.TypeContent, "Refreshing content...")
		if err := s.catalog.Refresh(ctx); err != nil {
			s.metrics.IncContentRefreshTotal("error")
			s.logger.Errorf(providers.TypeContent, "Content refresh incomplete: %s", err)
		} else {
			s.metrics.IncContentRefreshTotal("ok")
			s.logger.Infof(providers.TypeContent, "Content refreshed")
		}
		s.cache.Clear()
		s.publishGauges()
	})

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.flush(); err != nil {
			s.logger.Errorf(providers.TypeAdmin, "Error while persisting admin data: %s", err)
			return
		}
		s.logger.Infof(providers.TypeAdmin, "Persisted admin data to %s", s.config.Persistence.Dir)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the persisted admin lists and performs the initial
// content load. Content failures are non-fatal: the stores stay empty
// and retryable, and the error is only surfaced for logging.
func (s *Scheduler) Restore() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Content.RefreshInterval)
	defer cancel()

	err := errors.Join(
		s.activity.Restore(),
		s.backups.RestoreFromDisk(),
		s.catalog.LoadAll(ctx),
	)
	s.publishGauges()
	return err
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeAdmin, "Persisting admin data...")
	if err := s.flush(); err != nil {
		s.logger.Errorf(providers.TypeAdmin, "Error while persisting admin data: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) flush() error {
	return errors.Join(s.activity.Flush(), s.backups.Flush())
}

func (s *Scheduler) publishGauges() {
	for kind, count := range s.catalog.EntityCounts() {
		s.metrics.SetEntitiesTotal(kind, count)
	}
}
