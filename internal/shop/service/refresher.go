package service

import (
	"context"
	"log/slog"
	"time"
)

// CacheRefresherService periodically recomputes the featured-products cache
// from the store. The synchronous recompute after a featured-flag write is
// what gives read-your-writes; this loop just heals the cache if that write
// path ever lost the race with a Redis restart.
type CacheRefresherService struct {
	Products *ProductService
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewCacheRefresherService creates a refresher with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewCacheRefresherService(products *ProductService, logger *slog.Logger, interval time.Duration) *CacheRefresherService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &CacheRefresherService{
		Products: products,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut down.
func (s *CacheRefresherService) Start() {
	go s.run()
	s.Logger.Info("cache refresher started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress refresh.
func (s *CacheRefresherService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("cache refresher stopped")
}

func (s *CacheRefresherService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Warm the cache immediately on startup
	s.Products.RefreshFeaturedCache(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Products.RefreshFeaturedCache(context.Background())
		case <-s.stopCh:
			return
		}
	}
}
