// Package retentionsvc implements the background retention sweeper that
// deletes stored images once they exceed the configured age.
package retentionsvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mkrupp/homecase-camera/internal/infra/logging"
	"github.com/mkrupp/homecase-camera/internal/repo/imagestore"
)

// Sweeper periodically removes expired images from the store. Sweeps run
// sequentially; a tick that arrives while a sweep is still in flight is
// skipped rather than queued.
type Sweeper struct {
	store imagestore.Store
	cfg   RetentionConfig
	log   logging.Logger

	cancel   context.CancelFunc
	done     sync.WaitGroup
	sweeping sync.Mutex
}

// NewSweeper creates a new Sweeper over the given store.
// Returns an error if the configuration is invalid.
func NewSweeper(store imagestore.Store, cfg RetentionConfig) (*Sweeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	//nolint:exhaustruct
	return &Sweeper{
		store: store,
		cfg:   cfg,
		log:   logging.GetLogger("svc.retentionsvc.sweeper"),
	}, nil
}

// Start launches the sweep loop in a background goroutine. The loop runs
// until Stop is called or the given context is cancelled.
func (sw *Sweeper) Start(ctx context.Context) {
	ctx, sw.cancel = context.WithCancel(ctx)

	sw.done.Add(1)

	go func() {
		defer sw.done.Done()

		sw.log.InfoContext(ctx, "sweeper started",
			"retention", sw.cfg.Retention, "interval", sw.cfg.SweepInterval)

		ticker := time.NewTicker(sw.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				sw.log.InfoContext(ctx, "sweeper stopped")

				return
			case <-ticker.C:
				sw.sweep(ctx)
			}
		}
	}()
}

// Stop cancels the sweep loop and waits for an in-flight sweep to finish.
func (sw *Sweeper) Stop() {
	if sw.cancel != nil {
		sw.cancel()
	}

	sw.done.Wait()
}

// Sweep runs a single sweep pass immediately. Returns the number of images
// deleted. Failures on individual images are logged and skipped so one bad
// file cannot stall retention for the rest.
func (sw *Sweeper) Sweep(ctx context.Context) (int, error) {
	expired, err := sw.store.ListExpired(ctx, sw.cfg.Retention)
	if err != nil {
		return 0, fmt.Errorf("list expired: %w", err)
	}

	deleted := 0

	for _, img := range expired {
		if err := ctx.Err(); err != nil {
			return deleted, fmt.Errorf("sweep interrupted: %w", err)
		}

		if err := sw.store.Delete(ctx, img.Filename); err != nil {
			sw.log.WarnContext(ctx, "delete expired image", "filename", img.Filename, "error", err)

			continue
		}

		deleted++
	}

	return deleted, nil
}

func (sw *Sweeper) sweep(ctx context.Context) {
	if !sw.sweeping.TryLock() {
		sw.log.WarnContext(ctx, "sweep still in flight, skipping tick")

		return
	}
	defer sw.sweeping.Unlock()

	start := time.Now()

	deleted, err := sw.Sweep(ctx)
	if err != nil {
		sw.log.ErrorContext(ctx, "sweep failed", "error", err, "deleted", deleted)

		return
	}

	if deleted > 0 {
		sw.log.InfoContext(ctx, "sweep finished", "deleted", deleted, "took", time.Since(start))
	} else {
		sw.log.DebugContext(ctx, "sweep finished", "deleted", 0, "took", time.Since(start))
	}
}
