package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
)

const defaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	syncService ClientSyncService
	interval    time.Duration
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that calls
// syncService.RefreshAll on a ticker. If interval is zero or negative it
// defaults to 5 minutes. The job is idle until Start is called.
func NewClientSyncJob(syncService ClientSyncService, interval time.Duration, logger *logger.Logger) ClientSyncJob {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &clientSyncJob{syncService: syncService, interval: interval, logger: logger}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that refreshes once immediately and then
// every interval. Refreshes are automatic, so per-list throttling applies.
func (j *clientSyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			j.refresh(jobCtx)

			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

func (j *clientSyncJob) refresh(ctx context.Context) {
	if err := j.syncService.RefreshAll(ctx, false); err != nil && ctx.Err() == nil {
		j.logger.Err(err).Str("func", "clientSyncJob.refresh").Msg("background refresh failed")
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call
// when the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
