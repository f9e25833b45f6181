package workers

import (
	"context"

	"github.com/MKhiriev/go-task-sync/internal/logger"
)

// Workers starts registered workers in order and stops them in reverse.
type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
	if w.logger != nil {
		w.logger.Info().Str("func", "Workers.Run").Int("workers", len(w.workers)).Msg("workers started")
	}
}

// Stop stops every worker, last registered first.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
	if w.logger != nil {
		w.logger.Info().Str("func", "Workers.Stop").Msg("workers stopped")
	}
}
