package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Worker runs until its context is cancelled.
type Worker interface {
	Start(ctx context.Context) error
}

// Manager starts a set of workers and waits for all of them after the
// context is cancelled.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start blocks until ctx is done and every worker returned. Errors of workers
// that gave up early are joined.
func (m *Manager) Start(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	slog.Info("worker: starting", "workers", len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				slog.Error("worker: stopped with error", "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(w)
	}
	<-ctx.Done()
	wg.Wait()
	return errors.Join(errs...)
}
