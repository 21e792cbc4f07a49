package workers

import (
	"context"
	"sync"
	"time"

	"arachne/internal/metrics"
	"arachne/pkg/errors"
	"arachne/pkg/logger"
)

// Mining runs finish in seconds; anything still going after this long during
// shutdown is stuck.
const shutdownTimeout = 30 * time.Second

// healthRecorder is implemented by workers that embed BaseWorker. The
// scheduler books run outcomes on them.
type healthRecorder interface {
	RecordRun(duration time.Duration)
	RecordError(err error, duration time.Duration)
}

// Scheduler drives registered workers, each on its own ticker.
type Scheduler struct {
	workers []Worker
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	log     *logger.Logger
	started bool
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		workers: make([]Worker, 0),
		log:     logger.Get(),
	}
}

// RegisterWorker adds a worker. Registration after Start is ignored.
func (s *Scheduler) RegisterWorker(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.log.Warn("Cannot register worker after scheduler has started", "worker", w.Name())
		return
	}

	s.workers = append(s.workers, w)
	s.log.Info("Worker registered", "worker", w.Name(), "interval", w.Interval())
}

// Start launches every enabled worker in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler already started")
	}

	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info("Starting worker scheduler", "workers", len(s.workers))

	for _, worker := range s.workers {
		if !worker.Enabled() {
			s.log.Info("Skipping disabled worker", "worker", worker.Name())
			continue
		}

		s.wg.Add(1)
		go s.runWorker(worker)
	}

	return nil
}

// Stop cancels all workers and waits for them to drain.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}
	s.cancel()
	s.mu.Unlock()

	s.log.Info("Stopping worker scheduler...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var shutdownErr error
	select {
	case <-done:
		s.log.Info("All workers stopped")
	case <-time.After(shutdownTimeout):
		s.log.Warn("Worker shutdown timed out", "timeout", shutdownTimeout)
		shutdownErr = errors.Wrapf(errors.ErrInternal, "shutdown timeout after %s", shutdownTimeout)
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	return shutdownErr
}

// runWorker ticks one worker until the scheduler context ends. The first
// iteration runs immediately.
func (s *Scheduler) runWorker(worker Worker) {
	defer s.wg.Done()

	s.log.Info("Worker started", "worker", worker.Name())

	ticker := time.NewTicker(worker.Interval())
	defer ticker.Stop()

	s.executeWorker(worker)

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("Worker stopping", "worker", worker.Name())
			return

		case <-ticker.C:
			s.executeWorker(worker)
		}
	}
}

// executeWorker runs one iteration, books the outcome, and contains panics.
func (s *Scheduler) executeWorker(worker Worker) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Worker panicked",
				"worker", worker.Name(),
				"panic", r,
			)
		}
	}()

	err := worker.Run(s.ctx)
	duration := time.Since(start)

	if recorder, ok := worker.(healthRecorder); ok {
		if err != nil {
			recorder.RecordError(err, duration)
		} else {
			recorder.RecordRun(duration)
		}
	}
	metrics.RecordWorkerExecution(worker.Name(), duration, err)

	if err != nil {
		s.log.Error("Worker execution failed",
			"worker", worker.Name(),
			"error", err,
			"duration", duration,
		)
		return
	}
	s.log.Debug("Worker execution completed",
		"worker", worker.Name(),
		"duration", duration,
	)
}

// GetWorkers returns the registered workers in registration order.
func (s *Scheduler) GetWorkers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]Worker, len(s.workers))
	copy(workers, s.workers)
	return workers
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
