package workers

import (
	"context"
	"sync"
	"time"

	"arachne/pkg/logger"
)

// Worker is one background task driven by the Scheduler.
type Worker interface {
	// Name returns the unique identifier for this worker
	Name() string

	// Run completes one iteration of work and returns. The scheduler calls
	// it on every tick of Interval().
	Run(ctx context.Context) error

	// Interval returns how often this worker should run
	Interval() time.Duration

	// Enabled reports whether the scheduler should run this worker at all
	Enabled() bool
}

// WorkerHealth is a point-in-time summary of a worker's run history.
type WorkerHealth struct {
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	AvgDuration time.Duration
	Enabled     bool
}

// BaseWorker carries the name/interval/enabled plumbing and run bookkeeping
// shared by all workers. Embed it and implement Run.
type BaseWorker struct {
	name     string
	interval time.Duration
	enabled  bool
	log      *logger.Logger

	healthMu      sync.RWMutex
	lastRun       time.Time
	lastError     error
	runCount      int64
	errorCount    int64
	totalDuration time.Duration
}

func NewBaseWorker(name string, interval time.Duration, enabled bool) *BaseWorker {
	return &BaseWorker{
		name:     name,
		interval: interval,
		enabled:  enabled,
		log:      logger.Get().With("worker", name),
	}
}

// Name returns the worker name
func (w *BaseWorker) Name() string {
	return w.name
}

// Interval returns the run interval
func (w *BaseWorker) Interval() time.Duration {
	return w.interval
}

// Enabled reports the state fixed at construction
func (w *BaseWorker) Enabled() bool {
	return w.enabled
}

// Log returns the worker-tagged logger
func (w *BaseWorker) Log() *logger.Logger {
	return w.log
}

// Health returns a snapshot of the run history.
func (w *BaseWorker) Health() WorkerHealth {
	w.healthMu.RLock()
	defer w.healthMu.RUnlock()

	avgDuration := time.Duration(0)
	if w.runCount > 0 {
		avgDuration = time.Duration(int64(w.totalDuration) / w.runCount)
	}

	return WorkerHealth{
		LastRun:     w.lastRun,
		LastError:   w.lastError,
		RunCount:    w.runCount,
		ErrorCount:  w.errorCount,
		AvgDuration: avgDuration,
		Enabled:     w.enabled,
	}
}

// RecordRun books a successful iteration. The scheduler calls this after
// every Run that returns nil.
func (w *BaseWorker) RecordRun(duration time.Duration) {
	w.healthMu.Lock()
	defer w.healthMu.Unlock()

	w.lastRun = time.Now()
	w.runCount++
	w.totalDuration += duration
	w.lastError = nil
}

// RecordError books a failed iteration.
func (w *BaseWorker) RecordError(err error, duration time.Duration) {
	w.healthMu.Lock()
	defer w.healthMu.Unlock()

	w.lastRun = time.Now()
	w.runCount++
	w.errorCount++
	w.totalDuration += duration
	w.lastError = err
}
