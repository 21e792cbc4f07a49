package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arachne/pkg/errors"
)

type mockWorker struct {
	*BaseWorker
	runCount int32
	runFunc  func(ctx context.Context) error
}

func newMockWorker(name string, interval time.Duration, enabled bool) *mockWorker {
	return &mockWorker{
		BaseWorker: NewBaseWorker(name, interval, enabled),
		runFunc:    func(ctx context.Context) error { return nil },
	}
}

func (m *mockWorker) Run(ctx context.Context) error {
	atomic.AddInt32(&m.runCount, 1)
	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	return nil
}

func (m *mockWorker) GetRunCount() int {
	return int(atomic.LoadInt32(&m.runCount))
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("test-worker", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	time.Sleep(250 * time.Millisecond)

	require.NoError(t, scheduler.Stop())
	assert.False(t, scheduler.IsRunning())

	// Immediate run plus at least one tick
	assert.GreaterOrEqual(t, worker.GetRunCount(), 2)
}

func TestScheduler_RecordsHealth(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("healthy-worker", time.Hour, true)
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	health := worker.Health()
	assert.EqualValues(t, 1, health.RunCount)
	assert.Zero(t, health.ErrorCount)
	assert.NoError(t, health.LastError)
	assert.False(t, health.LastRun.IsZero())
}

func TestScheduler_RecordsErrors(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("failing-worker", time.Hour, true)
	worker.runFunc = func(ctx context.Context) error {
		return errors.New("boom")
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	health := worker.Health()
	assert.EqualValues(t, 1, health.RunCount)
	assert.EqualValues(t, 1, health.ErrorCount)
	assert.Error(t, health.LastError)
}

func TestScheduler_ContextCancellation(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("test-worker", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, scheduler.Start(ctx))

	cancel()
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, scheduler.Stop())
}

func TestScheduler_DisabledWorker(t *testing.T) {
	scheduler := NewScheduler()

	enabledWorker := newMockWorker("enabled-worker", 100*time.Millisecond, true)
	disabledWorker := newMockWorker("disabled-worker", 100*time.Millisecond, false)

	scheduler.RegisterWorker(enabledWorker)
	scheduler.RegisterWorker(disabledWorker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.Greater(t, enabledWorker.GetRunCount(), 0)
	assert.Equal(t, 0, disabledWorker.GetRunCount())
}

func TestScheduler_MultipleWorkers(t *testing.T) {
	scheduler := NewScheduler()

	names := []string{"worker-1", "worker-2", "worker-3"}
	mocks := make([]*mockWorker, 0, len(names))
	for _, name := range names {
		w := newMockWorker(name, 100*time.Millisecond, true)
		mocks = append(mocks, w)
		scheduler.RegisterWorker(w)
	}

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	for _, w := range mocks {
		assert.Greater(t, w.GetRunCount(), 0, w.Name())
	}
}

func TestScheduler_CannotStartTwice(t *testing.T) {
	scheduler := NewScheduler()
	scheduler.RegisterWorker(newMockWorker("test-worker", 100*time.Millisecond, true))

	ctx := context.Background()
	require.NoError(t, scheduler.Start(ctx))

	err := scheduler.Start(ctx)
	assert.ErrorIs(t, err, errors.ErrInternal)

	scheduler.Stop()
}

func TestScheduler_GetWorkers(t *testing.T) {
	scheduler := NewScheduler()

	scheduler.RegisterWorker(newMockWorker("worker-1", 100*time.Millisecond, true))
	scheduler.RegisterWorker(newMockWorker("worker-2", 200*time.Millisecond, false))

	workers := scheduler.GetWorkers()
	require.Len(t, workers, 2)
	assert.Equal(t, "worker-1", workers[0].Name())
	assert.Equal(t, "worker-2", workers[1].Name())
}
