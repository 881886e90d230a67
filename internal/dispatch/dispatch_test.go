package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-agent/internal/pipeline"
)

// gatedRunner blocks each run until release is closed and tracks concurrency.
type gatedRunner struct {
	release chan struct{}
	started chan uuid.UUID
	abort   map[uuid.UUID]bool

	running    atomic.Int32
	maxRunning atomic.Int32

	mu   sync.Mutex
	runs map[uuid.UUID]int
}

func newGatedRunner() *gatedRunner {
	return &gatedRunner{
		release: make(chan struct{}),
		started: make(chan uuid.UUID, 16),
		abort:   map[uuid.UUID]bool{},
		runs:    map[uuid.UUID]int{},
	}
}

func (g *gatedRunner) Run(ctx context.Context, goalID uuid.UUID, onProgress pipeline.ProgressCallback) pipeline.Outcome {
	n := g.running.Add(1)
	for {
		peak := g.maxRunning.Load()
		if n <= peak || g.maxRunning.CompareAndSwap(peak, n) {
			break
		}
	}
	defer g.running.Add(-1)

	g.mu.Lock()
	g.runs[goalID]++
	g.mu.Unlock()

	onProgress(pipeline.ProgressEvent{GoalID: goalID, Stage: pipeline.StageLoaded})
	g.started <- goalID
	<-g.release

	if g.abort[goalID] {
		return pipeline.Outcome{GoalID: goalID, FinalStage: pipeline.StageAborted, AbortedAt: pipeline.StageSearched, ActionsLogged: 1}
	}
	return pipeline.Outcome{GoalID: goalID, FinalStage: pipeline.StageDone, ActionsLogged: 6, GoalFound: true}
}

func waitCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDispatcher_RunLifecycle(t *testing.T) {
	runner := newGatedRunner()
	d, err := New(runner, 2, nil)
	require.NoError(t, err)
	defer d.Close()

	goalID := uuid.New()
	require.NoError(t, d.Submit(goalID))

	select {
	case started := <-runner.started:
		assert.Equal(t, goalID, started)
	case <-time.After(5 * time.Second):
		t.Fatal("run never started")
	}

	status, ok := d.Status(goalID)
	require.True(t, ok)
	assert.Equal(t, TaskRunning, status.State)
	assert.Equal(t, pipeline.StageLoaded, status.Stage)
	assert.NotNil(t, status.StartedAt)
	assert.Nil(t, status.Outcome)

	close(runner.release)
	outcome, err := d.Wait(waitCtx(t), goalID)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageDone, outcome.FinalStage)
	assert.Equal(t, 6, outcome.ActionsLogged)

	status, _ = d.Status(goalID)
	assert.Equal(t, TaskDone, status.State)
	assert.Equal(t, pipeline.StageDone, status.Stage)
	assert.NotNil(t, status.FinishedAt)
}

func TestDispatcher_AbortedRun(t *testing.T) {
	runner := newGatedRunner()
	close(runner.release)
	goalID := uuid.New()
	runner.abort[goalID] = true

	d, err := New(runner, 1, nil)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Submit(goalID))
	outcome, err := d.Wait(waitCtx(t), goalID)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageAborted, outcome.FinalStage)

	status, _ := d.Status(goalID)
	assert.Equal(t, TaskAborted, status.State)
}

func TestDispatcher_OneRunPerGoal(t *testing.T) {
	runner := newGatedRunner()
	close(runner.release)
	d, err := New(runner, 2, nil)
	require.NoError(t, err)
	defer d.Close()

	goalID := uuid.New()
	require.NoError(t, d.Submit(goalID))
	assert.ErrorIs(t, d.Submit(goalID), ErrDuplicateTask)

	_, err = d.Wait(waitCtx(t), goalID)
	require.NoError(t, err)
	assert.ErrorIs(t, d.Submit(goalID), ErrDuplicateTask)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, 1, runner.runs[goalID])
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	runner := newGatedRunner()
	d, err := New(runner, 2, nil)
	require.NoError(t, err)
	defer d.Close()

	goals := make([]uuid.UUID, 5)
	for i := range goals {
		goals[i] = uuid.New()
		require.NoError(t, d.Submit(goals[i]))
	}

	// two runs start, the rest wait for a free worker
	for i := 0; i < 2; i++ {
		select {
		case <-runner.started:
		case <-time.After(5 * time.Second):
			t.Fatal("runs never started")
		}
	}
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 2, runner.running.Load())

	close(runner.release)
	for _, id := range goals {
		outcome, err := d.Wait(waitCtx(t), id)
		require.NoError(t, err)
		assert.Equal(t, pipeline.StageDone, outcome.FinalStage)
	}
	assert.LessOrEqual(t, runner.maxRunning.Load(), int32(2))
}

func TestDispatcher_UnknownGoal(t *testing.T) {
	d, err := New(newGatedRunner(), 1, nil)
	require.NoError(t, err)
	defer d.Close()

	_, ok := d.Status(uuid.New())
	assert.False(t, ok)

	_, err = d.Wait(waitCtx(t), uuid.New())
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	runner := newGatedRunner()
	d, err := New(runner, 1, nil)
	require.NoError(t, err)

	goalID := uuid.New()
	require.NoError(t, d.Submit(goalID))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = d.Wait(ctx, goalID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(runner.release)
	require.NoError(t, d.Close())
}

func TestDispatcher_SubmitAfterClose(t *testing.T) {
	d, err := New(newGatedRunner(), 1, nil)
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.Submit(uuid.New()), ErrClosed)
}

func TestDispatcher_FinishedTasksExpire(t *testing.T) {
	runner := newGatedRunner()
	close(runner.release)
	d, err := New(runner, 1, nil, WithRetention(300*time.Millisecond))
	require.NoError(t, err)
	defer d.Close()

	goalID := uuid.New()
	require.NoError(t, d.Submit(goalID))
	_, err = d.Wait(waitCtx(t), goalID)
	require.NoError(t, err)

	status, ok := d.Status(goalID)
	require.True(t, ok)
	assert.Equal(t, TaskDone, status.State)

	d.mu.Lock()
	assert.Empty(t, d.tasks)
	d.mu.Unlock()

	require.Eventually(t, func() bool {
		_, ok := d.Status(goalID)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)

	_, err = d.Wait(waitCtx(t), goalID)
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestWithRetention_IgnoresNonPositive(t *testing.T) {
	d, err := New(newGatedRunner(), 1, nil, WithRetention(0))
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, DefaultRetention, d.retention)
}
