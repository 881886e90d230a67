// Package dispatch queues one pipeline run per goal and executes the runs on a
// bounded worker group.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-agent/internal/logger"
	"github.com/jonathan/hiring-agent/internal/pipeline"
)

// Topic carries goal run requests.
const Topic = "goal.runs"

// DefaultWorkers bounds concurrent runs when no worker count is configured.
const DefaultWorkers = 4

// DefaultRetention is how long a finished task stays visible to Status and Wait.
const DefaultRetention = time.Hour

var (
	// ErrDuplicateTask is returned when a goal already has a task.
	ErrDuplicateTask = errors.New("goal already has a run")
	// ErrUnknownTask is returned for goals that were never submitted.
	ErrUnknownTask = errors.New("no run for goal")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("dispatcher closed")
)

// TaskState is the lifecycle state of a run task.
type TaskState string

// TaskState constants
const (
	TaskQueued  TaskState = "queued"
	TaskRunning TaskState = "running"
	TaskDone    TaskState = "done"
	TaskAborted TaskState = "aborted"
)

// Runner executes a single goal run.
type Runner interface {
	Run(ctx context.Context, goalID uuid.UUID, onProgress pipeline.ProgressCallback) pipeline.Outcome
}

// TaskStatus is a point-in-time view of a task.
type TaskStatus struct {
	GoalID     uuid.UUID         `json:"goal_id"`
	State      TaskState         `json:"state"`
	Stage      pipeline.Stage    `json:"stage"`
	QueuedAt   time.Time         `json:"queued_at"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
	Outcome    *pipeline.Outcome `json:"outcome,omitempty"`
}

type task struct {
	status TaskStatus
	done   chan struct{}
}

type runMessage struct {
	GoalID uuid.UUID `json:"goal_id"`
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRetention sets how long finished tasks are kept. Non-positive values
// keep DefaultRetention.
func WithRetention(retention time.Duration) Option {
	return func(d *Dispatcher) {
		if retention > 0 {
			d.retention = retention
		}
	}
}

// Dispatcher owns the run queue and the task registry. Queued and running
// tasks live in tasks; finished ones move to an expiring cache.
type Dispatcher struct {
	pubSub    *gochannel.GoChannel
	runner    Runner
	group     *errgroup.Group
	logger    *zap.Logger
	retention time.Duration

	mu       sync.Mutex
	tasks    map[uuid.UUID]*task
	finished *cache.Cache
	closed   bool

	consumerDone chan struct{}
}

// New creates a dispatcher and starts consuming run requests.
func New(runner Runner, workers int, log *zap.Logger, opts ...Option) (*Dispatcher, error) {
	log = logger.OrNop(log)
	if workers <= 0 {
		workers = DefaultWorkers
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, NewZapLogger(log))

	// subscribe before the first Submit
	messages, err := pubSub.Subscribe(context.Background(), Topic)
	if err != nil {
		_ = pubSub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Topic, err)
	}

	group := &errgroup.Group{}
	group.SetLimit(workers)

	d := &Dispatcher{
		pubSub:       pubSub,
		runner:       runner,
		group:        group,
		logger:       log,
		retention:    DefaultRetention,
		tasks:        make(map[uuid.UUID]*task),
		consumerDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.finished = cache.New(d.retention, d.retention)
	go d.consume(messages)
	return d, nil
}

// Submit queues a run for goalID. Each goal gets at most one run.
func (d *Dispatcher) Submit(goalID uuid.UUID) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if _, exists := d.lookup(goalID); exists {
		d.mu.Unlock()
		return ErrDuplicateTask
	}
	d.tasks[goalID] = &task{
		status: TaskStatus{GoalID: goalID, State: TaskQueued, Stage: pipeline.StagePending, QueuedAt: time.Now()},
		done:   make(chan struct{}),
	}
	d.mu.Unlock()

	payload, err := json.Marshal(runMessage{GoalID: goalID})
	if err == nil {
		err = d.pubSub.Publish(Topic, message.NewMessage(watermill.NewUUID(), payload))
	}
	if err != nil {
		d.mu.Lock()
		delete(d.tasks, goalID)
		d.mu.Unlock()
		return fmt.Errorf("failed to queue run: %w", err)
	}

	d.logger.Debug("run queued", zap.String(logger.FieldGoalID, goalID.String()))
	return nil
}

// Status returns the current view of a goal's task. Finished tasks are
// forgotten once the retention period has passed.
func (d *Dispatcher) Status(goalID uuid.UUID) (TaskStatus, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.lookup(goalID)
	if !ok {
		return TaskStatus{}, false
	}
	return t.status, true
}

// Wait blocks until the goal's run finishes or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context, goalID uuid.UUID) (pipeline.Outcome, error) {
	d.mu.Lock()
	t, ok := d.lookup(goalID)
	d.mu.Unlock()
	if !ok {
		return pipeline.Outcome{}, ErrUnknownTask
	}

	select {
	case <-t.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return *t.status.Outcome, nil
	case <-ctx.Done():
		return pipeline.Outcome{}, ctx.Err()
	}
}

// Close stops accepting runs and waits for in-flight runs to finish.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	err := d.pubSub.Close()
	<-d.consumerDone
	_ = d.group.Wait()
	return err
}

func (d *Dispatcher) consume(messages <-chan *message.Message) {
	defer close(d.consumerDone)

	for msg := range messages {
		var req runMessage
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			d.logger.Error("dropping malformed run request", zap.String("message_id", msg.UUID), zap.Error(err))
			msg.Ack()
			continue
		}
		// runs are never redelivered
		msg.Ack()

		goalID := req.GoalID
		d.group.Go(func() error {
			d.execute(goalID)
			return nil
		})
	}
}

func (d *Dispatcher) execute(goalID uuid.UUID) {
	d.mu.Lock()
	t, ok := d.tasks[goalID]
	if !ok {
		d.mu.Unlock()
		return
	}
	started := time.Now()
	t.status.State = TaskRunning
	t.status.StartedAt = &started
	d.mu.Unlock()

	// Runs are detached from any request context and are never cancelled.
	outcome := d.runner.Run(context.Background(), goalID, func(e pipeline.ProgressEvent) {
		d.mu.Lock()
		t.status.Stage = e.Stage
		d.mu.Unlock()
	})

	finished := time.Now()
	d.mu.Lock()
	t.status.Outcome = &outcome
	t.status.Stage = outcome.FinalStage
	t.status.FinishedAt = &finished
	if outcome.FinalStage == pipeline.StageAborted {
		t.status.State = TaskAborted
	} else {
		t.status.State = TaskDone
	}
	delete(d.tasks, goalID)
	d.finished.Set(goalID.String(), t, cache.DefaultExpiration)
	d.mu.Unlock()
	close(t.done)

	d.logger.Info("run finished",
		zap.String(logger.FieldGoalID, goalID.String()),
		zap.String("state", string(t.status.State)),
		zap.Int("actions_logged", outcome.ActionsLogged),
		zap.Duration("duration", finished.Sub(started)))
}

// lookup finds a live or retained task. d.mu must be held.
func (d *Dispatcher) lookup(goalID uuid.UUID) (*task, bool) {
	if t, ok := d.tasks[goalID]; ok {
		return t, true
	}
	if v, ok := d.finished.Get(goalID.String()); ok {
		return v.(*task), true
	}
	return nil, false
}
