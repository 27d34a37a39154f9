package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CRui5in/agentd/internal/events"
)

// Dispatcher executes one tool invocation.
type Dispatcher interface {
	Dispatch(ctx context.Context, toolType string, params map[string]any) (map[string]any, error)
}

// Runner owns task execution. Submission never blocks on execution: each
// accepted task runs in its own goroutine, and tasks submitted before the
// router is installed wait in Pending until Ready is called.
type Runner struct {
	store    Store
	notifier *Notifier
	bus      *events.Bus

	mu         sync.Mutex
	dispatcher Dispatcher
	cancels    map[string]context.CancelFunc
}

// NewRunner creates a runner over the given store.
func NewRunner(store Store, notifier *Notifier, bus *events.Bus) *Runner {
	return &Runner{
		store:    store,
		notifier: notifier,
		bus:      bus,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Ready installs the dispatcher and starts every deferred Pending task.
func (r *Runner) Ready(d Dispatcher) {
	r.mu.Lock()
	r.dispatcher = d
	r.mu.Unlock()

	for _, t := range r.store.List() {
		if t.Status == StatusPending {
			r.start(t)
		}
	}
}

// Submit registers a task and starts it when the runner is ready. The
// returned task reflects the accepted state.
func (r *Runner) Submit(id, toolType string, params map[string]any) (*Task, error) {
	if toolType == "" {
		return nil, fmt.Errorf("tool type must not be empty")
	}

	t := &Task{ID: id, ToolType: toolType, Parameters: params}
	if err := r.store.Create(t); err != nil {
		return nil, err
	}
	r.bus.Publish(events.NewEvent(events.EventTaskSubmitted, map[string]any{
		"task_id":   t.ID,
		"tool_type": toolType,
	}))

	r.mu.Lock()
	ready := r.dispatcher != nil
	r.mu.Unlock()

	if !ready {
		slog.Info("task deferred until runner is ready", "task_id", t.ID)
		return t, nil
	}

	r.start(t)
	return t, nil
}

// start transitions the task to Running and spawns its worker.
func (r *Runner) start(t *Task) {
	running, err := r.store.SetStatus(t.ID, StatusRunning, nil, "")
	if err != nil {
		// Cancelled before it ever ran.
		slog.Info("task not started", "task_id", t.ID, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancels[t.ID] = cancel
	r.mu.Unlock()

	r.bus.Publish(events.NewEvent(events.EventTaskRunning, map[string]any{"task_id": t.ID}))

	go r.run(ctx, running)
}

func (r *Runner) run(ctx context.Context, t *Task) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("task panicked", "task_id", t.ID, "panic", rec)
			r.finalize(t.ID, StatusFailed, nil, fmt.Sprintf("internal error: %v", rec))
		}
		r.dropCancel(t.ID)
	}()

	// The running update goes to the backend from inside the worker so a
	// slow backend never stalls submission.
	r.notifier.Notify(ctx, t)

	r.mu.Lock()
	dispatcher := r.dispatcher
	r.mu.Unlock()

	result, err := dispatcher.Dispatch(ctx, t.ToolType, t.Parameters)
	if err != nil {
		r.finalize(t.ID, StatusFailed, nil, err.Error())
		return
	}
	r.finalize(t.ID, StatusCompleted, result, "")
}

// finalize records the terminal state, suppressing stale completions of
// tasks that were cancelled while running.
func (r *Runner) finalize(id string, status Status, result map[string]any, errMsg string) {
	t, err := r.store.SetStatus(id, status, result, errMsg)
	if err != nil {
		if errors.Is(err, ErrStatusFinal) {
			slog.Info("stale task completion suppressed", "task_id", id, "status", t.Status)
			return
		}
		slog.Warn("task finalize failed", "task_id", id, "error", err)
		return
	}

	eventType := events.EventTaskCompleted
	if status == StatusFailed {
		eventType = events.EventTaskFailed
		slog.Warn("task failed", "task_id", id, "error", errMsg)
	} else {
		slog.Info("task completed", "task_id", id)
	}
	r.bus.Publish(events.NewEvent(eventType, map[string]any{"task_id": id}))
	r.notifier.Notify(context.Background(), t)
}

// Cancel stops a task. A missing task is reported as found=false, not an
// error; cancelling an already-terminal task returns its current state.
func (r *Runner) Cancel(id string) (*Task, bool) {
	if _, err := r.store.Get(id); err != nil {
		return nil, false
	}

	// Record the cancellation before signalling the worker so a racing
	// completion is seen as stale, not the other way around.
	t, err := r.store.SetStatus(id, StatusCancelled, nil, "")

	r.mu.Lock()
	if cancel, ok := r.cancels[id]; ok {
		cancel()
		delete(r.cancels, id)
	}
	r.mu.Unlock()

	if err != nil {
		// Already terminal; report the state as it stands.
		return t, true
	}

	r.bus.Publish(events.NewEvent(events.EventTaskCancelled, map[string]any{"task_id": id}))
	r.notifier.Notify(context.Background(), t)
	return t, true
}

// Status returns the task record without blocking on execution.
func (r *Runner) Status(id string) (*Task, error) {
	return r.store.Get(id)
}

// ActiveCount reports how many tasks are currently running.
func (r *Runner) ActiveCount() int {
	n := 0
	for _, t := range r.store.List() {
		if t.Status == StatusRunning {
			n++
		}
	}
	return n
}

func (r *Runner) dropCancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[id]; ok {
		cancel()
		delete(r.cancels, id)
	}
}
