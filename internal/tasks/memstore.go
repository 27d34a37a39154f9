package tasks

import (
	"fmt"
	"sync"
	"time"
)

// MemStore keeps tasks in a mutex-guarded map. All returned tasks are
// copies; callers never share memory with the store.
type MemStore struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tasks: make(map[string]*Task)}
}

// Create registers a new task, assigning an ID when absent.
func (s *MemStore) Create(t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = GenerateTaskID()
	}
	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("task %s already exists", t.ID)
	}
	if t.Status == "" {
		t.Status = StatusPending
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	clone := *t
	s.tasks[t.ID] = &clone
	return nil
}

// Get returns a copy of the task.
func (s *MemStore) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

// SetStatus transitions the task, enforcing terminal-status stickiness.
func (s *MemStore) SetStatus(id string, status Status, result map[string]any, errMsg string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	// No transition leaves a terminal status, not even to itself: a repeat
	// of the same terminal state must not bump UpdatedAt or re-trigger
	// notifications.
	if t.Status.Terminal() {
		clone := *t
		return &clone, ErrStatusFinal
	}

	t.Status = status
	if result != nil {
		t.Result = result
	}
	if errMsg != "" {
		t.Error = errMsg
	}
	t.UpdatedAt = time.Now()

	clone := *t
	return &clone, nil
}

// List returns a copy of every task.
func (s *MemStore) List() []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		clone := *t
		out = append(out, &clone)
	}
	return out
}

// Delete removes a task.
func (s *MemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
