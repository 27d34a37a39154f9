package tasks

import "errors"

var (
	// ErrTaskNotFound is returned for unknown task IDs.
	ErrTaskNotFound = errors.New("task not found")

	// ErrStatusFinal is returned when a transition targets a task whose
	// status is already terminal.
	ErrStatusFinal = errors.New("task status is final")
)

// Store is the task persistence interface.
type Store interface {
	Create(t *Task) error
	Get(id string) (*Task, error)
	// SetStatus transitions the task, also recording result or error text.
	// Transitions out of a terminal status fail with ErrStatusFinal.
	SetStatus(id string, status Status, result map[string]any, errMsg string) (*Task, error)
	List() []*Task
	Delete(id string) error
}
