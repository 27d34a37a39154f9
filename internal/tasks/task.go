// Package tasks tracks in-flight task state and drives execution through
// the tool router. State lives in memory only; the external backend is kept
// informed best-effort.
package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final. Terminal statuses are
// sticky: no transition leaves them.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Task is one tracked unit of work.
type Task struct {
	ID         string         `json:"task_id"`
	ToolType   string         `json:"tool_type"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Status     Status         `json:"status"`
	Result     map[string]any `json:"result,omitempty"`
	Error      string         `json:"error_message,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// GenerateTaskID returns a fresh task identifier.
func GenerateTaskID() string {
	return "task_" + uuid.NewString()
}
