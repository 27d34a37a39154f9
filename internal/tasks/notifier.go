package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Notifier pushes task status changes to the external backend. Delivery is
// best-effort: the backend being down must never affect task execution.
type Notifier struct {
	backendURL string
	client     *http.Client
}

// NewNotifier creates a notifier against the backend base URL.
func NewNotifier(backendURL string) *Notifier {
	return &Notifier{
		backendURL: backendURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends the status update. Failures are logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, t *Task) {
	payload := map[string]any{"status": string(t.Status)}
	if t.Result != nil {
		payload["result"] = t.Result
	}
	if t.Error != "" {
		payload["error_message"] = t.Error
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("task update not sent", "task_id", t.ID, "error", err)
		return
	}

	url := fmt.Sprintf("%s/api/tasks/%s", n.backendURL, t.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("task update not sent", "task_id", t.ID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Warn("task update not sent", "task_id", t.ID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("task update rejected", "task_id", t.ID, "status", resp.StatusCode)
	}
}
