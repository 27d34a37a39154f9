package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// submitRequest accepts both the nested task_data shape and the flat shape.
type submitRequest struct {
	TaskID   string `json:"task_id"`
	TaskData *struct {
		ToolType   string         `json:"tool_type"`
		Parameters map[string]any `json:"parameters"`
	} `json:"task_data"`
	ToolType   string         `json:"tool_type"`
	Parameters map[string]any `json:"parameters"`
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	toolType := req.ToolType
	params := req.Parameters
	if req.TaskData != nil {
		toolType = req.TaskData.ToolType
		params = req.TaskData.Parameters
	}

	task, err := s.runner.Submit(req.TaskID, toolType, params)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"task_id": task.ID,
		"message": "task accepted",
	})
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, found := s.runner.Cancel(id)
	if !found {
		respondJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"task_id": id,
			"message": "task not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"task_id": id,
		"message": "task cancelled",
		"result":  task,
	})
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := s.runner.Status(id)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"task_id": id,
			"status":  map[string]any{"status": "not_found"},
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"task_id": id,
		"status":  task,
	})
}
