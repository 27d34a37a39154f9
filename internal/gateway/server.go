// Package gateway exposes the agentd HTTP surface: task submission and
// inspection, provider configuration control, and event observability.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/CRui5in/agentd/internal/events"
	"github.com/CRui5in/agentd/internal/gateway/ws"
	"github.com/CRui5in/agentd/internal/llm"
	"github.com/CRui5in/agentd/internal/tasks"
	"github.com/CRui5in/agentd/internal/tools"
)

// Server is the agentd gateway HTTP server.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	hub        *ws.Hub
	bus        *events.Bus
	runner     *tasks.Runner
	llm        *llm.Gateway
	directory  *tools.Directory
	host       string
	port       int
}

// NewServer creates a new gateway server.
func NewServer(runner *tasks.Runner, gw *llm.Gateway, directory *tools.Directory, bus *events.Bus, host string, port int) *Server {
	hub := ws.NewHub(bus)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	s := &Server{
		router:    r,
		hub:       hub,
		bus:       bus,
		runner:    runner,
		llm:       gw,
		directory: directory,
		host:      host,
		port:      port,
	}

	r.Post("/api/tasks", s.handleSubmitTask)
	r.Post("/api/tasks/{id}/cancel", s.handleCancelTask)
	r.Get("/api/tasks/{id}/status", s.handleTaskStatus)

	r.Post("/api/config/llm/reload", s.handleConfigReload)
	r.Get("/api/config/llm/status", s.handleConfigStatus)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/ws", hub.ServeWS)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: r,
	}

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("agentd gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	reg := s.llm.Reload(r.Context())
	snap := reg.Snapshot()

	s.bus.Publish(events.NewEvent(events.EventConfigReloaded, map[string]any{
		"provider": snap.Provider,
		"source":   snap.Source,
	}))

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"provider":   snap.Provider,
		"model":      snap.Model,
		"configured": snap.Configured,
		"source":     snap.Source,
	})
}

func (s *Server) handleConfigStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.llm.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"configured":          snap.Provider != "",
		"provider":            snap.Provider,
		"model":               snap.Model,
		"source":              snap.Source,
		"available_providers": snap.Configured,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.llm.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"status":         "healthy",
		"agent_running":  true,
		"llm_configured": snap.Provider != "",
		"services": map[string]any{
			"tool_services": len(s.directory.Enabled()),
			"active_tasks":  s.runner.ActiveCount(),
		},
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}

	history := s.bus.History(limit)

	type eventJSON struct {
		ID        string         `json:"id"`
		Type      string         `json:"type"`
		Timestamp string         `json:"timestamp"`
		Payload   map[string]any `json:"payload"`
	}
	result := make([]eventJSON, len(history))
	for i, e := range history {
		result[i] = eventJSON{
			ID:        e.ID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Payload:   e.Payload,
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{"events": result})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}
