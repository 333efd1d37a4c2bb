// Package httpapi exposes the question pipeline over HTTP: POST /query
// runs one turn, GET /health reports liveness.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/internal/service/orchestrator"
	"github.com/fieldworks/matchbot/pkg/log"
	"github.com/google/uuid"
)

type queryRequest struct {
	Question string `json:"question"`
	ThreadID string `json:"thread_id,omitempty"`
}

type queryResponse struct {
	Success  bool   `json:"success"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
	ThreadID string `json:"thread_id,omitempty"`
}

type Server struct {
	server *http.Server
	engine *orchestrator.Engine

	// slots bounds the number of turns in flight; a turn holds a slot for
	// its whole duration, LLM latency included.
	slots chan struct{}
}

func NewServer(ctx context.Context, addr string, engine *orchestrator.Engine, workers int) *Server {
	if workers < 1 {
		workers = 1
	}

	s := &Server{
		engine: engine,
		slots:  make(chan struct{}, workers),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           withRequestLog(ctx, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.server.Addr).Msg("starting http api")
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http api failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, queryResponse{Success: false, Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, queryResponse{Success: false, Error: "question is required"})
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-ctx.Done():
		return
	}

	answer, err := s.engine.Run(ctx, threadID, req.Question)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("thread", threadID).Msg("turn failed")
		writeJSON(w, http.StatusInternalServerError, queryResponse{
			Success:  false,
			Error:    "failed to process question",
			ThreadID: threadID,
		})
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Success:  true,
		Result:   answer,
		ThreadID: threadID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": core.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// withRequestLog carries the process logger into each request context and
// logs one line per request.
func withRequestLog(base context.Context, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ctx := log.FromCtx(base).WithContext(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
		log.FromCtx(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(started)).
			Msg("http request")
	})
}
