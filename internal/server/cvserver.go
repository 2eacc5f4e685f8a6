// Package server provides the HTTP REST API for the CV document engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cvdoc/internal/assist"
	"github.com/jonathan/cvdoc/internal/normalizer"
	"github.com/jonathan/cvdoc/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      store.Store
	engines    *engineRegistry
	normalizer *normalizer.Normalizer
	assistant  *assist.Assistant
	validate   *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port      int
	Store     store.Store
	Assistant *assist.Assistant // nil disables the suggestion endpoints
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	s := &Server{
		store:      cfg.Store,
		engines:    newEngineRegistry(cfg.Store),
		normalizer: normalizer.New(),
		assistant:  cfg.Assistant,
		validate:   validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Document endpoints
	mux.HandleFunc("GET /documents/{job_context_id}", s.handleGetDocument)
	mux.HandleFunc("PUT /documents/{job_context_id}", s.handleLoadDocument)
	mux.HandleFunc("POST /documents/{job_context_id}/normalize", s.handleNormalize)
	mux.HandleFunc("POST /documents/{job_context_id}/actions", s.handleDispatchAction)
	mux.HandleFunc("POST /documents/{job_context_id}/undo", s.handleUndo)
	mux.HandleFunc("POST /documents/{job_context_id}/redo", s.handleRedo)

	// Checkpoint endpoints
	mux.HandleFunc("GET /documents/{job_context_id}/checkpoints", s.handleListCheckpoints)
	mux.HandleFunc("POST /documents/{job_context_id}/checkpoints", s.handleCreateCheckpoint)
	mux.HandleFunc("POST /documents/{job_context_id}/checkpoints/{checkpoint_id}/restore", s.handleRestoreCheckpoint)
	mux.HandleFunc("DELETE /documents/{job_context_id}/checkpoints/{checkpoint_id}", s.handleDeleteCheckpoint)

	// AI suggestion endpoints
	mux.HandleFunc("POST /documents/{job_context_id}/suggestions", s.handleCreateSuggestion)
	mux.HandleFunc("POST /documents/{job_context_id}/extract", s.handleExtract)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // suggestion fan-out can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
