package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/cvdoc/internal/engine"
)

// CreateCheckpointRequest names a new checkpoint
type CreateCheckpointRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// handleListCheckpoints returns the document's checkpoints, snapshots omitted
func (s *Server) handleListCheckpoints(w http.ResponseWriter, r *http.Request) {
	eng, ok := s.requireEngine(w, r)
	if !ok {
		return
	}

	doc := eng.Document()
	type checkpointSummary struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	}
	summaries := make([]checkpointSummary, 0, len(doc.Checkpoints))
	for _, checkpoint := range doc.Checkpoints {
		summaries = append(summaries, checkpointSummary{
			ID:        checkpoint.ID,
			Name:      checkpoint.Name,
			CreatedAt: checkpoint.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"checkpoints": summaries,
		"count":       len(summaries),
	})
}

// handleCreateCheckpoint snapshots the current document under a name
func (s *Server) handleCreateCheckpoint(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Checkpoint name is required (max 120 characters)")
		return
	}

	eng, ok := s.requireEngine(w, r)
	if !ok {
		return
	}

	checkpoint, err := eng.CreateCheckpoint(r.Context(), req.Name)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":         checkpoint.ID,
		"name":       checkpoint.Name,
		"created_at": checkpoint.CreatedAt,
	})
}

// handleRestoreCheckpoint replaces the document with a checkpoint's snapshot
func (s *Server) handleRestoreCheckpoint(w http.ResponseWriter, r *http.Request) {
	checkpointID := r.PathValue("checkpoint_id")

	eng, ok := s.requireEngine(w, r)
	if !ok {
		return
	}

	doc, err := eng.RestoreCheckpoint(r.Context(), checkpointID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.documentResponse(w, eng, doc)
}

// handleDeleteCheckpoint removes a checkpoint
func (s *Server) handleDeleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	checkpointID := r.PathValue("checkpoint_id")

	eng, ok := s.requireEngine(w, r)
	if !ok {
		return
	}

	if err := eng.DeleteCheckpoint(r.Context(), checkpointID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"deleted": checkpointID})
}

// requireEngine loads the engine for the request's job context and writes the
// not-found response when no document exists yet.
func (s *Server) requireEngine(w http.ResponseWriter, r *http.Request) (*engine.Engine, bool) {
	jobContextID := r.PathValue("job_context_id")

	eng, found, err := s.engines.get(r.Context(), jobContextID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return nil, false
	}
	if !found {
		notFound := &ErrDocumentNotFound{JobContextID: jobContextID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return nil, false
	}
	return eng, true
}
