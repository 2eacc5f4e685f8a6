package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/cvdoc/internal/engine"
	"github.com/jonathan/cvdoc/internal/normalizer"
	"github.com/jonathan/cvdoc/internal/schemas"
	"github.com/jonathan/cvdoc/internal/types"
)

// DocumentResponse wraps a document with its history capabilities
type DocumentResponse struct {
	Document *types.CVDocument `json:"document"`
	CanUndo  bool              `json:"can_undo"`
	CanRedo  bool              `json:"can_redo"`
}

// handleGetDocument returns the current document for a job context
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	jobContextID := r.PathValue("job_context_id")

	eng, found, err := s.engines.get(r.Context(), jobContextID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return
	}
	if !found {
		err := &ErrDocumentNotFound{JobContextID: jobContextID}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.documentResponse(w, eng, eng.Document())
}

// handleLoadDocument replaces the document for a job context with the one in
// the request body. The document is schema-validated before it reaches the
// engine; loading establishes a fresh baseline with no undo history.
func (s *Server) handleLoadDocument(w http.ResponseWriter, r *http.Request) {
	jobContextID := r.PathValue("job_context_id")

	body, err := readBody(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := schemas.ValidateDocument(string(body)); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var doc types.CVDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid document JSON: "+err.Error())
		return
	}
	if doc.JobContextID != jobContextID {
		s.errorResponse(w, http.StatusBadRequest, "Document job_context_id does not match URL")
		return
	}

	eng, _, err := s.engines.get(r.Context(), jobContextID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return
	}

	loaded, err := eng.Dispatch(r.Context(), engine.Action{Type: engine.ActionLoad, Document: &doc})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.documentResponse(w, eng, loaded)
}

// NormalizeRequest carries the raw sources for document normalization
type NormalizeRequest struct {
	normalizer.RawData
}

// handleNormalize reconciles raw CV sources into a document and loads it.
// An existing document with user edits survives re-normalization untouched.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	jobContextID := r.PathValue("job_context_id")

	var req NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	eng, _, err := s.engines.get(r.Context(), jobContextID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return
	}

	doc := s.normalizer.Normalize(jobContextID, req.RawData, eng.Document())
	loaded, err := eng.Dispatch(r.Context(), engine.Action{Type: engine.ActionLoad, Document: doc})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.documentResponse(w, eng, loaded)
}

// handleDispatchAction runs one reducer action against the document
func (s *Server) handleDispatchAction(w http.ResponseWriter, r *http.Request) {
	jobContextID := r.PathValue("job_context_id")

	var action engine.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if action.Type == "" {
		s.errorResponse(w, http.StatusBadRequest, "Action type is required")
		return
	}

	eng, found, err := s.engines.get(r.Context(), jobContextID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return
	}
	if !found && action.Type != engine.ActionLoad && action.Type != engine.ActionCreateEmpty {
		err := &ErrDocumentNotFound{JobContextID: jobContextID}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	doc, err := eng.Dispatch(r.Context(), action)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.documentResponse(w, eng, doc)
}

// handleUndo reverts the last content mutation
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.handleHistoryShift(w, r, func(eng *engine.Engine) (*types.CVDocument, bool) {
		return eng.Undo(r.Context())
	})
}

// handleRedo re-applies the last undone mutation
func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.handleHistoryShift(w, r, func(eng *engine.Engine) (*types.CVDocument, bool) {
		return eng.Redo(r.Context())
	})
}

func (s *Server) handleHistoryShift(w http.ResponseWriter, r *http.Request, shift func(*engine.Engine) (*types.CVDocument, bool)) {
	jobContextID := r.PathValue("job_context_id")

	eng, found, err := s.engines.get(r.Context(), jobContextID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return
	}
	if !found {
		notFound := &ErrDocumentNotFound{JobContextID: jobContextID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	doc, shifted := shift(eng)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"document": doc,
		"shifted":  shifted,
		"can_undo": eng.CanUndo(),
		"can_redo": eng.CanRedo(),
	})
}

func (s *Server) documentResponse(w http.ResponseWriter, eng *engine.Engine, doc *types.CVDocument) {
	s.jsonResponse(w, http.StatusOK, DocumentResponse{
		Document: doc,
		CanUndo:  eng.CanUndo(),
		CanRedo:  eng.CanRedo(),
	})
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
