package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/cvdoc/internal/engine"
	"github.com/jonathan/cvdoc/internal/types"
)

// SuggestionRequest asks for an AI rewrite of one document field
type SuggestionRequest struct {
	Field          engine.SuggestionField `json:"field" validate:"required,oneof=intro milestones bullet"`
	ExperienceID   string                 `json:"experience_id,omitempty"`
	BulletID       string                 `json:"bullet_id,omitempty"`
	AllBullets     bool                   `json:"all_bullets,omitempty"` // fan out over every bullet of the block
	JobDescription string                 `json:"job_description" validate:"required"`
}

// handleCreateSuggestion generates a pending suggestion and attaches it to
// the addressed field. Attaching never modifies content and is not undoable;
// the caller resolves the suggestion through the actions endpoint.
func (s *Server) handleCreateSuggestion(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		disabled := &ErrAssistDisabled{}
		s.errorResponse(w, HTTPStatus(disabled), disabled.Error())
		return
	}

	var req SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "field and job_description are required")
		return
	}

	eng, ok := s.requireEngine(w, r)
	if !ok {
		return
	}
	doc := eng.Document()

	if req.Field == engine.SuggestionFieldBullet && req.AllBullets {
		s.suggestAllBullets(w, r, eng, doc, req)
		return
	}

	suggestion, ref, err := s.generateSuggestion(r, doc, req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	updated, err := eng.Dispatch(r.Context(), engine.Action{
		Type:       engine.ActionSetSuggestion,
		Ref:        ref,
		Suggestion: suggestion,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"suggestion": suggestion,
		"document":   updated,
	})
}

func (s *Server) generateSuggestion(r *http.Request, doc *types.CVDocument, req SuggestionRequest) (*types.AISuggestion, *engine.SuggestionRef, error) {
	ref := &engine.SuggestionRef{
		Field:        req.Field,
		ExperienceID: req.ExperienceID,
		BulletID:     req.BulletID,
	}

	switch req.Field {
	case engine.SuggestionFieldIntro:
		suggestion, err := s.assistant.SuggestIntro(r.Context(), doc, req.JobDescription)
		return suggestion, ref, err
	case engine.SuggestionFieldMilestones:
		block := findBlock(doc, req.ExperienceID)
		if block == nil {
			return nil, nil, &ErrValidation{Field: "experience_id", Message: "experience not found"}
		}
		suggestion, err := s.assistant.SuggestMilestones(r.Context(), block, req.JobDescription)
		return suggestion, ref, err
	default: // bullet
		block := findBlock(doc, req.ExperienceID)
		if block == nil {
			return nil, nil, &ErrValidation{Field: "experience_id", Message: "experience not found"}
		}
		bullet := findBullet(block, req.BulletID)
		if bullet == nil {
			return nil, nil, &ErrValidation{Field: "bullet_id", Message: "bullet not found"}
		}
		suggestion, err := s.assistant.SuggestBullet(r.Context(), block, bullet, req.JobDescription)
		return suggestion, ref, err
	}
}

// suggestAllBullets fans out over every bullet of a block and attaches the
// whole batch. Either all suggestions attach or none do.
func (s *Server) suggestAllBullets(w http.ResponseWriter, r *http.Request, eng *engine.Engine, doc *types.CVDocument, req SuggestionRequest) {
	block := findBlock(doc, req.ExperienceID)
	if block == nil {
		err := &ErrValidation{Field: "experience_id", Message: "experience not found"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	byBullet, err := s.assistant.SuggestBullets(r.Context(), block, req.JobDescription)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Suggestion provider error: "+err.Error())
		return
	}

	var updated *types.CVDocument
	for bulletID, suggestion := range byBullet {
		updated, err = eng.Dispatch(r.Context(), engine.Action{
			Type: engine.ActionSetSuggestion,
			Ref: &engine.SuggestionRef{
				Field:        engine.SuggestionFieldBullet,
				ExperienceID: req.ExperienceID,
				BulletID:     bulletID,
			},
			Suggestion: suggestion,
		})
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"suggestions": byBullet,
		"document":    updated,
	})
}

// ExtractRequest carries raw CV text for AI structuring
type ExtractRequest struct {
	CVText string `json:"cv_text" validate:"required"`
}

// handleExtract runs AI structuring over raw CV text and returns the
// structured data without touching the document. The caller feeds it back
// through the normalize endpoint.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		disabled := &ErrAssistDisabled{}
		s.errorResponse(w, HTTPStatus(disabled), disabled.Error())
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "cv_text is required")
		return
	}

	data, err := s.assistant.ExtractStructured(r.Context(), req.CVText)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Extraction provider error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"ai_structured": data})
}

func findBlock(doc *types.CVDocument, id string) *types.ExperienceBlock {
	for i := range doc.RightColumn.Experience {
		if doc.RightColumn.Experience[i].ID == id {
			return &doc.RightColumn.Experience[i]
		}
	}
	return nil
}

func findBullet(block *types.ExperienceBlock, id string) *types.BulletItem {
	for i := range block.Bullets {
		if block.Bullets[i].ID == id {
			return &block.Bullets[i]
		}
	}
	return nil
}
