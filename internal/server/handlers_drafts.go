package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-wizard/internal/pipeline"
	"github.com/jonathan/resume-wizard/internal/server/middleware"
	"github.com/jonathan/resume-wizard/internal/types"
)

// GenerateRequest is the request body for the generation endpoints.
type GenerateRequest struct {
	Input     *types.WizardInput         `json:"input"`
	Mode      string                     `json:"mode,omitempty" validate:"omitempty,oneof=default shorter longer formal creative"`
	Overrides map[string]json.RawMessage `json:"overrides,omitempty"`
	Force     bool                       `json:"force,omitempty"`
}

// DraftResponse is the draft metadata returned by GET /drafts/{request_id}.
type DraftResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Dirty     bool   `json:"dirty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// DirtyRequest is the request body for POST /drafts/{request_id}/dirty.
type DirtyRequest struct {
	Dirty bool `json:"dirty"`
}

// decodeGenerateRequest decodes and validates a generation request body,
// writing the error response itself on failure.
func (s *Server) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*GenerateRequest, map[types.SectionType]json.RawMessage, bool) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, nil, false
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return nil, nil, false
	}

	overrides := make(map[types.SectionType]json.RawMessage, len(req.Overrides))
	for key, payload := range req.Overrides {
		sectionType := types.SectionType(key)
		if !sectionType.Valid() {
			s.errorResponse(w, http.StatusBadRequest, "Unknown section type in overrides: "+key)
			return nil, nil, false
		}
		overrides[sectionType] = payload
	}

	return &req, overrides, true
}

// handleGenerateAll generates every section of the caller's draft in the
// fixed order. With force set it is the forced-regeneration path: the dirty
// flag is cleared here, and only after the regeneration succeeded.
func (s *Server) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID := r.PathValue("request_id")
	if requestID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Request ID is required")
		return
	}

	req, overrides, ok := s.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	params := pipeline.GenerateParams{
		UserID:    userID,
		RequestID: requestID,
		Input:     req.Input,
		Mode:      types.GenerationMode(req.Mode),
		Overrides: overrides,
	}

	var result map[types.SectionType]json.RawMessage
	if req.Force {
		result, err = s.orchestrator.RegenerateAllWithOverrides(r.Context(), params)
		if err == nil {
			// Dirty is cleared only after the full regeneration
			// succeeded; a failed run keeps the draft flagged.
			if dirtyErr := s.orchestrator.SetDirty(r.Context(), userID, requestID, false); dirtyErr != nil {
				s.errorResponse(w, HTTPStatus(dirtyErr), dirtyErr.Error())
				return
			}
		}
	} else {
		result, err = s.orchestrator.GenerateAll(r.Context(), params)
	}
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateSection generates a single section and returns its effective
// output. Single-section calls never change draft status.
func (s *Server) handleGenerateSection(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID := r.PathValue("request_id")
	if requestID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Request ID is required")
		return
	}

	sectionType := types.SectionType(r.PathValue("section_type"))
	if !sectionType.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "Unknown section type: "+string(sectionType))
		return
	}

	req, overrides, ok := s.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	effective, err := s.orchestrator.GenerateSection(r.Context(), pipeline.GenerateParams{
		UserID:    userID,
		RequestID: requestID,
		Input:     req.Input,
		Mode:      types.GenerationMode(req.Mode),
		Overrides: overrides,
	}, sectionType)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[types.SectionType]json.RawMessage{sectionType: effective})
}

// handleGetSections returns the effective output of every generated section.
// Missing drafts and drafts owned by other users are the same 404.
func (s *Server) handleGetSections(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID := r.PathValue("request_id")
	if requestID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Request ID is required")
		return
	}

	result, err := s.orchestrator.GetGeneratedSections(r.Context(), userID, requestID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetDraft returns the caller's draft metadata.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID := r.PathValue("request_id")
	if requestID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Request ID is required")
		return
	}

	d, err := s.orchestrator.Draft(r.Context(), userID, requestID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, DraftResponse{
		RequestID: d.RequestID,
		Status:    d.Status,
		Dirty:     d.Dirty,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: d.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// handleMarkDirty sets or clears the draft's dirty flag. This is the entry
// point for the upstream wizard-edit path after sections were generated.
func (s *Server) handleMarkDirty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID := r.PathValue("request_id")
	if requestID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Request ID is required")
		return
	}

	req := DirtyRequest{Dirty: true}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	if err := s.orchestrator.SetDirty(r.Context(), userID, requestID, req.Dirty); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{"dirty": req.Dirty})
}
