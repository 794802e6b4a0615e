package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/sheetglance/internal/common"
)

type insightsRequest struct {
	FileID string `json:"fileId"`
}

func (s *Server) handleInsightsGenerate(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid request body", common.ErrValidation))
		return
	}
	if req.FileID == "" {
		s.writeError(w, r, fmt.Errorf("%w: fileId is required", common.ErrValidation))
		return
	}

	record, err := s.insights.Generate(r.Context(), userIDFromContext(r.Context()), req.FileID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"insights": record})
}

func (s *Server) handleInsightsCurrent(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	record, err := s.insights.Current(r.Context(), userIDFromContext(r.Context()), fileID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"insights": record})
}
