package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
)

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	dataset, err := s.charts.ChartData(r.Context(), userIDFromContext(r.Context()), fileID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"chartData": dataset})
}
