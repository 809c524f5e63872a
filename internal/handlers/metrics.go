package handlers

import (
	"log/slog"
	"net/http"

	"stuhealth-backend/internal/transport"
)

type MetricsResponse struct {
	TotalViews    int `json:"totalViews"`
	ResourceCount int `json:"resourceCount"`
}

func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	totalViews, resourceCount, err := s.Catalog.Totals(r.Context())
	if err != nil {
		log.Error("metrics: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, MetricsResponse{TotalViews: totalViews, ResourceCount: resourceCount})
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
