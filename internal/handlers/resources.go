package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stuhealth-backend/internal/catalog"
	"stuhealth-backend/internal/transport"
)

func (s *Server) ListResources(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	items, err := s.Catalog.ListResources(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		log.Error("resources list: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

// GetResource serves the detail view. Every hit counts as a view.
func (s *Server) GetResource(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	item, err := s.Catalog.ViewResource(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "resource not found", nil)
			return
		}
		log.Error("resource detail: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, item)
}

func (s *Server) ListDoctors(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	doctors, err := s.Catalog.ListDoctors(r.Context())
	if err != nil {
		log.Error("doctors list: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, doctors)
}
