package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stuhealth-backend/internal/catalog"
	"stuhealth-backend/internal/transport"
)

type DashboardResponse struct {
	TotalViews          int `json:"totalViews"`
	ResourceCount       int `json:"resourceCount"`
	PendingAppointments int `json:"pendingAppointments"`
	OpenFeedback        int `json:"openFeedback"`
}

// AdminDashboard aggregates the numbers shown on the admin landing page.
func (s *Server) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	totalViews, resourceCount, err := s.Catalog.Totals(r.Context())
	if err != nil {
		log.Error("dashboard: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	pending, err := s.Appointments.CountPending(r.Context())
	if err != nil {
		log.Error("dashboard: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	openFeedback, err := s.Feedback.CountOpen(r.Context())
	if err != nil {
		log.Error("dashboard: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, DashboardResponse{
		TotalViews:          totalViews,
		ResourceCount:       resourceCount,
		PendingAppointments: pending,
		OpenFeedback:        openFeedback,
	})
}

func (s *Server) AdminCreateResource(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req catalog.UpsertResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("admin resources create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin resources create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	item, err := s.Catalog.CreateResource(r.Context(), req)
	if err != nil {
		log.Error("admin resources create: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("admin resources create: ok", slog.String("resource_id", item.ID), slog.String("title", item.Title))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (s *Server) AdminUpdateResource(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	var req catalog.UpsertResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("admin resources update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	item, err := s.Catalog.UpdateResource(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "resource not found", nil)
			return
		}
		log.Error("admin resources update: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("admin resources update: ok", slog.String("resource_id", item.ID))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (s *Server) AdminDeleteResource(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	if err := s.Catalog.DeleteResource(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "resource not found", nil)
			return
		}
		log.Error("admin resources delete: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("admin resources delete: ok", slog.String("resource_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
