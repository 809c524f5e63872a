package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stuhealth-backend/internal/feedback"
	"stuhealth-backend/internal/httpx"
	"stuhealth-backend/internal/transport"
)

func (s *Server) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req feedback.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("feedback create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("feedback create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	entry, err := s.Feedback.Create(r.Context(), req)
	if err != nil {
		log.Error("feedback create: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("feedback create: stored", slog.String("feedback_id", entry.ID), slog.String("urgency", entry.Urgency))
	transport.WriteJSON(w, http.StatusCreated, entry)
}

func (s *Server) AdminListFeedback(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	items, err := s.Feedback.List(r.Context())
	if err != nil {
		log.Error("feedback list: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, pageOf(items, limit, offset))
}

func (s *Server) AdminResolveFeedback(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	var req feedback.ResolveRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("feedback resolve: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	entry, err := s.Feedback.SetResolved(r.Context(), id, req.Resolved)
	if err != nil {
		if errors.Is(err, feedback.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "feedback not found", nil)
			return
		}
		log.Error("feedback resolve: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("feedback resolve: ok", slog.String("feedback_id", entry.ID), slog.Bool("resolved", entry.Resolved))
	transport.WriteJSON(w, http.StatusOK, entry)
}

func (s *Server) AdminDeleteFeedback(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	if err := s.Feedback.Delete(r.Context(), id); err != nil {
		if errors.Is(err, feedback.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "feedback not found", nil)
			return
		}
		log.Error("feedback delete: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}

	log.Info("feedback delete: ok", slog.String("feedback_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
