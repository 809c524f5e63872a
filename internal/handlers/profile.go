package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"stuhealth-backend/internal/transport"
	"stuhealth-backend/internal/users"
)

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	sess, _ := currentSession(r)

	account, err := s.Users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "account not found", nil)
			return
		}
		log.Error("profile get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, account)
}

// UpdateProfile edits the caller's own profile; the session decides whose.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	sess, _ := currentSession(r)

	var req users.Profile
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("profile update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("profile update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	account, err := s.Users.UpdateProfile(r.Context(), sess.UserID, req)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "account not found", nil)
			return
		}
		log.Error("profile update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("profile update: ok", slog.Int64("user_id", account.ID))
	transport.WriteJSON(w, http.StatusOK, account)
}
