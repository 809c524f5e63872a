package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stuhealth-backend/internal/appointments"
	"stuhealth-backend/internal/httpx"
	"stuhealth-backend/internal/transport"
)

// RequestAppointment creates a pending request for the logged-in student.
func (s *Server) RequestAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	sess, _ := currentSession(r)

	var req appointments.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("appointment request: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("appointment request: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	appointment, err := s.Appointments.Request(r.Context(), sess.UserID, sess.Username, req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrUnknownResource):
			transport.WriteError(w, http.StatusBadRequest, "unknown resource", nil)
		case errors.Is(err, appointments.ErrUnknownDoctor):
			transport.WriteError(w, http.StatusBadRequest, "unknown doctor", nil)
		default:
			log.Error("appointment request: storage error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		}
		return
	}

	log.Info("appointment request: stored",
		slog.String("appointment_id", appointment.ID),
		slog.String("student", appointment.StudentUsername),
	)
	transport.WriteJSON(w, http.StatusCreated, appointment)
}

func (s *Server) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	sess, _ := currentSession(r)

	items, err := s.Appointments.ListForStudent(r.Context(), sess.UserID)
	if err != nil {
		log.Error("appointments list: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) AdminListAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	items, err := s.Appointments.ListAdmin(r.Context(), appointments.ListFilter{
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid status", nil)
			return
		}
		log.Error("admin appointments list: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, pageOf(items, limit, offset))
}

func (s *Server) AdminGetAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	appointment, err := s.Appointments.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("admin appointment get: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, appointment)
}

func (s *Server) AdminApproveAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	sess, _ := currentSession(r)
	id := chi.URLParam(r, "id")

	var req appointments.ApproveRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			log.Warn("appointment approve: invalid json")
			transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
			return
		}
	}

	appointment, err := s.Appointments.Approve(r.Context(), id, sess.Username, req.DoctorID)
	if err != nil {
		s.writeDecisionError(w, log, "approve", err)
		return
	}

	log.Info("appointment approved",
		slog.String("appointment_id", appointment.ID),
		slog.String("admin", sess.Username),
		slog.String("doctor_id", appointment.AssignedDoctorID),
	)
	s.notifyDecision(r.Context(), log, appointment)
	transport.WriteJSON(w, http.StatusOK, appointment)
}

func (s *Server) AdminDeclineAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	sess, _ := currentSession(r)
	id := chi.URLParam(r, "id")

	appointment, err := s.Appointments.Decline(r.Context(), id, sess.Username)
	if err != nil {
		s.writeDecisionError(w, log, "decline", err)
		return
	}

	log.Info("appointment declined",
		slog.String("appointment_id", appointment.ID),
		slog.String("admin", sess.Username),
	)
	s.notifyDecision(r.Context(), log, appointment)
	transport.WriteJSON(w, http.StatusOK, appointment)
}

func (s *Server) writeDecisionError(w http.ResponseWriter, log *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, appointments.ErrNotFound):
		transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
	case errors.Is(err, appointments.ErrAlreadyDecided):
		transport.WriteError(w, http.StatusConflict, "appointment already decided", nil)
	case errors.Is(err, appointments.ErrUnknownDoctor):
		transport.WriteError(w, http.StatusBadRequest, "unknown doctor", nil)
	default:
		log.Error("appointment "+action+": storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "storage error", nil)
	}
}

// notifyDecision emails the student when a mailer is configured and the
// student profile has an email. Failures are logged, never surfaced.
func (s *Server) notifyDecision(ctx context.Context, log *slog.Logger, appointment appointments.Appointment) {
	if s.Mailer == nil {
		return
	}
	account, err := s.Users.GetByID(ctx, appointment.StudentID)
	if err != nil || account.Email == "" {
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	messageID, err := s.Mailer.SendAppointmentDecision(sendCtx, account.Email, account.FullName, appointment)
	if err != nil {
		log.Error("decision email failed", slog.String("appointment_id", appointment.ID), slog.String("error", err.Error()))
		return
	}
	log.Info("decision email sent", slog.String("appointment_id", appointment.ID), slog.String("message_id", messageID))
}
