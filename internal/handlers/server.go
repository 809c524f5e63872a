package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"stuhealth-backend/internal/appointments"
	"stuhealth-backend/internal/audit"
	"stuhealth-backend/internal/catalog"
	"stuhealth-backend/internal/config"
	"stuhealth-backend/internal/feedback"
	"stuhealth-backend/internal/middleware"
	"stuhealth-backend/internal/session"
	"stuhealth-backend/internal/users"
	"stuhealth-backend/internal/validation"
)

type DecisionMailer interface {
	SendAppointmentDecision(ctx context.Context, toEmail, toName string, appointment appointments.Appointment) (string, error)
}

type Server struct {
	Cfg          *config.Config
	Val          *validation.Validator
	Log          *slog.Logger
	Sessions     session.Store
	Users        *users.Service
	Catalog      *catalog.Service
	Appointments *appointments.Service
	Feedback     *feedback.Service
	Audit        *audit.Log
	Mailer       DecisionMailer
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}
