package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"stuhealth-backend/internal/auth"
	"stuhealth-backend/internal/session"
	"stuhealth-backend/internal/transport"
	"stuhealth-backend/internal/users"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
	Captcha  string `json:"captcha" validate:"required"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role"`
	FullName string `json:"full_name" validate:"max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

type AuthResponse struct {
	Status   string `json:"status"`
	Role     string `json:"role,omitempty"`
	Username string `json:"username,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type CaptchaResponse struct {
	Question string `json:"question"`
	Role     string `json:"role,omitempty"`
}

func redirectFor(role string) string {
	if role == users.RoleAdmin {
		return "/admin"
	}
	return "/resources"
}

func loginPathFor(role string) string {
	if role == users.RoleAdmin {
		return "/admin/login"
	}
	return "/student/login"
}

// IssueCaptcha renders a fresh challenge and stores its answer on the
// visitor's session, creating an anonymous one when needed. Each render
// replaces any previous challenge.
func (s *Server) IssueCaptcha(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.logWithRequest(r)
		challenge := auth.NewChallenge()

		sess, ok := currentSession(r)
		if !ok {
			sess = session.Session{Token: session.NewToken()}
			if sess.Token == "" {
				log.Error("captcha: token generation failed")
				transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
				return
			}
		}
		sess.CaptchaAnswer = challenge.Answer
		sess.ExpiresAt = time.Now().Add(s.Cfg.SessionTTL())

		if err := s.Sessions.Put(r.Context(), sess); err != nil {
			log.Error("captcha: session store error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
			return
		}

		s.setSessionCookie(w, sess.Token)
		transport.WriteJSON(w, http.StatusOK, CaptchaResponse{Question: challenge.Question, Role: role})
	}
}

// Login authenticates against the generic endpoint; the role comes from
// the request body and defaults to student.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, "")
}

// LoginAs serves the role-fixed login endpoints; a role in the body is
// ignored.
func (s *Server) LoginAs(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.handleLogin(w, r, role)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, fixedRole string) {
	log := s.logWithRequest(r)
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if fixedRole != "" {
		req.Role = fixedRole
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	// The challenge is single-use. Consume it before checking anything,
	// so a failed attempt cannot retry against the same answer.
	sess, ok := currentSession(r)
	expected := ""
	if ok {
		expected = sess.CaptchaAnswer
		sess.CaptchaAnswer = ""
		if err := s.Sessions.Put(r.Context(), sess); err != nil {
			log.Error("login: session store error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
			return
		}
	}

	if !auth.CheckAnswer(expected, req.Captcha) {
		log.Warn("login: captcha mismatch", slog.String("username", req.Username))
		transport.WriteError(w, http.StatusUnauthorized, "captcha mismatch", nil)
		return
	}

	account, err := s.Users.Login(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCredentials):
			log.Warn("login: invalid credentials", slog.String("username", req.Username))
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		case errors.Is(err, users.ErrInvalidRole):
			log.Warn("login: invalid role", slog.String("role", req.Role))
			transport.WriteError(w, http.StatusBadRequest, "invalid role", nil)
		default:
			log.Error("login: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	if err := s.startSession(w, r, sess, account); err != nil {
		log.Error("login: session store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
		return
	}

	log.Info("login: ok", slog.String("username", account.Username), slog.String("role", account.Role))
	transport.WriteJSON(w, http.StatusOK, AuthResponse{
		Status:   "ok",
		Role:     account.Role,
		Username: account.Username,
		Redirect: redirectFor(account.Role),
	})
}

// Signup registers an account on the generic endpoint; the role defaults
// to student.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	s.handleSignup(w, r, "")
}

func (s *Server) SignupAs(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.handleSignup(w, r, role)
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request, fixedRole string) {
	log := s.logWithRequest(r)
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("signup: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if fixedRole != "" {
		req.Role = fixedRole
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("signup: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	account, err := s.Users.Signup(r.Context(), req.Username, req.Password, req.Role, users.Profile{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			log.Warn("signup: username taken", slog.String("username", req.Username))
			transport.WriteError(w, http.StatusConflict, "username already taken", nil)
		case errors.Is(err, users.ErrInvalidRole):
			log.Warn("signup: invalid role", slog.String("role", req.Role))
			transport.WriteError(w, http.StatusBadRequest, "invalid role", nil)
		case errors.Is(err, users.ErrInvalidCredentials):
			log.Warn("signup: missing credentials")
			transport.WriteError(w, http.StatusBadRequest, "username and password are required", nil)
		default:
			log.Error("signup: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	sess, _ := currentSession(r)
	if err := s.startSession(w, r, sess, account); err != nil {
		log.Error("signup: session store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
		return
	}

	log.Info("signup: ok", slog.Int64("user_id", account.ID), slog.String("username", account.Username), slog.String("role", account.Role))
	transport.WriteJSON(w, http.StatusCreated, AuthResponse{
		Status:   "ok",
		Role:     account.Role,
		Username: account.Username,
		Redirect: redirectFor(account.Role),
	})
}

// startSession issues a fresh token bound to the account, discarding any
// pre-auth session.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, old session.Session, account users.Account) error {
	if old.Token != "" {
		if err := s.Sessions.Delete(r.Context(), old.Token); err != nil {
			return err
		}
	}

	sess := session.Session{
		Token:     session.NewToken(),
		ExpiresAt: time.Now().Add(s.Cfg.SessionTTL()),
	}
	if sess.Token == "" {
		return errors.New("token generation failed")
	}
	sess.Bind(account.ID, account.Username, account.Role)

	if err := s.Sessions.Put(r.Context(), sess); err != nil {
		return err
	}
	s.setSessionCookie(w, sess.Token)
	return nil
}

type LogoutConfirmResponse struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// LogoutConfirm backs the confirmation page; it changes nothing.
func (s *Server) LogoutConfirm(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	transport.WriteJSON(w, http.StatusOK, LogoutConfirmResponse{
		Status:        "confirm",
		Authenticated: sess.Authenticated(),
		Username:      sess.Username,
	})
}

// Logout records the event and destroys the session. A failed audit
// write is logged and the logout proceeds anyway.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	sess, ok := currentSession(r)

	if _, err := s.Audit.RecordLogout(r.Context(), sess.Username, sess.Role, clientOrigin(r)); err != nil {
		log.Error("logout: audit write failed", slog.String("error", err.Error()))
	}

	if ok {
		if err := s.Sessions.Delete(r.Context(), sess.Token); err != nil {
			log.Error("logout: session delete failed", slog.String("error", err.Error()))
		}
	}
	s.clearSessionCookie(w)

	log.Info("logout: ok", slog.String("username", sess.Username))
	transport.WriteJSON(w, http.StatusOK, AuthResponse{Status: "ok", Redirect: "/"})
}
