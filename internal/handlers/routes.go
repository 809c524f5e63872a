package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"stuhealth-backend/internal/middleware"
	"stuhealth-backend/internal/users"
)

// Routes assembles the full router. Gated groups sit behind RequireRole;
// auth failures answer 401 with a redirect hint to the role's login page.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.Log))
	r.Use(middleware.CORS(s.Cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(middleware.WithSession(s.Sessions, s.Cfg.SessionCookie, s.Log))

	window := time.Duration(s.Cfg.RateLimitWindowSec) * time.Second
	loginLimiter := middleware.NewRateLimiter(s.Cfg.RateLimitLogin, window)
	feedbackLimiter := middleware.NewRateLimiter(s.Cfg.RateLimitFeedback, window)
	appointmentsLimiter := middleware.NewRateLimiter(s.Cfg.RateLimitAppointments, window)

	studentOnly := middleware.RequireRole(users.RoleStudent, "/student/login")
	adminOnly := middleware.RequireRole(users.RoleAdmin, "/admin/login")

	r.Get("/healthz", s.Healthz)
	r.Get("/metrics", s.Metrics)
	r.Get("/doctors", s.ListDoctors)
	r.With(feedbackLimiter.Middleware).Post("/feedback", s.CreateFeedback)

	r.Get("/auth", s.IssueCaptcha(""))
	r.With(loginLimiter.Middleware).Post("/auth/login", s.Login)
	r.Post("/auth/signup", s.Signup)

	r.Get("/student/login", s.IssueCaptcha(users.RoleStudent))
	r.With(loginLimiter.Middleware).Post("/student/login", s.LoginAs(users.RoleStudent))
	r.Get("/student/signup", s.IssueCaptcha(users.RoleStudent))
	r.Post("/student/signup", s.SignupAs(users.RoleStudent))

	r.Get("/admin/login", s.IssueCaptcha(users.RoleAdmin))
	r.With(loginLimiter.Middleware).Post("/admin/login", s.LoginAs(users.RoleAdmin))
	r.Get("/admin/signup", s.IssueCaptcha(users.RoleAdmin))
	r.Post("/admin/signup", s.SignupAs(users.RoleAdmin))

	r.Get("/logout", s.LogoutConfirm)
	r.Post("/logout", s.Logout)

	r.Group(func(student chi.Router) {
		student.Use(studentOnly)
		student.Get("/resources", s.ListResources)
		student.Get("/resources/{id}", s.GetResource)
		student.With(appointmentsLimiter.Middleware).Post("/appointments/request", s.RequestAppointment)
		student.Get("/appointments", s.ListMyAppointments)
		student.Get("/student/profile", s.GetProfile)
		student.Put("/student/profile", s.UpdateProfile)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(adminOnly)
		admin.Get("/admin", s.AdminDashboard)
		admin.Get("/admin/appointments", s.AdminListAppointments)
		admin.Get("/admin/appointments/{id}", s.AdminGetAppointment)
		admin.Post("/admin/appointments/approve/{id}", s.AdminApproveAppointment)
		admin.Post("/admin/appointments/decline/{id}", s.AdminDeclineAppointment)
		admin.Post("/admin/resources", s.AdminCreateResource)
		admin.Put("/admin/resources/{id}", s.AdminUpdateResource)
		admin.Delete("/admin/resources/{id}", s.AdminDeleteResource)
		admin.Get("/admin/feedback", s.AdminListFeedback)
		admin.Patch("/admin/feedback/{id}", s.AdminResolveFeedback)
		admin.Delete("/admin/feedback/{id}", s.AdminDeleteFeedback)
		admin.Post("/admin/users", s.AdminCreateUser)
		admin.Patch("/admin/users/{id}/password", s.AdminUpdateUserPassword)
	})

	return r
}
