package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stuhealth-backend/internal/appointments"
	"stuhealth-backend/internal/audit"
	"stuhealth-backend/internal/catalog"
	"stuhealth-backend/internal/config"
	"stuhealth-backend/internal/db"
	"stuhealth-backend/internal/docstore"
	"stuhealth-backend/internal/feedback"
	"stuhealth-backend/internal/handlers"
	"stuhealth-backend/internal/notifications"
	"stuhealth-backend/internal/session"
	"stuhealth-backend/internal/users"
	"stuhealth-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("data dir creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handle, err := db.Open(cfg.SQLitePath)
	if err != nil {
		logger.Error("sqlite open failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("sqlite ready", slog.String("path", cfg.SQLitePath))
	defer handle.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userService := users.NewService(users.NewRepository(handle))
	created, err := userService.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		logger.Error("admin bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		logger.Info("initial admin created", slog.String("username", cfg.AdminUser))
	}

	catalogService := catalog.NewService(
		catalog.NewResourceRepository(docstore.NewFile(filepath.Join(cfg.DataDir, "resources.json"))),
		catalog.NewDoctorRepository(docstore.NewFile(filepath.Join(cfg.DataDir, "doctors.json"))),
		cfg.Timezone,
	)
	if err := catalogService.SeedDoctors(ctx, catalog.DefaultDoctors); err != nil {
		logger.Error("doctor seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appointmentService := appointments.NewService(
		appointments.NewRepository(docstore.NewFile(filepath.Join(cfg.DataDir, "appointments.json"))),
		catalogService,
		cfg.Timezone,
	)
	feedbackService := feedback.NewService(
		feedback.NewRepository(docstore.NewFile(filepath.Join(cfg.DataDir, "feedback.json"))),
		cfg.Timezone,
	)
	auditLog := audit.NewLog(docstore.NewFile(filepath.Join(cfg.DataDir, "logout_events.json")), cfg.Timezone)

	var sessions session.Store
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisStore *session.RedisStore
		var err error
		if cfg.RedisURL != "" {
			redisStore, err = session.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisStore = session.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisStore.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis session store connected")
		sessions = redisStore
	} else {
		memory := session.NewMemory()
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				memory.Sweep()
			}
		}()
		sessions = memory
		logger.Info("in-memory session store active")
	}

	server := &handlers.Server{
		Cfg:          cfg,
		Val:          validation.New(),
		Log:          logger,
		Sessions:     sessions,
		Users:        userService,
		Catalog:      catalogService,
		Appointments: appointmentService,
		Feedback:     feedbackService,
		Audit:        auditLog,
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
		server.Mailer = mailer
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: server.Routes(),
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
