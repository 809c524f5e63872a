package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	ServerAddr     string
	FrontendOrigin string

	DataDir    string
	SQLitePath string

	SessionTTLMinutes int
	SessionCookie     string
	CookieSecure      bool

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitLogin        int
	RateLimitFeedback     int
	RateLimitAppointments int
	RateLimitWindowSec    int

	AdminUser     string
	AdminPassword string

	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	BrevoSandbox     bool

	Timezone *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return nil, err
	}

	dataDir := getEnv("DATA_DIR", "data")

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		ServerAddr:            getEnv("SERVER_ADDR", ":3000"),
		FrontendOrigin:        getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		DataDir:               dataDir,
		SQLitePath:            getEnv("SQLITE_PATH", dataDir+"/users.db"),
		SessionTTLMinutes:     getEnvInt("SESSION_TTL_MINUTES", 240),
		SessionCookie:         getEnv("SESSION_COOKIE", "stuhealth_session"),
		CookieSecure:          getEnv("COOKIE_SECURE", "false") == "true",
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		RateLimitLogin:        getEnvInt("RATE_LIMIT_LOGIN", 10),
		RateLimitFeedback:     getEnvInt("RATE_LIMIT_FEEDBACK", 5),
		RateLimitAppointments: getEnvInt("RATE_LIMIT_APPOINTMENTS", 10),
		RateLimitWindowSec:    getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		AdminUser:             getEnv("ADMIN_USER", ""),
		AdminPassword:         getEnv("ADMIN_PASS", ""),
		BrevoAPIKey:           getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail:      getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:       getEnv("BREVO_SENDER_NAME", ""),
		BrevoSandbox:          getEnv("BREVO_SANDBOX", "false") == "true",
		Timezone:              loc,
	}

	return cfg, nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
