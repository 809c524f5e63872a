package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"stuhealth-backend/internal/session"
	"stuhealth-backend/internal/transport"
)

type sessionKey struct{}

// WithSession resolves the session cookie against the store and puts
// the session on the request context. Requests without a valid cookie
// pass through with no session; gating happens in RequireRole.
func WithSession(store session.Store, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, ok, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Error("session lookup failed", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFromContext(ctx context.Context) (session.Session, bool) {
	if v := ctx.Value(sessionKey{}); v != nil {
		if s, ok := v.(session.Session); ok {
			return s, true
		}
	}
	return session.Session{}, false
}

// RequireRole rejects requests whose session is missing, anonymous, or
// bound to a different role. The response carries the login page the
// frontend should send the visitor to.
func RequireRole(role, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok || !sess.Authenticated() || sess.Role != role {
				transport.WriteErrorRedirect(w, http.StatusUnauthorized, "authentication required", loginPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
