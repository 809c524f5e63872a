package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Session is the server-held state behind an opaque browser cookie. It binds
// at most one identity/role pair and may carry the expected answer of a
// pending login CAPTCHA. A session is never both student- and
// admin-authenticated: Bind replaces the previous identity wholesale.
type Session struct {
	Token         string    `json:"token"`
	UserID        int64     `json:"user_id,omitempty"`
	Username      string    `json:"username,omitempty"`
	Role          string    `json:"role,omitempty"`
	CaptchaAnswer string    `json:"captcha_answer,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (s *Session) Authenticated() bool {
	return s.Role != ""
}

func (s *Session) Bind(userID int64, username, role string) {
	s.UserID = userID
	s.Username = username
	s.Role = role
}

type Store interface {
	Get(ctx context.Context, token string) (Session, bool, error)
	Put(ctx context.Context, sess Session) error
	Delete(ctx context.Context, token string) error
}

func NewToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
