// Package audit records security-relevant events in an append-only log.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stuhealth-backend/internal/docstore"
)

// LogoutEvent captures who ended a session and from where. Username is
// empty when an unauthenticated visitor hits the logout endpoint.
type LogoutEvent struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type logoutDocument struct {
	Events []LogoutEvent `json:"events"`
}

type Log struct {
	file     *docstore.File
	location *time.Location
}

func NewLog(file *docstore.File, location *time.Location) *Log {
	return &Log{file: file, location: location}
}

// RecordLogout appends an event. Callers must not let a failure here
// block the logout itself.
func (l *Log) RecordLogout(ctx context.Context, username, role, origin string) (LogoutEvent, error) {
	event := LogoutEvent{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		Origin:    origin,
		Timestamp: time.Now().In(l.location),
	}
	var doc logoutDocument
	err := l.file.Update(&doc, func() error {
		doc.Events = append(doc.Events, event)
		return nil
	})
	if err != nil {
		return LogoutEvent{}, err
	}
	return event, nil
}

func (l *Log) ListLogouts(ctx context.Context) ([]LogoutEvent, error) {
	var doc logoutDocument
	if err := l.file.Read(&doc); err != nil {
		return nil, err
	}
	if doc.Events == nil {
		doc.Events = make([]LogoutEvent, 0)
	}
	return doc.Events, nil
}
