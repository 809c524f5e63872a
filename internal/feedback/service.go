package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("feedback entry not found")

type Service struct {
	repo     *Repository
	location *time.Location
}

func NewService(repo *Repository, location *time.Location) *Service {
	return &Service{repo: repo, location: location}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Entry, error) {
	entry := Entry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Message:   strings.TrimSpace(req.Message),
		Rating:    req.Rating,
		Category:  strings.TrimSpace(req.Category),
		Urgency:   NormalizeUrgency(strings.ToLower(strings.TrimSpace(req.Urgency))),
		Resolved:  false,
		CreatedAt: time.Now().In(s.location),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetResolved(ctx context.Context, id string, resolved bool) (Entry, error) {
	return s.repo.Apply(ctx, strings.TrimSpace(id), func(entry *Entry) error {
		entry.Resolved = resolved
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CountOpen(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	open := 0
	for _, entry := range items {
		if !entry.Resolved {
			open++
		}
	}
	return open, nil
}
