package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")

const (
	defaultCategory = "general"
	defaultImage    = "/public/images/placeholder.svg"
	defaultLink     = "#"
)

type Service struct {
	resources *ResourceRepository
	doctors   *DoctorRepository
	location  *time.Location
}

func NewService(resources *ResourceRepository, doctors *DoctorRepository, location *time.Location) *Service {
	return &Service{
		resources: resources,
		doctors:   doctors,
		location:  location,
	}
}

func (s *Service) ListResources(ctx context.Context, category string) ([]Resource, error) {
	items, err := s.resources.List(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return items, nil
	}

	filtered := make([]Resource, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// ViewResource returns the resource and increments its view counter by one.
// Every access counts; repeated views by the same caller are not deduplicated.
func (s *Service) ViewResource(ctx context.Context, id string) (Resource, error) {
	return s.resources.Apply(ctx, id, func(item *Resource) error {
		item.Views++
		return nil
	})
}

func (s *Service) GetResource(ctx context.Context, id string) (Resource, error) {
	return s.resources.GetByID(ctx, id)
}

func (s *Service) CreateResource(ctx context.Context, req UpsertResourceRequest) (Resource, error) {
	item := Resource{
		ID:          uuid.NewString(),
		Title:       fallback(req.Title, "Untitled"),
		Description: strings.TrimSpace(req.Description),
		Category:    fallback(req.Category, defaultCategory),
		Image:       fallback(req.Image, defaultImage),
		Link:        fallback(req.Link, defaultLink),
		Views:       0,
		CreatedAt:   time.Now().In(s.location),
	}
	if err := s.resources.Create(ctx, item); err != nil {
		return Resource{}, err
	}
	return item, nil
}

// UpdateResource keeps the stored value for any field left empty in the
// request; the view counter is never touched by edits.
func (s *Service) UpdateResource(ctx context.Context, id string, req UpsertResourceRequest) (Resource, error) {
	return s.resources.Apply(ctx, id, func(item *Resource) error {
		item.Title = fallback(req.Title, item.Title)
		item.Description = fallback(req.Description, item.Description)
		item.Category = fallback(req.Category, item.Category)
		item.Image = fallback(req.Image, item.Image)
		item.Link = fallback(req.Link, item.Link)
		return nil
	})
}

func (s *Service) DeleteResource(ctx context.Context, id string) error {
	deleted, err := s.resources.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Totals aggregates the metrics endpoint's numbers: the sum of all view
// counters and the resource count.
func (s *Service) Totals(ctx context.Context) (totalViews int, resourceCount int, err error) {
	items, err := s.resources.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, item := range items {
		totalViews += item.Views
	}
	return totalViews, len(items), nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) SeedDoctors(ctx context.Context, doctors []Doctor) error {
	return s.doctors.Ensure(ctx, doctors)
}

func fallback(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}
