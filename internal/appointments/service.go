package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"stuhealth-backend/internal/catalog"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAlreadyDecided  = errors.New("appointment already decided")
	ErrUnknownResource = errors.New("unknown resource")
	ErrUnknownDoctor   = errors.New("unknown doctor")
)

// Directory resolves resource and doctor references at request or approval
// time so the resolved names can be cached onto the record.
type Directory interface {
	GetResource(ctx context.Context, id string) (catalog.Resource, error)
	GetDoctor(ctx context.Context, id string) (catalog.Doctor, error)
}

type Service struct {
	repo      Repository
	directory Directory
	location  *time.Location
}

func NewService(repo Repository, directory Directory, location *time.Location) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		location:  location,
	}
}

// Request creates a pending appointment for the given student. The student
// identity is the session's, never client-supplied input.
func (s *Service) Request(ctx context.Context, studentID int64, studentUsername string, req CreateRequest) (Appointment, error) {
	appointment := Appointment{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		StudentUsername: studentUsername,
		Date:            strings.TrimSpace(req.Date),
		Time:            strings.TrimSpace(req.Time),
		Message:         strings.TrimSpace(req.Message),
		Status:          StatusPending,
		CreatedAt:       time.Now().In(s.location),
	}

	if id := strings.TrimSpace(req.ResourceID); id != "" {
		resource, err := s.directory.GetResource(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return Appointment{}, ErrUnknownResource
			}
			return Appointment{}, err
		}
		appointment.ResourceID = resource.ID
		appointment.ResourceTitle = resource.Title
	}

	if id := strings.TrimSpace(req.DoctorID); id != "" {
		doctor, err := s.directory.GetDoctor(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return Appointment{}, ErrUnknownDoctor
			}
			return Appointment{}, err
		}
		appointment.AssignedDoctorID = doctor.ID
		appointment.AssignedDoctorName = doctor.Name
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return Appointment{}, err
	}
	return appointment, nil
}

// Approve transitions a pending request to approved, recording the deciding
// admin and timestamp. An optional doctor reference (re)assigns the doctor,
// independent of any doctor chosen at request time. Re-deciding an already
// terminal request is rejected with ErrAlreadyDecided.
func (s *Service) Approve(ctx context.Context, id, adminUsername, doctorID string) (Appointment, error) {
	doctorID = strings.TrimSpace(doctorID)

	var doctor catalog.Doctor
	if doctorID != "" {
		resolved, err := s.directory.GetDoctor(ctx, doctorID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return Appointment{}, ErrUnknownDoctor
			}
			return Appointment{}, err
		}
		doctor = resolved
	}

	now := time.Now().In(s.location)
	return s.repo.Apply(ctx, strings.TrimSpace(id), func(appointment *Appointment) error {
		if appointment.Status != StatusPending {
			return ErrAlreadyDecided
		}
		appointment.Status = StatusApproved
		appointment.ApprovedBy = adminUsername
		appointment.ApprovedAt = &now
		if doctorID != "" {
			appointment.AssignedDoctorID = doctor.ID
			appointment.AssignedDoctorName = doctor.Name
		}
		return nil
	})
}

// Decline transitions a pending request to declined with audit fields.
func (s *Service) Decline(ctx context.Context, id, adminUsername string) (Appointment, error) {
	now := time.Now().In(s.location)
	return s.repo.Apply(ctx, strings.TrimSpace(id), func(appointment *Appointment) error {
		if appointment.Status != StatusPending {
			return ErrAlreadyDecided
		}
		appointment.Status = StatusDeclined
		appointment.DeclinedBy = adminUsername
		appointment.DeclinedAt = &now
		return nil
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListForStudent(ctx context.Context, studentID int64) ([]Appointment, error) {
	return s.repo.List(ctx, ListFilter{StudentID: studentID})
}

func (s *Service) ListAdmin(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) CountPending(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx, ListFilter{Status: StatusPending})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
