package appointments

import (
	"context"

	"stuhealth-backend/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, appointment Appointment) error
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
	GetByID(ctx context.Context, id string) (Appointment, error)
	// Apply runs mutate on the matching record under the collection lock,
	// keeping the whole read-modify-write cycle atomic per collection.
	Apply(ctx context.Context, id string, mutate func(*Appointment) error) (Appointment, error)
}

type appointmentDocument struct {
	Appointments []Appointment `json:"appointments"`
}

type FileRepository struct {
	file *docstore.File
}

func NewRepository(file *docstore.File) *FileRepository {
	return &FileRepository{file: file}
}

func (r *FileRepository) Create(ctx context.Context, appointment Appointment) error {
	var doc appointmentDocument
	return r.file.Update(&doc, func() error {
		doc.Appointments = append([]Appointment{appointment}, doc.Appointments...)
		return nil
	})
}

func (r *FileRepository) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	var doc appointmentDocument
	if err := r.file.Read(&doc); err != nil {
		return nil, err
	}

	items := make([]Appointment, 0, len(doc.Appointments))
	for _, item := range doc.Appointments {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.StudentID != 0 && item.StudentID != filter.StudentID {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (Appointment, error) {
	var doc appointmentDocument
	if err := r.file.Read(&doc); err != nil {
		return Appointment{}, err
	}
	for _, item := range doc.Appointments {
		if item.ID == id {
			return item, nil
		}
	}
	return Appointment{}, ErrNotFound
}

func (r *FileRepository) Apply(ctx context.Context, id string, mutate func(*Appointment) error) (Appointment, error) {
	var doc appointmentDocument
	var updated Appointment
	err := r.file.Update(&doc, func() error {
		for i := range doc.Appointments {
			if doc.Appointments[i].ID == id {
				if err := mutate(&doc.Appointments[i]); err != nil {
					return err
				}
				updated = doc.Appointments[i]
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return Appointment{}, err
	}
	return updated, nil
}
