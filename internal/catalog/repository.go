package catalog

import (
	"context"

	"stuhealth-backend/internal/docstore"
)

type resourceDocument struct {
	Resources []Resource `json:"resources"`
}

type doctorDocument struct {
	Doctors []Doctor `json:"doctors"`
}

type ResourceRepository struct {
	file *docstore.File
}

func NewResourceRepository(file *docstore.File) *ResourceRepository {
	return &ResourceRepository{file: file}
}

func (r *ResourceRepository) List(ctx context.Context) ([]Resource, error) {
	var doc resourceDocument
	if err := r.file.Read(&doc); err != nil {
		return nil, err
	}
	if doc.Resources == nil {
		doc.Resources = make([]Resource, 0)
	}
	return doc.Resources, nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (Resource, error) {
	var doc resourceDocument
	if err := r.file.Read(&doc); err != nil {
		return Resource{}, err
	}
	for _, item := range doc.Resources {
		if item.ID == id {
			return item, nil
		}
	}
	return Resource{}, ErrNotFound
}

func (r *ResourceRepository) Create(ctx context.Context, item Resource) error {
	var doc resourceDocument
	return r.file.Update(&doc, func() error {
		// newest first, matching the admin listing order
		doc.Resources = append([]Resource{item}, doc.Resources...)
		return nil
	})
}

// Apply mutates a single resource under the collection lock and returns the
// updated record.
func (r *ResourceRepository) Apply(ctx context.Context, id string, mutate func(*Resource) error) (Resource, error) {
	var doc resourceDocument
	var updated Resource
	err := r.file.Update(&doc, func() error {
		for i := range doc.Resources {
			if doc.Resources[i].ID == id {
				if err := mutate(&doc.Resources[i]); err != nil {
					return err
				}
				updated = doc.Resources[i]
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return Resource{}, err
	}
	return updated, nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) (bool, error) {
	var doc resourceDocument
	deleted := false
	err := r.file.Update(&doc, func() error {
		kept := doc.Resources[:0]
		for _, item := range doc.Resources {
			if item.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, item)
		}
		doc.Resources = kept
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

type DoctorRepository struct {
	file *docstore.File
}

func NewDoctorRepository(file *docstore.File) *DoctorRepository {
	return &DoctorRepository{file: file}
}

func (r *DoctorRepository) List(ctx context.Context) ([]Doctor, error) {
	var doc doctorDocument
	if err := r.file.Read(&doc); err != nil {
		return nil, err
	}
	if doc.Doctors == nil {
		doc.Doctors = make([]Doctor, 0)
	}
	return doc.Doctors, nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id string) (Doctor, error) {
	var doc doctorDocument
	if err := r.file.Read(&doc); err != nil {
		return Doctor{}, err
	}
	for _, item := range doc.Doctors {
		if item.ID == id {
			return item, nil
		}
	}
	return Doctor{}, ErrNotFound
}

// Ensure adds any of the given doctors not already present, keyed by id.
// Safe to run on every startup.
func (r *DoctorRepository) Ensure(ctx context.Context, doctors []Doctor) error {
	var doc doctorDocument
	return r.file.Update(&doc, func() error {
		existing := make(map[string]struct{}, len(doc.Doctors))
		for _, d := range doc.Doctors {
			existing[d.ID] = struct{}{}
		}
		for _, d := range doctors {
			if _, ok := existing[d.ID]; ok {
				continue
			}
			doc.Doctors = append(doc.Doctors, d)
		}
		return nil
	})
}
