package feedback

import (
	"context"

	"stuhealth-backend/internal/docstore"
)

type feedbackDocument struct {
	Feedback []Entry `json:"feedback"`
}

type Repository struct {
	file *docstore.File
}

func NewRepository(file *docstore.File) *Repository {
	return &Repository{file: file}
}

func (r *Repository) Create(ctx context.Context, entry Entry) error {
	var doc feedbackDocument
	return r.file.Update(&doc, func() error {
		doc.Feedback = append([]Entry{entry}, doc.Feedback...)
		return nil
	})
}

func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	var doc feedbackDocument
	if err := r.file.Read(&doc); err != nil {
		return nil, err
	}
	if doc.Feedback == nil {
		doc.Feedback = make([]Entry, 0)
	}
	return doc.Feedback, nil
}

func (r *Repository) Apply(ctx context.Context, id string, mutate func(*Entry) error) (Entry, error) {
	var doc feedbackDocument
	var updated Entry
	err := r.file.Update(&doc, func() error {
		for i := range doc.Feedback {
			if doc.Feedback[i].ID == id {
				if err := mutate(&doc.Feedback[i]); err != nil {
					return err
				}
				updated = doc.Feedback[i]
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return Entry{}, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	var doc feedbackDocument
	deleted := false
	err := r.file.Update(&doc, func() error {
		kept := doc.Feedback[:0]
		for _, entry := range doc.Feedback {
			if entry.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, entry)
		}
		doc.Feedback = kept
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
