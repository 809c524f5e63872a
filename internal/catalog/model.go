package catalog

import "time"

// Resource is a catalogued health-information item. Views increments on
// every detail access, with no per-viewer deduplication.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

// Doctor is read-only reference data consumed by the booking form and
// cached onto appointment records.
type Doctor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type UpsertResourceRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"max=80"`
	Image       string `json:"image" validate:"max=500"`
	Link        string `json:"link" validate:"max=500"`
}
