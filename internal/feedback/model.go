package feedback

import "time"

const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// NormalizeUrgency coerces anything outside the known set to low.
func NormalizeUrgency(value string) string {
	switch value {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return value
	default:
		return UrgencyLow
	}
}

type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating,omitempty"`
	Category  string    `json:"category,omitempty"`
	Urgency   string    `json:"urgency"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateRequest struct {
	Name     string `json:"name" validate:"max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Message  string `json:"message" validate:"required,max=5000"`
	Rating   int    `json:"rating" validate:"gte=0,lte=5"`
	Category string `json:"category" validate:"max=80"`
	Urgency  string `json:"urgency"`
}

type ResolveRequest struct {
	Resolved bool `json:"resolved"`
}
