package appointments

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

var validStatuses = map[string]struct{}{
	StatusPending:  {},
	StatusApproved: {},
	StatusDeclined: {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

// Appointment is a student booking request. The student identity comes from
// the session at creation; only admins mutate it afterwards, via approve or
// decline, and a decided request never leaves its terminal state.
//
// Resource title and doctor name are cached onto the record when the
// reference is resolved, so the request stays displayable even if the
// referenced entry is later removed.
type Appointment struct {
	ID              string `json:"id"`
	StudentID       int64  `json:"student_id"`
	StudentUsername string `json:"student_username"`

	ResourceID    string `json:"resource_id,omitempty"`
	ResourceTitle string `json:"resource_title,omitempty"`

	AssignedDoctorID   string `json:"assigned_doctor_id,omitempty"`
	AssignedDoctorName string `json:"assigned_doctor_name,omitempty"`

	Date    string `json:"date"`
	Time    string `json:"time"`
	Message string `json:"message,omitempty"`

	Status     string     `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	DeclinedBy string     `json:"declined_by,omitempty"`
	DeclinedAt *time.Time `json:"declined_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateRequest struct {
	ResourceID string `json:"resource_id"`
	DoctorID   string `json:"doctor_id"`
	Date       string `json:"date" validate:"required,date"`
	Time       string `json:"time" validate:"required,clock"`
	Message    string `json:"message" validate:"max=2000"`
}

type ApproveRequest struct {
	DoctorID string `json:"doctor_id"`
}

type ListFilter struct {
	Status    string
	StudentID int64
}
