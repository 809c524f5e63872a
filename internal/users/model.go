package users

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin
}

// Account is a row in the users table. Role is immutable after creation and
// usernames are unique across both roles.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Routine  string `json:"routine,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Programs string `json:"programs,omitempty"`
	Age      int    `json:"age,omitempty"`
}

// Profile carries the owner-editable fields of an account.
type Profile struct {
	FullName string `json:"full_name" validate:"max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Routine  string `json:"routine" validate:"max=2000"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Programs string `json:"programs" validate:"max=2000"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
}
