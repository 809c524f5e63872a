package users

import (
	"context"
	"errors"
	"strings"

	"stuhealth-backend/internal/auth"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Signup creates an account and returns it. Usernames are unique across both
// roles; the password is stored only as a bcrypt hash.
func (s *Service) Signup(ctx context.Context, username, password, role string, profile Profile) (Account, error) {
	username = strings.TrimSpace(username)
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = RoleStudent
	}
	if !ValidRole(role) {
		return Account{}, ErrInvalidRole
	}
	if username == "" || password == "" {
		return Account{}, ErrInvalidCredentials
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return Account{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Account{}, err
	}

	account := Account{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     strings.TrimSpace(profile.FullName),
		Email:        strings.TrimSpace(profile.Email),
		Routine:      profile.Routine,
		Avatar:       strings.TrimSpace(profile.Avatar),
		Phone:        strings.TrimSpace(profile.Phone),
		Programs:     profile.Programs,
		Age:          profile.Age,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		// the unique constraint also guards the race between the
		// existence check above and the insert
		return Account{}, err
	}
	return created, nil
}

// Login authenticates against the (username, role) pair jointly: an account
// that exists only as a student cannot log in as admin even with the right
// password. This is deliberate; admin and student accounts may share a name.
func (s *Service) Login(ctx context.Context, username, password, role string) (Account, error) {
	username = strings.TrimSpace(username)
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = RoleStudent
	}
	if !ValidRole(role) {
		return Account{}, ErrInvalidRole
	}

	account, err := s.repo.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, profile Profile) (Account, error) {
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Email = strings.TrimSpace(profile.Email)
	profile.Avatar = strings.TrimSpace(profile.Avatar)
	profile.Phone = strings.TrimSpace(profile.Phone)

	if err := s.repo.UpdateProfile(ctx, id, profile); err != nil {
		return Account{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ResetPassword(ctx context.Context, id int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

// EnsureAdmin creates the initial admin account from configuration when no
// admin exists yet. Idempotent; called at startup and from cmd/seed.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	count, err := s.repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.Signup(ctx, username, password, RoleAdmin, Profile{}); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
