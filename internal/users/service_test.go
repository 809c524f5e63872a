package users

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo struct {
	accounts []Account
	nextID   int64
}

func (f *fakeRepo) Create(ctx context.Context, account Account) (Account, error) {
	for _, existing := range f.accounts {
		if existing.Username == account.Username {
			return Account{}, ErrUsernameTaken
		}
	}
	f.nextID++
	account.ID = f.nextID
	f.accounts = append(f.accounts, account)
	return account, nil
}

func (f *fakeRepo) GetByUsernameAndRole(ctx context.Context, username, role string) (Account, error) {
	for _, account := range f.accounts {
		if account.Username == username && account.Role == role {
			return account, nil
		}
	}
	return Account{}, ErrNotFound
}

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (Account, error) {
	for _, account := range f.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return Account{}, ErrNotFound
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (Account, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return Account{}, ErrNotFound
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, id int64, profile Profile) error {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			f.accounts[i].FullName = profile.FullName
			f.accounts[i].Email = profile.Email
			f.accounts[i].Routine = profile.Routine
			f.accounts[i].Avatar = profile.Avatar
			f.accounts[i].Phone = profile.Phone
			f.accounts[i].Programs = profile.Programs
			f.accounts[i].Age = profile.Age
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			f.accounts[i].PasswordHash = passwordHash
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	for _, account := range f.accounts {
		if account.Role == role {
			count++
		}
	}
	return count, nil
}

func TestSignupThenLogin(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	created, err := svc.Signup(ctx, "alice", "pw1", RoleStudent, Profile{})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if created.Role != RoleStudent || created.ID == 0 {
		t.Fatalf("unexpected account: %+v", created)
	}
	if created.PasswordHash == "pw1" {
		t.Fatalf("password stored in clear")
	}

	got, err := svc.Login(ctx, "alice", "pw1", RoleStudent)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("login returned wrong account")
	}
}

// A username that exists only as a student cannot log in while selecting
// admin, even with the correct password: the lookup is keyed on both fields.
func TestLoginRoleKeyedLookup(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "alice", "pw1", RoleStudent, Profile{}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "pw1", RoleAdmin); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "alice", "pw1", RoleStudent, Profile{}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "wrong", RoleStudent); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// Username uniqueness holds across roles: "alice" the student blocks
// "alice" the admin.
func TestSignupUsernameUniqueAcrossRoles(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "alice", "pw1", RoleStudent, Profile{}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "alice", "pw2", RoleAdmin, Profile{}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSignupInvalidRole(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.Signup(context.Background(), "bob", "pw", "superuser", Profile{}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSignupDefaultsToStudent(t *testing.T) {
	svc := NewService(&fakeRepo{})
	created, err := svc.Signup(context.Background(), "bob", "pw", "", Profile{})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if created.Role != RoleStudent {
		t.Fatalf("expected default role student, got %q", created.Role)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	created, err := svc.Signup(ctx, "alice", "pw1", RoleStudent, Profile{})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, created.ID, Profile{
		FullName: "  Alice A ",
		Email:    "alice@example.edu",
		Routine:  "Morning: stretch",
		Age:      21,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "Alice A" || updated.Age != 21 {
		t.Fatalf("unexpected profile: %+v", updated)
	}
}

func TestEnsureAdmin(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "root", "pw")
	if err != nil || !created {
		t.Fatalf("expected initial admin to be created, got created=%v err=%v", created, err)
	}

	created, err = svc.EnsureAdmin(ctx, "root2", "pw")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin should be a no-op, got created=%v err=%v", created, err)
	}

	if _, err := svc.Login(ctx, "root", "pw", RoleAdmin); err != nil {
		t.Fatalf("seeded admin should be able to log in: %v", err)
	}
}
