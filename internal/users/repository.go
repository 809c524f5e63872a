package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

type Repository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByUsernameAndRole(ctx context.Context, username, role string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	GetByID(ctx context.Context, id int64) (Account, error)
	UpdateProfile(ctx context.Context, id int64, profile Profile) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

const accountColumns = `id, username, password, role, created_at,
	full_name, email, routine, avatar, phone, programs, age`

type SQLRepository struct {
	handle *sql.DB
}

func NewRepository(handle *sql.DB) *SQLRepository {
	return &SQLRepository{handle: handle}
}

func (r *SQLRepository) Create(ctx context.Context, account Account) (Account, error) {
	res, err := r.handle.ExecContext(ctx,
		`INSERT INTO users (username, password, role, full_name, email, routine, avatar, phone, programs, age)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.Username, account.PasswordHash, account.Role,
		account.FullName, account.Email, account.Routine, account.Avatar,
		account.Phone, account.Programs, account.Age,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Account{}, ErrUsernameTaken
		}
		return Account{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Account{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *SQLRepository) GetByUsernameAndRole(ctx context.Context, username, role string) (Account, error) {
	row := r.handle.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE username = ? AND role = ?`, username, role)
	return scanAccount(row)
}

func (r *SQLRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	row := r.handle.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE username = ?`, username)
	return scanAccount(row)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (Account, error) {
	row := r.handle.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *SQLRepository) UpdateProfile(ctx context.Context, id int64, profile Profile) error {
	res, err := r.handle.ExecContext(ctx,
		`UPDATE users SET full_name = ?, email = ?, routine = ?, avatar = ?, phone = ?, programs = ?, age = ?
		 WHERE id = ?`,
		profile.FullName, profile.Email, profile.Routine, profile.Avatar,
		profile.Phone, profile.Programs, profile.Age, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.handle.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.handle.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&count)
	return count, err
}

func scanAccount(row *sql.Row) (Account, error) {
	var account Account
	err := row.Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.Role, &account.CreatedAt,
		&account.FullName, &account.Email, &account.Routine, &account.Avatar,
		&account.Phone, &account.Programs, &account.Age,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	// driver-agnostic fallback for fakes and wrapped errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
