package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
)

// UserStore handles SQLite operations for user accounts
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore
func NewUserStore(d *DB) *UserStore {
	return &UserStore{db: d.db}
}

// Create inserts a new user
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FullName, u.PasswordHash, u.CreatedAt.Format(timeLayout))
	var se *sqlite3.Error
	if errors.As(err, &se) && se.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE {
		return repository.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("read user id: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by username
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, full_name, password_hash, created_at, last_login
		FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// GetByID retrieves a user by ID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, full_name, password_hash, created_at, last_login
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// TouchLastLogin records a successful login time
func (s *UserStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		created   string
		lastLogin sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &created, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if lastLogin.Valid {
		t, err := time.Parse(timeLayout, lastLogin.String)
		if err != nil {
			return nil, fmt.Errorf("invalid last_login: %w", err)
		}
		u.LastLogin = &t
	}
	return &u, nil
}
