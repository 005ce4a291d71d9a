package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-tracker-api/internal/models"
)

const userColumns = `id, username_display, username_normalized, password_hash, role, created_at`

// UserRepository provides database access for accounts and their sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Register inserts a user. While no admin exists the new account becomes
// admin; the check and the insert share one transaction. Taken usernames yield
// models.ErrDuplicateKey.
func (r *UserRepository) Register(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var admins int
	if err := tx.GetContext(ctx, &admins, tx.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`), models.RoleAdmin); err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins == 0 {
		user.Role = models.RoleAdmin
	} else {
		user.Role = models.RoleUser
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO users (` + userColumns + `)
VALUES (:id, :username_display, :username_normalized, :password_hash, :role, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("register %s: %w", user.UsernameNormalized, models.ErrDuplicateKey)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit register: %w", err)
	}
	return nil
}

// FindByUsername looks a user up by normalized username.
func (r *UserRepository) FindByUsername(ctx context.Context, normalized string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE username_normalized = ? LIMIT 1`)
	if err := r.db.GetContext(ctx, &user, query, normalized); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// CreateSession stores a login session.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (:id, :user_id, :created_at, :expires_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindSession returns the live session with its user. Expired or unknown
// sessions return sql.ErrNoRows.
func (r *UserRepository) FindSession(ctx context.Context, id string, now time.Time) (*models.SessionUser, error) {
	var su models.SessionUser
	query := r.db.Rebind(`SELECT s.id AS session_id, u.id AS user_id, u.username_display, u.role
FROM sessions s JOIN users u ON u.id = s.user_id
WHERE s.id = ? AND s.expires_at > ?`)
	if err := r.db.GetContext(ctx, &su, query, id, now); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &su, nil
}

// DeleteSession removes a session. Unknown ids are not an error.
func (r *UserRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions purges sessions that expired at or before now.
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}
