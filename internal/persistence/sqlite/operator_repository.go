package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/workforce-planner/internal/persistence"
)

// OperatorRepository implements persistence.OperatorRepository and
// persistence.SessionRepository on SQLite.
type OperatorRepository struct {
	db *DB
}

// NewOperatorRepository returns a repository bound to the database.
func NewOperatorRepository(db *DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// CreateOperator inserts a new back-office account.
func (r *OperatorRepository) CreateOperator(ctx context.Context, operator persistence.Operator) error {
	if operator.ID == "" || operator.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO operators (id, email, display_name, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		operator.ID,
		normalizeEmail(operator.Email),
		operator.DisplayName,
		operator.PasswordHash,
		operator.IsAdmin,
		formatTime(operator.CreatedAt),
		formatTime(operator.UpdatedAt),
	)
	return mapError(err)
}

// GetOperator retrieves an account by ID.
func (r *OperatorRepository) GetOperator(ctx context.Context, id string) (persistence.Operator, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, is_admin, created_at, updated_at
		FROM operators WHERE id = ?`, id)
	return scanOperator(row)
}

// GetOperatorByEmail retrieves an account by its normalized email.
func (r *OperatorRepository) GetOperatorByEmail(ctx context.Context, email string) (persistence.Operator, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, is_admin, created_at, updated_at
		FROM operators WHERE email = ?`, normalizeEmail(email))
	return scanOperator(row)
}

// ListOperators returns all accounts ordered by creation time.
func (r *OperatorRepository) ListOperators(ctx context.Context) ([]persistence.Operator, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, email, display_name, password_hash, is_admin, created_at, updated_at
		FROM operators ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var operators []persistence.Operator
	for rows.Next() {
		operator, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, operator)
	}
	return operators, mapError(rows.Err())
}

// CreateSession stores a new operator session.
func (r *OperatorRepository) CreateSession(ctx context.Context, session persistence.Session) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO sessions (id, operator_id, token, expires_at, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		session.ID,
		session.OperatorID,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
	)
	return mapError(err)
}

// GetSession retrieves a session by token.
func (r *OperatorRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, operator_id, token, expires_at, created_at, revoked_at
		FROM sessions WHERE token = ?`, token)

	var session persistence.Session
	var expiresAt, createdAt string
	var revokedAt sql.NullString
	if err := row.Scan(&session.ID, &session.OperatorID, &session.Token, &expiresAt, &createdAt, &revokedAt); err != nil {
		return persistence.Session{}, mapError(err)
	}

	var err error
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if revokedAt.Valid {
		parsed, err := parseTime(revokedAt.String)
		if err != nil {
			return persistence.Session{}, err
		}
		session.RevokedAt = &parsed
	}
	return session, nil
}

// RevokeSession marks a session revoked; revoking twice keeps the first
// timestamp.
func (r *OperatorRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	result, err := r.db.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL`,
		formatTime(revokedAt), token)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions prunes sessions past their expiry.
func (r *OperatorRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.db.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, formatTime(reference))
	return mapError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperator(row rowScanner) (persistence.Operator, error) {
	var operator persistence.Operator
	var createdAt, updatedAt string
	if err := row.Scan(&operator.ID, &operator.Email, &operator.DisplayName,
		&operator.PasswordHash, &operator.IsAdmin, &createdAt, &updatedAt); err != nil {
		return persistence.Operator{}, mapError(err)
	}
	var err error
	if operator.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Operator{}, err
	}
	if operator.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Operator{}, err
	}
	return operator, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
