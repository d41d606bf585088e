package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/refund-ui/internal/data/pgxutil"
	domainauth "github.com/target/refund-ui/internal/domain/auth"
	apperrors "github.com/target/refund-ui/internal/errors"
)

// Advisory lock namespace for session reaping.
// Two-arg pg_try_advisory_xact_lock(major, minor) keeps replicas from reaping concurrently.
const (
	advisoryLockSessionsMajor = 2000
	advisoryLockSessionsReap  = 1
)

// ErrSessionNotFound is returned when a session row does not exist or has expired.
// It matches domainauth.ErrSessionNotFound.
var ErrSessionNotFound error = sessionNotFoundError{}

type sessionNotFoundError struct{}

func (sessionNotFoundError) Error() string { return "session not found" }

func (sessionNotFoundError) Is(target error) bool { return target == domainauth.ErrSessionNotFound }

// SessionRepo stores sessions in Postgres for deployments without Redis.
type SessionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSessionRepo creates a new SessionRepo. A nil tp uses the real clock.
func NewSessionRepo(db *sql.DB, tp TimeProvider) *SessionRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &SessionRepo{DB: db, timeProvider: tp}
}

type sessionRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Role        string    `db:"role"`
	AccessToken string    `db:"access_token"`
	ExpiresAt   time.Time `db:"expires_at"`
}

func (r sessionRow) toDomain() domainauth.Session {
	return domainauth.Session{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Email:       r.Email,
		Role:        domainauth.ParseRole(r.Role),
		AccessToken: r.AccessToken,
		ExpiresAt:   r.ExpiresAt,
	}
}

// Save upserts the session.
func (r *SessionRepo) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if !sess.ExpiresAt.After(r.timeProvider.Now()) {
		return errors.New("session is expired")
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, name, email, role, access_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at
	`, sess.ID, sess.UserID, sess.Name, sess.Email, string(sess.Role), sess.AccessToken, sess.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Get returns an unexpired session. Expired rows read as not found and are left for the reaper.
func (r *SessionRepo) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrSessionNotFound
	}

	var row sessionRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, user_id, name, email, role, access_token, expires_at
			FROM sessions
			WHERE id = $1 AND expires_at > $2
		`, id, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[sessionRow])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domainauth.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", apperrors.MapDBError(err))
	}
	return row.toDomain(), nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", apperrors.MapDBError(err))
	}
	return nil
}

// DeleteExpired removes up to batchSize expired sessions and returns how many were deleted.
// When another instance holds the reap lock it returns 0 without touching rows.
func (r *SessionRepo) DeleteExpired(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	var deleted int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
				advisoryLockSessionsMajor, advisoryLockSessionsReap).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				return nil
			}
			res, err := tx.ExecContext(ctx, `
				DELETE FROM sessions
				WHERE id IN (
					SELECT id FROM sessions
					WHERE expires_at <= $1
					ORDER BY expires_at
					LIMIT $2
				)
			`, r.timeProvider.Now().UTC(), batchSize)
			if err != nil {
				return fmt.Errorf("delete expired sessions: %w", err)
			}
			deleted, err = res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			return nil
		},
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return deleted, nil
}
