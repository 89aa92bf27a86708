package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itsabhishekkr/resuma-score/pkg/interview"
)

// SessionRepository stores interview sessions keyed by their access token.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) (*SessionRepository, error) {
	r := &SessionRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SessionRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS interview_sessions (
	id UUID PRIMARY KEY,
	token TEXT NOT NULL UNIQUE,
	resume_id UUID NOT NULL,
	job_description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	transcript TEXT NOT NULL DEFAULT '',
	score INT,
	feedback TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);
`)
	return err
}

func (r *SessionRepository) Create(ctx context.Context, s interview.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO interview_sessions (id, token, resume_id, job_description, status, transcript, score, feedback, created_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`, s.ID, s.Token, s.ResumeID, s.JobDescription, string(s.Status), s.Transcript, s.Score, s.Feedback, s.CreatedAt, s.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return interview.ErrDuplicateToken
		}
		return err
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (interview.Session, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, token, resume_id, job_description, status, transcript, score, feedback, created_at, completed_at
FROM interview_sessions WHERE token = $1
`, token)
	var s interview.Session
	var status string
	var created time.Time
	var completed *time.Time
	if err := row.Scan(&s.ID, &s.Token, &s.ResumeID, &s.JobDescription, &status, &s.Transcript, &s.Score, &s.Feedback, &created, &completed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return interview.Session{}, interview.ErrNotFound
		}
		return interview.Session{}, err
	}
	s.Status = interview.Status(status)
	s.CreatedAt = created.UTC()
	if completed != nil {
		t := completed.UTC()
		s.CompletedAt = &t
	}
	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s interview.Session) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE interview_sessions
SET status = $2, transcript = $3, score = $4, feedback = $5, completed_at = $6
WHERE id = $1
`, s.ID, string(s.Status), s.Transcript, s.Score, s.Feedback, s.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return interview.ErrNotFound
	}
	return nil
}
