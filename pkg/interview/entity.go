package interview

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the session lifecycle state. Transitions are linear:
// SCHEDULED -> IN_PROGRESS -> COMPLETED, never backward.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

var (
	ErrNotFound         = errors.New("interview session not found")
	ErrDuplicateToken   = errors.New("interview token already exists")
	ErrAlreadyCompleted = errors.New("interview already completed")
)

// Session is one candidate interview. The token is the only identifier ever
// exposed outside the backend; the id stays internal.
type Session struct {
	ID             uuid.UUID
	Token          string
	ResumeID       uuid.UUID
	JobDescription string
	Status         Status
	Transcript     string
	Score          *int
	Feedback       string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Store is the persistence port for interview sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	GetByToken(ctx context.Context, token string) (Session, error)
	Save(ctx context.Context, s Session) error
}
