package interview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itsabhishekkr/resuma-score/pkg/ai"
)

// OpeningQuestion is the fixed first turn. Turn zero is the most predictable
// exchange of the whole interview, so no model call is spent on it.
const OpeningQuestion = "Hello, welcome to your AI interview. Can you please introduce yourself and briefly describe your experience relevant to this role?"

// Transcript line labels. The transcript is replayed verbatim as model
// context on every turn, so the two speakers must stay unambiguous.
const (
	candidatePrefix   = "\nCandidate: "
	interviewerPrefix = "\nAI: "
)

// PublicState is the candidate-visible projection of a session. Recruiter
// fields (score, feedback, job description) are deliberately absent.
type PublicState struct {
	Status     Status `json:"status"`
	Transcript string `json:"transcript"`
}

// UseCase owns the session state machine.
type UseCase interface {
	CreateSession(ctx context.Context, resumeID uuid.UUID, jobDescription string) (string, error)
	PublicState(ctx context.Context, token string) (PublicState, error)
	Start(ctx context.Context, token string) (string, error)
	SubmitAnswer(ctx context.Context, token, answer string) (string, error)
}

type service struct {
	store Store
	model ai.Completer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store, model ai.Completer) UseCase {
	return &service{
		store: store,
		model: model,
		locks: make(map[string]*sync.Mutex),
	}
}

// CreateSession persists a fresh SCHEDULED session and returns its token.
// Notification is the scheduler's job; creation stays decoupled from it.
func (s *service) CreateSession(ctx context.Context, resumeID uuid.UUID, jobDescription string) (string, error) {
	sess := Session{
		ID:             uuid.New(),
		Token:          uuid.NewString(),
		ResumeID:       resumeID,
		JobDescription: jobDescription,
		Status:         StatusScheduled,
		Transcript:     "",
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (s *service) PublicState(ctx context.Context, token string) (PublicState, error) {
	sess, err := s.store.GetByToken(ctx, token)
	if err != nil {
		return PublicState{}, err
	}
	return PublicState{Status: sess.Status, Transcript: sess.Transcript}, nil
}

// Start moves the session to IN_PROGRESS and returns the opening question.
// Idempotent for sessions already in progress.
func (s *service) Start(ctx context.Context, token string) (string, error) {
	lock := s.lockFor(token)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.GetByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if sess.Status == StatusCompleted {
		return "", ErrAlreadyCompleted
	}
	if sess.Status != StatusInProgress {
		sess.Status = StatusInProgress
		if err := s.store.Save(ctx, sess); err != nil {
			return "", err
		}
	}
	return OpeningQuestion, nil
}

// SubmitAnswer records the candidate turn, asks the model for the next
// question with the full transcript as context, records that turn too and
// returns it. The candidate turn is persisted before the model call, so an
// AI failure never loses user input.
func (s *service) SubmitAnswer(ctx context.Context, token, answer string) (string, error) {
	lock := s.lockFor(token)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.GetByToken(ctx, token)
	if err != nil {
		return "", err
	}

	sess.Transcript += candidatePrefix + answer
	if err := s.store.Save(ctx, sess); err != nil {
		return "", err
	}

	reply, err := s.model.Complete(ctx, nextQuestionPrompt(sess.JobDescription, sess.Transcript))
	if err != nil {
		return "", err
	}

	sess.Transcript += interviewerPrefix + reply
	if err := s.store.Save(ctx, sess); err != nil {
		return "", err
	}
	return reply, nil
}

// lockFor serializes writers per token: the store does no conflict
// detection, so concurrent submissions for one session must queue here.
func (s *service) lockFor(token string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[token]
	if !ok {
		l = &sync.Mutex{}
		s.locks[token] = l
	}
	return l
}

func nextQuestionPrompt(jobDescription, transcript string) string {
	role := ai.Clip(jobDescription, ai.MaxContextChars)
	if strings.TrimSpace(role) == "" {
		role = "General Role"
	}
	var b strings.Builder
	b.WriteString("You are an AI interviewer conducting an interview for a role described as follows:\n")
	b.WriteString(role)
	b.WriteString("\n\nHere is the interview transcript so far:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nBased on the candidate's last response, ask the next relevant interview question. Keep it professional, encouraging, and concise. If the interview seems complete (e.g. 5-6 exchanges), kindly conclude the interview.")
	return b.String()
}
