package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/itsabhishekkr/resuma-score/pkg/notify"
)

// MatchScoreThreshold gates automatic interview scheduling. Strictly
// greater-than: a match score of exactly 70 does not schedule.
const MatchScoreThreshold = 70

// Scheduler turns a completed resume analysis into a scheduled interview.
// One-shot and best-effort: nothing is retried or deferred, and the caller
// never observes the outcome.
type Scheduler struct {
	sessions     UseCase
	notifier     notify.Notifier
	frontendBase string
	log          *zap.Logger
}

func NewScheduler(sessions UseCase, notifier notify.Notifier, frontendBase string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		sessions:     sessions,
		notifier:     notifier,
		frontendBase: strings.TrimRight(frontendBase, "/"),
		log:          log,
	}
}

// OnAnalysisComplete schedules an interview when the analysis produced a
// match score above the threshold and a candidate email is known. The invite
// is handed to the notifier fire-and-forget once the session is durable.
func (s *Scheduler) OnAnalysisComplete(ctx context.Context, resumeID uuid.UUID, jobDescription string, matchScore *int, email string) {
	if strings.TrimSpace(jobDescription) == "" || matchScore == nil || *matchScore <= MatchScoreThreshold {
		return
	}
	if strings.TrimSpace(email) == "" {
		s.log.Warn("no candidate email on resume, cannot schedule interview",
			zap.String("resumeId", resumeID.String()))
		return
	}

	token, err := s.sessions.CreateSession(ctx, resumeID, jobDescription)
	if err != nil {
		s.log.Error("create interview session",
			zap.String("resumeId", resumeID.String()), zap.Error(err))
		return
	}

	link := fmt.Sprintf("%s/interview/%s", s.frontendBase, token)
	s.notifier.SendInterviewInvite(email, link)
	s.log.Info("interview scheduled",
		zap.String("resumeId", resumeID.String()),
		zap.Int("matchScore", *matchScore))
}
