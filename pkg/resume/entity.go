package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// QualifyScore is the minimum score (match score if available, ATS score
// otherwise) at which interview prep questions are generated for a resume.
// Distinct from the auto-scheduling threshold in pkg/interview, which is
// strictly greater-than.
const QualifyScore = 70

var ErrNotFound = errors.New("resume not found")

// Resume stores the uploaded document's extracted text and the ATS report
// produced for it.
type Resume struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"ownerId,omitempty"`
	Filename      string    `json:"filename"`
	Email         string    `json:"email,omitempty"`
	ParsedContent string    `json:"parsedContent"`

	ATSScore          int    `json:"atsScore"`
	Feedback          string `json:"feedback"`
	SkillsCoverage    int    `json:"skillsCoverage"`
	ExperienceQuality string `json:"experienceQuality"`
	FormattingIssues  string `json:"formattingIssues"`
	Keywords          string `json:"keywords"`

	// Present only when a job description was supplied with the upload.
	JobDescription string `json:"jobDescription,omitempty"`
	MatchScore     *int   `json:"matchScore,omitempty"`
	MissingSkills  string `json:"missingSkills,omitempty"`

	InterviewQuestions string `json:"interviewQuestions,omitempty"`
	InterviewScore     *int   `json:"interviewScore,omitempty"`
	InterviewFeedback  string `json:"interviewFeedback,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Repository is the persistence port for resumes.
type Repository interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, id uuid.UUID) (Resume, error)
	List(ctx context.Context, limit, offset int) ([]Resume, error)
	ListQualified(ctx context.Context, minScore, limit, offset int) ([]Resume, error)
}
