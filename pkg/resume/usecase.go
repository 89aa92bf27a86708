package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/itsabhishekkr/resuma-score/pkg/ai"
)

// Report is the structured ATS result parsed from the model output.
type Report struct {
	ATSScore          int    `json:"atsScore"`
	Feedback          string `json:"feedback"`
	Email             string `json:"email"`
	SkillsCoverage    int    `json:"skillsCoverage"`
	ExperienceQuality string `json:"experienceQuality"`
	FormattingIssues  string `json:"formattingIssues"`
	Keywords          string `json:"keywords"`
	MatchScore        *int   `json:"matchScore,omitempty"`
	MissingSkills     string `json:"missingSkills,omitempty"`

	// Degraded marks a report assembled from an unparseable model reply.
	// The raw reply is preserved in Feedback; callers continue with
	// lowest-confidence defaults instead of failing.
	Degraded bool `json:"-"`
}

// AnalysisService covers every AI interaction of the resume flow.
type AnalysisService interface {
	// Analyze extracts text from an uploaded file, scores it against the
	// optional job description and returns a populated Resume ready to be
	// persisted. Interview prep questions are generated when the score
	// qualifies.
	Analyze(ctx context.Context, filename string, data []byte, jobDescription string) (Resume, error)
	RewriteSection(ctx context.Context, sectionContent, sectionName, targetRole, instruction string) (string, error)
	TailorResume(ctx context.Context, resumeText, targetRole string) (string, error)
}

type analysisService struct {
	model ai.Completer
	log   *zap.Logger
}

func NewAnalysisService(model ai.Completer, log *zap.Logger) AnalysisService {
	return &analysisService{model: model, log: log}
}

func (s *analysisService) Analyze(ctx context.Context, filename string, data []byte, jobDescription string) (Resume, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return Resume{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Resume{}, errors.New("empty resume content")
	}

	withJD := strings.TrimSpace(jobDescription) != ""
	raw, err := s.model.Complete(ctx, atsPrompt(text, jobDescription, withJD))
	if err != nil {
		return Resume{}, err
	}
	rep := parseReport(raw, withJD)
	if rep.Degraded {
		s.log.Warn("ats report parse failed, using degraded defaults", zap.String("filename", filename))
	}

	r := Resume{
		ID:                uuid.New(),
		Filename:          filename,
		Email:             rep.Email,
		ParsedContent:     text,
		ATSScore:          rep.ATSScore,
		Feedback:          rep.Feedback,
		SkillsCoverage:    rep.SkillsCoverage,
		ExperienceQuality: rep.ExperienceQuality,
		FormattingIssues:  rep.FormattingIssues,
		Keywords:          rep.Keywords,
		CreatedAt:         time.Now().UTC(),
	}
	if withJD {
		r.JobDescription = jobDescription
		r.MatchScore = rep.MatchScore
		r.MissingSkills = rep.MissingSkills
	}

	// Prep questions for qualified candidates. A failure here never fails
	// the upload; the resume is still worth keeping.
	score := r.ATSScore
	if r.MatchScore != nil {
		score = *r.MatchScore
	}
	if score >= QualifyScore {
		questions, err := s.model.Complete(ctx, questionsPrompt(text, jobDescription, withJD))
		if err != nil {
			s.log.Warn("interview question generation failed", zap.String("filename", filename), zap.Error(err))
		} else {
			r.InterviewQuestions = questions
		}
	}
	return r, nil
}

func (s *analysisService) RewriteSection(ctx context.Context, sectionContent, sectionName, targetRole, instruction string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following %s section of a resume.", sectionName)
	if strings.TrimSpace(targetRole) != "" {
		fmt.Fprintf(&b, " Optimize it for a %s role.", targetRole)
	}
	if strings.TrimSpace(instruction) != "" {
		fmt.Fprintf(&b, " Instruction: %s", instruction)
	}
	b.WriteString(" Use the STAR method for bullet points. Ensure high impact and use metrics where possible.")
	b.WriteString("\n\nOriginal Text:\n")
	b.WriteString(sectionContent)
	return s.model.Complete(ctx, b.String())
}

func (s *analysisService) TailorResume(ctx context.Context, resumeText, targetRole string) (string, error) {
	prompt := fmt.Sprintf(
		"Tailor the following resume for a %s role. Optimize the summary, highlight relevant projects, and adjust keywords. Return the full rewritten resume text.\n\nResume Text:\n%s",
		targetRole, ai.Clip(resumeText, ai.MaxResumeChars),
	)
	return s.model.Complete(ctx, prompt)
}

func atsPrompt(resumeText, jobDescription string, withJD bool) string {
	var b strings.Builder
	b.WriteString("Analyze the following resume text")
	if withJD {
		b.WriteString(" against the provided Job Description.")
	} else {
		b.WriteString(".")
	}
	b.WriteString(" Perform a deep ATS analysis.")
	b.WriteString(" Format the response strictly as JSON with the following keys: ")
	b.WriteString("'atsScore' (integer 0-100), ")
	b.WriteString("'feedback' (string), ")
	b.WriteString("'email' (string, extract candidate email or null), ")
	b.WriteString("'skillsCoverage' (integer 0-100, estimated based on inferred role), ")
	b.WriteString("'experienceQuality' (string, 'High', 'Medium', or 'Low'), ")
	b.WriteString("'formattingIssues' (string, comma separated potential issues), ")
	b.WriteString("'keywords' (string, comma separated top 10 keywords found), ")
	if withJD {
		b.WriteString("'matchScore' (integer 0-100), ")
		b.WriteString("'missingSkills' (string, comma separated), ")
	}
	b.WriteString("Ensure the JSON is valid and does not contain markdown formatting like ```json.")
	b.WriteString("\n\nResume Text:\n")
	b.WriteString(ai.Clip(resumeText, ai.MaxResumeChars))
	if withJD {
		b.WriteString("\n\nJob Description:\n")
		b.WriteString(ai.Clip(jobDescription, ai.MaxJobDescChars))
	}
	return b.String()
}

func questionsPrompt(resumeText, jobDescription string, withJD bool) string {
	var b strings.Builder
	b.WriteString("Generate 5-7 technical and behavioral interview questions based on the following resume")
	if withJD {
		b.WriteString(" and the provided Job Description.")
	}
	b.WriteString(" The candidate is being considered for a role matching their skills.")
	b.WriteString("\n\nResume Text:\n")
	b.WriteString(ai.Clip(resumeText, ai.MaxResumeChars))
	if withJD {
		b.WriteString("\n\nJob Description:\n")
		b.WriteString(ai.Clip(jobDescription, ai.MaxJobDescChars))
	}
	return b.String()
}

// parseReport decodes the model reply into a Report. An unparseable reply is
// not an error: the raw text is kept and defaults are filled in.
func parseReport(raw string, withJD bool) Report {
	clean := ai.StripFences(raw)
	var rep Report
	if err := json.Unmarshal([]byte(clean), &rep); err != nil {
		rep = Report{
			ExperienceQuality: "Low",
			FormattingIssues:  "Parsing Failed",
			Feedback:          "Raw AI Response (Parsing Failed): " + raw,
			Degraded:          true,
		}
	}
	if !withJD {
		rep.MatchScore = nil
		rep.MissingSkills = ""
	} else if rep.MatchScore == nil && !rep.Degraded {
		zero := 0
		rep.MatchScore = &zero
	}
	return rep
}
