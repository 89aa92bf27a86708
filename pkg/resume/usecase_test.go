package resume

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedModel replays canned replies and records every prompt it saw.
type scriptedModel struct {
	replies []string
	errs    []error
	prompts []string
}

func (m *scriptedModel) Complete(_ context.Context, prompt string) (string, error) {
	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	var reply string
	if i < len(m.replies) {
		reply = m.replies[i]
	}
	return reply, err
}

const fullReport = `{
	"atsScore": 82,
	"feedback": "Solid resume",
	"email": "john.doe@example.com",
	"skillsCoverage": 75,
	"experienceQuality": "High",
	"formattingIssues": "None",
	"keywords": "go, postgres, docker",
	"matchScore": 85,
	"missingSkills": "kubernetes"
}`

func sampleDocx(t *testing.T) []byte {
	t.Helper()
	return buildDocx(t, "John Doe", "john.doe@example.com", "Backend engineer with Go and Postgres")
}

func TestAnalyzeWithJobDescription(t *testing.T) {
	model := &scriptedModel{replies: []string{
		"```json\n" + fullReport + "\n```",
		"1. What is a goroutine?",
	}}
	svc := NewAnalysisService(model, zap.NewNop())

	r, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "Go developer")
	require.NoError(t, err)

	assert.Equal(t, 82, r.ATSScore)
	assert.Equal(t, "Solid resume", r.Feedback)
	assert.Equal(t, "john.doe@example.com", r.Email)
	assert.Equal(t, 75, r.SkillsCoverage)
	assert.Equal(t, "High", r.ExperienceQuality)
	assert.Equal(t, "Go developer", r.JobDescription)
	require.NotNil(t, r.MatchScore)
	assert.Equal(t, 85, *r.MatchScore)
	assert.Equal(t, "kubernetes", r.MissingSkills)
	assert.Equal(t, "1. What is a goroutine?", r.InterviewQuestions)

	require.Len(t, model.prompts, 2)
	assert.Contains(t, model.prompts[0], "deep ATS analysis")
	assert.Contains(t, model.prompts[0], "Backend engineer with Go and Postgres")
	assert.Contains(t, model.prompts[0], "Job Description:\nGo developer")
	assert.Contains(t, model.prompts[1], "interview questions")
}

func TestAnalyzeWithoutJobDescription(t *testing.T) {
	// matchScore in the reply is ignored when no job description was given.
	model := &scriptedModel{replies: []string{fullReport}}
	svc := NewAnalysisService(model, zap.NewNop())

	r, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "  ")
	require.NoError(t, err)

	assert.Nil(t, r.MatchScore)
	assert.Empty(t, r.MissingSkills)
	assert.Empty(t, r.JobDescription)
	assert.Equal(t, 82, r.ATSScore)

	// atsScore 82 still qualifies for prep questions.
	assert.Len(t, model.prompts, 2)
	assert.NotContains(t, model.prompts[0], "Job Description:")
}

func TestAnalyzeMissingMatchScoreDefaultsToZero(t *testing.T) {
	model := &scriptedModel{replies: []string{`{"atsScore": 40, "feedback": "ok"}`}}
	svc := NewAnalysisService(model, zap.NewNop())

	r, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "Go developer")
	require.NoError(t, err)

	require.NotNil(t, r.MatchScore)
	assert.Equal(t, 0, *r.MatchScore)
	assert.Len(t, model.prompts, 1)
}

func TestAnalyzeDegradedOnUnparseableReply(t *testing.T) {
	model := &scriptedModel{replies: []string{"Sorry, I cannot answer that."}}
	svc := NewAnalysisService(model, zap.NewNop())

	r, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "Go developer")
	require.NoError(t, err)

	assert.Zero(t, r.ATSScore)
	assert.Equal(t, "Low", r.ExperienceQuality)
	assert.Equal(t, "Parsing Failed", r.FormattingIssues)
	assert.Equal(t, "Raw AI Response (Parsing Failed): Sorry, I cannot answer that.", r.Feedback)
	// Parse failure leaves the match score unknown rather than zero.
	assert.Nil(t, r.MatchScore)
	assert.Len(t, model.prompts, 1)
}

func TestAnalyzeQualifiesAtBoundary(t *testing.T) {
	model := &scriptedModel{replies: []string{
		`{"atsScore": 70, "feedback": "ok"}`,
		"questions",
	}}
	svc := NewAnalysisService(model, zap.NewNop())

	r, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "")
	require.NoError(t, err)
	assert.Equal(t, "questions", r.InterviewQuestions)
	assert.Len(t, model.prompts, 2)
}

func TestAnalyzeBelowBoundarySkipsQuestions(t *testing.T) {
	model := &scriptedModel{replies: []string{`{"atsScore": 69, "feedback": "ok"}`}}
	svc := NewAnalysisService(model, zap.NewNop())

	r, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "")
	require.NoError(t, err)
	assert.Empty(t, r.InterviewQuestions)
	assert.Len(t, model.prompts, 1)
}

func TestAnalyzeQuestionFailureKeepsResume(t *testing.T) {
	model := &scriptedModel{
		replies: []string{`{"atsScore": 90, "feedback": "ok"}`, ""},
		errs:    []error{nil, errors.New("quota")},
	}
	svc := NewAnalysisService(model, zap.NewNop())

	r, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "")
	require.NoError(t, err)
	assert.Equal(t, 90, r.ATSScore)
	assert.Empty(t, r.InterviewQuestions)
}

func TestAnalyzeModelFailure(t *testing.T) {
	model := &scriptedModel{errs: []error{errors.New("model down")}}
	svc := NewAnalysisService(model, zap.NewNop())

	_, err := svc.Analyze(context.Background(), "resume.docx", sampleDocx(t), "")
	require.Error(t, err)
}

func TestAnalyzeEmptyResume(t *testing.T) {
	model := &scriptedModel{}
	svc := NewAnalysisService(model, zap.NewNop())

	_, err := svc.Analyze(context.Background(), "resume.docx", buildDocx(t, " "), "")
	require.Error(t, err)
	assert.Empty(t, model.prompts)
}

func TestRewriteSection(t *testing.T) {
	model := &scriptedModel{replies: []string{"rewritten"}}
	svc := NewAnalysisService(model, zap.NewNop())

	out, err := svc.RewriteSection(context.Background(), "built stuff", "Experience", "SRE", "make it concise")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Experience section")
	assert.Contains(t, model.prompts[0], "SRE role")
	assert.Contains(t, model.prompts[0], "Instruction: make it concise")
	assert.Contains(t, model.prompts[0], "Original Text:\nbuilt stuff")
}

func TestTailorResume(t *testing.T) {
	model := &scriptedModel{replies: []string{"tailored"}}
	svc := NewAnalysisService(model, zap.NewNop())

	out, err := svc.TailorResume(context.Background(), "my resume", "Platform Engineer")
	require.NoError(t, err)
	assert.Equal(t, "tailored", out)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Platform Engineer role")
	assert.Contains(t, model.prompts[0], "Resume Text:\nmy resume")
}
