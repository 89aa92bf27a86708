package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itsabhishekkr/resuma-score/pkg/resume"
)

// ResumeRepository stores resumes together with their ATS reports.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) (*ResumeRepository, error) {
	r := &ResumeRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResumeRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resumes (
	id UUID PRIMARY KEY,
	owner_id UUID,
	filename TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	parsed_content TEXT NOT NULL,
	ats_score INT NOT NULL DEFAULT 0,
	feedback TEXT NOT NULL DEFAULT '',
	skills_coverage INT NOT NULL DEFAULT 0,
	experience_quality TEXT NOT NULL DEFAULT '',
	formatting_issues TEXT NOT NULL DEFAULT '',
	keywords TEXT NOT NULL DEFAULT '',
	job_description TEXT NOT NULL DEFAULT '',
	match_score INT,
	missing_skills TEXT NOT NULL DEFAULT '',
	interview_questions TEXT NOT NULL DEFAULT '',
	interview_score INT,
	interview_feedback TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

const resumeColumns = `id, owner_id, filename, email, parsed_content, ats_score, feedback,
skills_coverage, experience_quality, formatting_issues, keywords,
job_description, match_score, missing_skills,
interview_questions, interview_score, interview_feedback, created_at`

func (r *ResumeRepository) Create(ctx context.Context, rs resume.Resume) error {
	if rs.ID == uuid.Nil {
		rs.ID = uuid.New()
	}
	if rs.CreatedAt.IsZero() {
		rs.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO resumes (`+resumeColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
`, rs.ID, rs.OwnerID, rs.Filename, rs.Email, rs.ParsedContent, rs.ATSScore, rs.Feedback,
		rs.SkillsCoverage, rs.ExperienceQuality, rs.FormattingIssues, rs.Keywords,
		rs.JobDescription, rs.MatchScore, rs.MissingSkills,
		rs.InterviewQuestions, rs.InterviewScore, rs.InterviewFeedback, rs.CreatedAt)
	return err
}

func (r *ResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+resumeColumns+` FROM resumes WHERE id = $1
`, id)
	return scanResume(row)
}

func (r *ResumeRepository) List(ctx context.Context, limit, offset int) ([]resume.Resume, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+resumeColumns+` FROM resumes
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResumes(rows)
}

func (r *ResumeRepository) ListQualified(ctx context.Context, minScore, limit, offset int) ([]resume.Resume, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+resumeColumns+` FROM resumes
WHERE match_score IS NOT NULL AND match_score >= $1
ORDER BY match_score DESC, created_at DESC
LIMIT $2 OFFSET $3
`, minScore, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResumes(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (resume.Resume, error) {
	var m resume.Resume
	var created time.Time
	err := row.Scan(&m.ID, &m.OwnerID, &m.Filename, &m.Email, &m.ParsedContent, &m.ATSScore, &m.Feedback,
		&m.SkillsCoverage, &m.ExperienceQuality, &m.FormattingIssues, &m.Keywords,
		&m.JobDescription, &m.MatchScore, &m.MissingSkills,
		&m.InterviewQuestions, &m.InterviewScore, &m.InterviewFeedback, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	m.CreatedAt = created.UTC()
	return m, nil
}

func collectResumes(rows pgx.Rows) ([]resume.Resume, error) {
	var res []resume.Resume
	for rows.Next() {
		m, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
