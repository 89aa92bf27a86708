package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/itsabhishekkr/resuma-score/api/http/presenter"
	"github.com/itsabhishekkr/resuma-score/pkg/interview"
	"github.com/itsabhishekkr/resuma-score/pkg/resume"
)

type ResumeHandler struct {
	svc       resume.AnalysisService
	repo      resume.Repository
	scheduler *interview.Scheduler
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewResumeHandler(svc resume.AnalysisService, repo resume.Repository, scheduler *interview.Scheduler) *ResumeHandler {
	return &ResumeHandler{svc: svc, repo: repo, scheduler: scheduler, maxBytes: 15 << 20} // 15MB
}

// Upload analyzes an uploaded resume (PDF/DOCX) against an optional job
// description, persists the report and may auto-schedule an AI interview.
// @Summary Upload and analyze a resume
// @Tags    resumes
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "resume file (PDF or DOCX)"
// @Param   jobDescription formData string false "job description to match against"
// @Security BearerAuth
// @Success 200 {object} resume.Resume
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /resumes/upload [post]
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf or docx)")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && ext != ".docx" {
		return presenter.Error(c, http.StatusBadRequest, "unsupported file format: only pdf and docx are allowed")
	}
	jobDescription := c.FormValue("jobDescription")

	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	r, err := h.svc.Analyze(c.Context(), fh.Filename, data, jobDescription)
	if err != nil {
		return presenter.Error(c, http.StatusBadGateway, fmt.Sprintf("analysis failed: %v", err))
	}

	ownerIDStr, _ := c.Locals("userId").(string)
	r.OwnerID, _ = uuid.Parse(ownerIDStr)
	if err := h.repo.Create(c.Context(), r); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save resume")
	}

	// Shortlisting happens only after the resume is durable.
	h.scheduler.OnAnalysisComplete(c.Context(), r.ID, r.JobDescription, r.MatchScore, r.Email)

	return presenter.JSON(c, http.StatusOK, r)
}

// Get returns one analyzed resume.
// @Summary Get resume
// @Tags    resumes
// @Produce json
// @Param   id path string true "resume id (UUID)"
// @Security BearerAuth
// @Success 200 {object} resume.Resume
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resumes/{id} [get]
func (h *ResumeHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	r, err := h.repo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "resume not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load resume")
	}
	return presenter.JSON(c, http.StatusOK, r)
}

// List returns analyzed resumes, newest first.
// @Summary List resumes
// @Tags    resumes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resume.Resume
// @Router  /resumes [get]
func (h *ResumeHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.repo.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list resumes")
	}
	if items == nil {
		items = []resume.Resume{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// ListQualified returns resumes whose match score reaches minScore.
// @Summary List qualified resumes
// @Tags    resumes
// @Produce json
// @Param   minScore query int false "minimum match score" default(70)
// @Security BearerAuth
// @Success 200 {array} resume.Resume
// @Router  /resumes/qualified [get]
func (h *ResumeHandler) ListQualified(c *fiber.Ctx) error {
	minScore := resume.QualifyScore
	if v := strings.TrimSpace(c.Query("minScore")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			minScore = n
		}
	}
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.repo.ListQualified(c.Context(), minScore, limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list resumes")
	}
	if items == nil {
		items = []resume.Resume{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

type rewriteRequest struct {
	SectionContent string `json:"sectionContent"`
	SectionName    string `json:"sectionName"`
	TargetRole     string `json:"targetRole"`
	Instruction    string `json:"instruction"`
}

// Rewrite rewrites one resume section for a target role.
// @Summary Rewrite a resume section
// @Tags    resumes
// @Accept  json
// @Produce json
// @Param   input body rewriteRequest true "section to rewrite"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /resumes/rewrite [post]
func (h *ResumeHandler) Rewrite(c *fiber.Ctx) error {
	var req rewriteRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.SectionContent) == "" {
		return presenter.Error(c, http.StatusBadRequest, "sectionContent is required")
	}
	out, err := h.svc.RewriteSection(c.Context(), req.SectionContent, req.SectionName, req.TargetRole, req.Instruction)
	if err != nil {
		return presenter.Error(c, http.StatusBadGateway, fmt.Sprintf("rewrite failed: %v", err))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"result": out})
}

// Tailor rewrites a stored resume for a target role.
// @Summary Tailor resume for a role
// @Tags    resumes
// @Produce json
// @Param   id path string true "resume id (UUID)"
// @Param   targetRole query string true "target role"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /resumes/{id}/tailor [post]
func (h *ResumeHandler) Tailor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid id")
	}
	targetRole := strings.TrimSpace(c.Query("targetRole"))
	if targetRole == "" {
		return presenter.Error(c, http.StatusBadRequest, "targetRole is required")
	}
	r, err := h.repo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "resume not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load resume")
	}
	out, err := h.svc.TailorResume(c.Context(), r.ParsedContent, targetRole)
	if err != nil {
		return presenter.Error(c, http.StatusBadGateway, fmt.Sprintf("tailoring failed: %v", err))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"result": out})
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
