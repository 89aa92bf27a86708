package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/itsabhishekkr/resuma-score/api/http/presenter"
	"github.com/itsabhishekkr/resuma-score/pkg/ai"
	"github.com/itsabhishekkr/resuma-score/pkg/interview"
)

// InterviewHandler serves the public, token-addressed interview API.
// Possession of the token is the only authentication.
type InterviewHandler struct {
	uc interview.UseCase
}

func NewInterviewHandler(uc interview.UseCase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

// GetSession returns the candidate-visible state of a session.
// @Summary Interview session state
// @Tags    interview
// @Produce json
// @Param   token path string true "session access token"
// @Success 200 {object} interview.PublicState
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /public/interview/{token} [get]
func (h *InterviewHandler) GetSession(c *fiber.Ctx) error {
	state, err := h.uc.PublicState(c.Context(), c.Params("token"))
	if err != nil {
		if errors.Is(err, interview.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "interview session not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load session")
	}
	return presenter.JSON(c, http.StatusOK, state)
}

// Start begins (or resumes) the interview and returns the opening question.
// @Summary Start interview
// @Tags    interview
// @Produce json
// @Param   token path string true "session access token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /public/interview/{token}/start [post]
func (h *InterviewHandler) Start(c *fiber.Ctx) error {
	question, err := h.uc.Start(c.Context(), c.Params("token"))
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "interview session not found")
		case errors.Is(err, interview.ErrAlreadyCompleted):
			return presenter.Error(c, http.StatusBadRequest, "interview already completed")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to start interview")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": question})
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// Answer records the candidate's answer and returns the next question.
// @Summary Submit interview answer
// @Tags    interview
// @Accept  json
// @Produce json
// @Param   token path string true "session access token"
// @Param   input body answerRequest true "candidate answer"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /public/interview/{token}/answer [post]
func (h *InterviewHandler) Answer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Answer) == "" {
		return presenter.Error(c, http.StatusBadRequest, "answer is required")
	}

	next, err := h.uc.SubmitAnswer(c.Context(), c.Params("token"), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "interview session not found")
		case errors.Is(err, ai.ErrQuotaExceeded):
			// The answer is already persisted; retrying later is safe.
			return presenter.Error(c, http.StatusServiceUnavailable, "AI service is over quota, please retry later")
		default:
			return presenter.Error(c, http.StatusBadGateway, "failed to get next question")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": next})
}
