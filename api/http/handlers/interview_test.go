package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsabhishekkr/resuma-score/pkg/ai"
	"github.com/itsabhishekkr/resuma-score/pkg/interview"
)

type stubInterviews struct {
	state    interview.PublicState
	stateErr error

	startQ   string
	startErr error

	next      string
	nextErr   error
	gotAnswer string
}

func (s *stubInterviews) CreateSession(context.Context, uuid.UUID, string) (string, error) {
	return "", errors.New("not used")
}

func (s *stubInterviews) PublicState(context.Context, string) (interview.PublicState, error) {
	return s.state, s.stateErr
}

func (s *stubInterviews) Start(context.Context, string) (string, error) {
	return s.startQ, s.startErr
}

func (s *stubInterviews) SubmitAnswer(_ context.Context, _ string, answer string) (string, error) {
	s.gotAnswer = answer
	return s.next, s.nextErr
}

func newInterviewApp(uc interview.UseCase) *fiber.App {
	app := fiber.New()
	h := NewInterviewHandler(uc)
	pub := app.Group("/api/public/interview")
	pub.Get("/:token", h.GetSession)
	pub.Post("/:token/start", h.Start)
	pub.Post("/:token/answer", h.Answer)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestGetSession(t *testing.T) {
	uc := &stubInterviews{state: interview.PublicState{
		Status:     interview.StatusInProgress,
		Transcript: "\nCandidate: hi",
	}}
	app := newInterviewApp(uc)

	resp, body := doJSON(t, app, http.MethodGet, "/api/public/interview/tok", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "IN_PROGRESS", body["status"])
	assert.Equal(t, "\nCandidate: hi", body["transcript"])
}

func TestGetSessionUnknownToken(t *testing.T) {
	app := newInterviewApp(&stubInterviews{stateErr: interview.ErrNotFound})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/public/interview/tok", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStartInterview(t *testing.T) {
	app := newInterviewApp(&stubInterviews{startQ: interview.OpeningQuestion})

	resp, body := doJSON(t, app, http.MethodPost, "/api/public/interview/tok/start", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, interview.OpeningQuestion, body["message"])
}

func TestStartCompletedInterview(t *testing.T) {
	app := newInterviewApp(&stubInterviews{startErr: interview.ErrAlreadyCompleted})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/public/interview/tok/start", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnswer(t *testing.T) {
	uc := &stubInterviews{next: "What is a channel?"}
	app := newInterviewApp(uc)

	resp, body := doJSON(t, app, http.MethodPost, "/api/public/interview/tok/answer", `{"answer":"I like Go"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "What is a channel?", body["message"])
	assert.Equal(t, "I like Go", uc.gotAnswer)
}

func TestAnswerValidation(t *testing.T) {
	uc := &stubInterviews{}
	app := newInterviewApp(uc)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/public/interview/tok/answer", `{"answer":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, uc.gotAnswer)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/public/interview/tok/answer", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnswerErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown token", interview.ErrNotFound, http.StatusNotFound},
		{"quota exhausted", ai.ErrQuotaExceeded, http.StatusServiceUnavailable},
		{"model failure", errors.New("boom"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newInterviewApp(&stubInterviews{nextErr: tc.err})
			resp, _ := doJSON(t, app, http.MethodPost, "/api/public/interview/tok/answer", `{"answer":"hi"}`)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
