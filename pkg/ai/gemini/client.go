package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/itsabhishekkr/resuma-score/pkg/ai"
)

// Client is a minimal Gemini generateContent client.
//
// Requests that hit the provider's rate limit (HTTP 429) are retried up to
// maxAttempts times with a linearly growing backoff; every other error class
// fails immediately.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	httpDo  *http.Client

	maxAttempts int
	baseDelay   time.Duration
	delayStep   time.Duration
}

func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		httpDo: &http.Client{
			Timeout: 60 * time.Second,
		},
		maxAttempts: 5,
		baseDelay:   10 * time.Second,
		delayStep:   5 * time.Second,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content struct {
		Parts []part `json:"parts"`
	} `json:"content"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

// Complete sends the prompt to Gemini and returns the first textual reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("gemini api key is empty")
	}
	body := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, url.QueryEscape(c.APIKey))

	delay := c.baseDelay
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		text, rateLimited, err := c.post(ctx, endpoint, data)
		if err == nil {
			return text, nil
		}
		if !rateLimited {
			return "", err
		}
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
		delay += c.delayStep
	}
	return "", ai.ErrQuotaExceeded
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (text string, rateLimited bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("gemini http 429: rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return "", false, fmt.Errorf("gemini http %d: %v", resp.StatusCode, errMap)
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", false, errors.New("no candidates returned by model")
	}
	return out.Candidates[0].Content.Parts[0].Text, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
