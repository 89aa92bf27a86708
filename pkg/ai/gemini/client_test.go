package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsabhishekkr/resuma-score/pkg/ai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key", srv.URL, "gemini-2.5-flash")
	// Shrink the backoff schedule so retry tests run instantly.
	c.baseDelay = time.Millisecond
	c.delayStep = time.Millisecond
	return c
}

func successBody() string {
	return `{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`
}

func TestCompleteSendsPromptInGeminiShape(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, successBody())
	})

	out, err := c.Complete(context.Background(), "tell me a question")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "tell me a question", parts[0].(map[string]any)["text"])
}

func TestCompleteRetriesOnRateLimit(t *testing.T) {
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) <= 4 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, successBody())
	})

	out, err := c.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.EqualValues(t, 5, atomic.LoadInt32(&attempts))
}

func TestCompleteQuotaExhausted(t *testing.T) {
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), "hi")
	require.ErrorIs(t, err, ai.ErrQuotaExceeded)
	// No sixth attempt after the schedule is exhausted.
	assert.EqualValues(t, 5, atomic.LoadInt32(&attempts))
}

func TestCompleteDoesNotRetryOtherErrors(t *testing.T) {
	var attempts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts))
}

func TestCompleteEmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	})

	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	c := New("", "", "")
	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
}

func TestCompleteHonorsContextDuringBackoff(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c.baseDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "hi")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
