package ai

import (
	"context"
	"errors"
	"strings"
)

// Caps applied to caller-supplied text before it is embedded into a prompt.
// They bound request size and cost per call.
const (
	MaxResumeChars  = 10_000
	MaxJobDescChars = 5_000
	MaxContextChars = 2_000
)

// ErrQuotaExceeded is returned after the provider kept rate-limiting us for
// the whole retry schedule.
var ErrQuotaExceeded = errors.New("ai provider quota exceeded")

// Completer is a minimal abstraction for prompt-based generative models.
// It intentionally hides concrete providers to preserve dependency direction.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Clip truncates s to at most max bytes.
func Clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// StripFences removes markdown code-fence wrappers that models tend to emit
// around JSON payloads, even when asked not to.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
