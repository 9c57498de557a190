package rewrite

import (
	"time"

	"github.com/yanqian/tone-changer/pkg/metrics"
)

// Config configures prompt construction, input budgets and upstream calls.
type Config struct {
	Model          string
	Temperature    float32
	SystemPrompt   string
	MaxInputChars  int
	MaxInputTokens int
	MaxToneChars   int // 0 disables the tone length check
	Timeout        time.Duration
	MaxAttempts    int
	RetryBackoff   time.Duration
}

// Request is a validated rewrite request. Both fields are trimmed and non-blank.
type Request struct {
	Text string
	Tone string
}

// Response is returned on a successful rewrite.
type Response struct {
	RewrittenText string              `json:"rewrittenText"`
	OriginalText  string              `json:"originalText"`
	RequestedTone string              `json:"requestedTone"`
	DurationMs    int64               `json:"durationMs,omitempty"`
	TokenUsage    *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}
