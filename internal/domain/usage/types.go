package usage

import (
	"time"

	"github.com/google/uuid"
)

// Outcome labels how a rewrite request ended.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeInvalidInput    Outcome = "invalid_input"
	OutcomeUpstreamAuth    Outcome = "upstream_auth"
	OutcomeUpstreamQuota   Outcome = "upstream_quota"
	OutcomeUpstreamTimeout Outcome = "upstream_timeout"
	OutcomeUpstreamError   Outcome = "upstream_error"
)

// Event is one audited rewrite attempt. The submitted text is never stored,
// only its length.
type Event struct {
	ID         uuid.UUID
	RequestID  string
	Tone       string
	InputChars int
	Status     int
	Outcome    Outcome
	LatencyMs  int64
	CreatedAt  time.Time
}

// ToneCount is a tone with how often it was requested.
type ToneCount struct {
	Tone  string `json:"tone"`
	Count int64  `json:"count"`
}

// Config holds runtime knobs for usage tracking.
type Config struct {
	TrendingLimit int
}
