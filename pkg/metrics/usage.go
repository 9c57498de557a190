package metrics

// TokenUsage captures upstream token counts reported for a rewrite.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// NewTokenUsage returns nil when the upstream did not report any usage.
func NewTokenUsage(prompt, completion, total int) *TokenUsage {
	usage := TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
	if usage.IsZero() {
		return nil
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = prompt + completion
	}
	return &usage
}
