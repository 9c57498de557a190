package rewrite

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/yanqian/tone-changer/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/tone-changer/pkg/errors"
)

var (
	authCodes  = []string{"invalid_api_key", "invalid_authentication", "unauthenticated", "permission_denied", "authentication_error", "api_key_invalid"}
	quotaCodes = []string{"insufficient_quota", "billing_hard_limit_reached", "billing_not_active", "resource_exhausted", "rate_limit_exceeded"}

	authMarkers  = []string{"api key", "api_key", "unauthorized", "unauthenticated", "permission denied", "invalid authentication"}
	quotaMarkers = []string{"quota", "billing", "resource_exhausted", "rate limit"}
)

// classifyUpstreamError maps an upstream failure onto the domain error codes.
// Structured fields win; matching on the error text is a best-effort fallback
// for failures that carry no structure.
func classifyUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.CodeUpstreamTimeout, "upstream request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Wrap(apperrors.CodeUpstreamTimeout, "upstream request timed out", err)
	}

	var apiErr *chatgpt.APIError
	if errors.As(err, &apiErr) {
		if code := classifyAPIError(apiErr); code != "" {
			return apperrors.Wrap(code, "upstream rejected the request", err)
		}
	}

	if code := classifyMessage(err.Error()); code != "" {
		return apperrors.Wrap(code, "upstream rejected the request", err)
	}
	return apperrors.Wrap(apperrors.CodeUpstreamError, "upstream request failed", err)
}

func classifyAPIError(apiErr *chatgpt.APIError) string {
	for _, field := range []string{apiErr.Code, apiErr.Type, apiErr.Status} {
		field = strings.ToLower(field)
		if field == "" {
			continue
		}
		if containsAny(field, authCodes) {
			return apperrors.CodeUpstreamAuth
		}
		if containsAny(field, quotaCodes) {
			return apperrors.CodeUpstreamQuota
		}
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.CodeUpstreamAuth
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return apperrors.CodeUpstreamQuota
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return apperrors.CodeUpstreamTimeout
	}
	return ""
}

func classifyMessage(message string) string {
	lowered := strings.ToLower(message)
	switch {
	case containsAny(lowered, authMarkers):
		return apperrors.CodeUpstreamAuth
	case containsAny(lowered, quotaMarkers):
		return apperrors.CodeUpstreamQuota
	default:
		return ""
	}
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
