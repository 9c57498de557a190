package rewrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/tone-changer/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/tone-changer/pkg/errors"
)

func TestClassifyUpstreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "openai quota code",
			err:  &chatgpt.APIError{StatusCode: http.StatusTooManyRequests, Code: "insufficient_quota"},
			want: apperrors.CodeUpstreamQuota,
		},
		{
			name: "gemini resource exhausted",
			err:  &chatgpt.APIError{StatusCode: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"},
			want: apperrors.CodeUpstreamQuota,
		},
		{
			name: "openai invalid key",
			err:  &chatgpt.APIError{StatusCode: http.StatusUnauthorized, Code: "invalid_api_key"},
			want: apperrors.CodeUpstreamAuth,
		},
		{
			name: "gemini permission denied",
			err:  &chatgpt.APIError{StatusCode: http.StatusForbidden, Status: "PERMISSION_DENIED"},
			want: apperrors.CodeUpstreamAuth,
		},
		{
			name: "bad request mentioning api key falls back to text",
			err:  &chatgpt.APIError{StatusCode: http.StatusBadRequest, Status: "INVALID_ARGUMENT", Message: "API key not valid. Please pass a valid API key."},
			want: apperrors.CodeUpstreamAuth,
		},
		{
			name: "payment required",
			err:  &chatgpt.APIError{StatusCode: http.StatusPaymentRequired},
			want: apperrors.CodeUpstreamQuota,
		},
		{
			name: "gateway timeout status",
			err:  &chatgpt.APIError{StatusCode: http.StatusGatewayTimeout},
			want: apperrors.CodeUpstreamTimeout,
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("request chat completion: %w", context.DeadlineExceeded),
			want: apperrors.CodeUpstreamTimeout,
		},
		{
			name: "unstructured billing message",
			err:  errors.New("[GoogleGenerativeAI Error]: billing account disabled"),
			want: apperrors.CodeUpstreamQuota,
		},
		{
			name: "server error",
			err:  &chatgpt.APIError{StatusCode: http.StatusInternalServerError, Message: "internal"},
			want: apperrors.CodeUpstreamError,
		},
		{
			name: "unknown",
			err:  errors.New("decode chat completion: unexpected EOF"),
			want: apperrors.CodeUpstreamError,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := classifyUpstreamError(tt.err)
			require.Equal(t, tt.want, apperrors.CodeOf(got))
			require.ErrorIs(t, got, tt.err)
		})
	}
}
