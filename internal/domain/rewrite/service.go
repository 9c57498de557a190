package rewrite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yanqian/tone-changer/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/tone-changer/pkg/errors"
	"github.com/yanqian/tone-changer/pkg/metrics"
	"github.com/yanqian/tone-changer/pkg/util"
)

// ErrNotConfigured is returned when the upstream client could not be built at start-up.
var ErrNotConfigured = errors.New("rewrite upstream client not configured")

// Service exposes tone rewriting.
type Service interface {
	Rewrite(ctx context.Context, req Request) (Response, error)
	// Ready reports whether the upstream client was initialized.
	Ready() bool
}

// ChatClient is the upstream rewrite capability.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// TokenCounter estimates the token length of user input.
type TokenCounter interface {
	Count(text string) int
}

type service struct {
	cfg     Config
	client  ChatClient
	counter TokenCounter
	logger  *slog.Logger
}

// NewService is a wire provider for the rewrite domain. client may be nil when
// the upstream credential is missing; the service then reports not ready.
func NewService(cfg Config, client ChatClient, counter TokenCounter, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, counter: counter, logger: logger.With("component", "rewrite.service")}
}

func (s *service) Ready() bool {
	return s.client != nil
}

func (s *service) Rewrite(ctx context.Context, req Request) (Response, error) {
	text := strings.TrimSpace(req.Text)
	tone := strings.TrimSpace(req.Tone)
	if text == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, `"text" cannot be blank`, nil)
	}
	if tone == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, `"tone" cannot be blank`, nil)
	}
	if err := s.checkBudget(text, tone); err != nil {
		return Response{}, err
	}
	if s.client == nil {
		return Response{}, ErrNotConfigured
	}

	s.logger.Info("rewrite requested", "tone", tone, "text_chars", utf8.RuneCountInString(text))

	callCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.complete(callCtx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    buildMessages(s.cfg.SystemPrompt, text, tone),
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Response{}, classifyUpstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, "upstream returned no choices", nil)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, "upstream returned an empty rewrite", nil)
	}

	s.logger.Debug("upstream rewrite received", "tone", tone, "finish_reason", resp.Choices[0].FinishReason)

	return Response{
		RewrittenText: content,
		OriginalText:  text,
		RequestedTone: tone,
		DurationMs:    util.MillisSince(start),
		TokenUsage:    metrics.NewTokenUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens),
	}, nil
}

func (s *service) checkBudget(text, tone string) error {
	if limit := s.cfg.MaxToneChars; limit > 0 && utf8.RuneCountInString(tone) > limit {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf(`"tone" exceeds %d characters`, limit), nil)
	}
	if limit := s.cfg.MaxInputChars; limit > 0 && utf8.RuneCountInString(text) > limit {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf(`"text" exceeds %d characters`, limit), nil)
	}
	if limit := s.cfg.MaxInputTokens; limit > 0 && s.counter != nil {
		if n := s.counter.Count(text); n > limit {
			return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf(`"text" is about %d tokens, the limit is %d`, n, limit), nil)
		}
	}
	return nil
}

// complete calls the upstream once, plus a single retry for transient
// failures when MaxAttempts allows it.
func (s *service) complete(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	attempts := s.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= attempts || !isTransient(ctx, err) {
			return resp, err
		}
		s.logger.Warn("transient upstream failure, retrying", "attempt", attempt, "error", err)
		if waitErr := sleepCtx(ctx, s.cfg.RetryBackoff); waitErr != nil {
			return resp, errors.Join(err, waitErr)
		}
	}
}

// isTransient reports whether err is a network failure or an upstream 5xx.
// 4xx answers are never retried.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *chatgpt.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func buildMessages(systemPrompt, text, tone string) []chatgpt.Message {
	user := fmt.Sprintf("Rewrite the following text to have a \"%s\" tone. Return only the rewritten text with no preamble, commentary or surrounding quotes.\n\n\"%s\"", tone, text)
	return []chatgpt.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
}
