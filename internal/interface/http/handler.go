package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/tone-changer/internal/domain/rewrite"
	"github.com/yanqian/tone-changer/internal/domain/usage"
	"github.com/yanqian/tone-changer/internal/infra/config"
	apperrors "github.com/yanqian/tone-changer/pkg/errors"
	"github.com/yanqian/tone-changer/pkg/util"
)

const (
	defaultMaxBodyBytes  = 64 << 10
	defaultRecordTimeout = 2 * time.Second
)

var errTrailingData = errors.New("unexpected data after the JSON object")

// upstreamFailure is the caller-facing rendering of an upstream error code.
type upstreamFailure struct {
	status  int
	message string
	details string
}

var upstreamFailures = map[string]upstreamFailure{
	apperrors.CodeUpstreamAuth: {
		status:  http.StatusInternalServerError,
		message: "Failed to process request",
		details: "Internal configuration issue with the AI service.",
	},
	apperrors.CodeUpstreamQuota: {
		status:  http.StatusTooManyRequests,
		message: "AI service quota exceeded",
		details: "The AI service quota has been reached. Please try again later.",
	},
	apperrors.CodeUpstreamTimeout: {
		status:  http.StatusGatewayTimeout,
		message: "Upstream timeout",
		details: "The AI service did not respond in time.",
	},
	apperrors.CodeUpstreamError: {
		status:  http.StatusInternalServerError,
		message: "Failed to process request",
		details: "The AI service could not complete the rewrite.",
	},
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	rewriteSvc    rewrite.Service
	usageSvc      usage.Service
	metrics       *Metrics
	maxBodyBytes  int64
	recordTimeout time.Duration
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, rewriteSvc rewrite.Service, usageSvc usage.Service, metrics *Metrics, logger *slog.Logger) *Handler {
	maxBodyBytes := cfg.HTTP.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		rewriteSvc:    rewriteSvc,
		usageSvc:      usageSvc,
		metrics:       metrics,
		maxBodyBytes:  maxBodyBytes,
		recordTimeout: defaultRecordTimeout,
		logger:        logger.With("component", "http.handler"),
	}
}

// Rewrite handles POST /api/tone-changer. Preflight, readiness, secret and
// method checks have already run in the middleware chain.
func (h *Handler) Rewrite(c *gin.Context) {
	start := time.Now()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var payload rewrite.Payload
	if err := decodeJSONBody(c.Request.Body, &payload); err != nil {
		abortWithError(c, invalidInput(bindErrorDetails(err), err))
		return
	}
	req, err := payload.Validate()
	if err != nil {
		abortWithError(c, invalidInput(apperrors.MessageOf(err), err))
		return
	}

	resp, err := h.rewriteSvc.Rewrite(c.Request.Context(), req)
	if err != nil {
		httpErr := h.rewriteError(err)
		h.record(c, req, httpErr.Status, outcomeOf(err), start)
		abortWithError(c, httpErr)
		return
	}

	h.record(c, req, http.StatusOK, usage.OutcomeSuccess, start)
	c.JSON(http.StatusOK, resp)
}

// TrendingTones returns the most requested tones.
func (h *Handler) TrendingTones(c *gin.Context) {
	tones, err := h.usageSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "usage_failed", "Failed to load trending tones", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"tones": tones})
}

// Health reports liveness and whether the relay can serve rewrites.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ready": h.rewriteSvc.Ready()})
}

func (h *Handler) rewriteError(err error) *HTTPError {
	if errors.Is(err, rewrite.ErrNotConfigured) {
		return NewHTTPError(http.StatusInternalServerError, "config_error", "Internal Server Configuration Error", err)
	}
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeInvalidInput {
		return invalidInput(apperrors.MessageOf(err), err)
	}
	failure, ok := upstreamFailures[code]
	if !ok {
		code = apperrors.CodeUpstreamError
		failure = upstreamFailures[code]
	}
	return NewHTTPError(failure.status, code, failure.message, err).WithDetails(failure.details)
}

func (h *Handler) record(c *gin.Context, req rewrite.Request, status int, outcome usage.Outcome, start time.Time) {
	h.metrics.observeRewrite(string(outcome))
	if h.usageSvc == nil {
		return
	}
	event := usage.Event{
		RequestID:  getRequestID(c),
		Tone:       req.Tone,
		InputChars: utf8.RuneCountInString(req.Text),
		Status:     status,
		Outcome:    outcome,
		LatencyMs:  util.MillisSince(start),
	}
	// the audit write outlives a disconnected caller but never holds the response for long
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.recordTimeout)
	defer cancel()
	if err := h.usageSvc.Record(ctx, event); err != nil {
		h.logger.Warn("usage record failed", "error", err, "request_id", event.RequestID)
	}
}

func outcomeOf(err error) usage.Outcome {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		return usage.OutcomeInvalidInput
	case apperrors.CodeUpstreamAuth:
		return usage.OutcomeUpstreamAuth
	case apperrors.CodeUpstreamQuota:
		return usage.OutcomeUpstreamQuota
	case apperrors.CodeUpstreamTimeout:
		return usage.OutcomeUpstreamTimeout
	default:
		return usage.OutcomeUpstreamError
	}
}

func invalidInput(details string, err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "Invalid input", err).WithDetails(details)
}

// decodeJSONBody decodes exactly one JSON value from body. Anything but
// whitespace after it is rejected.
func decodeJSONBody(body io.Reader, out any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(out); err != nil {
		return err
	}
	err := dec.Decode(&struct{}{})
	if errors.Is(err, io.EOF) {
		return nil
	}
	var maxByteErr *http.MaxBytesError
	if errors.As(err, &maxByteErr) {
		return err
	}
	return errTrailingData
}

// bindErrorDetails explains a JSON decoding failure without echoing the body.
func bindErrorDetails(err error) string {
	var (
		typeErr    *json.UnmarshalTypeError
		maxByteErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &maxByteErr):
		return fmt.Sprintf("request body exceeds %d bytes", maxByteErr.Limit)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("%q must be a string", typeErr.Field)
		}
		return "request body must be a JSON object"
	default:
		return "request body is not valid JSON"
	}
}
