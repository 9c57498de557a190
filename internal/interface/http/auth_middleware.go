package http

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const secretHeader = "X-API-Secret"

// readinessMiddleware rejects calls while the relay lacks its upstream
// credential or shared secret. Which one is missing is only logged.
func readinessMiddleware(secret string, ready func() bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		upstreamReady := ready == nil || ready()
		if upstreamReady && secret != "" {
			c.Next()
			return
		}
		logger.Error("relay not configured", "upstream_client_ready", upstreamReady, "shared_secret_set", secret != "", "path", c.Request.URL.Path)
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "config_error", "Internal Server Configuration Error", nil))
	}
}

// sharedSecretMiddleware authorizes callers presenting the configured secret
// in the X-API-Secret header.
func sharedSecretMiddleware(secret string, logger *slog.Logger) gin.HandlerFunc {
	want := sha256.Sum256([]byte(secret))
	return func(c *gin.Context) {
		got := sha256.Sum256([]byte(c.GetHeader(secretHeader)))
		if secret != "" && subtle.ConstantTimeCompare(got[:], want[:]) == 1 {
			c.Next()
			return
		}
		logger.Warn("forbidden: invalid or missing api secret", "ip", c.ClientIP(), "origin", c.GetHeader("Origin"), "path", c.Request.URL.Path)
		abortWithError(c, NewHTTPError(http.StatusForbidden, "forbidden", "Forbidden", nil))
	}
}

// allowMethods answers 405 for anything outside the given methods. OPTIONS is
// always advertised since preflight is handled earlier in the chain.
func allowMethods(methods ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[m] = struct{}{}
	}
	allowHeader := strings.Join(append(append([]string(nil), methods...), http.MethodOptions), ", ")
	return func(c *gin.Context) {
		if _, ok := allowed[c.Request.Method]; ok {
			c.Next()
			return
		}
		c.Header("Allow", allowHeader)
		abortWithError(c, NewHTTPError(http.StatusMethodNotAllowed, "method_not_allowed", "Method "+c.Request.Method+" Not Allowed", nil))
	}
}
