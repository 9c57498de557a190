package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/tone-changer/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, metrics *Metrics) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		securityHeaders(),
		requestLogger(handler.logger, metrics),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	guard := []gin.HandlerFunc{
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		readinessMiddleware(cfg.Auth.SharedSecret, handler.rewriteSvc.Ready, handler.logger),
		sharedSecretMiddleware(cfg.Auth.SharedSecret, handler.logger),
	}

	rewriteChain := append([]gin.HandlerFunc{corsMiddleware(cfg.CORS.AllowedOrigins, corsAllowMethods)}, guard...)
	rewriteChain = append(rewriteChain, allowMethods(http.MethodPost), handler.Rewrite)
	router.Any("/api/tone-changer", rewriteChain...)

	api := router.Group("/api/v1")
	{
		api.Any("/rewrites", rewriteChain...)

		tonesChain := append([]gin.HandlerFunc{corsMiddleware(cfg.CORS.AllowedOrigins, "GET, OPTIONS")}, guard...)
		tonesChain = append(tonesChain, allowMethods(http.MethodGet), handler.TrendingTones)
		api.Any("/tones/trending", tonesChain...)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		metrics.observeRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), latency)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds(), "request_id", getRequestID(c))
	}
}
