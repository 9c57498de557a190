package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/tone-changer/internal/domain/rewrite"
	"github.com/yanqian/tone-changer/internal/domain/usage"
	"github.com/yanqian/tone-changer/internal/infra/auditrepo"
	"github.com/yanqian/tone-changer/internal/infra/config"
	"github.com/yanqian/tone-changer/internal/infra/llm/chatgpt"
	"github.com/yanqian/tone-changer/internal/infra/tokenizer"
	"github.com/yanqian/tone-changer/internal/infra/usagestore"
)

func provideRewriteConfig(cfg *config.Config) rewrite.Config {
	return rewrite.Config{
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		SystemPrompt:   cfg.Rewrite.SystemPrompt,
		MaxInputChars:  cfg.Rewrite.MaxInputChars,
		MaxInputTokens: cfg.Rewrite.MaxInputTokens,
		MaxToneChars:   cfg.Rewrite.MaxToneChars,
		Timeout:        cfg.LLM.Timeout,
		MaxAttempts:    cfg.LLM.MaxAttempts,
		RetryBackoff:   cfg.LLM.RetryBackoff,
	}
}

// provideChatClient returns nil when the upstream credential is missing so the
// relay still starts and answers with a configuration error.
func provideChatClient(cfg *config.Config, logger *slog.Logger) rewrite.ChatClient {
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		logger.Error("upstream client not initialized, rewrites will fail with a configuration error", "error", err)
		return nil
	}
	logger.Info("upstream client initialized", "base_url", cfg.LLM.BaseURL, "model", cfg.LLM.Model)
	return client
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) rewrite.TokenCounter {
	if cfg.Rewrite.MaxInputTokens <= 0 {
		return nil
	}
	counter, err := tokenizer.NewTiktokenCounter(cfg.Rewrite.TokenEncoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using word counter", "error", err)
		return tokenizer.WordCounter{}
	}
	return counter
}

func provideUsageConfig(cfg *config.Config) usage.Config {
	return usage.Config{TrendingLimit: cfg.Usage.TrendingLimit}
}

func provideEventRepository(cfg *config.Config, logger *slog.Logger) usage.EventRepository {
	fallback := auditrepo.NewMemoryRepository(cfg.Usage.MemoryCapacity)
	dsn := strings.TrimSpace(cfg.Usage.Postgres.DSN)
	if dsn == "" {
		logger.Info("usage postgres dsn not set, using memory audit log")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory audit log", "error", err)
		return fallback
	}
	if cfg.Usage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Usage.Postgres.MaxConns
	}
	if cfg.Usage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Usage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory audit log", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory audit log", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("usage postgres audit log enabled")
	return auditrepo.NewPostgresRepository(pool)
}

func provideToneStore(cfg *config.Config, logger *slog.Logger) usage.ToneStore {
	if cfg.Usage.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg.Usage.Redis.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return usagestore.NewMemoryStore(cfg.Usage.MemoryMaxTones)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return usagestore.NewMemoryStore(cfg.Usage.MemoryMaxTones)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("tone valkey store enabled", "addr", cfg.Usage.Redis.Addr)
			return usagestore.NewValkeyStore(client, "tones")
		}
	}
	return usagestore.NewMemoryStore(cfg.Usage.MemoryMaxTones)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
