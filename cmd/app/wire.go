//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/tone-changer/internal/bootstrap"
	"github.com/yanqian/tone-changer/internal/domain/rewrite"
	"github.com/yanqian/tone-changer/internal/domain/usage"
	"github.com/yanqian/tone-changer/internal/infra/config"
	httpiface "github.com/yanqian/tone-changer/internal/interface/http"
	"github.com/yanqian/tone-changer/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRewriteConfig,
		provideChatClient,
		provideTokenCounter,
		provideUsageConfig,
		provideEventRepository,
		provideToneStore,
		rewrite.NewService,
		usage.NewService,
		httpiface.NewMetrics,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
