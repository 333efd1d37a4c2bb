package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fieldworks/matchbot/internal/config"
	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/internal/providers/cache"
	"github.com/fieldworks/matchbot/internal/providers/llm"
	"github.com/fieldworks/matchbot/internal/providers/web"
	"github.com/fieldworks/matchbot/internal/service/intent"
	"github.com/fieldworks/matchbot/internal/service/orchestrator"
	"github.com/fieldworks/matchbot/internal/service/resolver"
	"github.com/fieldworks/matchbot/internal/storage/sqldb"
	"github.com/fieldworks/matchbot/internal/storage/sqlite"
	"github.com/fieldworks/matchbot/internal/transport/httpapi"
	"github.com/fieldworks/matchbot/internal/transport/telegram"
	"github.com/fieldworks/matchbot/pkg/log"
	"github.com/fieldworks/matchbot/pkg/srv"
	"github.com/joho/godotenv"
)

// Dependencies is the wired object graph for one process: the turn engine
// plus every service that has to start or clean up with it.
type Dependencies struct {
	Engine   *orchestrator.Engine
	Services []srv.Service
}

// NewDependencies wires the full graph. withTransports is false for
// one-shot commands that only need the engine and resource cleanups.
func NewDependencies(ctx context.Context, withTransports bool) *Dependencies {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	dbCfg := config.NewDatabaseConfig(ctx)
	cacheCfg := config.NewCacheConfig(ctx)

	// 2. Conversation storage
	db, err := sqlite.NewDB(ctx, appCfg.GetThreadsDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize conversation storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	threads := sqlite.NewThreadsRepo(db)

	// 3. Tournament database
	dsn := dbCfg.DSN
	if dsn == "" && dbCfg.Driver == "sqlite3" {
		dsn = filepath.Join(appCfg.GetRuntimePath(), "tournament.db")
	}
	runner, err := sqldb.NewRunner(ctx, dbCfg.Driver, dsn, dbCfg.QueryTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to tournament database")
	}
	services = append(services, srv.NewCleanup(runner.Close))

	// 4. Content cache
	contentCache, cleanup := initCache(ctx, appCfg, cacheCfg)
	if cleanup != nil {
		services = append(services, srv.NewCleanup(cleanup))
	}

	// 5. Completion clients
	reasoning, fast := llm.NewClients(ctx, llmCfg)

	// 6. Website fetcher
	fetcher := web.NewFetcher(ctx)

	// 7. Routing and answer branches
	router := intent.NewRouter(fast)
	historyAnswers := resolver.NewHistory(reasoning)
	webAnswers := resolver.NewWebCache(reasoning, contentCache, fetcher, appCfg.SiteBaseURL, cacheCfg.TTL)
	generalAnswers := resolver.NewGeneral(fast)
	sqlPipeline := orchestrator.NewSQLPipeline(reasoning, fast, runner, appCfg.MaxCheckAttempts)

	engine := orchestrator.NewEngine(
		threads,
		router,
		historyAnswers,
		webAnswers,
		generalAnswers,
		sqlPipeline,
		appCfg.ContextWindowSize,
	)

	// 8. Transports
	if withTransports && appCfg.EnableHTTP {
		services = append(services, httpapi.NewServer(ctx, appCfg.HTTPAddr, engine, appCfg.WorkerCount))
	}
	if withTransports && appCfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, engine)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	return &Dependencies{Engine: engine, Services: services}
}

func initCache(ctx context.Context, appCfg *config.AppConfig, cfg *config.CacheConfig) (core.ContentCache, func() error) {
	logger := log.FromCtx(ctx)

	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		return redisCache, redisCache.Close
	}

	fileCache, err := cache.NewFileCache(appCfg.GetCacheDir())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize file cache")
	}
	return fileCache, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
