package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/clients"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/config"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/handlers"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/middleware"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/models"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/replicadb"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/review"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/services"
	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/stores"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("liftwing_url", cfg.LiftWingURL),
		zap.String("ores_url", cfg.ORESURL),
		zap.String("replica", cfg.Replica.Host))

	ctx := context.Background()
	replica, err := replicadb.NewConnection(ctx, &replicadb.Config{
		URL:            cfg.Replica.ConnectionString(),
		MaxConnections: cfg.Replica.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to replica database", zap.Error(err))
	}
	defer replica.Close()

	wikiStore := stores.NewWikiStore()
	configStore := stores.NewConfigStore()
	revisionStore := stores.NewRevisionStore()
	profileStore := stores.NewProfileStore()

	configurationService := services.NewConfigurationService(configStore,
		func(wiki models.Wiki) services.AliasSource {
			return clients.NewMediaWiki(wiki.APIEndpoint, wiki.Code, wiki.Family, logger)
		}, logger)

	reviewService := services.NewReviewService(services.ReviewServiceParams{
		Wikis:         wikiStore,
		Configs:       configStore,
		Revisions:     revisionStore,
		Profiles:      profileStore,
		Configuration: configurationService,
		Scores: services.NewScoreService(
			clients.NewLiftWing(cfg.LiftWingURL, logger),
			clients.NewORES(cfg.ORESURL, logger)),
		History: replicadb.NewStore(replica, logger),
		WikiAPI: func(wiki models.Wiki) review.WikiAPI {
			return clients.NewMediaWiki(wiki.APIEndpoint, wiki.Code, wiki.Family, logger)
		},
		CacheTTL:    time.Duration(cfg.Evaluation.CacheTTLMinutes) * time.Minute,
		CacheSize:   cfg.Evaluation.CacheSize,
		Concurrency: cfg.Evaluation.Concurrency,
		Logger:      logger,
	})

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewChecksHandler(reviewService, logger).RegisterRoutes(mux)
	handlers.NewWikisHandler(wikiStore, logger).RegisterRoutes(mux)
	handlers.NewIngestHandler(revisionStore, profileStore, logger).RegisterRoutes(mux)
	handlers.NewConfigurationHandler(configurationService, logger).RegisterRoutes(mux)
	handlers.NewEvaluationHandler(reviewService,
		time.Duration(cfg.Evaluation.TimeoutSeconds)*time.Second, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting pendingchangesbot",
		zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
