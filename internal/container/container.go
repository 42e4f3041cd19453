package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"movierealm/internal/api"
	"movierealm/internal/config"
	"movierealm/internal/history"
	"movierealm/internal/services"
	"movierealm/internal/session"
	"movierealm/internal/store"
	"movierealm/internal/views"
)

type Container struct {
	Config config.Config
	Logger *logrus.Logger
	Redis  *redis.Client
	API    *api.Client

	Sessions *session.Store
	History  *history.History

	Auth      *services.Auth
	Catalog   *services.Catalog
	Watchlist *views.WatchlistView
	Reviews   *views.ReviewsView
	Admin     *views.AdminView
}

func New(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Container, error) {
	local, err := store.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local state: %w", err)
	}

	// The cache is optional; the client must work without redis, just
	// slower.
	redisClient := newRedis(ctx, cfg, logger)

	apiClient := api.NewClient(api.ClientConfig{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.RequestTimeout,
		RateLimit: rate.Limit(10),
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})

	auth := services.NewAuth(apiClient, logger)
	sessions := session.NewStore(auth, local, logger)
	apiClient.SetTokenSource(sessions)
	apiClient.SetUnauthorizedHook(sessions.ForceLogout)

	catalog := services.NewCatalog(apiClient, redisClient, logger)
	watchlistSvc := services.NewWatchlist(apiClient, logger)
	reviewsSvc := services.NewReviews(apiClient, logger)
	adminSvc := services.NewAdmin(apiClient, logger)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Redis:     redisClient,
		API:       apiClient,
		Sessions:  sessions,
		History:   history.New(local),
		Auth:      auth,
		Catalog:   catalog,
		Watchlist: views.NewWatchlistView(watchlistSvc, logger, cfg.ProbeWorkers),
		Reviews:   views.NewReviewsView(reviewsSvc, logger),
		Admin:     views.NewAdminView(adminSvc, catalog, logger),
	}, nil
}

func (c *Container) Close() {
	if c.Redis != nil {
		c.Redis.Close()
		c.Logger.Info("Redis connection closed")
	}
}

func newRedis(ctx context.Context, cfg config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis, catalog caching disabled")
		client.Close()
		return nil
	}

	logger.Info("Redis connection successful")
	return client
}
