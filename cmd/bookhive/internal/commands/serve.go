package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/bookhive/api/internal/api"
	"github.com/bookhive/api/internal/api/handler"
	"github.com/bookhive/api/internal/core/service"
	"github.com/bookhive/api/internal/infrastructure/config"
	"github.com/bookhive/api/internal/infrastructure/db/mongo"
	redisdb "github.com/bookhive/api/internal/infrastructure/db/redis"
	"github.com/bookhive/api/internal/infrastructure/db/sqldb"
	"github.com/bookhive/api/internal/infrastructure/queue"
	"github.com/bookhive/api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Close()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// stores holds the open connections for the lifetime of the server.
type stores struct {
	sql         *gorm.DB
	mongoClient *mongodriver.Client
	mongo       *mongodriver.Database
	redis       *redis.Client
}

func connectStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		_ = sqldb.Close(db)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(ctx)
		_ = sqldb.Close(db)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &stores{sql: db, mongoClient: client, mongo: mdb, redis: rdb}, nil
}

func (s *stores) close(ctx context.Context, log zerolog.Logger) {
	if err := s.redis.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close failed")
	}
	if err := s.mongoClient.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect failed")
	}
	if err := sqldb.Close(s.sql); err != nil {
		log.Warn().Err(err).Msg("database close failed")
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := connectStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.Background(), log)

	// --- Repositories ---
	users := sqldb.NewUserRepository(st.sql)
	authors := sqldb.NewAuthorRepository(st.sql)
	books := sqldb.NewBookRepository(st.sql)
	libraries := sqldb.NewLibraryRepository(st.sql)
	posts := sqldb.NewPostRepository(st.sql)
	comments := sqldb.NewCommentRepository(st.sql)
	likes := sqldb.NewLikeRepository(st.sql)

	notificationRepo := mongo.NewNotificationRepository(st.mongo)
	if err := notificationRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	denylist := redisdb.NewTokenDenylist(st.redis)
	dedup := redisdb.NewNotificationDedup(st.redis, redisdb.DefaultDedupTTL)

	// --- Notifications: workers must exist before producers are built ---
	notifications := service.NewNotificationService(notificationRepo, users, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.API.NotifyWorkers, notifications, log)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	// --- Services ---
	svc := api.Services{
		Auth:          service.NewAuthService(users, denylist, cfg.Secret(), cfg.TokenTTL, log),
		Accounts:      service.NewAccountService(users, dispatcher, log),
		Catalog:       service.NewCatalogService(authors, books, log),
		Library:       service.NewLibraryService(libraries, books, log),
		Blog:          service.NewBlogService(posts, comments, dispatcher, log),
		Social:        service.NewSocialService(users, posts, likes, dispatcher, log),
		Notifications: notifications,
		HealthChecks: map[string]handler.DependencyCheck{
			"database": func(ctx context.Context) error { return sqldb.Ping(ctx, st.sql) },
			"mongodb":  func(ctx context.Context) error { return mongo.Ping(ctx, st.mongoClient) },
			"redis":    func(ctx context.Context) error { return redisdb.Ping(ctx, st.redis) },
		},
	}

	e := api.NewRouter(svc, api.Options{
		Paging: handler.Paging{DefaultSize: cfg.API.PageSize, MaxSize: cfg.API.MaxPageSize},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Drain queued notifications before the stores close.
	dispatcher.Close()
	log.Info().Msg("server stopped")
	return nil
}
