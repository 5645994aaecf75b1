package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/theline-social/theline/config"
	"github.com/theline-social/theline/internal/api"
	"github.com/theline-social/theline/internal/api/handler"
	"github.com/theline-social/theline/internal/realtime"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/internal/service"
	"github.com/theline-social/theline/pkg/database"
	"github.com/theline-social/theline/pkg/logger"
	"github.com/theline-social/theline/pkg/media"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.Server.Mode)
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, trending cache degraded", zap.Error(err))
	}

	storage, err := media.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("media storage init failed", zap.Error(err))
	}

	hub := realtime.NewHub()

	users := repository.NewUserRepository(db)
	rel := repository.NewRelationshipRepository(db)
	engage := repository.NewEngagementRepository(db)
	tweets := repository.NewTweetRepository(db)
	reels := repository.NewReelRepository(db)
	polls := repository.NewPollRepository(db)
	tags := repository.NewTagRepository(db)
	topics := repository.NewTopicRepository(db)
	notifs := repository.NewNotificationRepository(db)
	chats := repository.NewChatRepository(db)
	jobs := repository.NewJobRepository(db)
	subs := repository.NewSubscriptionRepository(db)

	loader := service.NewProjectionLoader(users, rel, engage, tweets, reels, polls)

	notifier := service.NewNotificationService(notifs, users, hub,
		cfg.Notifications.QueueSize, cfg.Notifications.RetentionDays)
	stopNotifier := notifier.Start(4)

	h := &handler.Handler{
		Users:         service.NewUserService(users, rel, loader, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Relationships: service.NewRelationshipService(users, rel, notifier),
		Engagement:    service.NewEngagementService(engage, tweets, reels, polls, loader, notifier),
		Tweets:        service.NewTweetService(tweets, users, loader, storage, notifier),
		Reels:         service.NewReelService(reels, users, loader, storage, notifier),
		Feed:          service.NewFeedService(users, rel, tweets, reels, loader),
		Tags:          service.NewTagService(tags, rdb, cfg.Trending.TTL),
		Topics:        service.NewTopicService(topics),
		Notifications: notifier,
		Chat:          service.NewChatService(chats, users, rel, hub, notifier),
		Jobs:          service.NewJobService(jobs),
		Subscriptions: service.NewSubscriptionService(subs, users),
		Hub:           hub,
		Storage:       storage,
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(cfg, h),
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := stopNotifier(ctx); err != nil {
		logger.Error("notifier stop failed", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("redis close failed", zap.Error(err))
	}
}
