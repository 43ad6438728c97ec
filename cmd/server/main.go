package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/heartlinkapp/heartlink/internal/cache"
	"github.com/heartlinkapp/heartlink/internal/config"
	"github.com/heartlinkapp/heartlink/internal/events"
	"github.com/heartlinkapp/heartlink/internal/handlers"
	"github.com/heartlinkapp/heartlink/internal/logger"
	"github.com/heartlinkapp/heartlink/internal/media"
	"github.com/heartlinkapp/heartlink/internal/middleware"
	"github.com/heartlinkapp/heartlink/internal/repository"
	"github.com/heartlinkapp/heartlink/internal/routes"
	"github.com/heartlinkapp/heartlink/internal/server"
	"github.com/heartlinkapp/heartlink/internal/service"
	"github.com/heartlinkapp/heartlink/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Development())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	mc, err := repository.NewMongoClient(context.Background(), cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.Database)

	// Redis is optional; without it presence and rate limiting are disabled.
	var rdb *redis.Client
	var presence *cache.Presence
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		presence = cache.NewPresence(rdb, "heartlink")
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Brokers, zlog)
	}
	defer func() { _ = pub.Close() }()

	uploads, err := media.NewStore(cfg.Uploads.Dir)
	if err != nil {
		zlog.Fatalw("uploads dir", "err", err)
	}

	userRepo := repository.NewMongoUserRepo(db, "users")
	chatRepo := repository.NewMongoChatRepo(db, "chats")

	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.TokenTTL(), zlog)
	profileSvc := service.NewProfileService(userRepo)
	matchSvc := service.NewMatchService(userRepo, chatRepo, pub, zlog)

	var presenceChecker service.PresenceChecker
	var presenceTracker ws.PresenceTracker
	if presence != nil {
		presenceChecker = presence
		presenceTracker = presence
	}
	chatSvc := service.NewChatService(chatRepo, userRepo, presenceChecker, pub, zlog)

	hub := ws.NewHub()
	wsHandler := ws.NewHandler(hub, authSvc, chatSvc, presenceTracker, zlog)

	dev := cfg.App.Development()
	app := server.New(cfg, routes.Deps{
		Auth:     handlers.NewAuthHandler(authSvc, zlog, dev),
		Users:    handlers.NewUserHandler(profileSvc, matchSvc, uploads, zlog, dev),
		Chats:    handlers.NewChatHandler(chatSvc, zlog, dev),
		WS:       wsHandler,
		Verifier: authSvc,
		Limiter:  middleware.NewRateLimiter(rdb, "heartlink:rl", cfg.RateLimit.Limit, cfg.RateWindow()),
	})

	go func() {
		if err := app.Listen(":" + cfg.App.PortString()); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()
	zlog.Infow("heartlink started", "port", cfg.App.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	zlog.Info("heartlink stopped")
}
