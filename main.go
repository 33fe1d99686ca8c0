package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"greendrake/realty/internal/api"
	"greendrake/realty/internal/api/handlers"
	"greendrake/realty/internal/api/middleware"
	"greendrake/realty/internal/cache"
	"greendrake/realty/internal/config"
	"greendrake/realty/internal/db"
	"greendrake/realty/internal/email"
	"greendrake/realty/internal/logging"
	"greendrake/realty/internal/notify"
	"greendrake/realty/internal/services"
	"greendrake/realty/internal/store"
	"greendrake/realty/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		// Logging is not configured yet; the default zerolog logger still writes to stderr.
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.AppName, cfg.AppEnv, cfg.LogLevel)

	mongoClient, mongoDb, err := db.ConnectDB(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()

	ctxIdx, cancelIdx := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctxIdx, mongoDb); err != nil {
		cancelIdx()
		log.Fatal().Err(err).Msg("failed to ensure MongoDB indexes")
	}
	cancelIdx()

	redisClient, err := cache.ConnectRedis(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Error().Err(err).Msg("error disconnecting from Redis")
		}
	}()

	emailSender := buildEmailSender(cfg, redisClient)

	// Stores and services
	users := store.NewUserStore(mongoDb)
	properties := store.NewPropertyStore(mongoDb)
	ratings := store.NewRatingStore(mongoDb)
	contactRequests := store.NewContactRequestStore(mongoDb)
	emailTemplateService := services.NewEmailTemplateService(store.NewEmailTemplateStore(mongoDb))
	accessService := services.NewAccessService(users)

	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()

	var notifier notify.Notifier
	if cfg.NotifyAsync {
		log.Info().Msg("operator notifications are queued for the background worker")
		notifier = notify.NewQueueNotifier(taskClient)
	} else {
		notifier = notify.NewEmailNotifier(emailSender)
	}
	if len(cfg.NotifyRecipients) == 0 {
		log.Warn().Msg("NOTIFY_RECIPIENTS is empty, contact requests will not notify anyone")
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Channel to signal shutdown from Service API
	shutdownChan := make(chan struct{}, 1)

	// Service API (always runs)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(cfg, redisClient, accessService, shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("port", cfg.ServiceApiPort).Msg("service API listening")
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("service API ListenAndServe error")
		}
		log.Info().Msg("service API server stopped")
	}()

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server

	log.Info().Str("mode", cfg.RunMode).Msg("starting application")

	apiMode := func() {
		var dashboardCache cache.JSONCache
		if cfg.DashboardCacheTTL > 0 {
			dashboardCache = cache.NewRedisJSONCache(redisClient, cfg.AppName+":")
		}
		rateLimiter := middleware.NewRateLimiterMiddleware(cfg.RateLimitRefillRate, cfg.RateLimitBucketSize)
		go rateLimiter.Cleanup(ctx, 10*time.Minute)

		router := api.SetupRouter(cfg, api.Services{
			Dashboard: services.NewDashboardService(properties, users, dashboardCache, cfg.DashboardCacheTTL),
			Contact: services.NewContactRequestService(users, properties, contactRequests, emailTemplateService, notifier,
				services.OperatorNotification{Recipients: cfg.NotifyRecipients, FromAddress: cfg.SmtpFromAddress}),
			Rating:     services.NewRatingService(users, ratings),
			RatingPage: services.NewRatingPageService(users, properties, ratings, accessService),
			Health: map[string]handlers.Pinger{
				"mongo": func(ctx context.Context) error { return pingMongo(ctx, mongoClient) },
				"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			},
		}, rateLimiter)

		mainApiSrv = &http.Server{
			Addr:              ":" + cfg.ApiPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("port", cfg.ApiPort).Msg("main API listening")
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("main API ListenAndServe error")
			}
			log.Info().Msg("main API server stopped")
		}()
	}

	bgMode := func() {
		processor := tasks.NewTaskProcessor(emailSender)
		srv, mux := tasks.SetupServer(redisClient, processor)
		if err := srv.Start(mux); err != nil {
			log.Fatal().Err(err).Msg("could not start background task server")
		}
		backgroundTaskSrv = srv
		log.Info().Msg("background task server started")
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatal().Str("mode", cfg.RunMode).Msg("invalid run mode")
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")
	case <-shutdownChan:
		log.Info().Msg("shutdown requested via service API")
	}
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("service API server shutdown error")
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("main API server shutdown error")
		}
	}
	if backgroundTaskSrv != nil {
		backgroundTaskSrv.Shutdown()
	}

	wg.Wait()
	log.Info().Msg("server gracefully stopped")
}

// buildEmailSender picks the primary sender and optionally tees every
// message into the LOG_EMAILS file.
func buildEmailSender(cfg *config.Config, redisClient *redis.Client) email.Sender {
	var primary email.Sender
	if cfg.MockServices {
		log.Info().Msg("MOCK_SERVICES enabled: using Redis email sender")
		primary = email.NewRedisSender(redisClient, cfg.SmtpFromAddress)
	} else if cfg.SmtpHost == "" {
		log.Warn().Msg("SMTP_HOST is not set: emails will only be logged")
		primary = email.NewLoggingSender(cfg.SmtpFromAddress)
	} else {
		primary = email.NewSMTPSender(cfg)
	}

	composite := email.NewCompositeEmailSender(primary)
	if cfg.LogEmailsPath != "" {
		fileSender, err := email.NewFileEmailSender(cfg.LogEmailsPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.LogEmailsPath).Msg("failed to initialize file email sender, continuing without it")
		} else {
			composite.AddSender(fileSender)
			log.Info().Str("path", cfg.LogEmailsPath).Msg("file email logger enabled")
		}
	}
	return composite
}

func pingMongo(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
