package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/omnibuslines/booking/internal/adapters/rabbit"
	redisadapter "github.com/omnibuslines/booking/internal/adapters/redis"
	"github.com/omnibuslines/booking/internal/admin"
	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/omnibuslines/booking/internal/config"
	"github.com/omnibuslines/booking/internal/events"
	"github.com/omnibuslines/booking/internal/flow"
	httphandler "github.com/omnibuslines/booking/internal/http"
	"github.com/omnibuslines/booking/internal/idempotency"
	"github.com/omnibuslines/booking/internal/insight"
	"github.com/omnibuslines/booking/internal/observability"
	"github.com/omnibuslines/booking/internal/rateLimit"
	"github.com/omnibuslines/booking/internal/store"
	"github.com/omnibuslines/booking/internal/ticket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()
	observability.InitMetrics()

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	blob := redisadapter.NewBlob(redisClient)
	redisCache := redisadapter.NewCache(redisClient)
	redisIdemp := redisadapter.NewIdempotency(redisClient)
	idemp := idempotency.NewIdempotency(redisIdemp, time.Hour)
	rl := rateLimit.NewRateLimiter(redisCache)

	cat := catalog.New()

	bookingStore := store.New(blob, logger)
	bookingStore.Load(context.Background())

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer rabbitConn.Close()
		rabbitPub, err := rabbit.NewPublisher(rabbitConn)
		if err != nil {
			log.Fatalf("failed to create publisher: %v", err)
		}
		publisher = events.NewRabbitPublisher(rabbitPub, logger)
	}

	var provider insight.Provider = insight.Disabled{}
	if cfg.InsightAPIKey != "" {
		gemini := insight.NewGeminiProvider(cfg.InsightAPIKey, cfg.InsightModel, logger)
		provider = insight.NewCachedProvider(gemini, redisCache, time.Hour, logger)

		// Warm the city cache so the first search renders instantly.
		go func() {
			g, gctx := errgroup.WithContext(context.Background())
			for _, city := range cat.Cities() {
				city := city
				g.Go(func() error {
					provider.Insight(gctx, city)
					return nil
				})
			}
			g.Wait()
		}()
	}

	flows := flow.NewManager(cat, bookingStore, publisher, provider, cfg.InsightDebounce, cfg.PaymentDelay)
	tickets := ticket.NewService(bookingStore, cat)
	adminConsole := admin.NewConsole(bookingStore, cat, publisher)

	handlers := httphandler.NewHandlers(cfg, cat, flows, tickets, adminConsole, provider, idemp, logger)
	r := httphandler.SetupRouter(handlers, logger, rl, idemp)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
