package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_assistant/internal/cache"
	"github.com/GTDGit/catalog_assistant/internal/config"
	"github.com/GTDGit/catalog_assistant/internal/database"
	"github.com/GTDGit/catalog_assistant/internal/handler"
	"github.com/GTDGit/catalog_assistant/internal/middleware"
	"github.com/GTDGit/catalog_assistant/internal/repository"
	"github.com/GTDGit/catalog_assistant/internal/service"
	"github.com/GTDGit/catalog_assistant/internal/session"
	"github.com/GTDGit/catalog_assistant/internal/source"
	"github.com/GTDGit/catalog_assistant/internal/sse"
	"github.com/GTDGit/catalog_assistant/internal/utils"
	"github.com/GTDGit/catalog_assistant/internal/worker"
)

// main is the application entrypoint for the catalog assistant API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog assistant")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect database (optional)
	var db *sqlx.DB
	if cfg.DB.Enabled() {
		db, err = database.Connect(&cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()

		if err := database.RunMigrations(db.DB, cfg.DB.Driver); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Str("driver", cfg.DB.Driver).Msg("migrations completed successfully")
	}

	// 4. Data providers
	catalogProvider, purchaseProvider, err := buildProviders(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure data providers")
	}

	// 5. Session store: Redis when configured, memory otherwise
	var (
		store       session.Store
		memoryStore *session.MemoryStore
		redisPinger handler.Pinger
	)
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
		store = cache.NewSessionCache(redisClient, cfg.Session.TTL)
		redisPinger = redisClient
	} else {
		memoryStore = session.NewMemoryStore(cfg.Session.TTL)
		store = memoryStore
		log.Info().Msg("using in-memory session store")
	}

	// 6. Services
	hub := sse.NewHub()
	assistantSvc := service.NewAssistantService(
		catalogProvider,
		purchaseProvider,
		store,
		sse.NewHubNotifier(hub),
		cfg.Data.TrendingLimit,
	)
	if _, err := assistantSvc.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial dataset load failed")
	}

	signer := utils.NewTokenSigner(cfg.JWTSecret, cfg.Session.TTL)

	// 7. Handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(assistantSvc, redisPinger),
		Catalog: handler.NewCatalogHandler(assistantSvc),
		Session: handler.NewSessionHandler(assistantSvc, signer),
		SSE:     handler.NewSSEHandler(hub),
	}

	// 8. Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, middleware.NewSessionMiddleware(signer))

	// 9. Workers
	go worker.NewReloadWorker(assistantSvc, cfg.Worker.ReloadInterval).Start(ctx)
	if memoryStore != nil {
		go worker.NewSessionSweepWorker(memoryStore, cfg.Worker.SessionSweepInterval).Start(ctx)
	}

	// 10. HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: servertiming.Middleware(router, nil),
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Catalog *handler.CatalogHandler
	Session *handler.SessionHandler
	SSE     *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMiddleware *middleware.SessionMiddleware) {
	v1 := router.Group("/v1")
	v1.GET("/health", handlers.Health.GetHealth)
	v1.GET("/trending", handlers.Catalog.GetTrending)
	v1.GET("/catalog/categories", handlers.Catalog.GetCategories)
	v1.GET("/catalog/products", handlers.Catalog.GetProducts)
	v1.POST("/sessions", handlers.Session.CreateSession)

	// Session routes (protected with session token)
	sess := v1.Group("/session")
	sess.Use(sessionMiddleware.Handle())
	{
		sess.GET("", handlers.Session.GetSession)
		sess.POST("/selection", handlers.Session.SelectCategory)
		sess.POST("/cart", handlers.Session.AddToCart)
		sess.GET("/cart", handlers.Session.GetCart)
		sess.POST("/order", handlers.Session.SubmitOrder)
		sess.GET("/events", handlers.SSE.Stream)
	}
}

// buildProviders resolves the catalog and purchase log sources. The S3
// client is created once and only when a source needs it.
func buildProviders(ctx context.Context, cfg *config.Config, db *sqlx.DB) (service.CatalogProvider, service.PurchaseLogProvider, error) {
	var s3Client source.ObjectGetter
	newS3 := func() (source.ObjectGetter, error) {
		if s3Client != nil {
			return s3Client, nil
		}
		client, err := source.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, err
		}
		s3Client = client
		return s3Client, nil
	}

	var (
		catalogProvider  service.CatalogProvider
		purchaseProvider service.PurchaseLogProvider
	)

	if cfg.Data.CatalogSource == "db" {
		catalogProvider = repository.NewProductRepository(db)
	} else {
		table, err := source.OpenTable(cfg.Data.CatalogSource, newS3)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog source: %w", err)
		}
		catalogProvider = table
	}

	if cfg.Data.PurchasesSource == "db" {
		purchaseProvider = repository.NewPurchaseRepository(db)
	} else {
		table, err := source.OpenTable(cfg.Data.PurchasesSource, newS3)
		if err != nil {
			return nil, nil, fmt.Errorf("purchases source: %w", err)
		}
		purchaseProvider = table
	}

	log.Info().
		Str("catalog", cfg.Data.CatalogSource).
		Str("purchases", cfg.Data.PurchasesSource).
		Msg("data providers configured")
	return catalogProvider, purchaseProvider, nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
