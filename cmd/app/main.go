package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tiponx-backend/internal/chainsig"
	"tiponx-backend/internal/common/cache"
	"tiponx-backend/internal/common/clock"
	"tiponx-backend/internal/common/config"
	"tiponx-backend/internal/common/logger"
	"tiponx-backend/internal/common/middleware"
	commenthttp "tiponx-backend/internal/features/comment/delivery/http"
	commentrepo "tiponx-backend/internal/features/comment/repository"
	commentmemory "tiponx-backend/internal/features/comment/repository/memory"
	commentpostgres "tiponx-backend/internal/features/comment/repository/postgres"
	commentservice "tiponx-backend/internal/features/comment/service"
	creatorhttp "tiponx-backend/internal/features/creator/delivery/http"
	creatorrepo "tiponx-backend/internal/features/creator/repository"
	creatormemory "tiponx-backend/internal/features/creator/repository/memory"
	creatorpostgres "tiponx-backend/internal/features/creator/repository/postgres"
	creatorservice "tiponx-backend/internal/features/creator/service"
	pricehttp "tiponx-backend/internal/features/price/delivery/http"
	priceservice "tiponx-backend/internal/features/price/service"
	transactionhttp "tiponx-backend/internal/features/transaction/delivery/http"
	transactionrepo "tiponx-backend/internal/features/transaction/repository"
	transactionmemory "tiponx-backend/internal/features/transaction/repository/memory"
	transactionpostgres "tiponx-backend/internal/features/transaction/repository/postgres"
	transactionservice "tiponx-backend/internal/features/transaction/service"
	upvotehttp "tiponx-backend/internal/features/upvote/delivery/http"
	upvoterepo "tiponx-backend/internal/features/upvote/repository"
	upvotememory "tiponx-backend/internal/features/upvote/repository/memory"
	upvotepostgres "tiponx-backend/internal/features/upvote/repository/postgres"
	upvoteservice "tiponx-backend/internal/features/upvote/service"
	"tiponx-backend/internal/platform/coingecko"
	"tiponx-backend/internal/platform/db"
	"tiponx-backend/internal/platform/memstore"
	platformredis "tiponx-backend/internal/platform/redis"
	"tiponx-backend/internal/platform/twitter"
)

type repositories struct {
	creators     creatorrepo.CreatorRepository
	upvotes      upvoterepo.UpvoteRepository
	transactions transactionrepo.TransactionRepository
	comments     commentrepo.CommentRepository
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppName, cfg.Debug)

	log.Info().
		Bool("debug", cfg.Debug).
		Str("db_driver", cfg.Database.Driver).
		Msg("Starting TipOnX backend")

	ctx := context.Background()

	repos, closeStore, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer closeStore()

	appClock := clock.New()
	appCache := openCache(ctx, cfg, appClock)

	tweetFetcher := twitter.NewClient(cfg.Twitter.BaseURL, cfg.Twitter.BearerToken)
	priceSource := coingecko.NewClient(cfg.Prices.BaseURL)

	creatorSvc := creatorservice.NewCreatorService(repos.creators)
	claimSvc := creatorservice.NewClaimService(repos.creators)
	verificationSvc := creatorservice.NewVerificationService(
		repos.creators, tweetFetcher, appClock, clock.NewSleeper(), cfg.Twitter.MaxRetries)
	upvoteSvc := upvoteservice.NewUpvoteService(repos.upvotes, chainsig.Verify, cfg.AppName)
	priceSvc := priceservice.NewPriceService(
		priceSource, appCache, time.Duration(cfg.Prices.CacheTTLSec)*time.Second)
	transactionSvc := transactionservice.NewTransactionService(repos.transactions, repos.creators, priceSvc)
	commentSvc := commentservice.NewCommentService(repos.comments)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	creatorhttp.NewCreatorHandler(creatorSvc, claimSvc, verificationSvc).RegisterRoutes(v1)
	upvotehttp.NewUpvoteHandler(upvoteSvc).RegisterRoutes(v1)
	transactionhttp.NewTransactionHandler(transactionSvc).RegisterRoutes(v1)
	commenthttp.NewCommentHandler(commentSvc).RegisterRoutes(v1)
	pricehttp.NewPriceHandler(priceSvc).RegisterRoutes(v1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openRepositories wires the configured storage backend. The driver choice is
// explicit; a broken Postgres connection fails startup rather than silently
// degrading to the in-memory store.
func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		conn, err := db.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx, conn); err != nil {
				_ = conn.Close()
				return nil, nil, err
			}
		}
		log.Info().Msg("PostgreSQL storage initialized")
		return &repositories{
			creators:     creatorpostgres.NewPostgresRepository(conn),
			upvotes:      upvotepostgres.NewPostgresRepository(conn),
			transactions: transactionpostgres.NewPostgresRepository(conn),
			comments:     commentpostgres.NewPostgresRepository(conn),
		}, func() { _ = conn.Close() }, nil

	case config.DriverMemory:
		store := memstore.New()
		log.Info().Msg("In-memory storage initialized")
		return &repositories{
			creators:     creatormemory.NewMemoryRepository(store),
			upvotes:      upvotememory.NewMemoryRepository(store),
			transactions: transactionmemory.NewMemoryRepository(store),
			comments:     commentmemory.NewMemoryRepository(store),
		}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}
}

// openCache prefers Redis when configured and falls back to the in-process
// cache otherwise. The cache holds only short-lived price data, so running
// without Redis is fine for a single instance.
func openCache(ctx context.Context, cfg *config.Config, clk clock.Clock) cache.Cache {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("Using in-process cache")
		return cache.NewMemory(clk)
	}
	client, err := platformredis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis cache initialized")
	return cache.NewRedis(client)
}
