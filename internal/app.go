package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sheet-insights-api/config"
	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/application/services"
	"sheet-insights-api/internal/domain/insight"
	"sheet-insights-api/internal/infrastructure/blob"
	"sheet-insights-api/internal/infrastructure/cache"
	"sheet-insights-api/internal/infrastructure/db/postgres"
	"sheet-insights-api/internal/infrastructure/db/postgres/datarow"
	"sheet-insights-api/internal/infrastructure/db/postgres/file"
	"sheet-insights-api/internal/infrastructure/db/postgres/uow"
	"sheet-insights-api/internal/infrastructure/db/postgres/user"
	"sheet-insights-api/internal/infrastructure/jwt"
	"sheet-insights-api/internal/infrastructure/metrics"
	"sheet-insights-api/internal/infrastructure/mq"
	"sheet-insights-api/internal/infrastructure/sheet"
	"sheet-insights-api/internal/interface/api/rest"
	"sheet-insights-api/internal/interface/api/rest/middleware"
	"sheet-insights-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	blobs      ports.BlobStore
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mRows      prometheus.Histogram
	events     ports.EventPublisher
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer

	jwtService       *jwt.Service
	userService      ports.UserService
	authService      ports.Auth
	ingestionService ports.IngestionService
	fileService      ports.FileService
	insightService   ports.InsightService
	deletionService  ports.DeletionService
}

// NewApp builds the HTTP service together with its broker connections.
func NewApp(ctx context.Context) (*App, error) {
	a, err := bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	// router
	switch a.cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(a.logger, a.mCounter))
	r.MaxMultipartMemory = a.cfg.Upload.MaxBytes + 1<<20
	a.router = r

	// httpServer
	a.httpSrv = &http.Server{
		Addr:              ":" + a.cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// rabbitMQ
	if !a.cfg.MQEnabled() {
		a.logger.Info("RABBITMQ_HOST not set, events are disabled")
		a.initServices()
		return a, nil
	}

	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		a.logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		a.logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		a.logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	// rmqConsumer
	rmqConsumer := rmqconsumer.New(a.cfg.MQ, a.logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		a.logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		a.logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	a.mq = rbMQ
	a.events = rbMQ
	a.mqConsumer = rmqConsumer
	a.initServices()

	return a, nil
}

// NewCLIApp builds the services without HTTP or broker connections.
// Events raised by command line tools are logged and dropped.
func NewCLIApp(ctx context.Context) (*App, error) {
	a, err := bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	a.initServices()

	return a, nil
}

func bootstrap(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	if cfg.DB.MigrateOnStart {
		migrateDsn, _ := cfg.MigrateDSN()
		if err = postgres.Migrate(logger, migrateDsn); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// blob storage
	var blobs ports.BlobStore
	switch cfg.Storage.Backend {
	case config.StorageGCS:
		blobs, err = blob.NewGCSStore(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSCredentials)
	default:
		blobs, err = blob.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	}
	if err != nil {
		logger.Fatal("failed to init blob storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}

	return &App{
		logger:   logger,
		cfg:      cfg,
		db:       dbPool,
		blobs:    blobs,
		mCounter: metrics.NewCounter(),
		mRows:    metrics.NewIngestedRows(),
		events:   mq.NewNoop(logger),
	}, nil
}

func (a *App) initServices() {
	// repos
	userRepo := user.NewRepository(a.db)
	fileRepo := file.NewRepository(a.db)
	rowRepo := datarow.NewRepository(a.db)
	tx := uow.NewTransactor(a.db)

	mode, err := insight.ParseNumericMode(a.cfg.Insights.NumericMode)
	if err != nil {
		a.logger.Fatal("invalid numeric mode", zap.Error(err))
	}
	insightCache := cache.NewInsights(a.cfg.Insights.CacheSize, a.cfg.Insights.CacheTTL)

	a.jwtService = jwt.New(a.cfg.App.JWTSecret)
	a.authService = services.NewAuthService(a.jwtService)
	a.userService = services.NewUserService(userRepo, a.mCounter)
	a.ingestionService = services.NewIngestionService(sheet.NewParser(), a.blobs, tx, a.events, a.mCounter, a.mRows, a.logger)
	a.fileService = services.NewFileService(fileRepo, rowRepo, a.blobs, a.mCounter, a.logger)
	a.insightService = services.NewInsightService(fileRepo, rowRepo, insightCache, insight.NewAnalyzer(mode), a.cfg.Insights.SampleSize, a.logger)
	a.deletionService = services.NewDeletionService(userRepo, fileRepo, rowRepo, tx, a.blobs, insightCache, a.events, a.mCounter, a.logger)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if c, ok := a.blobs.(io.Closer); ok {
		_ = c.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	rest.NewAuthController(a.router, a.logger, a.userService, a.authService, a.deletionService, a.jwtService)
	rest.NewFileController(a.router, a.ingestionService, a.fileService, a.deletionService, a.cfg.Upload.MaxBytes, a.logger, a.jwtService)
	rest.NewDataController(a.router, a.fileService, a.logger, a.jwtService)
	rest.NewInsightController(a.router, a.insightService, a.logger, a.jwtService)
	rest.NewAccountController(a.router, a.deletionService, a.logger, a.jwtService)

	// stored uploads are public by key, as download urls handed out for the local backend point here
	if local, ok := a.blobs.(*blob.LocalStore); ok && strings.HasPrefix(a.cfg.Storage.PublicBaseURL, "/") {
		a.router.Static(a.cfg.Storage.PublicBaseURL, local.Root())
	}

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger                      { return a.logger }
func (a *App) UserService() ports.UserService           { return a.userService }
func (a *App) IngestionService() ports.IngestionService { return a.ingestionService }
