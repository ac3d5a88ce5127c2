package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httptransport "github.com/aryansharma1305/road-eye-anomaly-detect/internal/api/http"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/api/http/handlers"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/cache"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/events"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/observability"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/persistence"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository/memory"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/service"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/storage"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/validation"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/worker"
)

type repositories struct {
	accounts  repository.AccountRepository
	profiles  repository.ProfileRepository
	registrar repository.UserRegistrar
	reports   repository.ReportRepository
	history   repository.ReportHistoryRepository
	media     repository.MediaRepository
}

func newRepositories(pool *pgxpool.Pool) repositories {
	if pool == nil {
		accounts := memory.NewAccountRepository()
		profiles := memory.NewProfileRepository()
		history := memory.NewReportHistoryRepository()
		return repositories{
			accounts:  accounts,
			profiles:  profiles,
			registrar: memory.NewUserRegistrar(accounts, profiles),
			reports:   memory.NewReportRepository(profiles, history),
			history:   history,
			media:     memory.NewMediaRepository(),
		}
	}
	return repositories{
		accounts:  repository.NewAccountRepository(pool),
		profiles:  repository.NewProfileRepository(pool),
		registrar: repository.NewUserRegistrar(pool),
		reports:   repository.NewReportRepository(pool),
		history:   repository.NewReportHistoryRepository(pool),
		media:     repository.NewMediaRepository(pool),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	sentryEnabled, flushSentry := observability.InitSentry(cfg.Sentry, cfg.App, logger)
	defer flushSentry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := newRepositories(pg.PoolHandle())

	var detectionCache cache.DetectionCache = cache.NewMemoryCache(cfg.Detection.CacheTTL())
	if redis.Enabled() {
		detectionCache = cache.NewRedisCache(redis.Client, cfg.Detection.CacheTTL())
	}

	dependencies := map[string]handlers.Dependency{
		"postgres": pg,
		"redis":    redis,
	}

	var store storage.Store
	routeCfg := httptransport.RouteConfig{
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		AuthRateWindow: cfg.HTTP.AuthRateWindow(),
	}
	if cfg.Media.CloudinaryEnabled() {
		cloudStore, err := storage.NewCloudinaryStore(cfg.Media)
		if err != nil {
			logger.Fatal("failed to init cloudinary", zap.Error(err))
		}
		store = cloudStore
		dependencies["cloudinary"] = cloudStore
	} else {
		localStore, err := storage.NewLocalStore(cfg.Media.LocalDir, cfg.Media.PublicPath)
		if err != nil {
			logger.Fatal("failed to init media directory", zap.Error(err))
		}
		store = localStore
		routeCfg.MediaDir = localStore.Dir()
		routeCfg.MediaPublicPath = localStore.PublicPath()
	}
	logger.Info("media store ready", zap.String("store", store.Name()))

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	validator := validation.New()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AccountRepo: repos.accounts,
		ProfileRepo: repos.profiles,
		Registrar:   repos.registrar,
		Logger:      logger,
	})
	if cfg.Admin.Enabled() {
		if err := authService.BootstrapAdmin(ctx, cfg.Admin); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}

	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  repos.reports,
		HistoryRepo: repos.history,
		MediaRepo:   repos.media,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		ProfileRepo: repos.profiles,
		AccountRepo: repos.accounts,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	mediaService := service.NewMediaService(service.MediaDependencies{
		MediaRepo: repos.media,
		Store:     store,
		MaxBytes:  cfg.Media.MaxUploadBytes,
		Logger:    logger,
	})
	detectionService := service.NewDetectionService(service.DetectionDependencies{
		MediaRepo: repos.media,
		Detector:  service.MockDetector{},
		Cache:     detectionCache,
		Logger:    logger,
	})

	notificationService := service.NewNotificationService(dispatcher, nil, logger)
	notificationWorker := worker.NewNotificationWorker(notificationService, cfg.RabbitMQ, nil, logger)
	notificationWorker.Start(ctx)
	defer func() {
		if err := notificationWorker.Stop(); err != nil {
			logger.Warn("close notification broker", zap.Error(err))
		}
	}()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.accounts, repos.profiles)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:        logger,
		Metrics:       metrics,
		Timeout:       cfg.App.RequestTimeout(),
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		SentryEnabled: sentryEnabled,
	})

	routeCfg.Health = handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies)
	routeCfg.Auth = handlers.NewAuthHandler(authService, validator)
	routeCfg.Reports = handlers.NewReportsHandler(reportService, validator)
	routeCfg.Media = handlers.NewMediaHandler(mediaService, detectionService, validator)
	routeCfg.Admin = handlers.NewAdminHandler(userService, metrics, validator)
	routeCfg.AuthMiddleware = authMiddleware
	httptransport.RegisterRoutes(app, routeCfg)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
