package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formapro_backend/internal/config"
	"formapro_backend/internal/controller"
	"formapro_backend/internal/repository"
	"formapro_backend/internal/service"
	"formapro_backend/pkg/database"
	"formapro_backend/pkg/logger"
	"formapro_backend/pkg/monitoring"
	"formapro_backend/pkg/security"
	"formapro_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Bus    *service.Bus
}

type repositories struct {
	user        *repository.UserRepository
	formation   *repository.FormationRepository
	module      *repository.ModuleRepository
	quiz        *repository.QuizRepository
	enrollment  *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	attempt     *repository.AttemptRepository
	certificate *repository.CertificateRepository
	badge       *repository.BadgeRepository
	tx          *repository.TxRunner
}

type services struct {
	auth        *service.AuthService
	catalog     *service.CatalogService
	admin       *service.AdminCatalogService
	enrollment  *service.EnrollmentService
	progress    *service.ProgressService
	quiz        *service.QuizService
	certificate *service.CertificateService
	badge       *service.BadgeService
}

type controllers struct {
	auth        *controller.AuthController
	catalog     *controller.CatalogController
	admin       *controller.AdminCatalogController
	enrollment  *controller.EnrollmentController
	progress    *controller.ProgressController
	quiz        *controller.QuizController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		formation:   repository.NewFormationRepository(db),
		module:      repository.NewModuleRepository(db),
		quiz:        repository.NewQuizRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		progress:    repository.NewProgressRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		certificate: repository.NewCertificateRepository(db),
		badge:       repository.NewBadgeRepository(db),
		tx:          repository.NewTxRunner(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, bus *service.Bus) (*services, error) {
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := &services{}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.catalog = service.NewCatalogService(repos.formation, rdb, time.Duration(cfg.Catalog.CacheTTLMinutes)*time.Minute)
	s.admin = service.NewAdminCatalogService(repos.formation, repos.module, repos.quiz, s.catalog)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.progress, repos.formation, repos.module, repos.tx, bus)
	s.progress = service.NewProgressService(repos.enrollment, repos.progress, repos.module, repos.attempt, s.enrollment, repos.tx)
	s.quiz = service.NewQuizService(repos.enrollment, repos.module, repos.quiz, repos.attempt, s.progress, s.enrollment, repos.tx, bus)
	s.certificate = service.NewCertificateService(repos.certificate, repos.enrollment, repos.formation, repos.user, storage, cfg.Certificates.Issuer)
	s.badge = service.NewBadgeService(repos.badge, repos.enrollment)

	// Event consumers. Handlers run on their own goroutines; the completion
	// counter rides on the same event the certificate issuer consumes.
	bus.SubscribeFormationCompleted(func(evt service.FormationCompletedEvent) {
		monitoring.EnrollmentCompletions.Inc()
	})
	bus.SubscribeFormationCompleted(s.certificate.HandleFormationCompleted)
	bus.SubscribeFormationCompleted(s.badge.HandleFormationCompleted)
	bus.SubscribeQuizPassed(s.badge.HandleQuizPassed)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		catalog:     controller.NewCatalogController(s.catalog),
		admin:       controller.NewAdminCatalogController(s.admin),
		enrollment:  controller.NewEnrollmentController(s.enrollment),
		progress:    controller.NewProgressController(s.progress),
		quiz:        controller.NewQuizController(s.quiz),
		certificate: controller.NewCertificateController(s.certificate, s.badge),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The catalog cache degrades to direct reads; only log.
		logger.Log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	bus := service.NewBus()

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Bus:    bus,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb, bus)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("formapro-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/static", cfg.Storage.LocalPath)
	}

	return app
}

// ReloadConfig applies a freshly loaded config file. Middleware and
// services hold the original pointer, so copying the values in place
// propagates everywhere without a restart. Runtime flags survive.
func (a *App) ReloadConfig(cfg *config.Config) {
	cfg.ForceMigrate = a.Config.ForceMigrate
	cfg.MigrateOnly = a.Config.MigrateOnly
	*a.Config = *cfg
	logger.Log.Info("Configuration reloaded")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
