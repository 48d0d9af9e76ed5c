package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthmed-scheduler/config"
	deliveryHttp "healthmed-scheduler/internal/delivery/http"
	"healthmed-scheduler/internal/delivery/http/handler"
	"healthmed-scheduler/internal/delivery/http/middleware"
	"healthmed-scheduler/internal/domain/entity"
	domainMessaging "healthmed-scheduler/internal/domain/messaging"
	"healthmed-scheduler/internal/infrastructure/cache"
	"healthmed-scheduler/internal/infrastructure/database"
	"healthmed-scheduler/internal/infrastructure/messaging"
	"healthmed-scheduler/internal/infrastructure/telemetry"
	"healthmed-scheduler/internal/repository"
	"healthmed-scheduler/internal/service"
	"healthmed-scheduler/internal/usecase"
	"healthmed-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   domainMessaging.Publisher
	Server      *http.Server

	shutdownTracer func(context.Context) error
	stopBackground context.CancelFunc
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize tracing
	shutdownTracer, err := telemetry.Setup(context.Background(), cfg.App.Name, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTracer = shutdownTracer

	// Initialize database
	if cfg.DB.RunMigrations {
		if err := database.RunMigrations(database.MigrationURL(cfg.DB), log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize message bus
	publisher, err := newPublisher(cfg.Messaging, redisClient, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize publisher: %w", err)
	}
	app.Publisher = publisher

	// Initialize all layers
	server, err := app.initializeServer(cfg, db, redisClient, publisher, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func newPublisher(cfg config.MessagingConfig, redisClient *redis.Client, log *logrus.Logger) (domainMessaging.Publisher, error) {
	switch cfg.Driver {
	case config.MessagingDriverRedis:
		log.Info("Publishing appointment events to Redis Streams")
		return messaging.NewRedisStreamPublisher(redisClient, messaging.RedisStreamPublisherConfig{
			NotificationStream: cfg.NotificationTopic,
			EditedStream:       cfg.EditedTopic,
			MaxLen:             cfg.StreamMaxLen,
		}, log), nil
	default:
		return messaging.NewKafkaPublisher(messaging.KafkaPublisherConfig{
			Brokers:           cfg.Brokers,
			NotificationTopic: cfg.NotificationTopic,
			EditedTopic:       cfg.EditedTopic,
		}, log)
	}
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	publisher domainMessaging.Publisher,
	log *logrus.Logger,
) (*http.Server, error) {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	userLookup := service.NewUserLookupService(userRepo, redisClient, log, cfg.Redis.UserTTL)

	location, err := notificationLocation(cfg.Notification.Timezone)
	if err != nil {
		return nil, err
	}
	renderer := service.NewNotificationRenderer(entity.NotificationTemplate{
		Subject: cfg.Notification.Subject,
		Body:    cfg.Notification.Body,
	}, location)

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, userLookup, publisher, renderer, cfg.App.OperationTimeout)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator, log)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)

	bgCtx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel
	rateLimitMiddleware.StartCleanup(bgCtx, time.Minute, 3*time.Minute)

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, corsMiddleware, loggingMiddleware, rateLimitMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// notificationLocation resolves NOTIFICATION_TIMEZONE. An empty value returns
// nil so that dates are rendered in the zone of the appointment start.
func notificationLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_TIMEZONE %q: %w", tz, err)
	}
	return loc, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Flush pending spans
	if app.shutdownTracer != nil {
		if err := app.shutdownTracer(ctx); err != nil {
			app.Log.Warnf("Failed to shutdown tracer provider: %v", err)
		}
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (publisher, database, redis)
func (app *App) Close() {
	if app.stopBackground != nil {
		app.stopBackground()
	}

	// Close publisher before redis, the stream publisher shares the client
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close publisher: %v", err)
		}
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
