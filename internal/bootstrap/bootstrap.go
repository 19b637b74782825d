package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/circularis/backend/internal/app/controllers"
	appMigrations "github.com/circularis/backend/internal/app/migrations"
	appRepos "github.com/circularis/backend/internal/app/repositories"
	appRoutes "github.com/circularis/backend/internal/app/routes"
	appServices "github.com/circularis/backend/internal/app/services"
	"github.com/circularis/backend/internal/config"
	"github.com/circularis/backend/internal/db"
	appMiddleware "github.com/circularis/backend/internal/middleware"
	pkgAuth "github.com/circularis/backend/internal/pkg/auth"
	"github.com/circularis/backend/internal/pkg/helpers"
	"github.com/circularis/backend/internal/pkg/logger"
	"github.com/circularis/backend/internal/pkg/metrics"
	pkgWebsocket "github.com/circularis/backend/internal/pkg/websocket"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService              appServices.AuthService
	UserService              appServices.UserService
	MaterialService          appServices.MaterialService
	TradeService             appServices.TradeService
	ChatService              appServices.ChatService
	MessageService           appServices.MessageService
	NotificationService      appServices.NotificationService
	ReportService            appServices.ReportService
	RecommendationService    appServices.RecommendationService
	AuthController           *appControllers.AuthController
	UserController           *appControllers.UserController
	MaterialController       *appControllers.MaterialController
	TradeController          *appControllers.TradeController
	ChatController           *appControllers.ChatController
	MessageController        *appControllers.MessageController
	NotificationController   *appControllers.NotificationController
	ReportController         *appControllers.ReportController
	RecommendationController *appControllers.RecommendationController
	AuthMiddleware           *appMiddleware.AuthMiddleware
	Repos                    *appRepos.Repositories
	JWTService               *pkgAuth.JWTService
	Hub                      *pkgWebsocket.Hub
	WebsocketHandler         *pkgWebsocket.Handler
	Logger                   zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// realtime hub, and wires them together.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Hub = pkgWebsocket.NewHub(lgr)
	deps.WebsocketHandler = pkgWebsocket.NewHandler(deps.Hub, deps.JWTService, lgr)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.MaterialService = appServices.NewMaterialService(
		deps.Repos.MaterialRepository,
		deps.Repos.UserRepository,
		deps.Repos.TradeRepository,
		lgr,
	)
	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.UserRepository,
		deps.Hub,
		lgr,
	)
	deps.TradeService = appServices.NewTradeService(
		deps.Repos.TradeRepository,
		deps.Repos.MaterialRepository,
		deps.NotificationService,
		lgr,
	)
	deps.ChatService = appServices.NewChatService(deps.Repos.ChatRepository, deps.Repos.UserRepository, lgr)
	deps.MessageService = appServices.NewMessageService(deps.Repos.MessageRepository, deps.Repos.ChatRepository, lgr)
	deps.ReportService = appServices.NewReportService(
		deps.Repos.ReportRepository,
		deps.Repos.UserRepository,
		deps.Repos.MaterialRepository,
		lgr,
	)
	deps.RecommendationService = appServices.NewRecommendationService(
		deps.Repos.RecommendationRepository,
		deps.Repos.UserRepository,
		deps.Repos.MaterialRepository,
		lgr,
	)

	// Messages sent over the socket go through the same service as HTTP ones
	deps.Hub.SetMessageSender(deps.MessageService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.MaterialController = appControllers.NewMaterialController(deps.MaterialService)
	deps.TradeController = appControllers.NewTradeController(deps.TradeService)
	deps.ChatController = appControllers.NewChatController(deps.ChatService)
	deps.MessageController = appControllers.NewMessageController(deps.MessageService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)
	deps.RecommendationController = appControllers.NewRecommendationController(deps.RecommendationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	metrics.MustRegister()

	router := gin.Default()
	router.Use(appMiddleware.CORS())
	router.Use(metrics.GinMiddleware())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.MaterialController,
		deps.TradeController,
		deps.ChatController,
		deps.MessageController,
		deps.NotificationController,
		deps.ReportController,
		deps.RecommendationController,
		deps.AuthMiddleware,
	)

	// Realtime gateway; the handler authenticates before upgrading
	router.GET("/ws", deps.WebsocketHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Hub event loop lives for the whole process
	go deps.Hub.Run()

	return router
}
