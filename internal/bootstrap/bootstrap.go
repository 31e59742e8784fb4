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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusbuzz/backend/docs" // Import generated swagger docs
	appControllers "github.com/campusbuzz/backend/internal/app/controllers"
	appMigrations "github.com/campusbuzz/backend/internal/app/migrations"
	appRepos "github.com/campusbuzz/backend/internal/app/repositories"
	appRoutes "github.com/campusbuzz/backend/internal/app/routes"
	appServices "github.com/campusbuzz/backend/internal/app/services"
	"github.com/campusbuzz/backend/internal/config"
	"github.com/campusbuzz/backend/internal/db"
	appMiddleware "github.com/campusbuzz/backend/internal/middleware"
	pkgAuth "github.com/campusbuzz/backend/internal/pkg/auth"
	"github.com/campusbuzz/backend/internal/pkg/email"
	"github.com/campusbuzz/backend/internal/pkg/filestorage"
	"github.com/campusbuzz/backend/internal/pkg/helpers"
	"github.com/campusbuzz/backend/internal/pkg/logger"
	"github.com/campusbuzz/backend/internal/pkg/websocket"
	"github.com/campusbuzz/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	UserService       appServices.UserService
	ConnectionService appServices.ConnectionService
	MessageService    appServices.MessageService
	PostService       appServices.PostService
	CampusService     appServices.CampusService
	AdminService      appServices.AdminService

	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	ConnectionController *appControllers.ConnectionController
	MessageController    *appControllers.MessageController
	PostController       *appControllers.PostController
	CampusController     *appControllers.CampusController
	AdminController      *appControllers.AdminController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	EmailService   email.EmailService
	FileStorage    *filestorage.LocalStorage

	Hub        *websocket.Hub
	Dispatcher *websocket.Dispatcher
	WSHandler  *websocket.Handler

	Logger zerolog.Logger
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

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Configure baseURL to match the static file serving endpoint
	var err error
	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	fileStorageBaseURL := baseURL + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	// Services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		deps.EmailService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Repos.FollowRepository, deps.FileStorage, lgr)
	deps.ConnectionService = appServices.NewConnectionService(deps.Repos.ConnectionRepository, deps.Repos.UserRepository, deps.EmailService, lgr)
	deps.MessageService = appServices.NewMessageService(
		deps.Repos.MessageRepository,
		deps.Repos.ConnectionRepository,
		deps.Repos.PostRepository,
		deps.Repos.UserRepository,
		deps.FileStorage,
		lgr,
	)
	deps.PostService = appServices.NewPostService(deps.Repos.PostRepository, deps.FileStorage, lgr)
	deps.CampusService = appServices.NewCampusService(
		deps.Repos.EventRepository,
		deps.Repos.ActivityRepository,
		deps.Repos.NoticeRepository,
		deps.Repos.PlacementRepository,
		deps.Repos.LostFoundRepository,
		deps.Repos.UserRepository,
		deps.FileStorage,
		deps.EmailService,
		lgr,
	)
	deps.AdminService = appServices.NewAdminService(deps.Repos.UserRepository, deps.Repos.TokenRepository, lgr)

	// Realtime messaging hub
	deps.Hub = websocket.NewHub(lgr)
	deps.Hub.OnConnect = appMiddleware.WebsocketOpened
	deps.Hub.OnDisconnect = appMiddleware.WebsocketClosed
	deps.Dispatcher = websocket.NewDispatcher(deps.Hub, deps.MessageService, lgr)
	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.Dispatcher, lgr)
	go deps.Hub.Run()

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.JWT.CookieName)

	// Controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.ConnectionController = appControllers.NewConnectionController(deps.ConnectionService)
	deps.MessageController = appControllers.NewMessageController(deps.MessageService, deps.Hub)
	deps.PostController = appControllers.NewPostController(deps.PostService)
	deps.CampusController = appControllers.NewCampusController(deps.CampusService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService)

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

	router := gin.Default()

	router.Use(appMiddleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(appMiddleware.Metrics())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ConnectionController,
		deps.MessageController,
		deps.PostController,
		deps.CampusController,
		deps.AdminController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
