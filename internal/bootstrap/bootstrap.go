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

	appAuth "github.com/yigit/devcamper/internal/app/auth"
	appControllers "github.com/yigit/devcamper/internal/app/controllers"
	appMigrations "github.com/yigit/devcamper/internal/app/migrations"
	appRepos "github.com/yigit/devcamper/internal/app/repositories"
	appRoutes "github.com/yigit/devcamper/internal/app/routes"
	appServices "github.com/yigit/devcamper/internal/app/services"
	"github.com/yigit/devcamper/internal/config"
	"github.com/yigit/devcamper/internal/db"
	appMiddleware "github.com/yigit/devcamper/internal/middleware"
	pkgAuth "github.com/yigit/devcamper/internal/pkg/auth"
	"github.com/yigit/devcamper/internal/pkg/email"
	"github.com/yigit/devcamper/internal/pkg/filestorage"
	"github.com/yigit/devcamper/internal/pkg/geocoder"
	"github.com/yigit/devcamper/internal/pkg/helpers"
	"github.com/yigit/devcamper/internal/pkg/logger"
	"github.com/yigit/devcamper/internal/pkg/validation"
	"github.com/yigit/devcamper/internal/seed"
)

// Config file locations, relative to the working directory
var (
	ConfigPath = filepath.Join("configs", "config.yaml")
	EnvFiles   = []string{filepath.Join("config", "config.env"), ".env"}
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	BootcampService    appServices.BootcampService
	CourseService      appServices.CourseService
	UserService        appServices.UserService
	AuthController     *appControllers.AuthController
	BootcampController *appControllers.BootcampController
	CourseController   *appControllers.CourseController
	UserController     *appControllers.UserController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	AuthzService       *appAuth.AuthorizationService
	Logger             zerolog.Logger
	FileStorage        filestorage.FileStorage
	Geocoder           geocoder.Geocoder
	Mailer             email.EmailService
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath, EnvFiles...)
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

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Str("mode", cfg.Server.Mode).Msg("Logger configured")

	if err := validation.Register(); err != nil {
		return nil, lgr, fmt.Errorf("failed to register validation rules: %w", err)
	}
	return cfg, lgr, nil
}

// ConnectDatabase opens and pings the connection pool without migrating
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database.Pool, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// makes sure the default admin exists.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	dbPool, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool, logger.WithComponent("migrator"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminConfig{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.EnsureAdmin(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		// startup continues without the admin account
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return dbPool, nil
}

// NewFileStorage picks the upload backend named in the configuration
func NewFileStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, error) {
	switch cfg.Upload.Backend {
	case config.UploadBackendS3:
		s3cfg := filestorage.S3Config{
			Bucket:    cfg.Upload.S3.Bucket,
			Region:    cfg.Upload.S3.Region,
			Endpoint:  cfg.Upload.S3.Endpoint,
			AccessKey: cfg.Upload.S3.AccessKey,
			SecretKey: cfg.Upload.S3.SecretKey,
			PublicURL: cfg.Upload.S3.PublicURL,
		}
		client, err := filestorage.NewS3Client(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		return filestorage.NewS3Storage(client, s3cfg), nil
	default:
		return filestorage.NewLocalStorage(cfg.Upload.Path, cfg.Upload.PublicPath)
	}
}

// NewGeocoder returns nil when no API key is configured
func NewGeocoder(cfg *config.Config, lgr zerolog.Logger) geocoder.Geocoder {
	if cfg.Geocoder.APIKey == "" {
		lgr.Warn().Msg("No geocoder API key configured, bootcamp locations and radius search are disabled")
		return nil
	}
	return geocoder.NewMapQuestGeocoder(geocoder.Config{
		BaseURL:    cfg.Geocoder.BaseURL,
		APIKey:     cfg.Geocoder.APIKey,
		MaxRetries: cfg.Geocoder.MaxRetries,
		Timeout:    helpers.ParseDuration(cfg.Geocoder.Timeout, 10*time.Second),
	}, logger.WithComponent("geocoder"))
}

// NewMailer builds the SMTP email service
func NewMailer(cfg *config.Config, lgr zerolog.Logger) email.EmailService {
	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, logger.WithComponent("email"))
	if !mailer.Configured() {
		lgr.Warn().Msg("SMTP is not configured, password reset emails will only be logged")
	}
	return mailer
}

// NewJWTService builds the token service from the configuration
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:  cfg.JWT.Secret,
		Expiration: cfg.JWTExpiration(),
		Issuer:     cfg.JWT.Issuer,
	})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage, err := NewFileStorage(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Str("backend", cfg.Upload.Backend).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps := &Dependencies{
		Logger:      lgr,
		Repos:       appRepos.NewRepositories(dbPool),
		FileStorage: storage,
		Geocoder:    NewGeocoder(cfg, lgr),
		Mailer:      NewMailer(cfg, lgr),
		JWTService:  NewJWTService(cfg),
	}

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.BootcampRepository,
		deps.Repos.CourseRepository,
	)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, deps.Mailer, logger.WithComponent("auth"))
	deps.BootcampService = appServices.NewBootcampService(
		deps.Repos.BootcampRepository,
		deps.AuthzService,
		deps.Geocoder,
		deps.FileStorage,
		cfg.Upload.MaxSize,
		logger.WithComponent("bootcamps"),
	)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.BootcampRepository,
		deps.AuthzService,
		logger.WithComponent("courses"),
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, logger.WithComponent("users"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		appControllers.CookieConfig{MaxAge: cfg.CookieMaxAge(), Secure: cfg.IsProduction()},
		cfg.Server.BaseURL,
		logger.WithComponent("auth"),
	)
	deps.BootcampController = appControllers.NewBootcampController(deps.BootcampService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.UserController = appControllers.NewUserController(deps.UserService, logger.WithComponent("users"))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch cfg.Server.Mode {
	case config.ModeProduction:
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case config.ModeTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.WithComponent("http")),
		appMiddleware.ErrorHandler(),
	)
	router.NoRoute(appMiddleware.NotFound())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.BootcampController,
		deps.CourseController,
		deps.UserController,
		deps.Repos.ResultsRepository,
		deps.AuthMiddleware,
	)

	// Local uploads are served from the public path
	if local, ok := deps.FileStorage.(*filestorage.LocalStorage); ok {
		router.Static(cfg.Upload.PublicPath, local.BasePath())
		lgr.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "success": true})
	})

	return router
}
