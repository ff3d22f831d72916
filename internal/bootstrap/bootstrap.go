package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/schooladmin/internal/app/controllers"
	appMigrations "github.com/yigit/schooladmin/internal/app/migrations"
	appRepos "github.com/yigit/schooladmin/internal/app/repositories"
	appRoutes "github.com/yigit/schooladmin/internal/app/routes"
	appServices "github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/config"
	"github.com/yigit/schooladmin/internal/db"
	appMiddleware "github.com/yigit/schooladmin/internal/middleware"
	pkgAuth "github.com/yigit/schooladmin/internal/pkg/auth"
	"github.com/yigit/schooladmin/internal/pkg/avatar"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services             *appServices.Services
	AuthController       *appControllers.AuthController
	SubjectController    *appControllers.SubjectController
	InstructorController *appControllers.InstructorController
	CourseController     *appControllers.CourseController
	SemesterController   *appControllers.SemesterController
	HealthController     *appControllers.HealthController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Avatars              avatar.Resolver
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.Ping(pingCtx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		_ = database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database).Up(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		_ = database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Strs("applied", applied).Msg("Database migrations successfully applied.")

	return database, nil
}

// NewAvatarResolver picks the avatar URL strategy from configuration. A static
// driver without a base URL yields no resolver, so avatar URLs are omitted.
func NewAvatarResolver(ctx context.Context, cfg *config.Config) (avatar.Resolver, error) {
	switch cfg.Avatar.Driver {
	case config.AvatarS3:
		return avatar.NewS3Resolver(ctx, avatar.S3Config{
			Bucket:     cfg.Avatar.Bucket,
			Region:     cfg.Avatar.Region,
			Endpoint:   cfg.Avatar.Endpoint,
			PathStyle:  cfg.Avatar.PathStyle,
			PresignTTL: helpers.ParseDuration(cfg.Avatar.PresignTTL, 15*time.Minute),
		})
	default:
		if cfg.Avatar.BaseURL == "" {
			return nil, nil
		}
		return avatar.NewStaticResolver(cfg.Avatar.BaseURL)
	}
}

// BuildDependencies initializes application repositories, services, and controllers,
// then seeds reference data.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.Database, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	resolver, err := NewAvatarResolver(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize avatar resolver")
		return nil, fmt.Errorf("failed to initialize avatar resolver: %w", err)
	}
	deps.Avatars = resolver

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Avatars)

	if err := seed.CreateDefaultData(ctx, deps.Repos, deps.Services.AuthService, cfg.Admin.Email, cfg.Admin.Password, lgr); err != nil {
		// Startup continues; missing seed rows only affect course creation and login.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.SubjectController = appControllers.NewSubjectController(deps.Services.SubjectService)
	deps.InstructorController = appControllers.NewInstructorController(deps.Services.InstructorService)
	deps.CourseController = appControllers.NewCourseController(deps.Services.CourseService)
	deps.SemesterController = appControllers.NewSemesterController(deps.Services.SemesterService)
	deps.HealthController = appControllers.NewHealthController(database)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
	)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.SubjectController,
		deps.InstructorController,
		deps.CourseController,
		deps.SemesterController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router
}
