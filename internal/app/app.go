package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playful_math_backend/internal/config"
	"playful_math_backend/internal/controller"
	"playful_math_backend/internal/middleware"
	"playful_math_backend/internal/model"
	"playful_math_backend/internal/problemgen"
	"playful_math_backend/internal/repository"
	"playful_math_backend/internal/service"
	"playful_math_backend/pkg/configwatcher"
	"playful_math_backend/pkg/database"
	"playful_math_backend/pkg/logger"
	"playful_math_backend/pkg/monitoring"
	"playful_math_backend/pkg/security"
	"playful_math_backend/pkg/session"
	"playful_math_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "playful-math-backend"

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Sessions session.Store

	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user             *repository.UserRepository
	securityQuestion *repository.SecurityQuestionRepository
	problem          *repository.ProblemRepository
	progress         *repository.ProgressRepository
	achievement      *repository.AchievementRepository
	dailyPuzzle      *repository.DailyPuzzleRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	problem     *service.ProblemService
	progress    *service.ProgressService
	achievement *service.AchievementService
	dailyPuzzle *service.DailyPuzzleService
	memoryCard  *service.MemoryCardService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	problem     *controller.ProblemController
	progress    *controller.ProgressController
	achievement *controller.AchievementController
	dailyPuzzle *controller.DailyPuzzleController
	memoryCard  *controller.MemoryCardController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:             repository.NewUserRepository(db),
		securityQuestion: repository.NewSecurityQuestionRepository(db),
		problem:          repository.NewProblemRepository(db),
		progress:         repository.NewProgressRepository(db),
		achievement:      repository.NewAchievementRepository(db),
		dailyPuzzle:      repository.NewDailyPuzzleRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	generator := problemgen.New()

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.securityQuestion, a.Sessions, cfg)
	s.user = service.NewUserService(repos.user, repos.securityQuestion, a.Sessions)
	s.problem = service.NewProblemService(repos.problem, generator, s.storage, cfg.Problems.SnapshotRetention)
	s.achievement = service.NewAchievementService(repos.achievement, repos.progress, repos.dailyPuzzle)
	s.progress = service.NewProgressService(repos.progress, repos.problem, repos.user, s.achievement)
	s.dailyPuzzle = service.NewDailyPuzzleService(
		repos.dailyPuzzle,
		repos.user,
		generator,
		s.achievement,
		cfg.DailyPuzzle.Points,
		cfg.DailyPuzzle.Grade,
	)
	s.memoryCard = service.NewMemoryCardService()

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, a.Config),
		user:        controller.NewUserController(s.user, s.auth),
		problem:     controller.NewProblemController(s.problem),
		progress:    controller.NewProgressController(s.progress),
		achievement: controller.NewAchievementController(s.achievement),
		dailyPuzzle: controller.NewDailyPuzzleController(s.dailyPuzzle),
		memoryCard:  controller.NewMemoryCardController(s.memoryCard),
		health:      controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.RequestLogger())
}

// Build 用已经打开的数据库和会话存储组装服务与路由。
// NewApp 和 HTTP 测试共用这一入口，测试注入 sqlite 内存库和内存会话。
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sessions session.Store) *App {
	app := &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Sessions: sessions,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services)

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.services.dailyPuzzle.SetReward(newCfg.DailyPuzzle.Points, newCfg.DailyPuzzle.Grade)
		logger.Log.Info("Daily puzzle reward reloaded",
			zap.Int("points", newCfg.DailyPuzzle.Points),
			zap.Int("grade", newCfg.DailyPuzzle.Grade))
	})

	return app
}

// NewApp 打开数据库、会话存储和追踪，返回可以 Run 的应用
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}

	// release 模式下只有显式 --migrate 才迁移
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	var rdb *redis.Client
	var sessions session.Store
	if cfg.Session.Store == "redis" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		sessions = session.NewRedisStore(rdb)
	} else {
		sessions = session.NewMemoryStore()
	}

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	monitoring.Init()

	app := Build(cfg, db, rdb, sessions)

	tp, err := tracing.InitTracer(context.Background(), serviceName, &cfg.Tracing)
	if err != nil {
		logger.Log.Warn("Failed to initialize tracing", zap.Error(err))
	}
	app.tracer = tp

	if err := app.Bootstrap(context.Background()); err != nil {
		return nil, err
	}
	return app, nil
}

// Bootstrap 题库为空时生成题库，并确保今日谜题存在
func (a *App) Bootstrap(ctx context.Context) error {
	if a.Config.Problems.SeedOnStart {
		if err := a.services.problem.SeedIfEmpty(ctx, a.Config.Problems.PerCategory); err != nil {
			return err
		}
	}
	_, err := a.services.dailyPuzzle.EnsureToday()
	return err
}

// RegenerateProblems 供命令行调用
func (a *App) RegenerateProblems(ctx context.Context, perCategory int) (*service.RegenerateResult, error) {
	return a.services.problem.Regenerate(ctx, perCategory)
}

// PromoteUser 供命令行调用
func (a *App) PromoteUser(username string) (*model.User, error) {
	return a.services.user.Promote(username)
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if _, err := a.services.dailyPuzzle.EnsureToday(); err != nil {
					logger.Log.Error("Daily puzzle rotation failed", zap.Error(err))
				}
				if store, ok := a.Sessions.(*session.MemoryStore); ok {
					if n := store.Sweep(now); n > 0 {
						logger.Log.Debug("Expired sessions removed", zap.Int("count", n))
					}
				}
			}
		}
	}()

	if a.Config.ConfigDir != "" {
		go func() {
			err := configwatcher.WatchConfig(ctx, a.Config.ConfigDir, func(newCfg *config.Config) {
				for _, cb := range a.configCallbacks {
					cb(newCfg)
				}
			})
			if err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.startBackgroundTasks(ctx)

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
	_ = logger.Log.Sync()
	return nil
}
