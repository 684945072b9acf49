package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tutor_backend/internal/config"
	"tutor_backend/internal/controller"
	"tutor_backend/internal/repository"
	"tutor_backend/internal/service"
	"tutor_backend/pkg/configwatcher"
	"tutor_backend/pkg/database"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"
	"tutor_backend/pkg/security"
	"tutor_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Relay           service.Relay
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	cancel          context.CancelFunc
}

type repositories struct {
	store         *repository.Store
	learningEvent *repository.LearningEventRepository
	chat          *repository.ChatRepository
}

type services struct {
	settings      *service.AnalyticsSettings
	learningEvent *service.LearningEventService
	analytics     *service.AnalyticsService
	ai            *service.AIService
	chat          *service.ChatService
	chatHub       *service.ChatHub
	credential    *service.StoreCredentialService
}

type controllers struct {
	learningEvent *controller.LearningEventController
	analytics     *controller.AnalyticsController
	chat          *controller.ChatController
	ai            *controller.AIController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, cfg *config.Config) *repositories {
	store := repository.NewStore(db, cfg.Database.ForwardClaims)
	return &repositories{
		store:         store,
		learningEvent: repository.NewLearningEventRepository(store),
		chat:          repository.NewChatRepository(store),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, relay service.Relay) *services {
	s := &services{}

	s.settings = service.NewAnalyticsSettings(cfg.Analytics)
	s.ai = service.NewAIService(cfg.AI)
	s.learningEvent = service.NewLearningEventService(repos.learningEvent)
	s.analytics = service.NewAnalyticsService(repos.learningEvent, s.settings, s.ai)
	s.chat = service.NewChatService(repos.chat, relay, cfg.Relay.Event)
	s.chatHub = service.NewChatHub(relay)
	s.credential = service.NewStoreCredentialService(cfg.Auth, cfg.Database)

	// 热更新只影响分析参数
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.settings.Store(newCfg.Analytics)
		logger.Log.Info("Analytics settings updated",
			zap.String("defaultLearningStyle", newCfg.Analytics.DefaultLearningStyle),
			zap.Float64("strongThreshold", newCfg.Analytics.StrongThreshold),
		)
	})

	if !s.ai.Enabled() {
		logger.Log.Warn("AI API key not configured, note enhancement is disabled and learning style uses the default label")
	}

	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		learningEvent: controller.NewLearningEventController(s.learningEvent),
		analytics:     controller.NewAnalyticsController(s.analytics),
		chat:          controller.NewChatController(s.chat, s.chatHub),
		ai:            controller.NewAIController(s.ai),
		health:        controller.NewHealthController(repos.store, s.chatHub),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 聊天室订阅与配置监听，随 ctx 结束
func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go func() {
		if err := s.chatHub.Run(ctx); err != nil {
			logger.Log.Error("Chat hub stopped", zap.Error(err))
		}
	}()

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(ctx, configFile, a.applyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

// New 组装路由与依赖，不做任何外部连接
func New(cfg *config.Config, db *gorm.DB, relay service.Relay) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Relay:  relay,
	}

	repos := app.initRepositories(db, cfg)
	services := app.initServices(repos, cfg, relay)
	app.services = services
	controllers := app.initControllers(services, repos)

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, services)

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	var rdb *redis.Client
	var relay service.Relay
	switch cfg.Relay.Driver {
	case "redis":
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		relay = service.NewRedisRelay(rdb, cfg.Relay.Channel)
	default:
		relay = service.NewLocalRelay()
	}

	// 监控初始化
	monitoring.Init()

	app := New(cfg, db, relay)
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(context.Background(), "tutor-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// Close 停止后台任务并释放连接
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil && a.services.chatHub != nil {
		a.services.chatHub.Stop()
	}
	if a.Relay != nil {
		if err := a.Relay.Close(); err != nil {
			logger.Log.Warn("Failed to close relay", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 先断开 websocket，否则 Shutdown 会等待被劫持的连接
	a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
