package app

import (
	"acaia_backend/internal/config"
	"acaia_backend/internal/controller"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/service"
	"acaia_backend/pkg/configwatcher"
	"acaia_backend/pkg/database"
	"acaia_backend/pkg/logger"
	"acaia_backend/pkg/monitoring"
	"acaia_backend/pkg/security"
	"acaia_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	// DB is nil when the in-memory store is active.
	DB    *gorm.DB
	Redis *redis.Client

	services *services
}

// stores bundles the four repository interfaces. Either every field is
// a gorm repository or every field is the shared in-memory store; the
// choice is made once at startup.
type stores struct {
	users    repository.UserRepository
	chats    repository.ChatRepository
	problems repository.ProblemRepository
	exams    repository.ExamRepository
}

type services struct {
	ai      *service.SwitchableAI
	storage *service.StorageService
	auth    *service.AuthService
	chat    *service.ChatService
	problem *service.ProblemService
	exam    *service.ExamService
	career  *service.CareerService
}

type controllers struct {
	auth    *controller.AuthController
	chat    *controller.ChatController
	problem *controller.ProblemController
	exam    *controller.ExamController
	career  *controller.CareerController
	health  *controller.HealthController
}

// initStores connects MySQL when it is enabled and reachable; any
// failure drops the whole process to the in-memory store, never a
// per-request fallback.
func (a *App) initStores(cfg *config.Config, rdb *redis.Client) *stores {
	if cfg.Database.Enabled {
		db, err := database.InitDB(&cfg.Database)
		if err == nil {
			a.DB = db
			return &stores{
				users:    repository.NewGormUserRepository(db),
				chats:    repository.NewGormChatRepository(db),
				problems: repository.NewGormProblemRepository(db),
				exams:    repository.NewGormExamRepository(db, rdb),
			}
		}
		logger.Log.Warn("MySQL unavailable, falling back to in-memory store", zap.Error(err))
	} else {
		logger.Log.Info("MySQL disabled, using in-memory store")
	}

	mem := repository.NewMemoryStore()
	return &stores{users: mem, chats: mem, problems: mem, exams: mem}
}

func (a *App) initServices(st *stores, cfg *config.Config) *services {
	s := &services{}
	s.ai = service.NewSwitchableAI(service.NewAIClient(cfg.AI, logger.Log))
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(st.users, cfg.JWT)
	s.chat = service.NewChatService(st.chats, s.ai)
	s.problem = service.NewProblemService(st.problems, s.ai)
	s.exam = service.NewExamService(st.exams, s.ai)
	s.career = service.NewCareerService(s.ai)
	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth, s.storage),
		chat:    controller.NewChatController(s.chat),
		problem: controller.NewProblemController(s.problem),
		exam:    controller.NewExamController(s.exam),
		career:  controller.NewCareerController(s.career),
		health:  controller.NewHealthController(a.DB),
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
	logger.Log.Info("Logger initialized")

	gin.SetMode(cfg.Server.Mode)

	app := &App{Config: cfg}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		var err error
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, continuing without caching", zap.Error(err))
			rdb = nil
		}
	}
	app.Redis = rdb

	st := app.initStores(cfg, rdb)
	app.services = app.initServices(st, cfg)
	ctrls := app.initControllers(app.services)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("acaia-backend", cfg.Server.Mode, cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, st, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// applyConfig takes over the settings that are safe to change at
// runtime. Server, database and storage changes still need a restart.
func (a *App) applyConfig(cfg *config.Config) {
	a.services.ai.Reconfigure(cfg.AI, logger.Log)
	a.Config.AI = cfg.AI
	logger.Log.Info("Configuration reloaded", zap.String("ai_model", cfg.AI.Model))
}

func (a *App) Run() {
	go configwatcher.WatchConfig("configs/config.yaml", a.applyConfig)

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

	log.Println("Server exiting")
}
