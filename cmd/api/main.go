package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/audit"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/auth"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/comments"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/config"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/exports"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/notifications"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/notifications/websocket"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/reminders"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/requests"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/users"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
	"github.com/TheSushanthVarma/drm-system-sub000/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	for _, migrate := range []func(*gorm.DB) error{
		users.Migrate,
		requests.Migrate,
		notifications.Migrate,
		comments.Migrate,
		audit.Migrate,
	} {
		if err := migrate(db); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	ctx := context.Background()

	// Notification channels
	wsManager := websocket.NewManager(log)
	var emailSender notifications.EmailSender
	if cfg.Notifications.EmailEnabled {
		email, err := notifications.NewEmailChannel(ctx, cfg.Notifications.Region, cfg.Notifications.EmailFrom)
		if err != nil {
			log.Fatal("failed to initialize email channel", zap.Error(err))
		}
		emailSender = email
	}
	var smsSender notifications.SMSSender
	if cfg.Notifications.SMSEnabled {
		sms, err := notifications.NewSMSChannel(ctx, cfg.Notifications.Region)
		if err != nil {
			log.Fatal("failed to initialize sms channel", zap.Error(err))
		}
		smsSender = sms
	}

	// Users come first so the notification service can resolve contacts.
	userRepo := users.NewRepository(db)

	notificationStore := notifications.NewStore(db)
	var notificationService *notifications.Service

	// contactDirectory defers to the user service; wired below once it exists.
	userService := users.NewService(userRepo, dispatcherFunc(func(ctx context.Context, intents []workflow.NotificationIntent) {
		notificationService.Dispatch(ctx, intents)
	}), log)

	notificationService = notifications.NewService(
		notificationStore, wsManager, emailSender, smsSender, userService, log)

	// Audit trail
	var indexer audit.Indexer
	if cfg.Elasticsearch.Enabled {
		es, err := audit.NewElasticsearchIndexer(audit.ElasticsearchConfig{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			Index:     cfg.Elasticsearch.Index,
		})
		if err != nil {
			log.Fatal("failed to initialize elasticsearch", zap.Error(err))
		}
		if err := es.Ping(); err != nil {
			log.Warn("elasticsearch unreachable at startup", zap.Error(err))
		}
		indexer = es
	}
	recorder := audit.NewRecorder(audit.NewStore(db), indexer, log)

	// Requests
	requestRepo := requests.NewRepository(db)
	requestService := requests.NewService(
		requestRepo, workflow.NewPolicy(), notificationService, recorder, userService, log)

	// Comments
	commentService := comments.NewService(comments.NewRepository(db), requestService, notificationService, log)

	// Reminders
	if cfg.Reminders.Enabled {
		scheduler := reminders.NewScheduler(requestService, notificationService, userService, cfg.Reminders.MaxAge, log)
		if err := scheduler.Start(cfg.Reminders.Spec); err != nil {
			log.Fatal("failed to start reminder scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	// Router
	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
	})

	api := router.Group("/api/v1", auth.Middleware(cfg.Auth.JWTSecret))
	{
		requests.NewHandler(requestService).RegisterRoutes(api)
		comments.NewHandler(commentService).RegisterRoutes(api)
		notifications.NewHandler(notificationService, wsManager).RegisterRoutes(api)
		users.NewHandler(userService).RegisterRoutes(api)
		audit.NewHandler(recorder).RegisterRoutes(api)
		exports.NewHandler(requestService).RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("addr", cfg.GetServerAddr()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	wsManager.Close()
	log.Info("server exited")
}

// dispatcherFunc adapts a function to the dispatcher interfaces, which
// breaks the users -> notifications -> users construction loop.
type dispatcherFunc func(ctx context.Context, intents []workflow.NotificationIntent)

func (f dispatcherFunc) Dispatch(ctx context.Context, intents []workflow.NotificationIntent) {
	f(ctx, intents)
}
