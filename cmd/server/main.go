package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/husainf4l/gixat/internal/config"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/handler"
	"github.com/husainf4l/gixat/internal/middleware"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting gixat service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, zapLogger, cfg)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Organization{},
		&entity.User{},
		&entity.Client{},
		&entity.Car{},
		&entity.Session{},
		&entity.SessionMedia{},
		&entity.JobCard{},
		&entity.Inventory{},
		&entity.InventoryTransaction{},
		&entity.Inspection{},
		&entity.InspectionItem{},
		&entity.Notification{},
	)
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			auth.POST("/register-organization", h.Auth.RegisterOrganization)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.DELETE("/organization", middleware.RequireCapability("manage_users"), h.Auth.CloseOrganization)

			// staff management
			users := authorized.Group("/users")
			{
				users.GET("", h.User.List)
				users.GET("/technicians", h.User.ListTechnicians)
				users.GET("/:id", h.User.Get)
				users.POST("", middleware.RequireCapability("manage_users"), h.User.Create)
				users.PUT("/:id", middleware.RequireCapability("manage_users"), h.User.Update)
				users.DELETE("/:id", middleware.RequireCapability("manage_users"), h.User.Deactivate)
			}

			// clients and intake
			clients := authorized.Group("/clients")
			{
				clients.GET("", h.Client.List)
				clients.POST("", h.Client.Create)
				clients.GET("/:id", h.Client.Get)
				clients.PUT("/:id", h.Client.Update)
				clients.DELETE("/:id", middleware.RequireRole(entity.RoleManager), h.Client.Delete)
			}
			authorized.POST("/intake", middleware.RequireCapability("create_sessions"), h.Client.Intake)

			cars := authorized.Group("/cars")
			{
				cars.GET("", h.Car.List)
				cars.POST("", h.Car.Create)
				cars.GET("/:id", h.Car.Get)
				cars.PUT("/:id", h.Car.Update)
			}

			sessions := authorized.Group("/sessions")
			{
				sessions.GET("", h.Session.List)
				sessions.POST("", middleware.RequireCapability("create_sessions"), h.Session.Create)
				sessions.GET("/:id", h.Session.Get)
				sessions.PUT("/:id", middleware.RequireCapability("modify_sessions"), h.Session.Update)
				sessions.PUT("/:id/status", middleware.RequireCapability("modify_sessions"), h.Session.UpdateStatus)

				sessions.POST("/:id/jobs", middleware.RequireCapability("modify_sessions"), h.Session.AddJobCard)
				sessions.PUT("/:id/jobs/:jobId", middleware.RequireCapability("modify_sessions"), h.Session.UpdateJobCard)
				sessions.DELETE("/:id/jobs/:jobId", middleware.RequireCapability("modify_sessions"), h.Session.DeleteJobCard)

				sessions.GET("/:id/media", h.Session.ListMedia)
				sessions.POST("/:id/media", middleware.RequireCapability("modify_sessions"), h.Session.UploadMedia)
				sessions.GET("/:id/media/:mediaId/download", h.Session.DownloadMedia)
			}

			inventory := authorized.Group("/inventory")
			inventory.Use(middleware.RequireCapability("manage_inventory"))
			{
				inventory.GET("", h.Inventory.List)
				inventory.POST("", h.Inventory.Create)
				inventory.GET("/low-stock", h.Inventory.LowStock)
				inventory.GET("/categories", h.Inventory.Categories)
				inventory.GET("/transactions", h.Inventory.Transactions)
				inventory.GET("/:id", h.Inventory.Get)
				inventory.PUT("/:id", h.Inventory.Update)
				inventory.POST("/:id/adjust", h.Inventory.Adjust)
				inventory.POST("/:id/restock", h.Inventory.Restock)
			}

			inspections := authorized.Group("/inspections")
			{
				inspections.GET("", h.Inspection.List)
				inspections.POST("", h.Inspection.Create)
				inspections.GET("/:id", h.Inspection.Get)
				inspections.PUT("/:id", h.Inspection.Update)
				inspections.PUT("/:id/status", h.Inspection.UpdateStatus)
				inspections.POST("/:id/approve", h.Inspection.Approve)
				inspections.POST("/:id/items", h.Inspection.AddItem)
				inspections.PUT("/:id/items/:itemId", h.Inspection.UpdateItem)
				inspections.DELETE("/:id/items/:itemId", h.Inspection.DeleteItem)
			}

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			authorized.GET("/dashboard", h.Report.Dashboard)

			reports := authorized.Group("/reports")
			reports.Use(middleware.RequireCapability("view_reports"))
			{
				reports.GET("", h.Report.Get)
				reports.GET("/export/csv", h.Report.ExportCSV)
				reports.GET("/export/excel", h.Report.ExportExcel)
				reports.GET("/export/pdf", h.Report.ExportPDF)
			}
		}
	}
}
