package service

import (
	"github.com/husainf4l/gixat/internal/config"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services groups the business layer for dependency wiring.
type Services struct {
	Auth         *AuthService
	User         *UserService
	Client       *ClientService
	Car          *CarService
	Session      *SessionService
	Inventory    *InventoryService
	Inspection   *InspectionService
	Notification *NotificationService
	Report       *ReportService
	Media        *MediaService
}

func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger, cfg *config.Config) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("Object storage unavailable, media uploads disabled", zap.Error(err))
			minioClient = nil
		}
	}

	cache := NewCache(rdb, cfg)
	notificationSvc := NewNotificationService(repos.Notification, repos.User, logger)

	return &Services{
		Auth:         NewAuthService(db, repos.Organization, repos.User, rdb, cache, logger, cfg),
		User:         NewUserService(repos.User, cache, logger),
		Client:       NewClientService(db, repos, cache, logger),
		Car:          NewCarService(repos.Car, repos.Client, logger),
		Session:      NewSessionService(db, repos, notificationSvc, cache, logger),
		Inventory:    NewInventoryService(db, repos.Inventory, notificationSvc, cache, logger),
		Inspection:   NewInspectionService(db, repos, notificationSvc, logger),
		Notification: notificationSvc,
		Report:       NewReportService(repos, cache, logger),
		Media:        NewMediaService(repos.Session, minioClient, cfg.MinIO.Bucket, logger),
	}
}
