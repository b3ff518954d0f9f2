package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MediaService stores session photos and documents in object storage. A nil
// minio client disables uploads without breaking the rest of the API.
type MediaService struct {
	sessionRepo *repository.SessionRepository
	minioClient *minio.Client
	bucket      string
	logger      *zap.Logger
}

func NewMediaService(sessionRepo *repository.SessionRepository, minioClient *minio.Client, bucket string, logger *zap.Logger) *MediaService {
	return &MediaService{
		sessionRepo: sessionRepo,
		minioClient: minioClient,
		bucket:      bucket,
		logger:      logger,
	}
}

// Upload stores the file under sessions/<id>/ and records a media row.
func (s *MediaService) Upload(ctx context.Context, orgID, sessionID, uploadedBy, fileName, contentType string, size int64, reader io.Reader) (*entity.SessionMedia, error) {
	if s.minioClient == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	session, err := s.sessionRepo.FindByID(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("sessions/%s/%s%s", session.ID, uuid.New().String(), path.Ext(fileName))
	_, err = s.minioClient.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	media := &entity.SessionMedia{
		ID:          uuid.New().String(),
		SessionID:   session.ID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now(),
	}
	if err := s.sessionRepo.CreateMedia(ctx, media); err != nil {
		return nil, fmt.Errorf("record media: %w", err)
	}

	s.logger.Info("Session media uploaded",
		zap.String("session_id", session.ID),
		zap.String("object_key", objectKey),
		zap.Int64("size", size),
	)
	return media, nil
}

func (s *MediaService) List(ctx context.Context, orgID, sessionID string) ([]entity.SessionMedia, error) {
	if _, err := s.sessionRepo.FindByID(ctx, orgID, sessionID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListMedia(ctx, sessionID)
}

// Download streams the object. The caller closes the reader.
func (s *MediaService) Download(ctx context.Context, orgID, sessionID, mediaID string) (io.ReadCloser, *entity.SessionMedia, error) {
	if s.minioClient == nil {
		return nil, nil, fmt.Errorf("object storage is not configured")
	}
	if _, err := s.sessionRepo.FindByID(ctx, orgID, sessionID); err != nil {
		return nil, nil, err
	}
	media, err := s.sessionRepo.FindMedia(ctx, sessionID, mediaID)
	if err != nil {
		return nil, nil, err
	}

	object, err := s.minioClient.GetObject(ctx, s.bucket, media.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	return object, media, nil
}
