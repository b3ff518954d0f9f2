package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"go.uber.org/zap"
)

// NotificationService creates and lists per-user alerts. Creation is best
// effort: a failed notification never fails the action that triggered it.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, logger: logger}
}

// NotificationRefs links an alert to the row that caused it.
type NotificationRefs struct {
	SessionID    *string
	InspectionID *string
	InventoryID  *string
}

// Notify creates an alert for one user.
func (s *NotificationService) Notify(ctx context.Context, orgID, userID, title, message, notifyType string, refs *NotificationRefs) {
	n := &entity.Notification{
		ID:               uuid.New().String(),
		OrganizationID:   orgID,
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: notifyType,
		CreatedAt:        time.Now(),
	}
	if refs != nil {
		n.RelatedSessionID = refs.SessionID
		n.RelatedInspectionID = refs.InspectionID
		n.RelatedInventoryID = refs.InventoryID
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("Failed to create notification",
			zap.String("organization_id", orgID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// NotifyManagers alerts every active admin and manager in the organization,
// used for low-stock warnings and approvals.
func (s *NotificationService) NotifyManagers(ctx context.Context, orgID, title, message, notifyType string, refs *NotificationRefs) {
	users, err := s.userRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		s.logger.Warn("Failed to list users for notification", zap.Error(err))
		return
	}
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		if user.Role != entity.RoleAdmin && user.Role != entity.RoleManager {
			continue
		}
		s.Notify(ctx, orgID, user.ID, title, message, notifyType, refs)
	}
}

func (s *NotificationService) List(ctx context.Context, params repository.NotificationListParams) ([]entity.Notification, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *NotificationService) MarkRead(ctx context.Context, orgID, userID, id string) error {
	return s.repo.MarkRead(ctx, orgID, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, orgID, userID string) error {
	return s.repo.MarkAllRead(ctx, orgID, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, orgID, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, orgID, userID)
}
