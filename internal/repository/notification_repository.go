package repository

import (
	"context"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

type NotificationListParams struct {
	OrganizationID string
	UserID         string
	UnreadOnly     bool
	Page           int
	Size           int
}

func (r *NotificationRepository) List(ctx context.Context, params NotificationListParams) ([]entity.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("organization_id = ? AND user_id = ?", params.OrganizationID, params.UserID)
	if params.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}

	var notifications []entity.Notification
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, orgID, userID, id string) error {
	res := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ? AND organization_id = ? AND user_id = ?", id, orgID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, orgID, userID string) error {
	return r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("organization_id = ? AND user_id = ? AND is_read = ?", orgID, userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, orgID, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("organization_id = ? AND user_id = ? AND is_read = ?", orgID, userID, false).
		Count(&count).Error
	return count, err
}
