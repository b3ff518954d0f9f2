package repository

import (
	"context"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, tx *gorm.DB, client *entity.Client) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) FindByID(ctx context.Context, orgID, id string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).
		Preload("Cars").
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&client).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

type ClientListParams struct {
	OrganizationID string
	Search         string
	ActiveOnly     bool
	Page           int
	Size           int
}

func (r *ClientRepository) List(ctx context.Context, params ClientListParams) ([]entity.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Client{}).
		Where("organization_id = ?", params.OrganizationID)
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if params.Search != "" {
		kw := "%" + params.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR phone LIKE ? OR email LIKE ?", kw, kw, kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 25
	}

	var clients []entity.Client
	err := query.Preload("Cars").
		Order("first_name ASC, last_name ASC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&clients).Error
	return clients, total, err
}

func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete removes the client and its cars in one transaction. Sessions for
// those cars follow the car cascade.
func (r *ClientRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carIDs := tx.Model(&entity.Car{}).Select("id").
			Where("client_id = ? AND organization_id = ?", id, orgID)
		sessionIDs := tx.Model(&entity.Session{}).Select("id").Where("car_id IN (?)", carIDs)

		if err := tx.Where("session_id IN (?)", sessionIDs).Delete(&entity.JobCard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id IN (?)", sessionIDs).Delete(&entity.SessionMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id IN (?)", carIDs).Delete(&entity.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ? AND organization_id = ?", id, orgID).Delete(&entity.Car{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND organization_id = ?", id, orgID).Delete(&entity.Client{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
