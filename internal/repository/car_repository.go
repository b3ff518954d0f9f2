package repository

import (
	"context"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

func (r *CarRepository) Create(ctx context.Context, tx *gorm.DB, car *entity.Car) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(car).Error
}

func (r *CarRepository) FindByID(ctx context.Context, orgID, id string) (*entity.Car, error) {
	var car entity.Car
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&car).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &car, nil
}

func (r *CarRepository) FindByLicensePlate(ctx context.Context, orgID, plate string) (*entity.Car, error) {
	var car entity.Car
	err := r.db.WithContext(ctx).
		Where("license_plate = ? AND organization_id = ?", plate, orgID).
		First(&car).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &car, nil
}

type CarListParams struct {
	OrganizationID string
	ClientID       string
	Search         string
	Page           int
	Size           int
}

func (r *CarRepository) List(ctx context.Context, params CarListParams) ([]entity.Car, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Car{}).
		Where("organization_id = ?", params.OrganizationID)
	if params.ClientID != "" {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.Search != "" {
		kw := "%" + params.Search + "%"
		query = query.Where("make LIKE ? OR model LIKE ? OR license_plate LIKE ? OR vin LIKE ?", kw, kw, kw, kw)
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

	var cars []entity.Car
	err := query.Preload("Client").
		Order("make ASC, model ASC, year ASC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&cars).Error
	return cars, total, err
}

func (r *CarRepository) Update(ctx context.Context, car *entity.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}
