package repository

import (
	"context"
	"time"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// NextInspectionNumber generates the next INS<YYYYMMDD>NNN identifier.
func (r *InspectionRepository) NextInspectionNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	if tx == nil {
		tx = r.db
	}
	return NextNumber(ctx, tx, "inspections", "inspection_number", PrefixInspection, now)
}

func (r *InspectionRepository) Create(ctx context.Context, tx *gorm.DB, inspection *entity.Inspection) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(inspection).Error
}

func (r *InspectionRepository) FindByID(ctx context.Context, orgID, id string) (*entity.Inspection, error) {
	var inspection entity.Inspection
	err := r.db.WithContext(ctx).
		Preload("Car").
		Preload("Car.Client").
		Preload("Inspector").
		Preload("Items").
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&inspection).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &inspection, nil
}

type InspectionListParams struct {
	OrganizationID string
	InspectorID    string
	Status         string
	Page           int
	Size           int
}

func (r *InspectionRepository) List(ctx context.Context, params InspectionListParams) ([]entity.Inspection, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Inspection{}).
		Where("organization_id = ?", params.OrganizationID)
	if params.InspectorID != "" {
		query = query.Where("inspector_id = ?", params.InspectorID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
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

	var inspections []entity.Inspection
	err := query.
		Preload("Car").
		Preload("Car.Client").
		Preload("Inspector").
		Order("scheduled_date DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&inspections).Error
	return inspections, total, err
}

func (r *InspectionRepository) Update(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Save(inspection).Error
}

func (r *InspectionRepository) CreateItem(ctx context.Context, item *entity.InspectionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InspectionRepository) FindItem(ctx context.Context, inspectionID, itemID string) (*entity.InspectionItem, error) {
	var item entity.InspectionItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND inspection_id = ?", itemID, inspectionID).
		First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *InspectionRepository) UpdateItem(ctx context.Context, item *entity.InspectionItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InspectionRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.InspectionItem{}, "id = ?", id).Error
}

// CountByStatus returns inspection counts grouped by status.
func (r *InspectionRepository) CountByStatus(ctx context.Context, orgID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Inspection{}).
		Select("status, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
