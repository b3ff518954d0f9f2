package repository

import (
	"context"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, tx *gorm.DB, org *entity.Organization) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(org).Error
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByRegistrationNumber(ctx context.Context, regNo string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).Where("registration_number = ?", regNo).First(&org).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// Delete removes the organization and all rows scoped to it in one
// transaction. Children are deleted explicitly so the cascade holds on
// databases without enforced foreign keys.
func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessionIDs := tx.Model(&entity.Session{}).Select("id").Where("organization_id = ?", id)
		inspectionIDs := tx.Model(&entity.Inspection{}).Select("id").Where("organization_id = ?", id)

		if err := tx.Where("session_id IN (?)", sessionIDs).Delete(&entity.JobCard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id IN (?)", sessionIDs).Delete(&entity.SessionMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("inspection_id IN (?)", inspectionIDs).Delete(&entity.InspectionItem{}).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{
			&entity.Notification{},
			&entity.InventoryTransaction{},
			&entity.Inventory{},
			&entity.Inspection{},
			&entity.Session{},
			&entity.Car{},
			&entity.Client{},
			&entity.User{},
		} {
			if err := tx.Where("organization_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&entity.Organization{}).Error
	})
}
