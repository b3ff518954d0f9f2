package repository

import (
	"context"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, tx *gorm.DB, user *entity.User) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Organization").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Organization").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) ListByOrganization(ctx context.Context, orgID string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("first_name ASC, last_name ASC").
		Find(&users).Error
	return users, err
}

// ListTechnicians returns users eligible for session/job assignment.
func (r *UserRepository) ListTechnicians(ctx context.Context, orgID string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND role IN ? AND is_active = ?", orgID,
			[]string{entity.RoleTechnician, entity.RoleManager}, true).
		Order("first_name ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
