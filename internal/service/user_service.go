package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles staff management inside one organization.
type UserService struct {
	repo   *repository.UserRepository
	cache  *Cache
	logger *zap.Logger
}

func NewUserService(repo *repository.UserRepository, cache *Cache, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, logger: logger}
}

type CreateUserInput struct {
	Email      string     `json:"email" binding:"required,email"`
	Password   string     `json:"password" binding:"required,min=8"`
	FirstName  string     `json:"first_name" binding:"required"`
	LastName   string     `json:"last_name" binding:"required"`
	Role       string     `json:"role" binding:"required"`
	Phone      string     `json:"phone"`
	EmployeeID string     `json:"employee_id"`
	HireDate   *time.Time `json:"hire_date"`
}

// Create adds a staff account to the organization.
func (s *UserService) Create(ctx context.Context, orgID string, input CreateUserInput) (*entity.User, error) {
	if !entity.ValidRole(input.Role) {
		return nil, fmt.Errorf("invalid role: %s", input.Role)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered")
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Email:          email,
		PasswordHash:   string(hash),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Role:           input.Role,
		Phone:          input.Phone,
		EmployeeID:     input.EmployeeID,
		HireDate:       input.HireDate,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User created",
		zap.String("organization_id", orgID),
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
	)
	return user, nil
}

func (s *UserService) List(ctx context.Context, orgID string) ([]entity.User, error) {
	return s.repo.ListByOrganization(ctx, orgID)
}

// ListTechnicians returns users assignable to sessions and job cards.
func (s *UserService) ListTechnicians(ctx context.Context, orgID string) ([]entity.User, error) {
	return s.repo.ListTechnicians(ctx, orgID)
}

// Get returns a user, restricted to the caller's organization.
func (s *UserService) Get(ctx context.Context, orgID, id string) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID != orgID {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

type UpdateUserInput struct {
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Role       *string    `json:"role"`
	Phone      *string    `json:"phone"`
	EmployeeID *string    `json:"employee_id"`
	HireDate   *time.Time `json:"hire_date"`
	IsActive   *bool      `json:"is_active"`
	Password   *string    `json:"password"`
}

// Update applies partial changes. A role or activation change drops the
// cached capability list so it takes effect on the next request.
func (s *UserService) Update(ctx context.Context, orgID, id string, input UpdateUserInput) (*entity.User, error) {
	user, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	invalidate := false
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		if !entity.ValidRole(*input.Role) {
			return nil, fmt.Errorf("invalid role: %s", *input.Role)
		}
		if user.Role != *input.Role {
			user.Role = *input.Role
			invalidate = true
		}
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.EmployeeID != nil {
		user.EmployeeID = *input.EmployeeID
	}
	if input.HireDate != nil {
		user.HireDate = input.HireDate
	}
	if input.IsActive != nil && user.IsActive != *input.IsActive {
		user.IsActive = *input.IsActive
		invalidate = true
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if invalidate {
		s.cache.InvalidatePermissions(ctx, user.ID)
	}
	return user, nil
}

// Deactivate disables the account without deleting its history.
func (s *UserService) Deactivate(ctx context.Context, orgID, id string) error {
	user, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	user.IsActive = false
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.cache.InvalidatePermissions(ctx, user.ID)
	return nil
}
