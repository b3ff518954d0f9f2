package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// numberRetries bounds how often a colliding generated number is retried.
// Collisions only happen when two writers draw the same sequence in the
// same instant.
const numberRetries = 3

// ClientService handles customers and the walk-in intake flow.
type ClientService struct {
	db     *gorm.DB
	repos  *repository.Repositories
	cache  *Cache
	logger *zap.Logger
}

func NewClientService(db *gorm.DB, repos *repository.Repositories, cache *Cache, logger *zap.Logger) *ClientService {
	return &ClientService{db: db, repos: repos, cache: cache, logger: logger}
}

type CreateClientInput struct {
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone" binding:"required"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

func (s *ClientService) Create(ctx context.Context, orgID string, input CreateClientInput) (*entity.Client, error) {
	now := time.Now()
	client := &entity.Client{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Address:        input.Address,
		DateOfBirth:    input.DateOfBirth,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repos.Client.Create(ctx, nil, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, orgID, id string) (*entity.Client, error) {
	return s.repos.Client.FindByID(ctx, orgID, id)
}

func (s *ClientService) List(ctx context.Context, params repository.ClientListParams) ([]entity.Client, int64, error) {
	return s.repos.Client.List(ctx, params)
}

type UpdateClientInput struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	Address     *string    `json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	IsActive    *bool      `json:"is_active"`
}

func (s *ClientService) Update(ctx context.Context, orgID, id string, input UpdateClientInput) (*entity.Client, error) {
	client, err := s.repos.Client.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		client.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		client.LastName = *input.LastName
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.DateOfBirth != nil {
		client.DateOfBirth = input.DateOfBirth
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	client.UpdatedAt = time.Now()

	if err := s.repos.Client.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

// Delete removes the client with its cars and their service history.
func (s *ClientService) Delete(ctx context.Context, orgID, id string) error {
	if err := s.repos.Client.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.cache.InvalidateDashboard(ctx, orgID)
	s.logger.Info("Client deleted",
		zap.String("organization_id", orgID),
		zap.String("client_id", id),
	)
	return nil
}

// IntakeInput registers a walk-in: new client, their car, and a scheduled
// session in one step.
type IntakeInput struct {
	Client CreateClientInput `json:"client" binding:"required"`
	Car    CreateCarInput    `json:"car" binding:"required"`

	TechnicianID  string     `json:"technician_id" binding:"required"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Description   string     `json:"description"`
	EstimatedCost *float64   `json:"estimated_cost"`
}

// IntakeResult returns all three rows created by an intake.
type IntakeResult struct {
	Client  *entity.Client  `json:"client"`
	Car     *entity.Car     `json:"car"`
	Session *entity.Session `json:"session"`
}

// Intake creates client, car, and session atomically. Either all three rows
// exist afterwards or none do. The whole transaction is retried when the
// generated session number collides with a concurrent writer.
func (s *ClientService) Intake(ctx context.Context, orgID string, input IntakeInput) (*IntakeResult, error) {
	technician, err := s.repos.User.FindByID(ctx, input.TechnicianID)
	if err != nil || technician.OrganizationID != orgID {
		return nil, fmt.Errorf("technician not found")
	}

	scheduled := time.Now()
	if input.ScheduledDate != nil {
		scheduled = *input.ScheduledDate
	}

	var result *IntakeResult
	var lastErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		result, lastErr = s.intakeOnce(ctx, orgID, input, scheduled)
		if lastErr == nil {
			break
		}
		if !repository.IsUniqueViolation(lastErr) {
			return nil, lastErr
		}
		s.logger.Warn("Session number collision during intake, retrying",
			zap.String("organization_id", orgID),
			zap.Int("attempt", attempt+1),
		)
	}
	if lastErr != nil {
		return nil, lastErr
	}

	s.cache.InvalidateDashboard(ctx, orgID)
	s.logger.Info("Intake completed",
		zap.String("organization_id", orgID),
		zap.String("client_id", result.Client.ID),
		zap.String("car_id", result.Car.ID),
		zap.String("session_number", result.Session.SessionNumber),
	)
	return result, nil
}

func (s *ClientService) intakeOnce(ctx context.Context, orgID string, input IntakeInput, scheduled time.Time) (*IntakeResult, error) {
	now := time.Now()
	client := &entity.Client{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		FirstName:      input.Client.FirstName,
		LastName:       input.Client.LastName,
		Email:          input.Client.Email,
		Phone:          input.Client.Phone,
		Address:        input.Client.Address,
		DateOfBirth:    input.Client.DateOfBirth,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	car := &entity.Car{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ClientID:       client.ID,
		Make:           input.Car.Make,
		Model:          input.Car.Model,
		Year:           input.Car.Year,
		Color:          input.Car.Color,
		LicensePlate:   input.Car.LicensePlate,
		VIN:            input.Car.VIN,
		EngineNumber:   input.Car.EngineNumber,
		FuelType:       defaultStr(input.Car.FuelType, entity.FuelPetrol),
		Mileage:        input.Car.Mileage,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	session := &entity.Session{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CarID:          car.ID,
		TechnicianID:   input.TechnicianID,
		ScheduledDate:  scheduled,
		Status:         entity.SessionScheduled,
		Description:    input.Description,
		EstimatedCost:  input.EstimatedCost,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Client.Create(ctx, tx, client); err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		if err := s.repos.Car.Create(ctx, tx, car); err != nil {
			return fmt.Errorf("create car: %w", err)
		}
		number, err := s.repos.Session.NextSessionNumber(ctx, tx, now)
		if err != nil {
			return err
		}
		session.SessionNumber = number
		if err := s.repos.Session.Create(ctx, tx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &IntakeResult{Client: client, Car: car, Session: session}, nil
}
