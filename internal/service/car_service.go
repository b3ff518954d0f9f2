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
)

// CarService handles vehicle records.
type CarService struct {
	carRepo    *repository.CarRepository
	clientRepo *repository.ClientRepository
	logger     *zap.Logger
}

func NewCarService(carRepo *repository.CarRepository, clientRepo *repository.ClientRepository, logger *zap.Logger) *CarService {
	return &CarService{carRepo: carRepo, clientRepo: clientRepo, logger: logger}
}

type CreateCarInput struct {
	ClientID     string `json:"client_id"`
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	Color        string `json:"color"`
	LicensePlate string `json:"license_plate" binding:"required"`
	VIN          string `json:"vin"`
	EngineNumber string `json:"engine_number"`
	FuelType     string `json:"fuel_type"`
	Mileage      int    `json:"mileage"`
}

func (s *CarService) Create(ctx context.Context, orgID string, input CreateCarInput) (*entity.Car, error) {
	if _, err := s.clientRepo.FindByID(ctx, orgID, input.ClientID); err != nil {
		return nil, fmt.Errorf("client not found")
	}

	plate := strings.ToUpper(strings.TrimSpace(input.LicensePlate))
	if _, err := s.carRepo.FindByLicensePlate(ctx, orgID, plate); err == nil {
		return nil, fmt.Errorf("license plate already registered")
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("check license plate: %w", err)
	}

	now := time.Now()
	car := &entity.Car{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ClientID:       input.ClientID,
		Make:           input.Make,
		Model:          input.Model,
		Year:           input.Year,
		Color:          input.Color,
		LicensePlate:   plate,
		VIN:            strings.ToUpper(strings.TrimSpace(input.VIN)),
		EngineNumber:   input.EngineNumber,
		FuelType:       defaultStr(input.FuelType, entity.FuelPetrol),
		Mileage:        input.Mileage,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.carRepo.Create(ctx, nil, car); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	return car, nil
}

func (s *CarService) Get(ctx context.Context, orgID, id string) (*entity.Car, error) {
	return s.carRepo.FindByID(ctx, orgID, id)
}

func (s *CarService) List(ctx context.Context, params repository.CarListParams) ([]entity.Car, int64, error) {
	return s.carRepo.List(ctx, params)
}

type UpdateCarInput struct {
	Color        *string `json:"color"`
	LicensePlate *string `json:"license_plate"`
	EngineNumber *string `json:"engine_number"`
	FuelType     *string `json:"fuel_type"`
	Mileage      *int    `json:"mileage"`
	IsActive     *bool   `json:"is_active"`
}

func (s *CarService) Update(ctx context.Context, orgID, id string, input UpdateCarInput) (*entity.Car, error) {
	car, err := s.carRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.Color != nil {
		car.Color = *input.Color
	}
	if input.LicensePlate != nil {
		car.LicensePlate = strings.ToUpper(strings.TrimSpace(*input.LicensePlate))
	}
	if input.EngineNumber != nil {
		car.EngineNumber = *input.EngineNumber
	}
	if input.FuelType != nil {
		car.FuelType = *input.FuelType
	}
	if input.Mileage != nil {
		// odometers only move forward
		if *input.Mileage < car.Mileage {
			return nil, fmt.Errorf("mileage cannot decrease")
		}
		car.Mileage = *input.Mileage
	}
	if input.IsActive != nil {
		car.IsActive = *input.IsActive
	}
	car.UpdatedAt = time.Now()

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}
	return car, nil
}
