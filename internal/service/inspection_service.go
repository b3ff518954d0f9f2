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

// InspectionService handles vehicle inspections and their checklist items.
type InspectionService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	notifier *NotificationService
	logger   *zap.Logger
}

func NewInspectionService(db *gorm.DB, repos *repository.Repositories, notifier *NotificationService, logger *zap.Logger) *InspectionService {
	return &InspectionService{db: db, repos: repos, notifier: notifier, logger: logger}
}

type CreateInspectionInput struct {
	CarID         string     `json:"car_id" binding:"required"`
	InspectorID   string     `json:"inspector_id" binding:"required"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	EstimatedCost *float64   `json:"estimated_cost"`
}

func (s *InspectionService) Create(ctx context.Context, orgID string, input CreateInspectionInput) (*entity.Inspection, error) {
	if _, err := s.repos.Car.FindByID(ctx, orgID, input.CarID); err != nil {
		return nil, fmt.Errorf("car not found")
	}
	inspector, err := s.repos.User.FindByID(ctx, input.InspectorID)
	if err != nil || inspector.OrganizationID != orgID {
		return nil, fmt.Errorf("inspector not found")
	}

	now := time.Now()
	scheduled := now
	if input.ScheduledDate != nil {
		scheduled = *input.ScheduledDate
	}
	inspection := &entity.Inspection{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CarID:          input.CarID,
		InspectorID:    input.InspectorID,
		ScheduledDate:  scheduled,
		Status:         entity.InspectionScheduled,
		EstimatedCost:  input.EstimatedCost,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var lastErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := s.repos.Inspection.NextInspectionNumber(ctx, tx, now)
			if err != nil {
				return err
			}
			inspection.InspectionNumber = number
			return s.repos.Inspection.Create(ctx, tx, inspection)
		})
		if lastErr == nil {
			break
		}
		if !repository.IsUniqueViolation(lastErr) {
			return nil, fmt.Errorf("create inspection: %w", lastErr)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("create inspection: %w", lastErr)
	}

	s.logger.Info("Inspection created",
		zap.String("organization_id", orgID),
		zap.String("inspection_number", inspection.InspectionNumber),
	)
	return inspection, nil
}

// Get returns an inspection. Technicians only see their own.
func (s *InspectionService) Get(ctx context.Context, orgID, id, callerID, callerRole string) (*entity.Inspection, error) {
	inspection, err := s.repos.Inspection.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if callerRole == entity.RoleTechnician && inspection.InspectorID != callerID {
		return nil, repository.ErrNotFound
	}
	return inspection, nil
}

func (s *InspectionService) List(ctx context.Context, params repository.InspectionListParams) ([]entity.Inspection, int64, error) {
	return s.repos.Inspection.List(ctx, params)
}

type UpdateInspectionInput struct {
	InspectorID      *string    `json:"inspector_id"`
	ScheduledDate    *time.Time `json:"scheduled_date"`
	OverallCondition *string    `json:"overall_condition"`
	Recommendations  *string    `json:"recommendations"`
	EstimatedCost    *float64   `json:"estimated_cost"`
}

func (s *InspectionService) Update(ctx context.Context, orgID, id, callerID, callerRole string, input UpdateInspectionInput) (*entity.Inspection, error) {
	inspection, err := s.Get(ctx, orgID, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if input.InspectorID != nil {
		inspector, err := s.repos.User.FindByID(ctx, *input.InspectorID)
		if err != nil || inspector.OrganizationID != orgID {
			return nil, fmt.Errorf("inspector not found")
		}
		inspection.InspectorID = *input.InspectorID
	}
	if input.ScheduledDate != nil {
		inspection.ScheduledDate = *input.ScheduledDate
	}
	if input.OverallCondition != nil {
		inspection.OverallCondition = *input.OverallCondition
	}
	if input.Recommendations != nil {
		inspection.Recommendations = *input.Recommendations
	}
	if input.EstimatedCost != nil {
		inspection.EstimatedCost = input.EstimatedCost
	}
	inspection.UpdatedAt = time.Now()

	if err := s.repos.Inspection.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("update inspection: %w", err)
	}
	return inspection, nil
}

// UpdateStatus moves the inspection through its lifecycle, stamping actual
// times the same way sessions do.
func (s *InspectionService) UpdateStatus(ctx context.Context, orgID, id, callerID, callerRole, status string) (*entity.Inspection, error) {
	if !entity.ValidInspectionStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	inspection, err := s.Get(ctx, orgID, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch status {
	case entity.InspectionInProgress:
		if inspection.ActualStartTime == nil {
			inspection.ActualStartTime = &now
		}
	case entity.InspectionCompleted:
		if inspection.ActualStartTime == nil {
			inspection.ActualStartTime = &now
		}
		if inspection.ActualEndTime == nil {
			inspection.ActualEndTime = &now
		}
	}
	inspection.Status = status
	inspection.UpdatedAt = now

	if err := s.repos.Inspection.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("update inspection: %w", err)
	}

	if status == entity.InspectionWaitingApproval {
		s.notifier.NotifyManagers(ctx, orgID,
			"Inspection awaiting approval",
			fmt.Sprintf("Inspection %s is waiting for client approval", inspection.InspectionNumber),
			entity.NotifyInfo,
			&NotificationRefs{InspectionID: &inspection.ID},
		)
	}
	return inspection, nil
}

// Approve records the client's sign-off and notifies the inspector.
func (s *InspectionService) Approve(ctx context.Context, orgID, id string) (*entity.Inspection, error) {
	inspection, err := s.repos.Inspection.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if inspection.ClientApproved {
		return inspection, nil
	}

	inspection.ClientApproved = true
	if inspection.Status == entity.InspectionWaitingApproval {
		inspection.Status = entity.InspectionCompleted
		now := time.Now()
		if inspection.ActualEndTime == nil {
			inspection.ActualEndTime = &now
		}
	}
	inspection.UpdatedAt = time.Now()

	if err := s.repos.Inspection.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("approve inspection: %w", err)
	}

	s.notifier.Notify(ctx, orgID, inspection.InspectorID,
		"Inspection approved",
		fmt.Sprintf("Client approved inspection %s", inspection.InspectionNumber),
		entity.NotifySuccess,
		&NotificationRefs{InspectionID: &inspection.ID},
	)
	return inspection, nil
}

type InspectionItemInput struct {
	Component           string   `json:"component" binding:"required"`
	Condition           string   `json:"condition" binding:"required"`
	NeedsRepair         bool     `json:"needs_repair"`
	EstimatedRepairCost *float64 `json:"estimated_repair_cost"`
	Notes               string   `json:"notes"`
}

func validCondition(c string) bool {
	switch c {
	case entity.ConditionExcellent, entity.ConditionGood, entity.ConditionFair, entity.ConditionPoor:
		return true
	}
	return false
}

func (s *InspectionService) AddItem(ctx context.Context, orgID, inspectionID, callerID, callerRole string, input InspectionItemInput) (*entity.InspectionItem, error) {
	if _, err := s.Get(ctx, orgID, inspectionID, callerID, callerRole); err != nil {
		return nil, err
	}
	if !validCondition(input.Condition) {
		return nil, fmt.Errorf("invalid condition: %s", input.Condition)
	}

	now := time.Now()
	item := &entity.InspectionItem{
		ID:                  uuid.New().String(),
		InspectionID:        inspectionID,
		Component:           input.Component,
		Condition:           input.Condition,
		NeedsRepair:         input.NeedsRepair,
		EstimatedRepairCost: input.EstimatedRepairCost,
		Notes:               input.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repos.Inspection.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *InspectionService) UpdateItem(ctx context.Context, orgID, inspectionID, itemID, callerID, callerRole string, input InspectionItemInput) (*entity.InspectionItem, error) {
	if _, err := s.Get(ctx, orgID, inspectionID, callerID, callerRole); err != nil {
		return nil, err
	}
	item, err := s.repos.Inspection.FindItem(ctx, inspectionID, itemID)
	if err != nil {
		return nil, err
	}
	if !validCondition(input.Condition) {
		return nil, fmt.Errorf("invalid condition: %s", input.Condition)
	}

	item.Component = input.Component
	item.Condition = input.Condition
	item.NeedsRepair = input.NeedsRepair
	item.EstimatedRepairCost = input.EstimatedRepairCost
	item.Notes = input.Notes
	item.UpdatedAt = time.Now()

	if err := s.repos.Inspection.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (s *InspectionService) DeleteItem(ctx context.Context, orgID, inspectionID, itemID, callerID, callerRole string) error {
	if _, err := s.Get(ctx, orgID, inspectionID, callerID, callerRole); err != nil {
		return err
	}
	item, err := s.repos.Inspection.FindItem(ctx, inspectionID, itemID)
	if err != nil {
		return err
	}
	return s.repos.Inspection.DeleteItem(ctx, item.ID)
}
