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

// SessionService handles repair sessions, their job cards, and the inventory
// side effects of part usage.
type SessionService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	notifier *NotificationService
	cache    *Cache
	logger   *zap.Logger
}

func NewSessionService(db *gorm.DB, repos *repository.Repositories, notifier *NotificationService, cache *Cache, logger *zap.Logger) *SessionService {
	return &SessionService{db: db, repos: repos, notifier: notifier, cache: cache, logger: logger}
}

// JobItemInput is one job card line in a session creation payload.
type JobItemInput struct {
	Title                string   `json:"title" binding:"required"`
	Description          string   `json:"description"`
	Priority             string   `json:"priority"`
	AssignedTechnicianID string   `json:"assigned_technician_id"`
	EstimatedHours       *float64 `json:"estimated_hours"`
	PartsCost            float64  `json:"parts_cost"`
	LaborCost            float64  `json:"labor_cost"`
}

// PartItemInput is one part usage line. Parts are matched by name within
// the organization; unknown names create a zero-stock part first.
type PartItemInput struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price"`
}

type CreateSessionInput struct {
	CarID         string     `json:"car_id" binding:"required"`
	TechnicianID  string     `json:"technician_id" binding:"required"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Description   string     `json:"description"`
	EstimatedCost *float64   `json:"estimated_cost"`

	Jobs  []JobItemInput  `json:"jobs"`
	Parts []PartItemInput `json:"parts"`
}

// Create persists the session with all its job cards and part usage in one
// transaction. A generated-number collision with a concurrent writer retries
// the whole transaction.
func (s *SessionService) Create(ctx context.Context, orgID, createdBy string, input CreateSessionInput) (*entity.Session, error) {
	car, err := s.repos.Car.FindByID(ctx, orgID, input.CarID)
	if err != nil {
		return nil, fmt.Errorf("car not found")
	}
	technician, err := s.repos.User.FindByID(ctx, input.TechnicianID)
	if err != nil || technician.OrganizationID != orgID {
		return nil, fmt.Errorf("technician not found")
	}
	for _, job := range input.Jobs {
		if job.Priority != "" && !validPriority(job.Priority) {
			return nil, fmt.Errorf("invalid priority: %s", job.Priority)
		}
	}

	var session *entity.Session
	var lastErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		session, lastErr = s.createOnce(ctx, orgID, createdBy, car, input)
		if lastErr == nil {
			break
		}
		if !repository.IsUniqueViolation(lastErr) {
			return nil, lastErr
		}
		s.logger.Warn("Number collision during session creation, retrying",
			zap.String("organization_id", orgID),
			zap.Int("attempt", attempt+1),
		)
	}
	if lastErr != nil {
		return nil, lastErr
	}

	s.cache.InvalidateDashboard(ctx, orgID)
	s.logger.Info("Session created",
		zap.String("organization_id", orgID),
		zap.String("session_number", session.SessionNumber),
		zap.Int("jobs", len(input.Jobs)),
		zap.Int("parts", len(input.Parts)),
	)
	return s.repos.Session.FindByID(ctx, orgID, session.ID)
}

func (s *SessionService) createOnce(ctx context.Context, orgID, createdBy string, car *entity.Car, input CreateSessionInput) (*entity.Session, error) {
	now := time.Now()
	scheduled := now
	if input.ScheduledDate != nil {
		scheduled = *input.ScheduledDate
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
		number, err := s.repos.Session.NextSessionNumber(ctx, tx, now)
		if err != nil {
			return err
		}
		session.SessionNumber = number
		if err := s.repos.Session.Create(ctx, tx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		for _, item := range input.Jobs {
			if err := s.createJobCardTx(ctx, tx, session, item, now); err != nil {
				return err
			}
		}
		for _, item := range input.Parts {
			if err := s.usePartTx(ctx, tx, orgID, session.ID, createdBy, item, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) createJobCardTx(ctx context.Context, tx *gorm.DB, session *entity.Session, item JobItemInput, now time.Time) error {
	number, err := s.repos.Session.NextJobNumber(ctx, tx, now)
	if err != nil {
		return err
	}
	technicianID := item.AssignedTechnicianID
	if technicianID == "" {
		technicianID = session.TechnicianID
	}
	job := &entity.JobCard{
		ID:                   uuid.New().String(),
		SessionID:            session.ID,
		JobNumber:            number,
		Title:                item.Title,
		Description:          item.Description,
		Priority:             defaultStr(item.Priority, entity.PriorityMedium),
		Status:               entity.JobPending,
		AssignedTechnicianID: technicianID,
		EstimatedHours:       item.EstimatedHours,
		PartsCost:            item.PartsCost,
		LaborCost:            item.LaborCost,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repos.Session.CreateJobCard(ctx, tx, job); err != nil {
		return fmt.Errorf("create job card: %w", err)
	}
	return nil
}

// usePartTx resolves a part line against inventory. Missing parts are
// created with zero stock so the usage ledger stays complete. Short stock
// leaves the quantity untouched and logs a warning instead of failing the
// session.
func (s *SessionService) usePartTx(ctx context.Context, tx *gorm.DB, orgID, sessionID, createdBy string, item PartItemInput, now time.Time) error {
	part, err := s.repos.Inventory.FindByName(ctx, tx, orgID, item.Name)
	if err == repository.ErrNotFound {
		number, numErr := s.repos.Inventory.NextPartNumber(ctx, tx, now)
		if numErr != nil {
			return numErr
		}
		part = &entity.Inventory{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			Name:           item.Name,
			PartNumber:     number,
			Quantity:       0,
			MinQuantity:    0,
			UnitPrice:      item.UnitPrice,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repos.Inventory.Create(ctx, tx, part); err != nil {
			return fmt.Errorf("create part: %w", err)
		}
		s.logger.Info("Part auto-created from session line",
			zap.String("organization_id", orgID),
			zap.String("part_number", part.PartNumber),
			zap.String("name", part.Name),
		)
	} else if err != nil {
		return fmt.Errorf("find part: %w", err)
	}

	if part.Quantity >= item.Quantity {
		part.Quantity -= item.Quantity
		part.UpdatedAt = now
		if err := s.repos.Inventory.Update(ctx, tx, part); err != nil {
			return fmt.Errorf("update part stock: %w", err)
		}
	} else {
		s.logger.Warn("Insufficient stock, quantity left unchanged",
			zap.String("organization_id", orgID),
			zap.String("part_number", part.PartNumber),
			zap.Int("in_stock", part.Quantity),
			zap.Int("requested", item.Quantity),
		)
	}

	unitPrice := item.UnitPrice
	if unitPrice == 0 {
		unitPrice = part.UnitPrice
	}
	// the ledger records what was requested, not what stock allowed
	txn := &entity.InventoryTransaction{
		ID:              uuid.New().String(),
		OrganizationID:  orgID,
		InventoryID:     part.ID,
		SessionID:       &sessionID,
		TransactionType: entity.TxUsage,
		Quantity:        item.Quantity,
		UnitPrice:       unitPrice,
		CreatedBy:       createdBy,
		CreatedAt:       now,
	}
	if err := s.repos.Inventory.CreateTransaction(ctx, tx, txn); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Get returns a session. Technicians only see sessions assigned to them.
func (s *SessionService) Get(ctx context.Context, orgID, id, callerID, callerRole string) (*entity.Session, error) {
	session, err := s.repos.Session.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if callerRole == entity.RoleTechnician && session.TechnicianID != callerID {
		return nil, repository.ErrNotFound
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context, params repository.SessionListParams) ([]entity.Session, int64, error) {
	return s.repos.Session.List(ctx, params)
}

type UpdateSessionInput struct {
	TechnicianID  *string    `json:"technician_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Description   *string    `json:"description"`
	Notes         *string    `json:"notes"`
	EstimatedCost *float64   `json:"estimated_cost"`
	ActualCost    *float64   `json:"actual_cost"`
}

func (s *SessionService) Update(ctx context.Context, orgID, id, callerID, callerRole string, input UpdateSessionInput) (*entity.Session, error) {
	session, err := s.Get(ctx, orgID, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if input.TechnicianID != nil {
		technician, err := s.repos.User.FindByID(ctx, *input.TechnicianID)
		if err != nil || technician.OrganizationID != orgID {
			return nil, fmt.Errorf("technician not found")
		}
		session.TechnicianID = *input.TechnicianID
	}
	if input.ScheduledDate != nil {
		session.ScheduledDate = *input.ScheduledDate
	}
	if input.Description != nil {
		session.Description = *input.Description
	}
	if input.Notes != nil {
		session.Notes = *input.Notes
	}
	if input.EstimatedCost != nil {
		session.EstimatedCost = input.EstimatedCost
	}
	if input.ActualCost != nil {
		session.ActualCost = input.ActualCost
	}
	session.UpdatedAt = time.Now()

	if err := s.repos.Session.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	s.cache.InvalidateDashboard(ctx, orgID)
	return session, nil
}

// UpdateStatus moves the session through its lifecycle. Starting stamps the
// actual start time, completing stamps the end time, fills the actual cost
// from job cards when unset, and notifies the technician.
func (s *SessionService) UpdateStatus(ctx context.Context, orgID, id, callerID, callerRole, status string) (*entity.Session, error) {
	if !entity.ValidSessionStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	session, err := s.Get(ctx, orgID, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch status {
	case entity.SessionInProgress:
		if session.ActualStartTime == nil {
			session.ActualStartTime = &now
		}
	case entity.SessionCompleted:
		if session.ActualStartTime == nil {
			session.ActualStartTime = &now
		}
		if session.ActualEndTime == nil {
			session.ActualEndTime = &now
		}
		if session.ActualCost == nil {
			var total float64
			for _, job := range session.JobCards {
				total += job.TotalCost()
			}
			session.ActualCost = &total
		}
	}
	session.Status = status
	session.UpdatedAt = now

	if err := s.repos.Session.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if status == entity.SessionCompleted {
		s.notifier.Notify(ctx, orgID, session.TechnicianID,
			"Session completed",
			fmt.Sprintf("Session %s has been marked completed", session.SessionNumber),
			entity.NotifySuccess,
			&NotificationRefs{SessionID: &session.ID},
		)
	}
	s.cache.InvalidateDashboard(ctx, orgID)
	s.logger.Info("Session status changed",
		zap.String("organization_id", orgID),
		zap.String("session_number", session.SessionNumber),
		zap.String("status", status),
	)
	return session, nil
}

// AddJobCard appends one job card to an existing session.
func (s *SessionService) AddJobCard(ctx context.Context, orgID, sessionID, callerID, callerRole string, item JobItemInput) (*entity.JobCard, error) {
	session, err := s.Get(ctx, orgID, sessionID, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	if item.Priority != "" && !validPriority(item.Priority) {
		return nil, fmt.Errorf("invalid priority: %s", item.Priority)
	}

	var created *entity.JobCard
	var lastErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		now := time.Now()
		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := s.repos.Session.NextJobNumber(ctx, tx, now)
			if err != nil {
				return err
			}
			technicianID := item.AssignedTechnicianID
			if technicianID == "" {
				technicianID = session.TechnicianID
			}
			created = &entity.JobCard{
				ID:                   uuid.New().String(),
				SessionID:            session.ID,
				JobNumber:            number,
				Title:                item.Title,
				Description:          item.Description,
				Priority:             defaultStr(item.Priority, entity.PriorityMedium),
				Status:               entity.JobPending,
				AssignedTechnicianID: technicianID,
				EstimatedHours:       item.EstimatedHours,
				PartsCost:            item.PartsCost,
				LaborCost:            item.LaborCost,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			return s.repos.Session.CreateJobCard(ctx, tx, created)
		})
		if lastErr == nil {
			return created, nil
		}
		if !repository.IsUniqueViolation(lastErr) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

type UpdateJobCardInput struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Priority       *string  `json:"priority"`
	Status         *string  `json:"status"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    *float64 `json:"actual_hours"`
	PartsCost      *float64 `json:"parts_cost"`
	LaborCost      *float64 `json:"labor_cost"`
	Notes          *string  `json:"notes"`
}

func (s *SessionService) UpdateJobCard(ctx context.Context, orgID, sessionID, jobID, callerID, callerRole string, input UpdateJobCardInput) (*entity.JobCard, error) {
	if _, err := s.Get(ctx, orgID, sessionID, callerID, callerRole); err != nil {
		return nil, err
	}
	job, err := s.repos.Session.FindJobCard(ctx, orgID, sessionID, jobID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if input.Title != nil {
		job.Title = *input.Title
	}
	if input.Description != nil {
		job.Description = *input.Description
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, fmt.Errorf("invalid priority: %s", *input.Priority)
		}
		job.Priority = *input.Priority
	}
	if input.Status != nil {
		if !validJobStatus(*input.Status) {
			return nil, fmt.Errorf("invalid status: %s", *input.Status)
		}
		switch *input.Status {
		case entity.JobInProgress:
			if job.StartedAt == nil {
				job.StartedAt = &now
			}
		case entity.JobCompleted:
			if job.CompletedAt == nil {
				job.CompletedAt = &now
			}
		}
		job.Status = *input.Status
	}
	if input.EstimatedHours != nil {
		job.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != nil {
		job.ActualHours = input.ActualHours
	}
	if input.PartsCost != nil {
		job.PartsCost = *input.PartsCost
	}
	if input.LaborCost != nil {
		job.LaborCost = *input.LaborCost
	}
	if input.Notes != nil {
		job.Notes = *input.Notes
	}
	job.UpdatedAt = now

	if err := s.repos.Session.UpdateJobCard(ctx, job); err != nil {
		return nil, fmt.Errorf("update job card: %w", err)
	}
	return job, nil
}

func (s *SessionService) DeleteJobCard(ctx context.Context, orgID, sessionID, jobID, callerID, callerRole string) error {
	if _, err := s.Get(ctx, orgID, sessionID, callerID, callerRole); err != nil {
		return err
	}
	job, err := s.repos.Session.FindJobCard(ctx, orgID, sessionID, jobID)
	if err != nil {
		return err
	}
	return s.repos.Session.DeleteJobCard(ctx, job.ID)
}

func validPriority(p string) bool {
	switch p {
	case entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh, entity.PriorityUrgent:
		return true
	}
	return false
}

func validJobStatus(st string) bool {
	switch st {
	case entity.JobPending, entity.JobInProgress, entity.JobCompleted, entity.JobOnHold:
		return true
	}
	return false
}
