package repository

import (
	"context"
	"time"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// NextSessionNumber generates the next SES<YYYYMMDD>NNN identifier.
func (r *SessionRepository) NextSessionNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	if tx == nil {
		tx = r.db
	}
	return NextNumber(ctx, tx, "sessions", "session_number", PrefixSession, now)
}

// NextJobNumber generates the next JOB<YYYYMMDD>NNN identifier.
func (r *SessionRepository) NextJobNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	if tx == nil {
		tx = r.db
	}
	return NextNumber(ctx, tx, "job_cards", "job_number", PrefixJob, now)
}

func (r *SessionRepository) Create(ctx context.Context, tx *gorm.DB, session *entity.Session) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) FindByID(ctx context.Context, orgID, id string) (*entity.Session, error) {
	var session entity.Session
	err := r.db.WithContext(ctx).
		Preload("Car").
		Preload("Car.Client").
		Preload("Technician").
		Preload("JobCards").
		Preload("Media").
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&session).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

type SessionListParams struct {
	OrganizationID string
	TechnicianID   string
	Status         string
	Search         string
	Page           int
	Size           int
}

func (r *SessionRepository) List(ctx context.Context, params SessionListParams) ([]entity.Session, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Session{}).
		Where("sessions.organization_id = ?", params.OrganizationID)
	if params.TechnicianID != "" {
		query = query.Where("sessions.technician_id = ?", params.TechnicianID)
	}
	if params.Status != "" {
		query = query.Where("sessions.status = ?", params.Status)
	}
	if params.Search != "" {
		kw := "%" + params.Search + "%"
		query = query.
			Joins("JOIN cars ON cars.id = sessions.car_id").
			Joins("JOIN clients ON clients.id = cars.client_id").
			Where("sessions.session_number LIKE ? OR cars.make LIKE ? OR cars.model LIKE ? OR cars.license_plate LIKE ? OR clients.first_name LIKE ? OR clients.last_name LIKE ?",
				kw, kw, kw, kw, kw, kw)
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

	var sessions []entity.Session
	err := query.
		Preload("Car").
		Preload("Car.Client").
		Preload("Technician").
		Preload("JobCards").
		Order("sessions.scheduled_date DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&sessions).Error
	return sessions, total, err
}

// Recent returns the latest sessions for the dashboard. Technicians only
// see their own.
func (r *SessionRepository) Recent(ctx context.Context, orgID, technicianID string, limit int) ([]entity.Session, error) {
	query := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID)
	if technicianID != "" {
		query = query.Where("technician_id = ?", technicianID)
	}
	var sessions []entity.Session
	err := query.
		Preload("Car").
		Preload("Car.Client").
		Preload("Technician").
		Order("scheduled_date DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) Update(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *SessionRepository) CreateJobCard(ctx context.Context, tx *gorm.DB, job *entity.JobCard) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(job).Error
}

func (r *SessionRepository) FindJobCard(ctx context.Context, orgID, sessionID, jobID string) (*entity.JobCard, error) {
	var job entity.JobCard
	err := r.db.WithContext(ctx).
		Joins("JOIN sessions ON sessions.id = job_cards.session_id").
		Where("job_cards.id = ? AND job_cards.session_id = ? AND sessions.organization_id = ?", jobID, sessionID, orgID).
		First(&job).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &job, nil
}

func (r *SessionRepository) ListJobCards(ctx context.Context, sessionID string) ([]entity.JobCard, error) {
	var jobs []entity.JobCard
	err := r.db.WithContext(ctx).
		Preload("AssignedTechnician").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *SessionRepository) UpdateJobCard(ctx context.Context, job *entity.JobCard) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *SessionRepository) DeleteJobCard(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.JobCard{}, "id = ?", id).Error
}

func (r *SessionRepository) CreateMedia(ctx context.Context, media *entity.SessionMedia) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *SessionRepository) FindMedia(ctx context.Context, sessionID, mediaID string) (*entity.SessionMedia, error) {
	var media entity.SessionMedia
	err := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", mediaID, sessionID).
		First(&media).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &media, nil
}

func (r *SessionRepository) ListMedia(ctx context.Context, sessionID string) ([]entity.SessionMedia, error) {
	var media []entity.SessionMedia
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&media).Error
	return media, err
}
