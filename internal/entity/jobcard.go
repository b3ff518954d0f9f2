package entity

import (
	"time"
)

// Job card statuses
const (
	JobPending    = "pending"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobOnHold     = "on_hold"
)

// Job card priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// JobCard is one billable task within a session. JobNumber is assigned at
// first persistence (JOB<YYYYMMDD><seq>).
type JobCard struct {
	ID                   string     `json:"id" gorm:"primaryKey;size:36"`
	SessionID            string     `json:"session_id" gorm:"size:36;not null;index"`
	JobNumber            string     `json:"job_number" gorm:"size:50;not null;uniqueIndex"`
	Title                string     `json:"title" gorm:"size:200;not null"`
	Description          string     `json:"description" gorm:"type:text"`
	Priority             string     `json:"priority" gorm:"size:20;not null;default:medium"`
	Status               string     `json:"status" gorm:"size:20;not null;default:pending"`
	AssignedTechnicianID string     `json:"assigned_technician_id" gorm:"size:36;not null;index"`
	EstimatedHours       *float64   `json:"estimated_hours" gorm:"type:decimal(5,2)"`
	ActualHours          *float64   `json:"actual_hours" gorm:"type:decimal(5,2)"`
	PartsCost            float64    `json:"parts_cost" gorm:"type:decimal(10,2);not null;default:0"`
	LaborCost            float64    `json:"labor_cost" gorm:"type:decimal(10,2);not null;default:0"`
	StartedAt            *time.Time `json:"started_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	Notes                string     `json:"notes" gorm:"type:text"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Session            *Session `json:"session,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	AssignedTechnician *User    `json:"assigned_technician,omitempty" gorm:"foreignKey:AssignedTechnicianID"`
}

func (JobCard) TableName() string {
	return "job_cards"
}

// TotalCost is parts plus labor. Derived, never stored.
func (j *JobCard) TotalCost() float64 {
	return j.PartsCost + j.LaborCost
}
