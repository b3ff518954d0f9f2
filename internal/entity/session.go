package entity

import (
	"time"
)

// Session statuses
const (
	SessionScheduled  = "scheduled"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionCancelled  = "cancelled"
)

// Session is one repair visit for one car, from intake through completion.
// SessionNumber is assigned at first persistence (SES<YYYYMMDD><seq>).
type Session struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID  string     `json:"organization_id" gorm:"size:36;not null;index"`
	CarID           string     `json:"car_id" gorm:"size:36;not null;index"`
	TechnicianID    string     `json:"technician_id" gorm:"size:36;not null;index"`
	SessionNumber   string     `json:"session_number" gorm:"size:50;not null;uniqueIndex"`
	ScheduledDate   time.Time  `json:"scheduled_date" gorm:"not null;index"`
	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`
	Status          string     `json:"status" gorm:"size:20;not null;default:scheduled;index"`
	Description     string     `json:"description" gorm:"type:text"`
	Notes           string     `json:"notes" gorm:"type:text"`
	EstimatedCost   *float64   `json:"estimated_cost" gorm:"type:decimal(10,2)"`
	ActualCost      *float64   `json:"actual_cost" gorm:"type:decimal(10,2)"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Organization *Organization  `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Car          *Car           `json:"car,omitempty" gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE"`
	Technician   *User          `json:"technician,omitempty" gorm:"foreignKey:TechnicianID"`
	JobCards     []JobCard      `json:"job_cards,omitempty" gorm:"foreignKey:SessionID"`
	Media        []SessionMedia `json:"media,omitempty" gorm:"foreignKey:SessionID"`
}

func (Session) TableName() string {
	return "sessions"
}

// Duration returns the elapsed work time, or zero when either bound is unset.
func (s *Session) Duration() time.Duration {
	if s.ActualStartTime == nil || s.ActualEndTime == nil {
		return 0
	}
	return s.ActualEndTime.Sub(*s.ActualStartTime)
}

// ValidSessionStatus reports whether st is a known session status.
func ValidSessionStatus(st string) bool {
	switch st {
	case SessionScheduled, SessionInProgress, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// SessionMedia is a photo or document attached to a session, stored in
// object storage under ObjectKey.
type SessionMedia struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	SessionID   string    `json:"session_id" gorm:"size:36;not null;index"`
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	ObjectKey   string    `json:"object_key" gorm:"size:512;not null"`
	ContentType string    `json:"content_type" gorm:"size:100"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:36;not null"`
	CreatedAt   time.Time `json:"created_at"`

	Session *Session `json:"session,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (SessionMedia) TableName() string {
	return "session_media"
}
