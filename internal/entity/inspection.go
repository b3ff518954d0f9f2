package entity

import (
	"time"
)

// Inspection statuses
const (
	InspectionScheduled       = "scheduled"
	InspectionInProgress      = "in_progress"
	InspectionCompleted       = "completed"
	InspectionWaitingApproval = "waiting_approval"
	InspectionCancelled       = "cancelled"
)

// Inspection item conditions
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// Inspection is a quality-control checklist visit for a car, independent of
// any repair session. InspectionNumber is assigned at first persistence
// (INS<YYYYMMDD><seq>).
type Inspection struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID   string     `json:"organization_id" gorm:"size:36;not null;index"`
	CarID            string     `json:"car_id" gorm:"size:36;not null;index"`
	InspectorID      string     `json:"inspector_id" gorm:"size:36;not null;index"`
	InspectionNumber string     `json:"inspection_number" gorm:"size:50;not null;uniqueIndex"`
	ScheduledDate    time.Time  `json:"scheduled_date" gorm:"not null"`
	ActualStartTime  *time.Time `json:"actual_start_time"`
	ActualEndTime    *time.Time `json:"actual_end_time"`
	Status           string     `json:"status" gorm:"size:20;not null;default:scheduled;index"`
	OverallCondition string     `json:"overall_condition" gorm:"type:text"`
	Recommendations  string     `json:"recommendations" gorm:"type:text"`
	EstimatedCost    *float64   `json:"estimated_cost" gorm:"type:decimal(10,2)"`
	ClientApproved   bool       `json:"client_approved" gorm:"not null;default:false"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Organization *Organization    `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Car          *Car             `json:"car,omitempty" gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE"`
	Inspector    *User            `json:"inspector,omitempty" gorm:"foreignKey:InspectorID"`
	Items        []InspectionItem `json:"items,omitempty" gorm:"foreignKey:InspectionID"`
}

func (Inspection) TableName() string {
	return "inspections"
}

// ValidInspectionStatus reports whether st is a known inspection status.
func ValidInspectionStatus(st string) bool {
	switch st {
	case InspectionScheduled, InspectionInProgress, InspectionCompleted,
		InspectionWaitingApproval, InspectionCancelled:
		return true
	}
	return false
}

// InspectionItem is one checked component within an inspection.
type InspectionItem struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:36"`
	InspectionID        string    `json:"inspection_id" gorm:"size:36;not null;index"`
	Component           string    `json:"component" gorm:"size:100;not null"`
	Condition           string    `json:"condition" gorm:"size:20;not null"`
	NeedsRepair         bool      `json:"needs_repair" gorm:"not null;default:false"`
	EstimatedRepairCost *float64  `json:"estimated_repair_cost" gorm:"type:decimal(10,2)"`
	Notes               string    `json:"notes" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Inspection *Inspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`
}

func (InspectionItem) TableName() string {
	return "inspection_items"
}
