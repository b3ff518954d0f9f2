package entity

import (
	"time"
)

// Notification types
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Notification is a per-user alert created as a side effect of other
// actions (session completion, low stock, inspection approval).
type Notification struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID      string    `json:"organization_id" gorm:"size:36;not null;index"`
	UserID              string    `json:"user_id" gorm:"size:36;not null;index"`
	Title               string    `json:"title" gorm:"size:200;not null"`
	Message             string    `json:"message" gorm:"type:text;not null"`
	NotificationType    string    `json:"notification_type" gorm:"size:20;not null;default:info"`
	IsRead              bool      `json:"is_read" gorm:"not null;default:false;index"`
	RelatedSessionID    *string   `json:"related_session_id" gorm:"size:36"`
	RelatedInspectionID *string   `json:"related_inspection_id" gorm:"size:36"`
	RelatedInventoryID  *string   `json:"related_inventory_id" gorm:"size:36"`
	CreatedAt           time.Time `json:"created_at"`

	Organization      *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	User              *User         `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RelatedSession    *Session      `json:"related_session,omitempty" gorm:"foreignKey:RelatedSessionID;constraint:OnDelete:SET NULL"`
	RelatedInspection *Inspection   `json:"related_inspection,omitempty" gorm:"foreignKey:RelatedInspectionID;constraint:OnDelete:SET NULL"`
	RelatedInventory  *Inventory    `json:"related_inventory,omitempty" gorm:"foreignKey:RelatedInventoryID;constraint:OnDelete:SET NULL"`
}

func (Notification) TableName() string {
	return "notifications"
}
