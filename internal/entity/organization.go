package entity

import (
	"time"
)

// Organization is the tenant boundary. Every business row carries an
// organization FK and every query filters by it.
type Organization struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:36"`
	Name               string    `json:"name" gorm:"size:200;not null"`
	Address            string    `json:"address" gorm:"type:text"`
	Phone              string    `json:"phone" gorm:"size:20"`
	Email              string    `json:"email" gorm:"size:254"`
	RegistrationNumber string    `json:"registration_number" gorm:"size:50;uniqueIndex"`
	Currency           string    `json:"currency" gorm:"size:3;not null;default:USD"`
	Timezone           string    `json:"timezone" gorm:"size:64;not null;default:UTC"`
	IsActive           bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}
