package entity

import (
	"time"
)

// Client is a customer of the shop.
type Client struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID string     `json:"organization_id" gorm:"size:36;not null;index"`
	FirstName      string     `json:"first_name" gorm:"size:100;not null"`
	LastName       string     `json:"last_name" gorm:"size:100;not null"`
	Email          string     `json:"email" gorm:"size:254"`
	Phone          string     `json:"phone" gorm:"size:20;not null"`
	Address        string     `json:"address" gorm:"type:text"`
	DateOfBirth    *time.Time `json:"date_of_birth" gorm:"type:date"`
	IsActive       bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Cars         []Car         `json:"cars,omitempty" gorm:"foreignKey:ClientID"`
}

func (Client) TableName() string {
	return "clients"
}

// FullName joins first and last name for display.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
