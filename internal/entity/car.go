package entity

import (
	"time"
)

// Fuel types
const (
	FuelPetrol   = "petrol"
	FuelDiesel   = "diesel"
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
)

// Car is a vehicle owned by a client.
type Car struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID string    `json:"organization_id" gorm:"size:36;not null;index"`
	ClientID       string    `json:"client_id" gorm:"size:36;not null;index"`
	Make           string    `json:"make" gorm:"size:50;not null"`
	Model          string    `json:"model" gorm:"size:50;not null"`
	Year           int       `json:"year" gorm:"not null"`
	Color          string    `json:"color" gorm:"size:30"`
	LicensePlate   string    `json:"license_plate" gorm:"size:20;not null;uniqueIndex"`
	VIN            string    `json:"vin" gorm:"size:17;uniqueIndex"`
	EngineNumber   string    `json:"engine_number" gorm:"size:50"`
	FuelType       string    `json:"fuel_type" gorm:"size:20;not null;default:petrol"`
	Mileage        int       `json:"mileage" gorm:"not null;default:0"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Client       *Client       `json:"client,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

func (Car) TableName() string {
	return "cars"
}
