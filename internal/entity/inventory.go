package entity

import (
	"time"
)

// Inventory transaction types
const (
	TxUsage      = "usage"
	TxRestock    = "restock"
	TxAdjustment = "adjustment"
)

// Inventory is a stocked part.
type Inventory struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID string    `json:"organization_id" gorm:"size:36;not null;index"`
	Name           string    `json:"name" gorm:"size:200;not null"`
	PartNumber     string    `json:"part_number" gorm:"size:50;not null;uniqueIndex"`
	Description    string    `json:"description" gorm:"type:text"`
	Category       string    `json:"category" gorm:"size:50;index"`
	Quantity       int       `json:"quantity" gorm:"not null;default:0"`
	MinQuantity    int       `json:"min_quantity" gorm:"not null;default:0"`
	UnitPrice      float64   `json:"unit_price" gorm:"type:decimal(10,2);not null;default:0"`
	Supplier       string    `json:"supplier" gorm:"size:200"`
	Location       string    `json:"location" gorm:"size:100"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

func (Inventory) TableName() string {
	return "inventory"
}

// IsLowStock is true when quantity is at or below the configured minimum.
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// InventoryTransaction is one ledger entry against a part. Usage entries
// record the requested quantity even when stock was short of it.
type InventoryTransaction struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID  string    `json:"organization_id" gorm:"size:36;not null;index"`
	InventoryID     string    `json:"inventory_id" gorm:"size:36;not null;index"`
	SessionID       *string   `json:"session_id" gorm:"size:36;index"`
	TransactionType string    `json:"transaction_type" gorm:"size:20;not null"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	UnitPrice       float64   `json:"unit_price" gorm:"type:decimal(10,2);not null;default:0"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedBy       string    `json:"created_by" gorm:"size:36;not null"`
	CreatedAt       time.Time `json:"created_at"`

	Inventory *Inventory `json:"inventory,omitempty" gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE"`
	Session   *Session   `json:"session,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:SET NULL"`
}

func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
