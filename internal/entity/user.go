package entity

import (
	"time"
)

// Staff roles
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleTechnician   = "technician"
	RoleReceptionist = "receptionist"
)

// User is a staff account scoped to one organization. The profile fields
// (role, employee id, hire date) live on the same row.
type User struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID string     `json:"organization_id" gorm:"size:36;not null;index"`
	Email          string     `json:"email" gorm:"size:254;not null;uniqueIndex"`
	PasswordHash   string     `json:"-" gorm:"size:128;not null"`
	FirstName      string     `json:"first_name" gorm:"size:100;not null"`
	LastName       string     `json:"last_name" gorm:"size:100;not null"`
	Role           string     `json:"role" gorm:"size:20;not null;default:technician"`
	Phone          string     `json:"phone" gorm:"size:20"`
	EmployeeID     string     `json:"employee_id" gorm:"size:50"`
	HireDate       *time.Time `json:"hire_date" gorm:"type:date"`
	IsActive       bool       `json:"is_active" gorm:"not null;default:true"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name for display and reports.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ValidRole reports whether r is one of the four staff roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleReceptionist:
		return true
	}
	return false
}
