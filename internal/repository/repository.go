package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row in the caller's
// organization.
var ErrNotFound = errors.New("record not found")

// Repositories groups all data access for dependency wiring.
type Repositories struct {
	Organization *OrganizationRepository
	User         *UserRepository
	Client       *ClientRepository
	Car          *CarRepository
	Session      *SessionRepository
	Inventory    *InventoryRepository
	Inspection   *InspectionRepository
	Notification *NotificationRepository
	Report       *ReportRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Organization: NewOrganizationRepository(db),
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Car:          NewCarRepository(db),
		Session:      NewSessionRepository(db),
		Inventory:    NewInventoryRepository(db),
		Inspection:   NewInspectionRepository(db),
		Notification: NewNotificationRepository(db),
		Report:       NewReportRepository(db),
	}
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// postgres or sqlite. Number generation retries on it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
