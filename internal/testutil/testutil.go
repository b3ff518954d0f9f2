// Package testutil provides shared fixtures for package-level tests: an
// in-memory database, a quiet logger, and seed rows.
package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/husainf4l/gixat/internal/config"
	"github.com/husainf4l/gixat/internal/entity"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret signs tokens in handler tests.
const TestJWTSecret = "test-secret"

// SetupDB opens an in-memory sqlite database with the full schema. The DSN
// names a per-call shared-cache database so every pooled connection (e.g.
// those checked out by transactions) sees the same schema.
func SetupDB() *gorm.DB {
	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	err = db.AutoMigrate(
		&entity.Organization{},
		&entity.User{},
		&entity.Client{},
		&entity.Car{},
		&entity.Session{},
		&entity.SessionMedia{},
		&entity.JobCard{},
		&entity.Inventory{},
		&entity.InventoryTransaction{},
		&entity.Inspection{},
		&entity.InspectionItem{},
		&entity.Notification{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

// Logger returns a no-op logger for service construction.
func Logger() *zap.Logger {
	return zap.NewNop()
}

// Config returns a minimal config for services under test. Redis is left
// unconfigured; caches degrade to direct reads.
func Config() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             TestJWTSecret,
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
			Issuer:             "gixat-test",
		},
		Cache: config.CacheConfig{
			DashboardTTL:   5 * time.Minute,
			PermissionsTTL: 30 * time.Minute,
		},
	}
}

// CreateOrganization seeds a tenant.
func CreateOrganization(db *gorm.DB, name string) *entity.Organization {
	org := &entity.Organization{
		ID:                 uuid.New().String(),
		Name:               name,
		RegistrationNumber: uuid.New().String()[:12],
		Currency:           "USD",
		Timezone:           "UTC",
		IsActive:           true,
	}
	if err := db.Create(org).Error; err != nil {
		panic(err)
	}
	return org
}

// CreateUser seeds a staff account with the given role.
func CreateUser(db *gorm.DB, orgID, email, role string) *entity.User {
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Email:          email,
		PasswordHash:   "x",
		FirstName:      "Test",
		LastName:       "User",
		Role:           role,
		IsActive:       true,
	}
	if err := db.Create(user).Error; err != nil {
		panic(err)
	}
	return user
}

// CreateClient seeds a customer.
func CreateClient(db *gorm.DB, orgID string) *entity.Client {
	client := &entity.Client{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		FirstName:      "Jamal",
		LastName:       "Haddad",
		Phone:          "+971500000000",
		IsActive:       true,
	}
	if err := db.Create(client).Error; err != nil {
		panic(err)
	}
	return client
}

// CreateCar seeds a vehicle for the client.
func CreateCar(db *gorm.DB, orgID, clientID string) *entity.Car {
	car := &entity.Car{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ClientID:       clientID,
		Make:           "Toyota",
		Model:          "Land Cruiser",
		Year:           2021,
		LicensePlate:   "T-" + uuid.New().String()[:8],
		VIN:            "V" + uuid.New().String()[:16],
		FuelType:       entity.FuelPetrol,
		IsActive:       true,
	}
	if err := db.Create(car).Error; err != nil {
		panic(err)
	}
	return car
}

// CreateSession seeds a session with an explicit number and status.
func CreateSession(db *gorm.DB, orgID, carID, technicianID, number, status string) *entity.Session {
	session := &entity.Session{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CarID:          carID,
		TechnicianID:   technicianID,
		SessionNumber:  number,
		ScheduledDate:  time.Now(),
		Status:         status,
	}
	if err := db.Create(session).Error; err != nil {
		panic(err)
	}
	return session
}

// CreateInventory seeds a part with the given stock level.
func CreateInventory(db *gorm.DB, orgID, name string, quantity, minQuantity int, unitPrice float64) *entity.Inventory {
	item := &entity.Inventory{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		PartNumber:     "P-" + uuid.New().String()[:8],
		Quantity:       quantity,
		MinQuantity:    minQuantity,
		UnitPrice:      unitPrice,
	}
	if err := db.Create(item).Error; err != nil {
		panic(err)
	}
	return item
}

// Token signs an access token for handler tests, mirroring the claims the
// auth service issues.
func Token(user *entity.User) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"org":   user.OrganizationID,
		"role":  user.Role,
		"name":  user.FullName(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(TestJWTSecret))
	if err != nil {
		panic(err)
	}
	return signed
}
