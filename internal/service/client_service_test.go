package service

import (
	"context"
	"testing"

	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeCreatesClientCarAndSession(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)

	result, err := svc.Client.Intake(context.Background(), org.ID, IntakeInput{
		Client: CreateClientInput{
			FirstName: "Omar",
			LastName:  "Nasser",
			Phone:     "+971500000001",
		},
		Car: CreateCarInput{
			Make:         "Nissan",
			Model:        "Patrol",
			Year:         2022,
			LicensePlate: "D-12345",
		},
		TechnicianID: tech.ID,
		Description:  "Engine noise",
	})
	require.NoError(t, err)

	assert.Equal(t, "Omar", result.Client.FirstName)
	assert.Equal(t, result.Client.ID, result.Car.ClientID)
	assert.Equal(t, result.Car.ID, result.Session.CarID)
	assert.Equal(t, entity.SessionScheduled, result.Session.Status)
	assert.Regexp(t, `^SES\d{8}\d{3,}$`, result.Session.SessionNumber)

	var count int64
	db.Model(&entity.Client{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&entity.Session{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIntakeRejectsForeignTechnician(t *testing.T) {
	db, _, svc := newTestServices(t)
	orgA := testutil.CreateOrganization(db, "Garage A")
	orgB := testutil.CreateOrganization(db, "Garage B")
	outsider := testutil.CreateUser(db, orgB.ID, "tech@b.test", entity.RoleTechnician)

	_, err := svc.Client.Intake(context.Background(), orgA.ID, IntakeInput{
		Client:       CreateClientInput{FirstName: "Omar", LastName: "Nasser", Phone: "+971500000001"},
		Car:          CreateCarInput{Make: "Nissan", Model: "Patrol", Year: 2022, LicensePlate: "D-12345"},
		TechnicianID: outsider.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "technician not found")

	// nothing may be left behind
	var count int64
	db.Model(&entity.Client{}).Where("organization_id = ?", orgA.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&entity.Car{}).Where("organization_id = ?", orgA.ID).Count(&count)
	assert.Zero(t, count)
}

func TestClientDeleteInvalidatesAndCascades(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)

	require.NoError(t, svc.Client.Delete(context.Background(), org.ID, client.ID))

	var count int64
	db.Model(&entity.Car{}).Where("id = ?", car.ID).Count(&count)
	assert.Zero(t, count)
}

func TestClientUpdatePartialFields(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	client := testutil.CreateClient(db, org.ID)

	phone := "+971501112222"
	updated, err := svc.Client.Update(context.Background(), org.ID, client.ID, UpdateClientInput{
		Phone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, client.FirstName, updated.FirstName)
}
