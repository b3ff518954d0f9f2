package service

import (
	"context"
	"strings"
	"testing"

	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionWithJobsAndParts(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)
	pads := testutil.CreateInventory(db, org.ID, "Brake Pads", 10, 2, 45)

	session, err := svc.Session.Create(context.Background(), org.ID, admin.ID, CreateSessionInput{
		CarID:        car.ID,
		TechnicianID: tech.ID,
		Description:  "Front brake overhaul",
		Jobs: []JobItemInput{
			{Title: "Replace brake pads", LaborCost: 80, PartsCost: 90},
			{Title: "Brake fluid flush", Priority: entity.PriorityHigh, LaborCost: 40},
		},
		Parts: []PartItemInput{
			{Name: "Brake Pads", Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, session.JobCards, 2)
	for _, job := range session.JobCards {
		assert.True(t, strings.HasPrefix(job.JobNumber, "JOB"), job.JobNumber)
		assert.Equal(t, entity.JobPending, job.Status)
		// unassigned jobs default to the session's technician
		assert.Equal(t, tech.ID, job.AssignedTechnicianID)
	}

	var part entity.Inventory
	require.NoError(t, db.First(&part, "id = ?", pads.ID).Error)
	assert.Equal(t, 8, part.Quantity)

	var txns []entity.InventoryTransaction
	require.NoError(t, db.Find(&txns, "inventory_id = ?", pads.ID).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, entity.TxUsage, txns[0].TransactionType)
	assert.Equal(t, 2, txns[0].Quantity)
	require.NotNil(t, txns[0].SessionID)
	assert.Equal(t, session.ID, *txns[0].SessionID)
	assert.InDelta(t, 45.0, txns[0].UnitPrice, 0.001)
}

func TestCreateSessionWithoutLineItems(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)

	session, err := svc.Session.Create(context.Background(), org.ID, admin.ID, CreateSessionInput{
		CarID:        car.ID,
		TechnicianID: tech.ID,
		Description:  "Diagnostic only",
	})
	require.NoError(t, err)
	assert.Empty(t, session.JobCards)

	var count int64
	db.Model(&entity.Session{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&entity.JobCard{}).Where("session_id = ?", session.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&entity.InventoryTransaction{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCreateSessionInsufficientStock(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)
	filter := testutil.CreateInventory(db, org.ID, "Oil Filter", 1, 0, 12)

	_, err := svc.Session.Create(context.Background(), org.ID, admin.ID, CreateSessionInput{
		CarID:        car.ID,
		TechnicianID: tech.ID,
		Parts: []PartItemInput{
			{Name: "Oil Filter", Quantity: 5},
		},
	})
	require.NoError(t, err)

	// short stock is never decremented, but the usage is still on the ledger
	var part entity.Inventory
	require.NoError(t, db.First(&part, "id = ?", filter.ID).Error)
	assert.Equal(t, 1, part.Quantity)

	var txn entity.InventoryTransaction
	require.NoError(t, db.First(&txn, "inventory_id = ?", filter.ID).Error)
	assert.Equal(t, 5, txn.Quantity)
}

func TestCreateSessionAutoCreatesUnknownPart(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)

	_, err := svc.Session.Create(context.Background(), org.ID, admin.ID, CreateSessionInput{
		CarID:        car.ID,
		TechnicianID: tech.ID,
		Parts: []PartItemInput{
			{Name: "Timing Belt", Quantity: 1, UnitPrice: 95},
		},
	})
	require.NoError(t, err)

	var part entity.Inventory
	require.NoError(t, db.First(&part, "organization_id = ? AND name = ?", org.ID, "Timing Belt").Error)
	assert.Zero(t, part.Quantity)
	assert.True(t, strings.HasPrefix(part.PartNumber, "PRT"), part.PartNumber)
	assert.InDelta(t, 95.0, part.UnitPrice, 0.001)
}

func TestSessionCreateRejectsBadInput(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)

	_, err := svc.Session.Create(context.Background(), org.ID, admin.ID, CreateSessionInput{
		CarID:        "missing",
		TechnicianID: tech.ID,
	})
	assert.ErrorContains(t, err, "car not found")

	_, err = svc.Session.Create(context.Background(), org.ID, admin.ID, CreateSessionInput{
		CarID:        car.ID,
		TechnicianID: tech.ID,
		Jobs:         []JobItemInput{{Title: "X", Priority: "asap"}},
	})
	assert.ErrorContains(t, err, "invalid priority")
}

func TestUpdateStatusCompletesSession(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)

	session, err := svc.Session.Create(context.Background(), org.ID, admin.ID, CreateSessionInput{
		CarID:        car.ID,
		TechnicianID: tech.ID,
		Jobs: []JobItemInput{
			{Title: "Oil change", PartsCost: 40, LaborCost: 30},
			{Title: "Tire rotation", LaborCost: 25},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Session.UpdateStatus(context.Background(), org.ID, session.ID, admin.ID, entity.RoleAdmin, entity.SessionCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionCompleted, updated.Status)
	assert.NotNil(t, updated.ActualStartTime)
	assert.NotNil(t, updated.ActualEndTime)
	require.NotNil(t, updated.ActualCost)
	assert.InDelta(t, 95.0, *updated.ActualCost, 0.001)

	// the technician is told about the completion
	var n entity.Notification
	require.NoError(t, db.First(&n, "user_id = ?", tech.ID).Error)
	assert.Equal(t, "Session completed", n.Title)
	require.NotNil(t, n.RelatedSessionID)
	assert.Equal(t, session.ID, *n.RelatedSessionID)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)
	session := testutil.CreateSession(db, org.ID, car.ID, tech.ID, "SES20260830001", entity.SessionScheduled)

	_, err := svc.Session.UpdateStatus(context.Background(), org.ID, session.ID, admin.ID, entity.RoleAdmin, "done")
	assert.ErrorContains(t, err, "invalid status")
}

func TestTechnicianSeesOnlyOwnSessions(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	techA := testutil.CreateUser(db, org.ID, "a@a.test", entity.RoleTechnician)
	techB := testutil.CreateUser(db, org.ID, "b@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)
	session := testutil.CreateSession(db, org.ID, car.ID, techA.ID, "SES20260830001", entity.SessionScheduled)

	_, err := svc.Session.Get(context.Background(), org.ID, session.ID, techA.ID, entity.RoleTechnician)
	require.NoError(t, err)

	_, err = svc.Session.Get(context.Background(), org.ID, session.ID, techB.ID, entity.RoleTechnician)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// managers see everything
	_, err = svc.Session.Get(context.Background(), org.ID, session.ID, techB.ID, entity.RoleManager)
	assert.NoError(t, err)
}

func TestAddAndUpdateJobCard(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	tech := testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	client := testutil.CreateClient(db, org.ID)
	car := testutil.CreateCar(db, org.ID, client.ID)
	session := testutil.CreateSession(db, org.ID, car.ID, tech.ID, "SES20260830001", entity.SessionInProgress)

	job, err := svc.Session.AddJobCard(context.Background(), org.ID, session.ID, admin.ID, entity.RoleAdmin, JobItemInput{
		Title:     "AC regas",
		LaborCost: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityMedium, job.Priority)
	assert.Equal(t, tech.ID, job.AssignedTechnicianID)

	started := entity.JobInProgress
	updated, err := svc.Session.UpdateJobCard(context.Background(), org.ID, session.ID, job.ID, admin.ID, entity.RoleAdmin, UpdateJobCardInput{
		Status: &started,
	})
	require.NoError(t, err)
	assert.NotNil(t, updated.StartedAt)

	completed := entity.JobCompleted
	updated, err = svc.Session.UpdateJobCard(context.Background(), org.ID, session.ID, job.ID, admin.ID, entity.RoleAdmin, UpdateJobCardInput{
		Status: &completed,
	})
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)

	require.NoError(t, svc.Session.DeleteJobCard(context.Background(), org.ID, session.ID, job.ID, admin.ID, entity.RoleAdmin))
	var count int64
	db.Model(&entity.JobCard{}).Where("id = ?", job.ID).Count(&count)
	assert.Zero(t, count)
}
