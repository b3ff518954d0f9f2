package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobCardTotalCost(t *testing.T) {
	job := &JobCard{PartsCost: 120.50, LaborCost: 80}
	assert.Equal(t, 200.50, job.TotalCost())

	zero := &JobCard{}
	assert.Equal(t, 0.0, zero.TotalCost())
}

func TestInventoryIsLowStock(t *testing.T) {
	assert.True(t, (&Inventory{Quantity: 2, MinQuantity: 5}).IsLowStock())
	assert.True(t, (&Inventory{Quantity: 5, MinQuantity: 5}).IsLowStock())
	assert.False(t, (&Inventory{Quantity: 6, MinQuantity: 5}).IsLowStock())
	assert.True(t, (&Inventory{Quantity: 0, MinQuantity: 0}).IsLowStock())
}

func TestSessionDuration(t *testing.T) {
	start := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	s := &Session{ActualStartTime: &start, ActualEndTime: &end}
	assert.Equal(t, 90*time.Minute, s.Duration())

	assert.Zero(t, (&Session{ActualStartTime: &start}).Duration())
	assert.Zero(t, (&Session{ActualEndTime: &end}).Duration())
	assert.Zero(t, (&Session{}).Duration())
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleTechnician, RoleReceptionist} {
		assert.True(t, ValidRole(role), role)
	}
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}

func TestValidSessionStatus(t *testing.T) {
	for _, st := range []string{SessionScheduled, SessionInProgress, SessionCompleted, SessionCancelled} {
		assert.True(t, ValidSessionStatus(st), st)
	}
	assert.False(t, ValidSessionStatus("done"))
}

func TestValidInspectionStatus(t *testing.T) {
	assert.True(t, ValidInspectionStatus(InspectionWaitingApproval))
	assert.False(t, ValidInspectionStatus("approved"))
}

func TestFullName(t *testing.T) {
	u := &User{FirstName: "Rana", LastName: "Khoury"}
	assert.Equal(t, "Rana Khoury", u.FullName())

	c := &Client{FirstName: "Omar", LastName: "Nasser"}
	assert.Equal(t, "Omar Nasser", c.FullName())
}
