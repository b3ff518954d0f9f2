package service

import (
	"context"
	"strings"
	"testing"

	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryCreateGeneratesPartNumber(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")

	item, err := svc.Inventory.Create(context.Background(), org.ID, CreateInventoryInput{
		Name:        "Cabin Filter",
		Quantity:    4,
		MinQuantity: 2,
		UnitPrice:   18,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(item.PartNumber, "PRT"), item.PartNumber)
}

func TestInventoryCreateRejectsDuplicateNumber(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")

	_, err := svc.Inventory.Create(context.Background(), org.ID, CreateInventoryInput{
		Name:       "Cabin Filter",
		PartNumber: "CF-100",
	})
	require.NoError(t, err)

	_, err = svc.Inventory.Create(context.Background(), org.ID, CreateInventoryInput{
		Name:       "Cabin Filter Premium",
		PartNumber: "CF-100",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part number already exists")
}

func TestAdjustMovesStockThroughLedger(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	item := testutil.CreateInventory(db, org.ID, "Brake Pads", 10, 2, 45)

	updated, err := svc.Inventory.Adjust(context.Background(), org.ID, item.ID, admin.ID, AdjustInput{
		Delta: -3,
		Notes: "stocktake correction",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	var txn entity.InventoryTransaction
	require.NoError(t, db.First(&txn, "inventory_id = ?", item.ID).Error)
	assert.Equal(t, entity.TxAdjustment, txn.TransactionType)
	assert.Equal(t, -3, txn.Quantity)
	assert.Equal(t, "stocktake correction", txn.Notes)
	assert.Equal(t, admin.ID, txn.CreatedBy)
}

func TestAdjustRejectsBelowZero(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	item := testutil.CreateInventory(db, org.ID, "Brake Pads", 2, 0, 45)

	_, err := svc.Inventory.Adjust(context.Background(), org.ID, item.ID, admin.ID, AdjustInput{Delta: -5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below zero")

	// quantity and ledger are untouched on rejection
	var part entity.Inventory
	require.NoError(t, db.First(&part, "id = ?", item.ID).Error)
	assert.Equal(t, 2, part.Quantity)
	var count int64
	db.Model(&entity.InventoryTransaction{}).Where("inventory_id = ?", item.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRestockUpdatesPriceAndQuantity(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	item := testutil.CreateInventory(db, org.ID, "Oil Filter", 1, 5, 12)

	price := 14.50
	updated, err := svc.Inventory.Restock(context.Background(), org.ID, item.ID, admin.ID, RestockInput{
		Quantity:  20,
		UnitPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 21, updated.Quantity)
	assert.InDelta(t, 14.50, updated.UnitPrice, 0.001)

	var txn entity.InventoryTransaction
	require.NoError(t, db.First(&txn, "inventory_id = ?", item.ID).Error)
	assert.Equal(t, entity.TxRestock, txn.TransactionType)
	assert.Equal(t, 20, txn.Quantity)
}

func TestLowStockAdjustmentNotifiesManagers(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	manager := testutil.CreateUser(db, org.ID, "mgr@a.test", entity.RoleManager)
	testutil.CreateUser(db, org.ID, "tech@a.test", entity.RoleTechnician)
	item := testutil.CreateInventory(db, org.ID, "Brake Pads", 6, 5, 45)

	_, err := svc.Inventory.Adjust(context.Background(), org.ID, item.ID, admin.ID, AdjustInput{Delta: -2})
	require.NoError(t, err)

	var notifications []entity.Notification
	require.NoError(t, db.Find(&notifications, "organization_id = ?", org.ID).Error)
	require.Len(t, notifications, 2)

	recipients := map[string]bool{}
	for _, n := range notifications {
		recipients[n.UserID] = true
		assert.Equal(t, "Low stock", n.Title)
		require.NotNil(t, n.RelatedInventoryID)
		assert.Equal(t, item.ID, *n.RelatedInventoryID)
	}
	assert.True(t, recipients[admin.ID])
	assert.True(t, recipients[manager.ID])
}

func TestRestockingLowPartDoesNotWarn(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	admin := testutil.CreateUser(db, org.ID, "admin@a.test", entity.RoleAdmin)
	item := testutil.CreateInventory(db, org.ID, "Brake Pads", 0, 5, 45)

	_, err := svc.Inventory.Restock(context.Background(), org.ID, item.ID, admin.ID, RestockInput{Quantity: 2})
	require.NoError(t, err)

	// still low afterwards, but restocks never alarm
	var count int64
	db.Model(&entity.Notification{}).Where("organization_id = ?", org.ID).Count(&count)
	assert.Zero(t, count)
}

func TestInventoryUpdateNeverTouchesQuantity(t *testing.T) {
	db, _, svc := newTestServices(t)
	org := testutil.CreateOrganization(db, "Garage A")
	item := testutil.CreateInventory(db, org.ID, "Brake Pads", 10, 2, 45)

	name := "Brake Pads Front"
	category := "brakes"
	updated, err := svc.Inventory.Update(context.Background(), org.ID, item.ID, UpdateInventoryInput{
		Name:     &name,
		Category: &category,
	})
	require.NoError(t, err)
	assert.Equal(t, "Brake Pads Front", updated.Name)
	assert.Equal(t, 10, updated.Quantity)
}
