package repository

import (
	"context"
	"strings"
	"time"

	"github.com/husainf4l/gixat/internal/entity"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// NextPartNumber generates the next PRT<YYYYMMDD>NNN part number for
// auto-created inventory rows.
func (r *InventoryRepository) NextPartNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	if tx == nil {
		tx = r.db
	}
	return NextNumber(ctx, tx, "inventory", "part_number", PrefixPart, now)
}

func (r *InventoryRepository) Create(ctx context.Context, tx *gorm.DB, item *entity.Inventory) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepository) FindByID(ctx context.Context, orgID, id string) (*entity.Inventory, error) {
	var item entity.Inventory
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// FindByName matches a part by case-insensitive name within the
// organization. Used by line-item ingestion.
func (r *InventoryRepository) FindByName(ctx context.Context, tx *gorm.DB, orgID, name string) (*entity.Inventory, error) {
	if tx == nil {
		tx = r.db
	}
	var item entity.Inventory
	err := tx.WithContext(ctx).
		Where("organization_id = ? AND LOWER(name) = ?", orgID, strings.ToLower(strings.TrimSpace(name))).
		First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

type InventoryListParams struct {
	OrganizationID string
	Category       string
	LowStock       bool
	Search         string
	SortBy         string
	SortDesc       bool
	Page           int
	Size           int
}

var inventorySortColumns = map[string]bool{
	"name":        true,
	"part_number": true,
	"category":    true,
	"quantity":    true,
	"unit_price":  true,
}

func (r *InventoryRepository) List(ctx context.Context, params InventoryListParams) ([]entity.Inventory, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("organization_id = ?", params.OrganizationID)
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.LowStock {
		query = query.Where("quantity <= min_quantity")
	}
	if params.Search != "" {
		kw := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR part_number LIKE ? OR category LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	if !inventorySortColumns[sortBy] {
		sortBy = "name"
	}
	order := sortBy + " ASC"
	if params.SortDesc {
		order = sortBy + " DESC"
	}

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 30
	}

	var items []entity.Inventory
	err := query.Order(order).
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&items).Error
	return items, total, err
}

func (r *InventoryRepository) Update(ctx context.Context, tx *gorm.DB, item *entity.Inventory) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(item).Error
}

func (r *InventoryRepository) CreateTransaction(ctx context.Context, tx *gorm.DB, txn *entity.InventoryTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(txn).Error
}

func (r *InventoryRepository) ListTransactions(ctx context.Context, orgID, inventoryID string, page, size int) ([]entity.InventoryTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.InventoryTransaction{}).
		Where("organization_id = ?", orgID)
	if inventoryID != "" {
		query = query.Where("inventory_id = ?", inventoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	var txns []entity.InventoryTransaction
	err := query.Preload("Inventory").
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&txns).Error
	return txns, total, err
}

// LowStock returns parts at or below their minimum quantity.
func (r *InventoryRepository) LowStock(ctx context.Context, orgID string, limit int) ([]entity.Inventory, error) {
	query := r.db.WithContext(ctx).
		Where("organization_id = ? AND quantity <= min_quantity", orgID).
		Order("quantity ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var items []entity.Inventory
	err := query.Find(&items).Error
	return items, err
}

// Categories returns the distinct categories in use, for list filters.
func (r *InventoryRepository) Categories(ctx context.Context, orgID string) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("organization_id = ? AND category <> ''", orgID).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// InventoryStats is the aggregate block shown above the inventory list.
type InventoryStats struct {
	TotalItems    int64   `json:"total_items"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int64   `json:"low_stock_count"`
}

func (r *InventoryRepository) Stats(ctx context.Context, orgID string) (*InventoryStats, error) {
	var stats InventoryStats
	err := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Select("COUNT(*) AS total_items, COALESCE(SUM(quantity * unit_price), 0) AS total_value, COALESCE(SUM(CASE WHEN quantity <= min_quantity THEN 1 ELSE 0 END), 0) AS low_stock_count").
		Where("organization_id = ?", orgID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
