package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/husainf4l/gixat/internal/entity"
	"github.com/husainf4l/gixat/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService handles stocked parts and their transaction ledger.
type InventoryService struct {
	db       *gorm.DB
	repo     *repository.InventoryRepository
	notifier *NotificationService
	cache    *Cache
	logger   *zap.Logger
}

func NewInventoryService(db *gorm.DB, repo *repository.InventoryRepository, notifier *NotificationService, cache *Cache, logger *zap.Logger) *InventoryService {
	return &InventoryService{db: db, repo: repo, notifier: notifier, cache: cache, logger: logger}
}

type CreateInventoryInput struct {
	Name        string  `json:"name" binding:"required"`
	PartNumber  string  `json:"part_number"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Supplier    string  `json:"supplier"`
	Location    string  `json:"location"`
}

// Create adds a part. A blank part number gets a generated PRT identifier.
func (s *InventoryService) Create(ctx context.Context, orgID string, input CreateInventoryInput) (*entity.Inventory, error) {
	now := time.Now()
	item := &entity.Inventory{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           input.Name,
		PartNumber:     input.PartNumber,
		Description:    input.Description,
		Category:       input.Category,
		Quantity:       input.Quantity,
		MinQuantity:    input.MinQuantity,
		UnitPrice:      input.UnitPrice,
		Supplier:       input.Supplier,
		Location:       input.Location,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var lastErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if item.PartNumber == "" {
				number, err := s.repo.NextPartNumber(ctx, tx, now)
				if err != nil {
					return err
				}
				item.PartNumber = number
			}
			return s.repo.Create(ctx, tx, item)
		})
		if lastErr == nil {
			break
		}
		if !repository.IsUniqueViolation(lastErr) {
			return nil, fmt.Errorf("create part: %w", lastErr)
		}
		if input.PartNumber != "" {
			return nil, fmt.Errorf("part number already exists")
		}
		item.PartNumber = ""
	}
	if lastErr != nil {
		return nil, fmt.Errorf("create part: %w", lastErr)
	}

	s.cache.InvalidateDashboard(ctx, orgID)
	return item, nil
}

func (s *InventoryService) Get(ctx context.Context, orgID, id string) (*entity.Inventory, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

func (s *InventoryService) List(ctx context.Context, params repository.InventoryListParams) ([]entity.Inventory, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *InventoryService) Stats(ctx context.Context, orgID string) (*repository.InventoryStats, error) {
	return s.repo.Stats(ctx, orgID)
}

func (s *InventoryService) Categories(ctx context.Context, orgID string) ([]string, error) {
	return s.repo.Categories(ctx, orgID)
}

func (s *InventoryService) LowStock(ctx context.Context, orgID string, limit int) ([]entity.Inventory, error) {
	return s.repo.LowStock(ctx, orgID, limit)
}

type UpdateInventoryInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	MinQuantity *int     `json:"min_quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Supplier    *string  `json:"supplier"`
	Location    *string  `json:"location"`
}

// Update changes the part's descriptive fields. Quantity only moves through
// the ledger (Adjust, Restock, session part usage).
func (s *InventoryService) Update(ctx context.Context, orgID, id string, input UpdateInventoryInput) (*entity.Inventory, error) {
	item, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.MinQuantity != nil {
		item.MinQuantity = *input.MinQuantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.Supplier != nil {
		item.Supplier = *input.Supplier
	}
	if input.Location != nil {
		item.Location = *input.Location
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, nil, item); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}
	return item, nil
}

type AdjustInput struct {
	Delta int    `json:"delta" binding:"required"`
	Notes string `json:"notes"`
}

// Adjust corrects stock by a signed delta and records an adjustment entry.
// The resulting quantity never goes below zero.
func (s *InventoryService) Adjust(ctx context.Context, orgID, id, createdBy string, input AdjustInput) (*entity.Inventory, error) {
	return s.applyLedger(ctx, orgID, id, createdBy, entity.TxAdjustment, input.Delta, input.Notes)
}

type RestockInput struct {
	Quantity  int      `json:"quantity" binding:"required,gt=0"`
	UnitPrice *float64 `json:"unit_price"`
	Notes     string   `json:"notes"`
}

// Restock adds received stock and records a restock entry. A unit price, if
// given, becomes the part's current price.
func (s *InventoryService) Restock(ctx context.Context, orgID, id, createdBy string, input RestockInput) (*entity.Inventory, error) {
	item, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
		if err := s.repo.Update(ctx, nil, item); err != nil {
			return nil, fmt.Errorf("update unit price: %w", err)
		}
	}
	return s.applyLedger(ctx, orgID, id, createdBy, entity.TxRestock, input.Quantity, input.Notes)
}

func (s *InventoryService) applyLedger(ctx context.Context, orgID, id, createdBy, txType string, delta int, notes string) (*entity.Inventory, error) {
	var item *entity.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}

		next := item.Quantity + delta
		if next < 0 {
			return fmt.Errorf("adjustment would take stock below zero (current %d, delta %d)", item.Quantity, delta)
		}
		item.Quantity = next
		item.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, tx, item); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}

		txn := &entity.InventoryTransaction{
			ID:              uuid.New().String(),
			OrganizationID:  orgID,
			InventoryID:     item.ID,
			TransactionType: txType,
			Quantity:        delta,
			UnitPrice:       item.UnitPrice,
			Notes:           notes,
			CreatedBy:       createdBy,
			CreatedAt:       time.Now(),
		}
		return s.repo.CreateTransaction(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	if item.IsLowStock() && txType != entity.TxRestock {
		s.notifier.NotifyManagers(ctx, orgID,
			"Low stock",
			fmt.Sprintf("%s (%s) is at %d, minimum is %d", item.Name, item.PartNumber, item.Quantity, item.MinQuantity),
			entity.NotifyWarning,
			&NotificationRefs{InventoryID: &item.ID},
		)
	}
	s.cache.InvalidateDashboard(ctx, orgID)
	s.logger.Info("Inventory ledger entry",
		zap.String("organization_id", orgID),
		zap.String("part_number", item.PartNumber),
		zap.String("type", txType),
		zap.Int("delta", delta),
		zap.Int("quantity", item.Quantity),
	)
	return item, nil
}

func (s *InventoryService) Transactions(ctx context.Context, orgID, inventoryID string, page, size int) ([]entity.InventoryTransaction, int64, error) {
	return s.repo.ListTransactions(ctx, orgID, inventoryID, page, size)
}
