package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"savora-system/internal/database/models"
	"savora-system/internal/errs"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ReceiveItem struct {
	IngredientID   string
	Quantity       decimal.Decimal
	Unit           string
	Location       *string
	ExpirationDate *time.Time
}

type RemoveItem struct {
	IngredientID string
	Quantity     decimal.Decimal
	Reason       string
	Notes        *string
}

type RemovalResult struct {
	ID              string
	IngredientID    string
	NewQuantity     decimal.Decimal
	RemovedQuantity decimal.Decimal
	Reason          string
	Notes           *string
}

// List returns all inventory rows for a restaurant with ingredient
// reference data attached, newest first.
func (s *Service) List(ctx context.Context, restaurantID string) ([]models.InventoryItem, error) {
	if restaurantID == "" {
		return nil, errs.NewValidation("Restaurant ID is required")
	}

	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, errs.NewDataAccess("list inventory", err)
	}

	return items, nil
}

// LookupBarcode resolves an ingredient from the shared reference data.
func (s *Service) LookupBarcode(ctx context.Context, barcode string) (*models.Ingredient, error) {
	if barcode == "" {
		return nil, errs.NewValidation("Barcode parameter is required")
	}

	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).
		Where("barcode = ?", barcode).
		First(&ingredient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFound("Ingredient not found")
		}
		return nil, errs.NewDataAccess("lookup ingredient", err)
	}

	return &ingredient, nil
}

// Receive increments on-hand quantity per item, creating the tracking row on
// first receipt. The increment runs as a single atomic update so two
// concurrent receives never lose each other's quantity. Items are committed
// one at a time; a failure partway leaves prior items applied.
func (s *Service) Receive(ctx context.Context, restaurantID string, items []ReceiveItem) ([]models.InventoryItem, error) {
	if restaurantID == "" {
		return nil, errs.NewValidation("Restaurant ID is required")
	}

	updated := make([]models.InventoryItem, 0, len(items))

	for _, item := range items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, errs.NewValidation("Quantity must be a positive number")
		}

		now := time.Now()
		row, err := s.receiveOne(ctx, restaurantID, item, now)
		if err != nil {
			return nil, err
		}
		updated = append(updated, *row)
	}

	return updated, nil
}

func (s *Service) receiveOne(ctx context.Context, restaurantID string, item ReceiveItem, now time.Time) (*models.InventoryItem, error) {
	res, err := s.incrementExisting(ctx, restaurantID, item, now)
	if err != nil {
		return nil, err
	}

	if res == 0 {
		row := models.InventoryItem{
			RestaurantID:   restaurantID,
			IngredientID:   item.IngredientID,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			Location:       item.Location,
			ExpirationDate: item.ExpirationDate,
			LastRestocked:  &now,
		}
		if createErr := s.db.WithContext(ctx).Create(&row).Error; createErr != nil {
			// A concurrent first receive may have created the row between
			// the update and the insert; fall back to the increment.
			res, err = s.incrementExisting(ctx, restaurantID, item, now)
			if err != nil {
				return nil, err
			}
			if res == 0 {
				return nil, errs.NewDataAccess("create inventory item", createErr)
			}
		} else {
			return &row, nil
		}
	}

	var row models.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND ingredient_id = ?", restaurantID, item.IngredientID).
		First(&row).Error; err != nil {
		return nil, errs.NewDataAccess("reload inventory item", err)
	}
	return &row, nil
}

func (s *Service) incrementExisting(ctx context.Context, restaurantID string, item ReceiveItem, now time.Time) (int64, error) {
	updates := map[string]interface{}{
		"quantity":       gorm.Expr("quantity + ?", item.Quantity),
		"last_restocked": now,
		"updated_at":     now,
	}
	if item.ExpirationDate != nil {
		updates["expiration_date"] = item.ExpirationDate
	}

	res := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("restaurant_id = ? AND ingredient_id = ?", restaurantID, item.IngredientID).
		Updates(updates)
	if res.Error != nil {
		return 0, errs.NewDataAccess("update inventory quantity", res.Error)
	}
	return res.RowsAffected, nil
}

// Remove decrements on-hand quantity per item. The decrement is conditional
// on sufficient stock, so a removal either fully applies or leaves the row
// untouched. Each applied removal is appended to the waste log under the
// category its reason belongs to.
func (s *Service) Remove(ctx context.Context, restaurantID, userID string, items []RemoveItem) ([]RemovalResult, error) {
	if restaurantID == "" {
		return nil, errs.NewValidation("Restaurant ID is required")
	}

	results := make([]RemovalResult, 0, len(items))

	for _, item := range items {
		category, ok := CategoryForReason(item.Reason)
		if !ok {
			return nil, errs.NewValidation("Invalid removal reason: %s", item.Reason)
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, errs.NewValidation("Quantity must be a positive number")
		}

		var existing models.InventoryItem
		if err := s.db.WithContext(ctx).
			Where("restaurant_id = ? AND ingredient_id = ?", restaurantID, item.IngredientID).
			First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errs.NewNotFound("Inventory item not found for ingredient: %s", item.IngredientID)
			}
			return nil, errs.NewDataAccess("find inventory item", err)
		}

		now := time.Now()
		res := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
			Where("id = ? AND quantity >= ?", existing.ID, item.Quantity).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", item.Quantity),
				"updated_at": now,
			})
		if res.Error != nil {
			return nil, errs.NewDataAccess("update inventory quantity", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, &errs.InsufficientStockError{
				IngredientID: item.IngredientID,
				Available:    existing.Quantity,
				Requested:    item.Quantity,
				Unit:         existing.Unit,
			}
		}

		var updatedRow models.InventoryItem
		if err := s.db.WithContext(ctx).
			Where("id = ?", existing.ID).
			First(&updatedRow).Error; err != nil {
			return nil, errs.NewDataAccess("reload inventory item", err)
		}

		if err := s.logRemoval(ctx, restaurantID, userID, existing, item, category, now); err != nil {
			return nil, err
		}

		results = append(results, RemovalResult{
			ID:              updatedRow.ID,
			IngredientID:    updatedRow.IngredientID,
			NewQuantity:     updatedRow.Quantity,
			RemovedQuantity: item.Quantity,
			Reason:          item.Reason,
			Notes:           item.Notes,
		})
	}

	return results, nil
}

func (s *Service) logRemoval(ctx context.Context, restaurantID, userID string, existing models.InventoryItem, item RemoveItem, category string, now time.Time) error {
	costValue := decimal.Zero
	if existing.CostPerUnit != nil {
		costValue = item.Quantity.Mul(*existing.CostPerUnit).Round(2)
	}

	entry := models.WasteLog{
		RestaurantID: restaurantID,
		IngredientID: item.IngredientID,
		Quantity:     item.Quantity,
		Unit:         existing.Unit,
		CostValue:    costValue,
		Reason:       item.Reason,
		Category:     category,
		Notes:        item.Notes,
		LoggedAt:     now,
	}
	if userID != "" {
		entry.LoggedBy = &userID
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return errs.NewDataAccess("append waste log", err)
	}
	return nil
}
