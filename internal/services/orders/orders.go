package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"savora-system/internal/database/models"
	"savora-system/internal/errs"
)

// Purchase tax applied to every order subtotal.
var taxRate = decimal.NewFromFloat(0.09)

const orderNumberAttempts = 3

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type OrderItemInput struct {
	IngredientID    string
	QuantityOrdered decimal.Decimal
	Unit            string
	UnitPrice       decimal.Decimal
}

type CreateOrderInput struct {
	RestaurantID         string
	SupplierName         string
	ExpectedDeliveryDate *time.Time
	Items                []OrderItemInput
	Notes                *string
	CreatedBy            string
}

// GenerateOrderNumber produces the next PO-<year>-<seq> number for a
// restaurant, starting each year at 0001. Uniqueness is ultimately enforced
// by the (restaurant_id, order_number) index; Create retries on conflict.
func (s *Service) GenerateOrderNumber(ctx context.Context, restaurantID string) (string, error) {
	prefix := fmt.Sprintf("PO-%d-", time.Now().Year())

	var last models.PurchaseOrder
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND order_number LIKE ?", restaurantID, prefix+"%").
		Order("order_number DESC").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return prefix + "0001", nil
		}
		return "", errs.NewDataAccess("find last order number", err)
	}

	seq := last.OrderNumber[strings.LastIndex(last.OrderNumber, "-")+1:]
	n, err := strconv.Atoi(seq)
	if err != nil {
		return "", errs.NewDataAccess("parse order number", fmt.Errorf("malformed order number %q", last.OrderNumber))
	}

	return fmt.Sprintf("%s%04d", prefix, n+1), nil
}

// Create persists a draft order and its line items as a unit. Totals are
// derived here: line_total = round2(qty x price), tax = round2(subtotal x 9%),
// total = subtotal + tax. The order and items commit in one transaction;
// duplicate order numbers from concurrent creates regenerate and retry.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*models.PurchaseOrder, []models.PurchaseOrderItem, error) {
	if input.RestaurantID == "" {
		return nil, nil, errs.NewValidation("Restaurant ID is required")
	}
	if input.SupplierName == "" {
		return nil, nil, errs.NewValidation("Supplier name is required")
	}
	if len(input.Items) == 0 {
		return nil, nil, errs.NewValidation("Items array is required and must not be empty")
	}

	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, len(input.Items))
	for i, item := range input.Items {
		if item.IngredientID == "" {
			return nil, nil, errs.NewValidation("Each item must have an ingredientId")
		}
		if item.QuantityOrdered.LessThanOrEqual(decimal.Zero) {
			return nil, nil, errs.NewValidation("Each item must have a positive quantityOrdered")
		}
		if item.Unit == "" {
			return nil, nil, errs.NewValidation("Each item must have a unit")
		}
		if item.UnitPrice.IsNegative() {
			return nil, nil, errs.NewValidation("Each item must have a valid unitPrice")
		}
		lineTotals[i] = item.QuantityOrdered.Mul(item.UnitPrice).Round(2)
		subtotal = subtotal.Add(lineTotals[i])
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax)

	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		orderNumber, err := s.GenerateOrderNumber(ctx, input.RestaurantID)
		if err != nil {
			return nil, nil, err
		}

		now := time.Now()
		order := models.PurchaseOrder{
			RestaurantID:         input.RestaurantID,
			OrderNumber:          orderNumber,
			Status:               models.OrderStatusDraft,
			SupplierName:         input.SupplierName,
			OrderDate:            now,
			ExpectedDeliveryDate: input.ExpectedDeliveryDate,
			Subtotal:             subtotal,
			Tax:                  tax,
			Total:                total,
			Notes:                input.Notes,
		}
		if input.CreatedBy != "" {
			order.CreatedBy = &input.CreatedBy
		}

		items := make([]models.PurchaseOrderItem, len(input.Items))
		for i, item := range input.Items {
			items[i] = models.PurchaseOrderItem{
				IngredientID:     item.IngredientID,
				QuantityOrdered:  item.QuantityOrdered,
				QuantityReceived: decimal.Zero,
				Unit:             item.Unit,
				UnitPrice:        item.UnitPrice,
				LineTotal:        lineTotals[i],
			}
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].PurchaseOrderID = order.ID
			}
			return tx.Create(&items).Error
		})
		if err == nil {
			return &order, items, nil
		}

		lastErr = err
		if !isDuplicateKey(err) {
			return nil, nil, errs.NewDataAccess("create purchase order", err)
		}
		// Another request claimed the same number; regenerate and retry.
	}

	return nil, nil, errs.NewDataAccess("create purchase order", lastErr)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
