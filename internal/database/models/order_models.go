package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusDraft   = "draft"
	OrderStatusOrdered = "ordered"
)

type PurchaseOrder struct {
	ID                   string          `gorm:"type:uuid;primaryKey"`
	RestaurantID         string          `gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_order_number"`
	OrderNumber          string          `gorm:"size:32;not null;uniqueIndex:idx_restaurant_order_number"`
	Status               string          `gorm:"size:16;not null;default:'draft'"`
	SupplierName         string          `gorm:"size:255;not null"`
	OrderDate            time.Time       `gorm:"not null"`
	ExpectedDeliveryDate *time.Time      `gorm:"type:date"`
	ActualDeliveryDate   *time.Time      `gorm:"type:date"`
	Subtotal             decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Tax                  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total                decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Notes                *string         `gorm:"type:text"`
	CreatedBy            *string         `gorm:"type:uuid"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

func (p *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PurchaseOrderItem struct {
	ID               string          `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID  string          `gorm:"type:uuid;not null;index"`
	IngredientID     string          `gorm:"type:uuid;not null"`
	QuantityOrdered  decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	QuantityReceived decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	Unit             string          `gorm:"size:32;not null"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LineTotal        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt        time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (p *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
