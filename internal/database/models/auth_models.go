package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Business struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"size:255;not null"`
	Slug         string `gorm:"size:255;uniqueIndex;not null"`
	Domain       string `gorm:"size:255"`
	Address      string `gorm:"size:255"`
	City         string `gorm:"size:128"`
	BusinessType string `gorm:"size:64;default:'restaurant'"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Restaurants []Restaurant `gorm:"foreignKey:BusinessID"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	Email      string  `gorm:"size:255;uniqueIndex;not null"`
	Password   string  `gorm:"not null"`
	FirstName  string  `gorm:"size:128"`
	LastName   string  `gorm:"size:128"`
	Role       string  `gorm:"size:32;default:'MANAGER'"`
	BusinessID *string `gorm:"type:uuid;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Business *Business `gorm:"foreignKey:BusinessID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Restaurant is the tenant boundary: every inventory, order, and waste row
// hangs off one restaurant, resolved from the caller's business.
type Restaurant struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	BusinessID string `gorm:"type:uuid;uniqueIndex;not null"`
	Name       string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
