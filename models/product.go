package models

import (
	"time"

	"gorm.io/gorm"
)

// Product carries the authoritative stock counter. Quantity is only ever
// mutated through the store's conditional decrement/restore operations.
type Product struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Quantity   int            `gorm:"not null;default:0" json:"quantity"`
	Categories []Category     `gorm:"many2many:product_categories" json:"categories,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
