package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // created, stock decremented
	OrderStatusCancelled OrderStatus = "cancelled" // terminal, stock restored
)

type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"index;not null" json:"user_id"`
	Ref       string      `gorm:"uniqueIndex;not null" json:"ref"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is the frozen snapshot of one cart line at commit time; its
// quantity is exactly what was subtracted from the product's ledger.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
}
