package models

import (
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"gorm.io/gorm"
)

const (
	OrderPending   = "Pending"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
)

// ValidOrderStatus reports whether status is one of the order lifecycle states.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        uint      `gorm:"primaryKey"`
	OrderDate time.Time `gorm:"not null"`
	Status    string    `gorm:"size:20;not null;default:Pending"`
	UserID    uint      `gorm:"not null;index"`
	User      User
	Books     []OrderBook `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = OrderPending
	}
	if !ValidOrderStatus(o.Status) {
		return apperrors.Validation("Invalid order status")
	}
	return nil
}

// OrderBook links an order to a book with the quantity bought.
type OrderBook struct {
	OrderID  uint `gorm:"primaryKey"`
	BookID   uint `gorm:"primaryKey"`
	Quantity int  `gorm:"not null;default:1"`
	Book     Book
}

func (ob *OrderBook) BeforeSave(tx *gorm.DB) error {
	if ob.Quantity == 0 {
		ob.Quantity = 1
	}
	if ob.Quantity < 1 {
		return apperrors.Validation("Quantity must be at least 1")
	}
	return nil
}
