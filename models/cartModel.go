package models

import (
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"gorm.io/gorm"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type CartItem struct {
	ID       uint `gorm:"primaryKey"`
	CartID   uint `gorm:"not null;uniqueIndex:idx_cart_book"`
	BookID   uint `gorm:"not null;uniqueIndex:idx_cart_book"`
	Quantity int  `gorm:"not null;default:1"`
	Book     Book
}

func (ci *CartItem) BeforeSave(tx *gorm.DB) error {
	if ci.Quantity < 1 {
		return apperrors.Validation("Quantity must be at least 1")
	}
	return nil
}
