package models

import (
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:50;not null;uniqueIndex"`
	Books []Book `gorm:"foreignKey:CategoryID"`
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Name == "" {
		return apperrors.Validation("Category name is required")
	}
	return nil
}

type Book struct {
	ID                      uint            `gorm:"primaryKey"`
	Title                   string          `gorm:"size:200;not null"`
	Author                  string          `gorm:"size:100;not null"`
	Price                   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock                   int             `gorm:"not null"`
	Description             string          `gorm:"type:text"`
	IsAvailableForBorrowing bool            `gorm:"not null"`
	CoverURL                string          `gorm:"size:512"`
	CategoryID              *uint           `gorm:"index"`
	Category                *Category
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (b *Book) BeforeSave(tx *gorm.DB) error {
	if b.Title == "" || b.Author == "" {
		return apperrors.Validation("Missing required fields")
	}
	if b.Price.IsNegative() {
		return apperrors.Validation("Price cannot be negative")
	}
	if b.Stock < 0 {
		return apperrors.Validation("Stock cannot be negative")
	}
	return nil
}
