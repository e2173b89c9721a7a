package models

import (
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"gorm.io/gorm"
)

type Borrowing struct {
	ID         uint      `gorm:"primaryKey"`
	BorrowDate time.Time `gorm:"not null"`
	DueDate    time.Time `gorm:"not null"`
	ReturnDate *time.Time
	UserID     uint `gorm:"not null;index"`
	BookID     uint `gorm:"not null;index"`
	User       User
	Book       Book
}

// Returned reports whether the book has been brought back.
func (b *Borrowing) Returned() bool {
	return b.ReturnDate != nil
}

func (b *Borrowing) BeforeSave(tx *gorm.DB) error {
	if b.BorrowDate.IsZero() {
		b.BorrowDate = time.Now().UTC()
	}
	if !b.DueDate.After(b.BorrowDate) {
		return apperrors.Validation("Due date must be after borrow date")
	}
	if b.ReturnDate != nil && b.ReturnDate.Before(b.BorrowDate) {
		return apperrors.Validation("Return date cannot be before borrow date")
	}
	return nil
}
