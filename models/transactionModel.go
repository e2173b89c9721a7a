package models

import (
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransactionPending   = "Pending"
	TransactionCompleted = "Completed"
	TransactionFailed    = "Failed"
)

type MpesaTransaction struct {
	ID                uint            `gorm:"primaryKey"`
	UserID            uint            `gorm:"not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TransactionDate   time.Time       `gorm:"not null"`
	MpesaReceipt      string          `gorm:"size:64;not null;uniqueIndex"`
	Status            string          `gorm:"size:20;not null;default:Pending"`
	CheckoutRequestID *string         `gorm:"size:64;index"`
	GatewayPayload    datatypes.JSON
	User              User
}

func (t *MpesaTransaction) BeforeSave(tx *gorm.DB) error {
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = TransactionPending
	}
	if !t.Amount.IsPositive() {
		return apperrors.Validation("Amount must be greater than zero")
	}
	if t.MpesaReceipt == "" {
		return apperrors.Validation("Receipt is required")
	}
	switch t.Status {
	case TransactionPending, TransactionCompleted, TransactionFailed:
		return nil
	}
	return apperrors.Validation("Invalid transaction status")
}
