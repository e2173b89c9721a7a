package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:120;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Orders       []Order            `gorm:"foreignKey:UserID" json:"-"`
	Borrowings   []Borrowing        `gorm:"foreignKey:UserID" json:"-"`
	Cart         *Cart              `gorm:"foreignKey:UserID" json:"-"`
	Transactions []MpesaTransaction `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" || u.Email == "" || u.PasswordHash == "" {
		return apperrors.Validation("Missing required fields")
	}
	if !ValidEmail(u.Email) {
		return apperrors.Validation("Invalid email address")
	}
	return nil
}

// RevokedToken is a logged-out JWT, kept until it would have expired anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
