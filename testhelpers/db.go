// Package testhelpers holds fixtures shared by the package tests.
package testhelpers

import (
	"testing"

	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database that is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := initializers.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is "password".
func CreateUser(t *testing.T, db *gorm.DB, name, email string, admin bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, PasswordHash: string(hash), IsAdmin: admin}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateBook inserts an available book with the given price and stock.
func CreateBook(t *testing.T, db *gorm.DB, title, price string, stock int) models.Book {
	t.Helper()

	book := models.Book{
		Title:                   title,
		Author:                  "Test Author",
		Price:                   decimal.RequireFromString(price),
		Stock:                   stock,
		IsAvailableForBorrowing: true,
	}
	require.NoError(t, db.Create(&book).Error)
	return book
}
