package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeedDatabase(t *testing.T) {
	db := testhelpers.NewDB(t)

	require.NoError(t, seedDatabase(context.Background(), db, zap.NewNop()))

	for _, model := range []any{
		&models.Category{}, &models.User{}, &models.Book{}, &models.Order{},
		&models.Borrowing{}, &models.Cart{}, &models.CartItem{}, &models.MpesaTransaction{},
	} {
		assert.EqualValues(t, 5, countRows(t, db, model), "%T", model)
	}

	var alice models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&alice).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(alice.PasswordHash), []byte(seedPassword)))
	assert.False(t, alice.IsAdmin)

	var txn models.MpesaTransaction
	require.NoError(t, db.Where("mpesa_receipt = ?", "789123").First(&txn).Error)
	assert.Equal(t, models.TransactionFailed, txn.Status)
	assert.Equal(t, "300", txn.Amount.String())

	var item models.CartItem
	require.NoError(t, db.Preload("Book").Where("quantity = ?", 4).First(&item).Error)
	assert.Equal(t, "1984", item.Book.Title)
}

func TestSeedDatabaseTwiceFails(t *testing.T) {
	db := testhelpers.NewDB(t)
	ctx := context.Background()

	require.NoError(t, seedDatabase(ctx, db, zap.NewNop()))
	assert.Error(t, seedDatabase(ctx, db, zap.NewNop()))

	// the failed run rolled back as a whole
	assert.EqualValues(t, 5, countRows(t, db, &models.User{}))
}

func TestResetDatabase(t *testing.T) {
	db := testhelpers.NewDB(t)
	ctx := context.Background()

	require.NoError(t, seedDatabase(ctx, db, zap.NewNop()))
	require.NoError(t, resetDatabase(db))
	assert.Zero(t, countRows(t, db, &models.User{}))

	require.NoError(t, seedDatabase(ctx, db, zap.NewNop()))
	assert.EqualValues(t, 5, countRows(t, db, &models.Book{}))
}

func TestReadPasswordFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.WriteString("  hunter2  \nignored\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	password, err := readPassword(&out, r, "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", password)
	assert.Empty(t, out.String(), "no prompt when stdin is not a terminal")
}
