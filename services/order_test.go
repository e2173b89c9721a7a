package services

import (
	"context"
	"testing"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListUserOrders(t *testing.T) {
	db := testhelpers.NewDB(t)
	carts := NewCartService(db, zap.NewNop())
	orders := NewOrderService(db, zap.NewNop())
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "Alice", "alice@example.com", false)
	bob := testhelpers.CreateUser(t, db, "Bob", "bob@example.com", false)
	book := testhelpers.CreateBook(t, db, "1984", "8.99", 10)

	_, err := carts.AddToCart(ctx, alice.ID, book.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, alice.ID, book.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, bob.ID, book.ID, 1)
	require.NoError(t, err)

	list, err := orders.ListUserOrders(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, o := range list {
		assert.Equal(t, alice.ID, o.UserID)
		require.Len(t, o.Books, 1)
		assert.Equal(t, "1984", o.Books[0].Book.Title)
	}
	assert.Equal(t, 2, list[1].Books[0].Quantity)

	none, err := orders.ListUserOrders(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateOrderStatus(t *testing.T) {
	db := testhelpers.NewDB(t)
	orders := NewOrderService(db, zap.NewNop())
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "Alice", "alice@example.com", false)
	order := models.Order{UserID: user.ID}
	require.NoError(t, db.Create(&order).Error)

	updated, err := orders.UpdateOrderStatus(ctx, order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)
	assert.Equal(t, "Alice", updated.User.Name)

	_, err = orders.UpdateOrderStatus(ctx, order.ID, "Teleported")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = orders.UpdateOrderStatus(ctx, 9999, models.OrderCancelled)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
