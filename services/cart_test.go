package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddToCartCreatesCartAndOrder(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc := NewCartService(db, zap.NewNop())
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "Alice", "alice@example.com", false)
	book := testhelpers.CreateBook(t, db, "The Great Gatsby", "10.99", 5)

	_, err := svc.GetCart(ctx, user.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Equal(t, "No cart found for user", apperrors.As(err).Message)

	order, err := svc.AddToCart(ctx, user.ID, book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "Alice", order.User.Name)
	require.Len(t, order.Books, 1)
	assert.Equal(t, book.ID, order.Books[0].BookID)
	assert.Equal(t, 2, order.Books[0].Quantity)
	assert.Equal(t, "The Great Gatsby", order.Books[0].Book.Title)

	var line models.OrderBook
	require.NoError(t, db.Where("order_id = ? AND book_id = ?", order.ID, book.ID).First(&line).Error)
	assert.Equal(t, 2, line.Quantity)

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, book.ID, cart.Items[0].Book.ID)

	var reloaded models.Book
	require.NoError(t, db.First(&reloaded, book.ID).Error)
	assert.Equal(t, 5, reloaded.Stock, "ordering does not touch stock")
}

func TestAddToCartAccumulatesQuantity(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc := NewCartService(db, zap.NewNop())
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "Bob", "bob@example.com", false)
	book := testhelpers.CreateBook(t, db, "1984", "8.99", 10)

	first, err := svc.AddToCart(ctx, user.ID, book.ID, 1)
	require.NoError(t, err)
	second, err := svc.AddToCart(ctx, user.ID, book.ID, 3)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "each add is its own order")

	cart, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts).Error)
	assert.EqualValues(t, 1, carts)
}

func TestAddToCartValidation(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc := NewCartService(db, zap.NewNop())
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "Carol", "carol@example.com", false)
	book := testhelpers.CreateBook(t, db, "Sapiens", "15.99", 7)

	_, err := svc.AddToCart(ctx, user.ID, book.ID, 0)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = svc.AddToCart(ctx, user.ID, 0, 1)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = svc.AddToCart(ctx, user.ID, book.ID, -1)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = svc.AddToCart(ctx, user.ID, 9999, 1)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Equal(t, "Book not found", apperrors.As(err).Message)

	var orders, carts int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	assert.Zero(t, orders)
	assert.Zero(t, carts, "a rejected add leaves nothing behind")
}

func TestConcurrentAddToCartSharesOneCart(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc := NewCartService(db, zap.NewNop())
	user := testhelpers.CreateUser(t, db, "Dave", "dave@example.com", false)
	book := testhelpers.CreateBook(t, db, "Clean Code", "25.99", 8)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddToCart(context.Background(), user.ID, book.ID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cart, err := svc.GetCart(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 8, cart.Items[0].Quantity)
}

func TestRemoveItemAndClearCart(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc := NewCartService(db, zap.NewNop())
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, db, "Eve", "eve@example.com", false)
	other := testhelpers.CreateUser(t, db, "Mallory", "mallory@example.com", false)
	gatsby := testhelpers.CreateBook(t, db, "The Great Gatsby", "10.99", 5)
	educated := testhelpers.CreateBook(t, db, "Educated", "12.99", 3)

	_, err := svc.AddToCart(ctx, owner.ID, gatsby.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, owner.ID, educated.ID, 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	err = svc.RemoveItem(ctx, other.ID, cart.Items[0].ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound), "cannot remove another user's item")

	require.NoError(t, svc.RemoveItem(ctx, owner.ID, cart.Items[0].ID))
	cart, err = svc.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	require.NoError(t, svc.ClearCart(ctx, owner.ID))
	_, err = svc.GetCart(ctx, owner.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	var items int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	assert.Zero(t, items)

	assert.True(t, apperrors.Is(svc.ClearCart(ctx, owner.ID), apperrors.KindNotFound))
}
