package services

import (
	"context"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgNoCart           = "No cart found for user"
	msgCartItemNotFound = "Cart item not found"
	msgBadQuantity      = "Quantity must be at least 1"
)

type CartService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCartService(db *gorm.DB, logger *zap.Logger) *CartService {
	return &CartService{db: db, logger: logger}
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Book").
		First(&cart).Error
	if err != nil {
		return nil, apperrors.FromDB(err, msgNoCart, "")
	}
	return &cart, nil
}

// AddToCart records the book in the user's cart and checks it out straight away
// as a Pending order holding that single line.
func (s *CartService) AddToCart(ctx context.Context, userID, bookID uint, quantity int) (*models.Order, error) {
	if bookID == 0 || quantity == 0 {
		return nil, apperrors.Validation(msgMissingFields)
	}
	if quantity < 1 {
		return nil, apperrors.Validation(msgBadQuantity)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Select("id").First(&book, bookID).Error; err != nil {
			return apperrors.FromDB(err, msgBookNotFound, "")
		}

		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		item := models.CartItem{CartID: cart.ID, BookID: bookID, Quantity: quantity}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "book_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + ?", quantity),
			}),
		}).Omit("Book").Create(&item).Error
		if err != nil {
			return err
		}

		order = models.Order{UserID: userID, Status: models.OrderPending}
		if err := tx.Omit("User", "Books").Create(&order).Error; err != nil {
			return err
		}
		line := models.OrderBook{OrderID: order.ID, BookID: bookID, Quantity: quantity}
		if err := tx.Omit("Book").Create(&line).Error; err != nil {
			return err
		}

		return tx.Preload("User").Preload("Books.Book").First(&order, order.ID).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, msgBookNotFound, "Order already exists")
	}

	s.logger.Info("book added to cart",
		zap.Uint("user_id", userID), zap.Uint("book_id", bookID),
		zap.Int("quantity", quantity), zap.Uint("order_id", order.ID))
	return &order, nil
}

// getOrCreateCart inserts the cart unless one exists, then reads it. The unique
// index on user_id makes concurrent callers converge on one row.
func getOrCreateCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Omit("Items").Create(&models.Cart{UserID: userID}).Error
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes one line from the caller's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", itemID,
			s.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return apperrors.Internal("Failed to remove cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(msgCartItemNotFound)
	}
	return nil
}

// ClearCart deletes the caller's cart and every item in it.
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return apperrors.FromDB(err, msgNoCart, "")
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return apperrors.Internal("Failed to clear cart", err)
		}
		if err := tx.Delete(&cart).Error; err != nil {
			return apperrors.Internal("Failed to clear cart", err)
		}
		return nil
	})
}
