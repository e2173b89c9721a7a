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
	msgOrderNotFound = "Order not found"
	msgInvalidStatus = "Invalid order status"
)

type OrderService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderService(db *gorm.DB, logger *zap.Logger) *OrderService {
	return &OrderService{db: db, logger: logger}
}

func (s *OrderService) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Books.Book")
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.withDetails(s.db.WithContext(ctx)).Where("user_id = ?", userID).Order("id").Find(&orders).Error
	if err != nil {
		return nil, apperrors.Internal("Failed to list orders", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to another lifecycle state.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.Validation(msgInvalidStatus)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
			return apperrors.FromDB(err, msgOrderNotFound, "")
		}
		order.Status = status
		if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
			return err
		}
		return s.withDetails(tx).First(&order, orderID).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, msgOrderNotFound, "")
	}

	s.logger.Info("order status updated", zap.Uint("order_id", orderID), zap.String("status", status))
	return &order, nil
}
