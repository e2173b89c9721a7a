package services

import (
	"context"
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoanPeriodDays is how long a book is lent when the caller does not say.
const LoanPeriodDays = 14

const (
	msgBorrowingNotFound = "Borrowing not found"
	msgNotBorrowable     = "Book is not available for borrowing"
	msgOutOfStock        = "Book is out of stock"
	msgAlreadyReturned   = "Book has already been returned"
	msgBadLoanPeriod     = "Days must be at least 1"
)

type BorrowingService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewBorrowingService(db *gorm.DB, logger *zap.Logger) *BorrowingService {
	return &BorrowingService{db: db, logger: logger, now: time.Now}
}

func (s *BorrowingService) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Book")
}

func (s *BorrowingService) ListUserBorrowings(ctx context.Context, userID uint) ([]models.Borrowing, error) {
	var borrowings []models.Borrowing
	err := s.withDetails(s.db.WithContext(ctx)).Where("user_id = ?", userID).Order("id").Find(&borrowings).Error
	if err != nil {
		return nil, apperrors.Internal("Failed to list borrowings", err)
	}
	return borrowings, nil
}

func (s *BorrowingService) ListAllBorrowings(ctx context.Context) ([]models.Borrowing, error) {
	var borrowings []models.Borrowing
	if err := s.withDetails(s.db.WithContext(ctx)).Order("id").Find(&borrowings).Error; err != nil {
		return nil, apperrors.Internal("Failed to list borrowings", err)
	}
	return borrowings, nil
}

// Borrow lends one copy of a book for days days (LoanPeriodDays when days is 0).
func (s *BorrowingService) Borrow(ctx context.Context, userID, bookID uint, days int) (*models.Borrowing, error) {
	if bookID == 0 {
		return nil, apperrors.Validation(msgMissingFields)
	}
	if days == 0 {
		days = LoanPeriodDays
	}
	if days < 1 {
		return nil, apperrors.Validation(msgBadLoanPeriod)
	}

	var borrowing models.Borrowing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, bookID).Error; err != nil {
			return apperrors.FromDB(err, msgBookNotFound, "")
		}
		if !book.IsAvailableForBorrowing {
			return apperrors.Conflict(msgNotBorrowable)
		}
		if book.Stock < 1 {
			return apperrors.Conflict(msgOutOfStock)
		}

		book.Stock--
		if err := tx.Omit(clause.Associations).Save(&book).Error; err != nil {
			return err
		}

		now := s.now().UTC()
		borrowing = models.Borrowing{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: now,
			DueDate:    now.AddDate(0, 0, days),
		}
		if err := tx.Omit(clause.Associations).Create(&borrowing).Error; err != nil {
			return err
		}
		return s.withDetails(tx).First(&borrowing, borrowing.ID).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, msgBookNotFound, "")
	}

	s.logger.Info("book borrowed",
		zap.Uint("user_id", userID), zap.Uint("book_id", bookID), zap.Time("due", borrowing.DueDate))
	return &borrowing, nil
}

// Return closes the caller's borrowing and puts the copy back on the shelf.
func (s *BorrowingService) Return(ctx context.Context, userID, borrowingID uint) (*models.Borrowing, error) {
	var borrowing models.Borrowing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", borrowingID, userID).
			First(&borrowing).Error
		if err != nil {
			return apperrors.FromDB(err, msgBorrowingNotFound, "")
		}
		if borrowing.Returned() {
			return apperrors.Conflict(msgAlreadyReturned)
		}

		now := s.now().UTC()
		borrowing.ReturnDate = &now
		if err := tx.Omit(clause.Associations).Save(&borrowing).Error; err != nil {
			return err
		}

		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, borrowing.BookID).Error; err != nil {
			return apperrors.FromDB(err, msgBookNotFound, "")
		}
		book.Stock++
		if err := tx.Omit(clause.Associations).Save(&book).Error; err != nil {
			return err
		}
		return s.withDetails(tx).First(&borrowing, borrowing.ID).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, msgBorrowingNotFound, "")
	}

	s.logger.Info("book returned", zap.Uint("user_id", userID), zap.Uint("borrowing_id", borrowingID))
	return &borrowing, nil
}
