package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedPassword = "password"

var resetBeforeSeed bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with sample users, books, orders and payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := connect(); err != nil {
			return err
		}
		defer initializers.CloseDB()

		if resetBeforeSeed {
			if err := resetDatabase(initializers.DB); err != nil {
				return err
			}
		} else if err := initializers.SyncDatabase(); err != nil {
			return err
		}
		return seedDatabase(cmd.Context(), initializers.DB, initializers.Logger)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&resetBeforeSeed, "reset", false, "drop every table before seeding")
	rootCmd.AddCommand(seedCmd)
}

// resetDatabase drops all tables, children first, and recreates them.
func resetDatabase(db *gorm.DB) error {
	err := db.Migrator().DropTable(
		&models.RevokedToken{},
		&models.MpesaTransaction{},
		&models.CartItem{},
		&models.Cart{},
		&models.Borrowing{},
		&models.OrderBook{},
		&models.Order{},
		&models.Book{},
		&models.Category{},
		&models.User{},
	)
	if err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return initializers.Migrate(db)
}

func seedDatabase(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	hash, err := services.HashPassword(seedPassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := []models.Category{
			{Name: "Fiction"},
			{Name: "Non-fiction"},
			{Name: "Science"},
			{Name: "Biography"},
			{Name: "Technology"},
		}
		if err := tx.Omit(clause.Associations).Create(&categories).Error; err != nil {
			return fmt.Errorf("error creating categories: %w", err)
		}
		logger.Info("Categories added successfully.")

		users := []models.User{
			{Name: "Alice", Email: "alice@example.com", PasswordHash: hash},
			{Name: "Bob", Email: "bob@example.com", PasswordHash: hash},
			{Name: "Charlie", Email: "charlie@example.com", PasswordHash: hash},
			{Name: "David", Email: "david@example.com", PasswordHash: hash},
			{Name: "Eve", Email: "eve@example.com", PasswordHash: hash},
		}
		if err := tx.Omit(clause.Associations).Create(&users).Error; err != nil {
			return fmt.Errorf("error creating users: %w", err)
		}
		logger.Info("Users added successfully.")

		book := func(title, author, price string, stock int, category int) models.Book {
			return models.Book{
				Title:                   title,
				Author:                  author,
				Price:                   decimal.RequireFromString(price),
				Stock:                   stock,
				IsAvailableForBorrowing: true,
				CategoryID:              &categories[category].ID,
			}
		}
		books := []models.Book{
			book("The Great Gatsby", "F. Scott Fitzgerald", "10.99", 5, 0),
			book("1984", "George Orwell", "8.99", 10, 0),
			book("Sapiens", "Yuval Noah Harari", "15.99", 7, 1),
			book("Educated", "Tara Westover", "12.99", 3, 3),
			book("Clean Code", "Robert C. Martin", "25.99", 8, 4),
		}
		if err := tx.Omit(clause.Associations).Create(&books).Error; err != nil {
			return fmt.Errorf("error creating books: %w", err)
		}
		logger.Info("Books added successfully.")

		statuses := []string{models.OrderPending, models.OrderShipped, models.OrderDelivered, models.OrderCancelled, models.OrderPending}
		orders := make([]models.Order, len(users))
		for i := range orders {
			orders[i] = models.Order{OrderDate: daysAgo(i), Status: statuses[i], UserID: users[i].ID}
		}
		if err := tx.Omit(clause.Associations).Create(&orders).Error; err != nil {
			return fmt.Errorf("error creating orders: %w", err)
		}
		logger.Info("Orders added successfully.")

		borrowedBook := []int{1, 2, 0, 3, 4}
		borrowings := make([]models.Borrowing, len(users))
		for i := range borrowings {
			borrowings[i] = models.Borrowing{
				BorrowDate: daysAgo(i),
				DueDate:    now.AddDate(0, 0, 7),
				UserID:     users[i].ID,
				BookID:     books[borrowedBook[i]].ID,
			}
		}
		if err := tx.Omit(clause.Associations).Create(&borrowings).Error; err != nil {
			return fmt.Errorf("error creating borrowings: %w", err)
		}
		logger.Info("Borrowings added successfully.")

		carts := make([]models.Cart, len(users))
		for i := range carts {
			carts[i] = models.Cart{UserID: users[i].ID}
		}
		if err := tx.Omit(clause.Associations).Create(&carts).Error; err != nil {
			return fmt.Errorf("error creating carts: %w", err)
		}
		logger.Info("Carts added successfully.")

		cartBook := []int{0, 2, 1, 3, 4}
		quantities := []int{2, 1, 4, 1, 3}
		items := make([]models.CartItem, len(carts))
		for i := range items {
			items[i] = models.CartItem{CartID: carts[i].ID, BookID: books[cartBook[i]].ID, Quantity: quantities[i]}
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("error creating cart items: %w", err)
		}
		logger.Info("Cart items added successfully.")

		payments := []struct {
			amount, receipt, status string
		}{
			{"100.00", "123456", models.TransactionCompleted},
			{"200.00", "654321", models.TransactionPending},
			{"300.00", "789123", models.TransactionFailed},
			{"150.00", "321789", models.TransactionCompleted},
			{"50.00", "987654", models.TransactionPending},
		}
		txns := make([]models.MpesaTransaction, len(payments))
		for i, p := range payments {
			txns[i] = models.MpesaTransaction{
				UserID:       users[i].ID,
				Amount:       decimal.RequireFromString(p.amount),
				MpesaReceipt: p.receipt,
				Status:       p.status,
			}
		}
		if err := tx.Omit(clause.Associations).Create(&txns).Error; err != nil {
			return fmt.Errorf("error creating mpesa transactions: %w", err)
		}
		logger.Info("Mpesa transactions added successfully.")
		return nil
	})
}
