package initializers

import (
	"github.com/Kariqs/bookstore-api/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Book{},
		&models.Order{},
		&models.OrderBook{},
		&models.Borrowing{},
		&models.Cart{},
		&models.CartItem{},
		&models.MpesaTransaction{},
		&models.RevokedToken{},
	)
}

func SyncDatabase() error {
	if err := Migrate(DB); err != nil {
		return err
	}
	Logger.Info("Database synced successfully.")
	return nil
}
