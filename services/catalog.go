package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	msgBookNotFound     = "Book not found"
	msgCategoryNotFound = "Category not found"
	msgCategoryExists   = "Category already exists"
)

type CatalogService struct {
	db       *gorm.DB
	uploader storage.Uploader
	logger   *zap.Logger
}

func NewCatalogService(db *gorm.DB, uploader storage.Uploader, logger *zap.Logger) *CatalogService {
	if uploader == nil {
		uploader = storage.Disabled{}
	}
	return &CatalogService{db: db, uploader: uploader, logger: logger}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := s.db.WithContext(ctx).Preload("Category").Order("id").Find(&books).Error; err != nil {
		return nil, apperrors.Internal("Failed to list books", err)
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.WithContext(ctx).Preload("Category").First(&book, id).Error; err != nil {
		return nil, apperrors.FromDB(err, msgBookNotFound, "")
	}
	return &book, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Internal("Failed to list categories", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: strings.TrimSpace(name)}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperrors.FromDB(err, msgCategoryNotFound, msgCategoryExists)
	}
	return category, nil
}

type NewBook struct {
	Title                   string
	Author                  string
	Price                   decimal.Decimal
	Stock                   int
	Description             string
	IsAvailableForBorrowing *bool
	CategoryID              *uint
}

func (s *CatalogService) CreateBook(ctx context.Context, in NewBook) (*models.Book, error) {
	available := true
	if in.IsAvailableForBorrowing != nil {
		available = *in.IsAvailableForBorrowing
	}
	book := &models.Book{
		Title:                   strings.TrimSpace(in.Title),
		Author:                  strings.TrimSpace(in.Author),
		Price:                   in.Price,
		Stock:                   in.Stock,
		Description:             in.Description,
		IsAvailableForBorrowing: available,
		CategoryID:              in.CategoryID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.CategoryID != nil {
			var category models.Category
			if err := tx.First(&category, *in.CategoryID).Error; err != nil {
				return apperrors.FromDB(err, msgCategoryNotFound, "")
			}
			book.Category = &category
		}
		return tx.Omit("Category").Create(book).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, msgBookNotFound, "Book already exists")
	}

	s.logger.Info("book created", zap.Uint("book_id", book.ID), zap.String("title", book.Title))
	return book, nil
}

// UploadCover stores the image and records its URL on the book.
func (s *CatalogService) UploadCover(ctx context.Context, bookID uint, filename, contentType string, body io.Reader) (*models.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, storage.CoverKey(bookID, filename, time.Now().UTC()), contentType, body)
	if errors.Is(err, storage.ErrNotConfigured) {
		return nil, apperrors.New(apperrors.KindInternal, "Cover storage is not configured", err)
	}
	if err != nil {
		return nil, apperrors.New(apperrors.KindGateway, "Failed to upload cover", err)
	}

	if err := s.db.WithContext(ctx).Model(book).Update("cover_url", url).Error; err != nil {
		return nil, apperrors.Internal("Failed to save cover", err)
	}
	book.CoverURL = url
	return book, nil
}
