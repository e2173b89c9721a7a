package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const maxCoverSize = 5 << 20

type BookController struct {
	catalog *services.CatalogService
}

func NewBookController(catalog *services.CatalogService) *BookController {
	return &BookController{catalog: catalog}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type createBookRequest struct {
	Title                   string          `json:"title"`
	Author                  string          `json:"author"`
	Price                   decimal.Decimal `json:"price"`
	Stock                   int             `json:"stock"`
	Description             string          `json:"description"`
	IsAvailableForBorrowing *bool           `json:"is_available_for_borrowing"`
	CategoryID              *uint           `json:"category_id"`
}

func (c *BookController) ListBooks(ctx *gin.Context) {
	books, err := c.catalog.ListBooks(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, models.ViewsOf(books, models.Book.View))
}

func (c *BookController) GetBook(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	book, err := c.catalog.GetBook(ctx.Request.Context(), id)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, book.View())
}

func (c *BookController) ListCategories(ctx *gin.Context) {
	categories, err := c.catalog.ListCategories(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, models.ViewsOf(categories, models.Category.View))
}

func (c *BookController) CreateCategory(ctx *gin.Context) {
	var req createCategoryRequest
	if !bindJSON(ctx, &req) {
		return
	}
	category, err := c.catalog.CreateCategory(ctx.Request.Context(), req.Name)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, category.View())
}

func (c *BookController) CreateBook(ctx *gin.Context) {
	var req createBookRequest
	if !bindJSON(ctx, &req) {
		return
	}
	book, err := c.catalog.CreateBook(ctx.Request.Context(), services.NewBook{
		Title:                   req.Title,
		Author:                  req.Author,
		Price:                   req.Price,
		Stock:                   req.Stock,
		Description:             req.Description,
		IsAvailableForBorrowing: req.IsAvailableForBorrowing,
		CategoryID:              req.CategoryID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, book.View())
}

// UploadCover accepts a multipart "cover" image and stores it for the book.
func (c *BookController) UploadCover(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("cover")
	if err != nil {
		respondWithError(ctx, apperrors.New(apperrors.KindValidation, "No cover image provided", err))
		return
	}
	if file.Size > maxCoverSize {
		respondWithError(ctx, apperrors.Validation("Cover image is too large"))
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondWithError(ctx, apperrors.Validation("Cover must be an image"))
		return
	}

	src, err := file.Open()
	if err != nil {
		respondWithError(ctx, apperrors.Internal("Failed to read cover image", err))
		return
	}
	defer src.Close()

	book, err := c.catalog.UploadCover(ctx.Request.Context(), id, filepath.Base(file.Filename), contentType, src)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, book.View())
}
