package controllers

import (
	"net/http"

	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
)

type BorrowingController struct {
	borrowings *services.BorrowingService
}

func NewBorrowingController(borrowings *services.BorrowingService) *BorrowingController {
	return &BorrowingController{borrowings: borrowings}
}

type borrowRequest struct {
	BookID uint `json:"book_id"`
	Days   int  `json:"days"`
}

func (c *BorrowingController) ListUserBorrowings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	borrowings, err := c.borrowings.ListUserBorrowings(ctx.Request.Context(), userID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, models.ViewsOf(borrowings, models.Borrowing.View))
}

func (c *BorrowingController) ListAllBorrowings(ctx *gin.Context) {
	borrowings, err := c.borrowings.ListAllBorrowings(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, models.ViewsOf(borrowings, models.Borrowing.View))
}

func (c *BorrowingController) Borrow(ctx *gin.Context) {
	var req borrowRequest
	if !bindJSON(ctx, &req) {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	borrowing, err := c.borrowings.Borrow(ctx.Request.Context(), userID, req.BookID, req.Days)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, borrowing.View())
}

func (c *BorrowingController) Return(ctx *gin.Context) {
	borrowingID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	borrowing, err := c.borrowings.Return(ctx.Request.Context(), userID, borrowingID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, borrowing.View())
}
