package controllers

import (
	"net/http"

	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

type addToCartRequest struct {
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"`
}

func (c *CartController) GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	cart, err := c.carts.GetCart(ctx.Request.Context(), userID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, cart.View())
}

// AddToCart adds a line to the caller's cart and returns the Pending order it opened.
func (c *CartController) AddToCart(ctx *gin.Context) {
	var req addToCartRequest
	if !bindJSON(ctx, &req) {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	order, err := c.carts.AddToCart(ctx.Request.Context(), userID, req.BookID, req.Quantity)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, order.View())
}

func (c *CartController) RemoveItem(ctx *gin.Context) {
	itemID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.carts.RemoveItem(ctx.Request.Context(), userID, itemID); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendMessage(ctx, http.StatusOK, "Item removed from cart")
}

func (c *CartController) ClearCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.carts.ClearCart(ctx.Request.Context(), userID); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendMessage(ctx, http.StatusOK, "Cart cleared")
}
