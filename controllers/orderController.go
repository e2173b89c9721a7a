package controllers

import (
	"net/http"

	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type updateOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

func (c *OrderController) ListUserOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	orders, err := c.orders.ListUserOrders(ctx.Request.Context(), userID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, models.ViewsOf(orders, models.Order.View))
}

func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	orderID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req updateOrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	order, err := c.orders.UpdateOrderStatus(ctx.Request.Context(), orderID, req.Status)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order.View())
}
