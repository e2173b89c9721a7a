package routes

import (
	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(user *gin.RouterGroup, cart *controllers.CartController) {
	user.GET("/cart", cart.GetCart)
	user.POST("/cart", cart.AddToCart)
	user.DELETE("/cart", cart.ClearCart)
	user.DELETE("/cart/items/:id", cart.RemoveItem)
}
