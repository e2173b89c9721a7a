package routes

import (
	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(user, admin *gin.RouterGroup, orders *controllers.OrderController) {
	user.GET("/user/orders", orders.ListUserOrders)
	admin.PATCH("/orders/:id", orders.UpdateStatus)
}
