package routes

import (
	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/gin-gonic/gin"
)

func BorrowingRoutes(user, admin *gin.RouterGroup, borrowings *controllers.BorrowingController) {
	user.GET("/user/borrowings", borrowings.ListUserBorrowings)
	user.POST("/borrowings", borrowings.Borrow)
	user.POST("/borrowings/:id/return", borrowings.Return)
	admin.GET("/borrowings", borrowings.ListAllBorrowings)
}
