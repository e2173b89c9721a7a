package routes

import (
	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/gin-gonic/gin"
)

// PaymentRoutes registers the Mpesa flows. The /transact routes and the
// callback are public; optionalAuth lets a signed-in STK push be tracked.
func PaymentRoutes(server *gin.Engine, user, admin *gin.RouterGroup, payments *controllers.PaymentController, optionalAuth gin.HandlerFunc) {
	user.POST("/mpesa-transaction", payments.RecordTransaction)
	admin.GET("/transactions", payments.ListTransactions)

	transact := server.Group("/transact")
	{
		transact.POST("/b2c", payments.B2C)
		transact.POST("/c2b", payments.C2B)
		transact.POST("/mpesaexpress", optionalAuth, payments.STKPush)
	}
	server.POST("/callback-url", payments.Callback)
}
