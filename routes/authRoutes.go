package routes

import (
	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, auth *controllers.AuthController, requireAuth gin.HandlerFunc) {
	server.POST("/register", auth.Register)
	server.POST("/login", auth.Login)
	server.POST("/admin/logout", auth.Logout)
	server.GET("/admin_check", requireAuth, auth.AdminCheck)
}
