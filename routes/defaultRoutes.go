package routes

import (
	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func DefaultRoutes(server *gin.Engine, health *controllers.HealthController) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", health.Health)
	server.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func AdminRoutes(admin *gin.RouterGroup, auth *controllers.AuthController) {
	admin.GET("/users", auth.ListUsers)
}
