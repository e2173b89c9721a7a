package routes

import (
	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/gin-gonic/gin"
)

func BookRoutes(server *gin.Engine, admin *gin.RouterGroup, books *controllers.BookController) {
	server.GET("/books", books.ListBooks)
	server.GET("/books/:id", books.GetBook)
	server.GET("/categories", books.ListCategories)

	admin.POST("/categories", books.CreateCategory)
	admin.POST("/books", books.CreateBook)
	admin.POST("/books/:id/cover", books.UploadCover)
}
