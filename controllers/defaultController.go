package controllers

import (
	"net/http"

	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
)

const homeMessage = `Welcome to the Bookstore API. Browse, buy and borrow books.

The following are the endpoints for this API:

AUTH
- POST "/register" - Create user account
- POST "/login" - Access user account
- POST "/admin/logout" - Revoke the current token
- GET "/admin_check" - Check whether the caller is an admin

CATALOG
- GET "/books" - List books
- GET "/books/:id" - Get book by ID
- GET "/categories" - List categories
- POST "/admin/categories" - Create category
- POST "/admin/books" - Create book
- POST "/admin/books/:id/cover" - Upload book cover

CART & ORDERS
- GET "/cart" - Get cart
- POST "/cart" - Add book to cart
- DELETE "/cart" - Clear cart
- DELETE "/cart/items/:id" - Remove cart item
- GET "/user/orders" - Get own orders
- PATCH "/admin/orders/:id" - Update order status

BORROWINGS
- GET "/user/borrowings" - Get own borrowings
- POST "/borrowings" - Borrow a book
- POST "/borrowings/:id/return" - Return a book
- GET "/admin/borrowings" - List all borrowings

PAYMENTS
- POST "/mpesa-transaction" - Record a payment
- POST "/transact/b2c" - Business to customer payment
- POST "/transact/c2b" - Customer to business payment
- POST "/transact/mpesaexpress" - STK push
- POST "/callback-url" - Mpesa callback
- GET "/admin/transactions" - List all transactions
- GET "/admin/users" - List all users`

func GetHome(ctx *gin.Context) {
	sendMessage(ctx, http.StatusOK, homeMessage)
}

type HealthController struct {
	health *services.HealthService
}

func NewHealthController(health *services.HealthService) *HealthController {
	return &HealthController{health: health}
}

func (c *HealthController) Health(ctx *gin.Context) {
	result := c.health.Check(ctx.Request.Context())
	status := http.StatusOK
	if !result.Healthy() {
		status = http.StatusServiceUnavailable
	}
	sendJSONResponse(ctx, status, result)
}
