package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlersWithoutIdentityAreUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handlers := map[string]gin.HandlerFunc{
		"cart":       NewCartController(nil).GetCart,
		"borrowings": NewBorrowingController(nil).ListUserBorrowings,
		"orders":     NewOrderController(nil).ListUserOrders,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handler(ctx)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "AUTH_ERROR", body["code"])
			assert.Equal(t, msgNoIdentity, body["message"])
		})
	}
}
