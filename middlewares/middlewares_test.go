package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	admins map[uint]bool
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*services.Identity, error) {
	switch token {
	case "alice":
		return &services.Identity{UserID: 1}, nil
	case "root":
		return &services.Identity{UserID: 2}, nil
	}
	return nil, apperrors.Auth("Invalid or expired token")
}

func (s stubAuth) IsAdmin(_ context.Context, userID uint) (bool, error) {
	return s.admins[userID], nil
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := stubAuth{admins: map[uint]bool{2: true}}

	r := gin.New()
	r.Use(TraceID())
	whoami := func(ctx *gin.Context) {
		id, ok := GetIdentity(ctx)
		if !ok {
			ctx.JSON(http.StatusOK, gin.H{"user_id": 0})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"user_id": id.UserID})
	}
	r.GET("/private", RequireAuth(auth), whoami)
	r.GET("/admin", RequireAuth(auth), RequireAdmin(auth), whoami)
	r.GET("/optional", OptionalAuth(auth), whoami)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AUTH_ERROR", body["code"])

	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "forged").Code)

	w = do(r, "/private", "alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1}`, w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	r := newTestEngine()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "alice").Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", "root").Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newTestEngine()

	assert.JSONEq(t, `{"user_id":0}`, do(r, "/optional", "").Body.String())
	assert.JSONEq(t, `{"user_id":0}`, do(r, "/optional", "forged").Body.String())
	assert.JSONEq(t, `{"user_id":1}`, do(r, "/optional", "alice").Body.String())
}

func TestTraceID(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/optional", "")
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set(HeaderTraceID, "trace-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Header().Get(HeaderTraceID))
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
		"Bearer  abc ": "abc",
	}
	for header, want := range tests {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		ctx.Request.Header.Set("Authorization", header)
		assert.Equal(t, want, BearerToken(ctx), header)
	}
}
