package controllers

import (
	"net/http"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/middlewares"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
)

const (
	msgLoginSuccess = "Login successful"
	msgLoggedOut    = "Logged out successfully"
	msgUserIsAdmin  = "User is an admin"
	msgUserNotAdmin = "User is not an admin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (c *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.auth.Register(ctx.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, user.View())
}

// Login handles user authentication
func (c *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	token, user, err := c.auth.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message":      msgLoginSuccess,
		"access_token": token,
		"user":         user.View(),
	})
}

// Logout revokes the presented token, if any. It always succeeds.
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.auth.Logout(ctx.Request.Context(), middlewares.BearerToken(ctx)); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendMessage(ctx, http.StatusOK, msgLoggedOut)
}

func (c *AuthController) AdminCheck(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	isAdmin, err := c.auth.IsAdmin(ctx.Request.Context(), userID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	if !isAdmin {
		respondWithError(ctx, apperrors.Forbidden(msgUserNotAdmin))
		return
	}
	sendMessage(ctx, http.StatusOK, msgUserIsAdmin)
}

func (c *AuthController) ListUsers(ctx *gin.Context) {
	users, err := c.auth.ListUsers(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, models.ViewsOf(users, models.User.View))
}
