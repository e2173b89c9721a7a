package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInvalidInput = "Invalid request body"
	msgNoIdentity   = "User not found in context"
)

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendMessage(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithError writes err as {"message","code"} and logs server-side failures.
func respondWithError(ctx *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.Kind.Status >= http.StatusInternalServerError {
		zap.L().Error(appErr.Message,
			zap.String("trace_id", middlewares.GetTraceID(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Error(appErr.Cause))
	}
	sendJSONResponse(ctx, appErr.Kind.Status, gin.H{"message": appErr.Message, "code": appErr.Kind.Code})
}

func bindJSON(ctx *gin.Context, v any) bool {
	if err := ctx.ShouldBindJSON(v); err != nil {
		respondWithError(ctx, apperrors.New(apperrors.KindValidation, msgInvalidInput, err))
		return false
	}
	return true
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondWithError(ctx, apperrors.Validation("Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// currentUserID reads the identity set by RequireAuth and answers 401 when it is missing.
func currentUserID(ctx *gin.Context) (uint, bool) {
	id, ok := middlewares.GetIdentity(ctx)
	if !ok || id.UserID == 0 {
		respondWithError(ctx, apperrors.Auth(msgNoIdentity))
		return 0, false
	}
	return id.UserID, true
}
