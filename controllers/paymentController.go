package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/middlewares"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/mpesa"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Default amounts used by the gateway test routes when the body carries none.
const (
	defaultB2CAmount = 1000
	defaultC2BAmount = 100
	defaultSTKAmount = 1
)

type PaymentController struct {
	payments *services.PaymentService
	logger   *zap.Logger
}

func NewPaymentController(payments *services.PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{payments: payments, logger: logger}
}

type recordTransactionRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type b2cRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	PartyB string           `json:"party_b"`
}

type c2bRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Msisdn string           `json:"msisdn"`
}

type stkPushRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	PhoneNumber string           `json:"phone_number"`
}

// wholeAmount rounds a shilling amount for the gateway, which only takes integers.
func wholeAmount(amount *decimal.Decimal, fallback int64) int64 {
	if amount == nil {
		return fallback
	}
	return amount.Round(0).IntPart()
}

// sendGatewayResponse relays the Daraja reply untouched.
func sendGatewayResponse(ctx *gin.Context, resp *mpesa.Response) {
	ctx.Data(resp.StatusCode, "application/json; charset=utf-8", resp.Body)
}

func (c *PaymentController) RecordTransaction(ctx *gin.Context) {
	var req recordTransactionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	txn, err := c.payments.RecordTransaction(ctx.Request.Context(), userID, req.Amount)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, txn.View())
}

func (c *PaymentController) ListTransactions(ctx *gin.Context) {
	txns, err := c.payments.ListTransactions(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, models.ViewsOf(txns, models.MpesaTransaction.View))
}

func (c *PaymentController) B2C(ctx *gin.Context) {
	var req b2cRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.payments.B2C(ctx.Request.Context(), wholeAmount(req.Amount, defaultB2CAmount), req.PartyB)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendGatewayResponse(ctx, resp)
}

func (c *PaymentController) C2B(ctx *gin.Context) {
	var req c2bRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.payments.C2B(ctx.Request.Context(), wholeAmount(req.Amount, defaultC2BAmount), req.Msisdn)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendGatewayResponse(ctx, resp)
}

// STKPush starts an Mpesa Express payment. Signed-in callers get a Pending
// transaction that the callback later settles.
func (c *PaymentController) STKPush(ctx *gin.Context) {
	var req stkPushRequest
	if !bindJSON(ctx, &req) {
		return
	}

	var userID *uint
	if id, ok := middlewares.GetIdentity(ctx); ok {
		userID = &id.UserID
	}

	resp, err := c.payments.STKPush(ctx.Request.Context(), userID, wholeAmount(req.Amount, defaultSTKAmount), req.PhoneNumber)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendGatewayResponse(ctx, resp)
}

// Callback acknowledges every delivery with the payload it received.
func (c *PaymentController) Callback(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil {
		respondWithError(ctx, apperrors.New(apperrors.KindValidation, msgInvalidInput, err))
		return
	}

	if err := c.payments.HandleCallback(ctx.Request.Context(), raw); err != nil {
		c.logger.Warn("callback not applied",
			zap.String("trace_id", middlewares.GetTraceID(ctx)),
			zap.Error(err))
	}

	if !json.Valid(raw) {
		sendJSONResponse(ctx, http.StatusOK, gin.H{})
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
