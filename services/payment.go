package services

import (
	"context"
	"errors"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/mpesa"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgAmountRequired   = "Amount is required"
	msgAmountPositive   = "Amount must be greater than zero"
	msgPhoneRequired    = "Phone number is required"
	msgGatewayFailed    = "Payment gateway request failed"
	msgGatewayNotConfig = "Payment gateway is not configured"

	pendingReceiptPrefix = "PENDING-"
)

// Gateway is the slice of the Daraja API the payment flows use.
type Gateway interface {
	B2C(ctx context.Context, req mpesa.B2CRequest) (*mpesa.Response, error)
	RegisterC2B(ctx context.Context, req mpesa.C2BRegisterRequest) (*mpesa.Response, error)
	SimulateC2B(ctx context.Context, req mpesa.C2BSimulateRequest) (*mpesa.Response, error)
	STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.Response, error)
}

type PaymentService struct {
	db      *gorm.DB
	gateway Gateway
	cfg     initializers.MpesaConfig
	logger  *zap.Logger
}

func NewPaymentService(db *gorm.DB, gateway Gateway, cfg initializers.MpesaConfig, logger *zap.Logger) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, cfg: cfg, logger: logger}
}

func pendingReceipt() string {
	return pendingReceiptPrefix + uuid.NewString()
}

// RecordTransaction stores a Pending payment for the user.
func (s *PaymentService) RecordTransaction(ctx context.Context, userID uint, amount *decimal.Decimal) (*models.MpesaTransaction, error) {
	if amount == nil {
		return nil, apperrors.Validation(msgAmountRequired)
	}
	if !amount.IsPositive() {
		return nil, apperrors.Validation(msgAmountPositive)
	}

	txn := models.MpesaTransaction{
		UserID:       userID,
		Amount:       *amount,
		MpesaReceipt: pendingReceipt(),
		Status:       models.TransactionPending,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(&txn).Error; err != nil {
		return nil, apperrors.FromDB(err, msgUserNotFound, "Transaction already exists")
	}
	if err := s.db.WithContext(ctx).Preload("User").First(&txn, txn.ID).Error; err != nil {
		return nil, apperrors.Internal("Failed to load transaction", err)
	}

	s.logger.Info("transaction recorded", zap.Uint("user_id", userID), zap.String("amount", amount.String()))
	return &txn, nil
}

func (s *PaymentService) ListTransactions(ctx context.Context) ([]models.MpesaTransaction, error) {
	var txns []models.MpesaTransaction
	if err := s.db.WithContext(ctx).Preload("User").Order("id").Find(&txns).Error; err != nil {
		return nil, apperrors.Internal("Failed to list transactions", err)
	}
	return txns, nil
}

// gatewayError turns a client failure into a Gateway (or configuration) error.
func gatewayError(err error) error {
	var gwErr *mpesa.GatewayError
	if errors.As(err, &gwErr) {
		return apperrors.New(apperrors.KindGateway, msgGatewayFailed, err)
	}
	if errors.Is(err, mpesa.ErrMissingCredentials) {
		return apperrors.New(apperrors.KindInternal, msgGatewayNotConfig, err)
	}
	return apperrors.New(apperrors.KindGateway, msgGatewayFailed, err)
}

// B2C pays partyB from the business account.
func (s *PaymentService) B2C(ctx context.Context, amount int64, partyB string) (*mpesa.Response, error) {
	if partyB == "" {
		return nil, apperrors.Validation(msgPhoneRequired)
	}
	resp, err := s.gateway.B2C(ctx, mpesa.B2CRequest{
		InitiatorName:      s.cfg.InitiatorName,
		SecurityCredential: s.cfg.SecurityCredential,
		CommandID:          "BusinessPayment",
		Amount:             amount,
		PartyA:             s.cfg.PartyA,
		PartyB:             partyB,
		Remarks:            "Test Payment",
		QueueTimeOutURL:    s.cfg.TimeoutURL,
		ResultURL:          s.cfg.ResultURL,
		Occasion:           "Test",
	})
	if err != nil {
		return nil, gatewayError(err)
	}
	return resp, nil
}

// C2B registers the confirmation URLs and then simulates a customer payment.
func (s *PaymentService) C2B(ctx context.Context, amount int64, msisdn string) (*mpesa.Response, error) {
	if msisdn == "" {
		return nil, apperrors.Validation(msgPhoneRequired)
	}
	reg, err := s.gateway.RegisterC2B(ctx, mpesa.C2BRegisterRequest{
		ShortCode:       s.cfg.ShortCode,
		ResponseType:    "Completed",
		ConfirmationURL: s.cfg.ConfirmationURL,
		ValidationURL:   s.cfg.ValidationURL,
	})
	if err != nil {
		return nil, gatewayError(err)
	}
	if !reg.OK() {
		s.logger.Warn("c2b url registration rejected", zap.Int("status", reg.StatusCode))
		return reg, nil
	}

	resp, err := s.gateway.SimulateC2B(ctx, mpesa.C2BSimulateRequest{
		ShortCode:     s.cfg.ShortCode,
		CommandID:     "CustomerPayBillOnline",
		Amount:        amount,
		Msisdn:        msisdn,
		BillRefNumber: "account",
	})
	if err != nil {
		return nil, gatewayError(err)
	}
	return resp, nil
}

// STKPush asks the customer's phone to approve a payment. When userID is known
// the request is recorded as a Pending transaction keyed by its CheckoutRequestID.
func (s *PaymentService) STKPush(ctx context.Context, userID *uint, amount int64, phone string) (*mpesa.Response, error) {
	if phone == "" {
		return nil, apperrors.Validation(msgPhoneRequired)
	}
	if amount < 1 {
		return nil, apperrors.Validation(msgAmountPositive)
	}

	resp, err := s.gateway.STKPush(ctx, mpesa.STKPushRequest{
		BusinessShortCode: s.cfg.BusinessShortCode,
		Passkey:           s.cfg.Passcode,
		Amount:            amount,
		PhoneNumber:       phone,
		CallbackURL:       s.cfg.CallbackURL,
		AccountReference:  "Order12345",
		Description:       "Test Transaction",
	})
	if err != nil {
		return nil, gatewayError(err)
	}
	if !resp.OK() || userID == nil {
		return resp, nil
	}

	var ack mpesa.STKPushResult
	if err := resp.Decode(&ack); err != nil || ack.CheckoutRequestID == "" {
		s.logger.Warn("stk push acknowledgement without CheckoutRequestID", zap.Error(err))
		return resp, nil
	}

	checkoutID := ack.CheckoutRequestID
	txn := models.MpesaTransaction{
		UserID:            *userID,
		Amount:            decimal.NewFromInt(amount),
		MpesaReceipt:      pendingReceipt(),
		Status:            models.TransactionPending,
		CheckoutRequestID: &checkoutID,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(&txn).Error; err != nil {
		// the push has already gone out, so the gateway reply is still returned
		s.logger.Error("failed to record stk push", zap.String("checkout_request_id", checkoutID), zap.Error(err))
	}
	return resp, nil
}

// HandleCallback applies an STK callback to the matching transaction.
// Unknown CheckoutRequestIDs and transactions that are already settled are
// logged and ignored.
func (s *PaymentService) HandleCallback(ctx context.Context, raw []byte) error {
	cb, err := mpesa.ParseCallback(raw)
	if err != nil {
		return apperrors.New(apperrors.KindValidation, "Invalid callback payload", err)
	}

	log := s.logger.With(zap.String("checkout_request_id", cb.CheckoutRequestID), zap.Int("result_code", cb.ResultCode))
	if cb.Succeeded() {
		log.Info("Payment was successful")
	} else {
		log.Info("Payment failed", zap.String("result_desc", cb.ResultDesc))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.MpesaTransaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("checkout_request_id = ?", cb.CheckoutRequestID).
			First(&txn).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("callback for unknown transaction")
			return nil
		}
		if err != nil {
			return apperrors.Internal("Failed to load transaction", err)
		}
		if txn.Status != models.TransactionPending {
			log.Warn("callback for settled transaction", zap.String("status", txn.Status))
			return nil
		}

		txn.GatewayPayload = datatypes.JSON(raw)
		if cb.Succeeded() {
			txn.Status = models.TransactionCompleted
			if receipt := cb.Metadata("MpesaReceiptNumber"); receipt != "" {
				txn.MpesaReceipt = receipt
			}
		} else {
			txn.Status = models.TransactionFailed
		}

		if err := tx.Omit("User").Save(&txn).Error; err != nil {
			return apperrors.FromDB(err, "Transaction not found", "Receipt already recorded")
		}
		return nil
	})
}
