package mpesa

import (
	"context"
	"time"
)

type B2CRequest struct {
	InitiatorName      string `json:"InitiatorName"`
	SecurityCredential string `json:"SecurityCredential"`
	CommandID          string `json:"CommandID"`
	Amount             int64  `json:"Amount"`
	PartyA             string `json:"PartyA"`
	PartyB             string `json:"PartyB"`
	Remarks            string `json:"Remarks"`
	QueueTimeOutURL    string `json:"QueueTimeOutURL"`
	ResultURL          string `json:"ResultURL"`
	Occasion           string `json:"Occassion"`
}

// B2C sends a business-to-customer payment.
func (c *Client) B2C(ctx context.Context, req B2CRequest) (*Response, error) {
	if req.CommandID == "" {
		req.CommandID = "BusinessPayment"
	}
	return c.post(ctx, b2cPath, req)
}

type C2BRegisterRequest struct {
	ShortCode       string `json:"ShortCode"`
	ResponseType    string `json:"ResponseType"`
	ConfirmationURL string `json:"ConfirmationURL"`
	ValidationURL   string `json:"ValidationURL"`
}

// RegisterC2B registers the confirmation and validation URLs for a short code.
func (c *Client) RegisterC2B(ctx context.Context, req C2BRegisterRequest) (*Response, error) {
	if req.ResponseType == "" {
		req.ResponseType = "Completed"
	}
	return c.post(ctx, c2bRegisterPath, req)
}

type C2BSimulateRequest struct {
	ShortCode     string `json:"ShortCode"`
	CommandID     string `json:"CommandID"`
	Amount        int64  `json:"Amount"`
	Msisdn        string `json:"Msisdn"`
	BillRefNumber string `json:"BillRefNumber"`
}

// SimulateC2B fakes a customer paybill payment. Sandbox only.
func (c *Client) SimulateC2B(ctx context.Context, req C2BSimulateRequest) (*Response, error) {
	if req.CommandID == "" {
		req.CommandID = "CustomerPayBillOnline"
	}
	return c.post(ctx, c2bSimulatePath, req)
}

// STKPushRequest carries what the caller knows; the password and timestamp are filled in by STKPush.
type STKPushRequest struct {
	BusinessShortCode string
	Passkey           string
	Amount            int64
	PhoneNumber       string
	CallbackURL       string
	AccountReference  string
	Description       string
}

type stkPushBody struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResult is the synchronous acknowledgement of an STK push.
type STKPushResult struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// STKPush prompts the customer's phone to authorise a payment (Lipa na Mpesa Online).
func (c *Client) STKPush(ctx context.Context, req STKPushRequest) (*Response, error) {
	ts := Timestamp(c.now())
	body := stkPushBody{
		BusinessShortCode: req.BusinessShortCode,
		Password:          Password(req.BusinessShortCode, req.Passkey, ts),
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            req.BusinessShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       req.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	}
	return c.post(ctx, stkPushPath, body)
}

// SetClock overrides the time source. Tests only.
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}
