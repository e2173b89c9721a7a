package mpesa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDaraja struct {
	tokenCalls atomic.Int32
	lastBody   map[string]any
	lastAuth   string
	tokenCode  int
}

func (f *fakeDaraja) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(oauthPath, func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
		if f.tokenCode != 0 {
			w.WriteHeader(f.tokenCode)
			_, _ = w.Write([]byte(`{"errorMessage":"Invalid Credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","expires_in":"3599"}`))
	})
	record := func(status int, reply string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.lastAuth = r.Header.Get("Authorization")
			f.lastBody = map[string]any{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastBody))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}
	}
	mux.HandleFunc(stkPushPath, record(http.StatusOK,
		`{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","CustomerMessage":"Success"}`))
	mux.HandleFunc(b2cPath, record(http.StatusBadRequest, `{"errorCode":"400.002.02","errorMessage":"Bad Request"}`))
	mux.HandleFunc(c2bRegisterPath, record(http.StatusOK, `{"ResponseDescription":"success"}`))
	mux.HandleFunc(c2bSimulatePath, record(http.StatusOK, `{"ResponseDescription":"Accept the service request successfully."}`))
	return mux
}

func newTestClient(t *testing.T, f *fakeDaraja) *Client {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, ConsumerKey: "key", ConsumerSecret: "secret", Timeout: 5 * time.Second})
}

func TestPassword(t *testing.T) {
	// base64("174379" + "passkey" + "20240101120000")
	assert.Equal(t, "MTc0Mzc5cGFzc2tleTIwMjQwMTAxMTIwMDAw", Password("174379", "passkey", "20240101120000"))
	assert.Equal(t, "20240101120000", Timestamp(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestSTKPush(t *testing.T) {
	f := &fakeDaraja{}
	client := newTestClient(t, f)
	client.SetClock(func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) })

	resp, err := client.STKPush(context.Background(), STKPushRequest{
		BusinessShortCode: "174379",
		Passkey:           "passkey",
		Amount:            1,
		PhoneNumber:       "254708374149",
		CallbackURL:       "https://example.com/callback-url",
		AccountReference:  "Order12345",
		Description:       "Test Transaction",
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var result STKPushResult
	require.NoError(t, resp.Decode(&result))
	assert.Equal(t, "ws_CO_1", result.CheckoutRequestID)

	assert.Equal(t, "Bearer tok-123", f.lastAuth)
	assert.Equal(t, "20240101120000", f.lastBody["Timestamp"])
	assert.Equal(t, "MTc0Mzc5cGFzc2tleTIwMjQwMTAxMTIwMDAw", f.lastBody["Password"])
	assert.Equal(t, "CustomerPayBillOnline", f.lastBody["TransactionType"])
	assert.Equal(t, "254708374149", f.lastBody["PartyA"])
	assert.Equal(t, "174379", f.lastBody["PartyB"])
}

func TestTokenIsCached(t *testing.T) {
	f := &fakeDaraja{}
	client := newTestClient(t, f)

	_, err := client.RegisterC2B(context.Background(), C2BRegisterRequest{ShortCode: "600000"})
	require.NoError(t, err)
	assert.Equal(t, "Completed", f.lastBody["ResponseType"])

	_, err = client.SimulateC2B(context.Background(), C2BSimulateRequest{ShortCode: "600000", Amount: 100, Msisdn: "254708374149"})
	require.NoError(t, err)
	assert.Equal(t, "CustomerPayBillOnline", f.lastBody["CommandID"])

	assert.EqualValues(t, 1, f.tokenCalls.Load())
}

func TestGatewayErrorIsReturnedVerbatim(t *testing.T) {
	f := &fakeDaraja{}
	client := newTestClient(t, f)

	resp, err := client.B2C(context.Background(), B2CRequest{Amount: 1000, PartyB: "254708374149"})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"errorCode":"400.002.02","errorMessage":"Bad Request"}`, string(resp.Body))
	assert.Equal(t, "BusinessPayment", f.lastBody["CommandID"])
}

func TestTokenFailure(t *testing.T) {
	f := &fakeDaraja{tokenCode: http.StatusUnauthorized}
	client := newTestClient(t, f)

	_, err := client.STKPush(context.Background(), STKPushRequest{BusinessShortCode: "174379"})
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
}

func TestMissingCredentials(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	_, err := client.STKPush(context.Background(), STKPushRequest{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestParseCallback(t *testing.T) {
	raw := []byte(`{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResultCode":0,
		"ResultDesc":"The service request is processed successfully.",
		"CallbackMetadata":{"Item":[{"Name":"Amount","Value":1.00},{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"},
		{"Name":"PhoneNumber","Value":254708374149}]}}}}`)

	cb, err := ParseCallback(raw)
	require.NoError(t, err)
	assert.True(t, cb.Succeeded())
	assert.Equal(t, "ws_CO_1", cb.CheckoutRequestID)
	assert.Equal(t, "NLJ7RT61SV", cb.Metadata("MpesaReceiptNumber"))
	assert.Equal(t, "254708374149", cb.Metadata("PhoneNumber"))
	assert.Empty(t, cb.Metadata("Balance"))

	failed, err := ParseCallback([]byte(`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_2","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`))
	require.NoError(t, err)
	assert.False(t, failed.Succeeded())
	assert.Empty(t, failed.Metadata("MpesaReceiptNumber"))

	_, err = ParseCallback([]byte(`{"Body":{}}`))
	assert.Error(t, err)
}
