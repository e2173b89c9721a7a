package mpesa

import (
	"encoding/json"
	"fmt"
)

// CallbackEnvelope is the body Daraja posts to the STK callback URL.
type CallbackEnvelope struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  *struct {
		Item []CallbackItem `json:"Item"`
	} `json:"CallbackMetadata,omitempty"`
}

type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// Succeeded reports whether the customer completed the payment.
func (cb STKCallback) Succeeded() bool {
	return cb.ResultCode == 0
}

// Metadata returns the named metadata value as a string, or "" if absent.
func (cb STKCallback) Metadata(name string) string {
	if cb.CallbackMetadata == nil {
		return ""
	}
	for _, item := range cb.CallbackMetadata.Item {
		if item.Name != name || len(item.Value) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(item.Value, &s); err == nil {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(item.Value, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// ParseCallback decodes a raw callback body.
func ParseCallback(raw []byte) (STKCallback, error) {
	var env CallbackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return STKCallback{}, fmt.Errorf("invalid callback payload: %w", err)
	}
	if env.Body.STKCallback.CheckoutRequestID == "" {
		return STKCallback{}, fmt.Errorf("callback payload has no CheckoutRequestID")
	}
	return env.Body.STKCallback, nil
}
