package mpesa

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// callbackEnvelope is the wire shape of the asynchronous payment result the
// gateway posts to the callback URL.
type callbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string          `json:"MerchantRequestID"`
			CheckoutRequestID string          `json:"CheckoutRequestID"`
			ResultCode        int             `json:"ResultCode"`
			ResultDesc        string          `json:"ResultDesc"`
			CallbackMetadata  *struct {
				Item []struct {
					Name  string          `json:"Name"`
					Value json.RawMessage `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// Callback is a parsed payment result. Amount, Receipt and Phone are only
// present on success; failed results carry no metadata.
type Callback struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            *decimal.Decimal
	Receipt           string
	Phone             string
}

// Success reports whether the callback describes a completed payment.
func (c *Callback) Success() bool {
	return c.ResultCode == ResultCodeSuccess
}

// ParseCallback decodes the gateway's callback payload.
func ParseCallback(raw []byte) (*Callback, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode callback payload: %w", err)
	}

	stk := env.Body.StkCallback
	cb := &Callback{
		MerchantRequestID: stk.MerchantRequestID,
		CheckoutRequestID: stk.CheckoutRequestID,
		ResultCode:        stk.ResultCode,
		ResultDesc:        stk.ResultDesc,
	}

	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("callback payload has no CheckoutRequestID")
	}

	if stk.CallbackMetadata == nil {
		return cb, nil
	}

	for _, item := range stk.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			var amount decimal.Decimal
			if err := json.Unmarshal(item.Value, &amount); err == nil {
				cb.Amount = &amount
			}
		case "MpesaReceiptNumber":
			var receipt string
			if err := json.Unmarshal(item.Value, &receipt); err == nil {
				cb.Receipt = receipt
			}
		case "PhoneNumber":
			// The gateway sends the phone as a bare number.
			var phone json.Number
			if err := json.Unmarshal(item.Value, &phone); err == nil {
				cb.Phone = phone.String()
			}
		}
	}

	return cb, nil
}
