package payments

import (
	"context"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// RazorpayGateway adapts the razorpay SDK to the Gateway interface. The SDK
// itself is not context aware; ctx is part of the interface for callers and
// test doubles.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency string) (Order, error) {
	data := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        currency,
		"payment_capture": 1,
	}

	body, err := g.client.Order.Create(data, nil)

	if err != nil {
		return Order{}, err
	}

	id, _ := body["id"].(string)

	if id == "" {
		return Order{}, errors.New("gateway returned an order without an id")
	}

	return Order{
		ID:       id,
		Amount:   amountMinor,
		Currency: currency,
	}, nil
}

func (g *RazorpayGateway) OrderStatus(ctx context.Context, orderID string) (string, error) {
	body, err := g.client.Order.Fetch(orderID, nil, nil)

	if err != nil {
		return "", err
	}

	status, _ := body["status"].(string)

	return status, nil
}

func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}

	if !utils.VerifyPaymentSignature(params, signature, g.keySecret) {
		return ErrBadSignature
	}

	return nil
}
