package payments

import (
	"context"
	"errors"
)

// Order is the transient gateway order; only the id is held onto locally.
type Order struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

var ErrBadSignature = errors.New("payment signature mismatch")

// Gateway abstracts the payment provider so handlers and the verifier can be
// tested against fakes.
type Gateway interface {
	// CreateOrder opens an auto-capture order. Amount is in minor units.
	CreateOrder(ctx context.Context, amountMinor int64, currency string) (Order, error)
	// OrderStatus fetches the provider's settlement status for an order.
	OrderStatus(ctx context.Context, orderID string) (string, error)
	// VerifySignature checks the client-reported completion signature over
	// (orderID, paymentID). A nil error means the signature is genuine.
	VerifySignature(orderID, paymentID, signature string) error
}
