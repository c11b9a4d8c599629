package payments_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/olympiadhq/regservice/internal/payments"
)

type fakeGateway struct {
	createFn func(ctx context.Context, amountMinor int64, currency string) (payments.Order, error)
	statusFn func(ctx context.Context, orderID string) (string, error)
	sigFn    func(orderID, paymentID, signature string) error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency string) (payments.Order, error) {
	if f.createFn != nil {
		return f.createFn(ctx, amountMinor, currency)
	}
	return payments.Order{}, nil
}

func (f *fakeGateway) OrderStatus(ctx context.Context, orderID string) (string, error) {
	if f.statusFn != nil {
		return f.statusFn(ctx, orderID)
	}
	return "", nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) error {
	if f.sigFn != nil {
		return f.sigFn(orderID, paymentID, signature)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestVerifyPolicy(t *testing.T) {
	goodSig := func(orderID, paymentID, signature string) error { return nil }
	badSig := func(orderID, paymentID, signature string) error { return payments.ErrBadSignature }

	tests := []struct {
		name     string
		statusFn func(ctx context.Context, orderID string) (string, error)
		sigFn    func(orderID, paymentID, signature string) error
		in       payments.VerifyInput
		want     payments.VerifyStatus
	}{
		{
			name:     "paid_and_signed",
			statusFn: func(ctx context.Context, id string) (string, error) { return "paid", nil },
			sigFn:    goodSig,
			in:       payments.VerifyInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
			want:     payments.StatusVerified,
		},
		{
			name:     "captured_and_signed",
			statusFn: func(ctx context.Context, id string) (string, error) { return "captured", nil },
			sigFn:    goodSig,
			in:       payments.VerifyInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
			want:     payments.StatusVerified,
		},
		{
			name:     "paid_with_bad_signature",
			statusFn: func(ctx context.Context, id string) (string, error) { return "paid", nil },
			sigFn:    badSig,
			in:       payments.VerifyInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "forged"},
			want:     payments.StatusPaidUnverified,
		},
		{
			name:     "paid_with_missing_signature_fields",
			statusFn: func(ctx context.Context, id string) (string, error) { return "paid", nil },
			sigFn:    goodSig,
			in:       payments.VerifyInput{OrderID: "order_1"},
			want:     payments.StatusPaidUnverified,
		},
		{
			name:     "created_order_is_not_settled",
			statusFn: func(ctx context.Context, id string) (string, error) { return "created", nil },
			sigFn:    goodSig,
			in:       payments.VerifyInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
			want:     payments.StatusFailed,
		},
		{
			name: "status_lookup_error_fails_closed",
			statusFn: func(ctx context.Context, id string) (string, error) {
				return "", errors.New("gateway unreachable")
			},
			sigFn: goodSig,
			in:    payments.VerifyInput{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
			want:  payments.StatusFailed,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{statusFn: tt.statusFn, sigFn: tt.sigFn}

			v := payments.NewVerifier(gw, discardLogger(), nil)

			got := v.Verify(context.Background(), tt.in)

			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
