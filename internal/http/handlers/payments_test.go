package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/config"
	"github.com/olympiadhq/regservice/internal/payments"
)

type fakeOrderCreator struct {
	createFn func(ctx context.Context, amountMinor int64, currency string) (payments.Order, error)
}

func (f *fakeOrderCreator) CreateOrder(ctx context.Context, amountMinor int64, currency string) (payments.Order, error) {
	return f.createFn(ctx, amountMinor, currency)
}

type fakePaymentVerifier struct {
	verifyFn func(ctx context.Context, in payments.VerifyInput) payments.VerifyStatus
}

func (f *fakePaymentVerifier) Verify(ctx context.Context, in payments.VerifyInput) payments.VerifyStatus {
	return f.verifyFn(ctx, in)
}

func paymentsRouter(orders OrderCreator, verifier PaymentVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)

	event := config.EventConfig{TicketPrice: 25, Currency: "INR"}
	h := NewPaymentsHandler(orders, verifier, event, "rzp_test_key", slog.New(slog.DiscardHandler))

	router := gin.New()
	router.POST("/create_order", h.CreateOrder)
	router.POST("/verify_payment", h.VerifyPayment)

	return router
}

func TestCreateOrder_ChargesTicketPriceInMinorUnits(t *testing.T) {
	var gotAmount int64
	var gotCurrency string

	orders := &fakeOrderCreator{
		createFn: func(ctx context.Context, amountMinor int64, currency string) (payments.Order, error) {
			gotAmount = amountMinor
			gotCurrency = currency
			return payments.Order{ID: "order_abc", Amount: amountMinor, Currency: currency}, nil
		},
	}

	rec := postForm(paymentsRouter(orders, nil), "/create_order", url.Values{})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gotAmount != 2500 {
		t.Fatalf("gateway amount = %d, want 2500", gotAmount)
	}
	if gotCurrency != "INR" {
		t.Fatalf("gateway currency = %q, want INR", gotCurrency)
	}

	body := rec.Body.String()

	if !strings.Contains(body, `"orderId":"order_abc"`) {
		t.Fatalf("body missing order id: %s", body)
	}
	if !strings.Contains(body, `"keyId":"rzp_test_key"`) {
		t.Fatalf("body missing public key id: %s", body)
	}
}

func TestCreateOrder_GatewayDown(t *testing.T) {
	orders := &fakeOrderCreator{
		createFn: func(ctx context.Context, amountMinor int64, currency string) (payments.Order, error) {
			return payments.Order{}, errors.New("dial tcp: i/o timeout")
		},
	}

	rec := postForm(paymentsRouter(orders, nil), "/create_order", url.Values{})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if strings.Contains(rec.Body.String(), "i/o timeout") {
		t.Fatalf("body leaks the gateway error: %s", rec.Body.String())
	}
}

func TestVerifyPayment(t *testing.T) {
	tests := []struct {
		name       string
		status     payments.VerifyStatus
		wantStatus int
	}{
		{name: "verified", status: payments.StatusVerified, wantStatus: http.StatusOK},
		{name: "paid but unverified", status: payments.StatusPaidUnverified, wantStatus: http.StatusOK},
		{name: "failed", status: payments.StatusFailed, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &fakePaymentVerifier{
				verifyFn: func(ctx context.Context, in payments.VerifyInput) payments.VerifyStatus {
					if in.OrderID != "order_abc" {
						t.Fatalf("verifier got order %q, want order_abc", in.OrderID)
					}
					return tc.status
				},
			}

			form := url.Values{
				"orderID":             {"order_abc"},
				"razorpay_payment_id": {"pay_xyz"},
				"razorpay_signature":  {"sig"},
			}

			rec := postForm(paymentsRouter(nil, verifier), "/verify_payment", form)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), string(tc.status)) {
				t.Fatalf("body = %s, want it to name %q", rec.Body.String(), tc.status)
			}
		})
	}
}

func TestVerifyPayment_RequiresOrderID(t *testing.T) {
	verifier := &fakePaymentVerifier{
		verifyFn: func(ctx context.Context, in payments.VerifyInput) payments.VerifyStatus {
			t.Fatal("verifier must not run without an order id")
			return payments.StatusFailed
		},
	}

	rec := postForm(paymentsRouter(nil, verifier), "/verify_payment", url.Values{
		"razorpay_payment_id": {"pay_xyz"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
