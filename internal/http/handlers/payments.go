package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/config"
	"github.com/olympiadhq/regservice/internal/payments"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency string) (payments.Order, error)
}

type PaymentVerifier interface {
	Verify(ctx context.Context, in payments.VerifyInput) payments.VerifyStatus
}

type PaymentsHandler struct {
	orders   OrderCreator
	verifier PaymentVerifier
	event    config.EventConfig
	keyID    string
	log      *slog.Logger
}

func NewPaymentsHandler(orders OrderCreator, verifier PaymentVerifier, event config.EventConfig, keyID string, log *slog.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		orders:   orders,
		verifier: verifier,
		event:    event,
		keyID:    keyID,
		log:      log,
	}
}

// CreateOrder opens a gateway order over the fixed ticket price. Amount goes
// to the gateway in minor units.
func (h *PaymentsHandler) CreateOrder(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	amountMinor := h.event.TicketPrice * 100

	order, err := h.orders.CreateOrder(cctx, amountMinor, h.event.Currency)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "order creation failed", "err", err)
		RespondUpstream(ctx, "Could not create a payment order")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orderId":  order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"keyId":    h.keyID,
	})
}

type verifyForm struct {
	OrderID   string `form:"orderID" binding:"required"`
	PaymentID string `form:"razorpay_payment_id"`
	Signature string `form:"razorpay_signature"`
}

// VerifyPayment advises the client on a completed payment attempt. No
// persistence happens here.
func (h *PaymentsHandler) VerifyPayment(ctx *gin.Context) {
	var form verifyForm

	if !BindForm(ctx, &form) {
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	status := h.verifier.Verify(cctx, payments.VerifyInput{
		OrderID:   form.OrderID,
		PaymentID: form.PaymentID,
		Signature: form.Signature,
	})

	switch status {
	case payments.StatusVerified:
		ctx.JSON(http.StatusOK, gin.H{
			"status":  string(status),
			"message": "Payment verified successfully",
		})
	case payments.StatusPaidUnverified:
		ctx.JSON(http.StatusOK, gin.H{
			"status":  string(status),
			"message": "Payment received; the signature could not be verified",
		})
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  string(payments.StatusFailed),
			"message": "Payment verification failed",
		})
	}
}
