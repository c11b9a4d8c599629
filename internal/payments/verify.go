package payments

import (
	"context"
	"log/slog"

	"github.com/olympiadhq/regservice/internal/observability"
)

type VerifyStatus string

const (
	// settlement captured and signature genuine
	StatusVerified VerifyStatus = "verified"
	// settlement captured but the signature could not be verified
	StatusPaidUnverified VerifyStatus = "paid_unverified"
	StatusFailed         VerifyStatus = "failed"
)

type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Verifier combines the two independent checks over a completed payment
// attempt: the signature over (order, payment) and the gateway's settlement
// status. Both fail closed: any transport or crypto error counts as
// not-verified, nothing is retried.
//
// Policy: a settled order is sufficient for business success. A settled
// order with a bad signature reports StatusPaidUnverified rather than
// failure, so a broken client integration does not eat a captured payment.
type Verifier struct {
	gw   Gateway
	log  *slog.Logger
	prom *observability.Prom
}

func NewVerifier(gw Gateway, log *slog.Logger, prom *observability.Prom) *Verifier {
	return &Verifier{
		gw:   gw,
		log:  log,
		prom: prom,
	}
}

func (v *Verifier) Verify(ctx context.Context, in VerifyInput) VerifyStatus {
	settled := v.settled(ctx, in.OrderID)
	signatureOK := v.signatureOK(ctx, in)

	status := StatusFailed

	switch {
	case settled && signatureOK:
		status = StatusVerified
	case settled:
		status = StatusPaidUnverified
	}

	if v.prom != nil {
		v.prom.PaymentVerifications.WithLabelValues(string(status)).Inc()
	}

	return status
}

func (v *Verifier) settled(ctx context.Context, orderID string) bool {
	status, err := v.gw.OrderStatus(ctx, orderID)

	if err != nil {
		if v.prom != nil {
			v.prom.GatewayCallsTotal.WithLabelValues("fetch_order", "error").Inc()
		}
		v.log.WarnContext(ctx, "order status lookup failed", "order_id", orderID, "err", err)
		return false
	}

	if v.prom != nil {
		v.prom.GatewayCallsTotal.WithLabelValues("fetch_order", "ok").Inc()
	}

	return status == "paid" || status == "captured"
}

func (v *Verifier) signatureOK(ctx context.Context, in VerifyInput) bool {
	if in.PaymentID == "" || in.Signature == "" {
		return false
	}

	err := v.gw.VerifySignature(in.OrderID, in.PaymentID, in.Signature)

	if err != nil {
		v.log.WarnContext(ctx, "payment signature rejected", "order_id", in.OrderID, "err", err)
		return false
	}

	return true
}
