package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier stands in for SMTP in dev environments.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendRegistrationConfirmation(ctx context.Context, in ConfirmationInput) error {
	n.log.InfoContext(ctx, "notification.registration_confirmation",
		"email", in.Email,
		"name", in.Name,
		"ano", in.NationalID,
		"order_id", in.OrderID,
	)
	return nil
}

func (n *LogNotifier) SendOperatorRecovery(ctx context.Context, in OperatorRecoveryInput) error {
	n.log.WarnContext(ctx, "notification.operator_recovery",
		"reason", in.Reason,
		"applicant_email", in.ApplicantEmail,
	)
	return nil
}
