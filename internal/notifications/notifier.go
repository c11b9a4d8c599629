package notifications

import (
	"context"
	"time"
)

type ConfirmationInput struct {
	Name         string
	Email        string
	Grade        string
	School       string
	GuardianName string
	NationalID   string
	OrderID      string
	RegisteredAt time.Time
}

// OperatorRecoveryInput carries everything a human needs to re-create a
// registration out of band after a failed insert.
type OperatorRecoveryInput struct {
	Reason          string
	InsertStatement string
	ApplicantEmail  string
}

type Notifier interface {
	SendRegistrationConfirmation(ctx context.Context, input ConfirmationInput) error
	SendOperatorRecovery(ctx context.Context, input OperatorRecoveryInput) error
}
