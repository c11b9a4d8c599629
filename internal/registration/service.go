package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olympiadhq/regservice/internal/domain/registrant"
	"github.com/olympiadhq/regservice/internal/notifications"
	"github.com/olympiadhq/regservice/internal/observability"
)

var (
	ErrSubmitInProgress = errors.New("another submission for this applicant is in progress")
	ErrInvalidGrade     = errors.New("grade is not open for registration")
)

const submitLockTTL = 30 * time.Second

type RegistrantStore interface {
	Create(ctx context.Context, r registrant.Registrant) error
	GetByNationalID(ctx context.Context, ano string) (registrant.Registrant, error)
	ExistsByNationalID(ctx context.Context, ano string) (bool, error)
}

// SubmitLocker serializes concurrent submits for the same national id.
// Optional: the unique index is the hard guarantee either way.
type SubmitLocker interface {
	AcquireSubmitLock(ctx context.Context, ano string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, ano string) error
}

// Service is the registration workflow: it persists a verified applicant,
// sends the confirmation, and on a failed insert fires best-effort recovery
// notifications so a human can re-create the record out of band.
type Service struct {
	store    RegistrantStore
	notifier notifications.Notifier
	locker   SubmitLocker // may be nil
	log      *slog.Logger
	prom     *observability.Prom // may be nil

	loc    *time.Location
	grades map[string]struct{}
}

type Result struct {
	Registrant registrant.Registrant
	// MailSent reports whether the confirmation went out. A failed send is
	// a status, not an error: the registration already stands.
	MailSent bool
}

type Config struct {
	Grades   []string
	Timezone string
}

func NewService(
	store RegistrantStore,
	notifier notifications.Notifier,
	locker SubmitLocker,
	log *slog.Logger,
	prom *observability.Prom,
	cfg Config,
) *Service {
	loc, err := time.LoadLocation(cfg.Timezone)

	if err != nil || cfg.Timezone == "" {
		loc = time.UTC
	}

	grades := make(map[string]struct{}, len(cfg.Grades))
	for _, g := range cfg.Grades {
		grades[g] = struct{}{}
	}

	return &Service{
		store:    store,
		notifier: notifier,
		locker:   locker,
		log:      log,
		prom:     prom,
		loc:      loc,
		grades:   grades,
	}
}

// Register is only invoked after a favorable verification result; it trusts
// its caller and persists with payment status "paid".
func (s *Service) Register(ctx context.Context, req registrant.CreateRequest, ip string) (Result, error) {
	if len(s.grades) > 0 {
		if _, ok := s.grades[req.Grade]; !ok {
			return Result{}, ErrInvalidGrade
		}
	}

	if s.locker != nil {
		release, err := s.lock(ctx, req.NationalID)

		if err != nil {
			return Result{}, err
		}

		defer release()
	}

	r := registrant.NewFromCreateRequest(req, ip, time.Now().In(s.loc))

	err := s.store.Create(ctx, r)

	if err != nil {
		if errors.Is(err, registrant.ErrDuplicate) {
			return Result{}, err
		}

		s.log.ErrorContext(ctx, "registrant insert failed", "registrant_id", r.ID, "err", err)
		s.recover(ctx, r, err)

		return Result{}, fmt.Errorf("persist registrant: %w", err)
	}

	mailSent := s.sendConfirmation(ctx, r)

	return Result{Registrant: r, MailSent: mailSent}, nil
}

// Exists answers the idempotent pre-check on the national-id token.
func (s *Service) Exists(ctx context.Context, ano string) (bool, error) {
	return s.store.ExistsByNationalID(ctx, ano)
}

// Lookup returns the redacted profile for the status-check screen.
func (s *Service) Lookup(ctx context.Context, ano string) (registrant.RedactedProfile, error) {
	r, err := s.store.GetByNationalID(ctx, ano)

	if err != nil {
		return registrant.RedactedProfile{}, err
	}

	return r.Redacted(), nil
}

func (s *Service) lock(ctx context.Context, ano string) (func(), error) {
	ok, err := s.locker.AcquireSubmitLock(ctx, ano, submitLockTTL)

	if err != nil {
		// the lock is an optimization; redis being down must not block
		// registrations
		s.log.WarnContext(ctx, "submit lock unavailable", "err", err)
		return func() {}, nil
	}

	if !ok {
		return nil, ErrSubmitInProgress
	}

	return func() {
		if e := s.locker.ReleaseSubmitLock(ctx, ano); e != nil {
			s.log.WarnContext(ctx, "submit lock release failed", "err", e)
		}
	}, nil
}

func (s *Service) sendConfirmation(ctx context.Context, r registrant.Registrant) bool {
	err := s.notifier.SendRegistrationConfirmation(ctx, confirmationInput(r))

	if s.prom != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.prom.MailSendsTotal.WithLabelValues("confirmation", result).Inc()
	}

	if err != nil {
		s.log.WarnContext(ctx, "confirmation mail failed", "registrant_id", r.ID, "err", err)
		return false
	}

	return true
}

// recover fires the best-effort duplicate notifications after a failed
// insert: the applicant gets the confirmation anyway, the operator gets a
// reconstructable insert statement. Failures here are swallowed.
func (s *Service) recover(ctx context.Context, r registrant.Registrant, cause error) {
	if err := s.notifier.SendRegistrationConfirmation(ctx, confirmationInput(r)); err != nil {
		s.log.WarnContext(ctx, "recovery confirmation mail failed", "registrant_id", r.ID, "err", err)
	}

	err := s.notifier.SendOperatorRecovery(ctx, notifications.OperatorRecoveryInput{
		Reason:          cause.Error(),
		InsertStatement: manualInsertStatement(r),
		ApplicantEmail:  r.Email,
	})

	if s.prom != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.prom.MailSendsTotal.WithLabelValues("recovery", result).Inc()
	}

	if err != nil {
		s.log.WarnContext(ctx, "operator recovery mail failed", "registrant_id", r.ID, "err", err)
	}
}

func confirmationInput(r registrant.Registrant) notifications.ConfirmationInput {
	return notifications.ConfirmationInput{
		Name:         r.Name,
		Email:        r.Email,
		Grade:        r.Grade,
		School:       r.School,
		GuardianName: r.GuardianName,
		NationalID:   r.NationalID,
		OrderID:      r.OrderID,
		RegisteredAt: r.CreatedAt,
	}
}

// manualInsertStatement renders the row as a statement an operator can run
// by hand. Values are single-quote escaped; this goes to a trusted inbox,
// not to the database.
func manualInsertStatement(r registrant.Registrant) string {
	q := func(v string) string {
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}

	return fmt.Sprintf(
		"INSERT INTO registrants (id, name, grade, address, phone, email, school, guardian_name, "+
			"national_id, order_id, prev_attended, payment_status, submitted_ip, created_at) VALUES "+
			"(%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s);",
		q(r.ID), q(r.Name), q(r.Grade), q(r.Address), q(r.Phone), q(r.Email), q(r.School),
		q(r.GuardianName), q(r.NationalID), q(r.OrderID), q(r.PrevAttended), q(r.PaymentStatus),
		q(r.SubmittedIP), q(r.CreatedAt.Format(time.RFC3339)),
	)
}
