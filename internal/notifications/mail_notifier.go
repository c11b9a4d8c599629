package notifications

import (
	"context"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"
)

type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	OperatorTo string
	EventName  string
}

// MailNotifier delivers over SMTP. The client is built once and redialed per
// send by go-mail.
type MailNotifier struct {
	client *mail.Client
	cfg    MailConfig
}

func NewMailNotifier(cfg MailConfig) (*MailNotifier, error) {
	client, err := mail.NewClient(
		cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10*time.Second),
	)

	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}

	return &MailNotifier{client: client, cfg: cfg}, nil
}

func (n *MailNotifier) SendRegistrationConfirmation(ctx context.Context, in ConfirmationInput) error {
	msg := mail.NewMsg()

	if err := msg.From(n.cfg.From); err != nil {
		return err
	}
	if err := msg.To(in.Email); err != nil {
		return err
	}

	msg.Subject(fmt.Sprintf("%s: Registration Confirmed / पंजीकरण की पुष्टि", n.cfg.EventName))
	msg.SetBodyString(mail.TypeTextPlain, confirmationBody(n.cfg.EventName, in))

	return n.client.DialAndSendWithContext(ctx, msg)
}

func (n *MailNotifier) SendOperatorRecovery(ctx context.Context, in OperatorRecoveryInput) error {
	msg := mail.NewMsg()

	if err := msg.From(n.cfg.From); err != nil {
		return err
	}
	if err := msg.To(n.cfg.OperatorTo); err != nil {
		return err
	}

	msg.Subject(fmt.Sprintf("%s: registration insert failed, manual recovery needed", n.cfg.EventName))
	msg.SetBodyString(mail.TypeTextPlain, recoveryBody(in))

	return n.client.DialAndSendWithContext(ctx, msg)
}

// fixed bilingual plain-text template
func confirmationBody(eventName string, in ConfirmationInput) string {
	return fmt.Sprintf(`Dear %s,

Your registration for %s is confirmed.
आपका %s के लिए पंजीकरण सफल हो गया है।

Details / विवरण:
  Name / नाम:            %s
  Grade / कक्षा:          %s
  School / विद्यालय:      %s
  Guardian / अभिभावक:    %s
  Registration ID / पंजीकरण संख्या: %s
  Order / आदेश:          %s
  Registered at / समय:   %s

Please keep this mail for your records.
कृपया इस मेल को संभाल कर रखें।
`,
		in.Name,
		eventName, eventName,
		in.Name, in.Grade, in.School, in.GuardianName,
		in.NationalID, in.OrderID,
		in.RegisteredAt.Format("02 Jan 2006 15:04 MST"),
	)
}

func recoveryBody(in OperatorRecoveryInput) string {
	return fmt.Sprintf(`A registration could not be persisted and was rolled back.

Reason: %s
Applicant email: %s

Run the following after verifying the payment on the gateway dashboard:

%s
`,
		in.Reason, in.ApplicantEmail, in.InsertStatement,
	)
}
