package registrant

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus a registrant is persisted with. A row is only ever written
// after the caller saw a favorable payment verification.
const StatusPaid = "paid"

type Registrant struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Grade         string    `json:"grade"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	School        string    `json:"school"`
	GuardianName  string    `json:"guardianName"`
	NationalID    string    `json:"ano"`
	OrderID       string    `json:"orderId"`
	PrevAttended  string    `json:"prevAttended"`
	PaymentStatus string    `json:"paymentStatus"`
	SubmittedIP   string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("registrant not found")

// a second submit under an already-registered national id
var ErrDuplicate = errors.New("registrant already exists")

// CreateRequest carries the applicant form. Field names follow the form the
// client posts.
type CreateRequest struct {
	Name         string `form:"name" binding:"required,min=2"`
	Grade        string `form:"grade" binding:"required"`
	Address      string `form:"address" binding:"required"`
	Phone        string `form:"phone" binding:"required,min=7,max=15"`
	Email        string `form:"email" binding:"required,email"`
	School       string `form:"school" binding:"required"`
	GuardianName string `form:"g_name" binding:"required"`
	OrderID      string `form:"order_id" binding:"required"`
	PrevAttended string `form:"prevAtt" binding:"omitempty,oneof=Y N"`
	NationalID   string `form:"ano" binding:"required"`
}

// NewFromCreateRequest builds a Registrant from the incoming form.
func NewFromCreateRequest(req CreateRequest, ip string, now time.Time) Registrant {
	prev := req.PrevAttended
	if prev == "" {
		prev = "N"
	}

	return Registrant{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Grade:         req.Grade,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		School:        req.School,
		GuardianName:  req.GuardianName,
		NationalID:    req.NationalID,
		OrderID:       req.OrderID,
		PrevAttended:  prev,
		PaymentStatus: StatusPaid,
		SubmittedIP:   ip,
		CreatedAt:     now,
	}
}

// RedactedProfile is what the public status-check screen gets to see.
type RedactedProfile struct {
	Name         string    `json:"name"`
	GuardianName string    `json:"g_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	NationalID   string    `json:"ano"`
	RegisteredAt time.Time `json:"time"`
}

func (r Registrant) Redacted() RedactedProfile {
	return RedactedProfile{
		Name:         r.Name,
		GuardianName: r.GuardianName,
		Phone:        maskPhone(r.Phone),
		Email:        maskEmail(r.Email),
		NationalID:   r.NationalID,
		RegisteredAt: r.CreatedAt,
	}
}

// keep at most the first 4 digits, blank the rest
func maskPhone(phone string) string {
	if len(phone) > 4 {
		phone = phone[:4]
	}

	return phone + "xxxxxx"
}

// blank the first 5 characters, keep the remainder
func maskEmail(email string) string {
	if len(email) <= 5 {
		return "xxxxx"
	}

	return "xxxxx" + email[5:]
}
