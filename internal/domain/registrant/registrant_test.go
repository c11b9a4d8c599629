package registrant_test

import (
	"testing"
	"time"

	"github.com/olympiadhq/regservice/internal/domain/registrant"
)

func TestRedactedProfileMasksContactDetails(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		phone     string
		email     string
		wantPhone string
		wantEmail string
	}{
		{
			name:      "ten_digit_phone",
			phone:     "9876543210",
			email:     "student@example.org",
			wantPhone: "9876xxxxxx",
			wantEmail: "xxxxxnt@example.org",
		},
		{
			name:      "short_email",
			phone:     "9876543210",
			email:     "a@b.com",
			wantPhone: "9876xxxxxx",
			wantEmail: "xxxxxom",
		},
		{
			name:      "phone_shorter_than_prefix",
			phone:     "987",
			email:     "ab@cd",
			wantPhone: "987xxxxxx",
			wantEmail: "xxxxx",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := registrant.Registrant{
				Name:         "Asha",
				GuardianName: "Ravi",
				Phone:        tt.phone,
				Email:        tt.email,
				NationalID:   "1234",
				CreatedAt:    now,
			}

			got := r.Redacted()

			if got.Phone != tt.wantPhone {
				t.Fatalf("phone: got %q, want %q", got.Phone, tt.wantPhone)
			}
			if got.Email != tt.wantEmail {
				t.Fatalf("email: got %q, want %q", got.Email, tt.wantEmail)
			}
			if got.NationalID != "1234" {
				t.Fatalf("ano should not be masked, got %q", got.NationalID)
			}
		})
	}
}

func TestNewFromCreateRequestDefaults(t *testing.T) {
	now := time.Now()

	req := registrant.CreateRequest{
		Name:         "Asha",
		Grade:        "6",
		Address:      "12 Lake Road",
		Phone:        "9876543210",
		Email:        "asha@example.org",
		School:       "Lakeview",
		GuardianName: "Ravi",
		OrderID:      "order_123",
		NationalID:   "5678",
	}

	r := registrant.NewFromCreateRequest(req, "10.0.0.9", now)

	if r.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if r.PaymentStatus != registrant.StatusPaid {
		t.Fatalf("got payment status %q, want %q", r.PaymentStatus, registrant.StatusPaid)
	}
	if r.PrevAttended != "N" {
		t.Fatalf("got prevAttended %q, want default N", r.PrevAttended)
	}
	if r.SubmittedIP != "10.0.0.9" {
		t.Fatalf("got submitted ip %q", r.SubmittedIP)
	}
	if !r.CreatedAt.Equal(now) {
		t.Fatalf("created at not preserved")
	}
}
