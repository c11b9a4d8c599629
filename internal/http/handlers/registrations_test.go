package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/domain/registrant"
	"github.com/olympiadhq/regservice/internal/registration"
)

type fakeRegistrationService struct {
	registerFn func(ctx context.Context, req registrant.CreateRequest, ip string) (registration.Result, error)
	existsFn   func(ctx context.Context, ano string) (bool, error)
	lookupFn   func(ctx context.Context, ano string) (registrant.RedactedProfile, error)
}

func (f *fakeRegistrationService) Register(ctx context.Context, req registrant.CreateRequest, ip string) (registration.Result, error) {
	return f.registerFn(ctx, req, ip)
}

func (f *fakeRegistrationService) Exists(ctx context.Context, ano string) (bool, error) {
	return f.existsFn(ctx, ano)
}

func (f *fakeRegistrationService) Lookup(ctx context.Context, ano string) (registrant.RedactedProfile, error) {
	return f.lookupFn(ctx, ano)
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func registrationsRouter(svc RegistrationService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewRegistrationsHandler(svc, slog.New(slog.DiscardHandler))

	router := gin.New()
	router.POST("/validate_data", h.ValidateData)
	router.POST("/get_status", h.GetStatus)
	router.POST("/save_in_databse", h.Save)

	return router
}

func TestValidateData(t *testing.T) {
	tests := []struct {
		name       string
		ano        string
		exists     bool
		existsErr  error
		wantStatus int
		wantBody   string
	}{
		{name: "known id", ano: "AB12", exists: true, wantStatus: http.StatusOK, wantBody: "success"},
		{name: "unknown id", ano: "ZZ99", wantStatus: http.StatusNotFound, wantBody: "fail"},
		{name: "missing id", ano: "", wantStatus: http.StatusNotFound, wantBody: "fail"},
		{name: "store error reads as fail", ano: "AB12", existsErr: errors.New("boom"), wantStatus: http.StatusNotFound, wantBody: "fail"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeRegistrationService{
				existsFn: func(ctx context.Context, ano string) (bool, error) {
					if ano != tc.ano {
						t.Fatalf("exists called with %q, want %q", ano, tc.ano)
					}
					return tc.exists, tc.existsErr
				},
			}

			form := url.Values{}
			if tc.ano != "" {
				form.Set("ano", tc.ano)
			}

			rec := postForm(registrationsRouter(svc), "/validate_data", form)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if body := rec.Body.String(); body != tc.wantBody {
				t.Fatalf("body = %q, want %q", body, tc.wantBody)
			}
		})
	}
}

func TestGetStatus_ReturnsRedactedProfile(t *testing.T) {
	svc := &fakeRegistrationService{
		lookupFn: func(ctx context.Context, ano string) (registrant.RedactedProfile, error) {
			return registrant.RedactedProfile{
				Name:       "Asha",
				Phone:      "9876xxxxxx",
				Email:      "xxxxxnt@example.org",
				NationalID: ano,
			}, nil
		},
	}

	rec := postForm(registrationsRouter(svc), "/get_status", url.Values{"ano": {"AB12"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()

	if !strings.Contains(body, `"9876xxxxxx"`) {
		t.Fatalf("body missing masked phone: %s", body)
	}
	if strings.Contains(body, "9876543210") {
		t.Fatalf("body leaks raw phone: %s", body)
	}
}

func TestGetStatus_NotFound(t *testing.T) {
	svc := &fakeRegistrationService{
		lookupFn: func(ctx context.Context, ano string) (registrant.RedactedProfile, error) {
			return registrant.RedactedProfile{}, registrant.ErrNotFound
		},
	}

	rec := postForm(registrationsRouter(svc), "/get_status", url.Values{"ano": {"NOPE"}})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func validSaveForm() url.Values {
	return url.Values{
		"name":     {"Asha Verma"},
		"grade":    {"6"},
		"address":  {"12 Lake Road"},
		"phone":    {"9876543210"},
		"email":    {"asha@example.org"},
		"school":   {"City School"},
		"g_name":   {"R Verma"},
		"order_id": {"order_abc"},
		"prevAtt":  {"N"},
		"ano":      {"AB12"},
	}
}

func TestSave(t *testing.T) {
	tests := []struct {
		name        string
		registerErr error
		wantStatus  int
		wantInBody  string
	}{
		{name: "success", wantStatus: http.StatusOK, wantInBody: `"status":"success"`},
		{name: "duplicate", registerErr: registrant.ErrDuplicate, wantStatus: http.StatusConflict, wantInBody: "already_registered"},
		{name: "submit in progress", registerErr: registration.ErrSubmitInProgress, wantStatus: http.StatusConflict, wantInBody: "submit_in_progress"},
		{name: "closed grade", registerErr: registration.ErrInvalidGrade, wantStatus: http.StatusBadRequest, wantInBody: "invalid_request"},
		{name: "store failure stays generic", registerErr: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError, wantInBody: "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeRegistrationService{
				registerFn: func(ctx context.Context, req registrant.CreateRequest, ip string) (registration.Result, error) {
					if tc.registerErr != nil {
						return registration.Result{}, tc.registerErr
					}
					return registration.Result{
						Registrant: registrant.Registrant{ID: "r-1", Name: req.Name},
						MailSent:   true,
					}, nil
				},
			}

			rec := postForm(registrationsRouter(svc), "/save_in_databse", validSaveForm())

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.wantInBody) {
				t.Fatalf("body = %s, want it to contain %q", rec.Body.String(), tc.wantInBody)
			}

			if tc.name == "store failure stays generic" && strings.Contains(rec.Body.String(), "connection reset") {
				t.Fatalf("body leaks the store error: %s", rec.Body.String())
			}
		})
	}
}

func TestSave_RejectsInvalidForm(t *testing.T) {
	called := false
	svc := &fakeRegistrationService{
		registerFn: func(ctx context.Context, req registrant.CreateRequest, ip string) (registration.Result, error) {
			called = true
			return registration.Result{}, nil
		},
	}

	form := validSaveForm()
	form.Set("email", "not-an-email")
	form.Set("prevAtt", "maybe")

	rec := postForm(registrationsRouter(svc), "/save_in_databse", form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if called {
		t.Fatal("Register must not run on an invalid form")
	}

	body := rec.Body.String()

	if !strings.Contains(body, `"field":"email"`) || !strings.Contains(body, `"field":"prevAtt"`) {
		t.Fatalf("body missing field errors: %s", body)
	}
}
