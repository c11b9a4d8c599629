package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/config"
	"github.com/olympiadhq/regservice/internal/domain/registrant"
	"github.com/olympiadhq/regservice/internal/registration"
)

type RegistrationService interface {
	Register(ctx context.Context, req registrant.CreateRequest, ip string) (registration.Result, error)
	Exists(ctx context.Context, ano string) (bool, error)
	Lookup(ctx context.Context, ano string) (registrant.RedactedProfile, error)
}

type RegistrationsHandler struct {
	svc RegistrationService
	log *slog.Logger
}

func NewRegistrationsHandler(svc RegistrationService, log *slog.Logger) *RegistrationsHandler {
	return &RegistrationsHandler{svc: svc, log: log}
}

// ValidateData is the idempotent pre-check on the national-id token. The
// client treats the body as an opaque success/fail word.
func (h *RegistrationsHandler) ValidateData(ctx *gin.Context) {
	ano := ctx.PostForm("ano")

	if ano == "" {
		ctx.String(http.StatusNotFound, "fail")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	exists, err := h.svc.Exists(cctx, ano)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "ano pre-check failed", "err", err)
		ctx.String(http.StatusNotFound, "fail")
		return
	}

	if exists {
		ctx.String(http.StatusOK, "success")
		return
	}

	ctx.String(http.StatusNotFound, "fail")
}

func (h *RegistrationsHandler) GetStatus(ctx *gin.Context) {
	ano := ctx.PostForm("ano")

	if ano == "" {
		RespondNotFound(ctx, "Record not found")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	profile, err := h.svc.Lookup(cctx, ano)

	if err != nil {
		if errors.Is(err, registrant.ErrNotFound) {
			RespondNotFound(ctx, "Record not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "status lookup failed", "err", err)
		RespondInternal(ctx, "Could not look up registration")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// Save persists a registration after the client completed payment. The
// route keeps the original spelling the deployed frontend posts to.
func (h *RegistrationsHandler) Save(ctx *gin.Context) {
	var req registrant.CreateRequest

	if !BindForm(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	res, err := h.svc.Register(cctx, req, ctx.ClientIP())

	if err != nil {
		switch {
		case errors.Is(err, registration.ErrInvalidGrade):
			RespondBadRequest(ctx, "Grade is not open for registration", nil)
		case errors.Is(err, registrant.ErrDuplicate):
			RespondConflict(ctx, "already_registered", "This applicant is already registered.")
		case errors.Is(err, registration.ErrSubmitInProgress):
			RespondConflict(ctx, "submit_in_progress", "A submission for this applicant is already being processed.")
		default:
			// detail stays in the log, the client gets a code
			h.log.ErrorContext(ctx.Request.Context(), "registration save failed", "err", err)
			RespondInternal(ctx, "Could not save the registration")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Registration saved",
		"id":       res.Registrant.ID,
		"mailSent": res.MailSent,
	})
}
