package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/config"
)

type VisitIncrementer interface {
	Increment(ctx context.Context) (int64, error)
}

// PagesHandler serves the public informational routes. Template rendering
// lives in the frontend; these return the payloads it renders.
type PagesHandler struct {
	visits       VisitIncrementer
	event        config.EventConfig
	gatewayKeyID string
	log          *slog.Logger
}

func NewPagesHandler(visits VisitIncrementer, event config.EventConfig, gatewayKeyID string, log *slog.Logger) *PagesHandler {
	return &PagesHandler{
		visits:       visits,
		event:        event,
		gatewayKeyID: gatewayKeyID,
		log:          log,
	}
}

// Home counts the visit and hands the client what it needs to start a
// checkout. A broken counter must not take the landing page down.
func (h *PagesHandler) Home(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	visits, err := h.visits.Increment(cctx)

	if err != nil {
		h.log.WarnContext(ctx.Request.Context(), "visit counter increment failed", "err", err)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"event":       h.event.Name,
		"keyId":       h.gatewayKeyID,
		"ticketPrice": h.event.TicketPrice,
		"currency":    h.event.Currency,
		"grades":      h.event.Grades,
		"visits":      visits,
	})
}

func (h *PagesHandler) WhatIs(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"page":  "what_is",
		"event": h.event.Name,
		"body":  "An annual mathematics olympiad for school students of grades " + gradeRange(h.event.Grades) + ".",
	})
}

func (h *PagesHandler) Rules(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"page":  "rules",
		"event": h.event.Name,
		"body":  "Single registration per applicant. The registration fee is non-refundable once the seat is confirmed.",
	})
}

func (h *PagesHandler) Terms(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"page":  "tc",
		"event": h.event.Name,
		"body":  "Submitted details are used only for conducting the event and issuing certificates.",
	})
}

func gradeRange(grades []string) string {
	if len(grades) == 0 {
		return ""
	}

	return grades[0] + " to " + grades[len(grades)-1]
}
