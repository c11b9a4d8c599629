package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/cache"
	"github.com/olympiadhq/regservice/internal/config"
	"github.com/olympiadhq/regservice/internal/stats"
)

type ReportBuilder interface {
	Build(ctx context.Context) (stats.Report, error)
}

const statsCacheKey = "stats:report"

type StatsHandler struct {
	reporter ReportBuilder
	cache    *cache.Cache[stats.Report] // may be nil
	log      *slog.Logger
}

func NewStatsHandler(reporter ReportBuilder, c *cache.Cache[stats.Report], log *slog.Logger) *StatsHandler {
	return &StatsHandler{
		reporter: reporter,
		cache:    c,
		log:      log,
	}
}

// GetData serves the aggregate numbers. The report fans out into several
// counts, so it is cached briefly.
func (h *StatsHandler) GetData(ctx *gin.Context) {
	if h.cache != nil {
		if report, ok := h.cache.Get(statsCacheKey); ok {
			ctx.JSON(http.StatusOK, report)
			return
		}
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	report, err := h.reporter.Build(cctx)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "stats report failed", "err", err)
		RespondInternal(ctx, "Could not build the statistics report")
		return
	}

	if h.cache != nil {
		h.cache.Set(statsCacheKey, report)
	}

	ctx.JSON(http.StatusOK, report)
}
