package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/cache"
	"github.com/olympiadhq/regservice/internal/stats"
)

type fakeReportBuilder struct {
	calls   int
	buildFn func(ctx context.Context) (stats.Report, error)
}

func (f *fakeReportBuilder) Build(ctx context.Context) (stats.Report, error) {
	f.calls++
	return f.buildFn(ctx)
}

func getStats(h *StatsHandler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/getdata", h.GetData)

	req := httptest.NewRequest(http.MethodGet, "/getdata", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestGetData_ServesReport(t *testing.T) {
	reporter := &fakeReportBuilder{
		buildFn: func(ctx context.Context) (stats.Report, error) {
			return stats.Report{
				Total:              10,
				Visits:             42,
				Grades:             []stats.GradeStat{{Grade: "6", Count: 4, Percent: 40}},
				ExpectedCollection: 150,
				Currency:           "INR",
			}, nil
		},
	}

	rec := getStats(NewStatsHandler(reporter, nil, slog.New(slog.DiscardHandler)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()

	if !strings.Contains(body, `"total":10`) || !strings.Contains(body, `"expectedCollection":150`) {
		t.Fatalf("body = %s, want total and expected collection", body)
	}
}

func TestGetData_CacheHit(t *testing.T) {
	reporter := &fakeReportBuilder{
		buildFn: func(ctx context.Context) (stats.Report, error) {
			return stats.Report{Total: 7, Currency: "INR"}, nil
		},
	}

	h := NewStatsHandler(reporter, cache.New[stats.Report](time.Minute), slog.New(slog.DiscardHandler))

	first := getStats(h)
	second := getStats(h)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d, want both %d", first.Code, second.Code, http.StatusOK)
	}
	if reporter.calls != 1 {
		t.Fatalf("reporter ran %d times, want 1", reporter.calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body diverged:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestGetData_ReportError(t *testing.T) {
	reporter := &fakeReportBuilder{
		buildFn: func(ctx context.Context) (stats.Report, error) {
			return stats.Report{}, errors.New("count failed")
		},
	}

	rec := getStats(NewStatsHandler(reporter, nil, slog.New(slog.DiscardHandler)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "count failed") {
		t.Fatalf("body leaks the store error: %s", rec.Body.String())
	}
}
