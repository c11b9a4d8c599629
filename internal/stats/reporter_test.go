package stats_test

import (
	"context"
	"testing"

	"github.com/olympiadhq/regservice/internal/stats"
)

type fakeCounts struct {
	total   int
	byGrade map[string]int
}

func (f *fakeCounts) CountAll(ctx context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeCounts) CountByGrade(ctx context.Context, grade string) (int, error) {
	return f.byGrade[grade], nil
}

type fakeVisits struct {
	count int64
}

func (f *fakeVisits) Current(ctx context.Context) (int64, error) {
	return f.count, nil
}

func testConfig() stats.Config {
	return stats.Config{
		TicketPrice: 25,
		Currency:    "INR",
		Grades:      []string{"4", "5", "6", "7", "8", "9", "10"},
		ExemptGrade: "6",
	}
}

func TestBuildReport(t *testing.T) {
	counts := &fakeCounts{
		total: 10,
		byGrade: map[string]int{
			"4": 2,
			"5": 1,
			"6": 4,
			"7": 3,
		},
	}

	r := stats.NewReporter(counts, &fakeVisits{count: 120}, testConfig())

	report, err := r.Build(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Total != 10 {
		t.Fatalf("total: got %d, want 10", report.Total)
	}
	if report.Visits != 120 {
		t.Fatalf("visits: got %d, want 120", report.Visits)
	}

	var gradeSix stats.GradeStat
	for _, g := range report.Grades {
		if g.Grade == "6" {
			gradeSix = g
		}
	}

	if gradeSix.Count != 4 {
		t.Fatalf("grade 6 count: got %d, want 4", gradeSix.Count)
	}
	if gradeSix.Percent != 40 {
		t.Fatalf("grade 6 percent: got %v, want 40", gradeSix.Percent)
	}

	// grade 6 is exempt: 25 x (10 - 4)
	if report.ExpectedCollection != 150 {
		t.Fatalf("expected collection: got %d, want 150", report.ExpectedCollection)
	}
}

func TestBuildReportEmptyTable(t *testing.T) {
	r := stats.NewReporter(&fakeCounts{byGrade: map[string]int{}}, &fakeVisits{}, testConfig())

	report, err := r.Build(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Total != 0 {
		t.Fatalf("total: got %d, want 0", report.Total)
	}
	for _, g := range report.Grades {
		if g.Percent != 0 {
			t.Fatalf("grade %s percent should be 0 on an empty table, got %v", g.Grade, g.Percent)
		}
	}
	if report.ExpectedCollection != 0 {
		t.Fatalf("expected collection should be 0, got %d", report.ExpectedCollection)
	}
}
