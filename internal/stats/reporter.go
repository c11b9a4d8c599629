package stats

import (
	"context"
	"math"
)

type RegistrantCounts interface {
	CountAll(ctx context.Context) (int, error)
	CountByGrade(ctx context.Context, grade string) (int, error)
}

type VisitCounts interface {
	Current(ctx context.Context) (int64, error)
}

type GradeStat struct {
	Grade   string  `json:"grade"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Report struct {
	Total  int         `json:"total"`
	Visits int64       `json:"visits"`
	Grades []GradeStat `json:"grades"`
	// ExpectedCollection = price x (total - exempt-grade count), in whole
	// currency units.
	ExpectedCollection int64  `json:"expectedCollection"`
	Currency           string `json:"currency"`
}

type Config struct {
	TicketPrice int64
	Currency    string
	Grades      []string
	ExemptGrade string
}

// Reporter is the read-only aggregation over the record store.
type Reporter struct {
	registrants RegistrantCounts
	visits      VisitCounts
	cfg         Config
}

func NewReporter(registrants RegistrantCounts, visits VisitCounts, cfg Config) *Reporter {
	return &Reporter{
		registrants: registrants,
		visits:      visits,
		cfg:         cfg,
	}
}

func (r *Reporter) Build(ctx context.Context) (Report, error) {
	total, err := r.registrants.CountAll(ctx)

	if err != nil {
		return Report{}, err
	}

	visits, err := r.visits.Current(ctx)

	if err != nil {
		return Report{}, err
	}

	grades := make([]GradeStat, 0, len(r.cfg.Grades))
	exemptCount := 0

	for _, grade := range r.cfg.Grades {
		count, err := r.registrants.CountByGrade(ctx, grade)

		if err != nil {
			return Report{}, err
		}

		if grade == r.cfg.ExemptGrade {
			exemptCount = count
		}

		grades = append(grades, GradeStat{
			Grade:   grade,
			Count:   count,
			Percent: percent(count, total),
		})
	}

	return Report{
		Total:              total,
		Visits:             visits,
		Grades:             grades,
		ExpectedCollection: r.cfg.TicketPrice * int64(total-exemptCount),
		Currency:           r.cfg.Currency,
	}, nil
}

// percent reports 0 for an empty table instead of dividing by zero.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}

	p := float64(count) * 100 / float64(total)

	return math.Round(p*100) / 100
}
