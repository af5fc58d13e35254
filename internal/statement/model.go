package statement

import (
	"errors"
	"time"
)

// ErrInvalidPeriod is returned for unknown period values
var ErrInvalidPeriod = errors.New("period must be one of all_time, monthly, quarterly, yearly")

// Period selects the statement window.
// Only all-time figures are computed today; the named windows are
// accepted and echoed so clients can migrate before the windowed
// queries land.
type Period string

const (
	PeriodAllTime   Period = "all_time"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// ParsePeriod validates a period query value, defaulting to all_time
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodAllTime, nil
	}
	p := Period(s)
	switch p {
	case PeriodAllTime, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return p, nil
	}
	return "", ErrInvalidPeriod
}

// PropertyStatement is the per-property financial rollup:
// net = revenue - expenses.
type PropertyStatement struct {
	PropertyID   int64   `json:"property_id"`
	PropertyName string  `json:"property_name"`
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	Net          float64 `json:"net"`
}

// Statement is the owner's full financial statement
type Statement struct {
	OwnerID       int64                `json:"owner_id"`
	Period        Period               `json:"period"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Properties    []*PropertyStatement `json:"properties"`
	TotalRevenue  float64              `json:"total_revenue"`
	TotalExpenses float64              `json:"total_expenses"`
	NetIncome     float64              `json:"net_income"`
}

// PropertyAmount is one aggregate row from the store
type PropertyAmount struct {
	PropertyID   int64
	PropertyName string
	Amount       float64
}
