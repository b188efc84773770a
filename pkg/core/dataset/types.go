package dataset

import (
	"fmt"
	"time"
)

// =============================================================================
// CORE DATA MODEL
// =============================================================================

// Transaction is one sales line from the transactional dataset.
// Revenue is the net amount after discount; Cost is the fulfilment cost.
type Transaction struct {
	Date        time.Time `json:"date"`
	CustomerID  int64     `json:"customer_id"`
	Product     string    `json:"product"`
	Channel     string    `json:"channel"`
	Region      string    `json:"region"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	DiscountPct float64   `json:"discount_pct"`
	Revenue     float64   `json:"revenue"`
	Cost        float64   `json:"cost"`
}

// Target is one row of the monthly target dataset, keyed by
// (month, channel, region).
type Target struct {
	Month    MonthIndex `json:"month"`
	Channel  string     `json:"channel"`
	Region   string     `json:"region"`
	Target   float64    `json:"target_revenue"`
	Forecast float64    `json:"forecast_revenue"`
}

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

// MonthIndex is a linear calendar-month index (year*12 + month - 1).
// Subtracting two indexes gives the whole-month distance between them,
// which is what cohort ages and period joins operate on.
type MonthIndex int

// MonthOf returns the index of the calendar month containing t.
func MonthOf(t time.Time) MonthIndex {
	return MonthIndex(t.Year()*12 + int(t.Month()) - 1)
}

// String formats the index as "YYYY-MM".
func (m MonthIndex) String() string {
	return fmt.Sprintf("%04d-%02d", int(m)/12, int(m)%12+1)
}

// ParseMonth parses a "YYYY-MM" label back into an index.
func ParseMonth(s string) (MonthIndex, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}
