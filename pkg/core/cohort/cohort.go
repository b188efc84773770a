package cohort

import (
	"fmt"
	"sort"

	"sales_deepdive/pkg/core/dataset"
)

// =============================================================================
// COHORT RETENTION ENGINE
// =============================================================================
// A customer's cohort is the calendar month of its first purchase. The age
// index of any later transaction is the whole-month distance from that
// cohort month. Retention(cohort, age) divides the distinct-active count at
// that age by the cohort's base size (its age-0 count).
//
// A cell stays nil when the cohort has not yet reached that age in the
// observed data; it becomes 0.0 once the age is in the past and no activity
// was recorded. The two states must never be conflated: nil means "cannot
// know yet", zero means "churned".

// Row is one cohort line of the retention matrix.
type Row struct {
	Cohort    dataset.MonthIndex `json:"cohort"`
	BaseSize  int                `json:"base_size"`
	Active    []int              `json:"active"`    // distinct actives per age, up to maturity
	Retention []*float64         `json:"retention"` // nil = not yet matured
	Revenue   []float64          `json:"revenue"`   // cohort revenue per age, informational
}

// Matrix is the full cohort-by-age retention pivot.
type Matrix struct {
	Rows        []Row              `json:"rows"`
	MaxAge      int                `json:"max_age"`
	LatestMonth dataset.MonthIndex `json:"latest_month"`
	Customers   int                `json:"customers"`
}

// Build assigns cohorts, counts distinct actives per (cohort, age) and
// derives the retention matrix. Consistency violations (retention outside
// [0,1]) are fatal: they indicate duplicate-entity counting upstream.
func Build(txs []dataset.Transaction) (*Matrix, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("data-quality error: no transactions to build cohorts from")
	}

	// First pass: cohort month per customer (earliest transaction month).
	// Assignment is unique by construction: a single min per customer.
	cohortOf := make(map[int64]dataset.MonthIndex)
	latest := dataset.MonthIndex(0)
	for _, tx := range txs {
		m := dataset.MonthOf(tx.Date)
		if m > latest {
			latest = m
		}
		if first, ok := cohortOf[tx.CustomerID]; !ok || m < first {
			cohortOf[tx.CustomerID] = m
		}
	}

	// Second pass: distinct active customers and revenue per (cohort, age).
	type cell struct {
		actives map[int64]bool
		revenue float64
	}
	cells := make(map[dataset.MonthIndex]map[int]*cell)
	for _, tx := range txs {
		cohortMonth := cohortOf[tx.CustomerID]
		age := int(dataset.MonthOf(tx.Date) - cohortMonth)
		if age < 0 {
			return nil, fmt.Errorf("consistency error: negative age %d for customer %d", age, tx.CustomerID)
		}
		byAge, ok := cells[cohortMonth]
		if !ok {
			byAge = make(map[int]*cell)
			cells[cohortMonth] = byAge
		}
		c, ok := byAge[age]
		if !ok {
			c = &cell{actives: make(map[int64]bool)}
			byAge[age] = c
		}
		c.actives[tx.CustomerID] = true
		c.revenue += tx.Revenue
	}

	cohorts := make([]dataset.MonthIndex, 0, len(cells))
	for c := range cells {
		cohorts = append(cohorts, c)
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i] < cohorts[j] })

	maxAge := int(latest - cohorts[0])
	matrix := &Matrix{
		MaxAge:      maxAge,
		LatestMonth: latest,
		Customers:   len(cohortOf),
	}

	for _, cohortMonth := range cohorts {
		byAge := cells[cohortMonth]
		base := 0
		if c, ok := byAge[0]; ok {
			base = len(c.actives)
		}
		if base == 0 {
			// Impossible by construction: the defining transaction of every
			// member lands at age 0.
			return nil, fmt.Errorf("consistency error: cohort %s has no age-0 activity", cohortMonth)
		}

		maturity := int(latest - cohortMonth)
		row := Row{
			Cohort:    cohortMonth,
			BaseSize:  base,
			Active:    make([]int, maxAge+1),
			Retention: make([]*float64, maxAge+1),
			Revenue:   make([]float64, maxAge+1),
		}

		for age := 0; age <= maxAge; age++ {
			if age > maturity {
				// Not yet matured: leave the cell undefined.
				continue
			}
			active := 0
			if c, ok := byAge[age]; ok {
				active = len(c.actives)
				row.Revenue[age] = c.revenue
			}
			ratio := float64(active) / float64(base)
			if ratio < 0 || ratio > 1 {
				return nil, fmt.Errorf("consistency error: retention %.4f outside [0,1] for cohort %s age %d",
					ratio, cohortMonth, age)
			}
			row.Active[age] = active
			row.Retention[age] = &ratio
		}

		matrix.Rows = append(matrix.Rows, row)
	}

	return matrix, nil
}

// RetentionAt returns the retention cell for a cohort label and age, or nil
// when the cohort is unknown or the cell is undefined.
func (m *Matrix) RetentionAt(cohort dataset.MonthIndex, age int) *float64 {
	for _, row := range m.Rows {
		if row.Cohort == cohort {
			if age < 0 || age >= len(row.Retention) {
				return nil
			}
			return row.Retention[age]
		}
	}
	return nil
}
