package adhoc

import (
	"fmt"
	"sort"

	"sales_deepdive/pkg/core/check"
	"sales_deepdive/pkg/core/dataset"
)

// =============================================================================
// AD-HOC INVESTIGATION ENGINE
// =============================================================================
// Two one-off questions over the same dataset:
//   1. Which products lost the most revenue lately? Compares the monthly
//      average of the most recent window against the prior window.
//   2. Does discounting move the average ticket? Buckets transactions by
//      discount fraction and reports ticket/revenue per band.

// Config controls the comparison windows and ranking depth.
type Config struct {
	RecentMonths int `yaml:"recent_months" json:"recent_months"`
	PriorMonths  int `yaml:"prior_months" json:"prior_months"`
	TopN         int `yaml:"top_n" json:"top_n"`
}

// DefaultConfig compares the last 2 months against the 3 before them.
func DefaultConfig() Config {
	return Config{RecentMonths: 2, PriorMonths: 3, TopN: 10}
}

// ProductDelta compares a product's monthly-average revenue across windows.
type ProductDelta struct {
	Product   string  `json:"product"`
	RecentAvg float64 `json:"recent_avg"`
	PriorAvg  float64 `json:"prior_avg"`
	Delta     float64 `json:"delta"`
	DeltaPct  float64 `json:"delta_pct"`
}

// DiscountBand aggregates transactions falling into one discount bucket.
type DiscountBand struct {
	Label        string  `json:"label"`
	Lo           float64 `json:"lo"`
	Hi           float64 `json:"hi"` // exclusive upper bound; last band is open
	Transactions int     `json:"transactions"`
	Revenue      float64 `json:"revenue"`
	AvgTicket    float64 `json:"avg_ticket"`
	AvgDiscount  float64 `json:"avg_discount"`
}

// ScatterPoint is one sampled (discount, ticket) pair for the chart.
type ScatterPoint struct {
	Discount float64 `json:"discount"`
	Ticket   float64 `json:"ticket"`
}

// Result is the full investigation outcome.
type Result struct {
	RecentFrom dataset.MonthIndex `json:"recent_from"`
	RecentTo   dataset.MonthIndex `json:"recent_to"`
	PriorFrom  dataset.MonthIndex `json:"prior_from"`
	PriorTo    dataset.MonthIndex `json:"prior_to"`
	Declines   []ProductDelta     `json:"declines"`
	Bands      []DiscountBand     `json:"bands"`
	Scatter    []ScatterPoint     `json:"scatter"`
	Check      check.Result       `json:"check"`
}

var bandEdges = []struct {
	label  string
	lo, hi float64
}{
	{"0-5%", 0.00, 0.05},
	{"5-10%", 0.05, 0.10},
	{"10-15%", 0.10, 0.15},
	{"15-20%", 0.15, 0.20},
	{"20%+", 0.20, 1.00},
}

// scatterStride thins the chart sample to roughly one point per stride rows.
const scatterStride = 200

// Investigate runs both questions over txs.
func Investigate(txs []dataset.Transaction, cfg Config) (*Result, error) {
	if cfg.RecentMonths < 1 || cfg.PriorMonths < 1 {
		return nil, fmt.Errorf("invalid windows: recent=%d prior=%d", cfg.RecentMonths, cfg.PriorMonths)
	}
	months := dataset.Months(txs)
	if len(months) < cfg.RecentMonths+cfg.PriorMonths {
		return nil, fmt.Errorf("data-quality error: need %d months of data, have %d",
			cfg.RecentMonths+cfg.PriorMonths, len(months))
	}

	latest := months[len(months)-1]
	result := &Result{
		RecentFrom: latest - dataset.MonthIndex(cfg.RecentMonths-1),
		RecentTo:   latest,
		PriorTo:    latest - dataset.MonthIndex(cfg.RecentMonths),
		Check:      check.Passed(),
	}
	result.PriorFrom = result.PriorTo - dataset.MonthIndex(cfg.PriorMonths-1)

	// Question 1: revenue per product per window, monthly-average basis.
	recent := make(map[string]float64)
	prior := make(map[string]float64)
	var productOrder []string
	seen := make(map[string]bool)
	for _, tx := range txs {
		m := dataset.MonthOf(tx.Date)
		var bucket map[string]float64
		switch {
		case m >= result.RecentFrom && m <= result.RecentTo:
			bucket = recent
		case m >= result.PriorFrom && m <= result.PriorTo:
			bucket = prior
		default:
			continue
		}
		if !seen[tx.Product] {
			seen[tx.Product] = true
			productOrder = append(productOrder, tx.Product)
		}
		bucket[tx.Product] += tx.Revenue
	}

	deltas := make([]ProductDelta, 0, len(productOrder))
	for _, p := range productOrder {
		recentAvg := recent[p] / float64(cfg.RecentMonths)
		priorAvg := prior[p] / float64(cfg.PriorMonths)
		d := ProductDelta{
			Product:   p,
			RecentAvg: recentAvg,
			PriorAvg:  priorAvg,
			Delta:     recentAvg - priorAvg,
		}
		if priorAvg > 0 {
			d.DeltaPct = d.Delta / priorAvg
		}
		deltas = append(deltas, d)
	}
	sort.SliceStable(deltas, func(i, j int) bool { return deltas[i].Delta < deltas[j].Delta })
	if cfg.TopN > 0 && len(deltas) > cfg.TopN {
		deltas = deltas[:cfg.TopN]
	}
	result.Declines = deltas

	for _, d := range result.Declines {
		if d.PriorAvg == 0 && d.RecentAvg > 0 {
			result.Check.Warn("product %q has recent revenue but none in the prior window; delta%% is undefined", d.Product)
		}
	}

	// Question 2: discount bands and a thinned scatter sample.
	bands := make([]DiscountBand, len(bandEdges))
	sumDiscount := make([]float64, len(bandEdges))
	sumTicket := make([]float64, len(bandEdges))
	for i, be := range bandEdges {
		bands[i] = DiscountBand{Label: be.label, Lo: be.lo, Hi: be.hi}
	}
	for n, tx := range txs {
		ticket := tx.Revenue / float64(tx.Quantity)
		for i, be := range bandEdges {
			last := i == len(bandEdges)-1
			if tx.DiscountPct >= be.lo && (tx.DiscountPct < be.hi || last) {
				bands[i].Transactions++
				bands[i].Revenue += tx.Revenue
				sumDiscount[i] += tx.DiscountPct
				sumTicket[i] += ticket
				break
			}
		}
		if n%scatterStride == 0 {
			result.Scatter = append(result.Scatter, ScatterPoint{Discount: tx.DiscountPct, Ticket: ticket})
		}
	}
	for i := range bands {
		if bands[i].Transactions > 0 {
			bands[i].AvgTicket = sumTicket[i] / float64(bands[i].Transactions)
			bands[i].AvgDiscount = sumDiscount[i] / float64(bands[i].Transactions)
		}
	}
	result.Bands = bands

	return result, nil
}
