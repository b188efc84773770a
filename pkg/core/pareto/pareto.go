package pareto

import (
	"fmt"
	"math"
	"sort"

	"sales_deepdive/pkg/core/check"
	"sales_deepdive/pkg/core/dataset"
)

// =============================================================================
// PARETO / ABC REVENUE CLASSIFIER
// =============================================================================

// Config holds the cumulative-share cut points. Tiers are assigned by the
// half-open bands (0, ACut] -> A, (ACut, BCut] -> B, (BCut, 1] -> C.
type Config struct {
	ACut float64 `yaml:"a_cut" json:"a_cut"`
	BCut float64 `yaml:"b_cut" json:"b_cut"`
}

// DefaultConfig returns the classic 80/95 bands.
func DefaultConfig() Config {
	return Config{ACut: 0.80, BCut: 0.95}
}

// Entry is one ranked customer.
type Entry struct {
	Rank       int     `json:"rank"`
	CustomerID int64   `json:"customer_id"`
	Revenue    float64 `json:"revenue"`
	Share      float64 `json:"share"`
	CumShare   float64 `json:"cum_share"`
	Tier       string  `json:"tier"`
}

// TierStats aggregates one tier.
type TierStats struct {
	Customers    int     `json:"customers"`
	Revenue      float64 `json:"revenue"`
	RevenueShare float64 `json:"revenue_share"`
}

// Result is the full classification outcome.
type Result struct {
	Entries      []Entry              `json:"entries"`
	TotalRevenue float64              `json:"total_revenue"`
	Tiers        map[string]TierStats `json:"tiers"`
	Check        check.Result         `json:"check"`
}

// Classify aggregates revenue per customer, ranks descending with a stable
// tie-break on first-seen order, computes cumulative shares and assigns
// tiers. Terminal cumulative share must reach ~1.0 and every customer must
// be tiered; both are fatal. Tier-A share drifting more than 5 percentage
// points from ACut is a soft advisory only.
func Classify(txs []dataset.Transaction, cfg Config) (*Result, error) {
	if cfg.ACut <= 0 || cfg.BCut <= cfg.ACut || cfg.BCut > 1 {
		return nil, fmt.Errorf("invalid ABC cuts: a_cut=%.2f b_cut=%.2f", cfg.ACut, cfg.BCut)
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("data-quality error: no transactions to classify")
	}

	// Aggregate per customer preserving first-seen input order so that the
	// stable sort's tie-break is the dataset order.
	totals := make(map[int64]float64)
	var order []int64
	var total float64
	for _, tx := range txs {
		if _, seen := totals[tx.CustomerID]; !seen {
			order = append(order, tx.CustomerID)
		}
		totals[tx.CustomerID] += tx.Revenue
		total += tx.Revenue
	}
	if total <= 0 {
		return nil, fmt.Errorf("data-quality error: total revenue is non-positive (%.2f)", total)
	}

	entries := make([]Entry, len(order))
	for i, id := range order {
		entries[i] = Entry{CustomerID: id, Revenue: totals[id]}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Revenue > entries[j].Revenue })

	// An entity belongs to the band its cumulative interval starts in, so a
	// single dominant customer that alone crosses ACut is still tier A.
	var cum float64
	for i := range entries {
		e := &entries[i]
		e.Rank = i + 1
		e.Share = e.Revenue / total
		prev := cum
		cum += e.Share
		e.CumShare = cum
		switch {
		case prev < cfg.ACut:
			e.Tier = "A"
		case prev < cfg.BCut:
			e.Tier = "B"
		default:
			e.Tier = "C"
		}
	}

	// Postconditions.
	terminal := entries[len(entries)-1].CumShare
	if math.Abs(terminal-1.0) > 1e-6 {
		return nil, fmt.Errorf("consistency error: terminal cumulative share %.9f != 1.0", terminal)
	}
	tiers := map[string]TierStats{}
	for _, e := range entries {
		if e.Tier == "" {
			return nil, fmt.Errorf("consistency error: customer %d has no tier", e.CustomerID)
		}
		s := tiers[e.Tier]
		s.Customers++
		s.Revenue += e.Revenue
		tiers[e.Tier] = s
	}
	for tier, s := range tiers {
		s.RevenueShare = s.Revenue / total
		tiers[tier] = s
	}

	result := &Result{
		Entries:      entries,
		TotalRevenue: total,
		Tiers:        tiers,
		Check:        check.Passed(),
	}

	if aShare := tiers["A"].RevenueShare; math.Abs(aShare-cfg.ACut) > 0.05 {
		result.Check.Gap = aShare - cfg.ACut
		result.Check.Warn("tier-A revenue share %.1f%% is more than 5pp away from the configured cut %.0f%%; thresholds may not match this distribution",
			aShare*100, cfg.ACut*100)
	}

	return result, nil
}
