package indicators

import (
	"fmt"
	"sort"

	"sales_deepdive/pkg/core/check"
	"sales_deepdive/pkg/core/dataset"
)

// =============================================================================
// ACTUAL-VS-TARGET GAP ENGINE
// =============================================================================

// Status classifies a gap ratio against the symmetric tolerance band.
type Status string

const (
	StatusAbove    Status = "Above"
	StatusOnTarget Status = "OnTarget"
	StatusBelow    Status = "Below"
)

// Config holds the gap tolerance. Tolerance is a fraction of target: a
// gap_ratio inside [-Tolerance, +Tolerance] counts as on target.
type Config struct {
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// DefaultConfig uses a 2% band.
func DefaultConfig() Config {
	return Config{Tolerance: 0.02}
}

// MonthlyGap is the company-level actual-vs-target line for one month.
type MonthlyGap struct {
	Month    dataset.MonthIndex `json:"month"`
	Actual   float64            `json:"actual"`
	Target   float64            `json:"target"`
	Gap      float64            `json:"gap"`
	GapRatio float64            `json:"gap_ratio"`
	Status   Status             `json:"status"`
}

// DimGap is the same computation at (month, channel, region) grain.
// TargetMissing marks rows produced by the left join where no target
// exists; by policy those keep GapRatio 0 and status OnTarget instead of
// being dropped, and are counted in an advisory.
type DimGap struct {
	Month         dataset.MonthIndex `json:"month"`
	Channel       string             `json:"channel"`
	Region        string             `json:"region"`
	Actual        float64            `json:"actual"`
	Target        float64            `json:"target"`
	Gap           float64            `json:"gap"`
	GapRatio      float64            `json:"gap_ratio"`
	Status        Status             `json:"status"`
	TargetMissing bool               `json:"target_missing"`
}

// Effect decomposes one channel's revenue delta between the two most
// recent months into volume, price and cross terms. The three terms sum to
// the revenue delta exactly; that identity is asserted, not assumed.
type Effect struct {
	Channel      string  `json:"channel"`
	CountPrev    int     `json:"count_prev"`
	CountNow     int     `json:"count_now"`
	RevenuePrev  float64 `json:"revenue_prev"`
	RevenueNow   float64 `json:"revenue_now"`
	TicketPrev   float64 `json:"ticket_prev"`
	TicketNow    float64 `json:"ticket_now"`
	VolumeEffect float64 `json:"volume_effect"`
	PriceEffect  float64 `json:"price_effect"`
	CrossEffect  float64 `json:"cross_effect"`
	Delta        float64 `json:"delta"`
}

// Decomposition carries the per-channel effects for one month pair, or is
// marked unavailable when fewer than two months exist.
type Decomposition struct {
	Available bool               `json:"available"`
	PrevMonth dataset.MonthIndex `json:"prev_month"`
	CurrMonth dataset.MonthIndex `json:"curr_month"`
	Effects   []Effect           `json:"effects"`
}

// Result is the full engine output.
type Result struct {
	Monthly       []MonthlyGap  `json:"monthly"`
	Dimensional   []DimGap      `json:"dimensional"`
	Decomposition Decomposition `json:"decomposition"`
	Check         check.Result  `json:"check"`
}

// identityTol bounds the decomposition's exact-sum check; floating rounding
// only, any larger residue is a logic bug and fatal.
const identityTol = 1e-9

// Classify maps a gap ratio to its status band.
func Classify(gapRatio, tolerance float64) Status {
	switch {
	case gapRatio > tolerance:
		return StatusAbove
	case gapRatio < -tolerance:
		return StatusBelow
	default:
		return StatusOnTarget
	}
}

// Analyze joins actuals to targets at month and (month, channel, region)
// grain and decomposes the latest month-over-month revenue delta per
// channel.
func Analyze(txs []dataset.Transaction, targets []dataset.Target, cfg Config) (*Result, error) {
	if cfg.Tolerance <= 0 {
		return nil, fmt.Errorf("invalid tolerance %.4f", cfg.Tolerance)
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("data-quality error: no transactions")
	}

	result := &Result{Check: check.Passed()}

	monthly, err := monthlyGaps(txs, targets, cfg, &result.Check)
	if err != nil {
		return nil, err
	}
	result.Monthly = monthly

	result.Dimensional = dimensionalGaps(txs, targets, cfg, &result.Check)

	dec, err := Decompose(txs)
	if err != nil {
		return nil, err
	}
	result.Decomposition = dec

	return result, nil
}

func monthlyGaps(txs []dataset.Transaction, targets []dataset.Target, cfg Config, ck *check.Result) ([]MonthlyGap, error) {
	actual := make(map[dataset.MonthIndex]float64)
	for _, tx := range txs {
		actual[dataset.MonthOf(tx.Date)] += tx.Revenue
	}
	target := make(map[dataset.MonthIndex]float64)
	for _, t := range targets {
		target[t.Month] += t.Target
	}

	months := dataset.Months(txs)
	gaps := make([]MonthlyGap, 0, len(months))
	for _, m := range months {
		tgt, ok := target[m]
		if !ok {
			ck.Warn("month %s has actuals but no target rows", m)
			continue
		}
		g := MonthlyGap{Month: m, Actual: actual[m], Target: tgt}
		g.Gap = g.Actual - g.Target
		g.GapRatio = g.Gap / g.Target
		g.Status = Classify(g.GapRatio, cfg.Tolerance)
		gaps = append(gaps, g)
	}
	if len(gaps) == 0 {
		return nil, fmt.Errorf("consistency error: no month has both actuals and targets")
	}

	for m := range target {
		if _, ok := actual[m]; !ok {
			ck.Warn("target month %s has no matching actuals", m)
		}
	}
	return gaps, nil
}

// dimensionalGaps left-joins actual aggregates onto the target table at
// (month, channel, region) grain.
func dimensionalGaps(txs []dataset.Transaction, targets []dataset.Target, cfg Config, ck *check.Result) []DimGap {
	type key struct {
		month   dataset.MonthIndex
		channel string
		region  string
	}
	actual := make(map[key]float64)
	var order []key
	for _, tx := range txs {
		k := key{dataset.MonthOf(tx.Date), tx.Channel, tx.Region}
		if _, ok := actual[k]; !ok {
			order = append(order, k)
		}
		actual[k] += tx.Revenue
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.month != b.month {
			return a.month < b.month
		}
		if a.channel != b.channel {
			return a.channel < b.channel
		}
		return a.region < b.region
	})

	target := make(map[key]float64)
	for _, t := range targets {
		target[key{t.Month, t.Channel, t.Region}] += t.Target
	}

	missing := 0
	gaps := make([]DimGap, 0, len(order))
	for _, k := range order {
		g := DimGap{Month: k.month, Channel: k.channel, Region: k.region, Actual: actual[k]}
		tgt, ok := target[k]
		if !ok {
			// Documented simplification: unmatched rows are kept with a
			// zero ratio rather than dropped.
			missing++
			g.TargetMissing = true
			g.Status = StatusOnTarget
		} else {
			g.Target = tgt
			g.Gap = g.Actual - g.Target
			g.GapRatio = g.Gap / g.Target
			g.Status = Classify(g.GapRatio, cfg.Tolerance)
		}
		gaps = append(gaps, g)
	}
	if missing > 0 {
		ck.Warn("%d dimensional rows have no target; kept with gap_ratio 0 and status OnTarget", missing)
	}
	return gaps
}

// Decompose explains the revenue delta between the two most recent months,
// per channel, as volume + price + cross effects:
//
//	volume = (count_now - count_prev) * ticket_prev
//	price  = count_prev * (ticket_now - ticket_prev)
//	cross  = (count_now - count_prev) * (ticket_now - ticket_prev)
//
// The sum equals revenue_now - revenue_prev by algebraic identity; the
// residue is checked against a relative 1e-9 bound and any violation is
// fatal. With fewer than two months the decomposition is reported as
// unavailable, never as zeros.
func Decompose(txs []dataset.Transaction) (Decomposition, error) {
	months := dataset.Months(txs)
	if len(months) < 2 {
		return Decomposition{Available: false}, nil
	}
	curr := months[len(months)-1]
	prev := months[len(months)-2]

	type agg struct {
		customers map[int64]bool
		revenue   float64
	}
	collect := func(month dataset.MonthIndex) (map[string]*agg, []string) {
		byChannel := make(map[string]*agg)
		var order []string
		for _, tx := range txs {
			if dataset.MonthOf(tx.Date) != month {
				continue
			}
			a, ok := byChannel[tx.Channel]
			if !ok {
				a = &agg{customers: make(map[int64]bool)}
				byChannel[tx.Channel] = a
				order = append(order, tx.Channel)
			}
			a.customers[tx.CustomerID] = true
			a.revenue += tx.Revenue
		}
		return byChannel, order
	}

	prevAgg, _ := collect(prev)
	currAgg, currOrder := collect(curr)

	channels := append([]string(nil), currOrder...)
	for ch := range prevAgg {
		if _, ok := currAgg[ch]; !ok {
			channels = append(channels, ch)
		}
	}
	sort.Strings(channels)

	dec := Decomposition{Available: true, PrevMonth: prev, CurrMonth: curr}
	for _, ch := range channels {
		var countPrev, countNow int
		var revPrev, revNow float64
		if a, ok := prevAgg[ch]; ok {
			countPrev = len(a.customers)
			revPrev = a.revenue
		}
		if a, ok := currAgg[ch]; ok {
			countNow = len(a.customers)
			revNow = a.revenue
		}

		e := Effect{
			Channel:     ch,
			CountPrev:   countPrev,
			CountNow:    countNow,
			RevenuePrev: revPrev,
			RevenueNow:  revNow,
		}
		if countPrev > 0 {
			e.TicketPrev = revPrev / float64(countPrev)
		}
		if countNow > 0 {
			e.TicketNow = revNow / float64(countNow)
		}

		dCount := float64(countNow - countPrev)
		dTicket := e.TicketNow - e.TicketPrev
		e.VolumeEffect = dCount * e.TicketPrev
		e.PriceEffect = float64(countPrev) * dTicket
		e.CrossEffect = dCount * dTicket
		e.Delta = revNow - revPrev

		sum := e.VolumeEffect + e.PriceEffect + e.CrossEffect
		if !check.WithinRel(sum, e.Delta, identityTol) {
			return Decomposition{}, fmt.Errorf(
				"consistency error: decomposition identity broken for channel %s: %.12f != %.12f", ch, sum, e.Delta)
		}
		dec.Effects = append(dec.Effects, e)
	}

	return dec, nil
}

// StatusCounts tallies statuses for reporting.
func StatusCounts(gaps []DimGap) map[Status]int {
	counts := make(map[Status]int)
	for _, g := range gaps {
		counts[g.Status]++
	}
	return counts
}
