package datagen

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"sales_deepdive/pkg/core/dataset"
)

// =============================================================================
// SYNTHETIC SALES DATASET GENERATOR
// =============================================================================
// Deterministic for a given seed: the same parameters always produce the
// same bytes, which is what the idempotence guarantees downstream rest on.

// Params controls the generated dataset.
type Params struct {
	Rows      int
	Customers int
	Seed      int64
	From      dataset.MonthIndex
	To        dataset.MonthIndex
}

// DefaultParams mirrors the reference dataset: ~120k rows, 5k customers,
// January 2021 through January 2026.
func DefaultParams() Params {
	from, _ := dataset.ParseMonth("2021-01")
	to, _ := dataset.ParseMonth("2026-01")
	return Params{
		Rows:      120000,
		Customers: 5000,
		Seed:      42,
		From:      from,
		To:        to,
	}
}

const firstCustomerID = 10000

var products = []struct {
	name      string
	weight    float64
	basePrice float64
}{
	{"Meal Voucher", 0.22, 420},
	{"Food Allowance", 0.18, 380},
	{"Fuel Card", 0.13, 610},
	{"Transit Pass", 0.11, 180},
	{"Home Office", 0.09, 260},
	{"Gift Card", 0.08, 150},
	{"Culture Pass", 0.07, 120},
	{"Health Credit", 0.07, 330},
	{"Mobility Pass", 0.05, 290},
}

var channels = []struct {
	name   string
	weight float64
}{
	{"SMB", 0.42},
	{"Corporate", 0.31},
	{"Key Accounts", 0.17},
	{"Public Sector", 0.10},
}

var regions = []struct {
	name   string
	weight float64
}{
	{"Southeast", 0.38},
	{"South", 0.20},
	{"Northeast", 0.18},
	{"Midwest", 0.13},
	{"North", 0.11},
}

// seasonality is a small monthly demand multiplier: stronger January and
// year-end, a soft February.
func seasonality(month time.Month) float64 {
	switch month {
	case time.January:
		return 1.03
	case time.February:
		return 0.99
	case time.November, time.December:
		return 1.02
	default:
		return 1.0
	}
}

func pickWeighted(r *rand.Rand, weights []float64) int {
	v := r.Float64()
	var cum float64
	for i, w := range weights {
		cum += w
		if v < cum {
			return i
		}
	}
	return len(weights) - 1
}

// Generate produces the transaction and target datasets.
func Generate(p Params) ([]dataset.Transaction, []dataset.Target, error) {
	if p.Rows < 1 || p.Customers < 1 {
		return nil, nil, fmt.Errorf("invalid params: rows=%d customers=%d", p.Rows, p.Customers)
	}
	if p.To <= p.From {
		return nil, nil, fmt.Errorf("invalid params: empty month range %s..%s", p.From, p.To)
	}
	r := rand.New(rand.NewSource(p.Seed))

	productWeights := make([]float64, len(products))
	for i, pr := range products {
		productWeights[i] = pr.weight
	}
	channelWeights := make([]float64, len(channels))
	for i, ch := range channels {
		channelWeights[i] = ch.weight
	}
	regionWeights := make([]float64, len(regions))
	for i, rg := range regions {
		regionWeights[i] = rg.weight
	}

	monthSpan := int(p.To-p.From) + 1
	txs := make([]dataset.Transaction, 0, p.Rows)
	for i := 0; i < p.Rows; i++ {
		month := p.From + dataset.MonthIndex(r.Intn(monthSpan))
		day := 1 + r.Intn(28)
		date := time.Date(int(month)/12, time.Month(int(month)%12+1), day, 0, 0, 0, 0, time.UTC)

		prod := products[pickWeighted(r, productWeights)]
		ch := channels[pickWeighted(r, channelWeights)]
		rg := regions[pickWeighted(r, regionWeights)]

		qty := 1 + r.Intn(10)
		price := prod.basePrice * (0.9 + 0.2*r.Float64())

		discount := 0.25 * r.Float64()
		// Large contracts negotiate harder.
		if ch.name == "Key Accounts" || ch.name == "Public Sector" {
			discount = min(0.25, discount+0.05*r.Float64())
		}

		noise := 0.92 + 0.16*r.Float64()
		revenue := float64(qty) * price * seasonality(date.Month()) * (1 - discount) * noise
		if revenue < 30 {
			revenue = 30
		}
		cost := revenue * (0.55 + 0.27*r.Float64())

		txs = append(txs, dataset.Transaction{
			Date:        date,
			CustomerID:  int64(firstCustomerID + r.Intn(p.Customers)),
			Product:     prod.name,
			Channel:     ch.name,
			Region:      rg.name,
			Quantity:    qty,
			UnitPrice:   price,
			DiscountPct: discount,
			Revenue:     revenue,
			Cost:        cost,
		})
	}

	targets := buildTargets(r, txs)
	return txs, targets, nil
}

// buildTargets derives the monthly target table from realized revenue per
// (month, channel, region): targets sit within a few percent of actuals so
// the gap report exercises all three status bands.
func buildTargets(r *rand.Rand, txs []dataset.Transaction) []dataset.Target {
	type key struct {
		month   dataset.MonthIndex
		channel string
		region  string
	}
	realized := make(map[key]float64)
	for _, tx := range txs {
		realized[key{dataset.MonthOf(tx.Date), tx.Channel, tx.Region}] += tx.Revenue
	}

	keys := make([]key, 0, len(realized))
	for k := range realized {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.month != b.month {
			return a.month < b.month
		}
		if a.channel != b.channel {
			return a.channel < b.channel
		}
		return a.region < b.region
	})

	targets := make([]dataset.Target, 0, len(keys))
	for _, k := range keys {
		target := realized[k] * (0.95 + 0.13*r.Float64())
		forecast := target * (0.96 + 0.08*r.Float64())
		targets = append(targets, dataset.Target{
			Month:    k.month,
			Channel:  k.channel,
			Region:   k.region,
			Target:   target,
			Forecast: forecast,
		})
	}
	return targets
}
