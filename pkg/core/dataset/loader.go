package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CSV LOADERS
// =============================================================================

var transactionColumns = []string{
	"date", "customer_id", "product", "channel", "region",
	"quantity", "unit_price", "discount_pct", "revenue", "cost",
}

var targetColumns = []string{
	"month", "channel", "region", "target_revenue", "forecast_revenue",
}

// headerIndex maps column names to positions and reports every missing
// required column at once (schema errors are fatal and must name fields).
func headerIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("schema error: missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("schema error: %s is empty, no header row", path)
	}
	return records, nil
}

// LoadTransactions reads the sales dataset. Rows come back in file order;
// downstream sorts are explicit and stable so that order is the tie-break.
func LoadTransactions(path string) ([]Transaction, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}
	idx, err := headerIndex(records[0], transactionColumns)
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(records)-1)
	for line, rec := range records[1:] {
		tx, err := parseTransaction(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseTransaction(rec []string, idx map[string]int) (Transaction, error) {
	var tx Transaction

	field := func(name string) string { return strings.TrimSpace(rec[idx[name]]) }

	date, err := time.Parse("2006-01-02", field("date"))
	if err != nil {
		return tx, fmt.Errorf("invalid date %q: %w", field("date"), err)
	}
	tx.Date = date

	// Empty customer IDs are kept as zero here; the quality validator
	// rejects them with a proper data-quality error rather than a parse one.
	if raw := field("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return tx, fmt.Errorf("invalid customer_id %q: %w", raw, err)
		}
		tx.CustomerID = id
	}

	tx.Product = field("product")
	tx.Channel = field("channel")
	tx.Region = field("region")

	qty, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return tx, fmt.Errorf("invalid quantity %q: %w", field("quantity"), err)
	}
	tx.Quantity = qty

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"unit_price", &tx.UnitPrice},
		{"discount_pct", &tx.DiscountPct},
		{"revenue", &tx.Revenue},
		{"cost", &tx.Cost},
	} {
		v, err := strconv.ParseFloat(field(f.name), 64)
		if err != nil {
			return tx, fmt.Errorf("invalid %s %q: %w", f.name, field(f.name), err)
		}
		*f.dst = v
	}

	return tx, nil
}

// LoadTargets reads the monthly target dataset.
func LoadTargets(path string) ([]Target, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}
	idx, err := headerIndex(records[0], targetColumns)
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(records)-1)
	for line, rec := range records[1:] {
		field := func(name string) string { return strings.TrimSpace(rec[idx[name]]) }

		month, err := ParseMonth(field("month"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+2, err)
		}
		target, err := strconv.ParseFloat(field("target_revenue"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid target_revenue %q: %w", line+2, field("target_revenue"), err)
		}
		forecast, err := strconv.ParseFloat(field("forecast_revenue"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid forecast_revenue %q: %w", line+2, field("forecast_revenue"), err)
		}

		targets = append(targets, Target{
			Month:    month,
			Channel:  field("channel"),
			Region:   field("region"),
			Target:   target,
			Forecast: forecast,
		})
	}
	return targets, nil
}

// Months returns the sorted distinct month indexes present in txs.
func Months(txs []Transaction) []MonthIndex {
	seen := make(map[MonthIndex]bool)
	for _, tx := range txs {
		seen[MonthOf(tx.Date)] = true
	}
	months := make([]MonthIndex, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}
