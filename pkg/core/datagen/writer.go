package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"sales_deepdive/pkg/core/dataset"
)

// WriteSalesCSV writes the transaction dataset with the column layout the
// loader expects.
func WriteSalesCSV(path string, txs []dataset.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date", "customer_id", "product", "channel", "region",
		"quantity", "unit_price", "discount_pct", "revenue", "cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, tx := range txs {
		rec := []string{
			tx.Date.Format("2006-01-02"),
			strconv.FormatInt(tx.CustomerID, 10),
			tx.Product,
			tx.Channel,
			tx.Region,
			strconv.Itoa(tx.Quantity),
			strconv.FormatFloat(tx.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(tx.DiscountPct, 'f', 4, 64),
			strconv.FormatFloat(tx.Revenue, 'f', 2, 64),
			strconv.FormatFloat(tx.Cost, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteTargetsCSV writes the monthly target dataset.
func WriteTargetsCSV(path string, targets []dataset.Target) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"month", "channel", "region", "target_revenue", "forecast_revenue"}); err != nil {
		return err
	}
	for _, t := range targets {
		rec := []string{
			t.Month.String(),
			t.Channel,
			t.Region,
			strconv.FormatFloat(t.Target, 'f', 2, 64),
			strconv.FormatFloat(t.Forecast, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
