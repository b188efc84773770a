package indicators

import (
	"math"
	"testing"
	"time"

	"sales_deepdive/pkg/core/dataset"
)

func tx(id int64, year int, month time.Month, channel, region string, revenue float64) dataset.Transaction {
	return dataset.Transaction{
		Date:       time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
		CustomerID: id,
		Channel:    channel,
		Region:     region,
		Quantity:   1,
		Revenue:    revenue,
	}
}

func target(label, channel, region string, amount float64) dataset.Target {
	m, _ := dataset.ParseMonth(label)
	return dataset.Target{Month: m, Channel: channel, Region: region, Target: amount}
}

func TestClassifyStatusBands(t *testing.T) {
	cases := []struct {
		gapRatio float64
		want     Status
	}{
		{0.03, StatusAbove},   // target 100, actual 103, tol 0.02
		{0.02, StatusOnTarget},
		{0.00, StatusOnTarget},
		{-0.02, StatusOnTarget},
		{-0.021, StatusBelow},
	}
	for _, c := range cases {
		if got := Classify(c.gapRatio, 0.02); got != c.want {
			t.Errorf("Classify(%f) expected %s, got %s", c.gapRatio, c.want, got)
		}
	}
}

func TestMonthlyGapComputation(t *testing.T) {
	txs := []dataset.Transaction{
		tx(1, 2023, time.January, "SMB", "South", 103),
	}
	targets := []dataset.Target{target("2023-01", "SMB", "South", 100)}

	res, err := Analyze(txs, targets, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Monthly) != 1 {
		t.Fatalf("expected 1 monthly gap, got %d", len(res.Monthly))
	}
	g := res.Monthly[0]
	if math.Abs(g.Gap-3) > 1e-9 {
		t.Errorf("gap expected 3, got %f", g.Gap)
	}
	if math.Abs(g.GapRatio-0.03) > 1e-9 {
		t.Errorf("gap ratio expected 0.03, got %f", g.GapRatio)
	}
	if g.Status != StatusAbove {
		t.Errorf("status expected Above, got %s", g.Status)
	}
}

func TestMissingDimensionalTargetPolicy(t *testing.T) {
	txs := []dataset.Transaction{
		tx(1, 2023, time.January, "SMB", "South", 100),
		tx(2, 2023, time.January, "Corporate", "North", 200),
	}
	// Only the SMB/South tuple has a target.
	targets := []dataset.Target{target("2023-01", "SMB", "South", 100)}

	res, err := Analyze(txs, targets, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Dimensional) != 2 {
		t.Fatalf("unmatched rows must not be dropped: expected 2, got %d", len(res.Dimensional))
	}

	var missing *DimGap
	for i := range res.Dimensional {
		if res.Dimensional[i].TargetMissing {
			missing = &res.Dimensional[i]
		}
	}
	if missing == nil {
		t.Fatal("expected one row flagged target_missing")
	}
	if missing.GapRatio != 0 || missing.Status != StatusOnTarget {
		t.Errorf("missing-target row must keep gap_ratio 0 and OnTarget, got %f/%s",
			missing.GapRatio, missing.Status)
	}

	found := false
	for _, w := range res.Check.Warnings {
		if w != "" {
			found = true
		}
	}
	if !found {
		t.Error("missing targets must raise an advisory")
	}
}

func TestDecompositionWorkedExample(t *testing.T) {
	// Period A: 2 customers, revenue 200 (ticket 100).
	// Period B: 3 customers, revenue 270 (ticket 90).
	// volume = 1*100 = 100, price = 2*(-10) = -20, cross = 1*(-10) = -10.
	txs := []dataset.Transaction{
		tx(1, 2023, time.January, "SMB", "South", 100),
		tx(2, 2023, time.January, "SMB", "South", 100),
		tx(1, 2023, time.February, "SMB", "South", 90),
		tx(2, 2023, time.February, "SMB", "South", 90),
		tx(3, 2023, time.February, "SMB", "South", 90),
	}
	dec, err := Decompose(txs)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if !dec.Available {
		t.Fatal("decomposition should be available with two months")
	}
	if len(dec.Effects) != 1 {
		t.Fatalf("expected 1 channel effect, got %d", len(dec.Effects))
	}
	e := dec.Effects[0]

	if math.Abs(e.VolumeEffect-100) > 1e-9 {
		t.Errorf("volume effect expected 100, got %f", e.VolumeEffect)
	}
	if math.Abs(e.PriceEffect+20) > 1e-9 {
		t.Errorf("price effect expected -20, got %f", e.PriceEffect)
	}
	if math.Abs(e.CrossEffect+10) > 1e-9 {
		t.Errorf("cross effect expected -10, got %f", e.CrossEffect)
	}
	if math.Abs(e.Delta-70) > 1e-9 {
		t.Errorf("delta expected 70, got %f", e.Delta)
	}
	sum := e.VolumeEffect + e.PriceEffect + e.CrossEffect
	if math.Abs(sum-e.Delta) > 1e-9 {
		t.Errorf("identity broken: %f != %f", sum, e.Delta)
	}
}

func TestDecompositionIdentityHoldsOnUnevenData(t *testing.T) {
	txs := []dataset.Transaction{
		tx(1, 2023, time.January, "SMB", "South", 137.41),
		tx(2, 2023, time.January, "SMB", "South", 89.03),
		tx(3, 2023, time.January, "Corporate", "South", 412.77),
		tx(1, 2023, time.February, "SMB", "South", 251.19),
		tx(4, 2023, time.February, "Corporate", "South", 98.55),
		tx(5, 2023, time.February, "Corporate", "South", 310.01),
	}
	dec, err := Decompose(txs)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	for _, e := range dec.Effects {
		sum := e.VolumeEffect + e.PriceEffect + e.CrossEffect
		if math.Abs(sum-e.Delta) > 1e-9*math.Max(1, math.Abs(e.Delta)) {
			t.Errorf("channel %s identity broken: %.12f != %.12f", e.Channel, sum, e.Delta)
		}
	}
}

func TestDecompositionUnavailableWithOneMonth(t *testing.T) {
	txs := []dataset.Transaction{
		tx(1, 2023, time.January, "SMB", "South", 100),
	}
	dec, err := Decompose(txs)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if dec.Available {
		t.Error("decomposition must be unavailable with a single month, not zeroed")
	}
	if len(dec.Effects) != 0 {
		t.Errorf("unavailable decomposition must carry no effects, got %d", len(dec.Effects))
	}
}

func TestTargetMonthWithoutActualsWarns(t *testing.T) {
	txs := []dataset.Transaction{
		tx(1, 2023, time.January, "SMB", "South", 100),
	}
	targets := []dataset.Target{
		target("2023-01", "SMB", "South", 100),
		target("2023-02", "SMB", "South", 100),
	}
	res, err := Analyze(txs, targets, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Check.Warnings) == 0 {
		t.Error("target month without actuals must raise an advisory")
	}
}
