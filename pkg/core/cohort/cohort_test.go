package cohort

import (
	"math"
	"testing"
	"time"

	"sales_deepdive/pkg/core/dataset"
)

func tx(id int64, year int, month time.Month) dataset.Transaction {
	return dataset.Transaction{
		Date:       time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
		CustomerID: id,
		Quantity:   1,
		Revenue:    100,
	}
}

func TestBaseRetentionIsAlwaysOne(t *testing.T) {
	txs := []dataset.Transaction{
		tx(1, 2023, time.January),
		tx(2, 2023, time.January),
		tx(3, 2023, time.February),
		tx(1, 2023, time.February),
	}
	m, err := Build(txs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, row := range m.Rows {
		r0 := row.Retention[0]
		if r0 == nil {
			t.Fatalf("cohort %s has undefined age-0 retention", row.Cohort)
		}
		if math.Abs(*r0-1.0) > 1e-12 {
			t.Errorf("cohort %s retention at age 0 expected 1.0, got %f", row.Cohort, *r0)
		}
	}
}

func TestRetentionExampleSeventyTwoPercent(t *testing.T) {
	// 100 customers start in 2023-01, 72 come back in 2023-02.
	var txs []dataset.Transaction
	for i := int64(1); i <= 100; i++ {
		txs = append(txs, tx(i, 2023, time.January))
	}
	for i := int64(1); i <= 72; i++ {
		txs = append(txs, tx(i, 2023, time.February))
	}

	m, err := Build(txs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cohortMonth, _ := dataset.ParseMonth("2023-01")
	r := m.RetentionAt(cohortMonth, 1)
	if r == nil {
		t.Fatal("retention at age 1 should be defined")
	}
	if math.Abs(*r-0.72) > 1e-12 {
		t.Errorf("expected retention 0.72, got %f", *r)
	}
	if m.Rows[0].BaseSize != 100 {
		t.Errorf("expected base size 100, got %d", m.Rows[0].BaseSize)
	}
}

func TestRetentionBoundsHold(t *testing.T) {
	txs := []dataset.Transaction{
		tx(1, 2023, time.January),
		tx(1, 2023, time.March),
		tx(2, 2023, time.February),
		tx(3, 2023, time.February),
		tx(2, 2023, time.April),
	}
	m, err := Build(txs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, row := range m.Rows {
		for age, r := range row.Retention {
			if r == nil {
				continue
			}
			if *r < 0 || *r > 1 {
				t.Errorf("cohort %s age %d retention %f outside [0,1]", row.Cohort, age, *r)
			}
		}
	}
}

func TestUndefinedVersusZeroCells(t *testing.T) {
	// Cohort 2023-01 observed through 2023-03: age 1 has no activity (zero),
	// age 2 has activity. Cohort 2023-03 has matured only to age 0, so its
	// later cells must stay undefined.
	txs := []dataset.Transaction{
		tx(1, 2023, time.January),
		tx(1, 2023, time.March),
		tx(2, 2023, time.March),
	}
	m, err := Build(txs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	jan, _ := dataset.ParseMonth("2023-01")
	mar, _ := dataset.ParseMonth("2023-03")

	// Matured but inactive: defined as zero.
	r := m.RetentionAt(jan, 1)
	if r == nil {
		t.Fatal("jan cohort age 1 is matured and must be defined")
	}
	if *r != 0 {
		t.Errorf("jan cohort age 1 expected 0.0, got %f", *r)
	}

	// Matured with repeat activity.
	r = m.RetentionAt(jan, 2)
	if r == nil || math.Abs(*r-1.0) > 1e-12 {
		t.Errorf("jan cohort age 2 expected 1.0, got %v", r)
	}

	// Not yet matured: undefined, never zero.
	if r := m.RetentionAt(mar, 1); r != nil {
		t.Errorf("mar cohort age 1 not matured, expected undefined, got %f", *r)
	}
}

func TestCohortIsEarliestMonth(t *testing.T) {
	// Customer 1 appears in March rows before January ones; cohort must
	// still be January regardless of input order.
	txs := []dataset.Transaction{
		tx(1, 2023, time.March),
		tx(1, 2023, time.January),
	}
	m, err := Build(txs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(m.Rows) != 1 {
		t.Fatalf("expected a single cohort, got %d", len(m.Rows))
	}
	if m.Rows[0].Cohort.String() != "2023-01" {
		t.Errorf("expected cohort 2023-01, got %s", m.Rows[0].Cohort)
	}
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Error("expected error for empty input")
	}
}
