package datagen

import (
	"testing"

	"sales_deepdive/pkg/core/dataset"
)

func smallParams() Params {
	p := DefaultParams()
	p.Rows = 2000
	p.Customers = 200
	return p
}

func TestGenerateIsDeterministic(t *testing.T) {
	tx1, tg1, err := Generate(smallParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	tx2, tg2, err := Generate(smallParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(tx1) != len(tx2) || len(tg1) != len(tg2) {
		t.Fatalf("sizes differ across identical seeds: %d/%d vs %d/%d",
			len(tx1), len(tg1), len(tx2), len(tg2))
	}
	for i := range tx1 {
		if tx1[i] != tx2[i] {
			t.Fatalf("row %d differs across identical seeds", i)
		}
	}
	for i := range tg1 {
		if tg1[i] != tg2[i] {
			t.Fatalf("target row %d differs across identical seeds", i)
		}
	}
}

func TestGeneratedDataPassesValidation(t *testing.T) {
	txs, targets, err := Generate(smallParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := dataset.ValidateTransactions(txs); err != nil {
		t.Errorf("generated transactions must validate: %v", err)
	}
	if err := dataset.ValidateTargets(targets); err != nil {
		t.Errorf("generated targets must validate: %v", err)
	}
}

func TestGeneratedRowsRespectParams(t *testing.T) {
	p := smallParams()
	txs, _, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(txs) != p.Rows {
		t.Errorf("expected %d rows, got %d", p.Rows, len(txs))
	}
	for _, tx := range txs {
		if tx.CustomerID < firstCustomerID || tx.CustomerID >= firstCustomerID+int64(p.Customers) {
			t.Fatalf("customer ID %d outside configured range", tx.CustomerID)
		}
		m := dataset.MonthOf(tx.Date)
		if m < p.From || m > p.To {
			t.Fatalf("transaction month %s outside %s..%s", m, p.From, p.To)
		}
		if tx.Revenue < 30 {
			t.Fatalf("revenue %f below the 30 floor", tx.Revenue)
		}
		if tx.Cost >= tx.Revenue {
			t.Fatalf("cost %f should stay below revenue %f", tx.Cost, tx.Revenue)
		}
	}
}

func TestTargetsCoverRealizedTuples(t *testing.T) {
	txs, targets, err := Generate(smallParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	type key struct {
		month   dataset.MonthIndex
		channel string
		region  string
	}
	have := make(map[key]bool)
	for _, tg := range targets {
		have[key{tg.Month, tg.Channel, tg.Region}] = true
	}
	for _, tx := range txs {
		k := key{dataset.MonthOf(tx.Date), tx.Channel, tx.Region}
		if !have[k] {
			t.Fatalf("no target row for realized tuple %s/%s/%s", k.month, k.channel, k.region)
		}
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	p := smallParams()
	p.Rows = 0
	if _, _, err := Generate(p); err == nil {
		t.Error("expected error for zero rows")
	}
}
