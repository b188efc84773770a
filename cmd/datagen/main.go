package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sales_deepdive/pkg/core/datagen"
)

func main() {
	outDir := flag.String("out", "data", "output directory for the CSV datasets")
	rows := flag.Int("rows", 0, "transaction rows to generate (0 = default)")
	customers := flag.Int("customers", 0, "customer count (0 = default)")
	seed := flag.Int64("seed", 0, "random seed (0 = default)")
	flag.Parse()

	params := datagen.DefaultParams()
	if *rows > 0 {
		params.Rows = *rows
	}
	if *customers > 0 {
		params.Customers = *customers
	}
	if *seed != 0 {
		params.Seed = *seed
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}

	txs, targets, err := datagen.Generate(params)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	salesPath := filepath.Join(*outDir, "sales.csv")
	if err := datagen.WriteSalesCSV(salesPath, txs); err != nil {
		log.Fatalf("Failed to write %s: %v", salesPath, err)
	}
	targetsPath := filepath.Join(*outDir, "targets.csv")
	if err := datagen.WriteTargetsCSV(targetsPath, targets); err != nil {
		log.Fatalf("Failed to write %s: %v", targetsPath, err)
	}

	fmt.Printf("Wrote %d transactions to %s\n", len(txs), salesPath)
	fmt.Printf("Wrote %d target rows to %s\n", len(targets), targetsPath)
}
