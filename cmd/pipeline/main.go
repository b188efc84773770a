package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"sales_deepdive/pkg/core/adhoc"
	"sales_deepdive/pkg/core/cohort"
	"sales_deepdive/pkg/core/config"
	"sales_deepdive/pkg/core/dataset"
	"sales_deepdive/pkg/core/indicators"
	"sales_deepdive/pkg/core/pareto"
	"sales_deepdive/pkg/core/report"
	"sales_deepdive/pkg/core/store"
)

func main() {
	dataPath := flag.String("data", "data/sales.csv", "transaction dataset (CSV)")
	targetsPath := flag.String("targets", "data/targets.csv", "monthly target dataset (CSV)")
	outDir := flag.String("out", "outputs", "output directory")
	which := flag.String("report", "all", "report to run: cohort|pareto|adhoc|indicators|all")
	configPath := flag.String("config", "", "optional config file (.yaml/.yml/.hjson/.json)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	switch *which {
	case "all", "cohort", "pareto", "adhoc", "indicators":
	default:
		log.Fatalf("Unknown report %q (want cohort|pareto|adhoc|indicators|all)", *which)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		cfg = loaded
	}

	fmt.Println("🚀 Sales Deep-Dive Pipeline Starting...")

	txs, err := dataset.LoadTransactions(*dataPath)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	if err := dataset.ValidateTransactions(txs); err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
	fmt.Printf("📂 Loaded %d transactions from %s\n", len(txs), *dataPath)

	var targets []dataset.Target
	needTargets := *which == "all" || *which == "indicators"
	if needTargets {
		targets, err = dataset.LoadTargets(*targetsPath)
		if err != nil {
			log.Fatalf("Load failed: %v", err)
		}
		if err := dataset.ValidateTargets(targets); err != nil {
			log.Fatalf("Validation failed: %v", err)
		}
		fmt.Printf("📂 Loaded %d target rows from %s\n", len(targets), *targetsPath)
	}

	ctx := context.Background()
	var repo *store.RunRepo
	if store.Enabled() {
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Database init failed: %v", err)
		}
		defer store.Close()
		repo = store.NewRunRepo()
		fmt.Println("🗄  Run archive enabled")
	}

	run := func(name string) bool { return *which == "all" || *which == name }
	persist := func(name string, warnings []string, payload interface{}) {
		if repo == nil {
			return
		}
		id, err := repo.SaveRun(ctx, name, warnings, payload)
		if err != nil {
			log.Printf("Warning: failed to archive %s run: %v", name, err)
			return
		}
		fmt.Printf("🗄  Archived %s run as %s\n", name, id)
	}

	header("SALES DEEP-DIVE ENGINE - REPORT RUN")

	if run("cohort") {
		matrix, err := cohort.Build(txs)
		if err != nil {
			log.Fatalf("Cohort engine failed: %v", err)
		}
		artifact := report.BuildCohort(matrix)
		writeArtifact(*outDir, artifact)
		persist("cohort", artifact.Warnings, matrix)

		fmt.Println("\n[1] COHORT RETENTION")
		fmt.Printf("Cohorts:             %8d\n", len(matrix.Rows))
		fmt.Printf("Customers:           %8d\n", matrix.Customers)
		fmt.Printf("Latest month:        %8s\n", matrix.LatestMonth)
	}

	if run("pareto") {
		res, err := pareto.Classify(txs, cfg.Pareto)
		if err != nil {
			log.Fatalf("Pareto classifier failed: %v", err)
		}
		artifact := report.BuildPareto(res, cfg.Pareto)
		writeArtifact(*outDir, artifact)
		persist("pareto", artifact.Warnings, res)

		fmt.Println("\n[2] PARETO / ABC CLASSIFICATION")
		for _, tier := range []string{"A", "B", "C"} {
			s := res.Tiers[tier]
			fmt.Printf("Tier %s:  %6d customers  %6.1f%% of revenue\n",
				tier, s.Customers, s.RevenueShare*100)
		}
		printWarnings(res.Check.Warnings)
	}

	if run("adhoc") {
		res, err := adhoc.Investigate(txs, cfg.Adhoc)
		if err != nil {
			log.Fatalf("Ad-hoc investigation failed: %v", err)
		}
		artifact := report.BuildAdhoc(res, cfg.Adhoc)
		writeArtifact(*outDir, artifact)
		persist("adhoc", artifact.Warnings, res)

		fmt.Println("\n[3] AD-HOC INVESTIGATION")
		fmt.Printf("Windows: %s..%s vs %s..%s\n", res.RecentFrom, res.RecentTo, res.PriorFrom, res.PriorTo)
		for i, d := range res.Declines {
			if i >= 3 {
				break
			}
			fmt.Printf("%-20s  delta %12.2f (%.1f%%)\n", d.Product, d.Delta, d.DeltaPct*100)
		}
		printWarnings(res.Check.Warnings)
	}

	if run("indicators") {
		res, err := indicators.Analyze(txs, targets, cfg.Indicators)
		if err != nil {
			log.Fatalf("Gap engine failed: %v", err)
		}
		artifact := report.BuildIndicators(res, cfg.Indicators)
		writeArtifact(*outDir, artifact)
		persist("indicators", artifact.Warnings, res)

		fmt.Println("\n[4] ACTUAL VS TARGET")
		counts := indicators.StatusCounts(res.Dimensional)
		fmt.Printf("Dimensional rows:    %8d\n", len(res.Dimensional))
		fmt.Printf("Above / On / Below:  %d / %d / %d\n",
			counts[indicators.StatusAbove], counts[indicators.StatusOnTarget], counts[indicators.StatusBelow])
		if res.Decomposition.Available {
			fmt.Printf("Decomposition:       %s vs %s, %d channels\n",
				res.Decomposition.CurrMonth, res.Decomposition.PrevMonth, len(res.Decomposition.Effects))
		} else {
			fmt.Println("Decomposition:       unavailable (fewer than two months)")
		}
		printWarnings(res.Check.Warnings)
	}

	fmt.Println("\n[Done] Reports written to", *outDir)
}

func writeArtifact(outDir string, a *report.Artifact) {
	if err := report.Write(outDir, a); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		log.Printf("Warning: %s", w)
	}
}

func header(title string) {
	line := strings.Repeat("#", 80)
	fmt.Println("\n" + line)
	fmt.Printf("%30s%s\n", "", title)
	fmt.Println(line)
}
