package report

import (
	"fmt"
	"strings"

	"sales_deepdive/pkg/core/adhoc"
	"sales_deepdive/pkg/core/cohort"
	"sales_deepdive/pkg/core/indicators"
	"sales_deepdive/pkg/core/pareto"
	"sales_deepdive/pkg/core/utils"
)

// =============================================================================
// REPORT BUILDERS
// =============================================================================
// One builder per analysis. Each shapes the engine result into the three
// tables the renderer knows how to write, composes the markdown executive
// summary and binds the headline chart.

// undefinedCell marks retention cells the cohort has not matured into.
const undefinedCell = "-"

// BuildCohort shapes a retention matrix into a report artifact.
func BuildCohort(m *cohort.Matrix) *Artifact {
	// Summary: one line per cohort with base size and early retention.
	summary := Table{
		Title:   "Cohort overview",
		Columns: []string{"cohort", "base_size", "ret_m1", "ret_m3", "ret_m6"},
	}
	for _, row := range m.Rows {
		summary.Rows = append(summary.Rows, []string{
			row.Cohort.String(),
			fmt.Sprintf("%d", row.BaseSize),
			retentionCell(row, 1),
			retentionCell(row, 3),
			retentionCell(row, 6),
		})
	}

	// Detail: the full cohort x age matrix.
	detail := Table{Title: "Retention matrix", Columns: []string{"cohort"}}
	for age := 0; age <= m.MaxAge; age++ {
		detail.Columns = append(detail.Columns, fmt.Sprintf("m%d", age))
	}
	for _, row := range m.Rows {
		cells := []string{row.Cohort.String()}
		for age := 0; age <= m.MaxAge; age++ {
			cells = append(cells, retentionCell(row, age))
		}
		detail.Rows = append(detail.Rows, cells)
	}

	params := Table{
		Title:   "Parameters",
		Columns: []string{"parameter", "value"},
		Rows: paramRows(
			[2]string{"cohorts", fmt.Sprintf("%d", len(m.Rows))},
			[2]string{"customers", fmt.Sprintf("%d", m.Customers)},
			[2]string{"latest_month", m.LatestMonth.String()},
			[2]string{"max_age", fmt.Sprintf("%d", m.MaxAge)},
			[2]string{"undefined_cell_marker", undefinedCell},
		),
	}

	var b strings.Builder
	b.WriteString("# Cohort Retention\n\n")
	fmt.Fprintf(&b, "%d cohorts covering %d customers, observed through %s.\n\n",
		len(m.Rows), m.Customers, m.LatestMonth)
	b.WriteString("Undefined cells (`-`) mean the cohort has not yet reached that age; ")
	b.WriteString("they are not zero retention.\n\n")
	b.WriteString(utils.MarkdownTable(summary.Columns, summary.Rows))

	return &Artifact{
		Name:        "01_cohort_retention",
		Title:       "Cohort Retention",
		SummaryText: b.String(),
		Summary:     summary,
		Detail:      detail,
		Parameters:  params,
		RenderChart: cohortChart(m),
	}
}

func retentionCell(row cohort.Row, age int) string {
	if age < 0 || age >= len(row.Retention) || row.Retention[age] == nil {
		return undefinedCell
	}
	return fmt.Sprintf("%.4f", *row.Retention[age])
}

// BuildPareto shapes an ABC classification into a report artifact.
func BuildPareto(res *pareto.Result, cfg pareto.Config) *Artifact {
	summary := Table{
		Title:   "Tier overview",
		Columns: []string{"tier", "customers", "revenue", "revenue_share"},
	}
	for _, tier := range []string{"A", "B", "C"} {
		s := res.Tiers[tier]
		summary.Rows = append(summary.Rows, []string{
			tier,
			fmt.Sprintf("%d", s.Customers),
			utils.FormatMoney(s.Revenue),
			utils.FormatPct(s.RevenueShare),
		})
	}

	detail := Table{
		Title:   "Ranked customers",
		Columns: []string{"rank", "customer_id", "revenue", "share", "cum_share", "tier"},
	}
	for _, e := range res.Entries {
		detail.Rows = append(detail.Rows, []string{
			fmt.Sprintf("%d", e.Rank),
			fmt.Sprintf("%d", e.CustomerID),
			utils.FormatMoney(e.Revenue),
			fmt.Sprintf("%.6f", e.Share),
			fmt.Sprintf("%.6f", e.CumShare),
			e.Tier,
		})
	}

	params := Table{
		Title:   "Parameters",
		Columns: []string{"parameter", "value"},
		Rows: paramRows(
			[2]string{"a_cut", fmt.Sprintf("%.2f", cfg.ACut)},
			[2]string{"b_cut", fmt.Sprintf("%.2f", cfg.BCut)},
			[2]string{"customers", fmt.Sprintf("%d", len(res.Entries))},
			[2]string{"total_revenue", utils.FormatMoney(res.TotalRevenue)},
		),
	}

	var b strings.Builder
	b.WriteString("# Pareto / ABC Revenue Classification\n\n")
	fmt.Fprintf(&b, "Total revenue %s across %d customers.\n\n",
		utils.FormatMoney(res.TotalRevenue), len(res.Entries))
	a := res.Tiers["A"]
	fmt.Fprintf(&b, "Tier A: %d customers (%s of revenue) inside the %.0f%% cut.\n\n",
		a.Customers, utils.FormatPct(a.RevenueShare), cfg.ACut*100)
	b.WriteString(utils.MarkdownTable(summary.Columns, summary.Rows))
	writeWarnings(&b, res.Check.Warnings)

	return &Artifact{
		Name:        "02_pareto_abc",
		Title:       "Pareto / ABC Classification",
		SummaryText: b.String(),
		Summary:     summary,
		Detail:      detail,
		Parameters:  params,
		Warnings:    res.Check.Warnings,
		RenderChart: paretoChart(res),
	}
}

// BuildAdhoc shapes the ad-hoc investigation into a report artifact.
func BuildAdhoc(res *adhoc.Result, cfg adhoc.Config) *Artifact {
	summary := Table{
		Title:   "Top revenue declines (monthly average)",
		Columns: []string{"product", "prior_avg", "recent_avg", "delta", "delta_pct"},
	}
	for _, d := range res.Declines {
		summary.Rows = append(summary.Rows, []string{
			d.Product,
			utils.FormatMoney(d.PriorAvg),
			utils.FormatMoney(d.RecentAvg),
			utils.FormatMoney(d.Delta),
			utils.FormatPct(d.DeltaPct),
		})
	}

	detail := Table{
		Title:   "Discount bands",
		Columns: []string{"band", "transactions", "revenue", "avg_ticket", "avg_discount"},
	}
	for _, band := range res.Bands {
		detail.Rows = append(detail.Rows, []string{
			band.Label,
			fmt.Sprintf("%d", band.Transactions),
			utils.FormatMoney(band.Revenue),
			utils.FormatMoney(band.AvgTicket),
			utils.FormatPct(band.AvgDiscount),
		})
	}

	params := Table{
		Title:   "Parameters",
		Columns: []string{"parameter", "value"},
		Rows: paramRows(
			[2]string{"recent_window", fmt.Sprintf("%s..%s", res.RecentFrom, res.RecentTo)},
			[2]string{"prior_window", fmt.Sprintf("%s..%s", res.PriorFrom, res.PriorTo)},
			[2]string{"recent_months", fmt.Sprintf("%d", cfg.RecentMonths)},
			[2]string{"prior_months", fmt.Sprintf("%d", cfg.PriorMonths)},
			[2]string{"top_n", fmt.Sprintf("%d", cfg.TopN)},
		),
	}

	var b strings.Builder
	b.WriteString("# Ad-hoc Investigation\n\n")
	fmt.Fprintf(&b, "Comparing %s..%s against %s..%s on a monthly-average basis.\n\n",
		res.RecentFrom, res.RecentTo, res.PriorFrom, res.PriorTo)
	b.WriteString(utils.MarkdownTable(summary.Columns, summary.Rows))
	b.WriteString("\n## Discount bands\n\n")
	b.WriteString(utils.MarkdownTable(detail.Columns, detail.Rows))
	writeWarnings(&b, res.Check.Warnings)

	return &Artifact{
		Name:        "03_adhoc_investigation",
		Title:       "Ad-hoc Investigation",
		SummaryText: b.String(),
		Summary:     summary,
		Detail:      detail,
		Parameters:  params,
		Warnings:    res.Check.Warnings,
		RenderChart: adhocChart(res),
	}
}

// BuildIndicators shapes the gap analysis into a report artifact.
func BuildIndicators(res *indicators.Result, cfg indicators.Config) *Artifact {
	summary := Table{
		Title:   "Monthly actual vs target",
		Columns: []string{"month", "actual", "target", "gap", "gap_ratio", "status"},
	}
	for _, g := range res.Monthly {
		summary.Rows = append(summary.Rows, []string{
			g.Month.String(),
			utils.FormatMoney(g.Actual),
			utils.FormatMoney(g.Target),
			utils.FormatMoney(g.Gap),
			utils.FormatPct(g.GapRatio),
			string(g.Status),
		})
	}

	detail := Table{
		Title:   "Dimensional gaps",
		Columns: []string{"month", "channel", "region", "actual", "target", "gap_ratio", "status", "target_missing"},
	}
	for _, g := range res.Dimensional {
		detail.Rows = append(detail.Rows, []string{
			g.Month.String(),
			g.Channel,
			g.Region,
			utils.FormatMoney(g.Actual),
			utils.FormatMoney(g.Target),
			utils.FormatPct(g.GapRatio),
			string(g.Status),
			fmt.Sprintf("%t", g.TargetMissing),
		})
	}

	params := Table{
		Title:   "Parameters",
		Columns: []string{"parameter", "value"},
		Rows: paramRows(
			[2]string{"tolerance", fmt.Sprintf("%.4f", cfg.Tolerance)},
			[2]string{"months", fmt.Sprintf("%d", len(res.Monthly))},
			[2]string{"dimensional_rows", fmt.Sprintf("%d", len(res.Dimensional))},
			[2]string{"decomposition_available", fmt.Sprintf("%t", res.Decomposition.Available)},
		),
	}

	var b strings.Builder
	b.WriteString("# Actual vs Target\n\n")
	counts := indicators.StatusCounts(res.Dimensional)
	fmt.Fprintf(&b, "Dimensional rows: %d above, %d on target, %d below (tolerance %.1f%%).\n\n",
		counts[indicators.StatusAbove], counts[indicators.StatusOnTarget],
		counts[indicators.StatusBelow], cfg.Tolerance*100)
	b.WriteString(utils.MarkdownTable(summary.Columns, summary.Rows))

	if res.Decomposition.Available {
		fmt.Fprintf(&b, "\n## Revenue delta decomposition (%s vs %s)\n\n",
			res.Decomposition.CurrMonth, res.Decomposition.PrevMonth)
		cols := []string{"channel", "volume_effect", "price_effect", "cross_effect", "delta"}
		var rows [][]string
		for _, e := range res.Decomposition.Effects {
			rows = append(rows, []string{
				e.Channel,
				utils.FormatMoney(e.VolumeEffect),
				utils.FormatMoney(e.PriceEffect),
				utils.FormatMoney(e.CrossEffect),
				utils.FormatMoney(e.Delta),
			})
		}
		b.WriteString(utils.MarkdownTable(cols, rows))
	} else {
		b.WriteString("\nDecomposition unavailable: fewer than two months of data.\n")
	}
	writeWarnings(&b, res.Check.Warnings)

	return &Artifact{
		Name:        "04_target_gaps",
		Title:       "Actual vs Target",
		SummaryText: b.String(),
		Summary:     summary,
		Detail:      detail,
		Parameters:  params,
		Warnings:    res.Check.Warnings,
		RenderChart: indicatorsChart(res),
	}
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n## Advisories\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
}
