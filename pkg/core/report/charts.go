package report

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sales_deepdive/pkg/core/adhoc"
	"sales_deepdive/pkg/core/cohort"
	"sales_deepdive/pkg/core/indicators"
	"sales_deepdive/pkg/core/pareto"
)

// =============================================================================
// HEADLINE CHARTS
// =============================================================================

// retentionGrid adapts a cohort matrix to the heat-map grid interface.
// Undefined (not yet matured) cells surface as NaN, which the heat map
// leaves blank instead of painting as zero churn.
type retentionGrid struct {
	m *cohort.Matrix
}

func (g retentionGrid) Dims() (int, int) { return g.m.MaxAge + 1, len(g.m.Rows) }
func (g retentionGrid) X(c int) float64  { return float64(c) }
func (g retentionGrid) Y(r int) float64  { return float64(r) }
func (g retentionGrid) Z(c, r int) float64 {
	cell := g.m.Rows[r].Retention[c]
	if cell == nil {
		return math.NaN()
	}
	return *cell
}

func cohortChart(m *cohort.Matrix) func(path string) error {
	return func(path string) error {
		p := plot.New()
		p.Title.Text = "Cohort Retention Heat Map"
		p.Title.TextStyle.Font.Size = vg.Points(14)
		p.X.Label.Text = "Age (months since first purchase)"
		p.Y.Label.Text = "Cohort (row index, oldest first)"

		hm := plotter.NewHeatMap(retentionGrid{m}, palette.Heat(12, 1))
		hm.Min, hm.Max = 0, 1
		p.Add(hm)

		return p.Save(12*vg.Inch, 8*vg.Inch, path)
	}
}

func paretoChart(res *pareto.Result) func(path string) error {
	return func(path string) error {
		p := plot.New()
		p.Title.Text = "Cumulative Revenue Share by Customer Rank"
		p.Title.TextStyle.Font.Size = vg.Points(14)
		p.X.Label.Text = "Customer rank (fraction of customers)"
		p.Y.Label.Text = "Cumulative revenue share"
		p.Y.Min, p.Y.Max = 0, 1.05

		pts := make(plotter.XYs, len(res.Entries))
		n := float64(len(res.Entries))
		for i, e := range res.Entries {
			pts[i].X = float64(i+1) / n
			pts[i].Y = e.CumShare
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = color.RGBA{R: 30, G: 100, B: 200, A: 255}
		p.Add(line, plotter.NewGrid())
		p.Legend.Add("cumulative share", line)

		return p.Save(10*vg.Inch, 7*vg.Inch, path)
	}
}

func adhocChart(res *adhoc.Result) func(path string) error {
	return func(path string) error {
		p := plot.New()
		p.Title.Text = "Discount vs Average Ticket"
		p.Title.TextStyle.Font.Size = vg.Points(14)
		p.X.Label.Text = "Discount fraction"
		p.Y.Label.Text = "Ticket (revenue per unit)"

		pts := make(plotter.XYs, len(res.Scatter))
		for i, s := range res.Scatter {
			pts[i].X = s.Discount
			pts[i].Y = s.Ticket
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Radius = vg.Points(2)
		scatter.GlyphStyle.Color = color.RGBA{R: 200, G: 60, B: 60, A: 255}
		p.Add(scatter, plotter.NewGrid())

		return p.Save(10*vg.Inch, 7*vg.Inch, path)
	}
}

// indicatorsChart draws actual vs target bars for the trailing months.
const chartMonths = 12

func indicatorsChart(res *indicators.Result) func(path string) error {
	return func(path string) error {
		monthly := res.Monthly
		if len(monthly) > chartMonths {
			monthly = monthly[len(monthly)-chartMonths:]
		}

		p := plot.New()
		p.Title.Text = "Actual vs Target Revenue by Month"
		p.Title.TextStyle.Font.Size = vg.Points(14)
		p.Y.Label.Text = "Revenue"

		actuals := make(plotter.Values, len(monthly))
		targets := make(plotter.Values, len(monthly))
		labels := make([]string, len(monthly))
		for i, g := range monthly {
			actuals[i] = g.Actual
			targets[i] = g.Target
			labels[i] = g.Month.String()
		}

		w := vg.Points(12)
		actualBars, err := plotter.NewBarChart(actuals, w)
		if err != nil {
			return err
		}
		actualBars.LineStyle.Width = vg.Length(0)
		actualBars.Color = color.RGBA{R: 30, G: 120, B: 60, A: 255}
		actualBars.Offset = -w / 2

		targetBars, err := plotter.NewBarChart(targets, w)
		if err != nil {
			return err
		}
		targetBars.LineStyle.Width = vg.Length(0)
		targetBars.Color = color.RGBA{R: 150, G: 150, B: 150, A: 255}
		targetBars.Offset = w / 2

		p.Add(actualBars, targetBars, plotter.NewGrid())
		p.Legend.Add("actual", actualBars)
		p.Legend.Add("target", targetBars)
		p.Legend.Top = true
		p.NominalX(labels...)

		return p.Save(14*vg.Inch, 7*vg.Inch, path)
	}
}
