package charting

import (
	"fmt"
	"math"
	"strings"

	"chartdeck/internal/dataset"
)

// Series is one named set of values aligned with Figure.X.
type Series struct {
	Name   string
	Values []float64
}

// Figure is a backend independent description of one chart.
type Figure struct {
	Type   ChartType
	Title  string
	XLabel string
	YLabel string
	// X holds the X position of every row. When the X column is not numeric
	// the positions are 0..n-1 and Categories holds the labels.
	X          []float64
	Categories []string
	Series     []Series
	Stacked    bool
}

// buildFigure reads the planned columns from ds. Problems with the data,
// such as a missing column or a non-numeric value, come back as a rejection.
func buildFigure(ds *dataset.Dataset, plan Plan) (*Figure, string) {
	reject := func(format string, args ...any) (*Figure, string) {
		return nil, fmt.Sprintf("%s chart: ", plan.Type) + fmt.Sprintf(format, args...)
	}

	for _, name := range append([]string{plan.X}, plan.Y...) {
		if ds.Index(name) < 0 {
			return reject("column %q not found in the dataset", name)
		}
	}

	fig := &Figure{Type: plan.Type, XLabel: plan.X}
	raw, _ := ds.Column(plan.X)

	switch plan.Type {
	case Bar, Pie:
		fig.X = positions(len(raw))
		fig.Categories = raw
	default:
		if xs, err := ds.Numeric(plan.X); err == nil && finite(xs) {
			fig.X = xs
		} else {
			fig.X = positions(len(raw))
			fig.Categories = raw
		}
	}

	for _, name := range plan.Y {
		values, err := ds.Numeric(name)
		if err != nil {
			return reject("%v", err)
		}
		if !finite(values) {
			return reject("column %q contains values that are not finite", name)
		}
		fig.Series = append(fig.Series, Series{Name: name, Values: values})
	}

	ys := strings.Join(plan.Y, ", ")
	switch plan.Type {
	case Line:
		fig.Title = fmt.Sprintf("Line chart: %s vs %s", ys, plan.X)
		fig.YLabel = ys
	case Scatter:
		fig.Title = fmt.Sprintf("Scatter chart: %s vs %s", ys, plan.X)
		fig.YLabel = ys
	case Area:
		fig.Stacked = plan.Stacked()
		if fig.Stacked {
			fig.Title = fmt.Sprintf("Stacked area chart: %s vs %s", ys, plan.X)
		} else {
			fig.Title = fmt.Sprintf("Area chart: %s vs %s", ys, plan.X)
		}
		fig.YLabel = ys
	case Bar:
		fig.Title = fmt.Sprintf("Bar chart: %s by %s", ys, plan.X)
		fig.YLabel = ys
	case Pie:
		values := fig.Series[0].Values
		total := 0.0
		for _, v := range values {
			if v < 0 {
				return reject("values in %q must not be negative", plan.Y[0])
			}
			total += v
		}
		if total == 0 {
			return reject("values in %q add up to zero", plan.Y[0])
		}
		fig.Title = fmt.Sprintf("Pie chart: %s by %s", ys, plan.X)
		fig.YLabel = ys
	}
	return fig, ""
}

func positions(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// stack returns the running totals of the series, bottom series first.
func stack(series []Series) [][]float64 {
	out := make([][]float64, len(series))
	for i, s := range series {
		out[i] = make([]float64, len(s.Values))
		for j, v := range s.Values {
			if i > 0 {
				v += out[i-1][j]
			}
			out[i][j] = v
		}
	}
	return out
}

// valueRange returns the padded [min, max] over all values. includeZero
// extends the range to the baseline.
func valueRange(includeZero bool, groups ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		for _, v := range g {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if includeZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		return lo - pad, hi + pad
	}
	pad := (hi - lo) * 0.05
	if includeZero && lo == 0 {
		return 0, hi + pad
	}
	return lo - pad, hi + pad
}
