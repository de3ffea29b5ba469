// Package charting turns a dataset, a chart type and a column selection into
// a PNG image or a human readable rejection.
package charting

import (
	"fmt"
	"strings"
)

// ChartType names a supported rendering strategy.
type ChartType string

const (
	Line    ChartType = "line"
	Bar     ChartType = "bar"
	Pie     ChartType = "pie"
	Scatter ChartType = "scatter"
	Area    ChartType = "area"
	Radar   ChartType = "radar"
)

// ColumnSelection is the column choice sent with a chart request. For pie
// charts Category and Value are used; when both are empty X and Y are read
// as category and value.
type ColumnSelection struct {
	X        []string `json:"x_column"`
	Y        []string `json:"y_columns"`
	Category []string `json:"category_column,omitempty"`
	Value    []string `json:"value_column,omitempty"`
}

// Plan is a validated selection, normalized for one chart type.
type Plan struct {
	Type ChartType
	// X is the X axis column, or the category column for pie.
	X string
	// Y holds the value columns in request order. Pie has exactly one.
	Y []string
}

// Stacked reports whether an area plan draws stacked series.
func (p Plan) Stacked() bool {
	return p.Type == Area && len(p.Y) > 1
}

// Validate checks the selection against the shape the chart type needs. On
// failure the returned plan is zero and the message says what is wrong; the
// message always contains the requested chart type.
func Validate(chartType string, sel ColumnSelection) (Plan, string) {
	name := strings.ToLower(strings.TrimSpace(chartType))
	x := clean(sel.X)
	y := clean(sel.Y)

	switch ChartType(name) {
	case Line, Scatter, Area:
		t := ChartType(name)
		switch {
		case len(x) == 0:
			return Plan{}, fmt.Sprintf("%s chart needs one column for the X axis", name)
		case len(x) > 1:
			return Plan{}, fmt.Sprintf("%s chart accepts only one X axis column, got %d", name, len(x))
		case len(y) == 0:
			return Plan{}, fmt.Sprintf("%s chart needs at least one column for the Y axis", name)
		}
		return Plan{Type: t, X: x[0], Y: y}, ""

	case Bar:
		if len(x) != 1 || len(y) != 1 {
			return Plan{}, fmt.Sprintf("bar chart needs exactly one categorical X column and one numeric Y column, got %d and %d", len(x), len(y))
		}
		return Plan{Type: Bar, X: x[0], Y: y}, ""

	case Pie:
		category := clean(sel.Category)
		value := clean(sel.Value)
		if len(category) == 0 && len(value) == 0 {
			category, value = x, y
		}
		if len(category) != 1 || len(value) != 1 {
			return Plan{}, fmt.Sprintf("pie chart needs exactly one category column and one value column, got %d and %d", len(category), len(value))
		}
		return Plan{Type: Pie, X: category[0], Y: value}, ""

	case Radar:
		return Plan{}, "radar chart is not yet implemented"

	default:
		return Plan{}, fmt.Sprintf("unknown chart type %q", chartType)
	}
}

func clean(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
