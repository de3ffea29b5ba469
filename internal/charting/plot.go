package charting

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// Plotter draws a figure and returns the encoded PNG.
type Plotter interface {
	Plot(fig *Figure) ([]byte, error)
}

// GoChartPlotter draws figures with go-chart. It holds no state; every call
// builds and discards its own renderer.
type GoChartPlotter struct{}

// NewPlotter returns the default PNG plotter.
func NewPlotter() GoChartPlotter {
	return GoChartPlotter{}
}

func (GoChartPlotter) Plot(fig *Figure) ([]byte, error) {
	switch fig.Type {
	case Bar:
		return plotBar(fig)
	case Pie:
		return plotPie(fig)
	case Line, Scatter, Area:
		return plotXY(fig)
	default:
		return nil, fmt.Errorf("no plotter for chart type %q", fig.Type)
	}
}

func plotXY(fig *Figure) ([]byte, error) {
	values := make([][]float64, len(fig.Series))
	for i, s := range fig.Series {
		values[i] = s.Values
	}
	if fig.Stacked {
		values = stack(fig.Series)
	}

	series := make([]chart.Series, 0, len(fig.Series))
	for i, s := range fig.Series {
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: fig.X,
			YValues: values[i],
			Style:   seriesStyle(fig.Type, i),
		})
	}
	if fig.Stacked {
		// Higher totals are drawn first so each lower band stays visible.
		for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
			series[i], series[j] = series[j], series[i]
		}
	}

	xMin, xMax := valueRange(false, fig.X)
	if fig.Categories != nil {
		xMin, xMax = -0.5, float64(len(fig.X))-0.5
	}
	yMin, yMax := valueRange(fig.Type == Area, values...)

	c := chart.Chart{
		Title:      fig.Title,
		Width:      figureWidth,
		Height:     figureHeight,
		Background: backgroundStyle(),
		XAxis: chart.XAxis{
			Name:           fig.XLabel,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks:          categoryTicks(fig.Categories),
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Name:           fig.YLabel,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			GridMajorStyle: gridStyle(),
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", fig.Type, err)
	}
	return buf.Bytes(), nil
}

func seriesStyle(t ChartType, i int) chart.Style {
	color := seriesColor(i)
	switch t {
	case Scatter:
		return chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    5,
			DotColor:    color,
		}
	case Area:
		return chart.Style{
			StrokeColor: color,
			StrokeWidth: 1.5,
			FillColor:   color.WithAlpha(200),
		}
	default:
		return chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
		}
	}
}

// categoryTicks labels positions 0..n-1, thinning the labels for long axes.
func categoryTicks(categories []string) []chart.Tick {
	if categories == nil {
		return nil
	}
	step := 1
	if len(categories) > maxCategoryTicks {
		step = int(math.Ceil(float64(len(categories)) / maxCategoryTicks))
	}
	ticks := make([]chart.Tick, 0, len(categories)/step+1)
	for i := 0; i < len(categories); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: categories[i]})
	}
	return ticks
}

func plotBar(fig *Figure) ([]byte, error) {
	values := fig.Series[0].Values
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: fig.Categories[i],
			Value: v,
			Style: chart.Style{
				FillColor:   seriesColor(0),
				StrokeColor: seriesColor(0),
				StrokeWidth: 1,
			},
		}
	}
	yMin, yMax := valueRange(true, values)

	barWidth := (figureWidth - 200) * 2 / (3 * len(bars))
	barWidth = max(2, min(barWidth, 80))

	background := backgroundStyle()
	background.Padding.Left += 40
	background.Padding.Bottom += 36

	c := chart.BarChart{
		Title:        fig.Title,
		Width:        figureWidth,
		Height:       figureHeight,
		Background:   background,
		BarWidth:     barWidth,
		BarSpacing:   max(1, barWidth/2),
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			GridMajorStyle: gridStyle(),
		},
		Elements: []chart.Renderable{
			axisCaption(fig.XLabel, false),
			axisCaption(fig.YLabel, true),
		},
	}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// axisCaption writes an axis name outside the plot box. The bar chart has no
// axis titles of its own.
func axisCaption(text string, vertical bool) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		if text == "" {
			return
		}
		if defaults.Font != nil {
			r.SetFont(defaults.Font)
		}
		if vertical {
			drawVerticalCaption(r, text, box.Left-48, box.Top+box.Height()/2)
			return
		}
		r.SetFontColor(textColor)
		r.SetFontSize(12)
		size := r.MeasureText(text)
		r.Text(text, box.Left+(box.Width()-size.Width())/2, box.Bottom+44)
	}
}
