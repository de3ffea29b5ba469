package charting

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Figure size shared by every chart type.
const (
	figureWidth  = 1280
	figureHeight = 720
)

var (
	backgroundColor = drawing.ColorWhite
	gridColor       = drawing.ColorFromHex("e5e5e5")
	textColor       = drawing.ColorFromHex("333333")

	palette = []drawing.Color{
		drawing.ColorFromHex("1f77b4"),
		drawing.ColorFromHex("ff7f0e"),
		drawing.ColorFromHex("2ca02c"),
		drawing.ColorFromHex("d62728"),
		drawing.ColorFromHex("9467bd"),
		drawing.ColorFromHex("8c564b"),
		drawing.ColorFromHex("e377c2"),
		drawing.ColorFromHex("7f7f7f"),
		drawing.ColorFromHex("bcbd22"),
		drawing.ColorFromHex("17becf"),
	}
)

func seriesColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

func backgroundStyle() chart.Style {
	return chart.Style{
		FillColor: backgroundColor,
		Padding:   chart.Box{Top: 48, Left: 24, Right: 32, Bottom: 24},
	}
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: gridColor,
		StrokeWidth: 1,
	}
}

// maxCategoryTicks caps the number of labelled category ticks on the X axis.
const maxCategoryTicks = 30
