package charting

import (
	"bytes"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
)

var hundred = decimal.NewFromInt(100)

// percentLabel formats a wedge label with its share rounded to one decimal.
func percentLabel(category string, value, total float64) string {
	share := decimal.NewFromFloat(value).Div(decimal.NewFromFloat(total)).Mul(hundred)
	return fmt.Sprintf("%s (%s%%)", category, share.StringFixed(1))
}

// plotPie draws one wedge per row. The first wedge starts at twelve o'clock
// and the wedges follow clockwise in row order.
func plotPie(fig *Figure) ([]byte, error) {
	values := fig.Series[0].Values
	total := 0.0
	for _, v := range values {
		total += v
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r, err := chart.PNG(figureWidth, figureHeight)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	r.SetFont(font)

	r.SetFillColor(backgroundColor)
	r.MoveTo(0, 0)
	r.LineTo(figureWidth, 0)
	r.LineTo(figureWidth, figureHeight)
	r.LineTo(0, figureHeight)
	r.Close()
	r.Fill()

	r.SetFontColor(textColor)
	r.SetFontSize(16)
	title := r.MeasureText(fig.Title)
	r.Text(fig.Title, (figureWidth-title.Width())/2, 36)

	cx, cy := figureWidth/2, figureHeight/2+20
	radius := float64(figureHeight)/2 - 110

	type wedge struct {
		label string
		mid   float64
	}
	wedges := make([]wedge, 0, len(values))

	angle := -math.Pi / 2
	for i, v := range values {
		if v == 0 {
			continue
		}
		delta := v / total * 2 * math.Pi
		r.SetFillColor(seriesColor(i))
		r.SetStrokeColor(backgroundColor)
		r.SetStrokeWidth(2)
		r.MoveTo(cx, cy)
		r.ArcTo(cx, cy, radius, radius, angle, delta)
		r.LineTo(cx, cy)
		r.Close()
		r.FillStroke()

		wedges = append(wedges, wedge{
			label: percentLabel(fig.Categories[i], v, total),
			mid:   angle + delta/2,
		})
		angle += delta
	}

	r.SetFontSize(11)
	r.SetFontColor(textColor)
	for _, w := range wedges {
		size := r.MeasureText(w.label)
		x := cx + int((radius+18)*math.Cos(w.mid))
		y := cy + int((radius+18)*math.Sin(w.mid))
		if math.Cos(w.mid) < 0 {
			x -= size.Width()
		}
		if math.Sin(w.mid) > 0 {
			y += size.Height()
		}
		r.Text(w.label, x, y)
	}

	drawVerticalCaption(r, fig.YLabel, 40, cy)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

func drawVerticalCaption(r chart.Renderer, text string, x, centerY int) {
	if text == "" {
		return
	}
	r.SetFontSize(12)
	r.SetFontColor(textColor)
	size := r.MeasureText(text)
	r.SetTextRotation(3 * math.Pi / 2)
	r.Text(text, x, centerY+size.Width()/2)
	r.ClearTextRotation()
}
