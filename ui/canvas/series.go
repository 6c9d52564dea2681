package canvas

import (
	"fmt"
	"image"
	"math"

	"nibra-chart/internal/config"
	"nibra-chart/internal/marketdata"
	"nibra-chart/pkg/colorutil"
)

const (
	barSpacing     = 8
	priceAxisWidth = 64
	gridLevels     = 6
	rangePadding   = 0.08
)

// viewport maps visible bars and prices to canvas pixels.
type viewport struct {
	width, height float64
	first, count  int
	low, high     float64
}

// newViewport fits the most recent bars into a width x height canvas.
func newViewport(bars []marketdata.Candle, price float64, width, height float64) viewport {
	v := viewport{width: width, height: height}
	if len(bars) == 0 || width <= priceAxisWidth || height <= 0 {
		return v
	}

	v.count = int((width - priceAxisWidth) / barSpacing)
	if v.count > len(bars) {
		v.count = len(bars)
	}
	v.first = len(bars) - v.count

	v.low, v.high = marketdata.Range(bars[v.first:])
	if price > 0 {
		v.low = math.Min(v.low, price)
		v.high = math.Max(v.high, price)
	}
	pad := (v.high - v.low) * rangePadding
	if pad == 0 {
		pad = math.Max(v.high*0.001, 1e-6)
	}
	v.low -= pad
	v.high += pad
	return v
}

func (v viewport) valid() bool {
	return v.count > 0 && v.high > v.low
}

// plotWidth is the width left of the price axis.
func (v viewport) plotWidth() float64 {
	return v.width - priceAxisWidth
}

// priceY returns the canvas y of a price.
func (v viewport) priceY(p float64) float64 {
	return (v.high - p) / (v.high - v.low) * v.height
}

// yPrice is the inverse of priceY.
func (v viewport) yPrice(y float64) float64 {
	return v.high - y/v.height*(v.high-v.low)
}

// barX returns the center x of the i-th visible bar.
func (v viewport) barX(i int) float64 {
	return float64(i)*barSpacing + barSpacing/2
}

// drawSeries paints grid, bars, live price line and legend.
func drawSeries(output *image.RGBA, v viewport, bars []marketdata.Candle, price float64, ct marketdata.ChartType, s config.ChartSettings, legend string) {
	text := colorutil.HexOr(s.Text, colorutil.Black)
	if !v.valid() {
		drawText(output, legend, 8, 16, text)
		return
	}
	drawGrid(output, v, s)

	visible := bars[v.first : v.first+v.count]
	switch ct {
	case marketdata.ChartCandle:
		drawCandles(output, v, visible, s)
	case marketdata.ChartBar:
		drawBars(output, v, visible, s)
	case marketdata.ChartLine:
		drawCloseLine(output, v, visible, false)
	default:
		drawCloseLine(output, v, visible, true)
	}

	if price > 0 {
		y := round(v.priceY(price))
		drawLine(output, 0, y, round(v.plotWidth()), y, colorutil.Accent, 1, []float64{3, 3})
		label := formatPrice(price)
		x := v.plotWidth() + 2
		fillRect(output, round(x), y-8, round(x+textWidth(label)+6), y+7, colorutil.Accent)
		drawText(output, label, x+3, float64(y)+4, colorutil.White)
	}

	drawText(output, legend, 8, 16, text)
}

func drawGrid(output *image.RGBA, v viewport, s config.ChartSettings) {
	grid := colorutil.HexOr(s.Grid, colorutil.Gray)
	text := colorutil.HexOr(s.Text, colorutil.Black)
	plotW := round(v.plotWidth())

	step := (v.high - v.low) / gridLevels
	for i := 1; i < gridLevels; i++ {
		p := v.low + float64(i)*step
		y := round(v.priceY(p))
		drawLine(output, 0, y, plotW, y, grid, 1, nil)
		drawText(output, formatPrice(p), v.plotWidth()+5, float64(y)+4, text)
	}
	for i := 0; i < v.count; i += 10 {
		x := round(v.barX(i))
		drawLine(output, x, 0, x, round(v.height), grid, 1, nil)
	}
	drawLine(output, plotW, 0, plotW, round(v.height), grid, 1, nil)
}

func drawCandles(output *image.RGBA, v viewport, bars []marketdata.Candle, s config.ChartSettings) {
	up := colorutil.HexOr(s.CandleUp, colorutil.Profit)
	down := colorutil.HexOr(s.CandleDown, colorutil.Loss)
	wickUp := colorutil.HexOr(s.WickUp, colorutil.Profit)
	wickDown := colorutil.HexOr(s.WickDown, colorutil.Loss)

	for i, c := range bars {
		x := round(v.barX(i))
		body, wick := down, wickDown
		if c.Up() {
			body, wick = up, wickUp
		}
		drawLine(output, x, round(v.priceY(c.High)), x, round(v.priceY(c.Low)), wick, 1, nil)

		top := round(v.priceY(math.Max(c.Open, c.Close)))
		bottom := round(v.priceY(math.Min(c.Open, c.Close)))
		if bottom == top {
			bottom++
		}
		fillRect(output, x-barSpacing/2+1, top, x+barSpacing/2, bottom, body)
	}
}

func drawBars(output *image.RGBA, v viewport, bars []marketdata.Candle, s config.ChartSettings) {
	up := colorutil.HexOr(s.CandleUp, colorutil.Profit)
	down := colorutil.HexOr(s.CandleDown, colorutil.Loss)

	for i, c := range bars {
		x := round(v.barX(i))
		col := down
		if c.Up() {
			col = up
		}
		drawLine(output, x, round(v.priceY(c.High)), x, round(v.priceY(c.Low)), col, 1, nil)
		yo, yc := round(v.priceY(c.Open)), round(v.priceY(c.Close))
		drawLine(output, x-barSpacing/2+1, yo, x, yo, col, 1, nil)
		drawLine(output, x, yc, x+barSpacing/2-1, yc, col, 1, nil)
	}
}

// drawCloseLine connects the closes; area mode also shades below the line.
func drawCloseLine(output *image.RGBA, v viewport, bars []marketdata.Candle, area bool) {
	shade := colorutil.WithAlpha(colorutil.Accent, 0.15)
	bottom := round(v.height)

	for i := 1; i < len(bars); i++ {
		x1, y1 := v.barX(i-1), v.priceY(bars[i-1].Close)
		x2, y2 := v.barX(i), v.priceY(bars[i].Close)
		if area {
			for x := round(x1); x < round(x2); x++ {
				t := (float64(x) - x1) / (x2 - x1)
				fillRect(output, x, round(y1+(y2-y1)*t), x+1, bottom, shade)
			}
		}
		drawLine(output, round(x1), round(y1), round(x2), round(y2), colorutil.Accent, 2, nil)
	}
}

// formatPrice picks decimals by magnitude so FX and index prices both read.
func formatPrice(p float64) string {
	switch {
	case p < 10:
		return fmt.Sprintf("%.4f", p)
	case p < 1000:
		return fmt.Sprintf("%.2f", p)
	default:
		return fmt.Sprintf("%.1f", p)
	}
}

// legendText is the top-left legend line.
func legendText(symbol string, tf marketdata.Timeframe, q marketdata.Quote) string {
	return fmt.Sprintf("%s  %s  O %s  H %s  L %s  C %s",
		symbol, tf, formatPrice(q.Open), formatPrice(q.High), formatPrice(q.Low), formatPrice(q.Close))
}
