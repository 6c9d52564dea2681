package marketdata

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

var log = logrus.WithField("component", "marketdata")

// DefaultBars is the number of bars in a generated series.
const DefaultBars = 1000

// Candle is one OHLC bar. Time is the bar open in Unix seconds.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Up reports whether the bar closed at or above its open.
func (c Candle) Up() bool {
	return c.Close >= c.Open
}

var basePrices = []struct {
	markers []string
	price   float64
}{
	{[]string{"EUR"}, 1.0842},
	{[]string{"GBP"}, 1.2612},
	{[]string{"JPY"}, 151.42},
	{[]string{"AUD"}, 0.6540},
	{[]string{"BTC"}, 64230},
	{[]string{"ETH"}, 3450},
	{[]string{"XAU", "GOLD"}, 2350},
	{[]string{"SPX", "US500"}, 5200},
}

// BasePrice returns the starting price for a symbol, matched by the first
// known marker the symbol contains.
func BasePrice(symbol string) float64 {
	for _, bp := range basePrices {
		for _, m := range bp.markers {
			if strings.Contains(symbol, m) {
				return bp.price
			}
		}
	}
	return 100
}

// Generator produces random-walk series and ticks. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. Equal seeds produce equal series.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Series generates bars bars of symbol ending at end.
func (g *Generator) Series(symbol string, tf Timeframe, bars int, end time.Time) []Candle {
	g.mu.Lock()
	defer g.mu.Unlock()

	interval := tf.Seconds()
	start := end.Unix() - int64(bars)*interval
	price := BasePrice(symbol)
	vol := price * 0.00005 * tf.Volatility()

	out := make([]Candle, bars)
	for i := range out {
		open := price
		last := open + (g.rng.Float64()-0.5)*vol*2
		out[i] = Candle{
			Time:  start + int64(i)*interval,
			Open:  open,
			Close: last,
			High:  math.Max(open, last) + g.rng.Float64()*vol,
			Low:   math.Min(open, last) - g.rng.Float64()*vol,
		}
		price = last
	}
	log.Debugf("generated %d %s bars for %s", bars, tf, symbol)
	return out
}

// Tick returns the next live price after prev: a move far smaller than a
// bar, scaled by the square root of the bar volatility.
func (g *Generator) Tick(prev float64, tf Timeframe) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	micro := prev * 0.00001 * math.Sqrt(tf.Volatility())
	return prev + (g.rng.Float64()-0.5)*micro
}

// PriceSource reports the price to walk from and the timeframe that scales
// the move.
type PriceSource func() (float64, Timeframe)

// Run ticks every interval until ctx is done. Each tick walks from the
// price source's current value and hands prev and next to fn, so a series
// switched between ticks is picked up on the next one.
func (g *Generator) Run(ctx context.Context, interval time.Duration, source PriceSource, fn func(prev, next float64)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prev, tf := source()
			fn(prev, g.Tick(prev, tf))
		}
	}
}

// Range returns the lowest low and highest high of the bars.
func Range(bars []Candle) (low, high float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	lows := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	for i, c := range bars {
		lows[i] = c.Low
		highs[i] = c.High
	}
	return floats.Min(lows), floats.Max(highs)
}

// Closes returns the close prices of the bars.
func Closes(bars []Candle) []float64 {
	out := make([]float64, len(bars))
	for i, c := range bars {
		out[i] = c.Close
	}
	return out
}

// Quote is the legend's view of the live price.
type Quote struct {
	Open, High, Low, Close float64
}

// QuoteAt builds the legend quote around a live price with a fixed
// +/-0.05% band.
func QuoteAt(price float64) Quote {
	return Quote{Open: price, High: price * 1.0005, Low: price * 0.9995, Close: price}
}
