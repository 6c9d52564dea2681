package marketdata

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasePrice(t *testing.T) {
	tests := []struct {
		symbol string
		want   float64
	}{
		{"EURUSD", 1.0842},
		{"GBPJPY", 1.2612},
		{"USDJPY", 151.42},
		{"BTCUSDT", 64230},
		{"XAUUSD", 2350},
		{"GOLD", 2350},
		{"US500", 5200},
		{"DX1!", 100},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, BasePrice(tt.symbol), "BasePrice(%q)", tt.symbol)
	}
}

func TestTimeframe(t *testing.T) {
	assert.Equal(t, int64(1800), TF30m.Seconds())
	assert.Equal(t, 7*24*time.Hour, TF1W.Duration())
	assert.Equal(t, 37.9, TF1D.Volatility())
	assert.True(t, TF4h.Intraday())
	assert.False(t, TF1D.Intraday())

	assert.Equal(t, int64(3600), Timeframe("2h").Seconds())
	assert.Equal(t, 10.0, Timeframe("2h").Volatility())

	tf, err := ParseTimeframe("15m")
	require.NoError(t, err)
	assert.Equal(t, TF15m, tf)
	_, err = ParseTimeframe("2h")
	assert.Error(t, err)

	ct, err := ParseChartType("Bar")
	require.NoError(t, err)
	assert.Equal(t, ChartBar, ct)
	_, err = ParseChartType("Renko")
	assert.Error(t, err)
}

func TestGenerator_Series(t *testing.T) {
	end := time.Unix(1_700_000_000, 0)
	bars := NewGenerator(1).Series("EURUSD", TF5m, DefaultBars, end)
	require.Len(t, bars, DefaultBars)

	assert.Equal(t, 1.0842, bars[0].Open)
	assert.Equal(t, end.Unix()-DefaultBars*300, bars[0].Time)
	for i, c := range bars {
		assert.GreaterOrEqual(t, c.High, math.Max(c.Open, c.Close))
		assert.LessOrEqual(t, c.Low, math.Min(c.Open, c.Close))
		if i > 0 {
			assert.Equal(t, bars[i-1].Close, c.Open)
			assert.Equal(t, int64(300), c.Time-bars[i-1].Time)
		}
	}

	again := NewGenerator(1).Series("EURUSD", TF5m, DefaultBars, end)
	assert.Equal(t, bars, again)
}

func TestGenerator_Tick(t *testing.T) {
	g := NewGenerator(7)
	price := 100.0
	for i := 0; i < 100; i++ {
		next := g.Tick(price, TF1m)
		assert.LessOrEqual(t, math.Abs(next-price), price*0.00001/2+1e-12)
		price = next
	}
}

func TestGenerator_Run(t *testing.T) {
	g := NewGenerator(3)
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan [2]float64, 16)

	source := func() (float64, Timeframe) { return 50, TF1h }
	done := make(chan struct{})
	go func() {
		g.Run(ctx, time.Millisecond, source, func(prev, next float64) {
			select {
			case ticks <- [2]float64{prev, next}:
			default:
			}
		})
		close(done)
	}()

	select {
	case tick := <-ticks:
		assert.Equal(t, 50.0, tick[0])
		assert.InDelta(t, 50, tick[1], 0.01)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick")
	}
	cancel()
	<-done
}

func TestRange(t *testing.T) {
	low, high := Range([]Candle{
		{Low: 5, High: 9},
		{Low: 3, High: 7},
		{Low: 4, High: 12},
	})
	assert.Equal(t, 3.0, low)
	assert.Equal(t, 12.0, high)

	low, high = Range(nil)
	assert.Zero(t, low)
	assert.Zero(t, high)

	q := QuoteAt(100)
	assert.InDelta(t, 100.05, q.High, 1e-9)
	assert.InDelta(t, 99.95, q.Low, 1e-9)
	assert.Equal(t, []float64{1, 2}, Closes([]Candle{{Close: 1}, {Close: 2}}))
}
