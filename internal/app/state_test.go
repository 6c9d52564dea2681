package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/config"
	"nibra-chart/internal/marketdata"
	"nibra-chart/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Symbol:       "EURUSD",
		Timeframe:    marketdata.TF30m,
		ChartType:    marketdata.ChartCandle,
		Seed:         42,
		TickInterval: time.Second,
		Chart:        config.DefaultChartSettings(),
	}
}

func TestState_InitialSeries(t *testing.T) {
	s := NewState(testConfig())
	bars, price, ct, _ := s.Snapshot()

	require.Len(t, bars, marketdata.DefaultBars)
	assert.Equal(t, bars[len(bars)-1].Close, price)
	assert.Equal(t, marketdata.ChartCandle, ct)
	assert.Equal(t, 1.0842, bars[0].Open)
}

func TestState_SelectionChangesKeepAnnotations(t *testing.T) {
	s := NewState(testConfig())
	s.SetTool(annotation.ToolFor(annotation.KindRectangle))
	s.Overlay.PointerDown(geometry.NewPoint2D(10, 10))
	s.Overlay.PointerMove(geometry.NewPoint2D(60, 60))
	s.Overlay.PointerUp()
	before := s.Overlay.Annotations()
	require.Len(t, before, 1)

	var events []EventType
	for _, ev := range []EventType{EventSymbolChanged, EventTimeframeChanged, EventChartTypeChanged, EventSettingsChanged, EventSeriesChanged} {
		ev := ev
		s.On(ev, func(interface{}) { events = append(events, ev) })
	}

	s.SetSymbol("BTCUSDT")
	s.SetTimeframe(marketdata.TF1D)
	s.SetChartType(marketdata.ChartArea)
	dark := config.DefaultChartSettings()
	dark.Background = "#131722"
	s.SetSettings(dark)

	assert.Equal(t, before, s.Overlay.Annotations())
	assert.Equal(t, []EventType{
		EventSymbolChanged, EventSeriesChanged,
		EventTimeframeChanged, EventSeriesChanged,
		EventChartTypeChanged,
		EventSettingsChanged,
	}, events)

	bars, _, _, settings := s.Snapshot()
	assert.Equal(t, 64230.0, bars[0].Open)
	assert.Equal(t, "#131722", settings.Background)
}

func TestState_AnnotationEvents(t *testing.T) {
	s := NewState(testConfig())
	changes := 0
	s.On(EventAnnotationsChanged, func(interface{}) { changes++ })
	tools := 0
	s.On(EventToolChanged, func(interface{}) { tools++ })

	s.SetTool(annotation.ToolFor(annotation.KindRay))
	s.SetTool(annotation.ToolFor(annotation.KindRay))
	assert.Equal(t, 1, tools)

	s.Overlay.PointerDown(geometry.NewPoint2D(0, 0))
	s.Overlay.PointerUp()
	assert.Greater(t, changes, 0)
}

func TestState_TickerFollowsSymbolSwitch(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = 2 * time.Millisecond
	s := NewState(cfg)

	var ticks atomic.Int32
	s.On(EventPriceTick, func(interface{}) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.RunTicker(ctx)

	require.Eventually(t, func() bool { return ticks.Load() > 2 }, 2*time.Second, time.Millisecond)

	s.SetSymbol("BTCUSDT")
	bars, _, _, _ := s.Snapshot()
	last := bars[len(bars)-1].Close
	seen := ticks.Load()

	require.Eventually(t, func() bool { return ticks.Load() > seen+5 }, 2*time.Second, time.Millisecond)
	_, price, _, _ := s.Snapshot()
	assert.InEpsilon(t, last, price, 0.001)
}

func TestState_StaleTickDropped(t *testing.T) {
	s := NewState(testConfig())
	_, price, _, _ := s.Snapshot()

	emitted := 0
	s.On(EventPriceTick, func(interface{}) { emitted++ })

	s.applyTick(price+1, price+2)
	_, after, _, _ := s.Snapshot()
	assert.Equal(t, price, after)
	assert.Zero(t, emitted)

	s.applyTick(price, price+0.5)
	_, after, _, _ = s.Snapshot()
	assert.Equal(t, price+0.5, after)
	assert.Equal(t, 1, emitted)
}
