// Package app provides application state, events and the fyne theme.
package app

import (
	"context"
	"sync"
	"time"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/config"
	"nibra-chart/internal/marketdata"
	"nibra-chart/internal/overlay"
	"nibra-chart/internal/render"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "app")

// State holds the chart selection collaborators (symbol, timeframe, chart
// type, theme), the simulated series and the annotation overlay.
type State struct {
	mu sync.RWMutex

	Symbol    string
	Timeframe marketdata.Timeframe
	ChartType marketdata.ChartType
	Settings  config.ChartSettings

	// Simulated series and live price
	Bars  []marketdata.Candle
	Price float64

	// Overlay is driven from the UI event loop only.
	Overlay *overlay.Engine

	generator    *marketdata.Generator
	tickInterval time.Duration
	now          func() time.Time

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventSymbolChanged EventType = iota
	EventTimeframeChanged
	EventChartTypeChanged
	EventSettingsChanged
	EventSeriesChanged
	EventPriceTick
	EventToolChanged
	EventAnnotationsChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates the application state from a resolved configuration and
// generates the initial series.
func NewState(cfg config.Config) *State {
	s := &State{
		Symbol:       cfg.Symbol,
		Timeframe:    cfg.Timeframe,
		ChartType:    cfg.ChartType,
		Settings:     cfg.Chart,
		Overlay:      overlay.New(render.DefaultOptions()),
		generator:    marketdata.NewGenerator(cfg.Seed),
		tickInterval: cfg.TickInterval,
		now:          time.Now,
		listeners:    make(map[EventType][]EventListener),
	}
	s.Overlay.Model().OnChange(func(c annotation.Change) {
		s.Emit(EventAnnotationsChanged, c)
	})
	s.regenerate()
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *State) regenerate() {
	s.mu.Lock()
	s.Bars = s.generator.Series(s.Symbol, s.Timeframe, marketdata.DefaultBars, s.now())
	if n := len(s.Bars); n > 0 {
		s.Price = s.Bars[n-1].Close
	}
	s.mu.Unlock()
	s.Emit(EventSeriesChanged, nil)
}

// SetSymbol switches the symbol and regenerates the series. Annotations
// are kept in their pixel positions.
func (s *State) SetSymbol(symbol string) {
	s.mu.Lock()
	if s.Symbol == symbol {
		s.mu.Unlock()
		return
	}
	s.Symbol = symbol
	s.mu.Unlock()

	log.Infof("symbol %s", symbol)
	s.Emit(EventSymbolChanged, symbol)
	s.regenerate()
}

// SetTimeframe switches the bar interval and regenerates the series.
func (s *State) SetTimeframe(tf marketdata.Timeframe) {
	s.mu.Lock()
	if s.Timeframe == tf {
		s.mu.Unlock()
		return
	}
	s.Timeframe = tf
	s.mu.Unlock()

	log.Infof("timeframe %s", tf)
	s.Emit(EventTimeframeChanged, tf)
	s.regenerate()
}

// SetChartType changes how the series is painted.
func (s *State) SetChartType(ct marketdata.ChartType) {
	s.mu.Lock()
	if s.ChartType == ct {
		s.mu.Unlock()
		return
	}
	s.ChartType = ct
	s.mu.Unlock()
	s.Emit(EventChartTypeChanged, ct)
}

// SetSettings replaces the chart theme.
func (s *State) SetSettings(settings config.ChartSettings) {
	s.mu.Lock()
	s.Settings = settings
	s.mu.Unlock()
	s.Emit(EventSettingsChanged, settings)
}

// SetTool changes the active drawing tool.
func (s *State) SetTool(t annotation.Tool) {
	if s.Overlay.Tool() == t {
		return
	}
	s.Overlay.SetTool(t)
	s.Emit(EventToolChanged, t)
}

// Snapshot returns the series, live price and chart type under the lock.
func (s *State) Snapshot() (bars []marketdata.Candle, price float64, ct marketdata.ChartType, settings config.ChartSettings) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Bars, s.Price, s.ChartType, s.Settings
}

// Instrument returns the selected symbol and timeframe.
func (s *State) Instrument() (string, marketdata.Timeframe) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Symbol, s.Timeframe
}

// Quote returns the legend quote for the live price.
func (s *State) Quote() marketdata.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marketdata.QuoteAt(s.Price)
}

// RunTicker simulates live prices until ctx is done. Each tick emits
// EventPriceTick from the ticker goroutine.
func (s *State) RunTicker(ctx context.Context) {
	s.generator.Run(ctx, s.tickInterval, s.livePrice, s.applyTick)
}

func (s *State) livePrice() (float64, marketdata.Timeframe) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Price, s.Timeframe
}

// applyTick stores next unless the price moved away from prev in the
// meantime, i.e. the series was regenerated after prev was read.
func (s *State) applyTick(prev, next float64) {
	s.mu.Lock()
	if s.Price != prev {
		s.mu.Unlock()
		return
	}
	s.Price = next
	s.mu.Unlock()
	s.Emit(EventPriceTick, next)
}
