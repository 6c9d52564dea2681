// Package marketdata simulates price series for the chart: a random walk
// of candles scaled to the timeframe and a live micro-tick feed.
package marketdata

import (
	"time"

	"github.com/pkg/errors"
)

// Timeframe is the bar interval of a series.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1D  Timeframe = "1D"
	TF1W  Timeframe = "1W"
	TF1M  Timeframe = "1M"
)

// Timeframes lists the selectable timeframes in display order.
var Timeframes = []Timeframe{TF1m, TF5m, TF15m, TF30m, TF1h, TF4h, TF1D, TF1W, TF1M}

type tfInfo struct {
	seconds    int64
	volatility float64 // Bar volatility relative to 1m, roughly sqrt-of-time
}

var timeframeInfo = map[Timeframe]tfInfo{
	TF1m:  {60, 1},
	TF5m:  {300, 2.2},
	TF15m: {900, 3.8},
	TF30m: {1800, 5.4},
	TF1h:  {3600, 7.7},
	TF4h:  {14400, 15.4},
	TF1D:  {86400, 37.9},
	TF1W:  {604800, 100},
	TF1M:  {2592000, 200},
}

// ParseTimeframe validates a timeframe label.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if _, ok := timeframeInfo[tf]; !ok {
		return "", errors.Errorf("unknown timeframe %q", s)
	}
	return tf, nil
}

// Seconds returns the bar interval in seconds. Unknown timeframes use one
// hour.
func (tf Timeframe) Seconds() int64 {
	if info, ok := timeframeInfo[tf]; ok {
		return info.seconds
	}
	return 3600
}

// Duration returns the bar interval.
func (tf Timeframe) Duration() time.Duration {
	return time.Duration(tf.Seconds()) * time.Second
}

// Volatility returns the bar volatility multiplier.
func (tf Timeframe) Volatility() float64 {
	if info, ok := timeframeInfo[tf]; ok {
		return info.volatility
	}
	return 10
}

// Intraday reports whether bars are shorter than a day.
func (tf Timeframe) Intraday() bool {
	return tf.Seconds() < 86400
}

// ChartType selects how the series is painted.
type ChartType string

const (
	ChartArea   ChartType = "Area"
	ChartCandle ChartType = "Candle"
	ChartLine   ChartType = "Line"
	ChartBar    ChartType = "Bar"
)

// ChartTypes lists the chart types in display order.
var ChartTypes = []ChartType{ChartArea, ChartCandle, ChartLine, ChartBar}

// ParseChartType validates a chart type name.
func ParseChartType(s string) (ChartType, error) {
	for _, ct := range ChartTypes {
		if string(ct) == s {
			return ct, nil
		}
	}
	return "", errors.Errorf("unknown chart type %q", s)
}
