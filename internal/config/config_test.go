package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"nibra-chart/internal/marketdata"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nibra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "DX1!", cfg.Symbol)
	assert.Equal(t, marketdata.TF30m, cfg.Timeframe)
	assert.Equal(t, marketdata.ChartCandle, cfg.ChartType)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, DefaultChartSettings(), cfg.Chart)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `
symbol: EURUSD
timeframe: 1h
tick-interval: 250ms
chart:
  background: "#131722"
  grid: "#2a2e39"
`)
	t.Setenv("NIBRA_CHART_TYPE", "Line")
	t.Setenv("NIBRA_CHART_TEXT", "#d1d4dc")

	v := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("symbol", "", "")
	require.NoError(t, flags.Parse([]string{"--symbol=BTCUSDT"}))
	require.NoError(t, BindFlags(v, flags))

	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", cfg.Symbol)
	assert.Equal(t, marketdata.TF1h, cfg.Timeframe)
	assert.Equal(t, marketdata.ChartLine, cfg.ChartType)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "#131722", cfg.Chart.Background)
	assert.Equal(t, "#2a2e39", cfg.Chart.Grid)
	assert.Equal(t, "#d1d4dc", cfg.Chart.Text)
	assert.Equal(t, "#089981", cfg.Chart.CandleUp)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"timeframe", "timeframe: 2h\n"},
		{"chart type", "chart-type: Renko\n"},
		{"color", "chart:\n  grid: nope\n"},
		{"tick interval", "tick-interval: 0s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(), writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
