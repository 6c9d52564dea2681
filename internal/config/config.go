// Package config loads workstation settings from defaults, an optional YAML
// file, NIBRA_* environment variables and command-line flags.
package config

import (
	"strings"
	"time"

	"nibra-chart/internal/marketdata"
	"nibra-chart/pkg/colorutil"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NIBRA_SYMBOL.
const EnvPrefix = "NIBRA"

// ChartSettings is the chart color theme.
type ChartSettings struct {
	Background string `mapstructure:"background" json:"background" yaml:"background"`
	Grid       string `mapstructure:"grid" json:"grid" yaml:"grid"`
	CandleUp   string `mapstructure:"candle-up" json:"candleUp" yaml:"candle-up"`
	CandleDown string `mapstructure:"candle-down" json:"candleDown" yaml:"candle-down"`
	WickUp     string `mapstructure:"wick-up" json:"wickUp" yaml:"wick-up"`
	WickDown   string `mapstructure:"wick-down" json:"wickDown" yaml:"wick-down"`
	Text       string `mapstructure:"text" json:"text" yaml:"text"`
}

// DefaultChartSettings returns the light theme.
func DefaultChartSettings() ChartSettings {
	return ChartSettings{
		Background: "#ffffff",
		Grid:       "#f0f3fa",
		CandleUp:   "#089981",
		CandleDown: "#f23645",
		WickUp:     "#089981",
		WickDown:   "#f23645",
		Text:       "#131722",
	}
}

// Validate checks that every color parses.
func (s ChartSettings) Validate() error {
	for name, hex := range map[string]string{
		"background":  s.Background,
		"grid":        s.Grid,
		"candle-up":   s.CandleUp,
		"candle-down": s.CandleDown,
		"wick-up":     s.WickUp,
		"wick-down":   s.WickDown,
		"text":        s.Text,
	} {
		if _, err := colorutil.ParseHex(hex); err != nil {
			return errors.Wrapf(err, "chart.%s", name)
		}
	}
	return nil
}

// Config is the resolved workstation configuration.
type Config struct {
	Symbol       string               `mapstructure:"symbol"`
	Timeframe    marketdata.Timeframe `mapstructure:"timeframe"`
	ChartType    marketdata.ChartType `mapstructure:"chart-type"`
	Seed         uint64               `mapstructure:"seed"`
	TickInterval time.Duration        `mapstructure:"tick-interval"`
	Debug        bool                 `mapstructure:"debug"`
	Chart        ChartSettings        `mapstructure:"chart"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("symbol", "DX1!")
	v.SetDefault("timeframe", string(marketdata.TF30m))
	v.SetDefault("chart-type", string(marketdata.ChartCandle))
	v.SetDefault("seed", uint64(1))
	v.SetDefault("tick-interval", time.Second)
	v.SetDefault("debug", false)

	chart := DefaultChartSettings()
	v.SetDefault("chart.background", chart.Background)
	v.SetDefault("chart.grid", chart.Grid)
	v.SetDefault("chart.candle-up", chart.CandleUp)
	v.SetDefault("chart.candle-down", chart.CandleDown)
	v.SetDefault("chart.wick-up", chart.WickUp)
	v.SetDefault("chart.wick-down", chart.WickDown)
	v.SetDefault("chart.text", chart.Text)
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags lets command-line flags override file and environment values.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	return errors.Wrap(v.BindPFlags(flags), "bind flags")
}

// Load reads the optional config file at path and resolves v into a Config.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if _, err := marketdata.ParseTimeframe(string(cfg.Timeframe)); err != nil {
		return Config{}, err
	}
	if _, err := marketdata.ParseChartType(string(cfg.ChartType)); err != nil {
		return Config{}, err
	}
	if err := cfg.Chart.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval <= 0 {
		return Config{}, errors.Errorf("tick-interval must be positive, got %s", cfg.TickInterval)
	}
	return cfg, nil
}
