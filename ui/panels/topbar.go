package panels

import (
	"nibra-chart/internal/app"
	"nibra-chart/internal/marketdata"
	"nibra-chart/ui/dialogs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Watchlist is offered by the symbol box; any other symbol can be typed.
var Watchlist = []string{
	"DX1!", "EURUSD", "GBPUSD", "USDJPY", "AUDUSD",
	"BTCUSD", "ETHUSD", "XAUUSD", "US500",
}

// TopBar selects the symbol, timeframe and chart type and opens the chart
// settings.
type TopBar struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	symbol    *widget.SelectEntry
	timeframe *widget.Select
	chartType *widget.Select
}

// NewTopBar creates the top bar for state.
func NewTopBar(state *app.State) *TopBar {
	tb := &TopBar{state: state}
	symbol, tf := state.Instrument()
	_, _, ct, _ := state.Snapshot()

	tb.symbol = widget.NewSelectEntry(Watchlist)
	tb.symbol.SetText(symbol)
	tb.symbol.OnSubmitted = tb.applySymbol
	tb.symbol.OnChanged = func(s string) {
		// Picking from the dropdown sets the text without submitting.
		for _, w := range Watchlist {
			if w == s {
				tb.applySymbol(s)
				return
			}
		}
	}

	tfNames := make([]string, len(marketdata.Timeframes))
	for i, t := range marketdata.Timeframes {
		tfNames[i] = string(t)
	}
	tb.timeframe = widget.NewSelect(tfNames, func(s string) {
		if t, err := marketdata.ParseTimeframe(s); err == nil {
			state.SetTimeframe(t)
		}
	})
	tb.timeframe.SetSelected(string(tf))

	ctNames := make([]string, len(marketdata.ChartTypes))
	for i, c := range marketdata.ChartTypes {
		ctNames[i] = string(c)
	}
	tb.chartType = widget.NewSelect(ctNames, func(s string) {
		if c, err := marketdata.ParseChartType(s); err == nil {
			state.SetChartType(c)
		}
	})
	tb.chartType.SetSelected(string(ct))

	settings := widget.NewButtonWithIcon("", theme.SettingsIcon(), tb.openSettings)

	tb.container = container.NewHBox(
		container.NewGridWrap(fyne.NewSize(140, tb.symbol.MinSize().Height), tb.symbol),
		tb.timeframe,
		tb.chartType,
		settings,
	)
	return tb
}

// Container returns the bar container.
func (tb *TopBar) Container() fyne.CanvasObject {
	return tb.container
}

// SetWindow sets the parent window for dialogs.
func (tb *TopBar) SetWindow(w fyne.Window) {
	tb.window = w
}

func (tb *TopBar) applySymbol(s string) {
	if s == "" {
		return
	}
	tb.state.SetSymbol(s)
}

func (tb *TopBar) openSettings() {
	if tb.window == nil {
		return
	}
	_, _, _, settings := tb.state.Snapshot()
	dialogs.ShowChartSettings(settings, tb.state.SetSettings, tb.window)
}
