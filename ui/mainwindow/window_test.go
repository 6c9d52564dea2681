package mainwindow

import (
	"path/filepath"
	"testing"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/app"
	"nibra-chart/internal/config"
	"nibra-chart/internal/marketdata"
	"nibra-chart/pkg/geometry"
	"nibra-chart/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T) (*MainWindow, *app.State) {
	t.Helper()
	a := test.NewApp()
	state := app.NewState(config.Config{
		Symbol:    "XAUUSD",
		Timeframe: marketdata.TF15m,
		ChartType: marketdata.ChartArea,
		Seed:      11,
		Chart:     config.DefaultChartSettings(),
	})
	p, err := prefs.Load(filepath.Join(t.TempDir(), "preferences.json"))
	require.NoError(t, err)
	return New(a, state, p), state
}

func drawLine(state *app.State) {
	state.SetTool(annotation.ToolFor(annotation.KindTrendline))
	state.Overlay.PointerDown(geometry.NewPoint2D(10, 10))
	state.Overlay.PointerMove(geometry.NewPoint2D(90, 40))
	state.Overlay.PointerUp()
}

func TestMainWindow_Title(t *testing.T) {
	mw, state := newTestWindow(t)
	assert.Equal(t, "Nibra Chart - XAUUSD, 15m", mw.Title())

	state.SetSymbol("ETHUSD")
	assert.Equal(t, "Nibra Chart - ETHUSD, 15m", mw.Title())
}

func TestMainWindow_EscapeCancelsDraft(t *testing.T) {
	mw, state := newTestWindow(t)

	state.SetTool(annotation.ToolFor(annotation.KindRectangle))
	assert.Equal(t, "Tool: Rectangle", mw.StatusText())

	state.Overlay.PointerDown(geometry.NewPoint2D(10, 10))
	state.Overlay.PointerMove(geometry.NewPoint2D(40, 40))
	require.True(t, state.Overlay.Drawing())

	mw.HandleKey(fyne.KeyEscape)
	assert.False(t, state.Overlay.Drawing())
	assert.Empty(t, state.Overlay.Annotations())
	assert.Equal(t, "Drawing cancelled", mw.StatusText())
}

func TestMainWindow_DeleteKeyRemovesSelection(t *testing.T) {
	mw, state := newTestWindow(t)
	drawLine(state)
	list := state.Overlay.Annotations()
	require.Len(t, list, 1)
	assert.Equal(t, "1 objects", mw.StatusText())

	require.True(t, state.Overlay.Model().Select(list[0].ID))
	mw.HandleKey(fyne.KeyDelete)
	assert.Empty(t, state.Overlay.Annotations())
}

func TestMainWindow_Document(t *testing.T) {
	mw, state := newTestWindow(t)
	drawLine(state)

	doc := mw.Document()
	assert.Equal(t, "XAUUSD", doc.Symbol)
	assert.Equal(t, "15m", doc.Timeframe)
	assert.Len(t, doc.Annotations, 1)
}
