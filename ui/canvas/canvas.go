// Package canvas provides the chart canvas: the price series with the
// annotation overlay painted on top, driven by desktop mouse events.
package canvas

import (
	"image"
	"sync"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/app"
	"nibra-chart/pkg/colorutil"
	"nibra-chart/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "canvas")

// ChartCanvas paints the series and the annotation overlay and forwards
// mouse input to the overlay engine.
type ChartCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	// Guarded by mu: written on the event goroutine, read while painting.
	mu      sync.Mutex
	view    viewport
	overlay Overlay
}

var (
	_ desktop.Mouseable  = (*ChartCanvas)(nil)
	_ desktop.Hoverable  = (*ChartCanvas)(nil)
	_ desktop.Cursorable = (*ChartCanvas)(nil)
)

// NewChartCanvas creates the chart canvas for state.
func NewChartCanvas(state *app.State) *ChartCanvas {
	cc := &ChartCanvas{state: state}

	cc.raster = fynecanvas.NewRaster(cc.draw)
	cc.raster.ScaleMode = fynecanvas.ImageScalePixels
	cc.raster.SetMinSize(fyne.NewSize(320, 240))

	state.Overlay.OnInvalidate(cc.syncOverlay)
	state.Overlay.SetPriceFunc(cc.priceAt)

	state.On(app.EventSeriesChanged, func(interface{}) { cc.relayout(true) })
	state.On(app.EventSettingsChanged, func(interface{}) { cc.raster.Refresh() })
	state.On(app.EventChartTypeChanged, func(interface{}) { cc.raster.Refresh() })
	// Ticks arrive on the ticker goroutine; the overlay is left alone there.
	state.On(app.EventPriceTick, func(interface{}) { cc.relayout(false) })

	cc.ExtendBaseWidget(cc)
	return cc
}

// Resize lays out the chart and moves the overlay bounds with it.
func (cc *ChartCanvas) Resize(size fyne.Size) {
	cc.BaseWidget.Resize(size)
	cc.updateBounds(cc.absolutePosition())
	cc.relayout(true)
}

func (cc *ChartCanvas) absolutePosition() fyne.Position {
	if a := fyne.CurrentApp(); a != nil && a.Driver() != nil {
		return a.Driver().AbsolutePositionForObject(cc)
	}
	return fyne.Position{}
}

// updateBounds tells the overlay where the canvas is in window coordinates.
func (cc *ChartCanvas) updateBounds(origin fyne.Position) {
	size := cc.Size()
	cc.state.Overlay.SetBounds(geometry.NewRect(
		float64(origin.X), float64(origin.Y), float64(size.Width), float64(size.Height)))
}

// relayout recomputes the price viewport. withOverlay rebuilds the overlay
// too, which must only happen on the event goroutine.
func (cc *ChartCanvas) relayout(withOverlay bool) {
	bars, price, _, _ := cc.state.Snapshot()
	size := cc.Size()
	v := newViewport(bars, price, float64(size.Width), float64(size.Height))

	cc.mu.Lock()
	cc.view = v
	cc.mu.Unlock()

	if withOverlay {
		cc.syncOverlay()
		return
	}
	cc.raster.Refresh()
}

// syncOverlay freezes the engine's current scene and toolbar for painting.
func (cc *ChartCanvas) syncOverlay() {
	ov := Overlay{Scene: cc.state.Overlay.Scene()}
	if tb, ok := cc.state.Overlay.Toolbar(); ok {
		ov.Toolbar = &tb
	}

	cc.mu.Lock()
	cc.overlay = ov
	cc.mu.Unlock()

	if cc.raster != nil {
		cc.raster.Refresh()
	}
}

// priceAt maps a canvas y to a price for measuring labels.
func (cc *ChartCanvas) priceAt(y float64) float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.view.valid() {
		return 0
	}
	return cc.view.yPrice(y)
}

// Snapshot renders the canvas at its current size.
func (cc *ChartCanvas) Snapshot() image.Image {
	size := cc.Size()
	return cc.draw(int(size.Width), int(size.Height))
}

// draw is the raster drawing function. It paints at the widget's logical
// size so overlay pixels match event coordinates; fyne scales the result.
func (cc *ChartCanvas) draw(w, h int) image.Image {
	size := cc.Size()
	if size.Width >= 1 && size.Height >= 1 {
		w, h = int(size.Width), int(size.Height)
	}
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	bars, price, ct, settings := cc.state.Snapshot()
	symbol, tf := cc.state.Instrument()
	fillBackground(output, colorutil.HexOr(settings.Background, colorutil.White))

	cc.mu.Lock()
	v, ov := cc.view, cc.overlay
	cc.mu.Unlock()

	drawSeries(output, v, bars, price, ct, settings, legendText(symbol, tf, cc.state.Quote()))
	drawOverlay(output, ov)
	return output
}

// MouseDown starts a gesture or selects, depending on the active tool.
func (cc *ChartCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	cc.updateBounds(ev.AbsolutePosition.Subtract(ev.Position))
	cc.state.Overlay.PointerDown(clientPoint(ev.AbsolutePosition))
}

// MouseUp commits the draft.
func (cc *ChartCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	cc.state.Overlay.PointerUp()
}

// MouseIn implements desktop.Hoverable.
func (cc *ChartCanvas) MouseIn(ev *desktop.MouseEvent) {
	cc.updateBounds(ev.AbsolutePosition.Subtract(ev.Position))
}

// MouseMoved updates the draft while drawing.
func (cc *ChartCanvas) MouseMoved(ev *desktop.MouseEvent) {
	cc.state.Overlay.PointerMove(clientPoint(ev.AbsolutePosition))
}

// MouseOut commits any draft, like a release outside the chart.
func (cc *ChartCanvas) MouseOut() {
	if cc.state.Overlay.Drawing() {
		log.Debug("pointer left the chart while drawing")
	}
	cc.state.Overlay.PointerLeave()
}

// Cursor shows a crosshair while a drawing tool is active.
func (cc *ChartCanvas) Cursor() desktop.Cursor {
	if cc.state.Overlay.Tool() == annotation.ToolCursor {
		return desktop.DefaultCursor
	}
	return desktop.CrosshairCursor
}

func clientPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

// CreateRenderer implements fyne.Widget.
func (cc *ChartCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &chartCanvasRenderer{canvas: cc}
}

type chartCanvasRenderer struct {
	canvas *ChartCanvas
}

func (r *chartCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *chartCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *chartCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *chartCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *chartCanvasRenderer) Destroy() {}
