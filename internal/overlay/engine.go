// Package overlay wires the annotation model, the gesture state machine and
// the selection controller into the single object a chart host drives with
// pointer events.
package overlay

import (
	"nibra-chart/internal/annotation"
	"nibra-chart/internal/gesture"
	"nibra-chart/internal/render"
	"nibra-chart/internal/selection"
	"nibra-chart/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "overlay")

// Engine is the annotation overlay of one chart. All methods must be called
// from the host's event loop.
type Engine struct {
	model     *annotation.Model
	gestures  *gesture.Controller
	selection *selection.Controller

	tool   annotation.Tool
	bounds geometry.Rect
	opts   render.Options

	invalidate []func()
}

// New creates an empty overlay.
func New(opts render.Options) *Engine {
	e := &Engine{
		model: annotation.NewModel(),
		opts:  opts,
	}
	e.gestures = gesture.NewController(e.model, e.Bounds)
	e.selection = selection.NewController(e.model)
	e.model.OnChange(func(annotation.Change) { e.notify() })
	return e
}

// Model exposes the annotation model for hosts that list or edit
// annotations directly.
func (e *Engine) Model() *annotation.Model {
	return e.model
}

// OnInvalidate registers a callback run whenever the scene must be redrawn.
func (e *Engine) OnInvalidate(fn func()) {
	e.invalidate = append(e.invalidate, fn)
}

func (e *Engine) notify() {
	for _, fn := range e.invalidate {
		fn()
	}
}

// SetTool changes the active tool. Existing annotations and the selection
// are kept.
func (e *Engine) SetTool(t annotation.Tool) {
	if e.tool == t {
		return
	}
	e.tool = t
	log.Debugf("tool %s", t)
}

// Tool returns the active tool.
func (e *Engine) Tool() annotation.Tool {
	return e.tool
}

// SetBounds updates the overlay's position and size in client coordinates.
// Annotation points stay in overlay pixels; only a redraw is triggered.
func (e *Engine) SetBounds(r geometry.Rect) {
	if e.bounds == r {
		return
	}
	e.bounds = r
	e.notify()
}

// Bounds returns the overlay bounds in client coordinates.
func (e *Engine) Bounds() geometry.Rect {
	return e.bounds
}

// SetPriceFunc installs the host's y to price mapping used by measuring
// labels. Pass nil to label in pixels.
func (e *Engine) SetPriceFunc(fn render.PriceFunc) {
	e.opts.PriceAt = fn
	e.notify()
}

// Drawing reports whether a gesture is in progress.
func (e *Engine) Drawing() bool {
	return e.gestures.State() == gesture.Drawing
}

// PointerDown handles a press at a client position. A press on the
// floating toolbar runs its button and never starts a gesture. With the
// cursor tool the press selects; otherwise it starts drawing.
func (e *Engine) PointerDown(client geometry.Point2D) {
	local := geometry.LocalCoordinates(client, e.bounds)

	if tb, ok := e.selection.Toolbar(); ok && tb.Contains(local) {
		if action, ok := tb.ButtonAt(local); ok {
			e.selection.Dispatch(action)
		}
		e.gestures.PointerDown(gesture.PointerEvent{Client: client, Target: gesture.TargetToolbar}, e.tool)
		return
	}

	if e.tool.IsCursor() {
		e.selection.Click(e.Scene(), local)
		return
	}
	e.gestures.PointerDown(gesture.PointerEvent{Client: client, Target: gesture.TargetOverlay}, e.tool)
}

// PointerMove handles pointer motion at a client position.
func (e *Engine) PointerMove(client geometry.Point2D) {
	e.gestures.PointerMove(gesture.PointerEvent{Client: client})
}

// PointerUp handles a release and commits any draft.
func (e *Engine) PointerUp() {
	if a, ok := e.gestures.PointerUp(); ok {
		log.Infof("added %s %s", a.Kind, a.ID)
	}
}

// PointerLeave handles loss of the pointer. The draft is committed as if
// the button had been released.
func (e *Engine) PointerLeave() {
	if a, ok := e.gestures.PointerLost(); ok {
		log.Infof("added %s %s on pointer leave", a.Kind, a.ID)
	}
}

// Cancel discards the draft of an active gesture.
func (e *Engine) Cancel() bool {
	return e.gestures.Cancel()
}

// ClearAll removes every annotation, the selection and any draft.
func (e *Engine) ClearAll() {
	e.gestures.Reset()
	e.model.ClearAll()
	log.Info("cleared all annotations")
}

// DeleteSelected removes the selected annotation.
func (e *Engine) DeleteSelected() bool {
	return e.selection.DeleteSelected()
}

// Dispatch runs a toolbar action on the selection.
func (e *Engine) Dispatch(action selection.Action) bool {
	return e.selection.Dispatch(action)
}

// Load replaces the annotations with a host-owned list.
func (e *Engine) Load(list []annotation.Annotation) {
	e.gestures.Reset()
	e.model.Load(list)
}

// Annotations returns the committed annotations in draw order.
func (e *Engine) Annotations() []annotation.Annotation {
	return e.model.Annotations()
}

// Scene renders the current state.
func (e *Engine) Scene() render.Scene {
	var draft *annotation.Annotation
	if d, ok := e.model.Draft(); ok {
		draft = &d
	}
	return render.Build(e.model.Annotations(), draft, e.model.SelectedID(), e.opts)
}

// Toolbar returns the floating toolbar layout in overlay coordinates.
func (e *Engine) Toolbar() (selection.Toolbar, bool) {
	return e.selection.Toolbar()
}
