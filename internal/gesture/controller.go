// Package gesture turns raw overlay pointer events into draft
// create/update/commit transitions on the annotation model.
package gesture

import (
	"nibra-chart/internal/annotation"
	"nibra-chart/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "gesture")

// State is the controller state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Target tells the controller which overlay element received the event.
type Target int

const (
	TargetOverlay Target = iota
	// TargetToolbar is the floating selection toolbar. Events on it never
	// start a gesture.
	TargetToolbar
)

// PointerEvent is a pointer event in client (window) coordinates.
type PointerEvent struct {
	Client geometry.Point2D
	Target Target
}

// BoundsFunc returns the overlay's current bounding box in client
// coordinates. It is called on every event.
type BoundsFunc func() geometry.Rect

// Controller is the Idle/Drawing state machine.
type Controller struct {
	model  *annotation.Model
	bounds BoundsFunc
	state  State
}

// NewController creates a controller over model. A nil bounds provider
// treats client coordinates as overlay-local.
func NewController(model *annotation.Model, bounds BoundsFunc) *Controller {
	if bounds == nil {
		bounds = func() geometry.Rect { return geometry.Rect{} }
	}
	return &Controller{model: model, bounds: bounds}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) local(ev PointerEvent) geometry.Point2D {
	return geometry.LocalCoordinates(ev.Client, c.bounds())
}

// PointerDown starts a draft when a drawing tool is active and the event
// landed on the overlay itself. It reports whether a gesture started.
func (c *Controller) PointerDown(ev PointerEvent, tool annotation.Tool) bool {
	if tool.IsCursor() || ev.Target == TargetToolbar {
		return false
	}
	if c.state == Drawing {
		log.Warnf("pointer down while drawing, ignoring")
		return false
	}
	if !c.model.Begin(tool, c.local(ev)) {
		return false
	}
	c.state = Drawing
	log.Debugf("drawing %s", tool)
	return true
}

// PointerMove drags the draft's terminal point.
func (c *Controller) PointerMove(ev PointerEvent) bool {
	if c.state != Drawing {
		return false
	}
	return c.model.Update(c.local(ev))
}

// PointerUp commits the draft as last moved and returns to Idle.
func (c *Controller) PointerUp() (annotation.Annotation, bool) {
	if c.state != Drawing {
		return annotation.Annotation{}, false
	}
	return c.commit()
}

// PointerLost handles loss of pointer capture, e.g. the pointer leaving
// the window. It commits whatever draft exists.
func (c *Controller) PointerLost() (annotation.Annotation, bool) {
	if c.state != Drawing {
		return annotation.Annotation{}, false
	}
	return c.commit()
}

// Cancel discards the draft and returns to Idle.
func (c *Controller) Cancel() bool {
	if c.state != Drawing {
		return false
	}
	c.state = Idle
	return c.model.Discard()
}

// Reset returns to Idle without touching the model. Used after the model
// was cleared from outside.
func (c *Controller) Reset() {
	c.state = Idle
}

func (c *Controller) commit() (annotation.Annotation, bool) {
	c.state = Idle
	return c.model.Commit()
}
