// Package selection tracks the selected annotation and lays out the floating
// toolbar used to restyle, lock and delete it.
package selection

import (
	"strings"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/render"
	"nibra-chart/pkg/colorutil"
	"nibra-chart/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "selection")

// Action is a floating toolbar button.
type Action int

const (
	ActionColor Action = iota
	ActionStroke
	ActionLock
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionColor:
		return "color"
	case ActionStroke:
		return "stroke"
	case ActionLock:
		return "lock"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Toolbar geometry in overlay pixels.
const (
	ToolbarOffset  = 40 // Distance above the anchor point
	ToolbarPadding = 4
	ButtonSize     = 24
	ButtonGap      = 4
	SeparatorWidth = 1
)

// Button is one laid-out toolbar button.
type Button struct {
	Action Action
	Bounds geometry.Rect
}

// Toolbar is the layout of the floating toolbar for the selected annotation.
type Toolbar struct {
	AnnotationID string
	Bounds       geometry.Rect
	Buttons      []Button
	Separator    geometry.Rect

	// Current state shown by the buttons.
	Color  string
	Stroke annotation.StrokeStyle
	Locked bool
}

// Contains reports whether p is on the toolbar.
func (t Toolbar) Contains(p geometry.Point2D) bool {
	return t.Bounds.Contains(p)
}

// ButtonAt returns the button under p.
func (t Toolbar) ButtonAt(p geometry.Point2D) (Action, bool) {
	for _, b := range t.Buttons {
		if b.Bounds.Contains(p) {
			return b.Action, true
		}
	}
	return 0, false
}

// Layout places the toolbar with its top-left corner ToolbarOffset pixels
// above the annotation's terminal point.
func Layout(a annotation.Annotation) Toolbar {
	anchor := a.Terminal()
	origin := geometry.NewPoint2D(anchor.X, anchor.Y-ToolbarOffset)

	t := Toolbar{
		AnnotationID: a.ID,
		Color:        a.Color,
		Stroke:       a.Stroke,
		Locked:       a.Locked,
	}

	x := origin.X + ToolbarPadding
	y := origin.Y + ToolbarPadding
	for _, action := range []Action{ActionColor, ActionStroke, ActionLock, ActionDelete} {
		if action == ActionDelete {
			t.Separator = geometry.NewRect(x, y+2, SeparatorWidth, ButtonSize-4)
			x += SeparatorWidth + ButtonGap
		}
		t.Buttons = append(t.Buttons, Button{Action: action, Bounds: geometry.NewRect(x, y, ButtonSize, ButtonSize)})
		x += ButtonSize + ButtonGap
	}

	width := x - ButtonGap + ToolbarPadding - origin.X
	t.Bounds = geometry.NewRect(origin.X, origin.Y, width, ButtonSize+2*ToolbarPadding)
	return t
}

// Controller owns selection-state transitions on the model.
type Controller struct {
	model *annotation.Model
}

// NewController creates a selection controller over model.
func NewController(model *annotation.Model) *Controller {
	return &Controller{model: model}
}

// Click selects the topmost annotation under p, replacing any previous
// selection. Clicking the background deselects.
func (c *Controller) Click(scene render.Scene, p geometry.Point2D) (string, bool) {
	id, ok := scene.HitTest(p)
	if !ok {
		c.model.Deselect()
		return "", false
	}
	c.model.Select(id)
	log.Debugf("selected %s", id)
	return id, true
}

// Toolbar returns the floating toolbar of the selected annotation.
func (c *Controller) Toolbar() (Toolbar, bool) {
	a, ok := c.model.Selected()
	if !ok {
		return Toolbar{}, false
	}
	return Layout(a), true
}

// ButtonAt returns the toolbar button under p, if a toolbar is shown.
func (c *Controller) ButtonAt(p geometry.Point2D) (Action, bool) {
	t, ok := c.Toolbar()
	if !ok {
		return 0, false
	}
	return t.ButtonAt(p)
}

// Dispatch applies a toolbar action to the selected annotation.
func (c *Controller) Dispatch(action Action) bool {
	a, ok := c.model.Selected()
	if !ok {
		return false
	}
	log.Debugf("%s on %s", action, a.ID)

	switch action {
	case ActionColor:
		return c.model.SetColor(a.ID, NextColor(a.Color))
	case ActionStroke:
		return c.model.SetStroke(a.ID, a.Stroke.Next())
	case ActionLock:
		return c.model.ToggleLock(a.ID)
	case ActionDelete:
		return c.model.Remove(a.ID)
	}
	return false
}

// DeleteSelected removes the selected annotation.
func (c *Controller) DeleteSelected() bool {
	return c.Dispatch(ActionDelete)
}

// NextColor returns the palette entry after current, starting over at the
// first entry for colors outside the palette.
func NextColor(current string) string {
	for i, c := range colorutil.Palette {
		if strings.EqualFold(c, current) {
			return colorutil.Palette[(i+1)%len(colorutil.Palette)]
		}
	}
	return colorutil.Palette[0]
}
