// Package scenario replays scripted pointer gestures against an overlay
// engine. Scripts are YAML documents:
//
//	name: rectangle
//	bounds: {x: 0, y: 0, width: 800, height: 600}
//	steps:
//	  - tool: rectangle
//	  - down: {x: 10, y: 10}
//	  - move: {x: 110, y: 60}
//	  - up: true
//	expect:
//	  count: 1
//	  kinds: [rectangle]
package scenario

import (
	"io"
	"os"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/overlay"
	"nibra-chart/internal/selection"
	"nibra-chart/pkg/geometry"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Step is one scripted event. Exactly one field must be set.
type Step struct {
	Tool    string            `yaml:"tool,omitempty"`
	Down    *geometry.Point2D `yaml:"down,omitempty"`
	Move    *geometry.Point2D `yaml:"move,omitempty"`
	Up      bool              `yaml:"up,omitempty"`
	Leave   bool              `yaml:"leave,omitempty"`
	Cancel  bool              `yaml:"cancel,omitempty"`
	Clear   bool              `yaml:"clear,omitempty"`
	Delete  bool              `yaml:"delete,omitempty"`
	Toolbar string            `yaml:"toolbar,omitempty"`
	Resize  *geometry.Rect    `yaml:"resize,omitempty"`
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Tool != "", s.Down != nil, s.Move != nil, s.Up, s.Leave,
		s.Cancel, s.Clear, s.Delete, s.Toolbar != "", s.Resize != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Expect lists optional checks on the final state.
type Expect struct {
	Count    *int     `yaml:"count,omitempty"`
	Kinds    []string `yaml:"kinds,omitempty"`
	Selected *bool    `yaml:"selected,omitempty"`
}

// Scenario is a parsed script.
type Scenario struct {
	Name   string         `yaml:"name"`
	Bounds *geometry.Rect `yaml:"bounds,omitempty"`
	Steps  []Step         `yaml:"steps"`
	Expect Expect         `yaml:"expect,omitempty"`
}

// Parse decodes and validates a script.
func Parse(r io.Reader) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, errors.Wrap(err, "decode scenario")
	}
	for i, step := range sc.Steps {
		if n := step.actions(); n != 1 {
			return Scenario{}, errors.Errorf("step %d: expected one action, got %d", i+1, n)
		}
		if step.Tool != "" {
			if _, err := annotation.ParseTool(step.Tool); err != nil {
				return Scenario{}, errors.Wrapf(err, "step %d", i+1)
			}
		}
		if step.Toolbar != "" {
			if _, err := parseAction(step.Toolbar); err != nil {
				return Scenario{}, errors.Wrapf(err, "step %d", i+1)
			}
		}
	}
	return sc, nil
}

// LoadFile parses the script at path.
func LoadFile(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, errors.Wrap(err, "open scenario")
	}
	defer f.Close()
	return Parse(f)
}

func parseAction(s string) (selection.Action, error) {
	for _, a := range []selection.Action{selection.ActionColor, selection.ActionStroke, selection.ActionLock, selection.ActionDelete} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, errors.Errorf("unknown toolbar action %q", s)
}

// Run replays the steps against e. Positions are client coordinates.
func Run(e *overlay.Engine, sc Scenario) error {
	if sc.Bounds != nil {
		e.SetBounds(*sc.Bounds)
	}
	for i, step := range sc.Steps {
		if err := apply(e, step); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}

func apply(e *overlay.Engine, step Step) error {
	switch {
	case step.Tool != "":
		tool, err := annotation.ParseTool(step.Tool)
		if err != nil {
			return err
		}
		e.SetTool(tool)
	case step.Down != nil:
		e.PointerDown(*step.Down)
	case step.Move != nil:
		e.PointerMove(*step.Move)
	case step.Up:
		e.PointerUp()
	case step.Leave:
		e.PointerLeave()
	case step.Cancel:
		e.Cancel()
	case step.Clear:
		e.ClearAll()
	case step.Delete:
		e.DeleteSelected()
	case step.Toolbar != "":
		action, err := parseAction(step.Toolbar)
		if err != nil {
			return err
		}
		e.Dispatch(action)
	case step.Resize != nil:
		e.SetBounds(*step.Resize)
	}
	return nil
}

// Verify checks the engine state against the script's expectations.
func Verify(e *overlay.Engine, ex Expect) error {
	list := e.Annotations()
	if ex.Count != nil && len(list) != *ex.Count {
		return errors.Errorf("expected %d annotations, got %d", *ex.Count, len(list))
	}
	if ex.Kinds != nil {
		if len(ex.Kinds) != len(list) {
			return errors.Errorf("expected kinds %v, got %d annotations", ex.Kinds, len(list))
		}
		for i, name := range ex.Kinds {
			k, err := annotation.ParseKind(name)
			if err != nil {
				return err
			}
			if list[i].Kind != k {
				return errors.Errorf("annotation %d: expected %s, got %s", i, k, list[i].Kind)
			}
		}
	}
	if ex.Selected != nil {
		if got := e.Model().SelectedID() != ""; got != *ex.Selected {
			return errors.Errorf("expected selected=%t, got %t", *ex.Selected, got)
		}
	}
	return nil
}
