package annotation

import (
	"strconv"

	"nibra-chart/pkg/geometry"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "annotation")

// ChangeType identifies what a model mutation did.
type ChangeType int

const (
	ChangeDraft ChangeType = iota
	ChangeCommitted
	ChangeUpdated
	ChangeRemoved
	ChangeCleared
	ChangeLoaded
	ChangeSelection
)

// Change describes one mutation. ID is empty for list-wide changes.
type Change struct {
	Type ChangeType
	ID   string
}

// ChangeListener is called synchronously after every mutation.
type ChangeListener func(Change)

// Model owns the committed annotations, the draft being drawn and the
// selection. It is driven from a single event loop and is not safe for
// concurrent use.
type Model struct {
	items    []*Annotation
	draft    *Annotation
	selected string

	nextID    uint64
	listeners []ChangeListener
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{}
}

// OnChange registers a listener for model mutations.
func (m *Model) OnChange(listener ChangeListener) {
	m.listeners = append(m.listeners, listener)
}

func (m *Model) emit(t ChangeType, id string) {
	for _, listener := range m.listeners {
		listener(Change{Type: t, ID: id})
	}
}

// mintID returns an id that is not used by any committed annotation.
// Ids come from a per-model counter, never from the clock.
func (m *Model) mintID() string {
	for {
		m.nextID++
		id := "drawing-" + strconv.FormatUint(m.nextID, 10)
		if m.index(id) < 0 {
			return id
		}
	}
}

func (m *Model) index(id string) int {
	for i, a := range m.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Begin starts a draft of the tool's kind with both points at p.
// It is rejected for the cursor tool and while another draft is active.
func (m *Model) Begin(tool Tool, p geometry.Point2D) bool {
	kind, ok := tool.Kind()
	if !ok {
		return false
	}
	if m.draft != nil {
		log.Debugf("begin %s rejected: draft already active", kind)
		return false
	}
	m.draft = newDraft(kind, p)
	m.emit(ChangeDraft, "")
	return true
}

// Update moves the draft's terminal point. No-op without a draft.
func (m *Model) Update(p geometry.Point2D) bool {
	if m.draft == nil {
		return false
	}
	m.draft.Points[1] = p
	m.emit(ChangeDraft, "")
	return true
}

// Commit appends the draft to the committed list under a fresh id.
// Zero-length drafts are committed as well.
func (m *Model) Commit() (Annotation, bool) {
	if m.draft == nil {
		return Annotation{}, false
	}
	a := m.draft
	m.draft = nil
	a.ID = m.mintID()
	m.items = append(m.items, a)

	log.Debugf("committed %s %s points=%v", a.Kind, a.ID, a.Points)
	m.emit(ChangeCommitted, a.ID)
	return a.Clone(), true
}

// Discard drops the draft without committing it.
func (m *Model) Discard() bool {
	if m.draft == nil {
		return false
	}
	m.draft = nil
	m.emit(ChangeDraft, "")
	return true
}

// Remove deletes the annotation with id, clearing the selection in the
// same step when it pointed at it.
func (m *Model) Remove(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	if m.selected == id {
		m.selected = ""
	}
	m.emit(ChangeRemoved, id)
	return true
}

// ClearAll empties the list and drops the selection and the draft.
func (m *Model) ClearAll() {
	m.items = nil
	m.draft = nil
	m.selected = ""
	m.emit(ChangeCleared, "")
}

// Load replaces the committed list with annotations owned by the host.
// Entries that cannot be rendered are dropped and colliding ids are
// re-minted. The draft and the selection are cleared.
func (m *Model) Load(list []Annotation) {
	m.items = m.items[:0]
	m.draft = nil
	m.selected = ""

	for _, a := range list {
		if !a.Renderable() {
			log.Warnf("dropping %s annotation %q with %d points", a.Kind, a.ID, len(a.Points))
			continue
		}
		c := a.Clone()
		if c.ID == "" || m.index(c.ID) >= 0 {
			c.ID = m.mintID()
		}
		m.items = append(m.items, &c)
	}
	m.emit(ChangeLoaded, "")
}

// Select makes id the selected annotation. Unknown ids are rejected.
func (m *Model) Select(id string) bool {
	if m.index(id) < 0 {
		return false
	}
	if m.selected != id {
		m.selected = id
		m.emit(ChangeSelection, id)
	}
	return true
}

// Deselect clears the selection.
func (m *Model) Deselect() {
	if m.selected == "" {
		return
	}
	m.selected = ""
	m.emit(ChangeSelection, "")
}

// SelectedID returns the selected id or "".
func (m *Model) SelectedID() string {
	return m.selected
}

// Selected returns a copy of the selected annotation.
func (m *Model) Selected() (Annotation, bool) {
	return m.Get(m.selected)
}

// Get returns a copy of the annotation with id.
func (m *Model) Get(id string) (Annotation, bool) {
	i := m.index(id)
	if i < 0 {
		return Annotation{}, false
	}
	return m.items[i].Clone(), true
}

// Draft returns a copy of the in-progress annotation.
func (m *Model) Draft() (Annotation, bool) {
	if m.draft == nil {
		return Annotation{}, false
	}
	return m.draft.Clone(), true
}

// Drawing reports whether a draft is active.
func (m *Model) Drawing() bool {
	return m.draft != nil
}

// Annotations returns copies of the committed annotations in draw order.
func (m *Model) Annotations() []Annotation {
	out := make([]Annotation, len(m.items))
	for i, a := range m.items {
		out[i] = a.Clone()
	}
	return out
}

// Len returns the number of committed annotations.
func (m *Model) Len() int {
	return len(m.items)
}

func (m *Model) mutate(id string, fn func(a *Annotation) bool) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	if !fn(m.items[i]) {
		return false
	}
	m.emit(ChangeUpdated, id)
	return true
}

// SetColor restyles the annotation. Style edits are allowed while locked.
func (m *Model) SetColor(id, color string) bool {
	return m.mutate(id, func(a *Annotation) bool {
		a.Color = color
		return true
	})
}

// SetStroke changes the outline pattern.
func (m *Model) SetStroke(id string, style StrokeStyle) bool {
	return m.mutate(id, func(a *Annotation) bool {
		a.Stroke = style
		return true
	})
}

// SetLabel replaces the text payload.
func (m *Model) SetLabel(id, label string) bool {
	return m.mutate(id, func(a *Annotation) bool {
		a.Label = label
		return true
	})
}

// SetLocked sets the lock flag.
func (m *Model) SetLocked(id string, locked bool) bool {
	return m.mutate(id, func(a *Annotation) bool {
		a.Locked = locked
		return true
	})
}

// ToggleLock flips the lock flag.
func (m *Model) ToggleLock(id string) bool {
	return m.mutate(id, func(a *Annotation) bool {
		a.Locked = !a.Locked
		return true
	})
}

// MovePoint replaces control point idx. Locked annotations reject it.
func (m *Model) MovePoint(id string, idx int, p geometry.Point2D) bool {
	return m.mutate(id, func(a *Annotation) bool {
		if a.Locked || idx < 0 || idx >= len(a.Points) {
			return false
		}
		a.Points[idx] = p
		return true
	})
}
