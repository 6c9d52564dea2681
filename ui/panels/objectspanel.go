package panels

import (
	"fmt"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ObjectsPanel lists the committed annotations with select, lock and
// delete controls.
type ObjectsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list    *widget.List
	count   *widget.Label
	items   []annotation.Annotation
	syncing bool

	// row currently highlighted in the list, -1 for none
	highlighted int
}

// NewObjectsPanel creates the object list.
func NewObjectsPanel(state *app.State) *ObjectsPanel {
	op := &ObjectsPanel{state: state, highlighted: -1}

	op.count = widget.NewLabel("")
	op.list = widget.NewList(
		func() int { return len(op.items) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewLabel("drawing"),
				layout.NewSpacer(),
				widget.NewCheck("Lock", nil),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
			)
		},
		op.updateRow,
	)
	op.list.OnSelected = func(i widget.ListItemID) {
		if !op.syncing && i < len(op.items) {
			state.Overlay.Model().Select(op.items[i].ID)
		}
	}

	op.container = container.NewBorder(op.count, nil, nil, nil, op.list)

	state.On(app.EventAnnotationsChanged, func(data interface{}) {
		// Draft updates fire on every pointer move and never change the list.
		if c, ok := data.(annotation.Change); ok && c.Type == annotation.ChangeDraft {
			return
		}
		op.Refresh()
	})
	op.Refresh()
	return op
}

// Container returns the panel container.
func (op *ObjectsPanel) Container() fyne.CanvasObject {
	return op.container
}

// Refresh reloads the list from the model.
func (op *ObjectsPanel) Refresh() {
	op.items = op.state.Overlay.Annotations()
	op.count.SetText(fmt.Sprintf("%d objects", len(op.items)))
	op.syncSelection()
	op.list.Refresh()
}

// syncSelection highlights the row of the model's selection, which may have
// changed on the canvas.
func (op *ObjectsPanel) syncSelection() {
	op.syncing = true
	defer func() { op.syncing = false }()

	i := op.SelectedIndex()
	if i == op.highlighted {
		return
	}
	op.highlighted = i
	if i >= 0 {
		op.list.Select(i)
		return
	}
	op.list.UnselectAll()
}

// SelectedIndex returns the row of the selected annotation, or -1.
func (op *ObjectsPanel) SelectedIndex() int {
	id := op.state.Overlay.Model().SelectedID()
	for i, a := range op.items {
		if id != "" && a.ID == id {
			return i
		}
	}
	return -1
}

func (op *ObjectsPanel) updateRow(i widget.ListItemID, obj fyne.CanvasObject) {
	if i >= len(op.items) {
		return
	}
	a := op.items[i]
	model := op.state.Overlay.Model()

	row := obj.(*fyne.Container)
	label := row.Objects[0].(*widget.Label)
	lock := row.Objects[2].(*widget.Check)
	del := row.Objects[3].(*widget.Button)

	label.SetText(RowTitle(a, model.SelectedID() == a.ID))

	lock.OnChanged = nil
	lock.SetChecked(a.Locked)
	lock.OnChanged = func(locked bool) { model.SetLocked(a.ID, locked) }

	del.OnTapped = func() { model.Remove(a.ID) }
}

// RowTitle describes an annotation in the object list.
func RowTitle(a annotation.Annotation, selected bool) string {
	title := ToolTitle(a.Kind)
	if a.Label != "" {
		title += " \"" + a.Label + "\""
	}
	if selected {
		return "> " + title
	}
	return title
}
