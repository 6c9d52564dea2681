package panels

import (
	"fmt"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/app"
	"nibra-chart/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var strokeStyles = []annotation.StrokeStyle{
	annotation.StrokeSolid,
	annotation.StrokeDashed,
	annotation.StrokeDotted,
}

// PropertySheet displays and edits the selected annotation: its label for
// text and callout drawings, color, stroke and lock.
type PropertySheet struct {
	state     *app.State
	container fyne.CanvasObject

	title      *widget.Label
	labelEntry *widget.Entry
	colorEntry *widget.SelectEntry
	strokeSel  *widget.Select
	lockCheck  *widget.Check
	selectedID string
	refreshing bool
}

// NewPropertySheet creates the property sheet for the selected annotation.
func NewPropertySheet(state *app.State) *PropertySheet {
	ps := &PropertySheet{state: state}
	ps.buildUI()

	state.On(app.EventAnnotationsChanged, func(data interface{}) {
		if c, ok := data.(annotation.Change); ok && c.Type == annotation.ChangeDraft {
			return
		}
		ps.Refresh()
	})
	ps.Refresh()
	return ps
}

// Container returns the panel container.
func (ps *PropertySheet) Container() fyne.CanvasObject {
	return ps.container
}

func (ps *PropertySheet) buildUI() {
	model := ps.state.Overlay.Model()

	ps.title = widget.NewLabel("")
	ps.title.TextStyle = fyne.TextStyle{Bold: true}

	ps.labelEntry = widget.NewEntry()
	ps.labelEntry.SetPlaceHolder("Text")
	ps.labelEntry.OnChanged = func(s string) {
		if ps.refreshing || ps.selectedID == "" {
			return
		}
		model.SetLabel(ps.selectedID, s)
	}

	ps.colorEntry = widget.NewSelectEntry(colorutil.Palette)
	ps.colorEntry.OnChanged = func(s string) {
		if ps.refreshing || ps.selectedID == "" {
			return
		}
		if _, err := colorutil.ParseHex(s); err != nil {
			return
		}
		model.SetColor(ps.selectedID, s)
	}

	names := make([]string, len(strokeStyles))
	for i, s := range strokeStyles {
		names[i] = s.String()
	}
	ps.strokeSel = widget.NewSelect(names, func(name string) {
		if ps.refreshing || ps.selectedID == "" {
			return
		}
		var style annotation.StrokeStyle
		if err := style.UnmarshalText([]byte(name)); err != nil {
			return
		}
		model.SetStroke(ps.selectedID, style)
	})

	ps.lockCheck = widget.NewCheck("Locked", func(locked bool) {
		if ps.refreshing || ps.selectedID == "" {
			return
		}
		model.SetLocked(ps.selectedID, locked)
	})

	form := widget.NewForm(
		widget.NewFormItem("Label", ps.labelEntry),
		widget.NewFormItem("Color", ps.colorEntry),
		widget.NewFormItem("Stroke", ps.strokeSel),
		widget.NewFormItem("", ps.lockCheck),
	)
	ps.container = container.NewVBox(widget.NewSeparator(), ps.title, form)
}

// Refresh loads the selected annotation into the fields.
func (ps *PropertySheet) Refresh() {
	ps.refreshing = true
	defer func() { ps.refreshing = false }()

	a, ok := ps.state.Overlay.Model().Selected()
	if !ok {
		ps.selectedID = ""
		ps.title.SetText("No selection")
		for _, w := range []fyne.Disableable{ps.labelEntry, ps.colorEntry, ps.strokeSel, ps.lockCheck} {
			w.Disable()
		}
		return
	}
	ps.selectedID = a.ID
	ps.title.SetText(fmt.Sprintf("%s (%s)", ToolTitle(a.Kind), a.ID))

	if ps.labelEntry.Text != a.Label {
		ps.labelEntry.SetText(a.Label)
	}
	if a.Kind.HasLabel() {
		ps.labelEntry.Enable()
	} else {
		ps.labelEntry.Disable()
	}

	if ps.colorEntry.Text != a.Color {
		ps.colorEntry.SetText(a.Color)
	}
	ps.colorEntry.Enable()

	ps.strokeSel.SetSelected(a.Stroke.String())
	ps.strokeSel.Enable()

	ps.lockCheck.SetChecked(a.Locked)
	ps.lockCheck.Enable()
}
