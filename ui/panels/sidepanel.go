// Package panels provides UI panels for the application.
package panels

import (
	"nibra-chart/internal/annotation"
	"nibra-chart/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ToolGroup is one section of the drawing toolbar.
type ToolGroup struct {
	Name  string
	Kinds []annotation.Kind
}

// ToolGroups lists the drawing tools in toolbar order.
var ToolGroups = []ToolGroup{
	{"Lines", []annotation.Kind{annotation.KindTrendline, annotation.KindRay, annotation.KindExtendedLine, annotation.KindInfoLine}},
	{"Fibonacci", []annotation.Kind{annotation.KindFibRetracement, annotation.KindFibExtension}},
	{"Shapes", []annotation.Kind{annotation.KindRectangle, annotation.KindCircle, annotation.KindTriangle}},
	{"Annotation", []annotation.Kind{annotation.KindText, annotation.KindCallout}},
	{"Prediction", []annotation.Kind{annotation.KindLongPosition, annotation.KindShortPosition, annotation.KindPriceRange}},
}

// SidePanel provides the side panel with the drawing tools and the object
// list in tabs.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	toolPanel     *ToolPanel
	objectsPanel  *ObjectsPanel
	propertySheet *PropertySheet
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.toolPanel = NewToolPanel(state)
	sp.objectsPanel = NewObjectsPanel(state)
	sp.propertySheet = NewPropertySheet(state)

	objects := container.NewBorder(nil, sp.propertySheet.Container(), nil, nil, sp.objectsPanel.Container())
	sp.container = container.NewAppTabs(
		container.NewTabItem("Draw", sp.toolPanel.Container()),
		container.NewTabItem("Objects", objects),
	)
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.toolPanel.window = w
}

// ToolPanel is the drawing toolbar: a cursor button, one button per tool
// grouped by category, and "remove all objects".
type ToolPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	buttons map[annotation.Tool]*widget.Button
}

// NewToolPanel creates the drawing toolbar.
func NewToolPanel(state *app.State) *ToolPanel {
	tp := &ToolPanel{
		state:   state,
		buttons: make(map[annotation.Tool]*widget.Button),
	}

	items := []fyne.CanvasObject{tp.toolButton(annotation.ToolCursor, "Cursor")}
	for _, g := range ToolGroups {
		items = append(items, widget.NewSeparator(), widget.NewLabelWithStyle(g.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, k := range g.Kinds {
			items = append(items, tp.toolButton(annotation.ToolFor(k), ToolTitle(k)))
		}
	}

	removeAll := widget.NewButtonWithIcon("Remove all objects", theme.DeleteIcon(), tp.confirmRemoveAll)
	removeAll.Importance = widget.DangerImportance
	items = append(items, widget.NewSeparator(), removeAll)

	tp.container = container.NewVScroll(container.NewVBox(items...))

	state.On(app.EventToolChanged, func(interface{}) { tp.refresh() })
	tp.refresh()
	return tp
}

// Container returns the panel container.
func (tp *ToolPanel) Container() fyne.CanvasObject {
	return tp.container
}

func (tp *ToolPanel) toolButton(tool annotation.Tool, title string) *widget.Button {
	btn := widget.NewButton(title, func() {
		// Clicking the active tool again returns to the cursor.
		if tp.state.Overlay.Tool() == tool && !tool.IsCursor() {
			tp.state.SetTool(annotation.ToolCursor)
			return
		}
		tp.state.SetTool(tool)
	})
	btn.Alignment = widget.ButtonAlignLeading
	tp.buttons[tool] = btn
	return btn
}

// refresh highlights the active tool.
func (tp *ToolPanel) refresh() {
	active := tp.state.Overlay.Tool()
	for tool, btn := range tp.buttons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (tp *ToolPanel) confirmRemoveAll() {
	if tp.window == nil {
		tp.RemoveAll()
		return
	}
	dialog.ShowConfirm("Remove all objects", "Remove every drawing from the chart?", func(ok bool) {
		if ok {
			tp.RemoveAll()
		}
	}, tp.window)
}

// RemoveAll deletes every annotation and any draft.
func (tp *ToolPanel) RemoveAll() {
	tp.state.Overlay.ClearAll()
}

// ToolTitle is the button title for a kind.
func ToolTitle(k annotation.Kind) string {
	switch k {
	case annotation.KindTrendline:
		return "Trend line"
	case annotation.KindRay:
		return "Ray"
	case annotation.KindExtendedLine:
		return "Extended line"
	case annotation.KindInfoLine:
		return "Info line"
	case annotation.KindFibRetracement:
		return "Fib retracement"
	case annotation.KindFibExtension:
		return "Fib extension"
	case annotation.KindRectangle:
		return "Rectangle"
	case annotation.KindCircle:
		return "Circle"
	case annotation.KindTriangle:
		return "Triangle"
	case annotation.KindText:
		return "Text"
	case annotation.KindCallout:
		return "Callout"
	case annotation.KindLongPosition:
		return "Long position"
	case annotation.KindShortPosition:
		return "Short position"
	case annotation.KindPriceRange:
		return "Price range"
	}
	return k.String()
}
