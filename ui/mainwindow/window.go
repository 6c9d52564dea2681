// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/app"
	"nibra-chart/internal/export"
	"nibra-chart/internal/marketdata"
	"nibra-chart/internal/selection"
	"nibra-chart/internal/version"
	"nibra-chart/ui/canvas"
	"nibra-chart/ui/panels"
	"nibra-chart/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "mainwindow")

const appTitle = "Nibra Chart"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.ChartCanvas
	sidePanel *panels.SidePanel
	topBar    *panels.TopBar
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()
	mw.updateTitle()

	win.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1280)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 800)),
	))
	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		win.Close()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewChartCanvas(mw.state)

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.SetWindow(mw.Window)

	mw.topBar = panels.NewTopBar(mw.state)
	mw.topBar.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	split := container.NewHSplit(mw.sidePanel.Container(), mw.canvas)
	split.SetOffset(0.18)

	content := container.NewBorder(
		mw.topBar.Container(),             // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Drawings...", mw.onImportAnnotations),
		fyne.NewMenuItem("Export Drawings...", mw.onExportAnnotations),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Drawings as PNG...", mw.onExportPNG),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Cancel Drawing", mw.onCancel),
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
		fyne.NewMenuItem("Toggle Lock", func() { mw.state.Overlay.Dispatch(selection.ActionLock) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Remove All Objects", mw.onRemoveAll),
	)

	var chartItems []*fyne.MenuItem
	for _, ct := range marketdata.ChartTypes {
		ct := ct
		chartItems = append(chartItems, fyne.NewMenuItem(string(ct), func() { mw.state.SetChartType(ct) }))
	}
	viewMenu := fyne.NewMenu("View", chartItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupKeys binds Escape to cancel a draft (or clear the selection) and
// Delete/Backspace to remove the selected annotation.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		mw.HandleKey(ev.Name)
	})
}

// HandleKey runs the key binding for name.
func (mw *MainWindow) HandleKey(name fyne.KeyName) {
	switch name {
	case fyne.KeyEscape:
		mw.onCancel()
	case fyne.KeyDelete, fyne.KeyBackspace:
		mw.onDeleteSelected()
	}
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSymbolChanged, func(interface{}) { mw.updateTitle() })
	mw.state.On(app.EventTimeframeChanged, func(interface{}) { mw.updateTitle() })

	mw.state.On(app.EventToolChanged, func(data interface{}) {
		if t, ok := data.(annotation.Tool); ok {
			mw.updateStatus("Tool: " + toolName(t))
		}
	})

	mw.state.On(app.EventAnnotationsChanged, func(data interface{}) {
		c, ok := data.(annotation.Change)
		if !ok || c.Type == annotation.ChangeDraft {
			return
		}
		mw.updateStatus(fmt.Sprintf("%d objects", mw.state.Overlay.Model().Len()))
	})

	mw.state.On(app.EventChartTypeChanged, func(data interface{}) {
		if ct, ok := data.(marketdata.ChartType); ok {
			mw.prefs.SetString(prefs.KeyChartType, string(ct))
		}
	})
}

func toolName(t annotation.Tool) string {
	k, ok := t.Kind()
	if !ok {
		return "Cursor"
	}
	return panels.ToolTitle(k)
}

func (mw *MainWindow) updateTitle() {
	symbol, tf := mw.state.Instrument()
	mw.SetTitle(fmt.Sprintf("%s - %s, %s", appTitle, symbol, tf))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// StatusText returns the status bar text.
func (mw *MainWindow) StatusText() string {
	return mw.statusBar.Text
}

// SavePreferences records the window size and writes preferences if any
// value changed.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	if err := mw.prefs.SaveIfChanged(); err != nil {
		log.WithError(err).Warn("saving preferences")
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onCancel() {
	if mw.state.Overlay.Cancel() {
		mw.updateStatus("Drawing cancelled")
		return
	}
	mw.state.Overlay.Model().Deselect()
}

func (mw *MainWindow) onDeleteSelected() {
	if mw.state.Overlay.DeleteSelected() {
		mw.updateStatus("Deleted")
	}
}

func (mw *MainWindow) onRemoveAll() {
	dialog.ShowConfirm("Remove all objects", "Remove every drawing from the chart?", func(ok bool) {
		if ok {
			mw.state.Overlay.ClearAll()
		}
	}, mw.Window)
}

// Document returns the current drawings as an export document.
func (mw *MainWindow) Document() export.Document {
	symbol, tf := mw.state.Instrument()
	return export.Document{
		Symbol:      symbol,
		Timeframe:   string(tf),
		Annotations: mw.state.Overlay.Annotations(),
	}
}

func (mw *MainWindow) onImportAnnotations() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		doc, err := export.LoadAnnotations(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.Overlay.Load(doc.Annotations)
		mw.updateStatus(fmt.Sprintf("Imported %d drawings from %s", len(doc.Annotations), filepath.Base(path)))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportAnnotations() {
	mw.saveAs("drawings.json", ".json", func(path string) error {
		return export.SaveAnnotations(path, mw.Document())
	})
}

func (mw *MainWindow) onExportPNG() {
	mw.saveAs("drawings.png", ".png", func(path string) error {
		size := mw.canvas.Size()
		_, _, _, settings := mw.state.Snapshot()
		return export.SavePNG(path, mw.state.Overlay.Scene(), export.Canvas{
			Width:      int(size.Width),
			Height:     int(size.Height),
			Background: settings.Background,
		})
	})
}

// saveAs asks for a destination and runs save on it.
func (mw *MainWindow) saveAs(name, ext string, save func(path string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ext {
			path += ext
		}
		mw.saveLastDir(path)
		if err := save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Saved " + path)
	}, mw.Window)
	fd.SetFileName(name)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"A charting workstation with drawing tools.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
