// Package dialogs provides application dialogs.
package dialogs

import (
	"nibra-chart/internal/config"
	"nibra-chart/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ChartSettingsDialog edits the chart color theme. Each color is a hex
// entry with a live swatch.
type ChartSettingsDialog struct {
	settings config.ChartSettings
	window   fyne.Window

	fields []*colorField

	onSave func(config.ChartSettings)
}

type colorField struct {
	label  string
	target *string
	entry  *widget.Entry
	swatch *fynecanvas.Rectangle
}

// NewChartSettingsDialog creates the dialog around a copy of settings.
func NewChartSettingsDialog(settings config.ChartSettings, window fyne.Window, onSave func(config.ChartSettings)) *ChartSettingsDialog {
	d := &ChartSettingsDialog{
		settings: settings,
		window:   window,
		onSave:   onSave,
	}
	d.fields = []*colorField{
		{label: "Background", target: &d.settings.Background},
		{label: "Grid", target: &d.settings.Grid},
		{label: "Candle up", target: &d.settings.CandleUp},
		{label: "Candle down", target: &d.settings.CandleDown},
		{label: "Wick up", target: &d.settings.WickUp},
		{label: "Wick down", target: &d.settings.WickDown},
		{label: "Text", target: &d.settings.Text},
	}
	return d
}

// ShowChartSettings opens the dialog and calls onSave with valid settings.
func ShowChartSettings(settings config.ChartSettings, onSave func(config.ChartSettings), window fyne.Window) {
	NewChartSettingsDialog(settings, window, onSave).Show()
}

// Show displays the dialog.
func (d *ChartSettingsDialog) Show() {
	dlg := dialog.NewCustomConfirm("Chart Settings", "Save", "Cancel", d.createContent(), func(save bool) {
		if !save {
			return
		}
		settings, err := d.Apply()
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if d.onSave != nil {
			d.onSave(settings)
		}
	}, d.window)
	dlg.Resize(fyne.NewSize(360, 420))
	dlg.Show()
}

func (d *ChartSettingsDialog) createContent() fyne.CanvasObject {
	form := widget.NewForm()
	for _, f := range d.fields {
		f := f
		f.swatch = fynecanvas.NewRectangle(colorutil.HexOr(*f.target, colorutil.Gray))
		f.swatch.SetMinSize(fyne.NewSize(40, 24))

		f.entry = widget.NewEntry()
		f.entry.SetText(*f.target)
		f.entry.Validator = func(s string) error {
			_, err := colorutil.ParseHex(s)
			return err
		}
		f.entry.OnChanged = func(string) { d.updateSwatch(f) }

		form.Append(f.label, container.NewBorder(nil, nil, nil, f.swatch, f.entry))
	}

	reset := widget.NewButton("Reset to defaults", func() {
		defaults := config.DefaultChartSettings()
		values := []string{
			defaults.Background, defaults.Grid, defaults.CandleUp, defaults.CandleDown,
			defaults.WickUp, defaults.WickDown, defaults.Text,
		}
		for i, f := range d.fields {
			f.entry.SetText(values[i])
		}
	})
	return container.NewVBox(form, reset)
}

// Apply copies the entries into the settings and validates them.
func (d *ChartSettingsDialog) Apply() (config.ChartSettings, error) {
	for _, f := range d.fields {
		if f.entry != nil {
			*f.target = f.entry.Text
		}
	}
	if err := d.settings.Validate(); err != nil {
		return config.ChartSettings{}, err
	}
	return d.settings, nil
}

func (d *ChartSettingsDialog) updateSwatch(f *colorField) {
	if c, err := colorutil.ParseHex(f.entry.Text); err == nil {
		f.swatch.FillColor = c
		fynecanvas.Refresh(f.swatch)
	}
}
