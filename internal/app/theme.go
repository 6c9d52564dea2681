package app

import (
	"image/color"

	"nibra-chart/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ChartTheme is the light workstation theme: accent blue primary, chart
// text color for foreground.
type ChartTheme struct {
	Text string
}

var _ fyne.Theme = (*ChartTheme)(nil)

func (t *ChartTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return colorutil.Accent
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Accent, 0.25)
	case theme.ColorNameForeground:
		if t.Text != "" {
			return colorutil.HexOr(t.Text, colorutil.Black)
		}
		return theme.DefaultTheme().Color(name, theme.VariantLight)
	default:
		return theme.DefaultTheme().Color(name, theme.VariantLight)
	}
}

func (t *ChartTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ChartTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ChartTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInlineIcon:
		return 18
	default:
		return theme.DefaultTheme().Size(name)
	}
}
