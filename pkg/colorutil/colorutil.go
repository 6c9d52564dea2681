// Package colorutil provides shared color utilities for the chart workstation.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Chart colors used throughout the application.
var (
	Black  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Gray   = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	Accent = color.NRGBA{R: 0x29, G: 0x62, B: 0xff, A: 255} // #2962ff
	Loss   = color.NRGBA{R: 0xf2, G: 0x36, B: 0x45, A: 255} // #f23645
	Profit = color.NRGBA{R: 0x08, G: 0x99, B: 0x81, A: 255} // #089981
)

// AccentHex is the default annotation color.
const AccentHex = "#2962ff"

// Palette is the cycle of colors offered by the selection toolbar.
var Palette = []string{
	AccentHex,
	"#f23645",
	"#089981",
	"#ff9800",
	"#9c27b0",
	"#131722",
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" into a color.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, errors.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid hex color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// HexOr parses s and falls back to def when s is not a valid color.
func HexOr(s string, def color.NRGBA) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		return def
	}
	return c
}

// ToHex formats a color as "#rrggbb", dropping the alpha channel.
func ToHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// WithAlpha returns c with its alpha replaced by opacity (0-1).
func WithAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}

// Blend composites src over an opaque dst pixel.
func Blend(dst color.RGBA, src color.NRGBA) color.RGBA {
	if src.A == 255 {
		return color.RGBA{R: src.R, G: src.G, B: src.B, A: 255}
	}
	if src.A == 0 {
		return dst
	}
	a := float64(src.A) / 255
	inv := 1 - a
	return color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*inv),
		G: uint8(float64(src.G)*a + float64(dst.G)*inv),
		B: uint8(float64(src.B)*a + float64(dst.B)*inv),
		A: 255,
	}
}
