package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/render"
	"nibra-chart/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func sample() []annotation.Annotation {
	return []annotation.Annotation{
		{
			ID:     "drawing-1",
			Kind:   annotation.KindRectangle,
			Points: []geometry.Point2D{{X: 10, Y: 10}, {X: 110, Y: 60}},
			Color:  "#2962ff",
		},
		{
			ID:     "drawing-2",
			Kind:   annotation.KindLongPosition,
			Points: []geometry.Point2D{{X: 150, Y: 100}, {X: 190, Y: 120}},
			Color:  "#2962ff",
			Locked: true,
		},
	}
}

func TestWritePNG(t *testing.T) {
	scene := render.Build(sample(), nil, "drawing-1", render.DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, scene, Canvas{Width: 200, Height: 160, Background: "#ffffff"}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 160), img.Bounds())

	bg := nrgbaAt(img, 5, 150)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, bg)

	inside := nrgbaAt(img, 60, 35)
	assert.NotEqual(t, bg, inside)
	assert.Greater(t, inside.B, inside.R, "translucent accent fill")
}

func TestRasterize_InvalidCanvas(t *testing.T) {
	_, err := Rasterize(render.Scene{}, Canvas{Width: 0, Height: 10})
	assert.Error(t, err)
}

func TestAnnotationsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnnotations(&buf, Document{Symbol: "EURUSD", Timeframe: "1h", Annotations: sample()}))
	assert.Contains(t, buf.String(), `"kind": "longPosition"`)

	doc, err := ReadAnnotations(&buf)
	require.NoError(t, err)
	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, "EURUSD", doc.Symbol)
	assert.Equal(t, sample(), doc.Annotations)
}

func TestReadAnnotations_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", `{"annotations": [`},
		{"kind", `{"version":1,"annotations":[{"id":"a","kind":"spiral","points":[]}]}`},
		{"version", `{"version":9,"annotations":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAnnotations(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadFiles(t *testing.T) {
	dir := t.TempDir()
	scene := render.Build(sample(), nil, "", render.DefaultOptions())

	require.NoError(t, SavePNG(filepath.Join(dir, "chart.png"), scene, Canvas{Width: 64, Height: 64}))
	require.NoError(t, SaveAnnotations(filepath.Join(dir, "chart.json"), Document{}))

	doc, err := LoadAnnotations(filepath.Join(dir, "chart.json"))
	require.NoError(t, err)
	assert.Empty(t, doc.Annotations)

	_, err = LoadAnnotations(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
