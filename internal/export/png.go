// Package export writes overlay snapshots: a PNG of a rendered scene and
// the annotation list as JSON.
package export

import (
	"image"
	"io"
	"os"
	"sync"

	"nibra-chart/internal/render"
	"nibra-chart/pkg/colorutil"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/goregular"
)

var log = logrus.WithField("component", "export")

// LabelSize is the label font size in points.
const LabelSize = 10

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func labelFace() (text.Face, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	if fontErr != nil {
		return nil, errors.Wrap(fontErr, "load label font")
	}
	return fontSource.Face(LabelSize), nil
}

// Canvas describes the snapshot surface.
type Canvas struct {
	Width      int
	Height     int
	Background string
}

// Rasterize paints scene onto a new image of the canvas size.
func Rasterize(scene render.Scene, c Canvas) (image.Image, error) {
	dc, err := paint(scene, c)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// WritePNG paints scene and encodes it as PNG to w.
func WritePNG(w io.Writer, scene render.Scene, c Canvas) error {
	dc, err := paint(scene, c)
	if err != nil {
		return err
	}
	defer dc.Close()
	return errors.Wrap(dc.EncodePNG(w), "encode png")
}

// SavePNG writes the snapshot to path.
func SavePNG(path string, scene render.Scene, c Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	if err := WritePNG(f, scene, c); err != nil {
		f.Close()
		return err
	}
	log.Infof("wrote %dx%d snapshot to %s", c.Width, c.Height, path)
	return errors.Wrap(f.Close(), "close snapshot")
}

func paint(scene render.Scene, c Canvas) (*gg.Context, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, errors.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	face, err := labelFace()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(c.Width, c.Height)
	dc.ClearWithColor(gg.FromColor(colorutil.HexOr(c.Background, colorutil.White)))
	dc.SetFont(face)

	for _, p := range scene.Primitives {
		if p.Invisible {
			continue
		}
		if err := paintPrimitive(dc, p); err != nil {
			dc.Close()
			return nil, errors.Wrapf(err, "paint %s", p.AnnotationID)
		}
	}
	return dc, nil
}

func paintPrimitive(dc *gg.Context, p render.Primitive) error {
	if t, ok := p.Shape.(render.TextShape); ok {
		dc.SetColor(p.Stroke)
		dc.DrawString(t.Text, t.At.X, t.At.Y)
		return nil
	}

	if !tracePath(dc, p.Shape) {
		return nil
	}
	if p.Filled() {
		dc.SetColor(p.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if p.StrokeWidth <= 0 || p.Stroke.A == 0 {
		dc.ClearPath()
		return nil
	}
	dc.SetColor(p.Stroke)
	dc.SetLineWidth(p.StrokeWidth)
	dc.SetDash(p.Dash...)
	return dc.Stroke()
}

// tracePath appends the primitive outline to the current path.
func tracePath(dc *gg.Context, s render.Shape) bool {
	switch s := s.(type) {
	case render.RectShape:
		dc.DrawRectangle(s.X, s.Y, s.Width, s.Height)
	case render.LineShape:
		dc.DrawLine(s.From.X, s.From.Y, s.To.X, s.To.Y)
	case render.CircleShape:
		dc.DrawCircle(s.Center.X, s.Center.Y, s.Radius)
	case render.PolygonShape:
		if len(s.Points) == 0 {
			return false
		}
		dc.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, pt := range s.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
	default:
		return false
	}
	return true
}
