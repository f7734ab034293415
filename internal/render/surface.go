package render

import (
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/olivier-w/tessera/internal/grid"
)

var sqrt3 = math.Sqrt(3)

// Surface is the drawing target for one viewport. Geometry is given in
// viewport pixels and mapped onto the canvas by scale, so a large viewport
// can be painted onto a small raster.
type Surface struct {
	dc    *gg.Context
	scale float64
}

// NewSurface allocates a canvas of width x height pixels that paints
// viewport coordinates multiplied by scale.
func NewSurface(width, height int, scale float64) *Surface {
	if width <= 0 || height <= 0 || scale <= 0 {
		return nil
	}
	return &Surface{dc: gg.NewContext(width, height), scale: scale}
}

// Ready reports whether the surface can be painted.
func (s *Surface) Ready() bool {
	return s != nil && s.dc != nil && s.dc.Width() > 0 && s.dc.Height() > 0
}

// Resize changes the canvas size and scale, reusing buffers when possible.
func (s *Surface) Resize(width, height int, scale float64) error {
	s.scale = scale
	return s.dc.Resize(width, height)
}

// Width is the canvas width in raster pixels.
func (s *Surface) Width() int { return s.dc.Width() }

// Height is the canvas height in raster pixels.
func (s *Surface) Height() int { return s.dc.Height() }

// Image returns the painted pixels.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the current frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// Close releases the canvas. Close on a nil or closed surface is a no-op.
func (s *Surface) Close() error {
	if s == nil || s.dc == nil {
		return nil
	}
	err := s.dc.Close()
	s.dc = nil
	return err
}

func (s *Surface) background(top, bottom gg.RGBA) error {
	w, h := float64(s.dc.Width()), float64(s.dc.Height())
	s.dc.ClearWithColor(top)
	s.dc.SetFillBrush(gg.NewLinearGradientBrush(0, 0, 0, h).
		AddColorStop(0, top).
		AddColorStop(1, bottom))
	s.dc.DrawRectangle(0, 0, w, h)
	return s.dc.Fill()
}

// glow paints a soft radial light centered at (x, y) in viewport pixels.
func (s *Surface) glow(x, y, radius float64, c gg.RGBA, alpha float64) error {
	if radius <= 0 || alpha <= 0 {
		return nil
	}
	cx, cy, r := x*s.scale, y*s.scale, radius*s.scale
	s.dc.SetFillBrush(gg.NewRadialGradientBrush(cx, cy, 0, r).
		AddColorStop(0, withAlpha(c, alpha)).
		AddColorStop(0.45, withAlpha(c, alpha*0.35)).
		AddColorStop(1, withAlpha(c, 0)))
	s.dc.DrawCircle(cx, cy, r)
	return s.dc.Fill()
}

// triangle fills pts shrunk toward center by k (1 paints the full cell) and
// strokes its edge when edge is visible. lineWidth is in viewport pixels.
func (s *Surface) triangle(pts [3]grid.Point, center grid.Point, k float64, fill, edge gg.RGBA, lineWidth float64) error {
	s.path(pts, center, k)
	s.dc.SetRGBA(fill.R, fill.G, fill.B, fill.A)
	if edge.A <= 0 || lineWidth <= 0 {
		return s.dc.Fill()
	}
	if err := s.dc.FillPreserve(); err != nil {
		return err
	}
	s.dc.SetRGBA(edge.R, edge.G, edge.B, edge.A)
	s.dc.SetLineWidth(max(lineWidth*s.scale, 0.5))
	s.dc.SetLineJoin(gg.LineJoinRound)
	return s.dc.Stroke()
}

// logo fills an upright triangle of the given side centered on (cx, cy)
// with a diagonal gradient from a to b.
func (s *Surface) logo(cx, cy, side float64, a, b gg.RGBA, alpha float64) error {
	if side <= 0 || alpha <= 0 {
		return nil
	}
	h := side * sqrt3 / 2
	pts := [3]grid.Point{
		{X: cx, Y: cy - 2*h/3},
		{X: cx + side/2, Y: cy + h/3},
		{X: cx - side/2, Y: cy + h/3},
	}
	s.path(pts, grid.Point{X: cx, Y: cy}, 1)
	s.dc.SetFillBrush(gg.NewLinearGradientBrush(
		(cx-side/2)*s.scale, (cy-2*h/3)*s.scale,
		(cx+side/2)*s.scale, (cy+h/3)*s.scale).
		AddColorStop(0, withAlpha(a, alpha)).
		AddColorStop(1, withAlpha(b, alpha)))
	return s.dc.Fill()
}

func (s *Surface) path(pts [3]grid.Point, center grid.Point, k float64) {
	for i, p := range pts {
		x := (center.X + (p.X-center.X)*k) * s.scale
		y := (center.Y + (p.Y-center.Y)*k) * s.scale
		if i == 0 {
			s.dc.MoveTo(x, y)
			continue
		}
		s.dc.LineTo(x, y)
	}
	s.dc.ClosePath()
}
