package render

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/tessera/internal/grid"
)

// Palette holds the colors a frame is painted with.
type Palette struct {
	Top     gg.RGBA // background gradient
	Bottom  gg.RGBA
	Primary gg.RGBA
	Accent  gg.RGBA
	Blend   gg.RGBA
	Glow    gg.RGBA
}

// NewPalette builds a palette from hex colors. The blend color sits halfway
// between primary and accent in Lab space.
func NewPalette(top, bottom, primary, accent, glow string) (Palette, error) {
	hexes := []string{top, bottom, primary, accent, glow}
	cols := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("palette color %q: %w", h, err)
		}
		cols[i] = c
	}
	blend := cols[2].BlendLab(cols[3], 0.5).Clamped()
	return Palette{
		Top:     toRGBA(cols[0]),
		Bottom:  toRGBA(cols[1]),
		Primary: toRGBA(cols[2]),
		Accent:  toRGBA(cols[3]),
		Blend:   toRGBA(blend),
		Glow:    toRGBA(cols[4]),
	}, nil
}

// DefaultPalette is deep navy with cyan and violet tiles.
func DefaultPalette() Palette {
	p, err := NewPalette("#050816", "#0b1030", "#0ea5e9", "#a855f7", "#38bdf8")
	if err != nil {
		panic(err)
	}
	return p
}

// Class returns the fill color for a cell color class.
func (p Palette) Class(c grid.ColorClass) gg.RGBA {
	switch c {
	case grid.Accent:
		return p.Accent
	case grid.Blend:
		return p.Blend
	default:
		return p.Primary
	}
}

func toRGBA(c colorful.Color) gg.RGBA {
	return gg.RGB(c.R, c.G, c.B)
}

func withAlpha(c gg.RGBA, a float64) gg.RGBA {
	c.A = clamp01(a)
	return c
}
