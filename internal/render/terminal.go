package render

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Terminal turns a painted surface into a string of terminal cells.
//   - Color (half-block): "▀" with fg = upper pixel, bg = lower pixel, two
//     pixel rows per terminal row.
//   - ASCII (no color): one brightness character per cell.
type Terminal struct {
	mode ColorMode
	buf  *image.RGBA
	sb   strings.Builder
}

// NewTerminal renders with the terminal's detected color capabilities.
func NewTerminal() *Terminal {
	return NewTerminalMode(DetectColorMode())
}

// NewTerminalMode renders with a fixed color mode.
func NewTerminalMode(mode ColorMode) *Terminal {
	return &Terminal{mode: mode}
}

// Mode returns the color mode in use.
func (t *Terminal) Mode() ColorMode { return t.mode }

// PixelRows is how many raster rows a terminal row stands for.
func (t *Terminal) PixelRows() int {
	if t.mode == ColorOff {
		return 1
	}
	return 2
}

// Render scales src down to cols x rows cells and encodes it.
func (t *Terminal) Render(src image.Image, cols, rows int) string {
	if src == nil || cols <= 0 || rows <= 0 || src.Bounds().Empty() {
		return ""
	}
	pw, ph := cols, rows*t.PixelRows()
	if t.buf == nil || t.buf.Bounds().Dx() != pw || t.buf.Bounds().Dy() != ph {
		t.buf = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
	draw.BiLinear.Scale(t.buf, t.buf.Bounds(), src, src.Bounds(), draw.Src, nil)

	t.sb.Reset()
	t.sb.Grow(cols * rows * 24)
	if t.mode == ColorOff {
		t.renderASCII(cols, rows)
	} else {
		t.renderHalfBlock(cols, rows)
	}
	return t.sb.String()
}

func (t *Terminal) renderHalfBlock(cols, rows int) {
	var lastFg, lastBg string
	for row := range rows {
		for col := range cols {
			tr, tg, tb := t.pixel(col, row*2)
			br, bg, bb := t.pixel(col, row*2+1)

			fg := fgSeq(t.mode, tr, tg, tb)
			bgc := bgSeq(t.mode, br, bg, bb)
			if fg != lastFg {
				t.sb.WriteString(fg)
				lastFg = fg
			}
			if bgc != lastBg {
				t.sb.WriteString(bgc)
				lastBg = bgc
			}
			t.sb.WriteString("▀")
		}
		t.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < rows-1 {
			t.sb.WriteByte('\n')
		}
	}
}

func (t *Terminal) renderASCII(cols, rows int) {
	for row := range rows {
		for col := range cols {
			r, g, b := t.pixel(col, row)
			t.sb.WriteByte(brightnessChar(luminance(r, g, b)))
		}
		if row < rows-1 {
			t.sb.WriteByte('\n')
		}
	}
}

func (t *Terminal) pixel(x, y int) (uint8, uint8, uint8) {
	off := t.buf.PixOffset(x, y)
	p := t.buf.Pix
	return p[off], p[off+1], p[off+2]
}
