package render

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// ColorMode describes how colors reach the terminal.
type ColorMode uint8

const (
	ColorOff     ColorMode = iota // NO_COLOR or dumb terminal
	ColorANSI16                   // basic 16-color
	ColorANSI256                  // 256-color
	ColorTrue                     // 24-bit truecolor
)

var (
	detectOnce sync.Once
	termColor  ColorMode
)

// DetectColorMode checks terminal capabilities once per process.
func DetectColorMode() ColorMode {
	detectOnce.Do(func() {
		termColor = colorModeFromEnv(os.LookupEnv)
	})
	return termColor
}

func colorModeFromEnv(lookup func(string) (string, bool)) ColorMode {
	if _, ok := lookup("NO_COLOR"); ok {
		return ColorOff
	}
	term, _ := lookup("TERM")
	ct, _ := lookup("COLORTERM")
	term, ct = strings.ToLower(term), strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return ColorTrue
	case strings.Contains(term, "256color"):
		return ColorANSI256
	case term == "dumb":
		return ColorOff
	case term == "" && runtime.GOOS == "windows":
		return ColorANSI16
	case term == "":
		return ColorOff
	default:
		return ColorANSI16
	}
}

const asciiRamp = " .:-=+*#%@"

func brightnessChar(lum uint8) byte {
	return asciiRamp[int(lum)*(len(asciiRamp)-1)/255]
}

// luminance is ITU-R BT.601 in integer math.
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

const ansiReset = "\x1b[0m"

func fgSeq(mode ColorMode, r, g, b uint8) string { return colorSeq(mode, 38, r, g, b) }
func bgSeq(mode ColorMode, r, g, b uint8) string { return colorSeq(mode, 48, r, g, b) }

// colorSeq builds an SGR sequence; layer is 38 for foreground, 48 for
// background.
func colorSeq(mode ColorMode, layer int, r, g, b uint8) string {
	switch mode {
	case ColorTrue:
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, r, g, b)
	case ColorANSI256:
		ri := int(r) * 5 / 255
		gi := int(g) * 5 / 255
		bi := int(b) * 5 / 255
		return fmt.Sprintf("\x1b[%d;5;%dm", layer, 16+36*ri+6*gi+bi)
	case ColorANSI16:
		base := 30
		if layer == 48 {
			base = 40
		}
		i := nearestANSI16(r, g, b)
		if i < 8 {
			return fmt.Sprintf("\x1b[%dm", base+i)
		}
		return fmt.Sprintf("\x1b[%dm", base+60+i-8)
	default:
		return ""
	}
}

func nearestANSI16(r, g, b uint8) int {
	best := 0
	bestDist := 1<<31 - 1
	for i, c := range ansi16Palette {
		dr := int(r) - int(c[0])
		dg := int(g) - int(c[1])
		db := int(b) - int(c[2])
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

var ansi16Palette = [16][3]uint8{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}
