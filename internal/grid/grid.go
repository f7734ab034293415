package grid

import (
	"math"
	"time"
)

// Orientation is the pointing direction of a triangular cell.
type Orientation uint8

const (
	Up Orientation = iota
	Down
)

func (o Orientation) String() string {
	if o == Down {
		return "down"
	}
	return "up"
}

// Point is a position in viewport pixels.
type Point struct {
	X float64
	Y float64
}

// Cell is one triangular tile of the tessellation.
type Cell struct {
	Row         int
	Col         int
	Orientation Orientation
	Center      Point         // centroid
	Distance    float64       // from the viewport center, cached
	Delay       time.Duration // ripple offset before the cell starts revealing
	Color       ColorClass
	Glow        float64 // halo strength in [0.5, 1), hashed from the seed

	// Progress is rewritten every frame by the render loop.
	Progress float64
}

// Params tunes the parts of generation that are not pure geometry.
type Params struct {
	// Spread is the delay given to cells at (or beyond) maxDistance.
	Spread time.Duration
	// Jitter adds a hashed offset in [0, Jitter) to every delay.
	// Zero keeps delays non-decreasing in distance.
	Jitter time.Duration
	// Seed drives color and jitter hashing.
	Seed uint64
	Mix  ColorMix
}

// DefaultParams returns the parameters used by the intro.
func DefaultParams() Params {
	return Params{
		Spread: 1800 * time.Millisecond,
		Jitter: 0,
		Mix:    DefaultMix(),
	}
}

// Grid is one generated cell collection. A new Grid replaces the previous
// one wholesale on every generation pass.
type Grid struct {
	Width       float64
	Height      float64
	BaseSize    float64
	RowHeight   float64
	MaxDistance float64
	Spread      time.Duration
	Jitter      time.Duration
	Cells       []Cell

	rows, cols int
	minRow     int
	minCol     int
}

const margin = 2

// MaxCells bounds a single generation pass. Viewports that would need more
// cells, e.g. from a microscopic base size, produce an empty grid.
const MaxCells = 1 << 18

// Generate tiles a width x height viewport (plus a two-cell margin on every
// side) with equilateral triangles of side baseSize. It is pure: the same
// inputs always give the same cells. Non-positive dimensions, or a tiling
// larger than MaxCells, produce an empty grid.
func Generate(width, height, baseSize float64, p Params) Grid {
	g := Grid{
		Width:    width,
		Height:   height,
		BaseSize: baseSize,
		Spread:   p.Spread,
		Jitter:   p.Jitter,
	}
	if !(width > 0) || !(height > 0) || !(baseSize > 0) ||
		math.IsInf(width, 0) || math.IsInf(height, 0) || math.IsInf(baseSize, 0) {
		return g
	}
	if p.Mix == (ColorMix{}) {
		p.Mix = DefaultMix()
	}

	h := baseSize * math.Sqrt(3) / 2
	stride := baseSize / 2

	// Counted in floats so the check cannot overflow.
	nr := math.Ceil(height/h) + 2*margin
	nc := math.Ceil(width/stride) + 2*margin
	if nr*nc > MaxCells {
		return g
	}
	g.RowHeight = h

	rowEnd := int(nr) - margin
	colEnd := int(nc) - margin
	g.minRow, g.minCol = -margin, -margin
	g.rows = rowEnd + margin
	g.cols = colEnd + margin

	cx, cy := width/2, height/2
	g.MaxDistance = math.Hypot(cx, cy)

	g.Cells = make([]Cell, 0, g.rows*g.cols)
	for row := -margin; row < rowEnd; row++ {
		for col := -margin; col < colEnd; col++ {
			c := Cell{Row: row, Col: col, Orientation: orientationAt(row, col)}
			x := float64(col) * stride
			top := float64(row) * h
			if c.Orientation == Up {
				c.Center = Point{X: x, Y: top + 2*h/3}
			} else {
				c.Center = Point{X: x, Y: top + h/3}
			}
			c.Distance = math.Hypot(c.Center.X-cx, c.Center.Y-cy)
			c.Delay = g.delay(c, p.Seed)
			c.Color = p.Mix.classify(row, col, p.Seed)
			c.Glow = 0.5 + 0.5*unit(hash2(row, col, p.Seed^glowSalt))
			g.Cells = append(g.Cells, c)
		}
	}
	return g
}

func orientationAt(row, col int) Orientation {
	if (row+col)%2 == 0 {
		return Up
	}
	return Down
}

func (g *Grid) delay(c Cell, seed uint64) time.Duration {
	ratio := c.Distance / g.MaxDistance
	if ratio > 1 {
		ratio = 1
	}
	d := time.Duration(ratio * float64(g.Spread))
	if g.Jitter > 0 {
		d += time.Duration(unit(hash2(c.Row, c.Col, seed^jitterSalt)) * float64(g.Jitter))
	}
	return d
}

// MaxDelay is the largest delay any cell of the grid can carry.
func (g *Grid) MaxDelay() time.Duration {
	return g.Spread + g.Jitter
}

// Len reports the number of cells.
func (g *Grid) Len() int { return len(g.Cells) }

// Lookup returns the cell at (row, col).
func (g *Grid) Lookup(row, col int) (*Cell, bool) {
	r, c := row-g.minRow, col-g.minCol
	if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
		return nil, false
	}
	return &g.Cells[r*g.cols+c], true
}

// Vertices returns the three corners of c: apex first, then the base from
// left to right.
func (g *Grid) Vertices(c Cell) [3]Point {
	half := g.BaseSize / 2
	x := float64(c.Col) * half
	top := float64(c.Row) * g.RowHeight
	bottom := top + g.RowHeight
	if c.Orientation == Up {
		return [3]Point{{x, top}, {x - half, bottom}, {x + half, bottom}}
	}
	return [3]Point{{x, bottom}, {x - half, top}, {x + half, top}}
}

// Contains reports whether (x, y) lies inside c or on its boundary.
func (g *Grid) Contains(c Cell, x, y float64) bool {
	v := g.Vertices(c)
	const eps = 1e-9
	d1 := edgeSign(x, y, v[0], v[1])
	d2 := edgeSign(x, y, v[1], v[2])
	d3 := edgeSign(x, y, v[2], v[0])
	neg := d1 < -eps || d2 < -eps || d3 < -eps
	pos := d1 > eps || d2 > eps || d3 > eps
	return !(neg && pos)
}

func edgeSign(x, y float64, a, b Point) float64 {
	return (x-b.X)*(a.Y-b.Y) - (a.X-b.X)*(y-b.Y)
}

// BaseSizeFor picks a triangle size for a viewport width so narrow
// viewports still get a dense tiling.
func BaseSizeFor(width float64) float64 {
	switch {
	case width < 480:
		return 48
	case width < 768:
		return 60
	default:
		return 80
	}
}
