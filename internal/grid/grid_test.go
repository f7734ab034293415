package grid

import (
	"math"
	"math/rand"
	"sort"
	"testing"
	"time"
)

func TestGenerateCoversViewport(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	viewports := []struct {
		w, h, base float64
	}{
		{1024, 768, 80},
		{333, 97, 13.7},
		{1, 1, 80},
		{1920, 1080, 48},
	}

	for _, vp := range viewports {
		g := Generate(vp.w, vp.h, vp.base, DefaultParams())
		if g.Len() == 0 {
			t.Fatalf("%vx%v base %v: expected cells", vp.w, vp.h, vp.base)
		}
		for i := 0; i < 400; i++ {
			x := rng.Float64() * vp.w
			y := rng.Float64() * vp.h
			if !covered(&g, x, y) {
				t.Fatalf("%vx%v base %v: point (%.3f, %.3f) not covered", vp.w, vp.h, vp.base, x, y)
			}
		}
		for _, corner := range [][2]float64{{0, 0}, {vp.w, 0}, {0, vp.h}, {vp.w, vp.h}} {
			if !covered(&g, corner[0], corner[1]) {
				t.Fatalf("%vx%v base %v: corner %v not covered", vp.w, vp.h, vp.base, corner)
			}
		}
	}
}

func covered(g *Grid, x, y float64) bool {
	for _, c := range g.Cells {
		if g.Contains(c, x, y) {
			return true
		}
	}
	return false
}

func TestGenerateNoOverlap(t *testing.T) {
	g := Generate(400, 300, 50, DefaultParams())
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		x := rng.Float64() * 400
		y := rng.Float64() * 300
		hits := 0
		for _, c := range g.Cells {
			if strictlyInside(&g, c, x, y) {
				hits++
			}
		}
		if hits > 1 {
			t.Fatalf("point (%.3f, %.3f) strictly inside %d cells", x, y, hits)
		}
	}
}

func strictlyInside(g *Grid, c Cell, x, y float64) bool {
	v := g.Vertices(c)
	const eps = 1e-6
	d1 := edgeSign(x, y, v[0], v[1])
	d2 := edgeSign(x, y, v[1], v[2])
	d3 := edgeSign(x, y, v[2], v[0])
	return (d1 > eps && d2 > eps && d3 > eps) || (d1 < -eps && d2 < -eps && d3 < -eps)
}

func TestNeighboursShareEdges(t *testing.T) {
	g := Generate(300, 200, 40, DefaultParams())
	for _, c := range g.Cells {
		right, ok := g.Lookup(c.Row, c.Col+1)
		if !ok {
			continue
		}
		a := g.Vertices(c)
		b := g.Vertices(*right)
		shared := 0
		for _, p := range a {
			for _, q := range b {
				if math.Abs(p.X-q.X) < 1e-9 && math.Abs(p.Y-q.Y) < 1e-9 {
					shared++
				}
			}
		}
		if shared != 2 {
			t.Fatalf("cells (%d,%d) and (%d,%d) share %d vertices, want 2", c.Row, c.Col, right.Row, right.Col, shared)
		}
	}
}

func TestOrientationAlternates(t *testing.T) {
	g := Generate(640, 480, 60, DefaultParams())
	for _, c := range g.Cells {
		for _, d := range [][2]int{{0, 1}, {1, 0}} {
			n, ok := g.Lookup(c.Row+d[0], c.Col+d[1])
			if !ok {
				continue
			}
			if n.Orientation == c.Orientation {
				t.Fatalf("cells (%d,%d) and (%d,%d) both %v", c.Row, c.Col, n.Row, n.Col, c.Orientation)
			}
		}
	}
}

func TestDelayMonotonicInDistance(t *testing.T) {
	g := Generate(1280, 720, 64, Params{Spread: 2 * time.Second, Seed: 99})
	cells := append([]Cell(nil), g.Cells...)
	sort.Slice(cells, func(i, j int) bool { return cells[i].Distance < cells[j].Distance })
	for i := 1; i < len(cells); i++ {
		if cells[i].Delay < cells[i-1].Delay {
			t.Fatalf("delay decreased: %v at %.2f after %v at %.2f",
				cells[i].Delay, cells[i].Distance, cells[i-1].Delay, cells[i-1].Distance)
		}
	}
	if got := cells[0].Delay; got < 0 {
		t.Fatalf("negative delay %v", got)
	}
	if got := cells[len(cells)-1].Delay; got > g.MaxDelay() {
		t.Fatalf("delay %v exceeds max %v", got, g.MaxDelay())
	}
}

func TestJitterIsBounded(t *testing.T) {
	p := Params{Spread: time.Second, Jitter: 120 * time.Millisecond, Seed: 5}
	g := Generate(800, 600, 80, p)
	plain := Generate(800, 600, 80, Params{Spread: time.Second, Seed: 5})
	for i, c := range g.Cells {
		extra := c.Delay - plain.Cells[i].Delay
		if extra < 0 || extra >= p.Jitter {
			t.Fatalf("cell (%d,%d) jitter %v outside [0, %v)", c.Row, c.Col, extra, p.Jitter)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	p := Params{Spread: time.Second, Jitter: 50 * time.Millisecond, Seed: 1234, Mix: DefaultMix()}
	a := Generate(1024, 768, 80, p)
	b := Generate(1024, 768, 80, p)
	if a.Len() != b.Len() {
		t.Fatalf("cell counts differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("cell %d differs: %+v vs %+v", i, a.Cells[i], b.Cells[i])
		}
	}
}

func TestGenerateCellCount(t *testing.T) {
	g := Generate(1024, 768, 80, DefaultParams())
	h := 80 * math.Sqrt(3) / 2
	want := (int(math.Ceil(768/h)) + 4) * (int(math.Ceil(1024.0/40)) + 4)
	if g.Len() != want {
		t.Fatalf("expected %d cells, got %d", want, g.Len())
	}
	if want != 16*30 {
		t.Fatalf("expected 16x30 grid, got %d", want)
	}
}

func TestGenerateInvalidInputIsEmpty(t *testing.T) {
	cases := [][3]float64{
		{0, 768, 80},
		{1024, -1, 80},
		{1024, 768, 0},
		{math.NaN(), 768, 80},
		{math.Inf(1), 768, 80},
		{640, 352, 1e-4},
		{1e12, 1e12, 80},
	}
	for _, c := range cases {
		g := Generate(c[0], c[1], c[2], DefaultParams())
		if g.Len() != 0 {
			t.Fatalf("Generate(%v): expected empty grid, got %d cells", c, g.Len())
		}
		if _, ok := g.Lookup(0, 0); ok {
			t.Fatalf("Generate(%v): lookup succeeded on empty grid", c)
		}
	}
}

func TestGenerateCapsCellCount(t *testing.T) {
	// 1920x1080 at base 6 needs 212x644 cells, under the cap.
	g := Generate(1920, 1080, 6, DefaultParams())
	if g.Len() == 0 || g.Len() > MaxCells {
		t.Fatalf("expected a capped but non-empty grid, got %d cells", g.Len())
	}
	if g := Generate(1920, 1080, 1, DefaultParams()); g.Len() != 0 {
		t.Fatalf("expected empty grid past MaxCells, got %d cells", g.Len())
	}
}

func TestColorMixApproximatesTarget(t *testing.T) {
	g := Generate(1920, 1080, 24, Params{Spread: time.Second, Seed: 42})
	counts := map[ColorClass]int{}
	for _, c := range g.Cells {
		counts[c.Color]++
	}
	n := float64(g.Len())
	primary := float64(counts[Primary]) / n
	accent := float64(counts[Accent]) / n
	blend := float64(counts[Blend]) / n
	if primary < 0.55 || primary > 0.85 {
		t.Fatalf("primary share %.2f out of range", primary)
	}
	if accent < 0.08 || accent > 0.32 {
		t.Fatalf("accent share %.2f out of range", accent)
	}
	if blend < 0.02 || blend > 0.2 {
		t.Fatalf("blend share %.2f out of range", blend)
	}
}

func TestSeedChangesColors(t *testing.T) {
	a := Generate(800, 600, 40, Params{Spread: time.Second, Seed: 1})
	b := Generate(800, 600, 40, Params{Spread: time.Second, Seed: 2})
	diff := 0
	for i := range a.Cells {
		if a.Cells[i].Color != b.Cells[i].Color {
			diff++
		}
	}
	if diff == 0 {
		t.Fatal("expected different seeds to change some colors")
	}
}

func TestBaseSizeForShrinksOnNarrowViewports(t *testing.T) {
	if BaseSizeFor(320) >= BaseSizeFor(1024) {
		t.Fatalf("expected smaller base on narrow viewport: %v vs %v", BaseSizeFor(320), BaseSizeFor(1024))
	}
}

func TestGlowIsSeededAndBounded(t *testing.T) {
	p := DefaultParams()
	p.Seed = 11
	a := Generate(800, 600, 40, p)
	b := Generate(800, 600, 40, p)
	strong := 0
	for i, c := range a.Cells {
		if c.Glow < 0.5 || c.Glow >= 1 {
			t.Fatalf("cell %d: glow %v outside [0.5, 1)", i, c.Glow)
		}
		if c.Glow != b.Cells[i].Glow {
			t.Fatalf("cell %d: glow differs between identical runs", i)
		}
		if c.Glow > 0.7 {
			strong++
		}
	}
	// Roughly 60% of cells clear the halo threshold.
	if share := float64(strong) / float64(a.Len()); share < 0.5 || share > 0.7 {
		t.Fatalf("expected about 60%% strong glows, got %.2f", share)
	}
}
