package render

import "github.com/charmbracelet/harmonica"

// Ref holds the last known pointer position. The input handler is the only
// writer and the frame loop the only reader; writing never triggers a
// render, the next frame just samples it.
type Ref struct {
	x, y  float64
	valid bool
}

// Set records a pointer position in viewport pixels.
func (r *Ref) Set(x, y float64) {
	r.x, r.y, r.valid = x, y, true
}

// Clear forgets the pointer, e.g. when it leaves the viewport.
func (r *Ref) Clear() { r.valid = false }

// Load returns the last position and whether there is one.
func (r *Ref) Load() (x, y float64, ok bool) {
	return r.x, r.y, r.valid
}

// follower eases the glow toward the sampled pointer with a spring so the
// glow trails the pointer instead of snapping to it.
type follower struct {
	spring harmonica.Spring
	x, y   float64
	vx, vy float64
	placed bool
}

func newFollower(fps int) follower {
	return follower{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.8)}
}

func (f *follower) step(tx, ty float64) (float64, float64) {
	if !f.placed {
		f.x, f.y, f.placed = tx, ty, true
		return f.x, f.y
	}
	f.x, f.vx = f.spring.Update(f.x, f.vx, tx)
	f.y, f.vy = f.spring.Update(f.y, f.vy, ty)
	return f.x, f.y
}
