// Package snap resolves alignment corrections for a moving object against
// the canvas midlines, the grid, frame edges, and sibling objects. It is
// UI-agnostic and deterministic; callers render the returned guides.
package snap

import (
	"math"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
)

// Snap thresholds in canvas units. Canvas-center and grid alignment use the
// wide threshold, frame-edge and sibling alignment the narrow one. The
// deadband keeps an already-aligned object from oscillating around its
// target.
const (
	CanvasThreshold = 25.0
	GridThreshold   = 25.0
	FrameThreshold  = 15.0
	ObjectThreshold = 15.0
	Deadband        = 2.0

	DefaultGridSize = 10.0
)

type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Kind tags which alignment rule produced a guide.
type Kind string

const (
	KindCanvasCenter Kind = "canvas-center"
	KindGrid         Kind = "grid"
	KindFrameEdge    Kind = "frame-edge"
	KindObject       Kind = "object"
)

// Guide describes one alignment line for visual feedback. Vertical guides
// carry an x position, horizontal guides a y position.
type Guide struct {
	Orientation Orientation `json:"orientation"`
	Position    float64     `json:"position"`
	Kind        Kind        `json:"kind"`
}

// Options describes the snapping context for one resolution call.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64

	// Grid alignment applies only when both flags are set.
	ShowGrid   bool
	SnapToGrid bool
	GridSize   float64 // zero means DefaultGridSize

	// Bounding boxes of every other top-level object.
	Siblings []canvas.Rect

	// Set when the moving object is a frame child; the moving rect is then
	// in frame-local coordinates and Frame carries the frame's dimensions.
	Frame *canvas.Rect
}

// Result is the corrected position of the moving box plus the guides that
// justified it. At most one guide per axis.
type Result struct {
	X      float64
	Y      float64
	Guides []Guide
}

// axisHit is one accepted correction on a single axis.
type axisHit struct {
	delta float64
	guide Guide
}

// Resolve computes the snapped position for a moving bounding box. The two
// axes resolve independently; per axis the first satisfied rule in priority
// order (canvas-center, grid, frame-edge, sibling) wins.
func Resolve(moving canvas.Rect, opts Options) Result {
	res := Result{X: moving.X, Y: moving.Y}

	if hit, ok := resolveAxis(moving, opts, true); ok {
		res.X = moving.X + hit.delta
		res.Guides = append(res.Guides, hit.guide)
	}
	if hit, ok := resolveAxis(moving, opts, false); ok {
		res.Y = moving.Y + hit.delta
		res.Guides = append(res.Guides, hit.guide)
	}

	return res
}

func resolveAxis(moving canvas.Rect, opts Options, horizontal bool) (axisHit, bool) {
	if hit, ok := canvasCenterHit(moving, opts, horizontal); ok {
		return hit, true
	}
	if opts.ShowGrid && opts.SnapToGrid {
		if hit, ok := gridHit(moving, opts, horizontal); ok {
			return hit, true
		}
	}
	if opts.Frame != nil {
		if hit, ok := frameHit(moving, *opts.Frame, horizontal); ok {
			return hit, true
		}
	}
	return siblingHit(moving, opts.Siblings, horizontal)
}

// features returns the snappable positions of a box along one axis: leading
// edge, center, trailing edge.
func features(r canvas.Rect, horizontal bool) [3]float64 {
	if horizontal {
		return [3]float64{r.X, r.X + r.Width/2, r.X + r.Width}
	}
	return [3]float64{r.Y, r.Y + r.Height/2, r.Y + r.Height}
}

func orientationFor(horizontal bool) Orientation {
	// Snapping along x produces a vertical guide line.
	if horizontal {
		return Vertical
	}
	return Horizontal
}

func canvasCenterHit(moving canvas.Rect, opts Options, horizontal bool) (axisHit, bool) {
	mid := opts.CanvasHeight / 2
	if horizontal {
		mid = opts.CanvasWidth / 2
	}
	if mid <= 0 {
		return axisHit{}, false
	}

	best, found := math.Inf(1), false
	for _, f := range features(moving, horizontal) {
		d := mid - f
		if math.Abs(d) <= CanvasThreshold && math.Abs(d) < math.Abs(best) {
			best, found = d, true
		}
	}
	if !found {
		return axisHit{}, false
	}
	return axisHit{
		delta: best,
		guide: Guide{Orientation: orientationFor(horizontal), Position: mid, Kind: KindCanvasCenter},
	}, true
}

func gridHit(moving canvas.Rect, opts Options, horizontal bool) (axisHit, bool) {
	pitch := opts.GridSize
	if pitch <= 0 {
		pitch = DefaultGridSize
	}

	// Raw position and center are the grid-snappable features.
	pos := moving.Y
	center := moving.Y + moving.Height/2
	if horizontal {
		pos = moving.X
		center = moving.X + moving.Width/2
	}

	best, bestTarget, found := math.Inf(1), 0.0, false
	for _, f := range []float64{pos, center} {
		target := math.Round(f/pitch) * pitch
		d := target - f
		if math.Abs(d) <= GridThreshold && math.Abs(d) < math.Abs(best) {
			best, bestTarget, found = d, target, true
		}
	}
	if !found {
		return axisHit{}, false
	}
	return axisHit{
		delta: best,
		guide: Guide{Orientation: orientationFor(horizontal), Position: bestTarget, Kind: KindGrid},
	}, true
}

func frameHit(moving canvas.Rect, frame canvas.Rect, horizontal bool) (axisHit, bool) {
	extent := frame.Height
	if horizontal {
		extent = frame.Width
	}
	targets := [3]float64{0, extent / 2, extent}

	best, bestTarget, found := math.Inf(1), 0.0, false
	for _, f := range features(moving, horizontal) {
		for _, t := range targets {
			d := t - f
			if math.Abs(d) <= FrameThreshold && math.Abs(d) < math.Abs(best) {
				best, bestTarget, found = d, t, true
			}
		}
	}
	if !found {
		return axisHit{}, false
	}
	return axisHit{
		delta: best,
		guide: Guide{Orientation: orientationFor(horizontal), Position: bestTarget, Kind: KindFrameEdge},
	}, true
}

func siblingHit(moving canvas.Rect, siblings []canvas.Rect, horizontal bool) (axisHit, bool) {
	best, bestTarget, found := math.Inf(1), 0.0, false
	mf := features(moving, horizontal)

	for _, sib := range siblings {
		for _, t := range features(sib, horizontal) {
			for _, f := range mf {
				d := t - f
				if math.Abs(d) <= ObjectThreshold && math.Abs(d) < math.Abs(best) {
					best, bestTarget, found = d, t, true
				}
			}
		}
	}
	if !found {
		return axisHit{}, false
	}
	return axisHit{
		delta: applyDeadband(best),
		guide: Guide{Orientation: orientationFor(horizontal), Position: bestTarget, Kind: KindObject},
	}, true
}

// applyDeadband suppresses corrections smaller than the deadband: the object
// is already aligned and moving it again each frame would oscillate.
func applyDeadband(delta float64) float64 {
	if math.Abs(delta) < Deadband {
		return 0
	}
	return delta
}
