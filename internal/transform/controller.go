// Package transform turns continuous drag/resize/rotate gestures into
// discrete document commits. Live frames bypass the command engine entirely;
// only a gesture's end produces one undoable update.
package transform

import (
	"fmt"
	"math"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
	"github.com/inkwell/inkwell/canvas-go/internal/editor"
	"github.com/inkwell/inkwell/canvas-go/internal/snap"
)

// Rotation commits snap to the nearest 45° multiple when within this window.
const (
	RotationSnapStep   = 45.0
	RotationSnapWindow = 5.0
)

// Text wrap widths are clamped to this range on commit; values outside it
// (or non-finite ones) fall back to the character-count estimate.
const (
	MinTextWidth = 50.0
	MaxTextWidth = 10000.0
)

// Zoom bounds for the host's wheel/gesture channel.
const (
	MinZoom = 0.2
	MaxZoom = 3.0
)

// ClampZoom restricts a zoom factor to the supported range.
func ClampZoom(z float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// GridSettings mirrors the canvas chrome's grid toggles. Grid snapping
// applies only when both are on.
type GridSettings struct {
	Show bool
	Snap bool
	Size float64
}

// Controller owns gesture state over one editor session. One gesture at a
// time; beginning a new gesture while another is active is a caller bug.
type Controller struct {
	Editor   *editor.Editor
	Measurer canvas.TextMeasurer
	Grid     GridSettings
}

func NewController(ed *editor.Editor) *Controller {
	return &Controller{Editor: ed}
}

// --- Dragging ---

// DragGesture is one plain move gesture, from pointer down to release. Each
// Move resolves snapping for live feedback; only End commits.
type DragGesture struct {
	c     *Controller
	id    string
	start *canvas.Object
	frame *canvas.Object // set when the dragged object is a frame child
	liveX float64
	liveY float64
	moved bool
	done  bool
}

// BeginDrag starts a move gesture for the object with the given id.
func (c *Controller) BeginDrag(id string) (*DragGesture, error) {
	obj := c.Editor.Document().Find(id)
	if obj == nil {
		return nil, fmt.Errorf("%w: %s", editor.ErrNotFound, id)
	}
	parent := c.Editor.Document().FindParent(id)
	var frame *canvas.Object
	if parent != nil && parent.Type == canvas.TypeFrame {
		frame = parent
	}
	return &DragGesture{
		c:     c,
		id:    id,
		start: obj.Clone(),
		frame: frame,
		liveX: obj.X,
		liveY: obj.Y,
	}, nil
}

// Move proposes a new position for the dragged object and returns the
// snap-corrected live position plus the alignment guides to render. Nothing
// is committed.
func (g *DragGesture) Move(x, y float64) (float64, float64, []snap.Guide) {
	probe := g.start.Clone()
	probe.X, probe.Y = x, y
	box := probe.Bounds(g.c.Measurer)

	opts := snap.Options{
		GridSize:   g.c.Grid.Size,
		ShowGrid:   g.c.Grid.Show,
		SnapToGrid: g.c.Grid.Snap,
	}

	doc := g.c.Editor.Document()
	if g.frame != nil {
		// Frame children move in frame-local coordinates and snap to the
		// frame's edges and centers only.
		fb := canvas.Rect{Width: g.frame.Width, Height: g.frame.Height}
		opts.Frame = &fb
		opts.ShowGrid, opts.SnapToGrid = false, false
	} else {
		opts.CanvasWidth = doc.Width
		opts.CanvasHeight = doc.Height
		for _, o := range doc.Objects {
			if o.ID == g.id || !o.Visible {
				continue
			}
			opts.Siblings = append(opts.Siblings, o.Bounds(g.c.Measurer))
		}
	}

	res := snap.Resolve(box, opts)
	g.liveX = x + (res.X - box.X)
	g.liveY = y + (res.Y - box.Y)
	g.moved = true
	return g.liveX, g.liveY, res.Guides
}

// End commits the gesture's final position as one command. When the dragged
// object is a top-level image released over a frame, the commit becomes an
// attach instead of a plain move.
func (g *DragGesture) End() error {
	if g.done {
		return nil
	}
	g.done = true
	if !g.moved {
		return nil
	}

	if g.start.Type == canvas.TypeImage && g.frame == nil {
		if frameID := g.overlappedFrame(); frameID != "" {
			return g.c.Editor.AttachImageToFrame(g.id, frameID)
		}
	}

	x, y := g.liveX, g.liveY
	return g.c.Editor.UpdateObject(g.id, func(o *canvas.Object) {
		o.X, o.Y = x, y
	})
}

// Cancel abandons the gesture with no commit; the object reverts to its last
// committed state because live positions never touched the document.
func (g *DragGesture) Cancel() {
	g.done = true
}

// overlappedFrame returns the topmost frame whose bounds intersect the
// image's final box, or empty.
func (g *DragGesture) overlappedFrame() string {
	probe := g.start.Clone()
	probe.X, probe.Y = g.liveX, g.liveY
	box := probe.Bounds(g.c.Measurer)

	objects := g.c.Editor.Document().Objects
	for i := len(objects) - 1; i >= 0; i-- {
		o := objects[i]
		if o.Type != canvas.TypeFrame || !o.Visible {
			continue
		}
		if box.Intersects(o.Bounds(g.c.Measurer)) {
			return o.ID
		}
	}
	return ""
}

// --- Resize / rotate ---

// Live carries the continuous attributes read from the transform handles
// during a gesture frame.
type Live struct {
	X        float64
	Y        float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
}

// TransformGesture is one resize/rotate gesture over a single object.
type TransformGesture struct {
	c             *Controller
	id            string
	start         *canvas.Object
	live          Live
	measuredWidth float64
	done          bool
}

// BeginTransform starts a resize/rotate gesture for the object with the
// given id.
func (c *Controller) BeginTransform(id string) (*TransformGesture, error) {
	obj := c.Editor.Document().Find(id)
	if obj == nil {
		return nil, fmt.Errorf("%w: %s", editor.ErrNotFound, id)
	}
	return &TransformGesture{
		c:     c,
		id:    id,
		start: obj.Clone(),
		live: Live{
			X:        obj.X,
			Y:        obj.Y,
			Rotation: obj.Rotation,
			ScaleX:   obj.ScaleX,
			ScaleY:   obj.ScaleY,
		},
	}, nil
}

// Update records a gesture frame, applying the per-kind intermediate
// constraints, and returns the constrained values for live rendering.
func (g *TransformGesture) Update(live Live) Live {
	switch {
	case g.start.Type == canvas.TypeLine, g.start.Type == canvas.TypeText:
		// Horizontal resize only.
		live.ScaleY = 1
	case g.start.Type == canvas.TypeGroup:
		// Groups rotate and move but never resize.
		live.ScaleX = g.start.ScaleX
		live.ScaleY = g.start.ScaleY
	}
	g.live = live
	return live
}

// SetMeasuredWidth supplies the host's live text measurement: the rendered
// wrap width at scale 1. Without it the commit falls back to the
// character-count estimate.
func (g *TransformGesture) SetMeasuredWidth(w float64) {
	g.measuredWidth = w
}

// End commits the gesture as one command, baking scale into the object's
// intrinsic geometry per kind. shiftHeld locks the aspect ratio for
// width/height objects by applying the average of the two scales.
func (g *TransformGesture) End(shiftHeld bool) error {
	if g.done {
		return nil
	}
	g.done = true

	live := g.live
	rotation := SnapRotation(canvas.NormalizeRotation(live.Rotation))

	return g.c.Editor.UpdateObject(g.id, func(o *canvas.Object) {
		o.X, o.Y = live.X, live.Y
		o.Rotation = rotation

		switch o.Type {
		case canvas.TypeLine:
			// Bake horizontal scale into the x offsets; y stays untouched.
			for i := 0; i+1 < len(o.Points); i += 2 {
				o.Points[i] *= live.ScaleX
			}
			o.ScaleX, o.ScaleY = 1, 1

		case canvas.TypeTriangle, canvas.TypeStar, canvas.TypeDiamond:
			for i := 0; i+1 < len(o.Points); i += 2 {
				o.Points[i] *= live.ScaleX
				o.Points[i+1] *= live.ScaleY
			}
			o.ScaleX, o.ScaleY = 1, 1

		case canvas.TypeGroup:
			// Position and rotation only.

		case canvas.TypeText:
			o.Width = g.commitTextWidth(live)
			o.ScaleX, o.ScaleY = 1, 1

		case canvas.TypeCircle:
			// Scale stays live so a circle may render as an ellipse.
			o.ScaleX, o.ScaleY = live.ScaleX, live.ScaleY

		default:
			sx, sy := live.ScaleX, live.ScaleY
			if shiftHeld {
				avg := (sx + sy) / 2
				sx, sy = avg, avg
			}
			o.Width *= sx
			o.Height *= sy
			o.ScaleX, o.ScaleY = 1, 1
		}
	})
}

// Cancel abandons the gesture with no commit.
func (g *TransformGesture) Cancel() {
	g.done = true
}

// commitTextWidth derives the committed wrap width from the live
// measurement, guarding the numerical edge cases.
func (g *TransformGesture) commitTextWidth(live Live) float64 {
	estimate := canvas.EstimateTextWidth(g.start.Text, g.start.FontSize)

	w := g.measuredWidth * live.ScaleX
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		w = estimate
	}
	return math.Min(MaxTextWidth, math.Max(MinTextWidth, w))
}

// SnapRotation snaps a normalized rotation to the nearest 45° multiple when
// within the snap window, otherwise returns it unchanged.
func SnapRotation(deg float64) float64 {
	nearest := math.Round(deg/RotationSnapStep) * RotationSnapStep
	if math.Abs(deg-nearest) <= RotationSnapWindow {
		return canvas.NormalizeRotation(nearest)
	}
	return deg
}
