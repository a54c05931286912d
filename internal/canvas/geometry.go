package canvas

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Intersects checks if two rects overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height && r.Y+r.Height > other.Y
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// TextMeasurer supplies exact text metrics when a host environment has a
// layout engine available. Implementations return ok=false to fall back to
// the character-count heuristic.
type TextMeasurer interface {
	MeasureText(text string, fontSize float64, fontFamily string) (w, h float64, ok bool)
}

// EstimateTextWidth is the heuristic used when no live text measurement
// exists: character count times font size times 0.6.
func EstimateTextWidth(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize * 0.6
}

// ExtentWidth returns the object's effective width in its parent's coordinate
// space, with scale applied. The measurer may be nil.
func (o *Object) ExtentWidth(m TextMeasurer) float64 {
	switch o.Type {
	case TypeCircle:
		return o.Radius * 2 * o.ScaleX
	case TypeText:
		return o.textWidth(m) * o.ScaleX
	default:
		if o.Type.IsPolygon() {
			minX, _, maxX, _ := pointsExtent(o.Points)
			return (maxX - minX) * o.ScaleX
		}
		return o.Width * o.ScaleX
	}
}

// ExtentHeight returns the object's effective height, with scale applied.
func (o *Object) ExtentHeight(m TextMeasurer) float64 {
	switch o.Type {
	case TypeCircle:
		return o.Radius * 2 * o.ScaleY
	case TypeText:
		return o.textHeight(m) * o.ScaleY
	default:
		if o.Type.IsPolygon() {
			_, minY, _, maxY := pointsExtent(o.Points)
			return (maxY - minY) * o.ScaleY
		}
		return o.Height * o.ScaleY
	}
}

// Bounds returns the object's axis-aligned bounding box in its parent's
// coordinate space. Circles are positioned by center, everything else by
// top-left.
func (o *Object) Bounds(m TextMeasurer) Rect {
	w := o.ExtentWidth(m)
	h := o.ExtentHeight(m)

	switch {
	case o.Type == TypeCircle:
		return Rect{X: o.X - w/2, Y: o.Y - h/2, Width: w, Height: h}
	case o.Type.IsPolygon():
		minX, minY, _, _ := pointsExtent(o.Points)
		return Rect{X: o.X + minX*o.ScaleX, Y: o.Y + minY*o.ScaleY, Width: w, Height: h}
	default:
		return Rect{X: o.X, Y: o.Y, Width: w, Height: h}
	}
}

func (o *Object) textWidth(m TextMeasurer) float64 {
	if o.Width > 0 {
		return o.Width
	}
	if m != nil {
		if w, _, ok := m.MeasureText(o.Text, o.FontSize, o.FontFamily); ok {
			return w
		}
	}
	return EstimateTextWidth(o.Text, o.FontSize)
}

func (o *Object) textHeight(m TextMeasurer) float64 {
	if m != nil {
		if _, h, ok := m.MeasureText(o.Text, o.FontSize, o.FontFamily); ok {
			return h
		}
	}
	return o.FontSize * 1.2
}

func pointsExtent(points []float64) (minX, minY, maxX, maxY float64) {
	if len(points) < 2 {
		return 0, 0, 0, 0
	}
	minX, maxX = points[0], points[0]
	minY, maxY = points[1], points[1]
	for i := 2; i+1 < len(points); i += 2 {
		minX = min(minX, points[i])
		maxX = max(maxX, points[i])
		minY = min(minY, points[i+1])
		maxY = max(maxY, points[i+1])
	}
	return minX, minY, maxX, maxY
}

// ChildrenBounds returns the union bounding box of the given objects in their
// shared coordinate space, skipping hidden ones.
func ChildrenBounds(objects []*Object, m TextMeasurer) (Rect, bool) {
	var result Rect
	found := false
	for _, c := range objects {
		if !c.Visible {
			continue
		}
		b := c.Bounds(m)
		if !found {
			result = b
			found = true
		} else {
			result = result.Union(b)
		}
	}
	return result, found
}

// RecalcGroupBounds recomputes a group's derived width/height from its
// visible children. An empty or all-hidden group keeps its last known size.
// Frames are exempt: their dimensions are authoritative.
func RecalcGroupBounds(g *Object, m TextMeasurer) {
	if g.Type != TypeGroup {
		return
	}
	box, ok := ChildrenBounds(g.Children, m)
	if !ok {
		return
	}
	g.Width = box.Width
	g.Height = box.Height
}
