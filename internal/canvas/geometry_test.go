package canvas

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func floatsEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func rectsEqual(a, b Rect) bool {
	return floatsEqual(a.X, b.X) && floatsEqual(a.Y, b.Y) &&
		floatsEqual(a.Width, b.Width) && floatsEqual(a.Height, b.Height)
}

func TestRect_Union(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			name: "overlapping",
			a:    Rect{X: 0, Y: 0, Width: 5, Height: 5},
			b:    Rect{X: 3, Y: 3, Width: 7, Height: 7},
			want: Rect{X: 0, Y: 0, Width: 10, Height: 10},
		},
		{
			name: "disjoint",
			a:    Rect{X: 0, Y: 0, Width: 2, Height: 2},
			b:    Rect{X: 10, Y: 10, Width: 2, Height: 2},
			want: Rect{X: 0, Y: 0, Width: 12, Height: 12},
		},
		{
			name: "empty left operand",
			a:    Rect{},
			b:    Rect{X: 1, Y: 2, Width: 3, Height: 4},
			want: Rect{X: 1, Y: 2, Width: 3, Height: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Union(tt.b)
			if !rectsEqual(got, tt.want) {
				t.Errorf("Union = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Intersects(Rect{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(Rect{X: 20, Y: 0, Width: 5, Height: 5}) {
		t.Error("disjoint rects should not intersect")
	}
	if a.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Error("edge-touching rects should not intersect")
	}
}

func TestObject_Bounds(t *testing.T) {
	tests := []struct {
		name string
		obj  *Object
		want Rect
	}{
		{
			name: "rect uses top-left position",
			obj:  NewRect(10, 20, 50, 40),
			want: Rect{X: 10, Y: 20, Width: 50, Height: 40},
		},
		{
			name: "rect applies scale",
			obj: func() *Object {
				o := NewRect(0, 0, 50, 40)
				o.ScaleX, o.ScaleY = 2, 3
				return o
			}(),
			want: Rect{X: 0, Y: 0, Width: 100, Height: 120},
		},
		{
			name: "circle is positioned by center",
			obj:  NewCircle(100, 50, 30),
			want: Rect{X: 70, Y: 20, Width: 60, Height: 60},
		},
		{
			name: "line covers its point extent",
			obj:  NewLine(10, 10, []float64{0, 0, 100, 0, 50, 20}),
			want: Rect{X: 10, Y: 10, Width: 100, Height: 20},
		},
		{
			name: "frame dimensions are authoritative",
			obj: func() *Object {
				f := NewFrame(5, 5, 200, 100)
				f.Children = []*Object{NewImage(0, 0, 10, 10, "/assets/a.png")}
				return f
			}(),
			want: Rect{X: 5, Y: 5, Width: 200, Height: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.obj.Bounds(nil)
			if !rectsEqual(got, tt.want) {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type fixedMeasurer struct {
	w, h float64
}

func (m fixedMeasurer) MeasureText(text string, fontSize float64, fontFamily string) (float64, float64, bool) {
	return m.w, m.h, true
}

func TestObject_TextBounds(t *testing.T) {
	txt := NewText(0, 0, "hello", 20)

	t.Run("heuristic fallback", func(t *testing.T) {
		// 5 chars * 20 * 0.6 = 60
		if w := txt.ExtentWidth(nil); !floatsEqual(w, 60) {
			t.Errorf("ExtentWidth = %v, want 60", w)
		}
	})

	t.Run("measurer takes precedence", func(t *testing.T) {
		if w := txt.ExtentWidth(fixedMeasurer{w: 123, h: 24}); !floatsEqual(w, 123) {
			t.Errorf("ExtentWidth = %v, want 123", w)
		}
	})

	t.Run("explicit wrap width wins", func(t *testing.T) {
		wrapped := NewText(0, 0, "hello", 20)
		wrapped.Width = 200
		if w := wrapped.ExtentWidth(fixedMeasurer{w: 123, h: 24}); !floatsEqual(w, 200) {
			t.Errorf("ExtentWidth = %v, want 200", w)
		}
	})
}

func TestRecalcGroupBounds(t *testing.T) {
	group := NewGroup(0, 0)
	a := NewRect(0, 0, 50, 40)
	b := NewRect(100, 60, 20, 20)
	group.Children = []*Object{a, b}

	RecalcGroupBounds(group, nil)
	if !floatsEqual(group.Width, 120) || !floatsEqual(group.Height, 80) {
		t.Fatalf("group bounds = %vx%v, want 120x80", group.Width, group.Height)
	}

	t.Run("hidden children are skipped", func(t *testing.T) {
		b.Visible = false
		RecalcGroupBounds(group, nil)
		if !floatsEqual(group.Width, 50) || !floatsEqual(group.Height, 40) {
			t.Errorf("group bounds = %vx%v, want 50x40", group.Width, group.Height)
		}
	})

	t.Run("all-hidden group keeps last size", func(t *testing.T) {
		a.Visible = false
		RecalcGroupBounds(group, nil)
		if !floatsEqual(group.Width, 50) || !floatsEqual(group.Height, 40) {
			t.Errorf("group bounds = %vx%v, want last known 50x40", group.Width, group.Height)
		}
	})
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{45, 45},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-360, 0},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); !floatsEqual(got, tt.want) {
			t.Errorf("NormalizeRotation(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
