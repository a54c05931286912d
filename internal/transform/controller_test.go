package transform

import (
	"math"
	"reflect"
	"testing"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
	"github.com/inkwell/inkwell/canvas-go/internal/editor"
)

const epsilon = 1e-9

func floatsEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func newTestController(t *testing.T) (*Controller, *editor.Editor) {
	t.Helper()
	ed := editor.New(canvas.NewDocument(1000, 800))
	return NewController(ed), ed
}

func mustAdd(t *testing.T, ed *editor.Editor, obj *canvas.Object) {
	t.Helper()
	if err := ed.AddObject(obj); err != nil {
		t.Fatalf("AddObject: %v", err)
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1, 1},
		{0.05, MinZoom},
		{0.2, 0.2},
		{3.0, 3.0},
		{12, MaxZoom},
	}
	for _, tt := range tests {
		if got := ClampZoom(tt.in); !floatsEqual(got, tt.want) {
			t.Errorf("ClampZoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnapRotation(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{43, 45},
		{47, 45},
		{50, 45},
		{51, 51},
		{30, 30},
		{89, 90},
		{357, 0},
		{181, 180},
	}
	for _, tt := range tests {
		if got := SnapRotation(tt.in); !floatsEqual(got, tt.want) {
			t.Errorf("SnapRotation(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDragGesture_CommitsOnce(t *testing.T) {
	c, ed := newTestController(t)
	rect := canvas.NewRect(100, 100, 50, 50)
	mustAdd(t, ed, rect)
	undosBefore := len(ed.HistoryNames())

	g, err := c.BeginDrag(rect.ID)
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}

	// Live moves never touch the document.
	g.Move(300, 300)
	g.Move(400, 350)
	if got := ed.Document().Find(rect.ID).X; !floatsEqual(got, 100) {
		t.Fatalf("document mutated mid-gesture: x = %v", got)
	}
	if len(ed.HistoryNames()) != undosBefore {
		t.Fatal("live moves must not commit")
	}

	if err := g.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	got := ed.Document().Find(rect.ID)
	if !floatsEqual(got.X, 400) || !floatsEqual(got.Y, 350) {
		t.Errorf("committed position = (%v,%v), want (400,350)", got.X, got.Y)
	}
	if len(ed.HistoryNames()) != undosBefore+1 {
		t.Errorf("gesture committed %d commands, want exactly one", len(ed.HistoryNames())-undosBefore)
	}

	// A second End is a no-op.
	if err := g.End(); err != nil {
		t.Fatal(err)
	}
	if len(ed.HistoryNames()) != undosBefore+1 {
		t.Error("double End committed twice")
	}

	ed.Undo()
	if got := ed.Document().Find(rect.ID).X; !floatsEqual(got, 100) {
		t.Errorf("undo restored x = %v, want 100", got)
	}
}

func TestDragGesture_CancelDiscards(t *testing.T) {
	c, ed := newTestController(t)
	rect := canvas.NewRect(100, 100, 50, 50)
	mustAdd(t, ed, rect)
	undosBefore := len(ed.HistoryNames())

	g, _ := c.BeginDrag(rect.ID)
	g.Move(500, 500)
	g.Cancel()
	if err := g.End(); err != nil {
		t.Fatal(err)
	}

	if got := ed.Document().Find(rect.ID).X; !floatsEqual(got, 100) {
		t.Errorf("cancelled gesture moved the object to x = %v", got)
	}
	if len(ed.HistoryNames()) != undosBefore {
		t.Error("cancelled gesture must not commit")
	}
}

func TestDragGesture_UnmovedEndIsNoop(t *testing.T) {
	c, ed := newTestController(t)
	rect := canvas.NewRect(100, 100, 50, 50)
	mustAdd(t, ed, rect)
	undosBefore := len(ed.HistoryNames())

	g, _ := c.BeginDrag(rect.ID)
	if err := g.End(); err != nil {
		t.Fatal(err)
	}
	if len(ed.HistoryNames()) != undosBefore {
		t.Error("a click without movement must not commit")
	}
}

func TestDragGesture_SnapsToSibling(t *testing.T) {
	c, ed := newTestController(t)
	anchor := canvas.NewRect(100, 100, 80, 80)
	moving := canvas.NewRect(400, 400, 80, 80)
	mustAdd(t, ed, anchor)
	mustAdd(t, ed, moving)

	g, _ := c.BeginDrag(moving.ID)
	x, _, guides := g.Move(108, 400)
	if !floatsEqual(x, 100) {
		t.Errorf("live x = %v, want snapped 100", x)
	}
	if len(guides) == 0 {
		t.Error("expected alignment guides")
	}

	t.Run("hidden siblings are ignored", func(t *testing.T) {
		if err := ed.UpdateObject(anchor.ID, func(o *canvas.Object) { o.Visible = false }); err != nil {
			t.Fatal(err)
		}
		g, _ := c.BeginDrag(moving.ID)
		// y kept away from the canvas midline so only sibling rules apply.
		x, _, guides := g.Move(108, 250)
		if !floatsEqual(x, 108) {
			t.Errorf("live x = %v, want unsnapped 108", x)
		}
		if len(guides) != 0 {
			t.Errorf("guides = %v, want none for hidden siblings", guides)
		}
	})
}

func TestDragGesture_FrameChildSnapsLocally(t *testing.T) {
	c, ed := newTestController(t)
	frame := canvas.NewFrame(50, 50, 200, 100)
	img := canvas.NewImage(300, 300, 100, 100, "/assets/a.png")
	mustAdd(t, ed, frame)
	mustAdd(t, ed, img)
	if err := ed.AttachImageToFrame(img.ID, frame.ID); err != nil {
		t.Fatal(err)
	}

	// Grid snapping is disabled for frame children even when on.
	c.Grid = GridSettings{Show: true, Snap: true, Size: 10}

	g, err := c.BeginDrag(img.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Frame-local position near the frame's left edge.
	x, _, guides := g.Move(6, 0)
	if !floatsEqual(x, 0) {
		t.Errorf("live x = %v, want 0 (frame edge)", x)
	}
	var sawFrameGuide bool
	for _, gd := range guides {
		if gd.Kind == "frame-edge" {
			sawFrameGuide = true
		}
		if gd.Kind == "grid" {
			t.Error("grid guide emitted inside a frame")
		}
	}
	if !sawFrameGuide {
		t.Errorf("guides = %v, want a frame-edge guide", guides)
	}
}

func TestDragGesture_ImageDroppedOnFrameAttaches(t *testing.T) {
	c, ed := newTestController(t)
	frame := canvas.NewFrame(500, 500, 200, 100)
	img := canvas.NewImage(0, 0, 100, 100, "/assets/a.png")
	mustAdd(t, ed, frame)
	mustAdd(t, ed, img)

	g, _ := c.BeginDrag(img.ID)
	g.Move(550, 520)
	if err := g.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	f := ed.Document().Find(frame.ID)
	if len(f.Children) != 1 || f.Children[0].ID != img.ID {
		t.Fatal("dropping an image on a frame should attach it")
	}
	if ed.Document().FindParent(img.ID) == nil {
		t.Error("image should no longer be top-level")
	}

	t.Run("non-image drop does not attach", func(t *testing.T) {
		rect := canvas.NewRect(0, 0, 50, 50)
		mustAdd(t, ed, rect)
		g, _ := c.BeginDrag(rect.ID)
		g.Move(550, 520)
		if err := g.End(); err != nil {
			t.Fatal(err)
		}
		if len(ed.Document().Find(frame.ID).Children) != 1 {
			t.Error("rect drop changed the frame's children")
		}
	})
}

func TestTransformGesture_RectBakesScale(t *testing.T) {
	c, ed := newTestController(t)
	rect := canvas.NewRect(10, 10, 200, 100)
	mustAdd(t, ed, rect)

	g, err := c.BeginTransform(rect.ID)
	if err != nil {
		t.Fatal(err)
	}
	g.Update(Live{X: 10, Y: 10, ScaleX: 2, ScaleY: 1.5})
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}

	got := ed.Document().Find(rect.ID)
	if !floatsEqual(got.Width, 400) || !floatsEqual(got.Height, 150) {
		t.Errorf("size = %vx%v, want 400x150", got.Width, got.Height)
	}
	if !floatsEqual(got.ScaleX, 1) || !floatsEqual(got.ScaleY, 1) {
		t.Errorf("scales = (%v,%v), want reset to (1,1)", got.ScaleX, got.ScaleY)
	}
}

func TestTransformGesture_ShiftLocksAspect(t *testing.T) {
	c, ed := newTestController(t)
	rect := canvas.NewRect(0, 0, 200, 100)
	mustAdd(t, ed, rect)

	g, _ := c.BeginTransform(rect.ID)
	g.Update(Live{ScaleX: 2, ScaleY: 1.5})
	if err := g.End(true); err != nil {
		t.Fatal(err)
	}

	// avg(2, 1.5) = 1.75 applied to both axes.
	got := ed.Document().Find(rect.ID)
	if !floatsEqual(got.Width, 350) || !floatsEqual(got.Height, 175) {
		t.Errorf("size = %vx%v, want 350x175", got.Width, got.Height)
	}
}

func TestTransformGesture_LineBakesHorizontalOnly(t *testing.T) {
	c, ed := newTestController(t)
	line := canvas.NewLine(10, 10, []float64{0, 0, 100, 0, 50, 30})
	mustAdd(t, ed, line)

	g, _ := c.BeginTransform(line.ID)
	live := g.Update(Live{X: 10, Y: 10, ScaleX: 2, ScaleY: 3})
	if !floatsEqual(live.ScaleY, 1) {
		t.Errorf("live ScaleY = %v, want forced to 1 for lines", live.ScaleY)
	}
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}

	got := ed.Document().Find(line.ID)
	want := []float64{0, 0, 200, 0, 100, 30}
	if !reflect.DeepEqual(got.Points, want) {
		t.Errorf("points = %v, want %v", got.Points, want)
	}
	if !floatsEqual(got.ScaleX, 1) || !floatsEqual(got.ScaleY, 1) {
		t.Error("line scales should reset after baking")
	}
}

func TestTransformGesture_PolygonBakesBothAxes(t *testing.T) {
	c, ed := newTestController(t)
	tri := canvas.NewPolygon(canvas.TypeTriangle, 0, 0, []float64{0, 40, 20, 0, 40, 40})
	mustAdd(t, ed, tri)

	g, _ := c.BeginTransform(tri.ID)
	g.Update(Live{ScaleX: 2, ScaleY: 0.5})
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}

	got := ed.Document().Find(tri.ID)
	want := []float64{0, 20, 40, 0, 80, 20}
	if !reflect.DeepEqual(got.Points, want) {
		t.Errorf("points = %v, want %v", got.Points, want)
	}
}

func TestTransformGesture_GroupNeverResizes(t *testing.T) {
	c, ed := newTestController(t)
	a := canvas.NewRect(0, 0, 10, 10)
	b := canvas.NewRect(40, 0, 10, 10)
	mustAdd(t, ed, a)
	mustAdd(t, ed, b)
	groupID, err := ed.GroupObjects([]string{a.ID, b.ID})
	if err != nil {
		t.Fatal(err)
	}

	g, _ := c.BeginTransform(groupID)
	live := g.Update(Live{X: 100, Y: 50, Rotation: 90, ScaleX: 3, ScaleY: 3})
	if !floatsEqual(live.ScaleX, 1) || !floatsEqual(live.ScaleY, 1) {
		t.Errorf("live scales = (%v,%v), want the group's (1,1)", live.ScaleX, live.ScaleY)
	}
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}

	got := ed.Document().Find(groupID)
	if !floatsEqual(got.X, 100) || !floatsEqual(got.Rotation, 90) {
		t.Error("group should still move and rotate")
	}
	if !floatsEqual(got.Width, 50) {
		t.Errorf("group width = %v, want untouched 50", got.Width)
	}
}

func TestTransformGesture_CircleKeepsScales(t *testing.T) {
	c, ed := newTestController(t)
	circle := canvas.NewCircle(100, 100, 30)
	mustAdd(t, ed, circle)

	g, _ := c.BeginTransform(circle.ID)
	g.Update(Live{X: 100, Y: 100, ScaleX: 2, ScaleY: 0.5})
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}

	got := ed.Document().Find(circle.ID)
	if !floatsEqual(got.ScaleX, 2) || !floatsEqual(got.ScaleY, 0.5) {
		t.Errorf("scales = (%v,%v), want live (2,0.5) for an ellipse", got.ScaleX, got.ScaleY)
	}
	if !floatsEqual(got.Radius, 30) {
		t.Errorf("radius = %v, want untouched 30", got.Radius)
	}
}

func TestTransformGesture_TextCommitsWrapWidth(t *testing.T) {
	c, ed := newTestController(t)
	txt := canvas.NewText(0, 0, "hello world", 20)
	mustAdd(t, ed, txt)

	t.Run("measured width scales", func(t *testing.T) {
		g, _ := c.BeginTransform(txt.ID)
		g.SetMeasuredWidth(150)
		live := g.Update(Live{ScaleX: 2, ScaleY: 5})
		if !floatsEqual(live.ScaleY, 1) {
			t.Error("text resizes horizontally only")
		}
		if err := g.End(false); err != nil {
			t.Fatal(err)
		}
		got := ed.Document().Find(txt.ID)
		if !floatsEqual(got.Width, 300) {
			t.Errorf("wrap width = %v, want 300", got.Width)
		}
		if !floatsEqual(got.ScaleX, 1) {
			t.Error("text scale should reset after committing the width")
		}
	})

	t.Run("missing measurement falls back to the estimate", func(t *testing.T) {
		g, _ := c.BeginTransform(txt.ID)
		g.Update(Live{ScaleX: 2})
		if err := g.End(false); err != nil {
			t.Fatal(err)
		}
		// "hello world" at font size 20: 11 * 20 * 0.6 = 132.
		got := ed.Document().Find(txt.ID)
		if !floatsEqual(got.Width, 132) {
			t.Errorf("wrap width = %v, want estimated 132", got.Width)
		}
	})

	t.Run("width clamps to bounds", func(t *testing.T) {
		g, _ := c.BeginTransform(txt.ID)
		g.SetMeasuredWidth(100)
		g.Update(Live{ScaleX: 0.1})
		if err := g.End(false); err != nil {
			t.Fatal(err)
		}
		if got := ed.Document().Find(txt.ID).Width; !floatsEqual(got, MinTextWidth) {
			t.Errorf("wrap width = %v, want clamped to %v", got, MinTextWidth)
		}

		g, _ = c.BeginTransform(txt.ID)
		g.SetMeasuredWidth(8000)
		g.Update(Live{ScaleX: 5})
		if err := g.End(false); err != nil {
			t.Fatal(err)
		}
		if got := ed.Document().Find(txt.ID).Width; !floatsEqual(got, MaxTextWidth) {
			t.Errorf("wrap width = %v, want clamped to %v", got, MaxTextWidth)
		}
	})

	t.Run("non-finite measurement falls back", func(t *testing.T) {
		g, _ := c.BeginTransform(txt.ID)
		g.SetMeasuredWidth(math.NaN())
		g.Update(Live{ScaleX: 2})
		if err := g.End(false); err != nil {
			t.Fatal(err)
		}
		if got := ed.Document().Find(txt.ID).Width; !floatsEqual(got, 132) {
			t.Errorf("wrap width = %v, want estimated 132", got)
		}
	})
}

func TestTransformGesture_RotationSnapsOnCommit(t *testing.T) {
	c, ed := newTestController(t)
	rect := canvas.NewRect(0, 0, 50, 50)
	mustAdd(t, ed, rect)

	g, _ := c.BeginTransform(rect.ID)
	g.Update(Live{Rotation: 43, ScaleX: 1, ScaleY: 1})
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}
	if got := ed.Document().Find(rect.ID).Rotation; !floatsEqual(got, 45) {
		t.Errorf("rotation = %v, want snapped 45", got)
	}

	g, _ = c.BeginTransform(rect.ID)
	g.Update(Live{Rotation: 30, ScaleX: 1, ScaleY: 1})
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}
	if got := ed.Document().Find(rect.ID).Rotation; !floatsEqual(got, 30) {
		t.Errorf("rotation = %v, want unsnapped 30", got)
	}

	t.Run("normalizes before snapping", func(t *testing.T) {
		g, _ := c.BeginTransform(rect.ID)
		g.Update(Live{Rotation: -317, ScaleX: 1, ScaleY: 1}) // normalizes to 43
		if err := g.End(false); err != nil {
			t.Fatal(err)
		}
		if got := ed.Document().Find(rect.ID).Rotation; !floatsEqual(got, 45) {
			t.Errorf("rotation = %v, want 45", got)
		}
	})
}

func TestTransformGesture_Cancel(t *testing.T) {
	c, ed := newTestController(t)
	rect := canvas.NewRect(0, 0, 50, 50)
	mustAdd(t, ed, rect)
	undosBefore := len(ed.HistoryNames())

	g, _ := c.BeginTransform(rect.ID)
	g.Update(Live{ScaleX: 3, ScaleY: 3})
	g.Cancel()
	if err := g.End(false); err != nil {
		t.Fatal(err)
	}

	got := ed.Document().Find(rect.ID)
	if !floatsEqual(got.Width, 50) {
		t.Errorf("width = %v, want untouched 50", got.Width)
	}
	if len(ed.HistoryNames()) != undosBefore {
		t.Error("cancelled transform must not commit")
	}
}

func TestBeginGesture_UnknownObject(t *testing.T) {
	c, _ := newTestController(t)
	if _, err := c.BeginDrag("obj_missing"); err == nil {
		t.Error("BeginDrag on a missing object should fail")
	}
	if _, err := c.BeginTransform("obj_missing"); err == nil {
		t.Error("BeginTransform on a missing object should fail")
	}
}
