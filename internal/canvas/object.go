package canvas

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/inkwell/inkwell/canvas-go/internal/typeid"
)

type ObjectType string

const (
	TypeRect        ObjectType = "rect"
	TypeCircle      ObjectType = "circle"
	TypeLine        ObjectType = "line"
	TypeText        ObjectType = "text"
	TypeImage       ObjectType = "image"
	TypeTriangle    ObjectType = "triangle"
	TypeStar        ObjectType = "star"
	TypeDiamond     ObjectType = "diamond"
	TypeGalleryItem ObjectType = "gallery-item"
	TypeGroup       ObjectType = "group"
	TypeFrame       ObjectType = "frame"
)

// IsContainer reports whether objects of this type hold children.
func (t ObjectType) IsContainer() bool {
	return t == TypeGroup || t == TypeFrame || t == TypeGalleryItem
}

// IsPolygon reports whether objects of this type store point-based geometry.
func (t ObjectType) IsPolygon() bool {
	return t == TypeLine || t == TypeTriangle || t == TypeStar || t == TypeDiamond
}

func (t ObjectType) valid() bool {
	switch t {
	case TypeRect, TypeCircle, TypeLine, TypeText, TypeImage,
		TypeTriangle, TypeStar, TypeDiamond, TypeGalleryItem,
		TypeGroup, TypeFrame:
		return true
	}
	return false
}

// Object is one entity in the editable scene. The Type field discriminates
// which of the kind-specific fields are meaningful; Validate enforces the
// per-kind requirements.
//
// Position semantics: X/Y is the top-left corner for most kinds, the center
// for circles. Children of groups and frames are positioned relative to the
// parent's origin.
type Object struct {
	ID   string     `json:"id"`
	Type ObjectType `json:"type"`
	Name string     `json:"name,omitempty"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Opacity  float64 `json:"opacity"`

	Visible   bool `json:"visible"`
	Draggable bool `json:"draggable"`
	Locked    bool `json:"locked,omitempty"`

	// rect, image, gallery-item, frame: authoritative dimensions.
	// group: derived from visible children, never authoritative.
	// text: optional wrap width.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// circle
	Radius float64 `json:"radius,omitempty"`

	// line, triangle, star, diamond: flat [x0, y0, x1, y1, ...] offsets
	// relative to X/Y.
	Points []float64 `json:"points,omitempty"`
	Closed bool      `json:"closed,omitempty"`

	// text; the key is always serialized because deserialization requires it
	// on text objects.
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Align      string  `json:"align,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`

	// image, gallery-item
	Src string `json:"src,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	// group, frame, gallery-item
	Children []*Object `json:"children,omitempty"`
}

// objectAlias mirrors Object with pointers for fields whose zero value is not
// their default, so UnmarshalJSON can tell "absent" from "explicitly zero".
type objectAlias struct {
	ID   string     `json:"id"`
	Type ObjectType `json:"type"`
	Name string     `json:"name"`

	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation float64  `json:"rotation"`
	ScaleX   *float64 `json:"scaleX"`
	ScaleY   *float64 `json:"scaleY"`
	Opacity  *float64 `json:"opacity"`

	Visible   *bool `json:"visible"`
	Draggable *bool `json:"draggable"`
	Locked    bool  `json:"locked"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Radius float64 `json:"radius"`

	Points []float64 `json:"points"`
	Closed bool      `json:"closed"`

	Text       *string `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Align      string  `json:"align"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	Underline  bool    `json:"underline"`

	Src string `json:"src"`

	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`

	Children []*Object `json:"children"`
}

// UnmarshalJSON decodes an object and applies defaults for absent fields:
// scaleX/scaleY default to 1, opacity to 1, visible and draggable to true.
func (o *Object) UnmarshalJSON(data []byte) error {
	var a objectAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	*o = Object{
		ID:          a.ID,
		Type:        a.Type,
		Name:        a.Name,
		X:           a.X,
		Y:           a.Y,
		Rotation:    a.Rotation,
		ScaleX:      1,
		ScaleY:      1,
		Opacity:     1,
		Visible:     true,
		Draggable:   true,
		Locked:      a.Locked,
		Width:       a.Width,
		Height:      a.Height,
		Radius:      a.Radius,
		Points:      a.Points,
		Closed:      a.Closed,
		FontSize:    a.FontSize,
		FontFamily:  a.FontFamily,
		Align:       a.Align,
		Bold:        a.Bold,
		Italic:      a.Italic,
		Underline:   a.Underline,
		Src:         a.Src,
		Fill:        a.Fill,
		Stroke:      a.Stroke,
		StrokeWidth: a.StrokeWidth,
		Children:    a.Children,
	}

	if a.ScaleX != nil {
		o.ScaleX = *a.ScaleX
	}
	if a.ScaleY != nil {
		o.ScaleY = *a.ScaleY
	}
	if a.Opacity != nil {
		o.Opacity = *a.Opacity
	}
	if a.Visible != nil {
		o.Visible = *a.Visible
	}
	if a.Draggable != nil {
		o.Draggable = *a.Draggable
	}
	if a.Text != nil {
		o.Text = *a.Text
	} else if a.Type == TypeText {
		return fmt.Errorf("text object %q missing text field", a.ID)
	}

	return nil
}

// Validate checks the per-kind required fields. Children are validated
// recursively.
func (o *Object) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("object missing id")
	}
	if !o.Type.valid() {
		return fmt.Errorf("object %s: unrecognized type %q", o.ID, o.Type)
	}

	switch o.Type {
	case TypeRect, TypeImage, TypeFrame:
		if o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("object %s: %s requires positive width and height", o.ID, o.Type)
		}
	case TypeGalleryItem:
		if o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("object %s: gallery-item requires positive width and height", o.ID)
		}
		if o.Children == nil {
			return fmt.Errorf("object %s: gallery-item requires a children array", o.ID)
		}
	case TypeCircle:
		if o.Radius <= 0 {
			return fmt.Errorf("object %s: circle requires positive radius", o.ID)
		}
	case TypeText:
		if o.FontSize <= 0 {
			return fmt.Errorf("object %s: text requires positive fontSize", o.ID)
		}
	}

	if o.Type.IsPolygon() {
		if len(o.Points) < 4 || len(o.Points)%2 != 0 {
			return fmt.Errorf("object %s: %s requires an even points array with at least two points", o.ID, o.Type)
		}
	}

	if o.Type == TypeFrame {
		if len(o.Children) > 1 {
			return fmt.Errorf("object %s: frame holds at most one child", o.ID)
		}
		if len(o.Children) == 1 && o.Children[0].Type != TypeImage {
			return fmt.Errorf("object %s: frame child must be an image", o.ID)
		}
	}

	if o.Opacity < 0 || o.Opacity > 1 {
		return fmt.Errorf("object %s: opacity %v out of range [0,1]", o.ID, o.Opacity)
	}

	for _, c := range o.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Clone returns a deep copy of the object, ids included.
func (o *Object) Clone() *Object {
	dup := *o
	if o.Points != nil {
		dup.Points = append([]float64(nil), o.Points...)
	}
	if o.Children != nil {
		dup.Children = make([]*Object, len(o.Children))
		for i, c := range o.Children {
			dup.Children[i] = c.Clone()
		}
	}
	return &dup
}

// CloneFresh returns a deep copy with freshly generated ids, recursively.
// Used by paste so clones never collide with their originals.
func (o *Object) CloneFresh() *Object {
	dup := o.Clone()
	dup.reassignIDs()
	return dup
}

func (o *Object) reassignIDs() {
	o.ID = typeid.NewObjectID()
	for _, c := range o.Children {
		c.reassignIDs()
	}
}

// NormalizeRotation wraps a rotation in degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

func newObject(t ObjectType) *Object {
	return &Object{
		ID:        typeid.NewObjectID(),
		Type:      t,
		ScaleX:    1,
		ScaleY:    1,
		Opacity:   1,
		Visible:   true,
		Draggable: true,
	}
}

// NewRect creates a rectangle at the given top-left position.
func NewRect(x, y, w, h float64) *Object {
	o := newObject(TypeRect)
	o.X, o.Y, o.Width, o.Height = x, y, w, h
	return o
}

// NewCircle creates a circle centered at the given position.
func NewCircle(x, y, radius float64) *Object {
	o := newObject(TypeCircle)
	o.X, o.Y, o.Radius = x, y, radius
	return o
}

// NewLine creates an open line with point offsets relative to x/y.
func NewLine(x, y float64, points []float64) *Object {
	o := newObject(TypeLine)
	o.X, o.Y = x, y
	o.Points = append([]float64(nil), points...)
	return o
}

// NewPolygon creates a closed point-based shape (triangle, star, diamond).
func NewPolygon(t ObjectType, x, y float64, points []float64) *Object {
	o := newObject(t)
	o.X, o.Y = x, y
	o.Points = append([]float64(nil), points...)
	o.Closed = true
	return o
}

// NewText creates a text object. Width is the optional wrap width; zero means
// unwrapped.
func NewText(x, y float64, text string, fontSize float64) *Object {
	o := newObject(TypeText)
	o.X, o.Y = x, y
	o.Text = text
	o.FontSize = fontSize
	return o
}

// NewImage creates an image with its intrinsic dimensions.
func NewImage(x, y, w, h float64, src string) *Object {
	o := newObject(TypeImage)
	o.X, o.Y, o.Width, o.Height = x, y, w, h
	o.Src = src
	return o
}

// NewGroup creates an empty group. Dimensions are derived once children are
// attached.
func NewGroup(x, y float64) *Object {
	o := newObject(TypeGroup)
	o.X, o.Y = x, y
	return o
}

// NewFrame creates a fixed-size image container.
func NewFrame(x, y, w, h float64) *Object {
	o := newObject(TypeFrame)
	o.X, o.Y, o.Width, o.Height = x, y, w, h
	return o
}
