package canvas

import (
	"encoding/json"
	"fmt"
)

// Document is one gallery canvas: the ordered top-level objects (paint order,
// earlier index painted first) plus the canvas dimensions and background.
//
// A Document is treated as an immutable revision by the editor: every
// mutation clones the document and edits the clone, so prior revisions stay
// valid for the undo stack.
type Document struct {
	Objects    []*Object `json:"objects"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Background string    `json:"background,omitempty"`
}

// NewDocument creates an empty canvas with the given dimensions.
func NewDocument(width, height float64) *Document {
	return &Document{
		Objects: []*Object{},
		Width:   width,
		Height:  height,
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	dup := &Document{
		Objects:    make([]*Object, len(d.Objects)),
		Width:      d.Width,
		Height:     d.Height,
		Background: d.Background,
	}
	for i, o := range d.Objects {
		dup.Objects[i] = o.Clone()
	}
	return dup
}

// Find locates an object by id, depth-first through group and frame
// children. Returns nil if absent.
func (d *Document) Find(id string) *Object {
	obj, _, _ := d.locate(id)
	return obj
}

// FindParent returns the containing object of id, or nil when the object is
// top-level or absent.
func (d *Document) FindParent(id string) *Object {
	_, parent, _ := d.locate(id)
	return parent
}

func (d *Document) locate(id string) (obj, parent *Object, index int) {
	for i, o := range d.Objects {
		if o.ID == id {
			return o, nil, i
		}
		if found, p, idx := locateIn(o, id); found != nil {
			return found, p, idx
		}
	}
	return nil, nil, -1
}

func locateIn(container *Object, id string) (obj, parent *Object, index int) {
	for i, c := range container.Children {
		if c.ID == id {
			return c, container, i
		}
		if found, p, idx := locateIn(c, id); found != nil {
			return found, p, idx
		}
	}
	return nil, nil, -1
}

// Update applies mutate to the object with the given id. If the object is
// nested in a group, the group's derived bounds are recalculated afterwards
// (frames keep their fixed dimensions). Returns false when the id is absent.
func (d *Document) Update(id string, m TextMeasurer, mutate func(*Object)) bool {
	obj, parent, _ := d.locate(id)
	if obj == nil {
		return false
	}
	mutate(obj)
	if parent != nil {
		RecalcGroupBounds(parent, m)
	}
	return true
}

// Delete removes the object wherever it is nested. A shrunken group gets its
// bounds recalculated. Returns false when the id is absent.
func (d *Document) Delete(id string, m TextMeasurer) bool {
	for i, o := range d.Objects {
		if o.ID == id {
			d.Objects = append(d.Objects[:i], d.Objects[i+1:]...)
			return true
		}
		if deleteIn(o, id, m) {
			return true
		}
	}
	return false
}

func deleteIn(container *Object, id string, m TextMeasurer) bool {
	for i, c := range container.Children {
		if c.ID == id {
			container.Children = append(container.Children[:i], container.Children[i+1:]...)
			RecalcGroupBounds(container, m)
			return true
		}
		if deleteIn(c, id, m) {
			RecalcGroupBounds(container, m)
			return true
		}
	}
	return false
}

// ReorderDirection selects a paint-order move. Up swaps toward index zero
// (painted earlier, below); Down toward the end (painted later, on top).
type ReorderDirection int

const (
	ReorderUp ReorderDirection = iota
	ReorderDown
)

// Reorder swaps a top-level object with its immediate neighbor in paint
// order. Nested objects and edge positions are no-ops returning false.
func (d *Document) Reorder(id string, dir ReorderDirection) bool {
	for i, o := range d.Objects {
		if o.ID != id {
			continue
		}
		switch dir {
		case ReorderUp:
			if i == 0 {
				return false
			}
			d.Objects[i-1], d.Objects[i] = d.Objects[i], d.Objects[i-1]
		case ReorderDown:
			if i == len(d.Objects)-1 {
				return false
			}
			d.Objects[i], d.Objects[i+1] = d.Objects[i+1], d.Objects[i]
		}
		return true
	}
	return false
}

// Insert appends an object to the top level.
func (d *Document) Insert(obj *Object) {
	d.Objects = append(d.Objects, obj)
}

// InsertAt inserts an object at a specific top-level index, clamping to the
// valid range.
func (d *Document) InsertAt(obj *Object, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(d.Objects) {
		index = len(d.Objects)
	}
	d.Objects = append(d.Objects, nil)
	copy(d.Objects[index+1:], d.Objects[index:])
	d.Objects[index] = obj
}

// Walk visits every object depth-first, parents before children. The parent
// argument is nil for top-level objects. Returning false stops the walk.
func (d *Document) Walk(fn func(o, parent *Object) bool) {
	for _, o := range d.Objects {
		if !walkObject(o, nil, fn) {
			return
		}
	}
}

func walkObject(o, parent *Object, fn func(o, parent *Object) bool) bool {
	if !fn(o, parent) {
		return false
	}
	for _, c := range o.Children {
		if !walkObject(c, o, fn) {
			return false
		}
	}
	return true
}

// IDs returns every object id in the tree, nested children included.
func (d *Document) IDs() []string {
	var ids []string
	d.Walk(func(o, _ *Object) bool {
		ids = append(ids, o.ID)
		return true
	})
	return ids
}

// Validate checks the document invariants: every object carries valid
// per-kind fields and no id appears twice anywhere in the tree.
func (d *Document) Validate() error {
	if d.Objects == nil {
		return fmt.Errorf("document missing objects array")
	}
	seen := make(map[string]struct{})
	var dup string
	d.Walk(func(o, _ *Object) bool {
		if _, ok := seen[o.ID]; ok {
			dup = o.ID
			return false
		}
		seen[o.ID] = struct{}{}
		return true
	})
	if dup != "" {
		return fmt.Errorf("duplicate object id %q", dup)
	}
	for _, o := range d.Objects {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON guarantees an empty objects array serializes as [] rather than
// null, so a round-trip stays valid.
func (d *Document) MarshalJSON() ([]byte, error) {
	type alias Document
	a := alias(*d)
	if a.Objects == nil {
		a.Objects = []*Object{}
	}
	return json.Marshal(a)
}
