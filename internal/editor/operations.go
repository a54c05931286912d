package editor

import (
	"fmt"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
	"github.com/inkwell/inkwell/canvas-go/internal/typeid"
)

// PasteOffset is how far pasted clones land from their originals, on both
// axes.
const PasteOffset = 20.0

// AddObject appends an object to the top level. An empty id gets a fresh
// one; a colliding id is rejected.
func (e *Editor) AddObject(obj *canvas.Object) error {
	if obj == nil {
		return ErrNotFound
	}
	if obj.ID == "" {
		obj.ID = typeid.NewObjectID()
	}
	if e.state.Doc.Find(obj.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, obj.ID)
	}
	if err := obj.Validate(); err != nil {
		return err
	}

	added := obj.Clone()
	return e.commit("add "+string(obj.Type), func(doc *canvas.Document) ([]string, error) {
		doc.Insert(added)
		return keepSelection, nil
	})
}

// UpdateObject applies mutate to the object's fields. The whole prior
// document travels with the command, so undo restores the captured object
// wholesale rather than patching fields back.
func (e *Editor) UpdateObject(id string, mutate func(*canvas.Object)) error {
	if e.state.Doc.Find(id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.commit("update object", func(doc *canvas.Document) ([]string, error) {
		doc.Update(id, e.measurer, mutate)
		return keepSelection, nil
	})
}

// DeleteObject removes the object wherever it is nested and drops it from
// the selection. Undo restores it to its original parent and index.
func (e *Editor) DeleteObject(id string) error {
	if e.state.Doc.Find(id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.commit("delete object", func(doc *canvas.Document) ([]string, error) {
		doc.Delete(id, e.measurer)
		return withoutID(e.state.Selection, id), nil
	})
}

// ReorderObject swaps a top-level object with its paint-order neighbor.
func (e *Editor) ReorderObject(id string, dir canvas.ReorderDirection) error {
	obj, parent := e.state.Doc.Find(id), e.state.Doc.FindParent(id)
	if obj == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if parent != nil {
		return fmt.Errorf("%w: %s", ErrNotTopLevel, id)
	}
	return e.commit("reorder object", func(doc *canvas.Document) ([]string, error) {
		doc.Reorder(id, dir)
		return keepSelection, nil
	})
}

// GroupObjects wraps two or more top-level objects into a new group
// positioned at the union bounding box's top-left, rewriting member
// coordinates relative to that origin. The new group becomes the selection.
func (e *Editor) GroupObjects(ids []string) (string, error) {
	if len(ids) < 2 {
		return "", ErrTooFewObjects
	}
	for _, id := range ids {
		if e.state.Doc.Find(id) == nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if e.state.Doc.FindParent(id) != nil {
			return "", fmt.Errorf("%w: %s", ErrNotTopLevel, id)
		}
	}

	groupID := typeid.NewObjectID()
	err := e.commit("group objects", func(doc *canvas.Document) ([]string, error) {
		wanted := make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}

		// Pull members out in paint order.
		var members []*canvas.Object
		var rest []*canvas.Object
		for _, o := range doc.Objects {
			if wanted[o.ID] {
				members = append(members, o)
			} else {
				rest = append(rest, o)
			}
		}

		box, ok := canvas.ChildrenBounds(members, e.measurer)
		if !ok {
			// All members hidden still group at their raw union.
			box = members[0].Bounds(e.measurer)
			for _, m := range members[1:] {
				box = box.Union(m.Bounds(e.measurer))
			}
		}

		group := canvas.NewGroup(box.X, box.Y)
		group.ID = groupID
		group.Width = box.Width
		group.Height = box.Height
		for _, m := range members {
			m.X -= box.X
			m.Y -= box.Y
			group.Children = append(group.Children, m)
		}

		doc.Objects = append(rest, group)
		return []string{groupID}, nil
	})
	if err != nil {
		return "", err
	}
	return groupID, nil
}

// UngroupObject dissolves a top-level group: children get their coordinates
// rewritten back to absolute canvas space and take the group's place in
// paint order. The freed children become the selection.
func (e *Editor) UngroupObject(groupID string) error {
	obj := e.state.Doc.Find(groupID)
	if obj == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, groupID)
	}
	if obj.Type != canvas.TypeGroup {
		return fmt.Errorf("%w: %s", ErrNotGroup, groupID)
	}
	if e.state.Doc.FindParent(groupID) != nil {
		return fmt.Errorf("%w: %s", ErrNotTopLevel, groupID)
	}

	return e.commit("ungroup objects", func(doc *canvas.Document) ([]string, error) {
		var group *canvas.Object
		var index int
		for i, o := range doc.Objects {
			if o.ID == groupID {
				group, index = o, i
				break
			}
		}

		freed := make([]string, 0, len(group.Children))
		doc.Objects = append(doc.Objects[:index], doc.Objects[index+1:]...)
		for i, c := range group.Children {
			c.X += group.X
			c.Y += group.Y
			doc.InsertAt(c, index+i)
			freed = append(freed, c.ID)
		}
		return freed, nil
	})
}

// CopyObjects snapshots the current selection into the clipboard slot. Copy
// has no tree side effect and is therefore not undoable.
func (e *Editor) CopyObjects() int {
	var snap []*canvas.Object
	for _, id := range e.state.Selection {
		if obj := e.state.Doc.Find(id); obj != nil {
			snap = append(snap, obj.Clone())
		}
	}
	if len(snap) > 0 {
		e.clipboard = snap
	}
	return len(snap)
}

// PasteObjects deep-clones the clipboard with freshly generated ids
// (recursively, group children included), offset by PasteOffset on both
// axes, and selects the pasted set.
func (e *Editor) PasteObjects() ([]string, error) {
	if len(e.clipboard) == 0 {
		return nil, ErrEmptyClipboard
	}

	pasted := make([]*canvas.Object, len(e.clipboard))
	ids := make([]string, len(e.clipboard))
	for i, o := range e.clipboard {
		dup := o.CloneFresh()
		dup.X += PasteOffset
		dup.Y += PasteOffset
		pasted[i] = dup
		ids[i] = dup.ID
	}

	err := e.commit("paste objects", func(doc *canvas.Document) ([]string, error) {
		for _, o := range pasted {
			doc.Insert(o)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AttachImageToFrame moves a top-level image into a frame as its sole child,
// aspect-fit and centered on the overflowing axis. A previously attached
// image is replaced and returned to the top level on undo via the command
// snapshot.
func (e *Editor) AttachImageToFrame(imageID, frameID string) error {
	img := e.state.Doc.Find(imageID)
	if img == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, imageID)
	}
	if img.Type != canvas.TypeImage {
		return fmt.Errorf("%w: %s", ErrNotImage, imageID)
	}
	if e.state.Doc.FindParent(imageID) != nil {
		return fmt.Errorf("%w: %s", ErrNotTopLevel, imageID)
	}
	frame := e.state.Doc.Find(frameID)
	if frame == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, frameID)
	}
	if frame.Type != canvas.TypeFrame {
		return fmt.Errorf("%w: %s", ErrNotFrame, frameID)
	}

	return e.commit("attach image to frame", func(doc *canvas.Document) ([]string, error) {
		img := doc.Find(imageID)
		frame := doc.Find(frameID)

		doc.Delete(imageID, e.measurer)
		fitImageToFrame(img, frame)
		frame.Children = []*canvas.Object{img}

		return withoutID(e.state.Selection, imageID), nil
	})
}

// fitImageToFrame rewrites the image's dimensions and frame-relative
// position so it fills the frame on one axis, preserving aspect ratio and
// centering on the other.
func fitImageToFrame(img, frame *canvas.Object) {
	imgW := img.Width * img.ScaleX
	imgH := img.Height * img.ScaleY
	if imgW <= 0 || imgH <= 0 {
		imgW, imgH = frame.Width, frame.Height
	}

	imgAspect := imgW / imgH
	frameAspect := frame.Width / frame.Height

	var w, h, x, y float64
	if imgAspect > frameAspect {
		// Relatively wider: fill the frame width, center vertically.
		w = frame.Width
		h = frame.Width / imgAspect
		y = (frame.Height - h) / 2
	} else {
		h = frame.Height
		w = frame.Height * imgAspect
		x = (frame.Width - w) / 2
	}

	img.X, img.Y = x, y
	img.Width, img.Height = w, h
	img.ScaleX, img.ScaleY = 1, 1
	img.Rotation = 0
}

func withoutID(sel []string, id string) []string {
	out := make([]string, 0, len(sel))
	for _, s := range sel {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}
