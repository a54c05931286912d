package history

import (
	"reflect"
	"testing"
)

func cmd(name string, before, after int) Command[int] {
	return Command[int]{Name: name, Before: before, After: after}
}

func TestStack_UndoRedo(t *testing.T) {
	s := NewStack[int](0)

	if _, ok := s.Undo(); ok {
		t.Error("undo on empty stack should fail")
	}
	if _, ok := s.Redo(); ok {
		t.Error("redo on empty stack should fail")
	}

	s.Push(cmd("a", 0, 1))
	s.Push(cmd("b", 1, 2))

	if !s.CanUndo() || s.CanRedo() {
		t.Fatalf("CanUndo=%v CanRedo=%v after two pushes", s.CanUndo(), s.CanRedo())
	}

	c, ok := s.Undo()
	if !ok || c.Name != "b" || c.Before != 1 {
		t.Fatalf("first undo = %+v, %v", c, ok)
	}
	c, ok = s.Undo()
	if !ok || c.Name != "a" || c.Before != 0 {
		t.Fatalf("second undo = %+v, %v", c, ok)
	}
	if _, ok := s.Undo(); ok {
		t.Error("undo past the bottom should fail")
	}

	c, ok = s.Redo()
	if !ok || c.Name != "a" || c.After != 1 {
		t.Fatalf("first redo = %+v, %v", c, ok)
	}
	c, ok = s.Redo()
	if !ok || c.Name != "b" || c.After != 2 {
		t.Fatalf("second redo = %+v, %v", c, ok)
	}
	if _, ok := s.Redo(); ok {
		t.Error("redo past the top should fail")
	}
}

func TestStack_PushTruncatesRedoTail(t *testing.T) {
	s := NewStack[int](0)
	s.Push(cmd("a", 0, 1))
	s.Push(cmd("b", 1, 2))
	s.Push(cmd("c", 2, 3))

	s.Undo()
	s.Undo()
	s.Push(cmd("d", 1, 9))

	if s.CanRedo() {
		t.Error("push should drop the redo tail")
	}
	want := []string{"a", "d"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestStack_CapDropsOldest(t *testing.T) {
	s := NewStack[int](3)
	for i := 0; i < 5; i++ {
		s.Push(cmd(string(rune('a'+i)), i, i+1))
	}

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	want := []string{"c", "d", "e"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}

	// Only the retained commands are undoable.
	for i := 0; i < 3; i++ {
		if _, ok := s.Undo(); !ok {
			t.Fatalf("undo %d failed", i)
		}
	}
	if _, ok := s.Undo(); ok {
		t.Error("dropped commands should not be undoable")
	}
}

func TestStack_Clear(t *testing.T) {
	s := NewStack[int](0)
	s.Push(cmd("a", 0, 1))
	s.Clear()

	if s.Len() != 0 || s.CanUndo() || s.CanRedo() {
		t.Error("clear should leave an empty stack")
	}
}

func TestStack_DefaultLimit(t *testing.T) {
	s := NewStack[int](0)
	for i := 0; i < DefaultLimit+10; i++ {
		s.Push(cmd("n", i, i+1))
	}
	if s.Len() != DefaultLimit {
		t.Errorf("Len = %d, want %d", s.Len(), DefaultLimit)
	}
}
