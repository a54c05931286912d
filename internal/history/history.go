// Package history implements a linear undo stack of reversible commands.
// Commands are plain data: each carries the full state captured before and
// after the mutation, so undo never applies to a stale live reference and
// the stack stays inspectable.
package history

// DefaultLimit bounds the number of retained commands. Pushing past the
// limit drops the oldest entry.
const DefaultLimit = 100

// Command pairs a human-readable description with before/after state
// snapshots. Applying After is the execute direction, Before the undo
// direction; both are idempotent because they are whole-state values.
type Command[S any] struct {
	Name   string
	Before S
	After  S
}

// Stack is a linear command history with a cursor. The cursor counts applied
// commands: entries[:cursor] are done, entries[cursor:] are the redo tail.
type Stack[S any] struct {
	entries []Command[S]
	cursor  int
	limit   int
}

// NewStack creates a history capped at limit entries; limit <= 0 selects
// DefaultLimit.
func NewStack[S any](limit int) *Stack[S] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[S]{limit: limit}
}

// Push records an executed command. Any redo tail is truncated; if the stack
// is at capacity the oldest command is dropped.
func (s *Stack[S]) Push(cmd Command[S]) {
	s.entries = append(s.entries[:s.cursor], cmd)
	if len(s.entries) > s.limit {
		drop := len(s.entries) - s.limit
		s.entries = append(s.entries[:0:0], s.entries[drop:]...)
	}
	s.cursor = len(s.entries)
}

// Undo steps the cursor back and returns the command whose Before state
// should be restored. ok is false when there is nothing to undo.
func (s *Stack[S]) Undo() (Command[S], bool) {
	if s.cursor == 0 {
		var zero Command[S]
		return zero, false
	}
	s.cursor--
	return s.entries[s.cursor], true
}

// Redo steps the cursor forward and returns the command whose After state
// should be restored. ok is false when there is nothing to redo.
func (s *Stack[S]) Redo() (Command[S], bool) {
	if s.cursor == len(s.entries) {
		var zero Command[S]
		return zero, false
	}
	cmd := s.entries[s.cursor]
	s.cursor++
	return cmd, true
}

func (s *Stack[S]) CanUndo() bool { return s.cursor > 0 }
func (s *Stack[S]) CanRedo() bool { return s.cursor < len(s.entries) }

// Len returns the number of recorded commands, redo tail included.
func (s *Stack[S]) Len() int { return len(s.entries) }

// Clear drops the whole history. Used when a fresh baseline is loaded.
func (s *Stack[S]) Clear() {
	s.entries = nil
	s.cursor = 0
}

// Names returns the command descriptions in stack order, for history
// inspection UIs.
func (s *Stack[S]) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}
