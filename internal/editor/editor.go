// Package editor implements the mutation API of the gallery canvas: a
// session owning the current document revision, the selection, the clipboard
// slot, and the undo history. Every mutating operation commits a command, so
// undo/redo restore exact prior revisions.
package editor

import (
	"errors"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
	"github.com/inkwell/inkwell/canvas-go/internal/history"
)

var (
	ErrNotFound       = errors.New("object not found")
	ErrNotGroup       = errors.New("object is not a group")
	ErrNotImage       = errors.New("object is not an image")
	ErrNotFrame       = errors.New("object is not a frame")
	ErrNotTopLevel    = errors.New("object is not top-level")
	ErrTooFewObjects  = errors.New("grouping requires at least two objects")
	ErrEmptyClipboard = errors.New("clipboard is empty")
	ErrDuplicateID    = errors.New("object id already present")
)

// State is one editor revision: the document plus the selection that goes
// with it. States are immutable once committed; mutations build a new one.
type State struct {
	Doc       *canvas.Document
	Selection []string
}

// Editor is a single editing session. It is not safe for concurrent use; the
// surrounding UI drives it from one event loop.
type Editor struct {
	state     State
	clipboard []*canvas.Object
	hist      *history.Stack[State]
	measurer  canvas.TextMeasurer
	onChange  []func()
}

// New creates an editor over the given document. The document is adopted,
// not copied; callers must not keep mutating it.
func New(doc *canvas.Document) *Editor {
	if doc == nil {
		doc = canvas.NewDocument(0, 0)
	}
	return &Editor{
		state: State{Doc: doc},
		hist:  history.NewStack[State](history.DefaultLimit),
	}
}

// SetTextMeasurer installs exact text metrics from the host environment.
// Without one, text bounds fall back to the character-count heuristic.
func (e *Editor) SetTextMeasurer(m canvas.TextMeasurer) {
	e.measurer = m
}

// OnChange registers a callback invoked after every committed mutation,
// undo, and redo. The renderer and the persistence bridge subscribe here.
func (e *Editor) OnChange(fn func()) {
	e.onChange = append(e.onChange, fn)
}

func (e *Editor) notify() {
	for _, fn := range e.onChange {
		fn()
	}
}

// Document returns the current revision. Callers must treat it as read-only.
func (e *Editor) Document() *canvas.Document {
	return e.state.Doc
}

// Selection returns the currently selected object ids in selection order.
func (e *Editor) Selection() []string {
	return append([]string(nil), e.state.Selection...)
}

// Select replaces the selection with the given ids, dropping ids that do not
// resolve. Selecting a frame child selects only that child, never the frame.
// Selection changes are not undoable on their own; they travel with the
// command that caused them.
func (e *Editor) Select(ids ...string) {
	var sel []string
	for _, id := range ids {
		if e.state.Doc.Find(id) != nil {
			sel = append(sel, id)
		}
	}
	e.state.Selection = sel
}

// ClearSelection empties the selection set.
func (e *Editor) ClearSelection() {
	e.state.Selection = nil
}

// InitializeState replaces the whole document wholesale. This is the load
// path, not a command: history and selection reset to a fresh baseline.
func (e *Editor) InitializeState(doc *canvas.Document) {
	if doc == nil {
		doc = canvas.NewDocument(0, 0)
	}
	e.state = State{Doc: doc}
	e.hist.Clear()
}

// Undo reverts the most recent command. Returns false when there is nothing
// to undo.
func (e *Editor) Undo() bool {
	cmd, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.state = cmd.Before
	e.notify()
	return true
}

// Redo re-applies the most recently undone command.
func (e *Editor) Redo() bool {
	cmd, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.state = cmd.After
	e.notify()
	return true
}

func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// HistoryNames lists the committed command descriptions, oldest first.
func (e *Editor) HistoryNames() []string { return e.hist.Names() }

// keepSelection marks an operation that leaves the selection untouched.
// Operations that clear the selection return an empty non-nil slice instead.
var keepSelection []string

// commit runs fn against a fresh clone of the current document and records
// the transition as one undoable command. fn returns the selection for the
// new state (keepSelection to leave it as is) or an error to abort with no
// state change.
func (e *Editor) commit(name string, fn func(doc *canvas.Document) ([]string, error)) error {
	before := e.state

	doc := before.Doc.Clone()
	sel, err := fn(doc)
	if err != nil {
		return err
	}
	if sel == nil {
		sel = before.Selection
	}

	after := State{Doc: doc, Selection: sel}
	e.state = after
	e.hist.Push(history.Command[State]{Name: name, Before: before, After: after})
	e.notify()
	return nil
}
