package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
)

// DefaultAutosaveInterval is the debounce window between the first unsaved
// mutation and the save attempt.
const DefaultAutosaveInterval = 60 * time.Second

// SaveFunc persists the current document to the external collaborator.
type SaveFunc func(ctx context.Context, doc *canvas.Document) error

// Autosaver watches an editing session's dirty state and fires a debounced
// save. A failed save leaves the dirty flag set so the next cycle (or an
// explicit Flush) retries; there is no automatic backoff.
type Autosaver struct {
	interval time.Duration
	document func() *canvas.Document
	save     SaveFunc
	onError  func(error)

	mu        sync.Mutex
	timer     *time.Timer
	dirty     bool
	saving    bool
	lastSaved time.Time
	stopped   bool
}

// NewAutosaver creates an autosaver. document is called at fire time to pull
// the latest revision; interval <= 0 selects the default.
func NewAutosaver(interval time.Duration, document func() *canvas.Document, save SaveFunc) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		interval: interval,
		document: document,
		save:     save,
	}
}

// OnError registers a callback for save failures from the debounce timer.
// Explicit Flush calls return their error directly instead.
func (a *Autosaver) OnError(fn func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onError = fn
}

// MarkDirty records an unsaved mutation and arms the debounce timer if it is
// not already pending. A mutation during an in-flight save simply re-arms
// the flag; the outcome of that save does not clear it.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.dirty = true
	if a.timer == nil {
		a.timer = time.AfterFunc(a.interval, a.fire)
	}
}

// Dirty reports whether unsaved mutations exist.
func (a *Autosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// LastSaved returns the timestamp of the most recent successful save, zero
// if none.
func (a *Autosaver) LastSaved() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSaved
}

// Flush saves immediately when dirty, bypassing the debounce. This is the
// manual-save path the UI offers after a surfaced failure.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if !a.dirty || a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.disarmLocked()
	a.mu.Unlock()

	return a.runSave(ctx)
}

// Stop cancels any pending timer. A dirty document is left dirty; callers
// flush first when they want a final save.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.disarmLocked()
}

func (a *Autosaver) disarmLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// fire runs on the debounce timer's goroutine.
func (a *Autosaver) fire() {
	a.mu.Lock()
	a.timer = nil
	if !a.dirty || a.stopped {
		a.mu.Unlock()
		return
	}
	onError := a.onError
	a.mu.Unlock()

	if err := a.runSave(context.Background()); err != nil {
		slog.Error("autosave failed", "error", err)
		if onError != nil {
			onError(err)
		}
	}
}

// runSave performs one save attempt. The dirty flag is cleared only after
// success, and only if no mutation arrived while the save was in flight.
func (a *Autosaver) runSave(ctx context.Context) error {
	a.mu.Lock()
	if a.saving {
		a.mu.Unlock()
		return nil
	}
	a.saving = true
	a.dirty = false
	a.mu.Unlock()

	doc := a.document()
	err := a.save(ctx, doc)

	a.mu.Lock()
	a.saving = false
	if err != nil {
		a.dirty = true
	} else {
		a.lastSaved = time.Now()
	}
	a.mu.Unlock()

	return err
}
