package app

import (
	"context"
	"sync"
	"time"

	"github.com/rcliao/tempnotes/internal/logging"
)

// DefaultAutosaveDelay is the quiet period before a draft edit is persisted.
const DefaultAutosaveDelay = 250 * time.Millisecond

// SaveState is the draft's persistence state as shown to the user.
type SaveState int

const (
	Saved SaveState = iota
	Saving
	Failed
)

func (s SaveState) String() string {
	switch s {
	case Saving:
		return "saving"
	case Failed:
		return "save failed"
	default:
		return "saved"
	}
}

// Autosaver debounces draft writes: every Schedule restarts the timer and
// only the text from the last one is written once the delay passes quietly.
// Writes never overlap and are applied in scheduling order.
type Autosaver struct {
	delay time.Duration
	save  func(context.Context, string) error
	log   logging.Logger

	saveMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending string
	dirty   bool
	state   SaveState
	lastErr error
}

// NewAutosaver returns an Autosaver calling save after delay. A non-positive
// delay uses DefaultAutosaveDelay.
func NewAutosaver(delay time.Duration, save func(context.Context, string) error, log logging.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{delay: delay, save: save, log: log}
}

// Schedule records text as the latest draft and restarts the timer.
func (a *Autosaver) Schedule(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	seq := a.seq
	a.pending = text
	a.dirty = true
	a.state = Saving
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { a.fire(seq) })
}

func (a *Autosaver) fire(seq uint64) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if seq != a.seq || !a.dirty {
		a.mu.Unlock()
		return
	}
	text := a.pending
	a.dirty = false
	a.mu.Unlock()

	err := a.save(context.Background(), text)
	a.finish(seq, err)
}

func (a *Autosaver) finish(seq uint64, err error) {
	if err != nil {
		a.log.Errorf("autosave: %v", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if seq != a.seq {
		// A newer edit is pending; its save reports the state.
		return
	}
	a.lastErr = err
	if err != nil {
		a.state = Failed
	} else {
		a.state = Saved
	}
}

// Flush writes any pending draft now instead of waiting for the timer.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.seq++
	seq := a.seq
	text := a.pending
	a.dirty = false
	a.mu.Unlock()

	err := a.save(ctx, text)
	a.finish(seq, err)
	return err
}

// Cancel drops any pending draft without writing it.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.seq++
	a.dirty = false
	a.state = Saved
	a.lastErr = nil
}

// State returns the current save state and the last save error, if any.
func (a *Autosaver) State() (SaveState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.lastErr
}
