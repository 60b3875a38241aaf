package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rcliao/tempnotes/internal/logging"
)

type recorder struct {
	mu    sync.Mutex
	saved []string
	err   error
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) save(_ context.Context, text string) error {
	r.mu.Lock()
	r.saved = append(r.saved, text)
	err := r.err
	r.mu.Unlock()
	r.done <- struct{}{}
	return err
}

func (r *recorder) writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saved...)
}

func waitSave(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for autosave")
	}
}

func TestAutosaveCollapsesBurst(t *testing.T) {
	r := newRecorder()
	a := NewAutosaver(20*time.Millisecond, r.save, logging.Discard())

	for _, s := range []string{"h", "he", "hel", "hell", "hello"} {
		a.Schedule(s)
	}
	if st, _ := a.State(); st != Saving {
		t.Errorf("expected saving state, got %v", st)
	}
	waitSave(t, r)
	time.Sleep(60 * time.Millisecond)

	got := r.writes()
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("expected a single write of the last text, got %q", got)
	}
	if st, err := a.State(); st != Saved || err != nil {
		t.Errorf("expected saved, got %v %v", st, err)
	}
}

func TestAutosaveFlush(t *testing.T) {
	r := newRecorder()
	a := NewAutosaver(time.Hour, r.save, logging.Discard())

	a.Schedule("draft")
	if err := a.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := r.writes(); len(got) != 1 || got[0] != "draft" {
		t.Fatalf("got %q", got)
	}
	if err := a.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := r.writes(); len(got) != 1 {
		t.Errorf("flush with nothing pending wrote again: %q", got)
	}
}

func TestAutosaveFailureState(t *testing.T) {
	r := newRecorder()
	r.err = errors.New("quota")
	a := NewAutosaver(time.Millisecond, r.save, logging.Discard())

	a.Schedule("x")
	waitSave(t, r)
	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := a.State()
		if st == Failed && err != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected failed state, got %v", st)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if Failed.String() != "save failed" {
		t.Errorf("unexpected label %q", Failed.String())
	}
}

func TestAutosaveCancel(t *testing.T) {
	r := newRecorder()
	a := NewAutosaver(20*time.Millisecond, r.save, logging.Discard())

	a.Schedule("discard me")
	a.Cancel()
	time.Sleep(60 * time.Millisecond)
	if got := r.writes(); len(got) != 0 {
		t.Fatalf("expected no writes, got %q", got)
	}
	if st, _ := a.State(); st != Saved {
		t.Errorf("expected saved state, got %v", st)
	}
}
