package query

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_LastWriteWins(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var last atomic.Value
	var calls atomic.Int32
	done := make(chan struct{}, 4)

	for _, term := range []string{"t", "to", "tor"} {
		term := term
		d.Trigger(func() {
			last.Store(term)
			calls.Add(1)
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(60 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
	if got := last.Load().(string); got != "tor" {
		t.Fatalf("expected last term to win, got %q", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(40 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected stopped call not to run, got %d", n)
	}
}

func TestNewDebouncer_DefaultDelay(t *testing.T) {
	if d := NewDebouncer(0); d.delay != DefaultDebounce {
		t.Fatalf("expected default delay %v, got %v", DefaultDebounce, d.delay)
	}
}
