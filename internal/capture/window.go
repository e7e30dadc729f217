// Package capture brackets one timed sample-collection window with start and
// stop framing commands on the wireless link.
package capture

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ErrWindowActive reports a begin request while a window is already open.
// Reentrant captures are rejected, not superseded.
var ErrWindowActive = errors.New("a capture window is already active")

var (
	startCommand = []byte("start")
	stopCommand  = []byte("stop")
)

// Mode is the label/mode attribution recorded by the most recent Begin call.
// Train is false for test (classify) captures; Label is empty in that case.
type Mode struct {
	Label string
	Train bool
}

// Window manages a single timed start/stop bracket. For every Begin, exactly
// one of deadline fire or Cancel completes, exactly once. Sends may race link
// teardown: a stop command on a dead link is dropped by the transport, never
// surfaced.
type Window struct {
	duration time.Duration
	send     func(payload []byte) error
	onClosed func(seq uint64, expired bool)
	logger   *slog.Logger

	mu      sync.Mutex
	seq     uint64
	active  bool
	mode    Mode
	hasMode bool
	timer   *time.Timer
}

// NewWindow constructs a capture window. onClosed runs once per window after
// it closes, with expired=true on deadline fire and false on Cancel.
func NewWindow(duration time.Duration, send func(payload []byte) error, onClosed func(seq uint64, expired bool), logger *slog.Logger) *Window {
	if send == nil {
		send = func([]byte) error { return nil }
	}
	if onClosed == nil {
		onClosed = func(uint64, bool) {}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Window{
		duration: duration,
		send:     send,
		onClosed: onClosed,
		logger:   logger,
	}
}

// Begin opens a new window: sends the start framing command and arms the
// deadline timer. Returns the window's sequence id.
func (w *Window) Begin(mode Mode) (uint64, error) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		return 0, ErrWindowActive
	}
	w.seq++
	seq := w.seq
	w.active = true
	w.mode = mode
	w.hasMode = true

	if err := w.send(startCommand); err != nil {
		w.logger.Warn("start command write failed", "seq", seq, "error", err.Error())
	}
	w.timer = time.AfterFunc(w.duration, func() { w.expire(seq) })
	w.mu.Unlock()

	return seq, nil
}

// Cancel closes the active window without sending a stop command. Used when
// the link drops mid-window. No-op when no window is active.
func (w *Window) Cancel() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return
	}
	seq := w.seq
	w.active = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	w.onClosed(seq, false)
}

// expire fires on the deadline timer's own goroutine. The sequence check
// makes a late fire racing Cancel a no-op.
func (w *Window) expire(seq uint64) {
	w.mu.Lock()
	if !w.active || w.seq != seq {
		w.mu.Unlock()
		return
	}
	w.active = false
	w.timer = nil
	if err := w.send(stopCommand); err != nil {
		w.logger.Warn("stop command write failed", "seq", seq, "error", err.Error())
	}
	w.mu.Unlock()

	w.onClosed(seq, true)
}

// Active reports whether a window is currently open.
func (w *Window) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// CurrentMode returns the attribution set by the most recent Begin. The mode
// outlives window closure: samples arriving just after the stop command are
// still attributed to it. ok is false before the first Begin.
func (w *Window) CurrentMode() (Mode, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode, w.hasMode
}

// Sequence returns the most recently issued sequence id.
func (w *Window) Sequence() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq
}
