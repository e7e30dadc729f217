package capture

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// commandRecorder captures framing commands written to the link.
type commandRecorder struct {
	mu       sync.Mutex
	commands []string
}

func (r *commandRecorder) send(payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, string(payload))
	return nil
}

func (r *commandRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

func TestWindowBeginThenExpire(t *testing.T) {
	recorder := &commandRecorder{}
	closed := make(chan uint64, 1)
	var expired atomic.Bool

	w := NewWindow(20*time.Millisecond, recorder.send, func(seq uint64, exp bool) {
		expired.Store(exp)
		closed <- seq
	}, nil)

	seq, err := w.Begin(Mode{Label: "gesture1", Train: true})
	require.NoError(t, err)
	require.Equal(t, uint64(1), seq)
	require.True(t, w.Active())

	select {
	case got := <-closed:
		require.Equal(t, seq, got)
	case <-time.After(2 * time.Second):
		t.Fatal("window never closed")
	}

	require.True(t, expired.Load())
	require.False(t, w.Active())
	require.Equal(t, []string{"start", "stop"}, recorder.snapshot())

	mode, ok := w.CurrentMode()
	require.True(t, ok)
	require.Equal(t, "gesture1", mode.Label)
	require.True(t, mode.Train)
}

func TestWindowRejectsReentrantBegin(t *testing.T) {
	recorder := &commandRecorder{}
	w := NewWindow(time.Hour, recorder.send, nil, nil)

	_, err := w.Begin(Mode{Label: "gesture1", Train: true})
	require.NoError(t, err)

	_, err = w.Begin(Mode{Label: "gesture2", Train: true})
	require.ErrorIs(t, err, ErrWindowActive)

	// The rejected begin must not clobber the active attribution.
	mode, ok := w.CurrentMode()
	require.True(t, ok)
	require.Equal(t, "gesture1", mode.Label)
	require.Equal(t, []string{"start"}, recorder.snapshot())

	w.Cancel()
}

func TestWindowCancelSuppressesStop(t *testing.T) {
	recorder := &commandRecorder{}
	closed := make(chan bool, 1)

	w := NewWindow(30*time.Millisecond, recorder.send, func(_ uint64, exp bool) {
		closed <- exp
	}, nil)

	_, err := w.Begin(Mode{Label: "gesture2", Train: true})
	require.NoError(t, err)

	w.Cancel()

	select {
	case exp := <-closed:
		require.False(t, exp)
	case <-time.After(time.Second):
		t.Fatal("cancel did not close the window")
	}

	// Wait past the original deadline: the timer must not fire a late stop.
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, []string{"start"}, recorder.snapshot())

	select {
	case <-closed:
		t.Fatal("window closed twice")
	default:
	}
}

func TestWindowCancelWithoutBeginIsNoop(t *testing.T) {
	var closes atomic.Int32
	w := NewWindow(time.Hour, nil, func(uint64, bool) { closes.Add(1) }, nil)

	w.Cancel()
	require.Equal(t, int32(0), closes.Load())

	_, ok := w.CurrentMode()
	require.False(t, ok)
}

func TestWindowSequenceAdvancesPerBegin(t *testing.T) {
	recorder := &commandRecorder{}
	w := NewWindow(time.Hour, recorder.send, nil, nil)

	seq1, err := w.Begin(Mode{Label: "gesture1", Train: true})
	require.NoError(t, err)
	w.Cancel()

	seq2, err := w.Begin(Mode{Train: false})
	require.NoError(t, err)
	require.Greater(t, seq2, seq1)
	w.Cancel()

	mode, ok := w.CurrentMode()
	require.True(t, ok)
	require.False(t, mode.Train)
	require.Empty(t, mode.Label)
}
