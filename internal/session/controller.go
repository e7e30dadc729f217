// Package session implements the session controller: it owns the wireless
// link lifecycle, brackets timed capture windows, and correlates streaming
// samples with the active gesture label on their way to the classifier.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gesturelab/gestured/internal/capture"
	"github.com/gesturelab/gestured/internal/classifier"
	"github.com/gesturelab/gestured/internal/fsm"
	"github.com/gesturelab/gestured/internal/ipc"
	"github.com/gesturelab/gestured/internal/notify"
	"github.com/gesturelab/gestured/internal/transport"
)

// Command identifiers reported through the presentation sink.
const (
	CommandConnect = "connect"
	CommandRecord  = "record"
	CommandTest    = "test"
	CommandTrain   = "train"
	CommandReset   = "reset"
)

// Options carries the capture-workflow parameters for one controller.
type Options struct {
	// Labels is the ordered gesture catalogue.
	Labels []string
	// CaptureDuration is the start-to-stop window length.
	CaptureDuration time.Duration
	// ClassifyQueueSize bounds the pending classification backlog.
	ClassifyQueueSize int
}

// noopLink preserves controller flow when no transport is wired.
type noopLink struct{}

func (noopLink) ConnectFirstAvailable(context.Context) {}
func (noopLink) Send([]byte) error                     { return nil }
func (noopLink) Disconnect() error                     { return nil }
func (noopLink) Events() <-chan transport.Event        { return nil }

// Controller orchestrates link state transitions, capture windows, and
// sample routing. Link state and the active capture attribution are only
// mutated behind the controller mutex; transport callbacks, the deadline
// timer, and IPC commands may all arrive on distinct goroutines.
type Controller struct {
	logger *slog.Logger
	link   transport.Transport
	model  classifier.Classifier
	sink   notify.Sink
	labels []string

	window *capture.Window
	router *router

	mu    sync.Mutex
	state fsm.State
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	link transport.Transport,
	model classifier.Classifier,
	sink notify.Sink,
	opts Options,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if link == nil {
		link = noopLink{}
	}
	if model == nil {
		model = classifier.NewCentroid()
	}
	if sink == nil {
		sink = notify.Noop{}
	}
	if opts.CaptureDuration <= 0 {
		opts.CaptureDuration = time.Second
	}
	if opts.ClassifyQueueSize <= 0 {
		opts.ClassifyQueueSize = 8
	}

	c := &Controller{
		logger: logger,
		link:   link,
		model:  model,
		sink:   sink,
		labels: opts.Labels,
		state:  fsm.StateDisconnected,
	}
	c.window = capture.NewWindow(opts.CaptureDuration, link.Send, c.windowClosed, logger)
	c.router = newRouter(model, sink, logger, opts.ClassifyQueueSize)

	return c
}

// State returns the current link state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run consumes link events until context cancellation or transport teardown.
func (c *Controller) Run(ctx context.Context) {
	defer c.router.close()

	events := c.link.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.handleLinkEvent(ev)
		}
	}
}

// Handle serves IPC commands against the active session.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(c.State()), Message: "status"}
	case "connect":
		return c.Connect(ctx)
	case "disconnect":
		return c.Disconnect()
	case "record":
		return c.Record(req.Label)
	case "test":
		return c.Record("")
	case "train":
		return c.Train()
	case "reset":
		return c.Reset()
	case "counts":
		return ipc.Response{OK: true, State: string(c.State()), Counts: c.Counts()}
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// Connect starts a discovery+connect attempt. Reentrant connects while
// scanning or connected are accepted no-ops.
func (c *Controller) Connect(ctx context.Context) ipc.Response {
	c.mu.Lock()
	if c.state == fsm.StateScanning || c.state == fsm.StateConnected {
		state := c.state
		c.mu.Unlock()
		return ipc.Response{OK: true, State: string(state), Message: fmt.Sprintf("already %s", state)}
	}

	next, err := fsm.Transition(c.state, fsm.EventConnect)
	if err != nil {
		state := c.state
		c.mu.Unlock()
		return ipc.Response{OK: false, State: string(state), Error: err.Error()}
	}
	c.state = next
	c.mu.Unlock()

	c.sink.Notify("Scanning for devices ...")
	c.link.ConnectFirstAvailable(ctx)
	return ipc.Response{OK: true, State: string(fsm.StateScanning), Message: "scanning"}
}

// Disconnect tears the link down from any state and cancels the active
// capture window without sending a stop command.
func (c *Controller) Disconnect() ipc.Response {
	c.mu.Lock()
	next, _ := fsm.Transition(c.state, fsm.EventDisconnect)
	c.state = next
	c.mu.Unlock()

	c.window.Cancel()
	_ = c.link.Disconnect()
	c.setCaptureCommandsEnabled(false)
	c.sink.Notify("Disconnected")
	return ipc.Response{OK: true, State: string(fsm.StateDisconnected), Message: "disconnected"}
}

// Record opens a capture window attributed to label, or to test mode when
// label is empty. A second record while a window is open is rejected.
func (c *Controller) Record(label string) ipc.Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateConnected {
		return ipc.Response{OK: false, State: string(c.state), Error: "link is not connected"}
	}
	if label != "" && !c.hasLabel(label) {
		return ipc.Response{OK: false, State: string(c.state), Error: fmt.Sprintf("unknown gesture %q", label)}
	}
	if c.window.Active() {
		c.sink.Notify("capture already in progress; ignoring")
		return ipc.Response{OK: false, State: string(c.state), Error: "capture already in progress"}
	}

	// Disable the triggering commands before the start command goes out so a
	// second trigger cannot slip in between send and disable.
	c.setCaptureCommandsEnabled(false)

	seq, err := c.window.Begin(capture.Mode{Label: label, Train: label != ""})
	if err != nil {
		c.setCaptureCommandsEnabled(true)
		return ipc.Response{OK: false, State: string(c.state), Error: err.Error()}
	}

	if label == "" {
		c.sink.Notify(fmt.Sprintf("capture window %d open (test)", seq))
		return ipc.Response{OK: true, State: string(c.state), Message: "testing gesture"}
	}
	c.sink.Notify(fmt.Sprintf("capture window %d open (label=%s)", seq, label))
	return ipc.Response{OK: true, State: string(c.state), Message: fmt.Sprintf("recording %s", label)}
}

// Train validates that every catalogue label has at least one sample, then
// fits the model. The classifier is never invoked on incomplete data.
func (c *Controller) Train() ipc.Response {
	for _, label := range c.labels {
		if c.model.TrainSampleCount(label) == 0 {
			err := classifier.MissingTrainingDataError{Label: label}
			c.sink.Notify(err.Error())
			return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
		}
	}

	if err := c.model.Train(); err != nil {
		c.sink.Notify("training failed: " + err.Error())
		return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
	}

	c.sink.Notify("model trained")
	return ipc.Response{OK: true, State: string(c.State()), Message: "model trained"}
}

// Reset clears all accumulated training data. Always succeeds.
func (c *Controller) Reset() ipc.Response {
	c.model.ResetTrainingData()
	for _, label := range c.labels {
		c.sink.SetLabelCount(label, 0)
	}
	c.sink.SetResult("")
	c.sink.Notify("training data cleared")
	return ipc.Response{OK: true, State: string(c.State()), Message: "training data cleared"}
}

// Counts snapshots the per-label accumulated sample counts.
func (c *Controller) Counts() map[string]int {
	counts := make(map[string]int, len(c.labels))
	for _, label := range c.labels {
		counts[label] = c.model.TrainSampleCount(label)
	}
	return counts
}

// handleLinkEvent applies one transport event. Events that are invalid for
// the current state are logged and dropped, never double-applied.
func (c *Controller) handleLinkEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventDeviceFound:
		if c.apply(fsm.EventDeviceFound) {
			c.sink.Notify(fmt.Sprintf("found device %s (%s, rssi %d)", ev.Device.Name, ev.Device.Address, ev.Device.RSSI))
			c.sink.Notify("waiting for a connection ...")
		}
	case transport.EventConnected:
		if c.apply(fsm.EventConnected) {
			c.setCaptureCommandsEnabled(true)
			c.sink.Notify("Connected")
		}
	case transport.EventConnectFailed:
		if c.apply(fsm.EventConnectFailed) {
			c.setCaptureCommandsEnabled(false)
			c.sink.Notify("error connecting to device")
		}
	case transport.EventDisconnected:
		if c.apply(fsm.EventDisconnected) {
			c.window.Cancel()
			c.setCaptureCommandsEnabled(false)
			c.sink.Notify("Disconnected")
		}
	case transport.EventData:
		c.routeSample(ev.Payload)
	default:
		c.logger.Warn("unknown link event", "kind", string(ev.Kind))
	}
}

// routeSample attributes one inbound sample to the most recent capture mode.
// Attribution is deliberately not gated on the window still being open:
// samples legitimately trail the stop command by transport latency.
func (c *Controller) routeSample(payload []byte) {
	c.sink.Notify("received: " + strings.TrimSpace(string(payload)))

	mode, ok := c.window.CurrentMode()
	if !ok {
		c.logger.Debug("sample arrived before any capture; dropped")
		return
	}
	c.router.route(payload, mode)
}

// apply transitions the link state machine under the controller mutex.
func (c *Controller) apply(event fsm.Event) bool {
	c.mu.Lock()
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		state := c.state
		c.mu.Unlock()
		c.logger.Warn("dropping link event", "event", string(event), "state", string(state))
		return false
	}
	c.state = next
	c.mu.Unlock()
	return true
}

// windowClosed runs once per capture window, on deadline fire or cancel.
func (c *Controller) windowClosed(seq uint64, expired bool) {
	c.setCaptureCommandsEnabled(true)
	if expired {
		c.sink.Notify(fmt.Sprintf("capture window %d closed", seq))
		return
	}
	c.sink.Notify(fmt.Sprintf("capture window %d cancelled", seq))
}

func (c *Controller) setCaptureCommandsEnabled(enabled bool) {
	c.sink.SetCommandEnabled(CommandRecord, enabled)
	c.sink.SetCommandEnabled(CommandTest, enabled)
	c.sink.SetCommandEnabled(CommandTrain, enabled)
	c.sink.SetCommandEnabled(CommandReset, enabled)
}

func (c *Controller) hasLabel(label string) bool {
	for _, l := range c.labels {
		if l == label {
			return true
		}
	}
	return false
}
