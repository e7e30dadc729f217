// Package notify carries fire-and-forget presentation events from the
// session core to whatever front end is attached.
package notify

// Kind partitions presentation events into subscribable topics.
type Kind string

const (
	KindLine         Kind = "line"
	KindCommandState Kind = "command-state"
	KindLabelCount   Kind = "label-count"
	KindResult       Kind = "result"
)

// Message is one presentation event. Only the fields relevant to its Kind
// are populated.
type Message struct {
	Kind Kind

	Line string

	Command string
	Enabled bool

	Label string
	Count int

	Result string
}

// Sink is the outbound notification surface consumed by the session core.
// All calls are fire-and-forget; implementations must not block the caller.
type Sink interface {
	// Notify appends one human-readable line to the activity log.
	Notify(line string)
	// SetCommandEnabled toggles availability of a user command.
	SetCommandEnabled(command string, enabled bool)
	// SetLabelCount reports the accumulated sample count for a label.
	SetLabelCount(label string, count int)
	// SetResult reports the latest classification result.
	SetResult(text string)
}

// Noop is a Sink that discards everything.
type Noop struct{}

func (Noop) Notify(string)                  {}
func (Noop) SetCommandEnabled(string, bool) {}
func (Noop) SetLabelCount(string, int)      {}
func (Noop) SetResult(string)               {}
