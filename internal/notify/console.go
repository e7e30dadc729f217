package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Console renders bus messages as human-readable lines, the moral equivalent
// of the scrolling message view on a phone screen.
type Console struct {
	out    io.Writer
	logger *slog.Logger
}

// NewConsole constructs a console renderer writing to out.
func NewConsole(out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Console{out: out, logger: logger}
}

// Run consumes bus messages until the context is cancelled or the bus shuts
// down.
func (c *Console) Run(ctx context.Context, bus *Bus) {
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.render(msg)
		}
	}
}

func (c *Console) render(msg Message) {
	switch msg.Kind {
	case KindLine:
		fmt.Fprintln(c.out, msg.Line)
	case KindCommandState:
		state := "disabled"
		if msg.Enabled {
			state = "enabled"
		}
		c.logger.Debug("command state", "command", msg.Command, "state", state)
	case KindLabelCount:
		fmt.Fprintf(c.out, "%s samples: %d\n", msg.Label, msg.Count)
	case KindResult:
		// Reset publishes an empty result to clear prior output; nothing to
		// render on a scrolling console.
		if msg.Result != "" {
			fmt.Fprintf(c.out, "Result: %s\n", msg.Result)
		}
	}
}
