package notify

import (
	"github.com/cskr/pubsub/v2"
)

const busCapacity = 32

// Bus is a Sink backed by a topic-keyed publish/subscribe stream. Publishes
// never block: a subscriber that falls behind misses messages rather than
// stalling the session core.
type Bus struct {
	ps *pubsub.PubSub[Kind, Message]
}

// NewBus constructs a bus with a bounded per-subscriber buffer.
func NewBus() *Bus {
	return &Bus{ps: pubsub.New[Kind, Message](busCapacity)}
}

// Subscribe returns a channel receiving messages for the given kinds.
// Subscribing to no kinds subscribes to all of them.
func (b *Bus) Subscribe(kinds ...Kind) chan Message {
	if len(kinds) == 0 {
		kinds = []Kind{KindLine, KindCommandState, KindLabelCount, KindResult}
	}
	return b.ps.Sub(kinds...)
}

// Unsubscribe detaches a subscriber channel from all topics.
func (b *Bus) Unsubscribe(ch chan Message) {
	go b.ps.Unsub(ch)
}

// Shutdown closes all subscriber channels.
func (b *Bus) Shutdown() {
	b.ps.Shutdown()
}

func (b *Bus) Notify(line string) {
	b.ps.TryPub(Message{Kind: KindLine, Line: line}, KindLine)
}

func (b *Bus) SetCommandEnabled(command string, enabled bool) {
	b.ps.TryPub(Message{Kind: KindCommandState, Command: command, Enabled: enabled}, KindCommandState)
}

func (b *Bus) SetLabelCount(label string, count int) {
	b.ps.TryPub(Message{Kind: KindLabelCount, Label: label, Count: count}, KindLabelCount)
}

func (b *Bus) SetResult(text string) {
	b.ps.TryPub(Message{Kind: KindResult, Result: text}, KindResult)
}
