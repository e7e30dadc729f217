// Package transport abstracts the wireless sensor link as a bidirectional
// message stream with lifecycle events.
package transport

import (
	"context"

	"github.com/google/uuid"
)

// Nordic UART Service identifiers used by the Bluefruit-style sensor firmware.
var (
	UARTServiceUUID = uuid.MustParse("6e400001-b5a3-f393-e0a9-e50e24dcca9e")
	UARTRxCharUUID  = uuid.MustParse("6e400002-b5a3-f393-e0a9-e50e24dcca9e") // write
	UARTTxCharUUID  = uuid.MustParse("6e400003-b5a3-f393-e0a9-e50e24dcca9e") // notify
)

type EventKind string

const (
	EventDeviceFound   EventKind = "device-found"
	EventConnected     EventKind = "connected"
	EventConnectFailed EventKind = "connect-failed"
	EventDisconnected  EventKind = "disconnected"
	EventData          EventKind = "data"
)

// DeviceInfo describes a peripheral observed during discovery.
type DeviceInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	RSSI    int    `json:"rssi,omitempty"`
}

// Event is one asynchronous notification from the link. Data events carry a
// payload; device-found events carry device info.
type Event struct {
	Kind    EventKind
	Device  DeviceInfo
	Payload []byte
}

// Transport is the link contract consumed by the session controller.
// ConnectFirstAvailable is fire-and-forget: each attempt terminates with
// exactly one connected or connect-failed event, preceded by zero or more
// device-found events. Send silently drops writes while the link is not
// connected.
type Transport interface {
	ConnectFirstAvailable(ctx context.Context)
	Send(payload []byte) error
	Disconnect() error
	Events() <-chan Event
}
