package transport

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// frame is the wire message exchanged with the BLE gateway.
type frame struct {
	Type    string `json:"type"`
	Device  string `json:"device,omitempty"`
	Service string `json:"service,omitempty"`
	Write   string `json:"write,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	RSSI    int    `json:"rssi,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Payload string `json:"payload,omitempty"`
}

const (
	frameScan          = "scan"
	frameWrite         = "write"
	frameScanResult    = "scan-result"
	frameConnected     = "connected"
	frameConnectFailed = "connect-failed"
	frameDisconnected  = "disconnected"
	frameData          = "data"
)

// Bridge speaks to a BLE gateway over a websocket. The gateway owns GATT
// plumbing; the bridge translates its frames into transport events.
type Bridge struct {
	endpoint string
	device   string
	logger   *slog.Logger

	events chan Event

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	attempt   bool
	closed    bool
}

// NewBridge constructs a bridge for one gateway endpoint and target device name.
func NewBridge(endpoint string, device string, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bridge{
		endpoint: endpoint,
		device:   device,
		logger:   logger,
		events:   make(chan Event, 16),
	}
}

// ConnectFirstAvailable starts one asynchronous discovery+connect attempt.
// Reentrant calls while an attempt is in flight or the link is up are no-ops.
func (b *Bridge) ConnectFirstAvailable(ctx context.Context) {
	b.mu.Lock()
	if b.attempt || b.connected {
		b.mu.Unlock()
		return
	}
	b.attempt = true
	b.closed = false
	b.mu.Unlock()

	go b.runAttempt(ctx)
}

// Send writes one payload to the peripheral. Writes while the link is not
// connected are dropped without error.
func (b *Bridge) Send(payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.connected || b.conn == nil {
		b.logger.Debug("dropping send on non-connected link", "bytes", len(payload))
		return nil
	}
	return b.conn.WriteJSON(frame{Type: frameWrite, Payload: string(payload)})
}

// Disconnect tears the link down. Safe to call in any state, repeatedly.
func (b *Bridge) Disconnect() error {
	b.mu.Lock()
	b.closed = true
	b.connected = false
	b.attempt = false
	conn := b.conn
	b.conn = nil
	b.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Events returns the link event stream consumed by the session controller.
func (b *Bridge) Events() <-chan Event {
	return b.events
}

func (b *Bridge) runAttempt(ctx context.Context) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, b.endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		b.logger.Warn("gateway dial failed", "endpoint", b.endpoint, "error", err.Error())
		b.mu.Lock()
		b.attempt = false
		b.mu.Unlock()
		b.emit(ctx, Event{Kind: EventConnectFailed})
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.conn = conn
	b.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = b.Disconnect() })
	defer stop()

	scan := frame{
		Type:    frameScan,
		Device:  b.device,
		Service: UARTServiceUUID.String(),
		Write:   UARTRxCharUUID.String(),
	}
	if err := conn.WriteJSON(scan); err != nil {
		b.logger.Warn("scan request failed", "error", err.Error())
		_ = b.Disconnect()
		b.emit(ctx, Event{Kind: EventConnectFailed})
		return
	}

	b.readPump(ctx, conn)
}

// readPump translates gateway frames into transport events until the socket
// closes. Socket failure maps to disconnected when the link was up, or to
// connect-failed when the attempt never completed.
func (b *Bridge) readPump(ctx context.Context, conn *websocket.Conn) {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			b.mu.Lock()
			wasConnected := b.connected
			wasClosed := b.closed
			b.connected = false
			b.attempt = false
			if b.conn == conn {
				b.conn = nil
			}
			b.mu.Unlock()
			conn.Close()

			if wasClosed {
				return
			}
			if wasConnected {
				b.emit(ctx, Event{Kind: EventDisconnected})
			} else {
				b.emit(ctx, Event{Kind: EventConnectFailed})
			}
			return
		}

		switch f.Type {
		case frameScanResult:
			b.emit(ctx, Event{
				Kind:   EventDeviceFound,
				Device: DeviceInfo{Name: f.Name, Address: f.Address, RSSI: f.RSSI},
			})
		case frameConnected:
			b.mu.Lock()
			b.connected = true
			b.attempt = false
			b.mu.Unlock()
			b.emit(ctx, Event{Kind: EventConnected, Device: DeviceInfo{Name: f.Name, Address: f.Address}})
		case frameConnectFailed:
			b.logger.Warn("peripheral connect failed", "reason", f.Reason)
			_ = b.Disconnect()
			b.emit(ctx, Event{Kind: EventConnectFailed})
			return
		case frameDisconnected:
			_ = b.Disconnect()
			b.emit(ctx, Event{Kind: EventDisconnected})
			return
		case frameData:
			b.emit(ctx, Event{Kind: EventData, Payload: []byte(f.Payload)})
		default:
			b.logger.Debug("ignoring unknown gateway frame", "type", f.Type)
		}
	}
}

func (b *Bridge) emit(ctx context.Context, ev Event) {
	select {
	case b.events <- ev:
	case <-ctx.Done():
	}
}
