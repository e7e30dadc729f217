// Package fsm models the wireless link lifecycle as a finite state machine.
package fsm

import "fmt"

type State string

type Event string

const (
	StateDisconnected State = "disconnected"
	StateScanning     State = "scanning"
	StateConnected    State = "connected"
	StateFailed       State = "failed"
)

const (
	EventConnect       Event = "connect"
	EventDeviceFound   Event = "device-found"
	EventConnected     Event = "connected"
	EventConnectFailed Event = "connect-failed"
	EventDisconnected  Event = "disconnected"
	EventDisconnect    Event = "disconnect"
)

func Transition(current State, event Event) (State, error) {
	if event == EventDisconnect {
		return StateDisconnected, nil
	}

	switch current {
	case StateDisconnected:
		switch event {
		case EventConnect:
			return StateScanning, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateScanning:
		switch event {
		case EventDeviceFound:
			return StateScanning, nil
		case EventConnected:
			return StateConnected, nil
		case EventConnectFailed:
			return StateFailed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateConnected:
		switch event {
		case EventDisconnected:
			return StateDisconnected, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateFailed:
		switch event {
		case EventConnect:
			return StateScanning, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
