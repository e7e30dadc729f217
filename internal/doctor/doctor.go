// Package doctor runs runtime readiness diagnostics for config, environment, and the sensor bridge.
package doctor

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gesturelab/gestured/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	configMessage := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		configMessage = fmt.Sprintf("%q not found; running on defaults", cfg.Path)
	}
	for _, w := range cfg.Warnings {
		configMessage += "; " + w.Message
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: configMessage})

	checks = append(checks, checkEnv("XDG_RUNTIME_DIR", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "runtime dir available for the daemon socket", "XDG_RUNTIME_DIR is empty"))

	checks = append(checks, Check{
		Name:    "gestures",
		Pass:    true,
		Message: fmt.Sprintf("%d labels configured: %s", len(cfg.Config.Gestures), strings.Join(cfg.Config.Gestures, ", ")),
	})

	checks = append(checks, checkBridgeReachable(cfg.Config))

	return Report{Checks: checks}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkBridgeReachable dials the BLE gateway websocket endpoint and drops the
// connection immediately. A handshake proves the gateway is up without
// starting a scan.
func checkBridgeReachable(cfg config.Config) Check {
	endpoint := strings.TrimSpace(cfg.Bridge.Endpoint)
	if endpoint == "" {
		return Check{Name: "bridge.endpoint", Pass: false, Message: "bridge.endpoint is empty"}
	}

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		return Check{Name: "bridge.endpoint", Pass: false, Message: fmt.Sprintf("dial %s: %v", endpoint, err)}
	}
	_ = conn.Close()

	return Check{Name: "bridge.endpoint", Pass: true, Message: fmt.Sprintf("gateway reachable at %s", endpoint)}
}
