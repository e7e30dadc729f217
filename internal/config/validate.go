package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate rejects configurations the daemon cannot run with.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Bridge.Endpoint) == "" {
		return fmt.Errorf("bridge.endpoint must be set")
	}
	parsed, err := url.Parse(cfg.Bridge.Endpoint)
	if err != nil {
		return fmt.Errorf("bridge.endpoint %q is not a valid URL: %w", cfg.Bridge.Endpoint, err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return fmt.Errorf("bridge.endpoint %q must use ws or wss scheme", cfg.Bridge.Endpoint)
	}

	if strings.TrimSpace(cfg.Bridge.DeviceName) == "" {
		return fmt.Errorf("bridge.device_name must be set")
	}

	if cfg.Capture.Duration <= 0 {
		return fmt.Errorf("capture duration must be positive")
	}

	if len(cfg.Gestures) == 0 {
		return fmt.Errorf("at least one gesture label is required")
	}
	for _, label := range cfg.Gestures {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("gesture labels must not be empty")
		}
	}

	if cfg.Classify.QueueSize < 1 {
		return fmt.Errorf("classify.queue_size must be at least 1")
	}

	return nil
}
