package config

import "time"

// Default returns the canonical runtime configuration used when no file is
// present. The gesture catalogue mirrors the three-button capture workflow.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			Endpoint:   "ws://127.0.0.1:8331/uart",
			DeviceName: "Adafruit Bluefruit LE",
		},
		Capture: CaptureConfig{
			Duration: time.Second,
		},
		Gestures: []string{"gesture1", "gesture2", "gesture3"},
		Classify: ClassifyConfig{
			QueueSize: 8,
		},
	}
}
