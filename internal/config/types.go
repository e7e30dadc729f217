// Package config resolves, parses, validates, and defaults gestured
// configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by gestured.
type Config struct {
	Bridge   BridgeConfig
	Capture  CaptureConfig
	Gestures []string
	Classify ClassifyConfig
}

// BridgeConfig locates the BLE gateway and the target peripheral.
type BridgeConfig struct {
	Endpoint   string
	DeviceName string
}

// CaptureConfig controls the timed capture window.
type CaptureConfig struct {
	Duration time.Duration
}

// ClassifyConfig bounds the classification worker backlog.
type ClassifyConfig struct {
	QueueSize int
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}
