package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML file shape. Pointer fields distinguish "absent"
// from zero values so unset keys fall back to defaults.
type fileConfig struct {
	Bridge struct {
		Endpoint   *string `yaml:"endpoint"`
		DeviceName *string `yaml:"device_name"`
	} `yaml:"bridge"`
	Capture struct {
		DurationMS *int `yaml:"duration_ms"`
	} `yaml:"capture"`
	Gestures []string `yaml:"gestures"`
	Classify struct {
		QueueSize *int `yaml:"queue_size"`
	} `yaml:"classify"`
}

// Parse overlays YAML content on base and collects non-fatal warnings.
// Unknown keys are a hard error so typos never silently fall back.
func Parse(content []byte, base Config) (Config, []Warning, error) {
	var warnings []Warning

	var file fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, nil, fmt.Errorf("decode yaml: %w", err)
	}

	cfg := base

	if file.Bridge.Endpoint != nil {
		cfg.Bridge.Endpoint = *file.Bridge.Endpoint
	}
	if file.Bridge.DeviceName != nil {
		cfg.Bridge.DeviceName = *file.Bridge.DeviceName
	}

	if file.Capture.DurationMS != nil {
		if *file.Capture.DurationMS <= 0 {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("capture.duration_ms must be positive, got %d; using default", *file.Capture.DurationMS),
			})
		} else {
			cfg.Capture.Duration = time.Duration(*file.Capture.DurationMS) * time.Millisecond
		}
	}

	if file.Gestures != nil {
		labels, dupes := dedupeLabels(file.Gestures)
		for _, d := range dupes {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("duplicate gesture label %q ignored", d)})
		}
		cfg.Gestures = labels
	}

	if file.Classify.QueueSize != nil {
		if *file.Classify.QueueSize < 1 {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("classify.queue_size must be at least 1, got %d; using default", *file.Classify.QueueSize),
			})
		} else {
			cfg.Classify.QueueSize = *file.Classify.QueueSize
		}
	}

	return cfg, warnings, nil
}

// dedupeLabels preserves first-occurrence order and reports duplicates.
func dedupeLabels(labels []string) ([]string, []string) {
	seen := make(map[string]struct{}, len(labels))
	unique := make([]string, 0, len(labels))
	var dupes []string

	for _, label := range labels {
		if _, ok := seen[label]; ok {
			dupes = append(dupes, label)
			continue
		}
		seen[label] = struct{}{}
		unique = append(unique, label)
	}

	return unique, dupes
}
