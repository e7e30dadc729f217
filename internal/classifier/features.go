package classifier

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFeatures converts one UART sample line into a feature vector. The
// sensor firmware emits comma-separated accelerometer readings ("x,y,z").
func ParseFeatures(payload []byte) ([]float64, error) {
	line := strings.TrimSpace(string(payload))
	if line == "" {
		return nil, fmt.Errorf("empty sample payload")
	}

	fields := strings.Split(line, ",")
	features := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("parse sample field %q: %w", field, err)
		}
		features = append(features, value)
	}

	return features, nil
}
