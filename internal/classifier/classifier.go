// Package classifier defines the gesture model boundary and an in-process
// nearest-centroid implementation.
package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTrained indicates classification was requested before a successful Train.
	ErrNotTrained = errors.New("model has not been trained")
	// ErrNoTrainingData indicates Train was invoked on an empty model.
	ErrNoTrainingData = errors.New("no training samples recorded")
)

// MissingTrainingDataError reports the first catalogue label with zero
// accumulated training samples.
type MissingTrainingDataError struct {
	Label string
}

func (e MissingTrainingDataError) Error() string {
	return fmt.Sprintf("need examples for gesture %q", e.Label)
}

// Classifier is the model contract consumed by the session controller.
type Classifier interface {
	// AddSample accumulates one labeled training sample.
	AddSample(features []float64, label string)
	// Train fits the model to the accumulated samples.
	Train() error
	// Classify returns the predicted label for one feature vector.
	Classify(features []float64) (string, error)
	// ResetTrainingData discards all accumulated samples and the fitted model.
	ResetTrainingData()
	// TrainSampleCount returns the number of accumulated samples for a label.
	TrainSampleCount(label string) int
}
