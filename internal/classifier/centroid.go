package classifier

import (
	"fmt"
	"math"
	"sync"
)

// Centroid is a nearest-centroid gesture model: Train computes one mean
// feature vector per label, Classify picks the label whose centroid is
// closest in Euclidean distance. Safe for concurrent use.
type Centroid struct {
	mu        sync.Mutex
	samples   map[string][][]float64
	centroids map[string][]float64
	trained   bool
}

// NewCentroid constructs an empty nearest-centroid model.
func NewCentroid() *Centroid {
	return &Centroid{
		samples: make(map[string][][]float64),
	}
}

// AddSample accumulates one labeled training sample. Samples with mismatched
// dimensionality are padded/truncated at Train time by the shortest vector.
func (c *Centroid) AddSample(features []float64, label string) {
	if len(features) == 0 || label == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples[label] = append(c.samples[label], append([]float64(nil), features...))
}

// Train fits per-label centroids from the accumulated samples.
func (c *Centroid) Train() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.samples) == 0 {
		return ErrNoTrainingData
	}

	centroids := make(map[string][]float64, len(c.samples))
	for label, vectors := range c.samples {
		dim := len(vectors[0])
		for _, v := range vectors[1:] {
			if len(v) < dim {
				dim = len(v)
			}
		}

		mean := make([]float64, dim)
		for _, v := range vectors {
			for i := 0; i < dim; i++ {
				mean[i] += v[i]
			}
		}
		for i := range mean {
			mean[i] /= float64(len(vectors))
		}
		centroids[label] = mean
	}

	c.centroids = centroids
	c.trained = true
	return nil
}

// Classify returns the label whose centroid is nearest to features.
func (c *Centroid) Classify(features []float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.trained {
		return "", ErrNotTrained
	}
	if len(features) == 0 {
		return "", fmt.Errorf("empty feature vector")
	}

	best := ""
	bestDistance := math.Inf(1)
	for label, centroid := range c.centroids {
		if d := distance(features, centroid); d < bestDistance {
			best = label
			bestDistance = d
		}
	}
	return best, nil
}

// ResetTrainingData discards all samples and the fitted model.
func (c *Centroid) ResetTrainingData() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = make(map[string][][]float64)
	c.centroids = nil
	c.trained = false
}

// TrainSampleCount returns the number of accumulated samples for a label.
func (c *Centroid) TrainSampleCount(label string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples[label])
}

// distance computes Euclidean distance over the shared prefix of two vectors.
func distance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
