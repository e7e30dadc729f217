package session

import (
	"log/slog"
	"sync"

	"github.com/gesturelab/gestured/internal/capture"
	"github.com/gesturelab/gestured/internal/classifier"
	"github.com/gesturelab/gestured/internal/notify"
)

// router disposes inbound samples according to the active capture mode.
// Training samples are appended to the model inline (cheap); classification
// requests are handed to a bounded worker so the link event loop never
// blocks on classifier latency.
type router struct {
	model  classifier.Classifier
	sink   notify.Sink
	logger *slog.Logger

	jobs chan []float64
	wg   sync.WaitGroup
}

func newRouter(model classifier.Classifier, sink notify.Sink, logger *slog.Logger, queueSize int) *router {
	r := &router{
		model:  model,
		sink:   sink,
		logger: logger,
		jobs:   make(chan []float64, queueSize),
	}
	r.wg.Add(1)
	go r.classifyLoop()
	return r
}

func (r *router) route(payload []byte, mode capture.Mode) {
	features, err := classifier.ParseFeatures(payload)
	if err != nil {
		r.logger.Warn("discarding malformed sample", "error", err.Error())
		return
	}

	if mode.Train {
		r.model.AddSample(features, mode.Label)
		r.sink.SetLabelCount(mode.Label, r.model.TrainSampleCount(mode.Label))
		return
	}

	select {
	case r.jobs <- features:
	default:
		r.logger.Warn("classification backlog full; dropping test sample")
		r.sink.Notify("classifier busy; test sample dropped")
	}
}

func (r *router) classifyLoop() {
	defer r.wg.Done()
	for features := range r.jobs {
		label, err := r.model.Classify(features)
		if err != nil {
			r.sink.Notify("classification failed: " + err.Error())
			continue
		}
		r.sink.SetResult(label)
	}
}

// close drains pending classification work and stops the worker.
func (r *router) close() {
	close(r.jobs)
	r.wg.Wait()
}
