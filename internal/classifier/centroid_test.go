package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFeatures(t *testing.T) {
	features, err := ParseFeatures([]byte("0.12, 9.81,0.33\n"))
	require.NoError(t, err)
	require.Equal(t, []float64{0.12, 9.81, 0.33}, features)

	_, err = ParseFeatures([]byte("   "))
	require.Error(t, err)

	_, err = ParseFeatures([]byte("1.0,abc,3.0"))
	require.Error(t, err)
}

func TestCentroidTrainAndClassify(t *testing.T) {
	model := NewCentroid()

	model.AddSample([]float64{0, 0, 1}, "flick")
	model.AddSample([]float64{0, 0.2, 0.8}, "flick")
	model.AddSample([]float64{1, 0, 0}, "shake")
	model.AddSample([]float64{0.9, 0.1, 0}, "shake")

	require.Equal(t, 2, model.TrainSampleCount("flick"))
	require.Equal(t, 2, model.TrainSampleCount("shake"))
	require.Equal(t, 0, model.TrainSampleCount("circle"))

	require.NoError(t, model.Train())

	label, err := model.Classify([]float64{0.05, 0.1, 0.95})
	require.NoError(t, err)
	require.Equal(t, "flick", label)

	label, err = model.Classify([]float64{0.98, 0, 0.02})
	require.NoError(t, err)
	require.Equal(t, "shake", label)
}

func TestCentroidClassifyBeforeTrain(t *testing.T) {
	model := NewCentroid()
	_, err := model.Classify([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrNotTrained)
}

func TestCentroidTrainWithoutSamples(t *testing.T) {
	model := NewCentroid()
	require.ErrorIs(t, model.Train(), ErrNoTrainingData)
}

func TestCentroidReset(t *testing.T) {
	model := NewCentroid()
	model.AddSample([]float64{1, 2, 3}, "flick")
	require.NoError(t, model.Train())

	model.ResetTrainingData()
	require.Equal(t, 0, model.TrainSampleCount("flick"))
	_, err := model.Classify([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrNotTrained)
}

func TestCentroidIgnoresEmptyInput(t *testing.T) {
	model := NewCentroid()
	model.AddSample(nil, "flick")
	model.AddSample([]float64{1}, "")
	require.Equal(t, 0, model.TrainSampleCount("flick"))
}

func TestMissingTrainingDataError(t *testing.T) {
	err := MissingTrainingDataError{Label: "circle"}
	require.Contains(t, err.Error(), "circle")
}
