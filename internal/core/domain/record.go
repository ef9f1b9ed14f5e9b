package domain

import "math"

// OptimizationRecord describes a file whose candidate passed the savings threshold.
type OptimizationRecord struct {
	Name              string
	InputSize         int64
	OutputSize        int64
	BytesSaved        int64
	BytesSavedPercent int
}

// NewOptimizationRecord fills in the derived fields of a record.
func NewOptimizationRecord(name string, inputSize, outputSize int64) OptimizationRecord {
	return OptimizationRecord{
		Name:              name,
		InputSize:         inputSize,
		OutputSize:        outputSize,
		BytesSaved:        inputSize - outputSize,
		BytesSavedPercent: SavedPercent(inputSize, outputSize),
	}
}

// SavedPercent returns round(100 - 100*output/input) as an integer.
// It returns 0 for an empty input.
func SavedPercent(inputSize, outputSize int64) int {
	if inputSize <= 0 {
		return 0
	}
	ratio := float64(outputSize) / float64(inputSize) * 100
	return int(100 - math.Round(ratio))
}
