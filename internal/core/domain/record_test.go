package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/smush/internal/core/domain"
)

func TestSavedPercent(t *testing.T) {
	tests := []struct {
		name     string
		in, out  int64
		expected int
	}{
		{"two percent", 1000, 980, 2},
		{"twenty percent", 1000, 800, 20},
		{"rounds ratio before subtracting", 1000, 974, 3},
		{"no saving", 1000, 1000, 0},
		{"growth", 1000, 1100, -10},
		{"empty input", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.SavedPercent(tt.in, tt.out))
		})
	}
}

func TestNewOptimizationRecord(t *testing.T) {
	r := domain.NewOptimizationRecord("a.png", 1000, 800)

	assert.Equal(t, domain.OptimizationRecord{
		Name:              "a.png",
		InputSize:         1000,
		OutputSize:        800,
		BytesSaved:        200,
		BytesSavedPercent: 20,
	}, r)
}

func TestRunStats(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := domain.NewRunStats(start)

	stats.RecordScanned(domain.FormatPNG)
	stats.RecordScanned(domain.FormatPNG)
	stats.RecordScanned(domain.FormatGIF)
	stats.RecordOptimized(domain.FormatPNG, 120)
	stats.RecordOptimized(domain.FormatPNG, 30)

	assert.Equal(t, 3, stats.TotalScanned())
	assert.Equal(t, 2, stats.Optimized[domain.FormatPNG])
	assert.Equal(t, int64(150), stats.BytesSaved[domain.FormatPNG])
	assert.False(t, stats.HasRecords())

	stats.AddRecord(domain.NewOptimizationRecord("a.png", 10, 5))
	assert.True(t, stats.HasRecords())
	assert.Equal(t, 1500*time.Millisecond, stats.Elapsed(start.Add(1500*time.Millisecond)))
}
