package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/smush/internal/core/domain"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw      string
		expected domain.Format
	}{
		{"PNG", domain.FormatPNG},
		{"PNG\n", domain.FormatPNG},
		{"JPEG", domain.FormatJPEG},
		{"GIF", domain.FormatGIF},
		{"GIFGIF", domain.FormatAnimatedGIF},
		{"GIFGIFGIFGIF", domain.FormatAnimatedGIF},
		{"PNGPNG", domain.FormatUnknown},
		{"TIFF", domain.FormatUnknown},
		{"", domain.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ParseFormat(tt.raw))
		})
	}
}

func TestLookupFormat(t *testing.T) {
	f, ok := domain.LookupFormat("JPG")
	assert.True(t, ok)
	assert.Equal(t, domain.FormatJPEG, f)

	f, ok = domain.LookupFormat("animated_gif")
	assert.True(t, ok)
	assert.Equal(t, domain.FormatAnimatedGIF, f)

	_, ok = domain.LookupFormat("webp")
	assert.False(t, ok)
}

func TestFormat_Label(t *testing.T) {
	assert.Equal(t, "PNG", domain.FormatPNG.Label())
	assert.Equal(t, "animated GIF", domain.FormatAnimatedGIF.Label())
}
