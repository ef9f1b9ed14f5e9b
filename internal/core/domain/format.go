package domain

import "strings"

// Format is the short tag printed by the identification command for an image.
type Format string

const (
	// FormatUnknown marks a file whose format could not be identified.
	FormatUnknown Format = ""
	// FormatPNG is a PNG image.
	FormatPNG Format = "PNG"
	// FormatJPEG is a JPEG image.
	FormatJPEG Format = "JPEG"
	// FormatGIF is a GIF image. It may still be animated.
	FormatGIF Format = "GIF"
	// FormatAnimatedGIF is a GIF with more than one frame. identify prints the
	// tag once per frame, so two frames are enough to recognise it.
	FormatAnimatedGIF Format = "GIFGIF"
)

// Formats returns the supported formats in report order.
func Formats() []Format {
	return []Format{FormatPNG, FormatJPEG, FormatGIF, FormatAnimatedGIF}
}

// ParseFormat converts raw identification output into a supported Format.
// Only the first DetectPrefixLen characters are considered.
func ParseFormat(raw string) Format {
	raw = strings.TrimSpace(raw)
	if len(raw) > DetectPrefixLen {
		raw = raw[:DetectPrefixLen]
	}
	for _, f := range Formats() {
		if raw == string(f) {
			return f
		}
	}
	return FormatUnknown
}

// LookupFormat resolves a configuration key such as "png" or "animated_gif".
func LookupFormat(key string) (Format, bool) {
	switch strings.ToLower(key) {
	case "png":
		return FormatPNG, true
	case "jpeg", "jpg":
		return FormatJPEG, true
	case "gif":
		return FormatGIF, true
	case "gifgif", "animated_gif":
		return FormatAnimatedGIF, true
	default:
		return FormatUnknown, false
	}
}

// Label is the human readable name used in reports.
func (f Format) Label() string {
	if f == FormatAnimatedGIF {
		return "animated GIF"
	}
	return string(f)
}
