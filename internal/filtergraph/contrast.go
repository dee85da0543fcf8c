package filtergraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Foreground colors chosen by auto-contrast.
const (
	ForegroundDark  = "#111111"
	ForegroundLight = "#ffffff"
)

// luminanceThreshold splits backgrounds into "needs dark text" and
// "needs light text".
const luminanceThreshold = 140

// ParseHexColor parses a #rrggbb color into its channels.
func ParseHexColor(color string) (r, g, b uint8, err error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(trimmed) != 6 {
		return 0, 0, 0, fmt.Errorf("color %q is not #rrggbb", color)
	}
	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("color %q is not #rrggbb: %w", color, err)
	}
	return uint8(value >> 16), uint8(value >> 8), uint8(value), nil
}

// Luminance computes relative luminance over 0-255 channels:
// Y = 0.2126 R + 0.7152 G + 0.0722 B.
func Luminance(r, g, b uint8) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// ForegroundFor picks a readable text color against the given background:
// luminance above the threshold takes dark text, everything else light.
// Unparseable colors fall back to light text.
func ForegroundFor(background string) string {
	r, g, b, err := ParseHexColor(background)
	if err != nil {
		return ForegroundLight
	}
	if Luminance(r, g, b) > luminanceThreshold {
		return ForegroundDark
	}
	return ForegroundLight
}
