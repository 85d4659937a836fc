package aggregate

import (
	"math"
	"strconv"
	"strings"
)

// parseInt reads an integer field, accepting decimal notation and rounding
// it. Unparseable values fall back to 0.
func parseInt(value string) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(math.Round(f))
	}

	return 0
}

func parseInt64(value string) int64 {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int64(math.Round(f))
	}

	return 0
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}

	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// normalizeChannelLabel guarantees a displayable, '#'-prefixed channel name.
func normalizeChannelLabel(name string, channelID int64) string {
	label := name
	if label == "" {
		label = "channel-" + strconv.FormatInt(channelID, 10)
	}

	if !strings.HasPrefix(label, "#") {
		label = "#" + label
	}

	return label
}

// fitText truncates to width runes, marking the cut with an ellipsis.
func fitText(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	if width <= 3 {
		return string(runes[:width])
	}

	return string(runes[:width-3]) + "..."
}
