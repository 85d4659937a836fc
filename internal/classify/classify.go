// Package classify assigns a contribution category to a single message.
//
// Classification is staged: stage 1 results are resolved by the rules below,
// stage 2 marks a message as deferred to a deeper (not yet implemented)
// classification pass. Stage 2 is a review-queue signal, not an error.
package classify

import (
	"strings"
	"unicode"
)

// Category is a coarse contribution type.
type Category int

const (
	Info Category = iota
	Insight
	Vibe
	Ops
	Misc
)

// Result is the outcome of classifying one message.
type Result struct {
	Category   Category
	Confidence float64
	Stage      int
}

const (
	stageRule     = 1
	stageDeferred = 2

	shortMessageRunes = 5
	longMessageBytes  = 200

	confURL      = 0.70
	confOps      = 0.60
	confShort    = 0.80
	confLong     = 0.40
	confDeferred = 0.0
)

// opsChannels are channels whose traffic is operational by definition.
var opsChannels = map[string]struct{}{
	"#ops":           {},
	"#governance":    {},
	"#announcements": {},
	"#sprint":        {},
}

// Message classifies a single (channel, text) pair. It is a pure function:
// identical inputs always produce the identical Result. Rules are evaluated
// in a fixed priority order and the first match wins.
func Message(channel, text string) Result {
	normalized := strings.ToLower(text)

	if strings.Contains(normalized, "http://") || strings.Contains(normalized, "https://") {
		return Result{Category: Info, Confidence: confURL, Stage: stageRule}
	}

	if _, ok := opsChannels[strings.ToLower(channel)]; ok {
		return Result{Category: Ops, Confidence: confOps, Stage: stageRule}
	}

	if visibleRunes(stripNonBasic(normalized)) < shortMessageRunes {
		return Result{Category: Vibe, Confidence: confShort, Stage: stageRule}
	}

	if len(normalized) > longMessageBytes {
		return Result{Category: Insight, Confidence: confLong, Stage: stageRule}
	}

	return Result{Category: Misc, Confidence: confDeferred, Stage: stageDeferred}
}

// stripNonBasic keeps ASCII alphanumeric, space, and punctuation runes.
// Emoji and other non-ASCII runes carry no visible weight, so an
// emoji-only message classifies as Vibe.
func stripNonBasic(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if r > unicode.MaxASCII {
			continue
		}

		if unicode.IsSpace(r) || (r > ' ' && r < unicode.MaxASCII) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func visibleRunes(text string) int {
	count := 0

	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}

	return count
}

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case Info:
		return "INFO"
	case Insight:
		return "INSIGHT"
	case Vibe:
		return "VIBE"
	case Ops:
		return "OPS"
	case Misc:
		return "MISC"
	}

	return "MISC"
}

// FeedTag returns the four-character tag used in the activity feed.
func (c Category) FeedTag() string {
	switch c {
	case Info:
		return "INFO"
	case Insight:
		return "INSI"
	case Vibe:
		return "VIBE"
	case Ops:
		return "OPS"
	case Misc:
		return "MISC"
	}

	return "MISC"
}
