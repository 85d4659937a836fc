// Package scoring holds the contribution-score arithmetic: base CP per
// category, channel weighting, the logarithmic voting-power curve, and the
// streak bonus brackets. Every function is pure and deterministic.
package scoring

import (
	"math"
	"strings"

	"github.com/comm0ns/pulseboard/internal/classify"
)

const (
	tsMax = 100

	vpMin = 1
	vpMax = 6

	streakBonusLong   = 15
	streakBonusMid    = 5
	streakBonusShort  = 2
	streakLongDays    = 30
	streakMidDays     = 7
	streakShortDays   = 3
	defaultChanWeight = 1.0
)

var baseCP = map[classify.Category]int{
	classify.Info:    5,
	classify.Insight: 4,
	classify.Vibe:    3,
	classify.Ops:     4,
	classify.Misc:    1,
}

// channelWeights maps canonical channel names to their scoring multiplier.
// Project and knowledge channels weigh 1.2, social baseline 1.0, hobby 0.8.
var channelWeights = map[string]float64{
	"#dev":           1.2,
	"#agri":          1.2,
	"#book-commons":  1.2,
	"#learning":      1.2,
	"#article-share": 1.2,
	"#general":       1.0,
	"#intro":         1.0,
	"#game":          0.8,
	"#music":         0.8,
	"#random":        0.8,
}

// BaseCP returns the raw contribution points for a message category.
func BaseCP(c classify.Category) int {
	if cp, ok := baseCP[c]; ok {
		return cp
	}

	return baseCP[classify.Misc]
}

// ChannelWeight returns the scoring multiplier for a channel, 1.0 when the
// channel is not in the fixed table.
func ChannelWeight(name string) float64 {
	if w, ok := channelWeights[strings.ToLower(name)]; ok {
		return w
	}

	return defaultChanWeight
}

// EffectiveCP is the trust-discounted, channel-weighted contribution value
// of a single message.
func EffectiveCP(c classify.Category, channel string, ts int) float64 {
	return float64(BaseCP(c)) * ChannelWeight(channel) * (float64(ts) / tsMax)
}

// VP derives voting power from cumulative CP: floor(log2(cp+1))+1, clamped
// to [1,6].
func VP(cp int) int {
	vp := int(math.Floor(math.Log2(float64(cp)+1))) + 1

	return clamp(vp, vpMin, vpMax)
}

// EffectiveVP discounts VP by trust, with a floor of 1.
func EffectiveVP(cp, ts int) int {
	vp := int(math.Floor(float64(VP(cp)) * float64(ts) / tsMax))
	if vp < vpMin {
		return vpMin
	}

	return vp
}

// StreakBonus is the CP bonus bracket for a consecutive-day streak. The
// figure is informational: nothing in this process folds it into stored CP.
func StreakBonus(days int) int {
	switch {
	case days >= streakLongDays:
		return streakBonusLong
	case days >= streakMidDays:
		return streakBonusMid
	case days >= streakShortDays:
		return streakBonusShort
	default:
		return 0
	}
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
