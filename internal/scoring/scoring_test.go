package scoring

import (
	"testing"

	"github.com/comm0ns/pulseboard/internal/classify"
)

func TestVPBoundsAndMonotonicity(t *testing.T) {
	prev := 0

	for cp := 0; cp <= 5000; cp++ {
		vp := VP(cp)
		if vp < 1 || vp > 6 {
			t.Fatalf("VP(%d) = %d, outside [1,6]", cp, vp)
		}

		if vp < prev {
			t.Fatalf("VP not monotonic at cp=%d: %d after %d", cp, vp, prev)
		}

		prev = vp
	}
}

func TestVPCurve(t *testing.T) {
	tests := []struct {
		cp   int
		want int
	}{
		{cp: 0, want: 1},
		{cp: 1, want: 2},
		{cp: 7, want: 4},
		{cp: 31, want: 6},
		{cp: 1000, want: 6},
		{cp: 100000, want: 6},
	}

	for _, tt := range tests {
		if got := VP(tt.cp); got != tt.want {
			t.Errorf("VP(%d) = %d, want %d", tt.cp, got, tt.want)
		}
	}
}

func TestEffectiveVP(t *testing.T) {
	for _, cp := range []int{0, 5, 100, 1000} {
		if got := EffectiveVP(cp, 100); got != VP(cp) {
			t.Errorf("EffectiveVP(%d, 100) = %d, want VP = %d", cp, got, VP(cp))
		}

		if got := EffectiveVP(cp, 0); got != 1 {
			t.Errorf("EffectiveVP(%d, 0) = %d, want 1", cp, got)
		}
	}

	if got := EffectiveVP(1000, 50); got != 3 {
		t.Errorf("EffectiveVP(1000, 50) = %d, want 3", got)
	}
}

func TestStreakBonusBrackets(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{days: 0, want: 0},
		{days: 2, want: 0},
		{days: 3, want: 2},
		{days: 6, want: 2},
		{days: 7, want: 5},
		{days: 29, want: 5},
		{days: 30, want: 15},
		{days: 365, want: 15},
	}

	for _, tt := range tests {
		if got := StreakBonus(tt.days); got != tt.want {
			t.Errorf("StreakBonus(%d) = %d, want %d", tt.days, got, tt.want)
		}
	}
}

func TestBaseCP(t *testing.T) {
	tests := []struct {
		category classify.Category
		want     int
	}{
		{category: classify.Info, want: 5},
		{category: classify.Insight, want: 4},
		{category: classify.Vibe, want: 3},
		{category: classify.Ops, want: 4},
		{category: classify.Misc, want: 1},
	}

	for _, tt := range tests {
		if got := BaseCP(tt.category); got != tt.want {
			t.Errorf("BaseCP(%v) = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestChannelWeight(t *testing.T) {
	if got := ChannelWeight("#DEV"); got != 1.2 {
		t.Errorf("ChannelWeight(#DEV) = %v, want 1.2 (case folded)", got)
	}

	if got := ChannelWeight("#music"); got != 0.8 {
		t.Errorf("ChannelWeight(#music) = %v, want 0.8", got)
	}

	if got := ChannelWeight("#never-heard-of-it"); got != 1.0 {
		t.Errorf("ChannelWeight(unknown) = %v, want 1.0", got)
	}
}

func TestEffectiveCP(t *testing.T) {
	// Info (5) in #dev (1.2) at full trust.
	if got := EffectiveCP(classify.Info, "#dev", 100); got != 6.0 {
		t.Errorf("EffectiveCP = %v, want 6.0", got)
	}

	// Trust discount halves the value.
	if got := EffectiveCP(classify.Info, "#dev", 50); got != 3.0 {
		t.Errorf("EffectiveCP = %v, want 3.0", got)
	}

	if got := EffectiveCP(classify.Misc, "#random", 0); got != 0 {
		t.Errorf("EffectiveCP at ts=0 = %v, want 0", got)
	}
}
