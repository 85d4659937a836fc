package classify

import (
	"strings"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name       string
		channel    string
		text       string
		category   Category
		confidence float64
		stage      int
	}{
		{
			name:       "short reaction",
			channel:    "#random",
			text:       "lol",
			category:   Vibe,
			confidence: 0.80,
			stage:      1,
		},
		{
			name:       "url wins over everything",
			channel:    "#dev",
			text:       "check https://example.com/x",
			category:   Info,
			confidence: 0.70,
			stage:      1,
		},
		{
			name:       "url wins even in ops channel",
			channel:    "#ops",
			text:       "see http://status.example.com",
			category:   Info,
			confidence: 0.70,
			stage:      1,
		},
		{
			name:       "ops channel before length rules",
			channel:    "#ops",
			text:       "status update, all green",
			category:   Ops,
			confidence: 0.60,
			stage:      1,
		},
		{
			name:       "governance is operational",
			channel:    "#GOVERNANCE",
			text:       "quorum reached for proposal seven",
			category:   Ops,
			confidence: 0.60,
			stage:      1,
		},
		{
			name:       "long message",
			channel:    "#general",
			text:       strings.Repeat("a", 250),
			category:   Insight,
			confidence: 0.40,
			stage:      1,
		},
		{
			name:       "plain medium message defers",
			channel:    "#general",
			text:       strings.Repeat("word ", 10),
			category:   Misc,
			confidence: 0.0,
			stage:      2,
		},
		{
			name:       "emoji only counts as vibe",
			channel:    "#general",
			text:       "\U0001F44D\U0001F44D\U0001F44D\U0001F44D\U0001F44D\U0001F44D",
			category:   Vibe,
			confidence: 0.80,
			stage:      1,
		},
		{
			name:       "empty text",
			channel:    "#general",
			text:       "",
			category:   Vibe,
			confidence: 0.80,
			stage:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Message(tt.channel, tt.text)
			if got.Category != tt.category || got.Confidence != tt.confidence || got.Stage != tt.stage {
				t.Errorf("Message(%q, %q) = %+v, want {%v %v %d}",
					tt.channel, tt.text, got, tt.category, tt.confidence, tt.stage)
			}
		})
	}
}

func TestMessageDeterministic(t *testing.T) {
	first := Message("#dev", "benchmarked two caching strategies, variant B won")

	for i := 0; i < 100; i++ {
		if got := Message("#dev", "benchmarked two caching strategies, variant B won"); got != first {
			t.Fatalf("classification not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestCategoryNames(t *testing.T) {
	if Info.String() != "INFO" || Insight.String() != "INSIGHT" {
		t.Error("unexpected category display names")
	}

	if Insight.FeedTag() != "INSI" {
		t.Errorf("Insight.FeedTag() = %q, want INSI", Insight.FeedTag())
	}
}
