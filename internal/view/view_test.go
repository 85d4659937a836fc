package view

import (
	"testing"

	"github.com/comm0ns/pulseboard/internal/core/domain"
)

func TestSortedMembersTieBreaksOnCP(t *testing.T) {
	members := []domain.Member{
		{Name: "low", CP: 10, Streak: 5},
		{Name: "rich", CP: 90, Streak: 5},
		{Name: "top", CP: 50, Streak: 9},
	}

	sorted := SortedMembers(members, SortStreak)

	got := []string{sorted[0].Name, sorted[1].Name, sorted[2].Name}
	want := []string{"top", "rich", "low"}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}

	if members[0].Name != "low" {
		t.Fatal("input slice mutated")
	}
}

func TestSortKeyCycle(t *testing.T) {
	key := SortCP
	seen := map[string]bool{}

	for i := 0; i < int(sortKeyCount); i++ {
		seen[key.String()] = true
		key = key.Next()
	}

	if key != SortCP {
		t.Fatalf("cycle did not return to CP, got %s", key)
	}

	for _, name := range []string{"CP", "TS", "VP", "STREAK", "INFO", "INSIGHT", "VIBE", "OPS"} {
		if !seen[name] {
			t.Fatalf("sort key %s never reached", name)
		}
	}
}

func TestChannelMessagesByRange(t *testing.T) {
	ch := domain.Channel{MessagesTotal: 100, MessagesMonth: 30, MessagesWeek: 7}

	cases := []struct {
		r    ActivityRange
		want int
	}{
		{RangeAll, 100},
		{RangeMonth, 30},
		{RangeWeek, 7},
	}

	for _, tc := range cases {
		if got := ChannelMessages(ch, tc.r); got != tc.want {
			t.Errorf("range %s: got %d, want %d", tc.r, got, tc.want)
		}
	}
}

func TestSortedChannelsByWeek(t *testing.T) {
	channels := []domain.Channel{
		{Name: "#a", MessagesTotal: 500, MessagesWeek: 1},
		{Name: "#b", MessagesTotal: 10, MessagesWeek: 9},
	}

	sorted := SortedChannels(channels, RangeWeek)
	if sorted[0].Name != "#b" {
		t.Fatalf("expected #b first, got %s", sorted[0].Name)
	}
}

func TestTallyVote(t *testing.T) {
	cases := []struct {
		name    string
		vote    domain.Vote
		passed  bool
		rule    string
		turnout int
	}{
		{
			name:    "normal pass",
			vote:    domain.Vote{Type: "normal", YesVP: 60, NoVP: 40, Voters: 5, TotalEligible: 100},
			passed:  true,
			rule:    ruleNormal,
			turnout: 5,
		},
		{
			name:   "normal exact half fails",
			vote:   domain.Vote{Type: "normal", YesVP: 50, NoVP: 50, Voters: 10, TotalEligible: 10},
			passed: false,
			rule:   ruleNormal,
		},
		{
			name:    "major needs turnout",
			vote:    domain.Vote{Type: "major", YesVP: 90, NoVP: 10, Voters: 4, TotalEligible: 10},
			passed:  false,
			rule:    ruleMajor,
			turnout: 40,
		},
		{
			name:    "major passes",
			vote:    domain.Vote{Type: "major", YesVP: 70, NoVP: 30, Voters: 5, TotalEligible: 10},
			passed:  true,
			rule:    ruleMajor,
			turnout: 50,
		},
		{
			name:   "major exactly two thirds passes",
			vote:   domain.Vote{Type: "major", YesVP: 2, NoVP: 1, Voters: 6, TotalEligible: 10},
			passed: true,
			rule:   ruleMajor,
		},
		{
			name:   "empty vote",
			vote:   domain.Vote{Type: "normal"},
			passed: false,
			rule:   ruleNormal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tally := TallyVote(tc.vote)

			if tally.Passed != tc.passed {
				t.Errorf("passed = %v, want %v", tally.Passed, tc.passed)
			}

			if tally.Rule != tc.rule {
				t.Errorf("rule = %q, want %q", tally.Rule, tc.rule)
			}

			if tc.turnout != 0 && tally.Turnout != tc.turnout {
				t.Errorf("turnout = %d, want %d", tally.Turnout, tc.turnout)
			}
		})
	}
}

func TestStats(t *testing.T) {
	snap := &domain.Snapshot{
		Members: []domain.Member{
			{CP: 100, TS: 100, Online: true, Titles: []string{"Top-CP"}},
			{CP: 50, TS: 50},
		},
		Issues: []domain.Issue{
			{Status: "open"},
			{Status: "closed"},
			{Status: "in-progress"},
		},
		Votes: []domain.Vote{{}, {}},
	}

	o := Stats(snap)

	if o.TotalCP != 150 {
		t.Errorf("TotalCP = %d, want 150", o.TotalCP)
	}

	if o.Online != 1 {
		t.Errorf("Online = %d, want 1", o.Online)
	}

	if o.AverageTS != 75 {
		t.Errorf("AverageTS = %v, want 75", o.AverageTS)
	}

	if o.OpenIssues != 2 {
		t.Errorf("OpenIssues = %d, want 2", o.OpenIssues)
	}

	if o.ActiveVotes != 2 {
		t.Errorf("ActiveVotes = %d, want 2", o.ActiveVotes)
	}

	if o.TitlesAwarded != 1 {
		t.Errorf("TitlesAwarded = %d, want 1", o.TitlesAwarded)
	}
}
