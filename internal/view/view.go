// Package view provides presentation-time selection over a snapshot:
// member ordering, channel activity ranges, vote tallies and overview
// stats. Everything here is a pure function; the snapshot is never
// mutated.
package view

import (
	"math"
	"sort"

	"github.com/comm0ns/pulseboard/internal/core/domain"
	"github.com/comm0ns/pulseboard/internal/scoring"
)

// SortKey selects the member ordering column.
type SortKey int

const (
	SortCP SortKey = iota
	SortTS
	SortVP
	SortStreak
	SortInfo
	SortInsight
	SortVibe
	SortOps

	sortKeyCount
)

func (k SortKey) String() string {
	switch k {
	case SortTS:
		return "TS"
	case SortVP:
		return "VP"
	case SortStreak:
		return "STREAK"
	case SortInfo:
		return "INFO"
	case SortInsight:
		return "INSIGHT"
	case SortVibe:
		return "VIBE"
	case SortOps:
		return "OPS"
	default:
		return "CP"
	}
}

// Next cycles through the sort keys.
func (k SortKey) Next() SortKey {
	return (k + 1) % sortKeyCount
}

func sortValue(m domain.Member, key SortKey) int {
	switch key {
	case SortTS:
		return m.TS
	case SortVP:
		return scoring.VP(m.CP)
	case SortStreak:
		return m.Streak
	case SortInfo:
		return m.Info
	case SortInsight:
		return m.Insight
	case SortVibe:
		return m.Vibe
	case SortOps:
		return m.Ops
	default:
		return m.CP
	}
}

// SortedMembers returns a copy ordered by the key descending, ties broken
// by CP descending.
func SortedMembers(members []domain.Member, key SortKey) []domain.Member {
	out := make([]domain.Member, len(members))
	copy(out, members)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := sortValue(out[i], key), sortValue(out[j], key)
		if a == b {
			return out[i].CP > out[j].CP
		}

		return a > b
	})

	return out
}

// ActivityRange selects which message counter a channel listing shows.
type ActivityRange int

const (
	RangeAll ActivityRange = iota
	RangeMonth
	RangeWeek

	activityRangeCount
)

func (r ActivityRange) String() string {
	switch r {
	case RangeMonth:
		return "Month"
	case RangeWeek:
		return "Week"
	default:
		return "All"
	}
}

// Next cycles through the activity ranges.
func (r ActivityRange) Next() ActivityRange {
	return (r + 1) % activityRangeCount
}

// ChannelMessages returns the channel's message count for the range.
func ChannelMessages(ch domain.Channel, r ActivityRange) int {
	switch r {
	case RangeMonth:
		return ch.MessagesMonth
	case RangeWeek:
		return ch.MessagesWeek
	default:
		return ch.MessagesTotal
	}
}

// SortedChannels returns a copy ordered by the selected range's count
// descending, ties broken by name.
func SortedChannels(channels []domain.Channel, r ActivityRange) []domain.Channel {
	out := make([]domain.Channel, len(channels))
	copy(out, channels)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := ChannelMessages(out[i], r), ChannelMessages(out[j], r)
		if a == b {
			return out[i].Name < out[j].Name
		}

		return a > b
	})

	return out
}

// VoteTally is the derived outcome of one vote's raw counters.
type VoteTally struct {
	YesRatio   float64
	YesPercent int
	Turnout    int
	Passed     bool
	Rule       string
}

const (
	ruleMajor  = "need >=66% yes and turnout >=50%"
	ruleNormal = "need >50% yes"
)

// TallyVote derives ratio, turnout and pass state. Major votes need a
// two-thirds yes ratio and at least 50% turnout; normal votes need a
// simple majority of cast VP.
func TallyVote(v domain.Vote) VoteTally {
	total := v.YesVP + v.NoVP
	if total < 1 {
		total = 1
	}

	eligible := v.TotalEligible
	if eligible < 1 {
		eligible = 1
	}

	ratio := float64(v.YesVP) / float64(total)
	turnout := int(math.Round(float64(v.Voters) / float64(eligible) * 100))

	tally := VoteTally{
		YesRatio:   ratio,
		YesPercent: int(math.Round(ratio * 100)),
		Turnout:    turnout,
		Rule:       ruleNormal,
	}

	if v.Type == domain.VoteTypeMajor {
		tally.Rule = ruleMajor
		tally.Passed = ratio >= 2.0/3.0 && turnout >= 50
	} else {
		tally.Passed = ratio > 0.5
	}

	return tally
}

// Overview is the snapshot-wide stats block.
type Overview struct {
	TotalCP          int
	Online           int
	AverageTS        float64
	TotalEffectiveVP int
	OpenIssues       int
	ActiveVotes      int
	TitlesAwarded    int
}

// Stats sums the snapshot into the overview figures. Open issues are
// everything not closed.
func Stats(snap *domain.Snapshot) Overview {
	var o Overview

	for _, m := range snap.Members {
		o.TotalCP += m.CP
		o.TotalEffectiveVP += scoring.EffectiveVP(m.CP, m.TS)
		o.TitlesAwarded += len(m.Titles)

		if m.Online {
			o.Online++
		}
	}

	if len(snap.Members) > 0 {
		var ts int
		for _, m := range snap.Members {
			ts += m.TS
		}

		o.AverageTS = float64(ts) / float64(len(snap.Members))
	}

	for _, issue := range snap.Issues {
		if issue.Status != "closed" {
			o.OpenIssues++
		}
	}

	o.ActiveVotes = len(snap.Votes)

	return o
}

// StreakBonus is the display-only CP bonus figure for a member's current
// streak.
func StreakBonus(m domain.Member) int {
	return scoring.StreakBonus(m.Streak)
}

// EffectiveVP is the member's voting power after trust scaling.
func EffectiveVP(m domain.Member) int {
	return scoring.EffectiveVP(m.CP, m.TS)
}
