// Package domain defines the dashboard entities and the Snapshot handoff
// contract between the refresh lifecycle and the presentation layer.
package domain

import "time"

// DataStatus labels the freshness of the published snapshot.
type DataStatus string

const (
	// StatusInit is the placeholder before any refresh attempt has finished.
	StatusInit DataStatus = "INIT"
	// StatusLive means the last refresh attempt succeeded.
	StatusLive DataStatus = "DB LIVE"
	// StatusStale means the last attempt failed but an earlier snapshot is
	// still being served (last-known-good).
	StatusStale DataStatus = "DB STALE"
	// StatusError means no successful snapshot exists.
	StatusError DataStatus = "DB ERROR"
)

// HistoryDays is the fixed length of every day-bucket history series.
const HistoryDays = 26

// Member is one community member's standing for the current snapshot.
// Collections are rebuilt from scratch on every refresh, never patched.
type Member struct {
	ID     int64
	Name   string
	CP     int
	TS     int
	Streak int

	Info    int
	Insight int
	Vibe    int
	Ops     int
	Misc    int

	Online            bool
	Titles            []string
	VotesParticipated int
}

// Channel is one channel's activity summary. Name always carries the
// leading '#'.
type Channel struct {
	Name          string
	MessagesTotal int
	MessagesMonth int
	MessagesWeek  int
	Champion      string
	ActiveUsers   int
	Weight        float64
}

// Vote holds raw governance tallies. Pass/fail is derived at presentation
// time, never stored.
type Vote struct {
	ID            string
	Title         string
	Type          string
	YesVP         int
	NoVP          int
	Voters        int
	TotalEligible int
	DaysLeft      int
}

// VoteTypeMajor marks votes that need a supermajority and quorum.
const VoteTypeMajor = "major"

// Issue is one tracked work item.
type Issue struct {
	ID       int
	Title    string
	Label    string
	Priority string
	Status   string
	Assignee string
}

// FeedEvent is one entry of the rolling activity log, oldest first.
type FeedEvent struct {
	Type    string
	User    string
	Message string
}

// MessageSample is a raw message retained to show classifier behavior.
type MessageSample struct {
	Channel string
	Text    string
}

// Sprint is the recomputed current sprint window.
type Sprint struct {
	Name      string
	StartDate string
	EndDate   string
	IssueIDs  []int
	BonusCP   int
}

// History carries the fixed-length daily message series, oldest first with
// today in the last slot. Every slice has exactly HistoryDays entries.
type History struct {
	Total   []int
	Info    []int
	Insight []int
	Vibe    []int
	Ops     []int
}

// SourceFlags records which optional sources responded on the last refresh.
// The identity source has no flag: when it fails there is no refresh.
type SourceFlags struct {
	TrustScores    bool
	Channels       bool
	Messages       bool
	Reactions      bool
	DailyPulse     bool
	ChannelRanking bool
	Votes          bool
	Issues         bool
}

// Snapshot is the immutable result of one refresh cycle. The lifecycle owns
// the current instance; readers hold it only through a read-only reference
// and must never mutate it.
type Snapshot struct {
	Members  []Member
	Channels []Channel
	Votes    []Vote
	Issues   []Issue
	Feed     []FeedEvent
	Samples  []MessageSample
	Sprint   Sprint
	History  History

	Status      DataStatus
	Sources     SourceFlags
	LastRefresh time.Time
	LastError   string

	// Seq orders snapshots by publication; AttemptID correlates a snapshot
	// with the refresh attempt that produced it in logs.
	Seq       uint64
	AttemptID string
}

// EmptyHistory returns all-zero series of the fixed length.
func EmptyHistory() History {
	return History{
		Total:   make([]int, HistoryDays),
		Info:    make([]int, HistoryDays),
		Insight: make([]int, HistoryDays),
		Vibe:    make([]int, HistoryDays),
		Ops:     make([]int, HistoryDays),
	}
}
