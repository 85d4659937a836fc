// Package aggregate builds one dashboard snapshot from the raw row sets of
// the upstream sources.
//
// The identity source is mandatory: when it fails the whole build fails and
// the caller keeps whatever snapshot it already has. Every other source is
// optional; a failure there clears its availability flag and the build
// carries on with the rest. Rows referencing unknown member or channel ids
// are dropped silently.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/comm0ns/pulseboard/internal/calendar"
	"github.com/comm0ns/pulseboard/internal/classify"
	"github.com/comm0ns/pulseboard/internal/core/domain"
	"github.com/comm0ns/pulseboard/internal/platform/observability"
	"github.com/comm0ns/pulseboard/internal/scoring"
	"github.com/comm0ns/pulseboard/internal/source"
)

// ErrMandatorySource marks a failed refresh: the identity source did not
// return rows.
var ErrMandatorySource = errors.New("identity source failed")

const (
	feedCap       = 14
	sampleCap     = 10
	feedTextWidth = 44

	monthWindowOffset = 29
	weekWindowOffset  = 6

	sprintName       = "Current Sprint"
	sprintSpanDays   = 13
	sprintIssueCount = 3
	sprintBonusCP    = 20

	titleStreak30  = "Streak-30"
	titleStreak7   = "Streak-7"
	titleTopCP     = "Top-CP"
	streak30Days   = 30
	streak7Days    = 7
	topCPThreshold = 1000

	tsDefault = 100
	tsMax     = 100
)

// Aggregator turns source rows into snapshots.
type Aggregator struct {
	querier source.Querier
	logger  *zerolog.Logger
	today   func() int
}

// New creates an aggregator over the given query capability.
func New(querier source.Querier, logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		querier: querier,
		logger:  logger,
		today:   calendar.Today,
	}
}

// WithToday pins the current day serial. Tests use it to make windowing and
// streak arithmetic reproducible.
func (a *Aggregator) WithToday(today func() int) *Aggregator {
	a.today = today
	return a
}

// BuildSnapshot queries every source and derives a complete snapshot. The
// returned snapshot carries entities and availability flags; status
// metadata belongs to the refresh lifecycle.
func (a *Aggregator) BuildSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	users, err := a.querier.Query(ctx, usersSpec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMandatorySource, err)
	}

	observability.SourceRows.WithLabelValues(usersSpec.Name).Add(float64(len(users)))

	b := newBuild(a.today())
	b.addMembers(users)

	if rows, ok := a.optional(ctx, trustSpec); ok {
		b.flags.TrustScores = true

		b.applyTrustScores(rows)
	}

	if rows, ok := a.optional(ctx, channelsSpec); ok {
		b.flags.Channels = true

		b.addChannelNames(rows)
	}

	if rows, ok := a.optional(ctx, messagesSpec); ok {
		b.flags.Messages = true

		b.scanMessages(rows)
	}

	if rows, ok := a.optional(ctx, reactionsSpec); ok {
		b.flags.Reactions = true

		b.scanReactions(rows)
	}

	b.finalizeMembers()

	if rows, ok := a.optional(ctx, pulseSpec); ok {
		b.flags.DailyPulse = true

		b.addDailyPulse(rows)
	}

	champions := map[int64]string{}
	if rows, ok := a.optional(ctx, leadersSpec); ok {
		champions = channelChampions(rows)
	}

	if rows, ok := a.optional(ctx, rankingSpec); ok {
		b.flags.ChannelRanking = true

		b.addRankedChannels(rows, champions)
	}

	if len(b.channels) == 0 {
		b.deriveChannels()
	}

	if rows, ok := a.optional(ctx, votesSpec); ok {
		b.flags.Votes = true

		b.addVotes(rows)
	}

	if rows, ok := a.optional(ctx, issuesSpec); ok {
		b.flags.Issues = true

		b.addIssues(rows)
	}

	return b.snapshot(), nil
}

// optional queries a non-mandatory source; a failure clears its flag and is
// reported through the build, not as an error.
func (a *Aggregator) optional(ctx context.Context, spec source.Spec) ([]source.Row, bool) {
	rows, err := a.querier.Query(ctx, spec)
	if err != nil {
		a.logger.Warn().Err(err).Str("source", spec.Name).Msg("optional source unavailable")
		return nil, false
	}

	observability.SourceRows.WithLabelValues(spec.Name).Add(float64(len(rows)))

	return rows, true
}

// build accumulates per-refresh state. Everything here is rebuilt from
// scratch each cycle.
type build struct {
	today int
	flags domain.SourceFlags

	members   []domain.Member
	memberIdx map[int64]int
	nameByID  map[int64]string

	channelNameByID map[int64]string
	channels        []domain.Channel

	chanTotal       map[int64]int
	chanMonth       map[int64]int
	chanWeek        map[int64]int
	chanUserCounts  map[int64]map[int64]int
	chanActiveUsers map[int64]map[int64]struct{}

	activeDays map[int64]map[int]struct{}

	dailyTotal   map[int]int
	dailyInfo    map[int]int
	dailyInsight map[int]int
	dailyVibe    map[int]int
	dailyOps     map[int]int
	pulseTotal   map[int]int

	feed    []domain.FeedEvent
	samples []domain.MessageSample

	votes  []domain.Vote
	issues []domain.Issue
}

func newBuild(today int) *build {
	return &build{
		today:           today,
		memberIdx:       make(map[int64]int),
		nameByID:        make(map[int64]string),
		channelNameByID: make(map[int64]string),
		chanTotal:       make(map[int64]int),
		chanMonth:       make(map[int64]int),
		chanWeek:        make(map[int64]int),
		chanUserCounts:  make(map[int64]map[int64]int),
		chanActiveUsers: make(map[int64]map[int64]struct{}),
		activeDays:      make(map[int64]map[int]struct{}),
		dailyTotal:      make(map[int]int),
		dailyInfo:       make(map[int]int),
		dailyInsight:    make(map[int]int),
		dailyVibe:       make(map[int]int),
		dailyOps:        make(map[int]int),
		pulseTotal:      make(map[int]int),
	}
}

func (b *build) addMembers(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}

		uid := parseInt64(row[0])
		if uid == 0 {
			continue
		}

		name := row[1]
		if name == "" {
			name = fallbackUserName(uid)
		}

		b.members = append(b.members, domain.Member{
			ID:   uid,
			Name: name,
			CP:   nonNegative(parseInt(row[2])),
			TS:   tsDefault,
		})
		b.memberIdx[uid] = len(b.members) - 1
		b.nameByID[uid] = name
	}
}

func (b *build) applyTrustScores(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		idx, ok := b.memberIdx[parseInt64(row[0])]
		if !ok {
			continue
		}

		b.members[idx].TS = clamp(parseInt(row[1]), 0, tsMax)
	}
}

func (b *build) addChannelNames(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		cid := parseInt64(row[0])
		if cid == 0 {
			continue
		}

		b.channelNameByID[cid] = normalizeChannelLabel(row[1], cid)
	}
}

func (b *build) member(uid int64) *domain.Member {
	idx, ok := b.memberIdx[uid]
	if !ok {
		return nil
	}

	return &b.members[idx]
}

func (b *build) channelLabel(cid int64) string {
	return normalizeChannelLabel(b.channelNameByID[cid], cid)
}

func (b *build) userName(uid int64) string {
	if name, ok := b.nameByID[uid]; ok {
		return name
	}

	return fallbackUserName(uid)
}

// finalizeMembers computes streaks and derives titles once all active-day
// sets are complete. A streak is the longest run of consecutive days ending
// today that are present in the member's active-day set.
func (b *build) finalizeMembers() {
	for i := range b.members {
		m := &b.members[i]

		days := b.activeDays[m.ID]

		streak := 0
		for cursor := b.today; ; cursor-- {
			if _, ok := days[cursor]; !ok {
				break
			}

			streak++
		}

		m.Streak = streak

		switch {
		case streak >= streak30Days:
			m.Titles = append(m.Titles, titleStreak30)
		case streak >= streak7Days:
			m.Titles = append(m.Titles, titleStreak7)
		}

		if m.CP >= topCPThreshold {
			m.Titles = append(m.Titles, titleTopCP)
		}
	}
}

func (b *build) snapshot() *domain.Snapshot {
	if len(b.samples) == 0 {
		b.samples = append(b.samples, domain.MessageSample{
			Channel: "#general",
			Text:    "No recent messages in DB. (messages table empty)",
		})
	}

	if len(b.feed) == 0 {
		b.feed = append(b.feed, domain.FeedEvent{
			Type:    "INFO",
			User:    "system",
			Message: "No recent activity records.",
		})
	}

	return &domain.Snapshot{
		Members:  b.members,
		Channels: b.channels,
		Votes:    b.votes,
		Issues:   b.issues,
		Feed:     b.feed,
		Samples:  b.samples,
		Sprint:   b.sprint(),
		History:  b.history(),
		Sources:  b.flags,
	}
}

func (b *build) sprint() domain.Sprint {
	var issueIDs []int

	for i := 0; i < len(b.issues) && i < sprintIssueCount; i++ {
		issueIDs = append(issueIDs, b.issues[i].ID)
	}

	return domain.Sprint{
		Name:      sprintName,
		StartDate: calendar.ISO(b.today),
		EndDate:   calendar.ISO(b.today + sprintSpanDays),
		IssueIDs:  issueIDs,
		BonusCP:   sprintBonusCP,
	}
}

// history fills the fixed-length daily series, oldest first. The total
// series prefers the precomputed pulse figure for days that have one;
// category series are always derived locally.
func (b *build) history() domain.History {
	h := domain.EmptyHistory()

	for i := 0; i < domain.HistoryDays; i++ {
		day := b.today - (domain.HistoryDays - 1 - i)

		if total, ok := b.pulseTotal[day]; ok {
			h.Total[i] = total
		} else {
			h.Total[i] = b.dailyTotal[day]
		}

		h.Info[i] = b.dailyInfo[day]
		h.Insight[i] = b.dailyInsight[day]
		h.Vibe[i] = b.dailyVibe[day]
		h.Ops[i] = b.dailyOps[day]
	}

	return h
}

func (b *build) bumpCategory(m *domain.Member, c classify.Category) {
	switch c {
	case classify.Info:
		m.Info++
	case classify.Insight:
		m.Insight++
	case classify.Vibe:
		m.Vibe++
	case classify.Ops:
		m.Ops++
	case classify.Misc:
		m.Misc++
	}
}

func (b *build) bumpDaily(day int, c classify.Category) {
	b.dailyTotal[day]++

	switch c {
	case classify.Info:
		b.dailyInfo[day]++
	case classify.Insight:
		b.dailyInsight[day]++
	case classify.Vibe:
		b.dailyVibe[day]++
	case classify.Ops:
		b.dailyOps[day]++
	case classify.Misc:
	}
}

func (b *build) markActive(uid int64, day int) {
	days, ok := b.activeDays[uid]
	if !ok {
		days = make(map[int]struct{})
		b.activeDays[uid] = days
	}

	days[day] = struct{}{}
}

// deriveChannels builds the channel list from the raw per-channel counters
// collected while scanning messages. Used when the precomputed ranking
// source is unavailable or empty.
func (b *build) deriveChannels() {
	ids := make([]int64, 0, len(b.chanTotal))
	for cid := range b.chanTotal {
		ids = append(ids, cid)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, cid := range ids {
		name := b.channelLabel(cid)

		b.channels = append(b.channels, domain.Channel{
			Name:          name,
			MessagesTotal: b.chanTotal[cid],
			MessagesMonth: b.chanMonth[cid],
			MessagesWeek:  b.chanWeek[cid],
			Champion:      b.topPoster(cid),
			ActiveUsers:   len(b.chanActiveUsers[cid]),
			Weight:        scoring.ChannelWeight(name),
		})
	}

	sort.SliceStable(b.channels, func(i, j int) bool {
		if b.channels[i].MessagesTotal != b.channels[j].MessagesTotal {
			return b.channels[i].MessagesTotal > b.channels[j].MessagesTotal
		}

		return b.channels[i].Name < b.channels[j].Name
	})
}

// topPoster is the champion fallback: the member with the most posts in the
// channel, ties broken by lower id for determinism.
func (b *build) topPoster(cid int64) string {
	counts := b.chanUserCounts[cid]
	if len(counts) == 0 {
		return "-"
	}

	uids := make([]int64, 0, len(counts))
	for uid := range counts {
		uids = append(uids, uid)
	}

	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	champion := "-"
	top := 0

	for _, uid := range uids {
		if counts[uid] > top {
			top = counts[uid]
			champion = b.userName(uid)
		}
	}

	return champion
}

func (b *build) addRankedChannels(rows []source.Row, champions map[int64]string) {
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}

		cid := parseInt64(row[0])
		name := normalizeChannelLabel(row[1], cid)

		champion, ok := champions[cid]
		if !ok || champion == "" {
			champion = "-"
		}

		b.channels = append(b.channels, domain.Channel{
			Name:          name,
			MessagesTotal: nonNegative(parseInt(row[2])),
			MessagesMonth: b.chanMonth[cid],
			MessagesWeek:  b.chanWeek[cid],
			Champion:      champion,
			ActiveUsers:   nonNegative(parseInt(row[3])),
			Weight:        scoring.ChannelWeight(name),
		})
	}
}

func channelChampions(rows []source.Row) map[int64]string {
	champions := make(map[int64]string, len(rows))

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		name := row[1]
		if name == "" {
			name = "-"
		}

		champions[parseInt64(row[0])] = name
	}

	return champions
}

func (b *build) addDailyPulse(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		day, ok := calendar.ParseSerial(row[0])
		if !ok {
			continue
		}

		b.pulseTotal[day] = parseInt(row[1])
	}
}

func (b *build) addVotes(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 8 {
			continue
		}

		b.votes = append(b.votes, domain.Vote{
			ID:            row[0],
			Title:         row[1],
			Type:          row[2],
			YesVP:         nonNegative(parseInt(row[3])),
			NoVP:          nonNegative(parseInt(row[4])),
			Voters:        nonNegative(parseInt(row[5])),
			TotalEligible: nonNegative(parseInt(row[6])),
			DaysLeft:      nonNegative(parseInt(row[7])),
		})
	}
}

func (b *build) addIssues(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}

		b.issues = append(b.issues, domain.Issue{
			ID:       nonNegative(parseInt(row[0])),
			Title:    row[1],
			Label:    row[2],
			Priority: row[3],
			Status:   row[4],
			Assignee: row[5],
		})
	}
}

func fallbackUserName(uid int64) string {
	return fmt.Sprintf("user-%d", uid)
}
