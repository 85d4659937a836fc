package aggregate

import (
	"github.com/comm0ns/pulseboard/internal/calendar"
	"github.com/comm0ns/pulseboard/internal/classify"
	"github.com/comm0ns/pulseboard/internal/core/domain"
	"github.com/comm0ns/pulseboard/internal/source"
)

// scanMessages runs every message row through the classifier and updates
// member counters, channel counters, day windows, the activity feed and the
// sample list in a single pass. Rows arrive newest first, so the feed and
// sample caps keep the most recent entries.
func (b *build) scanMessages(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}

		msgID := parseInt64(row[0])
		uid := parseInt64(row[1])
		cid := parseInt64(row[2])

		if msgID == 0 || uid == 0 || cid == 0 {
			continue
		}

		content := row[3]
		channel := b.channelLabel(cid)
		res := classify.Message(channel, content)

		m := b.member(uid)
		if m != nil {
			b.bumpCategory(m, res.Category)
		}

		if len(b.samples) < sampleCap && content != "" {
			b.samples = append(b.samples, domain.MessageSample{
				Channel: channel,
				Text:    content,
			})
		}

		if len(b.feed) < feedCap {
			message := fitText(content, feedTextWidth)
			if message == "" {
				message = "posted in " + channel
			}

			b.feed = append(b.feed, domain.FeedEvent{
				Type:    res.Category.FeedTag(),
				User:    b.userName(uid),
				Message: message,
			})
		}

		b.chanTotal[cid]++

		if _, ok := b.chanUserCounts[cid]; !ok {
			b.chanUserCounts[cid] = make(map[int64]int)
			b.chanActiveUsers[cid] = make(map[int64]struct{})
		}

		b.chanUserCounts[cid][uid]++
		b.chanActiveUsers[cid][uid] = struct{}{}

		day, ok := calendar.ParseSerial(row[4])
		if !ok {
			continue
		}

		if day >= b.today-monthWindowOffset {
			b.chanMonth[cid]++
		}

		if day >= b.today-weekWindowOffset {
			b.chanWeek[cid]++
		}

		b.markActive(uid, day)

		if m != nil && day == b.today {
			m.Online = true
		}

		b.bumpDaily(day, res.Category)
	}
}

// scanReactions counts vote participation and extends active-day sets.
// Reacting today also marks the member online.
func (b *build) scanReactions(rows []source.Row) {
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}

		uid := parseInt64(row[1])
		if uid == 0 {
			continue
		}

		m := b.member(uid)
		if m != nil {
			m.VotesParticipated++
		}

		day, ok := calendar.ParseSerial(row[2])
		if !ok {
			continue
		}

		b.markActive(uid, day)

		if m != nil && day == b.today {
			m.Online = true
		}
	}
}
