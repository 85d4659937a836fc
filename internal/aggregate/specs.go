package aggregate

import "github.com/comm0ns/pulseboard/internal/source"

// Per-source fetch and projection specs. Alias lists exist because the
// optional analytics tables were created at different times by different
// bot versions and disagree on column names; the first present alias wins.
var (
	usersSpec = source.Spec{
		Name:   "users",
		Select: "user_id,username,current_score",
		Order:  "current_score.desc",
		Limit:  300,
		Fields: []source.Field{
			{Aliases: []string{"user_id"}, Default: "0"},
			{Aliases: []string{"username"}, Default: ""},
			{Aliases: []string{"current_score"}, Default: "0"},
		},
	}

	trustSpec = source.Spec{
		Name:   "members",
		Select: "*",
		Limit:  1000,
		Fields: []source.Field{
			{Aliases: []string{"user_id", "member_id", "discord_user_id", "id"}, Default: "0"},
			{Aliases: []string{"ts", "trust_score", "ts_score", "trust"}, Default: "100"},
		},
	}

	channelsSpec = source.Spec{
		Name:   "channels",
		Select: "channel_id,name",
		Limit:  3000,
		Fields: []source.Field{
			{Aliases: []string{"channel_id"}, Default: "0"},
			{Aliases: []string{"name"}, Default: ""},
		},
	}

	messagesSpec = source.Spec{
		Name:   "messages",
		Select: "message_id,user_id,channel_id,content,timestamp",
		Order:  "timestamp.desc",
		Limit:  6000,
		Fields: []source.Field{
			{Aliases: []string{"message_id"}, Default: "0"},
			{Aliases: []string{"user_id"}, Default: "0"},
			{Aliases: []string{"channel_id"}, Default: "0"},
			{Aliases: []string{"content"}, Default: ""},
			{Aliases: []string{"timestamp"}, Default: ""},
		},
	}

	reactionsSpec = source.Spec{
		Name:   "reactions",
		Select: "message_id,user_id,created_at",
		Order:  "created_at.desc",
		Limit:  6000,
		Fields: []source.Field{
			{Aliases: []string{"message_id"}, Default: "0"},
			{Aliases: []string{"user_id"}, Default: "0"},
			{Aliases: []string{"created_at"}, Default: ""},
		},
	}

	pulseSpec = source.Spec{
		Name:   "analytics_daily_pulse",
		Select: "day,total_messages",
		Order:  "day.desc",
		Limit:  60,
		Fields: []source.Field{
			{Aliases: []string{"day"}, Default: ""},
			{Aliases: []string{"total_messages"}, Default: "0"},
		},
	}

	leadersSpec = source.Spec{
		Name:   "analytics_channel_leader_user",
		Select: "channel_id,username",
		Fields: []source.Field{
			{Aliases: []string{"channel_id"}, Default: "0"},
			{Aliases: []string{"username"}, Default: "-"},
		},
	}

	rankingSpec = source.Spec{
		Name:   "analytics_channel_ranking",
		Select: "channel_id,channel_name,total_messages,active_users",
		Order:  "total_messages.desc",
		Limit:  120,
		Fields: []source.Field{
			{Aliases: []string{"channel_id"}, Default: "0"},
			{Aliases: []string{"channel_name"}, Default: ""},
			{Aliases: []string{"total_messages"}, Default: "0"},
			{Aliases: []string{"active_users"}, Default: "0"},
		},
	}

	votesSpec = source.Spec{
		Name:   "votes",
		Select: "*",
		Limit:  30,
		Fields: []source.Field{
			{Aliases: []string{"id", "vote_id", "proposal_id"}, Default: "0"},
			{Aliases: []string{"title", "name"}, Default: "(untitled)"},
			{Aliases: []string{"type", "vote_type"}, Default: "normal"},
			{Aliases: []string{"yes_vp", "yes_votes", "yes"}, Default: "0"},
			{Aliases: []string{"no_vp", "no_votes", "no"}, Default: "0"},
			{Aliases: []string{"voters", "voter_count"}, Default: "0"},
			{Aliases: []string{"total_eligible", "eligible_voters", "eligible"}, Default: "0"},
			{Aliases: []string{"days_left", "remaining_days"}, Default: "0"},
		},
	}

	issuesSpec = source.Spec{
		Name:   "issues",
		Select: "*",
		Limit:  50,
		Fields: []source.Field{
			{Aliases: []string{"id", "issue_id"}, Default: "0"},
			{Aliases: []string{"title", "name"}, Default: "(untitled)"},
			{Aliases: []string{"label", "type"}, Default: "-"},
			{Aliases: []string{"priority"}, Default: "medium"},
			{Aliases: []string{"status"}, Default: "open"},
			{Aliases: []string{"assignee", "owner"}, Default: "-"},
		},
	}
)
