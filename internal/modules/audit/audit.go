package audit

import (
	"context"
	"fmt"
	"time"

	"warden-bot/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	ActionBanned   = "banned"
	ActionKicked   = "kicked"
	ActionUnbanned = "unbanned"
	ActionMuted    = "muted"
	ActionUnmuted  = "unmuted"
	ActionPurged   = "purged"
)

// Entry describes one moderation action taken through the bot.
type Entry struct {
	GuildID     string
	Action      string
	TargetID    string
	TargetName  string
	ModeratorID string
	Reason      string
	Duration    time.Duration
	Indefinite  bool
	Count       int
	ChannelID   string
	LogURL      string
	CreatedAt   time.Time
}

type Logger struct {
	logger *zap.Logger
	notify func(context.Context, Entry)
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) SetNotifier(notify func(context.Context, Entry)) {
	l.notify = notify
}

func (l *Logger) Log(ctx context.Context, entry Entry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	metrics.ModerationActions.WithLabelValues(entry.Action).Inc()
	if l.notify != nil {
		l.notify(ctx, entry)
	}
	l.logger.Info("moderation",
		zap.String("action", entry.Action),
		zap.String("guild_id", entry.GuildID),
		zap.String("user_id", entry.TargetID),
		zap.String("moderator_id", entry.ModeratorID),
		zap.String("reason", entry.Reason),
	)
}

// Embed renders entry for the guild log channel.
func Embed(entry Entry, color int) *discordgo.MessageEmbed {
	if entry.Action == ActionPurged {
		embed := &discordgo.MessageEmbed{
			Title:       "Purged messages",
			Description: fmt.Sprintf("Deleted %d messages in <#%s>.", entry.Count, entry.ChannelID),
			Color:       color,
			Timestamp:   entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.LogURL != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Log file", Value: fmt.Sprintf("[Link](%s)", entry.LogURL)})
		}
		return embed
	}

	reason := entry.Reason
	if reason == "" {
		reason = "(none)"
	}
	member := fmt.Sprintf("<@%s>", entry.TargetID)
	if entry.TargetName != "" {
		member = fmt.Sprintf("<@%s> (%s - %s)", entry.TargetID, entry.TargetName, entry.TargetID)
	}
	embed := &discordgo.MessageEmbed{
		Title:     "Member " + entry.Action,
		Color:     color,
		Timestamp: entry.CreatedAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: member, Inline: true},
			{Name: "Responsible Moderator", Value: fmt.Sprintf("<@%s>", entry.ModeratorID), Inline: true},
			{Name: "Reason", Value: reason, Inline: true},
		},
	}
	if entry.Action == ActionMuted {
		value := FormatDuration(entry.Duration)
		if entry.Indefinite {
			value += " (as long as possible)"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Duration", Value: value})
	}
	return embed
}

// FormatDuration renders d as "N days, H:MM:SS", dropping the day part when zero.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, rest%3600/60, rest%60)
	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}
