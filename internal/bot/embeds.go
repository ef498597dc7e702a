package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"warden-bot/internal/modules/audit"
	"warden-bot/internal/modules/banstats"
	"warden-bot/internal/modules/tags"

	"github.com/bwmarrin/discordgo"
)

const (
	banStatsPrefix   = "banstats:"
	tagsPagePrefix   = "tags:"
	footerDateLayout = "02. Jan 2006"
)

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

func (b *Bot) errorEmbed(description string) *discordgo.MessageEmbed {
	return b.commandEmbed("Error", description, b.cfg.EmbedColors.Error, nil)
}

func (b *Bot) actionColor(action string) int {
	switch action {
	case audit.ActionBanned:
		return b.cfg.EmbedColors.Ban
	case audit.ActionKicked:
		return b.cfg.EmbedColors.Kick
	case audit.ActionUnbanned, audit.ActionUnmuted:
		return b.cfg.EmbedColors.Unban
	case audit.ActionMuted:
		return b.cfg.EmbedColors.Mute
	default:
		return b.cfg.EmbedColors.Info
	}
}

// successEmbed is the public confirmation posted after a ban, kick or unban.
func successEmbed(action, userName, imageURL string, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Member " + action,
		Description: fmt.Sprintf("**%s** has been %s.", userName, action),
		Color:       color,
	}
	if imageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: imageURL}
	}
	return embed
}

func directMessageEmbed(guildName, action, reason string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: fmt.Sprintf("You have been %s from %s.", action, guildName)}
	if reason == "" {
		embed.Description = fmt.Sprintf("You have been %s.", action)
	} else {
		embed.Description = fmt.Sprintf("You have been %s for the following reason: `%s`.", action, reason)
	}
	return embed
}

func muteAnnouncement(userID string, d time.Duration, indefinite bool, reason string, color int) *discordgo.MessageEmbed {
	length := "indefinitely"
	if !indefinite {
		length = "for " + audit.FormatDuration(d)
	}
	if reason == "" {
		reason = "(none)"
	}
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Muted <@%s> %s - `%s`", userID, length, reason),
		Color:       color,
	}
}

// banStatsEmbed renders reconciled counts; name resolves a moderator id to a display name.
func banStatsEmbed(result banstats.Result, after, before time.Time, name func(string) string, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Ban stats",
		Color: color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Banstats between %s and %s", after.UTC().Format(footerDateLayout), before.UTC().Format(footerDateLayout)),
		},
	}
	if len(result) == 0 {
		embed.Description = "No (known) bans in the time period"
		return embed
	}

	var lines []string
	for _, entry := range result.Sorted() {
		if entry.ModeratorID == banstats.Untrackable {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Untrackable bans", Value: strconv.Itoa(entry.Count)})
			continue
		}
		suffix := ""
		if entry.Count > 1 {
			suffix = "s"
		}
		lines = append(lines, fmt.Sprintf("%s - %d ban%s", name(entry.ModeratorID), entry.Count, suffix))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func banStatsComponents(month time.Time) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "← Previous Month",
					Style:    discordgo.SecondaryButton,
					CustomID: banStatsPrefix + banstats.MonthKey(banstats.PrevMonth(month)),
				},
				discordgo.Button{
					Label:    "Next Month →",
					Style:    discordgo.SecondaryButton,
					CustomID: banStatsPrefix + banstats.MonthKey(banstats.MonthStart(month).AddDate(0, 1, 0)),
				},
			},
		},
	}
}

func tagEmbed(tag string, content string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: tag, Description: content}
}

func tagListEmbed(page tags.Page, preview func(string) string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "Server Tags",
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d/%d", page.Index+1, page.Total)},
	}
	for _, tag := range page.Tags {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: tag.Name, Value: preview(tag.Content)})
	}
	return embed
}

func tagListComponents(page tags.Page) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: tagsPagePrefix + strconv.Itoa(page.Index-1),
					Disabled: !page.HasPrev(),
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					CustomID: tagsPagePrefix + strconv.Itoa(page.Index+1),
					Disabled: !page.HasNext(),
				},
			},
		},
	}
}

func infoEmbed(member *discordgo.Member, mutualGuilds []string) *discordgo.MessageEmbed {
	user := member.User
	description := "ID: " + user.ID
	if member.Nick != "" {
		description = fmt.Sprintf("AKA: %s, ID: %s", member.Nick, user.ID)
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Info for " + user.Username,
		Description: description,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
	}
	if created, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Created at", Value: fmt.Sprintf("<t:%d:f>", created.Unix())})
	}
	if !member.JoinedAt.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Joined at", Value: fmt.Sprintf("<t:%d:f>", member.JoinedAt.Unix())})
	}
	if len(mutualGuilds) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Seen on", Value: strings.Join(mutualGuilds, "\n")})
	}
	return embed
}

func aboutEmbed(color int, thumbnail string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Warden",
		Description: "Open-source moderation discord bot",
		Color:       color,
	}
	if thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: thumbnail}
	}
	return embed
}
