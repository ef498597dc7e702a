package bot

import (
	"context"
	"errors"
	"time"

	"warden-bot/internal/modules/antispam"
	"warden-bot/internal/modules/eventlog"
	"warden-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username), zap.Int("guilds", len(event.Guilds)))
}

func (b *Bot) onGuildCreate(session *discordgo.Session, event *discordgo.GuildCreate) {
	if event.Guild == nil {
		return
	}
	if err := b.store.InitGuild(context.Background(), event.ID); err != nil {
		b.logger.Warn("init guild failed", zap.String("guild_id", event.ID), zap.Error(err))
	}
	b.events.SeedGuild(event.Guild)
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot {
		return
	}
	if msg.GuildID == "" {
		return
	}

	ctx := context.Background()
	b.events.RecordMessage(ctx, loggedMessage(msg.Message), msg.Author.Username)
	b.activity.Touch(msg.GuildID, msg.Author.ID, time.Now())

	candidate := antispam.Message{
		ID:             msg.ID,
		GuildID:        msg.GuildID,
		ChannelID:      msg.ChannelID,
		AuthorID:       msg.Author.ID,
		AuthorIsMember: msg.Member != nil,
		Content:        msg.Content,
		CreatedAt:      msg.Timestamp,
	}
	if msg.Member != nil {
		member := *msg.Member
		member.User = msg.Author
		candidate.AuthorIsAdmin = memberHasAdmin(b.guild(msg.GuildID), &member)
	}
	for _, attachment := range msg.Attachments {
		if attachment != nil {
			candidate.Attachments = append(candidate.Attachments, attachment.Filename)
		}
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now()
	}

	verdict, err := b.antispam.Evaluate(ctx, candidate)
	if err != nil {
		b.logger.Warn("antispam evaluation failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return
	}
	if verdict.Suspicious {
		b.logger.Debug("suspicious message",
			zap.String("guild_id", msg.GuildID),
			zap.String("user_id", msg.Author.ID),
			zap.Int("count", verdict.Count),
			zap.Bool("muted", verdict.Muted),
		)
	}
}

func (b *Bot) onMessageUpdate(session *discordgo.Session, event *discordgo.MessageUpdate) {
	if event.Message == nil || event.GuildID == "" || event.Author == nil || event.Author.Bot {
		return
	}
	ctx := context.Background()
	b.sendLog(ctx, event.GuildID, b.events.MessageEdited(ctx, loggedMessage(event.Message), event.Author.Username))
}

func (b *Bot) onMessageDelete(session *discordgo.Session, event *discordgo.MessageDelete) {
	if event.Message == nil || event.GuildID == "" {
		return
	}
	ctx := context.Background()
	b.sendLog(ctx, event.GuildID, b.events.MessageDeleted(ctx, event.ID))
}

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	if event.Member == nil || event.User == nil {
		return
	}
	b.sendLog(context.Background(), event.GuildID, eventlog.MemberJoined(event.User))
}

func (b *Bot) onGuildMemberRemove(session *discordgo.Session, event *discordgo.GuildMemberRemove) {
	if event.Member == nil || event.User == nil {
		return
	}
	b.sendLog(context.Background(), event.GuildID, b.events.MemberLeft(event.GuildID, event.User))
}

func (b *Bot) onGuildMemberUpdate(session *discordgo.Session, event *discordgo.GuildMemberUpdate) {
	if event.Member == nil {
		return
	}
	ctx := context.Background()
	for _, embed := range b.events.MemberUpdated(event.Member, time.Now()) {
		b.sendLog(ctx, event.GuildID, embed)
	}
}

// onGuildBanAdd logs the ban with whatever the audit log knows about it.
func (b *Bot) onGuildBanAdd(session *discordgo.Session, event *discordgo.GuildBanAdd) {
	if event.User == nil {
		return
	}
	var reason, moderatorID string
	if entry, ok := b.gateway.latestBan(event.GuildID, event.User.ID, banEventMaxAge); ok {
		reason = entry.Reason
		moderatorID = entry.UserID
	}
	b.sendLog(context.Background(), event.GuildID, eventlog.MemberBanned(event.User, reason, moderatorID))
}

func (b *Bot) onChannelCreate(session *discordgo.Session, event *discordgo.ChannelCreate) {
	if event.Channel == nil || event.GuildID == "" {
		return
	}
	b.sendLog(context.Background(), event.GuildID, b.events.ChannelCreated(event.Channel))
}

func (b *Bot) onChannelDelete(session *discordgo.Session, event *discordgo.ChannelDelete) {
	if event.Channel == nil || event.GuildID == "" {
		return
	}
	b.sendLog(context.Background(), event.GuildID, b.events.ChannelDeleted(event.Channel))
}

func (b *Bot) onChannelUpdate(session *discordgo.Session, event *discordgo.ChannelUpdate) {
	if event.Channel == nil || event.GuildID == "" {
		return
	}
	b.sendLog(context.Background(), event.GuildID, b.events.ChannelUpdated(event.Channel))
}

func (b *Bot) onRoleCreate(session *discordgo.Session, event *discordgo.GuildRoleCreate) {
	if event.GuildRole == nil || event.Role == nil {
		return
	}
	b.sendLog(context.Background(), event.GuildID, b.events.RoleCreated(event.GuildID, event.Role))
}

func (b *Bot) onRoleDelete(session *discordgo.Session, event *discordgo.GuildRoleDelete) {
	b.sendLog(context.Background(), event.GuildID, b.events.RoleDeleted(event.GuildID, event.RoleID))
}

func (b *Bot) onRoleUpdate(session *discordgo.Session, event *discordgo.GuildRoleUpdate) {
	if event.GuildRole == nil || event.Role == nil {
		return
	}
	b.sendLog(context.Background(), event.GuildID, b.events.RoleUpdated(event.GuildID, event.Role))
}

func loggedMessage(msg *discordgo.Message) storage.LoggedMessage {
	logged := storage.LoggedMessage{
		ID:        msg.ID,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
		CreatedAt: msg.Timestamp,
	}
	if msg.Author != nil {
		logged.AuthorID = msg.Author.ID
	}
	return logged
}

func isUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMember
}
