package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"warden-bot/internal/modules/antispam"
	"warden-bot/internal/modules/audit"
	"warden-bot/internal/modules/banstats"
	"warden-bot/internal/modules/purgelog"
	"warden-bot/internal/modules/tags"
	"warden-bot/internal/storage"
	"warden-bot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	defaultPurge = 10
	maxPurge     = 100
	maxMute      = 28 * 24 * time.Hour
	// messages older than this cannot be bulk deleted
	bulkDeleteMaxAge = 14 * 24 * time.Hour
)

var errNonPositiveMute = errors.New("mute duration must be positive")

var channelFields = map[string]string{
	channelTypeLog:         storage.FieldLogChannel,
	channelTypeActiveUsers: storage.FieldActiveUsersChannel,
	channelTypeTotalUsers:  storage.FieldTotalUsersChannel,
}

var imageFields = map[string]string{
	"ban":   storage.FieldBanImageURL,
	"unban": storage.FieldUnbanImageURL,
	"kick":  storage.FieldKickImageURL,
}

type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionsOf(data discordgo.ApplicationCommandInteractionData) commandOptions {
	options := make(commandOptions, len(data.Options))
	for _, opt := range data.Options {
		options[opt.Name] = opt
	}
	return options
}

func (o commandOptions) text(name string) string {
	if opt, ok := o[name]; ok {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

func (o commandOptions) number(name string, fallback int) int {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue())
	}
	return fallback
}

// id returns the raw snowflake of a user or channel option.
func (o commandOptions) id(name string) string {
	if opt, ok := o[name]; ok {
		if value, ok := opt.Value.(string); ok {
			return value
		}
	}
	return ""
}

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, session, interaction)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, session, interaction)
	}
}

func (b *Bot) handleCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	data := interaction.ApplicationCommandData()
	if data.Name == "about" {
		b.respondEmbed(session, interaction, aboutEmbed(b.cfg.EmbedColors.Info, b.cfg.Images.DefaultURL), false)
		return
	}
	if interaction.GuildID == "" || interaction.Member == nil || interaction.Member.User == nil {
		b.respond(session, interaction, "This command can only be used in a guild.", true)
		return
	}

	options := optionsOf(data)
	switch data.Name {
	case "ban":
		b.handleBan(ctx, session, interaction, data, options)
	case "kick":
		b.handleKick(ctx, session, interaction, data, options)
	case "unban":
		b.handleUnban(ctx, session, interaction, data, options)
	case "mute":
		b.handleMute(ctx, session, interaction, options)
	case "unmute":
		b.handleUnmute(ctx, session, interaction, options)
	case "purge":
		b.handlePurge(ctx, session, interaction, options)
	case "info":
		b.handleInfo(session, interaction, options)
	case "banstats":
		b.deferResponse(session, interaction)
		b.showBanStats(ctx, session, interaction, time.Now())
	case "tag":
		b.handleTag(ctx, session, interaction, options)
	case "set_tag":
		b.handleSetTag(ctx, session, interaction, options)
	case "delete_tag":
		b.handleDeleteTag(ctx, session, interaction, options)
	case "tags":
		b.handleTagList(ctx, session, interaction)
	case "set_channel":
		b.handleSetChannel(ctx, session, interaction, options)
	case "set_image_url":
		b.handleSetImageURL(ctx, session, interaction, options)
	}
}

func (b *Bot) handleComponent(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.GuildID == "" {
		return
	}
	customID := interaction.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, banStatsPrefix):
		month, err := banstats.ParseMonthKey(strings.TrimPrefix(customID, banStatsPrefix))
		if err != nil {
			b.respond(session, interaction, "Unknown month.", true)
			return
		}
		now := time.Now()
		if banstats.MonthStart(month).After(now) {
			b.respond(session, interaction, "Cannot view future months!", true)
			return
		}
		_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		b.showBanStats(ctx, session, interaction, month)
	case strings.HasPrefix(customID, tagsPagePrefix):
		index, err := strconv.Atoi(strings.TrimPrefix(customID, tagsPagePrefix))
		if err != nil {
			return
		}
		page, err := b.tags.List(ctx, interaction.GuildID, index)
		if err != nil {
			b.logger.Warn("list tags failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respondEmbed(session, interaction, b.errorEmbed("Could not load tags."), true)
			return
		}
		if page.Total == 0 {
			b.updateComponents(session, interaction, &discordgo.MessageEmbed{Title: "Server Tags", Description: "No tags found!"}, []discordgo.MessageComponent{})
			return
		}
		b.updateComponents(session, interaction, tagListEmbed(page, b.tags.Preview), tagListComponents(page))
	}
}

// targetUser resolves a user option, preferring the copy resolved with the interaction.
func (b *Bot) targetUser(data discordgo.ApplicationCommandInteractionData, options commandOptions) *discordgo.User {
	id := options.id("user")
	if id == "" {
		return nil
	}
	if data.Resolved != nil {
		if user, ok := data.Resolved.Users[id]; ok && user != nil {
			return user
		}
	}
	user, err := b.session.User(id)
	if err != nil {
		return &discordgo.User{ID: id}
	}
	return user
}

func (b *Bot) guildName(guildID string) string {
	if guild := b.guild(guildID); guild != nil {
		return guild.Name
	}
	return guildID
}

func (b *Bot) userName(guildID, userID string) string {
	if member := b.memberForUser(guildID, userID); member != nil && member.User != nil {
		return member.User.Username
	}
	if user, err := b.session.User(userID); err == nil && user != nil {
		return user.Username
	}
	return fmt.Sprintf("Unknown User (%s)", userID)
}

// sendDM notifies a user about an action taken against them. Closed DMs are expected.
func (b *Bot) sendDM(userID string, embed *discordgo.MessageEmbed) {
	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		b.logger.Debug("open dm failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if _, err := b.session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		b.logger.Debug("send dm failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (b *Bot) imageURL(ctx context.Context, guildID, kind string) string {
	settings, err := b.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		return b.cfg.Images.DefaultURL
	}
	return settings.ImageURL(kind, b.cfg.Images.DefaultURL)
}

func (b *Bot) actionFailed(session *discordgo.Session, interaction *discordgo.InteractionCreate, action string, err error) {
	b.logger.Warn(action+" failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
	if isForbidden(err) || errors.Is(err, antispam.ErrPermissionDenied) {
		b.respondEmbed(session, interaction, b.errorEmbed(fmt.Sprintf("I do not have permission to %s this user!", action)), true)
		return
	}
	b.respondEmbed(session, interaction, b.errorEmbed(fmt.Sprintf("Could not %s this user.", action)), true)
}

func (b *Bot) handleBan(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, options commandOptions) {
	target := b.targetUser(data, options)
	if target == nil {
		b.respond(session, interaction, "Unknown user.", true)
		return
	}
	if target.ID == b.botID {
		b.respond(session, interaction, "You cannot ban me!", true)
		return
	}
	moderator := interaction.Member.User
	reason := options.text("reason")

	b.sendDM(target.ID, directMessageEmbed(b.guildName(interaction.GuildID), audit.ActionBanned, reason))

	record := storage.BanRecord{
		GuildID:          interaction.GuildID,
		BannedUserID:     target.ID,
		ResponsibleModID: moderator.ID,
		BannedTime:       time.Now(),
	}
	if err := b.store.AddBan(ctx, record); err != nil {
		b.logger.Warn("record ban failed", zap.String("guild_id", interaction.GuildID), zap.String("user_id", target.ID), zap.Error(err))
	}
	if err := session.GuildBanCreateWithReason(interaction.GuildID, target.ID, fmt.Sprintf("By %s - %s", moderator.Username, orNone(reason)), 0); err != nil {
		b.actionFailed(session, interaction, "ban", err)
		return
	}

	b.respondEmbed(session, interaction, successEmbed(audit.ActionBanned, target.Username, b.imageURL(ctx, interaction.GuildID, "ban"), b.cfg.EmbedColors.Ban), false)
	b.audit.Log(ctx, audit.Entry{
		GuildID:     interaction.GuildID,
		Action:      audit.ActionBanned,
		TargetID:    target.ID,
		TargetName:  target.Username,
		ModeratorID: moderator.ID,
		Reason:      reason,
	})
}

func (b *Bot) handleKick(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, options commandOptions) {
	target := b.targetUser(data, options)
	if target == nil {
		b.respond(session, interaction, "Unknown user.", true)
		return
	}
	if target.ID == b.botID {
		b.respond(session, interaction, "You cannot kick me!", true)
		return
	}
	moderator := interaction.Member.User
	reason := options.text("reason")

	b.sendDM(target.ID, directMessageEmbed(b.guildName(interaction.GuildID), audit.ActionKicked, reason))

	if err := session.GuildMemberDeleteWithReason(interaction.GuildID, target.ID, reason); err != nil {
		if isUnknownMember(err) || isNotFound(err) {
			b.respond(session, interaction, "This user is not a member of this server!", true)
			return
		}
		b.actionFailed(session, interaction, "kick", err)
		return
	}

	b.respondEmbed(session, interaction, successEmbed(audit.ActionKicked, target.Username, b.imageURL(ctx, interaction.GuildID, "kick"), b.cfg.EmbedColors.Kick), false)
	b.audit.Log(ctx, audit.Entry{
		GuildID:     interaction.GuildID,
		Action:      audit.ActionKicked,
		TargetID:    target.ID,
		TargetName:  target.Username,
		ModeratorID: moderator.ID,
		Reason:      reason,
	})
}

func (b *Bot) handleUnban(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, options commandOptions) {
	target := b.targetUser(data, options)
	if target == nil {
		b.respond(session, interaction, "Unknown user.", true)
		return
	}
	moderator := interaction.Member.User
	reason := options.text("reason")

	if err := session.GuildBanDelete(interaction.GuildID, target.ID); err != nil {
		if isNotFound(err) {
			b.respondEmbed(session, interaction, &discordgo.MessageEmbed{Description: "This user is not banned!"}, false)
			return
		}
		b.actionFailed(session, interaction, "unban", err)
		return
	}

	b.respondEmbed(session, interaction, successEmbed(audit.ActionUnbanned, target.Username, b.imageURL(ctx, interaction.GuildID, "unban"), b.cfg.EmbedColors.Unban), false)
	b.audit.Log(ctx, audit.Entry{
		GuildID:     interaction.GuildID,
		Action:      audit.ActionUnbanned,
		TargetID:    target.ID,
		TargetName:  target.Username,
		ModeratorID: moderator.ID,
		Reason:      reason,
	})
}

// muteLength reads the time option. Input that is not a duration belongs to the reason.
func muteLength(raw, reason string) (d time.Duration, indefinite bool, fullReason string, err error) {
	fullReason = reason
	if raw != "" {
		parsed, parseErr := utils.ParseDuration(raw)
		if parseErr != nil {
			fullReason = strings.TrimSpace(raw + " " + reason)
		} else {
			if parsed <= 0 {
				return 0, false, reason, errNonPositiveMute
			}
			if parsed > maxMute {
				parsed = maxMute
			}
			return parsed, false, fullReason, nil
		}
	}
	return maxMute, true, fullReason, nil
}

func (b *Bot) handleMute(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	userID := options.id("user")
	if userID == b.botID {
		b.respond(session, interaction, "You cannot mute me!", true)
		return
	}
	member := b.memberForUser(interaction.GuildID, userID)
	if member == nil || member.User == nil {
		b.respond(session, interaction, "This user is not a member of this server!", true)
		return
	}
	moderator := interaction.Member.User

	d, indefinite, reason, err := muteLength(options.text("time"), options.text("reason"))
	if err != nil {
		b.respond(session, interaction, "The amount of time to mute for must be positive!", true)
		return
	}
	if err := b.gateway.ApplyTimeout(ctx, interaction.GuildID, userID, d); err != nil {
		b.actionFailed(session, interaction, "mute", err)
		return
	}

	b.respondEmbed(session, interaction, muteAnnouncement(userID, d, indefinite, reason, b.cfg.EmbedColors.Mute), false)
	b.audit.Log(ctx, audit.Entry{
		GuildID:     interaction.GuildID,
		Action:      audit.ActionMuted,
		TargetID:    userID,
		TargetName:  member.User.Username,
		ModeratorID: moderator.ID,
		Reason:      reason,
		Duration:    d,
		Indefinite:  indefinite,
	})
}

func (b *Bot) handleUnmute(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	userID := options.id("user")
	if userID == b.botID {
		b.respond(session, interaction, "You cannot unmute me!", true)
		return
	}
	member := b.memberForUser(interaction.GuildID, userID)
	if member == nil || member.User == nil {
		b.respond(session, interaction, "This user is not a member of this server!", true)
		return
	}
	if member.CommunicationDisabledUntil == nil || !member.CommunicationDisabledUntil.After(time.Now()) {
		b.respond(session, interaction, "This user is not muted!", true)
		return
	}
	if err := session.GuildMemberTimeout(interaction.GuildID, userID, nil); err != nil {
		b.actionFailed(session, interaction, "unmute", err)
		return
	}

	b.respondEmbed(session, interaction, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Unmuted <@%s>.", userID),
		Color:       b.cfg.EmbedColors.Unban,
	}, false)
	b.audit.Log(ctx, audit.Entry{
		GuildID:     interaction.GuildID,
		Action:      audit.ActionUnmuted,
		TargetID:    userID,
		TargetName:  member.User.Username,
		ModeratorID: interaction.Member.User.ID,
	})
}

func (b *Bot) handlePurge(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	amount := options.number("amount", defaultPurge)
	if amount <= 0 {
		b.respond(session, interaction, "The amount of messages to purge must be positive.", true)
		return
	}
	if amount > maxPurge {
		amount = maxPurge
	}
	b.deferResponse(session, interaction)

	messages, err := session.ChannelMessages(interaction.ChannelID, amount, "", "", "")
	if err != nil {
		b.logger.Warn("fetch messages for purge failed", zap.String("channel_id", interaction.ChannelID), zap.Error(err))
		b.editResponse(session, interaction, b.errorEmbed("Could not read messages in this channel."), nil)
		return
	}

	deleted := b.deleteMessages(interaction.ChannelID, messages)
	entries := make([]purgelog.Entry, 0, len(deleted))
	for _, msg := range deleted {
		entry := purgelog.Entry{ID: msg.ID, Content: msg.Content, CreatedAt: msg.Timestamp}
		if msg.Author != nil {
			entry.AuthorName = msg.Author.Username
		}
		entries = append(entries, entry)
	}

	channelName := interaction.ChannelID
	if channel, err := session.State.Channel(interaction.ChannelID); err == nil && channel != nil {
		channelName = channel.Name
	}
	logURL := ""
	if name, err := b.purgeLogs.Write(b.guildName(interaction.GuildID), channelName, entries, time.Now()); err != nil {
		b.logger.Warn("write purge log failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
	} else {
		logURL = b.purgeLogs.Link(name)
	}

	b.editResponse(session, interaction, &discordgo.MessageEmbed{
		Title:       "Purged messages",
		Description: fmt.Sprintf("Deleted %d messages.", len(deleted)),
	}, nil)
	b.audit.Log(ctx, audit.Entry{
		GuildID:     interaction.GuildID,
		Action:      audit.ActionPurged,
		ModeratorID: interaction.Member.User.ID,
		Count:       len(deleted),
		ChannelID:   interaction.ChannelID,
		LogURL:      logURL,
	})
}

// deleteMessages bulk deletes what it can and removes older messages one by one.
// It returns the messages that are gone.
func (b *Bot) deleteMessages(channelID string, messages []*discordgo.Message) []*discordgo.Message {
	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	var recent, old []*discordgo.Message
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		if msg.Timestamp.After(cutoff) {
			recent = append(recent, msg)
		} else {
			old = append(old, msg)
		}
	}

	var deleted []*discordgo.Message
	if len(recent) > 0 {
		ids := make([]string, 0, len(recent))
		for _, msg := range recent {
			ids = append(ids, msg.ID)
		}
		if err := b.session.ChannelMessagesBulkDelete(channelID, ids); err != nil {
			b.logger.Warn("bulk delete failed", zap.String("channel_id", channelID), zap.Error(err))
		} else {
			deleted = append(deleted, recent...)
		}
	}
	for _, msg := range old {
		if err := b.session.ChannelMessageDelete(channelID, msg.ID); err != nil {
			b.logger.Debug("delete message failed", zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}
		deleted = append(deleted, msg)
	}
	return deleted
}

func (b *Bot) handleInfo(session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	userID := options.id("user")
	member := b.memberForUser(interaction.GuildID, userID)
	if member == nil || member.User == nil {
		b.respond(session, interaction, "This user is not a member of this server!", true)
		return
	}

	var mutual []string
	if session.State != nil {
		for _, guild := range session.State.Guilds {
			if guild == nil {
				continue
			}
			if _, err := session.State.Member(guild.ID, userID); err == nil {
				mutual = append(mutual, guild.Name)
			}
		}
	}
	b.respondEmbed(session, interaction, infoEmbed(member, mutual), false)
}

// showBanStats reconciles the month containing month and edits the deferred response.
func (b *Bot) showBanStats(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, month time.Time) {
	after, before := banstats.MonthWindow(month, time.Now())
	result, err := b.banstats.Reconcile(ctx, interaction.GuildID, before, after)
	if err != nil && !errors.Is(err, banstats.ErrInvalidWindow) {
		b.logger.Warn("ban stats failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.editResponse(session, interaction, b.errorEmbed("Could not read the audit log."), nil)
		return
	}
	name := func(id string) string {
		return b.userName(interaction.GuildID, id)
	}
	b.editResponse(session, interaction, banStatsEmbed(result, after, before, name, b.cfg.EmbedColors.Unban), banStatsComponents(month))
}

func (b *Bot) handleTag(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	name := options.text("name")
	tag, err := b.tags.Get(ctx, interaction.GuildID, name)
	if err != nil {
		if errors.Is(err, tags.ErrNotFound) {
			b.respond(session, interaction, fmt.Sprintf("Tag `%s` not found!", name), true)
			return
		}
		b.logger.Warn("get tag failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respondEmbed(session, interaction, b.errorEmbed("Could not load the tag."), true)
		return
	}
	b.respondEmbed(session, interaction, tagEmbed(tag.Name, tag.Content), false)
}

func (b *Bot) handleSetTag(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	name := options.text("name")
	if err := b.tags.Set(ctx, interaction.GuildID, name, options.text("content")); err != nil {
		switch {
		case errors.Is(err, tags.ErrContentTooLong):
			b.respond(session, interaction, "Tag content is too long!", true)
		case errors.Is(err, tags.ErrEmptyName):
			b.respond(session, interaction, "Tag name cannot be empty!", true)
		default:
			b.logger.Warn("set tag failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respondEmbed(session, interaction, b.errorEmbed("Could not save the tag."), true)
		}
		return
	}
	b.respond(session, interaction, fmt.Sprintf("Successfully set tag `%s`", name), false)
}

func (b *Bot) handleDeleteTag(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	name := options.text("name")
	if err := b.tags.Delete(ctx, interaction.GuildID, name); err != nil {
		if errors.Is(err, tags.ErrNotFound) {
			b.respond(session, interaction, fmt.Sprintf("Tag `%s` not found!", name), true)
			return
		}
		b.logger.Warn("delete tag failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respondEmbed(session, interaction, b.errorEmbed("Could not delete the tag."), true)
		return
	}
	b.respond(session, interaction, fmt.Sprintf("Successfully deleted tag `%s`", name), false)
}

func (b *Bot) handleTagList(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	page, err := b.tags.List(ctx, interaction.GuildID, 0)
	if err != nil {
		b.logger.Warn("list tags failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respondEmbed(session, interaction, b.errorEmbed("Could not load tags."), true)
		return
	}
	if page.Total == 0 {
		b.respond(session, interaction, "No tags found!", true)
		return
	}
	b.respondComponents(session, interaction, tagListEmbed(page, b.tags.Preview), tagListComponents(page), false)
}

func (b *Bot) handleSetChannel(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	kind := options.text("type")
	field, ok := channelFields[kind]
	if !ok {
		b.respond(session, interaction, "Unknown channel type.", true)
		return
	}
	channelID := options.id("channel")
	if err := b.store.SetConfigField(ctx, interaction.GuildID, field, channelID); err != nil {
		b.logger.Warn("set channel failed", zap.String("guild_id", interaction.GuildID), zap.String("field", field), zap.Error(err))
		b.respondEmbed(session, interaction, b.errorEmbed("Could not save the setting."), true)
		return
	}
	if channelID == "" {
		b.respond(session, interaction, fmt.Sprintf("Successfully disabled %s channel", kind), true)
		return
	}
	b.respond(session, interaction, fmt.Sprintf("Successfully set %s channel to <#%s>", kind, channelID), true)
}

func (b *Bot) handleSetImageURL(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions) {
	kind := options.text("type")
	field, ok := imageFields[kind]
	if !ok {
		b.respond(session, interaction, "Unknown image type.", true)
		return
	}
	url := options.text("url")
	if err := b.store.SetConfigField(ctx, interaction.GuildID, field, url); err != nil {
		b.logger.Warn("set image url failed", zap.String("guild_id", interaction.GuildID), zap.String("field", field), zap.Error(err))
		b.respondEmbed(session, interaction, b.errorEmbed("Could not save the setting."), true)
		return
	}
	if url == "" {
		b.respond(session, interaction, fmt.Sprintf("Successfully set %s image URL to default", kind), true)
		return
	}
	b.respond(session, interaction, fmt.Sprintf("Successfully set %s image URL to %s", kind, url), true)
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}
