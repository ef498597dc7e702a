package eventlog

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"warden-bot/internal/metrics"
	"warden-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const maxQuotedRunes = 1000

type MessageStore interface {
	RecordMessage(ctx context.Context, msg storage.LoggedMessage) error
	GetMessage(ctx context.Context, messageID string) (storage.LoggedMessage, error)
	DeleteMessage(ctx context.Context, messageID string) error
}

type cachedMessage struct {
	message    storage.LoggedMessage
	authorName string
}

type memberSnapshot struct {
	username     string
	nick         string
	roles        []string
	timeoutUntil time.Time
}

type channelSnapshot struct {
	name     string
	parentID string
	position int
}

type roleSnapshot struct {
	name        string
	permissions int64
}

// Log turns gateway events into log channel embeds. It remembers recent
// messages and the last known state of members, channels and roles so
// updates can be shown as before and after.
type Log struct {
	store    MessageStore
	logger   *zap.Logger
	messages *lru.Cache[string, cachedMessage]
	members  *lru.Cache[string, memberSnapshot]
	channels *lru.Cache[string, channelSnapshot]
	roles    *lru.Cache[string, roleSnapshot]
}

func New(store MessageStore, size int, logger *zap.Logger) (*Log, error) {
	messages, err := lru.New[string, cachedMessage](size)
	if err != nil {
		return nil, err
	}
	members, err := lru.New[string, memberSnapshot](size)
	if err != nil {
		return nil, err
	}
	channels, err := lru.New[string, channelSnapshot](size)
	if err != nil {
		return nil, err
	}
	roles, err := lru.New[string, roleSnapshot](size)
	if err != nil {
		return nil, err
	}
	return &Log{
		store:    store,
		logger:   logger,
		messages: messages,
		members:  members,
		channels: channels,
		roles:    roles,
	}, nil
}

// SeedGuild records the current channels, roles and members of guild.
func (l *Log) SeedGuild(guild *discordgo.Guild) {
	if guild == nil {
		return
	}
	for _, channel := range guild.Channels {
		l.rememberChannel(channel)
	}
	for _, role := range guild.Roles {
		l.rememberRole(guild.ID, role)
	}
	for _, member := range guild.Members {
		if member.User == nil {
			continue
		}
		if member.GuildID == "" {
			member.GuildID = guild.ID
		}
		l.members.Add(memberKey(member.GuildID, member.User.ID), snapshotMember(member))
	}
}

func (l *Log) RecordMessage(ctx context.Context, msg storage.LoggedMessage, authorName string) {
	l.messages.Add(msg.ID, cachedMessage{message: msg, authorName: authorName})
	metrics.MessagesCached.Inc()
	if err := l.store.RecordMessage(ctx, msg); err != nil {
		l.logger.Warn("message record failed", zap.String("guild_id", msg.GuildID), zap.String("message_id", msg.ID), zap.Error(err))
	}
}

func (l *Log) MessageDeleted(ctx context.Context, messageID string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Message deleted"}
	defer func() {
		if err := l.store.DeleteMessage(ctx, messageID); err != nil {
			l.logger.Warn("message delete failed", zap.String("message_id", messageID), zap.Error(err))
		}
	}()

	if cached, ok := l.messages.Peek(messageID); ok {
		l.messages.Remove(messageID)
		embed.Description = fmt.Sprintf("By %s\n%s", userString(cached.message.AuthorID, cached.authorName), quote(cached.message.Content))
		return embed
	}

	stored, err := l.store.GetMessage(ctx, messageID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logger.Warn("message lookup failed", zap.String("message_id", messageID), zap.Error(err))
		}
		embed.Description = fmt.Sprintf("Message ID: %s\nMessage not in cache, and therefore can not be logged!", messageID)
		return embed
	}
	embed.Description = fmt.Sprintf("Message ID: %s\nBy <@%s>\nKnown contents:\n%s\nMessage was stored in DB, not in cache - bot went offline between message posting and message deleting",
		messageID, stored.AuthorID, quote(stored.Content))
	return embed
}

// MessageEdited records the new content and returns nil when the text did not change.
func (l *Log) MessageEdited(ctx context.Context, after storage.LoggedMessage, authorName string) *discordgo.MessageEmbed {
	before := "(unknown)"
	if cached, ok := l.messages.Peek(after.ID); ok {
		before = cached.message.Content
		if after.CreatedAt.IsZero() {
			after.CreatedAt = cached.message.CreatedAt
		}
	} else if stored, err := l.store.GetMessage(ctx, after.ID); err == nil {
		before = stored.Content
		if after.CreatedAt.IsZero() {
			after.CreatedAt = stored.CreatedAt
		}
	}
	l.RecordMessage(ctx, after, authorName)

	if before == after.Content {
		return nil
	}
	return &discordgo.MessageEmbed{
		Title:       "Message edited",
		Description: fmt.Sprintf("Message edited by %s in <#%s>\n%s\n->\n%s", userString(after.AuthorID, authorName), after.ChannelID, quote(before), quote(after.Content)),
	}
}

func MemberJoined(user *discordgo.User) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Member joined",
		Description: userString(user.ID, user.Username),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
	}
	if created, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Account created", Value: fmt.Sprintf("<t:%d:f>", created.Unix())})
	}
	return embed
}

func (l *Log) MemberLeft(guildID string, user *discordgo.User) *discordgo.MessageEmbed {
	l.members.Remove(memberKey(guildID, user.ID))
	return &discordgo.MessageEmbed{
		Title:       "Member left",
		Description: userString(user.ID, user.Username),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
	}
}

// MemberBanned builds the ban embed; reason and moderatorID come from the audit log and may be empty.
func MemberBanned(user *discordgo.User, reason, moderatorID string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Member banned",
		Description: userString(user.ID, user.Username),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
	}
	if moderatorID != "" {
		if reason == "" {
			reason = "(none)"
		}
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Ban reason", Value: reason, Inline: true},
			&discordgo.MessageEmbedField{Name: "Responsible mod", Value: fmt.Sprintf("<@%s>", moderatorID), Inline: true},
		)
	}
	return embed
}

// MemberUpdated compares member with its last known state. The first update
// seen for an unknown member only records it.
func (l *Log) MemberUpdated(member *discordgo.Member, now time.Time) []*discordgo.MessageEmbed {
	if member == nil || member.User == nil {
		return nil
	}
	key := memberKey(member.GuildID, member.User.ID)
	after := snapshotMember(member)
	before, ok := l.members.Get(key)
	l.members.Add(key, after)
	if !ok {
		return nil
	}

	who := "User: " + userString(member.User.ID, member.User.Username)
	thumbnail := &discordgo.MessageEmbedThumbnail{URL: member.User.AvatarURL("")}
	var embeds []*discordgo.MessageEmbed

	if before.username != after.username {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       "Username updated",
			Description: who,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Old username", Value: orNone(before.username), Inline: true},
				{Name: "New username", Value: orNone(after.username), Inline: true},
			},
		})
	}
	if before.nick != after.nick {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       "Nickname updated",
			Description: who,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Old nickname", Value: orNone(before.nick), Inline: true},
				{Name: "New nickname", Value: orNone(after.nick), Inline: true},
			},
		})
	}
	if !sameRoles(before.roles, after.roles) {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       "Roles updated",
			Description: who,
			Thumbnail:   thumbnail,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Old roles", Value: orNone(l.roleNames(member.GuildID, before.roles)), Inline: true},
				{Name: "New roles", Value: orNone(l.roleNames(member.GuildID, after.roles)), Inline: true},
			},
		})
	}
	if !before.timeoutUntil.Equal(after.timeoutUntil) {
		embed := &discordgo.MessageEmbed{Title: "Timeout updated", Description: who, Thumbnail: thumbnail}
		if before.timeoutUntil.After(now) {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Old timeout", Value: fmt.Sprintf("Until <t:%d:f>", before.timeoutUntil.Unix()), Inline: true})
		}
		if after.timeoutUntil.After(now) {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "New timeout", Value: fmt.Sprintf("Until <t:%d:f>", after.timeoutUntil.Unix()), Inline: true})
		} else {
			embed.Title = "Timeout removed"
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

func (l *Log) ChannelCreated(channel *discordgo.Channel) *discordgo.MessageEmbed {
	l.rememberChannel(channel)
	embed := &discordgo.MessageEmbed{
		Title:       "Channel created",
		Description: fmt.Sprintf("Channel: %s (%s, <#%s>)", channel.Name, channel.ID, channel.ID),
	}
	if category := l.channelName(channel.ParentID); category != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Category", Value: category})
	}
	return embed
}

func (l *Log) ChannelDeleted(channel *discordgo.Channel) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Channel deleted",
		Description: fmt.Sprintf("Channel: %s (%s)", channel.Name, channel.ID),
	}
	if category := l.channelName(channel.ParentID); category != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Category", Value: category})
	}
	l.channels.Remove(channel.ID)
	return embed
}

// ChannelUpdated returns nil when none of the tracked attributes changed.
func (l *Log) ChannelUpdated(channel *discordgo.Channel) *discordgo.MessageEmbed {
	before, ok := l.channels.Get(channel.ID)
	l.rememberChannel(channel)
	if !ok {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Channel updated",
		Description: fmt.Sprintf("Channel: %s (%s, <#%s>)", channel.Name, channel.ID, channel.ID),
	}
	if before.name != channel.Name {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Old name", Value: before.name})
	}
	if before.parentID != channel.ParentID {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Category",
			Value: fmt.Sprintf("%s -> %s", orNone(l.channelName(before.parentID)), orNone(l.channelName(channel.ParentID))),
		})
	}
	if before.position != channel.Position {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Position", Value: fmt.Sprintf("%d -> %d", before.position, channel.Position)})
	}
	if len(embed.Fields) == 0 {
		return nil
	}
	return embed
}

func (l *Log) RoleCreated(guildID string, role *discordgo.Role) *discordgo.MessageEmbed {
	l.rememberRole(guildID, role)
	return &discordgo.MessageEmbed{
		Title:       "Role created",
		Description: fmt.Sprintf("Role: %s (%s)", role.Name, role.ID),
	}
}

func (l *Log) RoleDeleted(guildID, roleID string) *discordgo.MessageEmbed {
	name := "(unknown)"
	if snapshot, ok := l.roles.Peek(roleKey(guildID, roleID)); ok {
		name = snapshot.name
	}
	l.roles.Remove(roleKey(guildID, roleID))
	return &discordgo.MessageEmbed{
		Title:       "Role deleted",
		Description: fmt.Sprintf("Role: %s (%s)", name, roleID),
	}
}

// RoleUpdated returns nil when neither the name nor the permissions changed.
func (l *Log) RoleUpdated(guildID string, role *discordgo.Role) *discordgo.MessageEmbed {
	before, ok := l.roles.Get(roleKey(guildID, role.ID))
	l.rememberRole(guildID, role)
	if !ok {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Role updated",
		Description: fmt.Sprintf("Role: %s (%s)", role.Name, role.ID),
	}
	if before.name != role.Name {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Old name", Value: before.name})
	}
	embed.Fields = append(embed.Fields, permissionChanges(before.permissions, role.Permissions)...)
	if len(embed.Fields) == 0 {
		return nil
	}
	return embed
}

func (l *Log) rememberChannel(channel *discordgo.Channel) {
	if channel == nil {
		return
	}
	l.channels.Add(channel.ID, channelSnapshot{name: channel.Name, parentID: channel.ParentID, position: channel.Position})
}

func (l *Log) rememberRole(guildID string, role *discordgo.Role) {
	if role == nil {
		return
	}
	l.roles.Add(roleKey(guildID, role.ID), roleSnapshot{name: role.Name, permissions: role.Permissions})
}

func (l *Log) channelName(channelID string) string {
	if channelID == "" {
		return ""
	}
	if snapshot, ok := l.channels.Peek(channelID); ok {
		return snapshot.name
	}
	return channelID
}

func (l *Log) roleNames(guildID string, roleIDs []string) string {
	names := ""
	for _, roleID := range roleIDs {
		if names != "" {
			names += ", "
		}
		if snapshot, ok := l.roles.Peek(roleKey(guildID, roleID)); ok {
			names += snapshot.name
		} else {
			names += "<@&" + roleID + ">"
		}
	}
	return names
}

func snapshotMember(member *discordgo.Member) memberSnapshot {
	snapshot := memberSnapshot{nick: member.Nick, roles: append([]string(nil), member.Roles...)}
	if member.User != nil {
		snapshot.username = member.User.Username
	}
	if member.CommunicationDisabledUntil != nil {
		snapshot.timeoutUntil = *member.CommunicationDisabledUntil
	}
	return snapshot
}

func sameRoles(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}

func memberKey(guildID, userID string) string {
	return guildID + ":" + userID
}

func roleKey(guildID, roleID string) string {
	return guildID + ":" + roleID
}

func userString(id, name string) string {
	if name == "" {
		return fmt.Sprintf("<@%s> (%s)", id, id)
	}
	return fmt.Sprintf("<@%s> (%s - %s)", id, name, id)
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}

func quote(content string) string {
	if utf8.RuneCountInString(content) > maxQuotedRunes {
		content = string([]rune(content)[:maxQuotedRunes]) + "..."
	}
	return "```\n" + content + "\n```"
}
