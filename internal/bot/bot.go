package bot

import (
	"context"
	"time"

	"warden-bot/internal/config"
	"warden-bot/internal/modules/activity"
	"warden-bot/internal/modules/antispam"
	"warden-bot/internal/modules/audit"
	"warden-bot/internal/modules/banstats"
	"warden-bot/internal/modules/eventlog"
	"warden-bot/internal/modules/purgelog"
	"warden-bot/internal/modules/tags"
	"warden-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const banEventMaxAge = 30 * time.Second

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *storage.Store
	audit     *audit.Logger
	session   *discordgo.Session
	gateway   *discordGateway
	antispam  *antispam.Registry
	banstats  *banstats.Reconciler
	tags      *tags.Service
	activity  *activity.Tracker
	events    *eventlog.Log
	purgeLogs *purgelog.Writer
	botID     string
	stop      chan struct{}
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, auditLogger *audit.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsMessageContent

	self, err := session.User("@me")
	if err != nil {
		return nil, err
	}

	events, err := eventlog.New(store, cfg.MessageCacheSize, logger.Named("eventlog"))
	if err != nil {
		return nil, err
	}

	gateway := &discordGateway{session: session}
	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		audit:     auditLogger,
		session:   session,
		gateway:   gateway,
		antispam:  antispam.NewRegistry(antispam.NewConfig(cfg.Antispam, cfg.EmbedColors.Mute), gateway, logger.Named("antispam")),
		banstats:  banstats.NewReconciler(self.ID, gateway, store, cfg.BanStats.MatchTolerance(), logger.Named("banstats")),
		tags:      tags.New(store, cfg.Tags),
		activity:  activity.NewTracker(cfg.Activity.Window()),
		events:    events,
		purgeLogs: purgelog.New(cfg.Purge.LogsDir, cfg.Purge.URLPrepend),
		botID:     self.ID,
		stop:      make(chan struct{}),
	}

	if b.audit != nil {
		b.audit.SetNotifier(func(ctx context.Context, entry audit.Entry) {
			b.sendLog(ctx, entry.GuildID, audit.Embed(entry, b.actionColor(entry.Action)))
		})
	}

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onGuildCreate)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onMessageUpdate)
	b.session.AddHandler(b.onMessageDelete)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onGuildMemberRemove)
	b.session.AddHandler(b.onGuildMemberUpdate)
	b.session.AddHandler(b.onGuildBanAdd)
	b.session.AddHandler(b.onChannelCreate)
	b.session.AddHandler(b.onChannelDelete)
	b.session.AddHandler(b.onChannelUpdate)
	b.session.AddHandler(b.onRoleCreate)
	b.session.AddHandler(b.onRoleDelete)
	b.session.AddHandler(b.onRoleUpdate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	b.startActivityRefresher()
	b.startMessagePruner()

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	close(b.stop)
	if b.session != nil {
		_ = b.session.Close()
	}
}

// startActivityRefresher renames the counter channels of every guild on a fixed interval.
func (b *Bot) startActivityRefresher() {
	go func() {
		ticker := time.NewTicker(b.cfg.Activity.RefreshInterval())
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				b.refreshCounters(context.Background())
			}
		}
	}()
}

func (b *Bot) refreshCounters(ctx context.Context) {
	if b.session.State == nil {
		return
	}
	now := time.Now()
	for _, guild := range b.session.State.Guilds {
		if guild == nil {
			continue
		}
		settings, err := b.store.GetGuildConfig(ctx, guild.ID)
		if err != nil {
			b.logger.Warn("load guild config failed", zap.String("guild_id", guild.ID), zap.Error(err))
			continue
		}
		if settings.ActiveUsersChannel != "" {
			b.renameChannel(settings.ActiveUsersChannel, activity.ActiveChannelName(b.activity.Active(guild.ID, now)))
		}
		if settings.TotalUsersChannel != "" {
			b.renameChannel(settings.TotalUsersChannel, activity.TotalChannelName(guild.MemberCount))
		}
	}
}

func (b *Bot) renameChannel(channelID, name string) {
	if _, err := b.session.ChannelEditComplex(channelID, &discordgo.ChannelEdit{Name: name}); err != nil {
		b.logger.Warn("rename counter channel failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

// startMessagePruner drops stored message copies older than the retention period once a day.
func (b *Bot) startMessagePruner() {
	go func() {
		b.pruneMessages(context.Background())
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				b.pruneMessages(context.Background())
			}
		}
	}()
}

func (b *Bot) pruneMessages(ctx context.Context) {
	removed, err := b.store.PruneMessages(ctx, time.Now().Add(-b.cfg.MessageRetention()))
	if err != nil {
		b.logger.Warn("prune messages failed", zap.Error(err))
		return
	}
	if removed > 0 {
		b.logger.Info("pruned stored messages", zap.Int64("count", removed))
	}
}

func (b *Bot) memberForUser(guildID, userID string) *discordgo.Member {
	member, err := b.session.State.Member(guildID, userID)
	if err == nil && member != nil {
		return member
	}
	member, _ = b.session.GuildMember(guildID, userID)
	return member
}

func (b *Bot) guild(guildID string) *discordgo.Guild {
	guild, err := b.session.State.Guild(guildID)
	if err == nil && guild != nil {
		return guild
	}
	guild, _ = b.session.Guild(guildID)
	return guild
}

func memberHasAdmin(guild *discordgo.Guild, member *discordgo.Member) bool {
	if guild == nil || member == nil {
		return false
	}
	if member.User != nil && member.User.ID == guild.OwnerID {
		return true
	}
	perms := int64(0)
	roleMap := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, role := range guild.Roles {
		roleMap[role.ID] = role
		if role.ID == guild.ID {
			perms |= role.Permissions
		}
	}
	for _, roleID := range member.Roles {
		if role := roleMap[roleID]; role != nil {
			perms |= role.Permissions
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

// sendLog posts embed to the guild's configured log channel, if any.
func (b *Bot) sendLog(ctx context.Context, guildID string, embed *discordgo.MessageEmbed) {
	if embed == nil || guildID == "" {
		return
	}
	settings, err := b.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		b.logger.Warn("load guild config failed", zap.String("guild_id", guildID), zap.Error(err))
		return
	}
	if settings.LogChannel == "" {
		return
	}
	if err := b.gateway.SendEmbed(ctx, settings.LogChannel, embed); err != nil {
		b.logger.Warn("send log embed failed", zap.String("guild_id", guildID), zap.Error(err))
	}
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	b.respondComponents(session, interaction, embed, nil, ephemeral)
}

func (b *Bot) respondComponents(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) {
	if embed == nil {
		b.respond(session, interaction, "No response available.", ephemeral)
		return
	}
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      flags,
		},
	})
}

// updateComponents replaces the message a button was pressed on.
func (b *Bot) updateComponents(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

func (b *Bot) deferResponse(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (b *Bot) editResponse(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	embeds := []*discordgo.MessageEmbed{embed}
	edit := &discordgo.WebhookEdit{Embeds: &embeds}
	if components != nil {
		edit.Components = &components
	}
	if _, err := session.InteractionResponseEdit(interaction.Interaction, edit); err != nil {
		b.logger.Warn("edit interaction response failed", zap.Error(err))
	}
}
