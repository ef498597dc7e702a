package bot

import (
	"github.com/bwmarrin/discordgo"
)

const (
	channelTypeLog         = "Log"
	channelTypeActiveUsers = "Active Users"
	channelTypeTotalUsers  = "Total Users"
)

func permission(perm int64) *int64 {
	return &perm
}

func userOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func stringChoices(values ...string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, value := range values {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: value, Value: value})
	}
	return choices
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	dmPermission := false
	minAmount := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "ban",
			Description:              "Ban a member from this guild.",
			DefaultMemberPermissions: permission(discordgo.PermissionBanMembers),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("user", "The user to ban.", true),
				stringOption("reason", "The reason for the ban.", false),
			},
		},
		{
			Name:                     "kick",
			Description:              "Kick a member from this guild.",
			DefaultMemberPermissions: permission(discordgo.PermissionKickMembers),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("user", "The user to kick.", true),
				stringOption("reason", "The reason for the kick.", false),
			},
		},
		{
			Name:                     "unban",
			Description:              "Unban a member from this guild.",
			DefaultMemberPermissions: permission(discordgo.PermissionBanMembers),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("user", "The user to unban.", true),
				stringOption("reason", "The reason for the unban.", false),
			},
		},
		{
			Name:                     "mute",
			Description:              "Mute a member from this guild.",
			DefaultMemberPermissions: permission(discordgo.PermissionKickMembers),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("user", "The user to mute.", true),
				stringOption("time", "The time to mute for; leave empty for as long as possible", false),
				stringOption("reason", "The reason for the mute.", false),
			},
		},
		{
			Name:                     "unmute",
			Description:              "Unmute a member from this guild.",
			DefaultMemberPermissions: permission(discordgo.PermissionKickMembers),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("user", "The user to unmute.", true),
			},
		},
		{
			Name:                     "purge",
			Description:              "Purge messages from this channel.",
			DefaultMemberPermissions: permission(discordgo.PermissionManageMessages),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "The amount of messages to purge.",
					MinValue:    &minAmount,
					MaxValue:    maxPurge,
				},
			},
		},
		{
			Name:         "info",
			Description:  "Get information about a user.",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("user", "The user to get information about.", true),
			},
		},
		{
			Name:         "banstats",
			Description:  "Get the amount of bans in the current month.",
			DMPermission: &dmPermission,
		},
		{
			Name:         "tag",
			Description:  "Show a server tag.",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("name", "The tag to show.", true),
			},
		},
		{
			Name:                     "set_tag",
			Description:              "Create or replace a server tag.",
			DefaultMemberPermissions: permission(discordgo.PermissionManageMessages),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("name", "The tag name.", true),
				stringOption("content", "The tag content.", true),
			},
		},
		{
			Name:                     "delete_tag",
			Description:              "Delete a server tag.",
			DefaultMemberPermissions: permission(discordgo.PermissionManageMessages),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("name", "The tag to delete.", true),
			},
		},
		{
			Name:         "tags",
			Description:  "List all server tags.",
			DMPermission: &dmPermission,
		},
		{
			Name:                     "set_channel",
			Description:              "Set a channel used by the bot.",
			DefaultMemberPermissions: permission(discordgo.PermissionAdministrator),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "The type of channel to set",
					Required:    true,
					Choices:     stringChoices(channelTypeLog, channelTypeActiveUsers, channelTypeTotalUsers),
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "The channel to set; don't pass to disable relevant feature",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildVoice},
				},
			},
		},
		{
			Name:                     "set_image_url",
			Description:              "Set the image shown on moderation messages.",
			DefaultMemberPermissions: permission(discordgo.PermissionAdministrator),
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "The type of image to set",
					Required:    true,
					Choices:     stringChoices("ban", "unban", "kick"),
				},
				stringOption("url", "The URL of the image; leave empty to set to default.", false),
			},
		},
		{
			Name:        "about",
			Description: "About this bot.",
		},
	}
}

// registerCommands syncs the global command set, editing existing commands in
// place and removing ones that are no longer defined.
func (b *Bot) registerCommands() error {
	commands := commandDefinitions()

	appID := b.session.State.User.ID
	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		return err
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, "", cmd.ID)
	}
	return nil
}
