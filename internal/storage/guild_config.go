package storage

import (
	"context"
	"fmt"
)

const (
	FieldLogChannel         = "log_channel"
	FieldBanImageURL        = "ban_image_url"
	FieldKickImageURL       = "kick_image_url"
	FieldUnbanImageURL      = "unban_image_url"
	FieldActiveUsersChannel = "active_users_channel"
	FieldTotalUsersChannel  = "total_users_channel"
)

var configFields = map[string]struct{}{
	FieldLogChannel:         {},
	FieldBanImageURL:        {},
	FieldKickImageURL:       {},
	FieldUnbanImageURL:      {},
	FieldActiveUsersChannel: {},
	FieldTotalUsersChannel:  {},
}

type GuildConfig struct {
	GuildID            string `db:"guild_id"`
	LogChannel         string `db:"log_channel"`
	BanImageURL        string `db:"ban_image_url"`
	KickImageURL       string `db:"kick_image_url"`
	UnbanImageURL      string `db:"unban_image_url"`
	ActiveUsersChannel string `db:"active_users_channel"`
	TotalUsersChannel  string `db:"total_users_channel"`
}

// ImageURL returns the configured thumbnail for a moderation action kind
// ("ban", "kick", "unban"), or fallback when none is set.
func (c GuildConfig) ImageURL(kind, fallback string) string {
	var value string
	switch kind {
	case "ban":
		value = c.BanImageURL
	case "kick":
		value = c.KickImageURL
	case "unban":
		value = c.UnbanImageURL
	}
	if value == "" {
		return fallback
	}
	return value
}

func (s *Store) InitGuild(ctx context.Context, guildID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO guild_config (guild_id) VALUES (?)`, guildID)
	return err
}

func (s *Store) GetGuildConfig(ctx context.Context, guildID string) (GuildConfig, error) {
	var cfg GuildConfig
	err := s.db.GetContext(ctx, &cfg, `
		SELECT guild_id,
			COALESCE(log_channel, '') AS log_channel,
			COALESCE(ban_image_url, '') AS ban_image_url,
			COALESCE(kick_image_url, '') AS kick_image_url,
			COALESCE(unban_image_url, '') AS unban_image_url,
			COALESCE(active_users_channel, '') AS active_users_channel,
			COALESCE(total_users_channel, '') AS total_users_channel
		FROM guild_config WHERE guild_id = ?`, guildID)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return GuildConfig{GuildID: guildID}, nil
		}
		return GuildConfig{}, err
	}
	return cfg, nil
}

// SetConfigField stores value in one of the Field* columns; an empty value clears it.
func (s *Store) SetConfigField(ctx context.Context, guildID, field, value string) error {
	if _, ok := configFields[field]; !ok {
		return fmt.Errorf("unknown config field %q", field)
	}
	if err := s.InitGuild(ctx, guildID); err != nil {
		return err
	}
	var arg any
	if value != "" {
		arg = value
	}
	_, err := s.db.ExecContext(ctx, `UPDATE guild_config SET `+field+` = ? WHERE guild_id = ?`, arg, guildID)
	return err
}
