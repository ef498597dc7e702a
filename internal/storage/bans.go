package storage

import (
	"context"
	"time"
)

// BanRecord attributes a ban to the moderator responsible for it.
type BanRecord struct {
	GuildID          string
	BannedUserID     string
	ResponsibleModID string
	BannedTime       time.Time
}

type banRow struct {
	ID               int64  `db:"id"`
	GuildID          string `db:"guild_id"`
	BannedUserID     string `db:"banned_user_id"`
	ResponsibleModID string `db:"responsible_mod_id"`
	BannedTime       int64  `db:"banned_time"`
}

func (s *Store) AddBan(ctx context.Context, record BanRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ban_owners (guild_id, banned_user_id, responsible_mod_id, banned_time)
		VALUES (?, ?, ?, ?)
	`, record.GuildID, record.BannedUserID, record.ResponsibleModID, record.BannedTime.Unix())
	return err
}

// BansBetween returns the records of guildID with after <= banned_time < before,
// oldest first.
func (s *Store) BansBetween(ctx context.Context, guildID string, before, after time.Time) ([]BanRecord, error) {
	var rows []banRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, guild_id, banned_user_id, responsible_mod_id, banned_time
		FROM ban_owners
		WHERE guild_id = ? AND banned_time >= ? AND banned_time < ?
		ORDER BY banned_time, id
	`, guildID, after.Unix(), before.Unix())
	if err != nil {
		return nil, err
	}

	records := make([]BanRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, BanRecord{
			GuildID:          row.GuildID,
			BannedUserID:     row.BannedUserID,
			ResponsibleModID: row.ResponsibleModID,
			BannedTime:       time.Unix(row.BannedTime, 0).UTC(),
		})
	}
	return records, nil
}
