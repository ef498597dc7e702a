package storage

import (
	"context"
	"time"
)

type LoggedMessage struct {
	ID        string
	GuildID   string
	ChannelID string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

type messageRow struct {
	ID        string `db:"message_id"`
	GuildID   string `db:"guild_id"`
	ChannelID string `db:"channel_id"`
	AuthorID  string `db:"author_id"`
	Content   string `db:"content"`
	CreatedAt int64  `db:"created_at"`
}

func (s *Store) RecordMessage(ctx context.Context, msg LoggedMessage) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO messages (message_id, guild_id, channel_id, author_id, content, created_at)
		VALUES (:message_id, :guild_id, :channel_id, :author_id, :content, :created_at)
	`, messageRow{
		ID:        msg.ID,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		AuthorID:  msg.AuthorID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Unix(),
	})
	return err
}

func (s *Store) GetMessage(ctx context.Context, messageID string) (LoggedMessage, error) {
	var row messageRow
	err := s.db.GetContext(ctx, &row, `
		SELECT message_id, guild_id, channel_id, author_id, content, created_at
		FROM messages WHERE message_id = ?`, messageID)
	if err != nil {
		return LoggedMessage{}, notFound(err)
	}
	return LoggedMessage{
		ID:        row.ID,
		GuildID:   row.GuildID,
		ChannelID: row.ChannelID,
		AuthorID:  row.AuthorID,
		Content:   row.Content,
		CreatedAt: time.Unix(row.CreatedAt, 0),
	}, nil
}

func (s *Store) DeleteMessage(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE message_id = ?`, messageID)
	return err
}

func (s *Store) PruneMessages(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE created_at < ?`, olderThan.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
