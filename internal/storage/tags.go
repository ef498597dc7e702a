package storage

import "context"

type Tag struct {
	GuildID string `db:"guild_id"`
	Name    string `db:"name"`
	Content string `db:"content"`
}

func (s *Store) SetTag(ctx context.Context, tag Tag) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO tags (guild_id, name, content) VALUES (:guild_id, :name, :content)
		ON CONFLICT(guild_id, name) DO UPDATE SET content = excluded.content
	`, tag)
	return err
}

func (s *Store) GetTag(ctx context.Context, guildID, name string) (Tag, error) {
	var tag Tag
	err := s.db.GetContext(ctx, &tag, `SELECT guild_id, name, content FROM tags WHERE guild_id = ? AND name = ?`, guildID, name)
	if err != nil {
		return Tag{}, notFound(err)
	}
	return tag, nil
}

func (s *Store) DeleteTag(ctx context.Context, guildID, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE guild_id = ? AND name = ?`, guildID, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListTags(ctx context.Context, guildID string) ([]Tag, error) {
	var tags []Tag
	err := s.db.SelectContext(ctx, &tags, `SELECT guild_id, name, content FROM tags WHERE guild_id = ? ORDER BY name`, guildID)
	return tags, err
}
