package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// StarboardLink maps a starred message to the mirror posted on the
// guild's starboard channel.
type StarboardLink struct {
	OriginalMessageID  string
	StarboardMessageID string
	GuildID            string
}

// StarboardLink returns the mirror for a message, or nil if it has never
// been posted to the starboard.
func (db *DB) StarboardLink(originalMessageID string) (*StarboardLink, error) {
	row := db.conn.QueryRow(`
	SELECT original_message_id, starboard_message_id, guild_id FROM starboard
	WHERE original_message_id = ?
	`, originalMessageID)

	var link StarboardLink
	if err := row.Scan(&link.OriginalMessageID, &link.StarboardMessageID, &link.GuildID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up starboard link: %w", err)
	}
	return &link, nil
}

// SaveStarboardLink records (or replaces) the mirror for a message.
func (db *DB) SaveStarboardLink(link *StarboardLink) error {
	if _, err := db.conn.Exec(`
	INSERT OR REPLACE INTO starboard (original_message_id, starboard_message_id, guild_id)
	VALUES (?, ?, ?)
	`, link.OriginalMessageID, link.StarboardMessageID, link.GuildID); err != nil {
		return fmt.Errorf("failed to save starboard link: %w", err)
	}
	return nil
}
