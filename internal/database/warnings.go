package database

import (
	"fmt"
	"time"
)

// Warning is a moderation warning issued to a member.
type Warning struct {
	WarnID      int64
	GuildID     string
	UserID      string
	ModeratorID string
	Reason      string
	Timestamp   time.Time
}

// AddWarning records a warning and returns its id.
func (db *DB) AddWarning(guildID, userID, moderatorID, reason string) (int64, error) {
	res, err := db.conn.Exec(`
	INSERT INTO warnings (guild_id, user_id, moderator_id, reason)
	VALUES (?, ?, ?, ?)
	`, guildID, userID, moderatorID, reason)
	if err != nil {
		return 0, fmt.Errorf("failed to add warning: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get warning id: %w", err)
	}
	return id, nil
}

// Warnings lists a member's warnings, newest first.
func (db *DB) Warnings(guildID, userID string) ([]*Warning, error) {
	rows, err := db.conn.Query(`
	SELECT warn_id, guild_id, user_id, moderator_id, COALESCE(reason, ''), timestamp
	FROM warnings WHERE guild_id = ? AND user_id = ?
	ORDER BY warn_id DESC
	`, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query warnings: %w", err)
	}
	defer rows.Close()

	var out []*Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.WarnID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &w.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// ClearWarnings removes all warnings for a member and reports how many.
func (db *DB) ClearWarnings(guildID, userID string) (int64, error) {
	res, err := db.conn.Exec(`
	DELETE FROM warnings WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}
