package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Giveaway represents a persisted giveaway keyed by its announcement message.
type Giveaway struct {
	MessageID    string
	GuildID      string
	ChannelID    string
	Prize        string
	EndTimestamp int64 // unix seconds
	WinnerCount  int
	RequiredRole string // empty if unrestricted
	IsEnded      bool
}

// CreateGiveaway stores a new active giveaway.
func (db *DB) CreateGiveaway(g *Giveaway) error {
	var role any
	if g.RequiredRole != "" {
		role = g.RequiredRole
	}
	_, err := db.conn.Exec(`
	INSERT INTO giveaways (message_id, guild_id, channel_id, prize, end_timestamp, winner_count, required_role, is_ended)
	VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`, g.MessageID, g.GuildID, g.ChannelID, g.Prize, g.EndTimestamp, g.WinnerCount, role)
	if err != nil {
		return fmt.Errorf("failed to create giveaway: %w", err)
	}
	return nil
}

// GetGiveaway fetches a giveaway by message id, or nil if unknown.
func (db *DB) GetGiveaway(messageID string) (*Giveaway, error) {
	row := db.conn.QueryRow(`
	SELECT message_id, guild_id, channel_id, prize, end_timestamp, winner_count, required_role, is_ended
	FROM giveaways WHERE message_id = ?
	`, messageID)

	g, err := scanGiveaway(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}
	return g, nil
}

// ActiveGiveaways lists a guild's giveaways that have not ended.
func (db *DB) ActiveGiveaways(guildID string) ([]*Giveaway, error) {
	return db.queryGiveaways(`
	SELECT message_id, guild_id, channel_id, prize, end_timestamp, winner_count, required_role, is_ended
	FROM giveaways WHERE is_ended = 0 AND guild_id = ?
	ORDER BY end_timestamp
	`, guildID)
}

// DueGiveaways lists all giveaways whose end time has passed and that are
// still marked active.
func (db *DB) DueGiveaways(now time.Time) ([]*Giveaway, error) {
	return db.queryGiveaways(`
	SELECT message_id, guild_id, channel_id, prize, end_timestamp, winner_count, required_role, is_ended
	FROM giveaways WHERE is_ended = 0 AND end_timestamp < ?
	`, now.Unix())
}

// MarkGiveawayEnded flips is_ended and reports whether this call performed
// the transition. A false return means another sweep already closed it, so
// termination stays idempotent.
func (db *DB) MarkGiveawayEnded(messageID string) (bool, error) {
	res, err := db.conn.Exec(`
	UPDATE giveaways SET is_ended = 1 WHERE message_id = ? AND is_ended = 0
	`, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to end giveaway: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// AddEntrant records a giveaway entry; returns false if the user already
// entered.
func (db *DB) AddEntrant(messageID, userID string) (bool, error) {
	res, err := db.conn.Exec(`
	INSERT INTO giveaway_entrants (message_id, user_id)
	VALUES (?, ?)
	ON CONFLICT(message_id, user_id) DO NOTHING
	`, messageID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add entrant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// Entrants returns the user ids entered into a giveaway.
func (db *DB) Entrants(messageID string) ([]string, error) {
	rows, err := db.conn.Query(`
	SELECT user_id FROM giveaway_entrants WHERE message_id = ?
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entrants: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entrant: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (db *DB) queryGiveaways(query string, args ...any) ([]*Giveaway, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query giveaways: %w", err)
	}
	defer rows.Close()

	var out []*Giveaway
	for rows.Next() {
		g, err := scanGiveaway(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan giveaway: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGiveaway(scan func(dest ...any) error) (*Giveaway, error) {
	var g Giveaway
	var role sql.NullString
	var ended int
	if err := scan(&g.MessageID, &g.GuildID, &g.ChannelID, &g.Prize,
		&g.EndTimestamp, &g.WinnerCount, &role, &ended); err != nil {
		return nil, err
	}
	g.RequiredRole = role.String
	g.IsEnded = ended == 1
	return &g, nil
}
