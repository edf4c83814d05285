package database

import (
	"fmt"
	"time"
)

// Auto-response match types recognized by the responder.
const (
	MatchExact      = "exact"
	MatchContains   = "contains"
	MatchStartsWith = "starts_with"
	MatchEndsWith   = "ends_with"
	MatchRegex      = "regex"
)

// AutoResponse is a trigger/response pair owned by a guild.
type AutoResponse struct {
	ResponseID    int64
	GuildID       string
	Trigger       string
	Response      string
	CreatorID     string
	MatchType     string
	CaseSensitive bool
	CreatedAt     time.Time
}

// AddAutoResponse stores a new auto-response. Returns false if the trigger
// already exists in the guild.
func (db *DB) AddAutoResponse(ar *AutoResponse) (bool, error) {
	caseSensitive := 0
	if ar.CaseSensitive {
		caseSensitive = 1
	}
	res, err := db.conn.Exec(`
	INSERT INTO auto_responses (guild_id, trigger, response, creator_id, match_type, case_sensitive)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(guild_id, trigger) DO NOTHING
	`, ar.GuildID, ar.Trigger, ar.Response, ar.CreatorID, ar.MatchType, caseSensitive)
	if err != nil {
		return false, fmt.Errorf("failed to add auto-response: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// RemoveAutoResponse deletes a trigger; returns true if a row was removed.
func (db *DB) RemoveAutoResponse(guildID, trigger string) (bool, error) {
	res, err := db.conn.Exec(`
	DELETE FROM auto_responses WHERE guild_id = ? AND trigger = ?
	`, guildID, trigger)
	if err != nil {
		return false, fmt.Errorf("failed to remove auto-response: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// AutoResponses lists all auto-responses for a guild.
func (db *DB) AutoResponses(guildID string) ([]*AutoResponse, error) {
	rows, err := db.conn.Query(`
	SELECT response_id, guild_id, trigger, response, creator_id, match_type, case_sensitive, created_at
	FROM auto_responses WHERE guild_id = ?
	ORDER BY response_id
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query auto-responses: %w", err)
	}
	defer rows.Close()

	var out []*AutoResponse
	for rows.Next() {
		var ar AutoResponse
		var caseSensitive int
		if err := rows.Scan(&ar.ResponseID, &ar.GuildID, &ar.Trigger, &ar.Response,
			&ar.CreatorID, &ar.MatchType, &caseSensitive, &ar.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan auto-response: %w", err)
		}
		ar.CaseSensitive = caseSensitive == 1
		out = append(out, &ar)
	}
	return out, rows.Err()
}
