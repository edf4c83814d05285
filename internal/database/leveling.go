package database

import (
	"database/sql"
	"fmt"
)

// LevelRecord holds a member's leveling row.
type LevelRecord struct {
	GuildID string
	UserID  string
	XP      int64
	Level   int64
}

// LevelForXP maps total XP to a level using the 5*level^2 + 50*level + 100
// cumulative curve.
func LevelForXP(xp int64) int64 {
	var level int64
	for {
		needed := 5*level*level + 50*level + 100
		if xp < needed {
			return level
		}
		xp -= needed
		level++
	}
}

// XPForNextLevel returns the XP needed to go from the given level to the next.
func XPForNextLevel(level int64) int64 {
	return 5*level*level + 50*level + 100
}

// AwardXP adds XP to a member and returns the updated record plus whether
// the member leveled up.
func (db *DB) AwardXP(guildID, userID string, amount int64) (*LevelRecord, bool, error) {
	if _, err := db.conn.Exec(`
	INSERT INTO leveling (guild_id, user_id, xp, level)
	VALUES (?, ?, 0, 0)
	ON CONFLICT(guild_id, user_id) DO NOTHING
	`, guildID, userID); err != nil {
		return nil, false, fmt.Errorf("failed to seed leveling row: %w", err)
	}

	if _, err := db.conn.Exec(`
	UPDATE leveling SET xp = xp + ?
	WHERE guild_id = ? AND user_id = ?
	`, amount, guildID, userID); err != nil {
		return nil, false, fmt.Errorf("failed to add xp: %w", err)
	}

	rec, err := db.GetLevel(guildID, userID)
	if err != nil {
		return nil, false, err
	}

	newLevel := LevelForXP(rec.XP)
	leveledUp := newLevel > rec.Level
	if leveledUp {
		if _, err := db.conn.Exec(`
		UPDATE leveling SET level = ?
		WHERE guild_id = ? AND user_id = ?
		`, newLevel, guildID, userID); err != nil {
			return nil, false, fmt.Errorf("failed to store level: %w", err)
		}
		rec.Level = newLevel
	}

	return rec, leveledUp, nil
}

// GetLevel returns the member's leveling record, or a zero record if absent.
func (db *DB) GetLevel(guildID, userID string) (*LevelRecord, error) {
	row := db.conn.QueryRow(`
	SELECT guild_id, user_id, xp, level FROM leveling
	WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)

	var rec LevelRecord
	err := row.Scan(&rec.GuildID, &rec.UserID, &rec.XP, &rec.Level)
	if err == sql.ErrNoRows {
		return &LevelRecord{GuildID: guildID, UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return &rec, nil
}

// TopLevels returns the guild leaderboard ordered by XP.
func (db *DB) TopLevels(guildID string, limit int) ([]LevelRecord, error) {
	rows, err := db.conn.Query(`
	SELECT guild_id, user_id, xp, level FROM leveling
	WHERE guild_id = ?
	ORDER BY xp DESC
	LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LevelRecord
	for rows.Next() {
		var rec LevelRecord
		if err := rows.Scan(&rec.GuildID, &rec.UserID, &rec.XP, &rec.Level); err != nil {
			return nil, fmt.Errorf("failed to scan leveling row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SetLevelReward maps a level to a role granted on reaching it.
func (db *DB) SetLevelReward(guildID string, level int64, roleID string) error {
	_, err := db.conn.Exec(`
	INSERT INTO level_rewards (guild_id, level, role_id)
	VALUES (?, ?, ?)
	ON CONFLICT(guild_id, level) DO UPDATE SET role_id = excluded.role_id
	`, guildID, level, roleID)
	if err != nil {
		return fmt.Errorf("failed to set level reward: %w", err)
	}
	return nil
}

// LevelReward returns the role granted at a level, or "" if none.
func (db *DB) LevelReward(guildID string, level int64) (string, error) {
	var roleID string
	err := db.conn.QueryRow(`
	SELECT role_id FROM level_rewards WHERE guild_id = ? AND level = ?
	`, guildID, level).Scan(&roleID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get level reward: %w", err)
	}
	return roleID, nil
}

// Rank returns the member's 1-based position on the guild XP leaderboard.
func (db *DB) Rank(guildID, userID string) (int, error) {
	rec, err := db.GetLevel(guildID, userID)
	if err != nil {
		return 0, err
	}
	var ahead int
	err = db.conn.QueryRow(`
	SELECT COUNT(*) FROM leveling WHERE guild_id = ? AND xp > ?
	`, guildID, rec.XP).Scan(&ahead)
	if err != nil {
		return 0, fmt.Errorf("failed to compute rank: %w", err)
	}
	return ahead + 1, nil
}
