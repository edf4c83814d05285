package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQL database connection
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes tables
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets readers proceed while a writer is active.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	db := &DB{conn: conn}

	// Initialize tables
	if err := db.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable.
func (db *DB) Ping() error {
	var one int
	return db.conn.QueryRow("SELECT 1").Scan(&one)
}

// initTables creates the necessary database tables
func (db *DB) initTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS economy (
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		wallet INTEGER DEFAULT 0,
		bank INTEGER DEFAULT 0,
		last_daily INTEGER DEFAULT 0,
		PRIMARY KEY (guild_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS leveling (
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		xp INTEGER DEFAULT 0,
		level INTEGER DEFAULT 0,
		PRIMARY KEY (guild_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS level_rewards (
		guild_id TEXT NOT NULL,
		level INTEGER NOT NULL,
		role_id TEXT NOT NULL,
		PRIMARY KEY (guild_id, level)
	);

	CREATE TABLE IF NOT EXISTS warnings (
		warn_id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		moderator_id TEXT NOT NULL,
		reason TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS giveaways (
		message_id TEXT PRIMARY KEY,
		guild_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		prize TEXT NOT NULL,
		end_timestamp INTEGER NOT NULL,
		winner_count INTEGER NOT NULL,
		required_role TEXT,
		is_ended INTEGER DEFAULT 0 CHECK(is_ended IN (0, 1))
	);

	CREATE TABLE IF NOT EXISTS giveaway_entrants (
		message_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		PRIMARY KEY (message_id, user_id),
		FOREIGN KEY (message_id) REFERENCES giveaways(message_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS auto_responses (
		response_id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		trigger TEXT NOT NULL,
		response TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		match_type TEXT NOT NULL DEFAULT 'exact'
			CHECK(match_type IN ('exact', 'contains', 'starts_with', 'ends_with', 'regex')),
		case_sensitive INTEGER NOT NULL DEFAULT 0
			CHECK(case_sensitive IN (0, 1)),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (guild_id, trigger)
	);

	CREATE TABLE IF NOT EXISTS starboard (
		original_message_id TEXT PRIMARY KEY,
		starboard_message_id TEXT NOT NULL,
		guild_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reminders (
		reminder_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		remind_content TEXT NOT NULL,
		remind_timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_giveaways_due ON giveaways(is_ended, end_timestamp);
	CREATE INDEX IF NOT EXISTS idx_auto_responses_guild ON auto_responses(guild_id);
	CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(remind_timestamp);
	`

	_, err := db.conn.Exec(query)
	return err
}
