package database

import (
	"fmt"
	"time"
)

// Reminder is a time-triggered message owed to a user.
type Reminder struct {
	ReminderID      int64
	UserID          string
	ChannelID       string
	Content         string
	RemindTimestamp int64 // unix seconds
}

// AddReminder stores a reminder and returns its id.
func (db *DB) AddReminder(userID, channelID, content string, due time.Time) (int64, error) {
	res, err := db.conn.Exec(`
	INSERT INTO reminders (user_id, channel_id, remind_content, remind_timestamp)
	VALUES (?, ?, ?, ?)
	`, userID, channelID, content, due.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to add reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get reminder id: %w", err)
	}
	return id, nil
}

// DueReminders returns reminders whose time has come.
func (db *DB) DueReminders(now time.Time) ([]*Reminder, error) {
	rows, err := db.conn.Query(`
	SELECT reminder_id, user_id, channel_id, remind_content, remind_timestamp
	FROM reminders WHERE remind_timestamp <= ?
	`, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var out []*Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ReminderID, &r.UserID, &r.ChannelID, &r.Content, &r.RemindTimestamp); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// UserReminders lists a user's pending reminders, soonest first.
func (db *DB) UserReminders(userID string) ([]*Reminder, error) {
	rows, err := db.conn.Query(`
	SELECT reminder_id, user_id, channel_id, remind_content, remind_timestamp
	FROM reminders WHERE user_id = ?
	ORDER BY remind_timestamp
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var out []*Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ReminderID, &r.UserID, &r.ChannelID, &r.Content, &r.RemindTimestamp); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// DeleteReminder removes a delivered (or cancelled) reminder.
func (db *DB) DeleteReminder(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM reminders WHERE reminder_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}
