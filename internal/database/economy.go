package database

import (
	"fmt"
	"time"
)

// Balance holds a member's economy row.
type Balance struct {
	GuildID string
	UserID  string
	Wallet  int64
	Bank    int64
}

// GetBalance returns the member's balance, creating the row with the given
// starting balance on first access.
func (db *DB) GetBalance(guildID, userID string, startBalance int64) (*Balance, error) {
	_, err := db.conn.Exec(`
	INSERT INTO economy (guild_id, user_id, wallet, bank)
	VALUES (?, ?, ?, 0)
	ON CONFLICT(guild_id, user_id) DO NOTHING
	`, guildID, userID, startBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to seed balance: %w", err)
	}

	row := db.conn.QueryRow(`
	SELECT guild_id, user_id, wallet, bank FROM economy
	WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)

	var b Balance
	if err := row.Scan(&b.GuildID, &b.UserID, &b.Wallet, &b.Bank); err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &b, nil
}

// AddToWallet credits (or debits, with a negative amount) a member's wallet.
func (db *DB) AddToWallet(guildID, userID string, amount int64) error {
	res, err := db.conn.Exec(`
	UPDATE economy SET wallet = wallet + ?
	WHERE guild_id = ? AND user_id = ? AND wallet + ? >= 0
	`, amount, guildID, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insufficient funds")
	}
	return nil
}

// TransferToBank moves amount from wallet to bank (negative withdraws).
func (db *DB) TransferToBank(guildID, userID string, amount int64) error {
	res, err := db.conn.Exec(`
	UPDATE economy SET wallet = wallet - ?, bank = bank + ?
	WHERE guild_id = ? AND user_id = ?
	  AND wallet - ? >= 0 AND bank + ? >= 0
	`, amount, amount, guildID, userID, amount, amount)
	if err != nil {
		return fmt.Errorf("failed to transfer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insufficient funds")
	}
	return nil
}

// Pay moves amount between two members' wallets atomically.
func (db *DB) Pay(guildID, fromUserID, toUserID string, amount int64, startBalance int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Make sure the recipient row exists before crediting it.
	if _, err := tx.Exec(`
	INSERT INTO economy (guild_id, user_id, wallet, bank)
	VALUES (?, ?, ?, 0)
	ON CONFLICT(guild_id, user_id) DO NOTHING
	`, guildID, toUserID, startBalance); err != nil {
		return fmt.Errorf("failed to seed recipient: %w", err)
	}

	res, err := tx.Exec(`
	UPDATE economy SET wallet = wallet - ?
	WHERE guild_id = ? AND user_id = ? AND wallet >= ?
	`, amount, guildID, fromUserID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit sender: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insufficient funds")
	}

	if _, err := tx.Exec(`
	UPDATE economy SET wallet = wallet + ?
	WHERE guild_id = ? AND user_id = ?
	`, amount, guildID, toUserID); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	return tx.Commit()
}

// ClaimDaily credits the member's daily amount if their last claim is at
// least cooldown ago. Returns (false, remaining, nil) when the claim is
// still on cooldown.
func (db *DB) ClaimDaily(guildID, userID string, amount, startBalance int64, cooldown time.Duration, now time.Time) (bool, time.Duration, error) {
	if _, err := db.conn.Exec(`
	INSERT INTO economy (guild_id, user_id, wallet, bank)
	VALUES (?, ?, ?, 0)
	ON CONFLICT(guild_id, user_id) DO NOTHING
	`, guildID, userID, startBalance); err != nil {
		return false, 0, fmt.Errorf("failed to seed balance: %w", err)
	}

	nowUnix := now.Unix()
	cooldownSecs := int64(cooldown / time.Second)

	res, err := db.conn.Exec(`
	UPDATE economy SET wallet = wallet + ?, last_daily = ?
	WHERE guild_id = ? AND user_id = ? AND ? - last_daily >= ?
	`, amount, nowUnix, guildID, userID, nowUnix, cooldownSecs)
	if err != nil {
		return false, 0, fmt.Errorf("failed to claim daily: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return true, 0, nil
	}

	var lastDaily int64
	err = db.conn.QueryRow(`
	SELECT last_daily FROM economy WHERE guild_id = ? AND user_id = ?
	`, guildID, userID).Scan(&lastDaily)
	if err != nil {
		return false, 0, fmt.Errorf("failed to read last daily claim: %w", err)
	}
	remaining := time.Duration(cooldownSecs-(nowUnix-lastDaily)) * time.Second
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

// TopBalances returns the richest members of a guild by wallet + bank.
func (db *DB) TopBalances(guildID string, limit int) ([]Balance, error) {
	rows, err := db.conn.Query(`
	SELECT guild_id, user_id, wallet, bank FROM economy
	WHERE guild_id = ?
	ORDER BY wallet + bank DESC
	LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.GuildID, &b.UserID, &b.Wallet, &b.Bank); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
