package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPingReportsConnectionHealth(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	assert.NoError(t, db.Ping())

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(), "ping after close must fail")
}

func TestStarboardLinkRoundTrip(t *testing.T) {
	db := newTestDB(t)

	link, err := db.StarboardLink("m1")
	require.NoError(t, err)
	assert.Nil(t, link, "unmirrored message has no link")

	require.NoError(t, db.SaveStarboardLink(&StarboardLink{
		OriginalMessageID:  "m1",
		StarboardMessageID: "s1",
		GuildID:            "g1",
	}))

	link, err = db.StarboardLink("m1")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "s1", link.StarboardMessageID)
	assert.Equal(t, "g1", link.GuildID)

	// Saving again replaces the mirror reference.
	require.NoError(t, db.SaveStarboardLink(&StarboardLink{
		OriginalMessageID:  "m1",
		StarboardMessageID: "s2",
		GuildID:            "g1",
	}))
	link, err = db.StarboardLink("m1")
	require.NoError(t, err)
	assert.Equal(t, "s2", link.StarboardMessageID)
}

func TestBalanceSeedAndTransfer(t *testing.T) {
	db := newTestDB(t)

	b, err := db.GetBalance("g1", "u1", 100)
	require.NoError(t, err)
	assert.EqualValues(t, 100, b.Wallet)
	assert.EqualValues(t, 0, b.Bank)

	// Second read must not reseed.
	b, err = db.GetBalance("g1", "u1", 100)
	require.NoError(t, err)
	assert.EqualValues(t, 100, b.Wallet)

	require.NoError(t, db.TransferToBank("g1", "u1", 60))
	b, err = db.GetBalance("g1", "u1", 100)
	require.NoError(t, err)
	assert.EqualValues(t, 40, b.Wallet)
	assert.EqualValues(t, 60, b.Bank)

	// Overdraw is rejected.
	assert.Error(t, db.TransferToBank("g1", "u1", 50))
}

func TestPayBetweenMembers(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetBalance("g1", "alice", 100)
	require.NoError(t, err)

	require.NoError(t, db.Pay("g1", "alice", "bob", 30, 100))

	alice, err := db.GetBalance("g1", "alice", 100)
	require.NoError(t, err)
	bob, err := db.GetBalance("g1", "bob", 100)
	require.NoError(t, err)
	assert.EqualValues(t, 70, alice.Wallet)
	assert.EqualValues(t, 130, bob.Wallet)

	assert.Error(t, db.Pay("g1", "alice", "bob", 1000, 100), "overdraw must fail")
	assert.Error(t, db.Pay("g1", "alice", "bob", -5, 100), "negative amounts must fail")
}

func TestLevelCurve(t *testing.T) {
	assert.EqualValues(t, 0, LevelForXP(0))
	assert.EqualValues(t, 0, LevelForXP(99))
	assert.EqualValues(t, 1, LevelForXP(100))
	assert.EqualValues(t, 1, LevelForXP(254))
	assert.EqualValues(t, 2, LevelForXP(255))
	assert.EqualValues(t, 100, XPForNextLevel(0))
	assert.EqualValues(t, 155, XPForNextLevel(1))
}

func TestAwardXPLevelsUp(t *testing.T) {
	db := newTestDB(t)

	rec, leveled, err := db.AwardXP("g1", "u1", 50)
	require.NoError(t, err)
	assert.False(t, leveled)
	assert.EqualValues(t, 50, rec.XP)

	rec, leveled, err = db.AwardXP("g1", "u1", 60)
	require.NoError(t, err)
	assert.True(t, leveled, "110 xp crosses level 1")
	assert.EqualValues(t, 1, rec.Level)

	rank, err := db.Rank("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
}

func TestGiveawayLifecycle(t *testing.T) {
	db := newTestDB(t)

	g := &Giveaway{
		MessageID:    "m1",
		GuildID:      "g1",
		ChannelID:    "c1",
		Prize:        "Nitro",
		EndTimestamp: time.Now().Add(-time.Minute).Unix(),
		WinnerCount:  2,
	}
	require.NoError(t, db.CreateGiveaway(g))

	added, err := db.AddEntrant("m1", "u1")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = db.AddEntrant("m1", "u1")
	require.NoError(t, err)
	assert.False(t, added, "duplicate entry is rejected")

	due, err := db.DueGiveaways(time.Now())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Nitro", due[0].Prize)

	won, err := db.MarkGiveawayEnded("m1")
	require.NoError(t, err)
	assert.True(t, won)

	// Second close loses the race: termination is idempotent.
	won, err = db.MarkGiveawayEnded("m1")
	require.NoError(t, err)
	assert.False(t, won)

	due, err = db.DueGiveaways(time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestActiveGiveawaysScopedToGuild(t *testing.T) {
	db := newTestDB(t)

	end := time.Now().Add(time.Hour).Unix()
	require.NoError(t, db.CreateGiveaway(&Giveaway{MessageID: "m1", GuildID: "g1", ChannelID: "c", Prize: "a", EndTimestamp: end, WinnerCount: 1}))
	require.NoError(t, db.CreateGiveaway(&Giveaway{MessageID: "m2", GuildID: "g2", ChannelID: "c", Prize: "b", EndTimestamp: end, WinnerCount: 1}))

	active, err := db.ActiveGiveaways("g1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "m1", active[0].MessageID)
}

func TestAutoResponses(t *testing.T) {
	db := newTestDB(t)

	added, err := db.AddAutoResponse(&AutoResponse{
		GuildID: "g1", Trigger: "hello", Response: "hi!", CreatorID: "u1", MatchType: MatchExact,
	})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = db.AddAutoResponse(&AutoResponse{
		GuildID: "g1", Trigger: "hello", Response: "other", CreatorID: "u2", MatchType: MatchContains,
	})
	require.NoError(t, err)
	assert.False(t, added, "duplicate trigger per guild is rejected")

	list, err := db.AutoResponses("g1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hi!", list[0].Response)
	assert.Equal(t, MatchExact, list[0].MatchType)

	removed, err := db.RemoveAutoResponse("g1", "hello")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = db.RemoveAutoResponse("g1", "hello")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReminders(t *testing.T) {
	db := newTestDB(t)

	id, err := db.AddReminder("u1", "c1", "stretch", time.Now().Add(-time.Second))
	require.NoError(t, err)
	_, err = db.AddReminder("u1", "c1", "later", time.Now().Add(time.Hour))
	require.NoError(t, err)

	due, err := db.DueReminders(time.Now())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "stretch", due[0].Content)

	all, err := db.UserReminders("u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, db.DeleteReminder(id))
	due, err = db.DueReminders(time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestWarnings(t *testing.T) {
	db := newTestDB(t)

	_, err := db.AddWarning("g1", "u1", "mod", "spam")
	require.NoError(t, err)
	_, err = db.AddWarning("g1", "u1", "mod", "more spam")
	require.NoError(t, err)

	warnings, err := db.Warnings("g1", "u1")
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, "more spam", warnings[0].Reason, "newest first")

	cleared, err := db.ClearWarnings("g1", "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)
}

func TestClaimDailyCooldown(t *testing.T) {
	db := newTestDB(t)

	now := time.Now()
	granted, _, err := db.ClaimDaily("g1", "u1", 200, 100, 24*time.Hour, now)
	require.NoError(t, err)
	assert.True(t, granted)

	b, err := db.GetBalance("g1", "u1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(300), b.Wallet, "start balance plus daily amount")

	// Second claim inside the window is denied with a positive remainder.
	granted, remaining, err := db.ClaimDaily("g1", "u1", 200, 100, 24*time.Hour, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 24*time.Hour)

	// After the window passes the claim succeeds again.
	granted, _, err = db.ClaimDaily("g1", "u1", 200, 100, 24*time.Hour, now.Add(25*time.Hour))
	require.NoError(t, err)
	assert.True(t, granted)
}
