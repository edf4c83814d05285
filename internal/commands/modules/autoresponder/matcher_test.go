package autoresponder

import (
	"testing"

	"maxybot/internal/database"

	"github.com/stretchr/testify/assert"
)

func ar(matchType, trigger string, caseSensitive bool) *database.AutoResponse {
	return &database.AutoResponse{
		Trigger:       trigger,
		Response:      "reply",
		MatchType:     matchType,
		CaseSensitive: caseSensitive,
	}
}

func TestMatchesExact(t *testing.T) {
	assert.True(t, Matches(ar(database.MatchExact, "hello", false), "Hello"))
	assert.False(t, Matches(ar(database.MatchExact, "hello", false), "hello there"))
	assert.False(t, Matches(ar(database.MatchExact, "hello", true), "Hello"))
}

func TestMatchesContains(t *testing.T) {
	assert.True(t, Matches(ar(database.MatchContains, "pizza", false), "I love PIZZA so much"))
	assert.False(t, Matches(ar(database.MatchContains, "pizza", true), "I love PIZZA so much"))
}

func TestMatchesStartsAndEndsWith(t *testing.T) {
	assert.True(t, Matches(ar(database.MatchStartsWith, "good morning", false), "Good Morning everyone"))
	assert.False(t, Matches(ar(database.MatchStartsWith, "good morning", false), "a Good Morning"))

	assert.True(t, Matches(ar(database.MatchEndsWith, "bye", false), "ok BYE"))
	assert.False(t, Matches(ar(database.MatchEndsWith, "bye", false), "bye now"))
}

func TestMatchesRegex(t *testing.T) {
	assert.True(t, Matches(ar(database.MatchRegex, `\bhelp\b`, false), "can someone HELP me"))
	assert.False(t, Matches(ar(database.MatchRegex, `\bhelp\b`, false), "helper needed"))
	assert.True(t, Matches(ar(database.MatchRegex, `^\d+$`, true), "12345"))
}

func TestMatchesInvalidRegexNeverMatches(t *testing.T) {
	assert.False(t, Matches(ar(database.MatchRegex, "([", false), "anything"))
}

func TestFirstMatchReturnsEarliest(t *testing.T) {
	responses := []*database.AutoResponse{
		ar(database.MatchExact, "ping", false),
		ar(database.MatchContains, "pin", false),
	}
	got := FirstMatch(responses, "ping")
	assert.Same(t, responses[0], got)

	assert.Nil(t, FirstMatch(responses, "pong"))
}
