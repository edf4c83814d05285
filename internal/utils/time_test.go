package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShortDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"10m", 10 * time.Minute},
		{"1h", time.Hour},
		{"2d", 48 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"1h30m", 90 * time.Minute},
		{"  45S ", 45 * time.Second},
	}

	for _, tt := range tests {
		got, err := ParseShortDuration(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseShortDurationRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "soon", "h1", "-5m"} {
		_, err := ParseShortDuration(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseUnixTimestamp(t *testing.T) {
	ts, err := ParseUnixTimestamp("2030-01-02T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC).Unix(), ts)

	_, err = ParseUnixTimestamp("definitely not a date")
	assert.Error(t, err)
}
