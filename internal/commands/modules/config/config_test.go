package config

import (
	"testing"

	"maxybot/internal/guildconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every key exposed through /config must resolve to a real default, with a
// value matching its declared kind. Catches typos between the key table and
// the defaults tree.
func TestSettableKeysMatchDefaults(t *testing.T) {
	tree := guildconfig.DefaultTree("m!")

	for key, entry := range settableKeys {
		value, ok := guildconfig.Lookup(tree, entry.path...)
		require.True(t, ok, "key %s has no default", key)

		if value == nil {
			// nil defaults (unset channel/role ids) are settable as strings.
			assert.Equal(t, kindString, entry.kind, "key %s", key)
			continue
		}

		switch entry.kind {
		case kindString:
			assert.IsType(t, "", value, "key %s", key)
		case kindInt:
			assert.IsType(t, 0, value, "key %s", key)
		case kindBool:
			assert.IsType(t, false, value, "key %s", key)
		default:
			t.Fatalf("key %s has unknown kind %q", key, entry.kind)
		}
	}
}

func TestParseValue(t *testing.T) {
	v, err := parseValue(kindInt, " 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = parseValue(kindInt, "many")
	assert.Error(t, err)

	v, err = parseValue(kindBool, "ON")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = parseValue(kindBool, "maybe")
	assert.Error(t, err)

	v, err = parseValue(kindString, "m!")
	require.NoError(t, err)
	assert.Equal(t, "m!", v)
}
