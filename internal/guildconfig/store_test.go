package guildconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guilds.json")
	return NewStore(path, "m!", log.New(os.Stderr))
}

func TestDefaultTreeIsIndependentPerCall(t *testing.T) {
	a := DefaultTree("m!")
	b := DefaultTree("m!")

	a["leveling"].(Tree)["xp_per_message_min"] = 999
	assert.Equal(t, 15, b["leveling"].(Tree)["xp_per_message_min"],
		"default sub-trees must never be shared between instantiations")
}

func TestEffectiveUsesDefaultsForUnknownGuild(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	tree := s.Effective(42)
	assert.Equal(t, 15, Int(tree, "leveling", "xp_per_message_min"))
	assert.Equal(t, 100, Int(tree, "economy", "start_balance"))
	assert.Equal(t, "m!", String(tree, "prefix"))
	assert.True(t, Bool(tree, "leveling", "enabled"))
}

func TestEffectiveIsCached(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	first := s.Effective(42)
	merges := s.MergeCount()
	second := s.Effective(42)

	assert.Equal(t, first, second)
	assert.Equal(t, merges, s.MergeCount(), "second read must be a cache hit")
}

func TestSetPathOverridesAndInvalidates(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	require.Equal(t, 15, Int(s.Effective(42), "leveling", "xp_per_message_min"))

	require.NoError(t, s.SetPath(42, []string{"leveling", "xp_per_message_min"}, 50))

	tree := s.Effective(42)
	assert.Equal(t, 50, Int(tree, "leveling", "xp_per_message_min"))
	// Sibling keys keep their defaults.
	assert.Equal(t, 25, Int(tree, "leveling", "xp_per_message_max"))
	// Other guilds are unaffected.
	assert.Equal(t, 15, Int(s.Effective(43), "leveling", "xp_per_message_min"))
}

func TestSetPathTargetedInvalidation(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	s.Effective(1)
	s.Effective(2)
	merges := s.MergeCount()

	require.NoError(t, s.SetPath(1, []string{"welcome", "enabled"}, true))

	s.Effective(2) // still cached
	assert.Equal(t, merges, s.MergeCount())

	s.Effective(1) // evicted, fresh merge
	assert.Equal(t, merges+1, s.MergeCount())
	assert.True(t, Bool(s.Effective(1), "welcome", "enabled"))
}

func TestSetPathConflictLeavesDocumentUnchanged(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	require.NoError(t, s.SetPath(42, []string{"prefix"}, "!"))
	before, err := json.Marshal(s.overrides)
	require.NoError(t, err)

	err = s.SetPath(42, []string{"prefix", "nested"}, "x")
	require.ErrorIs(t, err, ErrPathConflict)

	after, marshalErr := json.Marshal(s.overrides)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, string(before), string(after),
		"rejected mutation must leave the override document unchanged")
}

func TestSetPathConflictDeepPathCreatesNothing(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	require.NoError(t, s.SetPath(42, []string{"welcome", "message"}, "hi"))

	// "message" is a scalar; descending two levels through it must fail
	// without creating the intermediate "message" -> "a" map.
	err := s.SetPath(42, []string{"welcome", "message", "a", "b"}, 1)
	require.ErrorIs(t, err, ErrPathConflict)

	tree := s.Effective(42)
	assert.Equal(t, "hi", String(tree, "welcome", "message"))
}

func TestSaveAllClearsEffectiveCache(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	s.Effective(1)
	merges := s.MergeCount()

	require.NoError(t, s.SaveAll())

	s.Effective(1)
	assert.Equal(t, merges+1, s.MergeCount(), "save must clear the whole cache")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guilds.json")
	logger := log.New(os.Stderr)

	s := NewStore(path, "m!", logger)
	s.LoadAll()

	require.NoError(t, s.SetPath(42, []string{"welcome", "enabled"}, true))
	require.NoError(t, s.SetPath(42, []string{"leveling", "xp_per_message_min"}, 50))
	require.NoError(t, s.SetPath(42, []string{"moderation", "allowed_roles"}, []any{"1", "2"}))
	require.NoError(t, s.SetPath(42, []string{"welcome", "channel_id"}, nil))
	require.NoError(t, s.SetPath(99, []string{"prefix"}, "?"))
	require.NoError(t, s.SaveAll())

	// Simulate restart.
	fresh := NewStore(path, "m!", logger)
	fresh.LoadAll()

	tree := fresh.Effective(42)
	assert.True(t, Bool(tree, "welcome", "enabled"))
	assert.Equal(t, 50, Int(tree, "leveling", "xp_per_message_min"))
	assert.Equal(t, []string{"1", "2"}, Strings(tree, "moderation", "allowed_roles"))
	assert.Equal(t, "?", fresh.Prefix(99))

	// The override documents themselves must be deep-equal across restart.
	before, err := json.Marshal(s.overrides)
	require.NoError(t, err)
	after, err := json.Marshal(fresh.overrides)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestLoadAllToleratesMissingAndCorruptFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guilds.json")
	logger := log.New(os.Stderr)

	s := NewStore(path, "m!", logger)
	s.LoadAll() // missing file
	assert.Equal(t, "m!", s.Prefix(42))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	s.LoadAll() // corrupt file
	assert.Equal(t, "m!", s.Prefix(42), "corrupt config degrades to defaults")
}

func TestSaveAllWritesRecognizedTopLevelKey(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()
	require.NoError(t, s.SetPath(7, []string{"prefix"}, "!"))
	require.NoError(t, s.SaveAll())

	data, err := os.ReadFile(s.path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	settings, ok := doc["guild_settings"].(map[string]any)
	require.True(t, ok, "expected guild_settings top-level key")
	assert.Contains(t, settings, "7")

	// No leftover temp file after an atomic save.
	_, statErr := os.Stat(s.path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}

func TestPrefixSkipsLookupOutsideGuilds(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	require.NoError(t, s.SetPath(42, []string{"prefix"}, "!"))
	assert.Equal(t, "!", s.Prefix(42))
	assert.Equal(t, "m!", s.Prefix(0), "non-guild context uses the fixed default prefix")
}

func TestResetPathRestoresDefaultAndPrunes(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	require.NoError(t, s.SetPath(42, []string{"leveling", "xp_per_message_min"}, 50))
	require.Equal(t, 50, Int(s.Effective(42), "leveling", "xp_per_message_min"))

	require.NoError(t, s.ResetPath(42, []string{"leveling", "xp_per_message_min"}))
	assert.Equal(t, 15, Int(s.Effective(42), "leveling", "xp_per_message_min"))

	// The override document should hold nothing for guild 42 anymore.
	require.NoError(t, s.SaveAll())
	data, err := os.ReadFile(s.path)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotContains(t, doc["guild_settings"], "42")
}

func TestResetPathUnknownOverrideIsNoOp(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	require.NoError(t, s.ResetPath(42, []string{"economy", "start_balance"}))
	assert.Equal(t, 100, Int(s.Effective(42), "economy", "start_balance"))
}

func TestEffectiveObservesWritesUnderConcurrentReads(t *testing.T) {
	s := newTestStore(t)
	s.LoadAll()

	// Readers hammer the cache-miss path while a writer mutates the same
	// guild. Every read made after a SetPath returns must see that write;
	// a merge in flight during the mutation must not land its pre-mutation
	// tree in the cache.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					s.Effective(42)
				}
			}
		}()
	}

	for n := 0; n < 200; n++ {
		want := fmt.Sprintf("p%d", n)
		require.NoError(t, s.SetPath(42, []string{"prefix"}, want))
		assert.Equal(t, want, String(s.Effective(42), "prefix"))
	}

	close(stop)
	wg.Wait()
}
