package guildconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrPathConflict is returned by SetPath when an intermediate path segment
// already holds a non-mapping value and cannot be descended into.
var ErrPathConflict = errors.New("config path conflicts with existing value")

// document is the on-disk shape of the override store.
type document struct {
	GuildSettings map[string]Tree `json:"guild_settings"`
}

// Store maintains the per-guild override document and a derived cache of
// effective (defaults + overrides) configuration trees.
//
// The raw override document is the single source of truth and the only
// thing persisted; the effective cache is disposable and is replaced
// wholesale per guild, never mutated in place.
type Store struct {
	path          string
	defaultPrefix string
	logger        *log.Logger

	mu        sync.Mutex      // guards overrides and the save path
	overrides map[string]Tree // guild id (decimal string) -> override tree

	cacheMu    sync.RWMutex
	cache      map[int64]Tree // guild id -> effective tree
	mergeCount int            // number of fresh merges performed (instrumentation)
}

// NewStore creates a Store persisting to path. Call LoadAll before first use.
func NewStore(path, defaultPrefix string, logger *log.Logger) *Store {
	return &Store{
		path:          path,
		defaultPrefix: defaultPrefix,
		logger:        logger,
		overrides:     make(map[string]Tree),
		cache:         make(map[int64]Tree),
	}
}

// LoadAll reads the full override document from disk. A missing file,
// malformed content, or I/O failure leaves the store with an empty override
// set: a bot running on defaults everywhere is a valid degraded state, so
// load failures are logged and never propagated.
func (s *Store) LoadAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warnf("guild config %s not found, starting with defaults", s.path)
		} else {
			s.logger.Errorf("failed to read guild config %s: %v", s.path, err)
		}
		s.overrides = make(map[string]Tree)
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Errorf("guild config %s is invalid JSON, starting with defaults: %v", s.path, err)
		s.overrides = make(map[string]Tree)
		return
	}

	if doc.GuildSettings == nil {
		doc.GuildSettings = make(map[string]Tree)
	}
	s.overrides = doc.GuildSettings

	s.invalidateAll()
	s.logger.Infof("guild config loaded for %d guild(s)", len(s.overrides))
}

// SaveAll serializes the override document to disk, writing to a temporary
// file and renaming it over the previous one so a crash mid-write never
// corrupts the last valid file. On success the whole effective cache is
// cleared; invalidation is cheap relative to save frequency.
func (s *Store) SaveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(document{GuildSettings: s.overrides}, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode guild config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write guild config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace guild config: %w", err)
	}

	s.invalidateAll()
	return nil
}

// Effective returns the full configuration tree for a guild, merging the
// guild's overrides onto a fresh copy of the defaults on first access and
// caching the result until invalidated.
func (s *Store) Effective(guildID int64) Tree {
	s.cacheMu.RLock()
	if tree, ok := s.cache[guildID]; ok {
		s.cacheMu.RUnlock()
		return tree
	}
	s.cacheMu.RUnlock()

	// The document lock is held across the cache insert: a mutator evicts
	// under the same lock, so a tree cached here always reflects the
	// document as the last mutation left it. Lock order is mu then cacheMu,
	// matching SetPath and ResetPath.
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.overrides[strconv.FormatInt(guildID, 10)]
	merged := deepMerge(DefaultTree(s.defaultPrefix), saved)

	s.cacheMu.Lock()
	s.cache[guildID] = merged
	s.mergeCount++
	s.cacheMu.Unlock()

	return merged
}

// SetPath walks keyPath into the guild's raw override tree, creating
// intermediate mappings as needed, and sets the final segment to value.
// If an intermediate segment already holds a non-mapping value the mutation
// is rejected with ErrPathConflict and the document is left unchanged.
// Persistence happens later, via the periodic flush or SaveAll.
func (s *Store) SetPath(guildID int64, keyPath []string, value any) error {
	if len(keyPath) == 0 {
		return fmt.Errorf("empty key path")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(guildID, 10)

	// Validate before mutating so a rejected path leaves the document
	// untouched, including intermediate maps that would have been created.
	node := s.overrides[key]
	for _, seg := range keyPath[:len(keyPath)-1] {
		if node == nil {
			break
		}
		child, ok := node[seg]
		if !ok {
			node = nil
			continue
		}
		childTree, isTree := child.(Tree)
		if !isTree {
			return fmt.Errorf("%w: %q is not a mapping", ErrPathConflict, seg)
		}
		node = childTree
	}

	guildTree, ok := s.overrides[key]
	if !ok {
		guildTree = make(Tree)
		s.overrides[key] = guildTree
	}

	current := guildTree
	for _, seg := range keyPath[:len(keyPath)-1] {
		child, ok := current[seg]
		if !ok {
			next := make(Tree)
			current[seg] = next
			current = next
			continue
		}
		v, ok := child.(Tree)
		if !ok {
			// Unreachable after validation above.
			return fmt.Errorf("%w: %q is not a mapping", ErrPathConflict, seg)
		}
		current = v
	}
	current[keyPath[len(keyPath)-1]] = value

	s.cacheMu.Lock()
	delete(s.cache, guildID)
	s.cacheMu.Unlock()

	return nil
}

// ResetPath removes the override at keyPath for a guild, restoring the
// compiled-in default for that key. Empty intermediate mappings left behind
// are pruned so the document never accumulates hollow subtrees. Removing a
// path that has no override is a no-op.
func (s *Store) ResetPath(guildID int64, keyPath []string) error {
	if len(keyPath) == 0 {
		return fmt.Errorf("empty key path")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(guildID, 10)
	guildTree, ok := s.overrides[key]
	if !ok {
		return nil
	}

	chain := []Tree{guildTree}
	node := guildTree
	for _, seg := range keyPath[:len(keyPath)-1] {
		child, ok := node[seg].(Tree)
		if !ok {
			return nil
		}
		chain = append(chain, child)
		node = child
	}
	if _, ok := node[keyPath[len(keyPath)-1]]; !ok {
		return nil
	}
	delete(node, keyPath[len(keyPath)-1])

	for idx := len(chain) - 1; idx > 0; idx-- {
		if len(chain[idx]) > 0 {
			break
		}
		delete(chain[idx-1], keyPath[idx-1])
	}
	if len(guildTree) == 0 {
		delete(s.overrides, key)
	}

	s.cacheMu.Lock()
	delete(s.cache, guildID)
	s.cacheMu.Unlock()

	return nil
}

// Prefix returns the command prefix for a guild. Guild id 0 marks a
// non-guild context (DMs), which always uses the compiled-in default and
// skips configuration lookups entirely.
func (s *Store) Prefix(guildID int64) string {
	if guildID == 0 {
		return s.defaultPrefix
	}
	if p, ok := s.Effective(guildID)["prefix"].(string); ok && p != "" {
		return p
	}
	return s.defaultPrefix
}

// MergeCount reports how many fresh merges the store has performed.
func (s *Store) MergeCount() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.mergeCount
}

// invalidateAll clears the whole effective cache. Callers hold s.mu.
func (s *Store) invalidateAll() {
	s.cacheMu.Lock()
	s.cache = make(map[int64]Tree)
	s.cacheMu.Unlock()
}

// deepMerge recursively applies override values onto dst. When both sides
// hold mappings at a key it recurses; otherwise the override value replaces
// the default wholesale, including mapping-for-scalar swaps. Override values
// are deep-copied so the cached effective tree never aliases the raw
// override document.
func deepMerge(dst Tree, override Tree) Tree {
	for k, v := range override {
		ov, ovIsTree := asTree(v)
		dv, dvIsTree := asTree(dst[k])
		if ovIsTree && dvIsTree {
			dst[k] = deepMerge(dv, ov)
			continue
		}
		dst[k] = cloneValue(v)
	}
	return dst
}

func asTree(v any) (Tree, bool) {
	t, ok := v.(Tree)
	return t, ok
}

// cloneValue deep-copies JSON-model values (maps and slices); scalars are
// returned as-is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case Tree:
		out := make(Tree, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}
