package guildconfig

// Typed lookups over an effective tree. Overrides loaded from JSON carry
// float64 numbers while compiled-in defaults carry int, so the numeric
// helpers coerce both.

// Lookup walks the given path and returns the value at the end of it.
func Lookup(tree Tree, path ...string) (any, bool) {
	var current any = tree
	for _, seg := range path {
		node, ok := current.(Tree)
		if !ok {
			return nil, false
		}
		current, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Bool returns the boolean at path, or false if absent or mistyped.
func Bool(tree Tree, path ...string) bool {
	v, ok := Lookup(tree, path...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Int returns the integer at path, or 0 if absent or mistyped.
func Int(tree Tree, path ...string) int {
	v, ok := Lookup(tree, path...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// String returns the string at path, or "" if absent or mistyped.
func String(tree Tree, path ...string) string {
	v, ok := Lookup(tree, path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Strings returns the list of strings at path. Non-string elements are
// skipped.
func Strings(tree Tree, path ...string) []string {
	v, ok := Lookup(tree, path...)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, isStr := item.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}
