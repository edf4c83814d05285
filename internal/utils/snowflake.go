package utils

import "strconv"

// ParseSnowflake converts a Discord snowflake string to int64. Returns 0 for
// empty or malformed input, which callers treat as "no guild" / "no user".
func ParseSnowflake(id string) int64 {
	if id == "" {
		return 0
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
