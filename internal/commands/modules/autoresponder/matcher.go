package autoresponder

import (
	"regexp"
	"strings"

	"maxybot/internal/database"
)

// Matches reports whether a message body trips an auto-response trigger.
// Regex triggers that fail to compile never match.
func Matches(ar *database.AutoResponse, content string) bool {
	trigger := ar.Trigger
	haystack := content
	if !ar.CaseSensitive && ar.MatchType != database.MatchRegex {
		trigger = strings.ToLower(trigger)
		haystack = strings.ToLower(haystack)
	}

	switch ar.MatchType {
	case database.MatchExact:
		return haystack == trigger
	case database.MatchContains:
		return strings.Contains(haystack, trigger)
	case database.MatchStartsWith:
		return strings.HasPrefix(haystack, trigger)
	case database.MatchEndsWith:
		return strings.HasSuffix(haystack, trigger)
	case database.MatchRegex:
		pattern := ar.Trigger
		if !ar.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(content)
	default:
		return false
	}
}

// FirstMatch returns the first auto-response in the list that matches
// content, or nil.
func FirstMatch(responses []*database.AutoResponse, content string) *database.AutoResponse {
	for _, ar := range responses {
		if Matches(ar, content) {
			return ar
		}
	}
	return nil
}
