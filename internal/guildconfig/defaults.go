package guildconfig

// Tree is a nested settings tree. Values are the JSON object model:
// string, float64/int, bool, nil, []any, map[string]any.
type Tree = map[string]any

// DefaultTree returns a fresh default configuration for a guild.
//
// Every key that a feature module reads must be present here; reading an
// absent key is a programming error, not a runtime one. Always returns a
// new tree so that mutation of one guild's effective config can never leak
// into another's.
func DefaultTree(defaultPrefix string) Tree {
	return Tree{
		"prefix": defaultPrefix,
		"welcome": Tree{
			"enabled":    false,
			"channel_id": nil,
			"message":    "Welcome {user} to {guild}!",
			"embed": Tree{
				"enabled":     true,
				"title":       "New Member!",
				"description": "We're glad to have you.",
			},
		},
		"goodbye": Tree{
			"enabled":    false,
			"channel_id": nil,
			"message":    "Goodbye {user}!",
			"embed": Tree{
				"enabled":     true,
				"title":       "Member Left",
				"description": "We'll miss them.",
			},
		},
		"logging": Tree{
			"enabled":    false,
			"channel_id": nil,
			"events": Tree{
				"message_delete": true,
				"message_edit":   true,
				"member_join":    true,
				"member_leave":   true,
				"member_update":  true,
				"role_update":    true,
				"channel_update": true,
				"voice_update":   true,
			},
		},
		"moderation": Tree{
			"mute_role_id":       nil,
			"mod_log_channel_id": nil,
			"allowed_roles":      []any{},
		},
		"automod": Tree{
			"enabled":           true,
			"anti_link":         false,
			"anti_invite":       false,
			"anti_spam":         false,
			"bad_words_enabled": false,
			"bad_words_list":    []any{},
		},
		"leveling": Tree{
			"enabled":             true,
			"levelup_message":     "🎉 Congrats {user}, you reached **Level {level}**!",
			"xp_per_message_min":  15,
			"xp_per_message_max":  25,
			"xp_cooldown_seconds": 60,
		},
		"economy": Tree{
			"enabled":         true,
			"start_balance":   100,
			"daily_amount":    200,
			"currency_symbol": "🪙",
			"currency_name":   "Maxy Coin",
		},
		"tickets": Tree{
			"enabled":               false,
			"category_id":           nil,
			"support_role_id":       nil,
			"transcript_channel_id": nil,
			"panel_channel_id":      nil,
		},
		"autorole": Tree{
			"enabled":       false,
			"human_role_id": nil,
			"bot_role_id":   nil,
		},
		"starboard": Tree{
			"enabled":    false,
			"channel_id": nil,
			"star_count": 5,
		},
		"autoresponder": Tree{
			"enabled": true,
		},
		"disabled_commands": []any{},
	}
}
