package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"maxybot/internal/commands/types"
	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// settable value kinds
const (
	kindString = "string"
	kindInt    = "int"
	kindBool   = "bool"
)

// settableKeys enumerates the guild configuration keys exposed through
// /config. The general path setter can write anywhere, but the command
// surface is deliberately restricted to known keys so typos don't silently
// create dead branches in the override document.
var settableKeys = map[string]struct {
	path []string
	kind string
}{
	"prefix":                      {[]string{"prefix"}, kindString},
	"welcome.enabled":             {[]string{"welcome", "enabled"}, kindBool},
	"welcome.channel_id":          {[]string{"welcome", "channel_id"}, kindString},
	"welcome.message":             {[]string{"welcome", "message"}, kindString},
	"goodbye.enabled":             {[]string{"goodbye", "enabled"}, kindBool},
	"goodbye.channel_id":          {[]string{"goodbye", "channel_id"}, kindString},
	"goodbye.message":             {[]string{"goodbye", "message"}, kindString},
	"logging.enabled":             {[]string{"logging", "enabled"}, kindBool},
	"logging.channel_id":          {[]string{"logging", "channel_id"}, kindString},
	"leveling.enabled":            {[]string{"leveling", "enabled"}, kindBool},
	"leveling.levelup_message":    {[]string{"leveling", "levelup_message"}, kindString},
	"leveling.xp_per_message_min": {[]string{"leveling", "xp_per_message_min"}, kindInt},
	"leveling.xp_per_message_max": {[]string{"leveling", "xp_per_message_max"}, kindInt},
	"leveling.xp_cooldown_seconds": {[]string{"leveling", "xp_cooldown_seconds"},
		kindInt},
	"economy.enabled":         {[]string{"economy", "enabled"}, kindBool},
	"economy.start_balance":   {[]string{"economy", "start_balance"}, kindInt},
	"economy.daily_amount":    {[]string{"economy", "daily_amount"}, kindInt},
	"economy.currency_symbol": {[]string{"economy", "currency_symbol"}, kindString},
	"economy.currency_name":   {[]string{"economy", "currency_name"}, kindString},
	"autorole.enabled":        {[]string{"autorole", "enabled"}, kindBool},
	"autorole.human_role_id":  {[]string{"autorole", "human_role_id"}, kindString},
	"autorole.bot_role_id":    {[]string{"autorole", "bot_role_id"}, kindString},
	"starboard.enabled":       {[]string{"starboard", "enabled"}, kindBool},
	"starboard.channel_id":    {[]string{"starboard", "channel_id"}, kindString},
	"starboard.star_count":    {[]string{"starboard", "star_count"}, kindInt},
	"autoresponder.enabled":   {[]string{"autoresponder", "enabled"}, kindBool},
	"automod.enabled":         {[]string{"automod", "enabled"}, kindBool},
	"automod.anti_link":       {[]string{"automod", "anti_link"}, kindBool},
	"automod.anti_invite":     {[]string{"automod", "anti_invite"}, kindBool},
}

// ConfigModule implements the CommandModule interface for per-guild
// configuration commands
type ConfigModule struct {
	guilds *guildconfig.Store
}

// New creates a new config module
func New() *ConfigModule {
	return &ConfigModule{}
}

// Register adds the config command to the command map
func (m *ConfigModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	m.guilds = deps.Guilds

	var managePerms int64 = discordgo.PermissionManageGuild

	cmds["config"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:                     "config",
			Description:              "View or change this server's bot configuration",
			DefaultMemberPermissions: &managePerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "get",
					Description: "Show the current value of a configuration key",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "key",
							Description: "Configuration key, e.g. leveling.xp_per_message_min",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set a configuration value for this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "key",
							Description: "Configuration key, e.g. prefix",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "value",
							Description: "New value",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Reset a configuration key back to its default",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "key",
							Description: "Configuration key to reset",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable-command",
					Description: "Disable a bot command in this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "command",
							Description: "Command name, without the slash",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable-command",
					Description: "Re-enable a previously disabled command",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "command",
							Description: "Command name, without the slash",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list-keys",
					Description: "List all configurable keys and their current values",
				},
			},
		},
		HandlerFunc: m.handleConfig,
	}
}

func (m *ConfigModule) handleConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil || guildID == 0 {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "get":
			m.handleGet(s, i, guildID, subOptionString(option, "key"))
		case "set":
			m.handleSet(s, i, guildID, subOptionString(option, "key"), subOptionString(option, "value"))
		case "reset":
			m.handleReset(s, i, guildID, subOptionString(option, "key"))
		case "disable-command":
			m.handleToggleCommand(s, i, guildID, subOptionString(option, "command"), true)
		case "enable-command":
			m.handleToggleCommand(s, i, guildID, subOptionString(option, "command"), false)
		case "list-keys":
			m.handleListKeys(s, i, guildID)
		}
	}
}

func (m *ConfigModule) handleGet(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, key string) {
	entry, ok := settableKeys[key]
	if !ok {
		_ = utils.RespondEphemeral(s, i, "❌ Unknown configuration key: `"+key+"`")
		return
	}

	value, _ := guildconfig.Lookup(m.guilds.Effective(guildID), entry.path...)
	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("🔧 `%s` = `%s`", key, formatValue(value)))
}

func (m *ConfigModule) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, key, value string) {
	entry, ok := settableKeys[key]
	if !ok {
		_ = utils.RespondEphemeral(s, i, "❌ Unknown configuration key: `"+key+"`. Use `/config list-keys` to see what's available.")
		return
	}

	parsed, err := parseValue(entry.kind, value)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ "+err.Error())
		return
	}

	if err := m.guilds.SetPath(guildID, entry.path, parsed); err != nil {
		if errors.Is(err, guildconfig.ErrPathConflict) {
			_ = utils.RespondEphemeral(s, i, "❌ That key conflicts with an existing setting and was not changed.")
			return
		}
		_ = utils.RespondEphemeral(s, i, "❌ Failed to update configuration: "+err.Error())
		return
	}

	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("✅ `%s` is now `%s`.", key, formatValue(parsed)))
}

func (m *ConfigModule) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, key string) {
	entry, ok := settableKeys[key]
	if !ok {
		_ = utils.RespondEphemeral(s, i, "❌ Unknown configuration key: `"+key+"`")
		return
	}

	if err := m.guilds.ResetPath(guildID, entry.path); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Failed to reset configuration: "+err.Error())
		return
	}

	value, _ := guildconfig.Lookup(m.guilds.Effective(guildID), entry.path...)
	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("✅ `%s` reset to its default (`%s`).", key, formatValue(value)))
}

func (m *ConfigModule) handleToggleCommand(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, command string, disable bool) {
	command = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(command), "/"))
	if command == "" {
		_ = utils.RespondEphemeral(s, i, "❌ No command name provided.")
		return
	}
	if command == "config" {
		_ = utils.RespondEphemeral(s, i, "❌ The config command cannot be disabled.")
		return
	}

	current := guildconfig.Strings(m.guilds.Effective(guildID), "disabled_commands")

	updated := make([]any, 0, len(current)+1)
	for _, c := range current {
		if !strings.EqualFold(c, command) {
			updated = append(updated, c)
		}
	}
	if disable {
		updated = append(updated, command)
	}

	if err := m.guilds.SetPath(guildID, []string{"disabled_commands"}, updated); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Failed to update configuration: "+err.Error())
		return
	}

	if disable {
		_ = utils.RespondEphemeral(s, i, "✅ `/"+command+"` is now disabled in this server.")
	} else {
		_ = utils.RespondEphemeral(s, i, "✅ `/"+command+"` is enabled again.")
	}
}

func (m *ConfigModule) handleListKeys(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	tree := m.guilds.Effective(guildID)

	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		value, _ := guildconfig.Lookup(tree, settableKeys[k].path...)
		fmt.Fprintf(&b, "• `%s`: `%s`\n", k, formatValue(value))
	}

	embed := utils.NewEmbed()
	embed.Title = "🔧 Server Configuration"
	embed.Description = b.String() + "\n*Use `/config set <key> <value>` to change any of these.*"
	_ = utils.RespondEphemeralEmbed(s, i, embed)
}

// parseValue converts the raw option string into the typed value a key expects.
func parseValue(kind, raw string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", raw)
		}
		return n, nil
	case kindBool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "on", "yes", "enabled", "1":
			return true, nil
		case "false", "off", "no", "disabled", "0":
			return false, nil
		}
		return nil, fmt.Errorf("expected true or false, got %q", raw)
	default:
		return raw, nil
	}
}

func formatValue(v any) string {
	if v == nil {
		return "(not set)"
	}
	return fmt.Sprintf("%v", v)
}

// subOptionString extracts a named string option from a subcommand.
func subOptionString(option *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, sub := range option.Options {
		if sub.Name == name {
			return sub.StringValue()
		}
	}
	return ""
}

// Service returns nil as this module has no services requiring initialization
func (m *ConfigModule) Service() types.ModuleService {
	return nil
}
