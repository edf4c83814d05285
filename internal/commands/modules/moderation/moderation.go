package moderation

import (
	"fmt"
	"strings"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"
	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// ModerationModule implements the CommandModule interface for the warn,
// warnings and clearwarnings commands
type ModerationModule struct {
	db     *database.DB
	guilds *guildconfig.Store
}

// New creates a new moderation module
func New() *ModerationModule {
	return &ModerationModule{}
}

// Register adds the moderation commands to the command map
func (m *ModerationModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	m.db = deps.DB
	m.guilds = deps.Guilds

	var modPerms int64 = discordgo.PermissionModerateMembers

	cmds["warn"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:                     "warn",
			Description:              "Warn a member",
			DefaultMemberPermissions: &modPerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to warn",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why they are being warned",
					Required:    false,
				},
			},
		},
		HandlerFunc: m.handleWarn,
	}

	cmds["warnings"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:                     "warnings",
			Description:              "Show a member's warnings",
			DefaultMemberPermissions: &modPerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to look up",
					Required:    true,
				},
			},
		},
		HandlerFunc: m.handleWarnings,
	}

	cmds["clearwarnings"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:                     "clearwarnings",
			Description:              "Clear all of a member's warnings",
			DefaultMemberPermissions: &modPerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member whose warnings to clear",
					Required:    true,
				},
			},
		},
		HandlerFunc: m.handleClearWarnings,
	}
}

func (m *ModerationModule) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	var target *discordgo.User
	reason := "No reason provided"
	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "user":
			target = option.UserValue(s)
		case "reason":
			reason = option.StringValue()
		}
	}
	if target == nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not resolve that user.")
		return
	}
	if target.Bot {
		_ = utils.RespondEphemeral(s, i, "❌ Bots cannot be warned.")
		return
	}

	warnID, err := m.db.AddWarning(i.GuildID, target.ID, i.Member.User.ID, reason)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not save the warning.")
		return
	}

	_ = utils.RespondEmbed(s, i, utils.NewOKEmbed(
		"Member warned",
		fmt.Sprintf("%s has been warned (case #%d).\n**Reason:** %s", target.Mention(), warnID, reason),
	))

	// Best effort DM; members can have DMs closed.
	if dm, err := s.UserChannelCreate(target.ID); err == nil {
		_, _ = s.ChannelMessageSend(dm.ID, fmt.Sprintf("⚠️ You were warned in a server.\n**Reason:** %s", reason))
	}

	m.postModLog(s, i, target, warnID, reason)
}

// postModLog mirrors the warning into the guild's mod-log channel, if set.
func (m *ModerationModule) postModLog(s *discordgo.Session, i *discordgo.InteractionCreate, target *discordgo.User, warnID int64, reason string) {
	guildID := utils.ParseSnowflake(i.GuildID)
	if guildID == 0 {
		return
	}
	channelID := guildconfig.String(m.guilds.Effective(guildID), "moderation", "mod_log_channel_id")
	if channelID == "" {
		return
	}

	embed := utils.NewEmbed()
	embed.Title = fmt.Sprintf("⚠️ Warning #%d", warnID)
	embed.Color = utils.Colors.Error()
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Member", Value: target.Mention(), Inline: true},
		{Name: "Moderator", Value: i.Member.User.Mention(), Inline: true},
		{Name: "Reason", Value: reason, Inline: false},
	}
	_, _ = s.ChannelMessageSendEmbed(channelID, embed)
}

func (m *ModerationModule) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	var target *discordgo.User
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "user" {
			target = option.UserValue(s)
		}
	}
	if target == nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not resolve that user.")
		return
	}

	warnings, err := m.db.Warnings(i.GuildID, target.ID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up warnings.")
		return
	}
	if len(warnings) == 0 {
		_ = utils.RespondEphemeral(s, i, fmt.Sprintf("%s has no warnings.", target.Username))
		return
	}

	var b strings.Builder
	for _, w := range warnings {
		fmt.Fprintf(&b, "**#%d** by <@%s> — %s\n", w.WarnID, w.ModeratorID, w.Reason)
	}

	embed := utils.NewEmbed()
	embed.Title = fmt.Sprintf("⚠️ Warnings for %s (%d)", target.Username, len(warnings))
	embed.Description = b.String()
	_ = utils.RespondEphemeralEmbed(s, i, embed)
}

func (m *ModerationModule) handleClearWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	var target *discordgo.User
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "user" {
			target = option.UserValue(s)
		}
	}
	if target == nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not resolve that user.")
		return
	}

	cleared, err := m.db.ClearWarnings(i.GuildID, target.ID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not clear warnings.")
		return
	}

	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("✅ Cleared %d warning(s) for %s.", cleared, target.Username))
}

// Service returns nil as this module has no services requiring initialization
func (m *ModerationModule) Service() types.ModuleService {
	return nil
}
