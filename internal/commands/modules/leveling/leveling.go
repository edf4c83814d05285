package leveling

import (
	"fmt"
	"strings"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"
	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// LevelingModule implements the CommandModule interface for the rank,
// leaderboard and levelreward commands
type LevelingModule struct {
	db     *database.DB
	guilds *guildconfig.Store
}

// New creates a new leveling module
func New() *LevelingModule {
	return &LevelingModule{}
}

// Register adds the leveling commands to the command map
func (m *LevelingModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	m.db = deps.DB
	m.guilds = deps.Guilds

	cmds["rank"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "rank",
			Description: "Show your level, XP and server rank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member whose rank to show (defaults to you)",
					Required:    false,
				},
			},
		},
		HandlerFunc: m.handleRank,
	}

	cmds["leaderboard"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "leaderboard",
			Description: "Show the server XP leaderboard",
		},
		HandlerFunc: m.handleLeaderboard,
	}

	var managePerms int64 = discordgo.PermissionManageGuild
	cmds["levelreward"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:                     "levelreward",
			Description:              "Grant a role automatically at a level",
			DefaultMemberPermissions: &managePerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Level at which the role is granted",
					Required:    true,
					MinValue:    levelMin(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to grant",
					Required:    true,
				},
			},
		},
		HandlerFunc: m.handleLevelReward,
	}
}

func levelMin() *float64 {
	v := float64(1)
	return &v
}

func (m *LevelingModule) enabled(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	guildID := utils.ParseSnowflake(i.GuildID)
	if guildID == 0 {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return false
	}
	if !guildconfig.Bool(m.guilds.Effective(guildID), "leveling", "enabled") {
		_ = utils.RespondEphemeral(s, i, "❌ Leveling is disabled in this server.")
		return false
	}
	return true
}

func (m *LevelingModule) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.enabled(s, i) {
		return
	}

	user := i.Member.User
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "user" {
			user = option.UserValue(s)
		}
	}

	record, err := m.db.GetLevel(i.GuildID, user.ID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up that rank.")
		return
	}
	rank, err := m.db.Rank(i.GuildID, user.ID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up that rank.")
		return
	}

	nextLevelXP := database.XPForNextLevel(record.Level)

	embed := utils.NewEmbed()
	embed.Title = fmt.Sprintf("⭐ %s's rank", user.Username)
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("128")}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Level", Value: fmt.Sprintf("%d", record.Level), Inline: true},
		{Name: "XP", Value: fmt.Sprintf("%d / %d", record.XP, nextLevelXP), Inline: true},
		{Name: "Rank", Value: fmt.Sprintf("#%d", rank), Inline: true},
	}

	_ = utils.RespondEmbed(s, i, embed)
}

func (m *LevelingModule) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.enabled(s, i) {
		return
	}

	top, err := m.db.TopLevels(i.GuildID, 10)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not load the leaderboard.")
		return
	}
	if len(top) == 0 {
		_ = utils.RespondEphemeral(s, i, "Nobody has earned any XP yet.")
		return
	}

	var b strings.Builder
	for idx, record := range top {
		fmt.Fprintf(&b, "**%d.** <@%s> — Level %d (%d XP)\n", idx+1, record.UserID, record.Level, record.XP)
	}

	embed := utils.NewEmbed()
	embed.Title = "🏆 XP Leaderboard"
	embed.Description = b.String()
	_ = utils.RespondEmbed(s, i, embed)
}

func (m *LevelingModule) handleLevelReward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.enabled(s, i) {
		return
	}

	var level int64
	var role *discordgo.Role
	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "level":
			level = option.IntValue()
		case "role":
			role = option.RoleValue(s, i.GuildID)
		}
	}
	if level < 1 || role == nil {
		_ = utils.RespondEphemeral(s, i, "❌ Invalid level or role.")
		return
	}

	if err := m.db.SetLevelReward(i.GuildID, level, role.ID); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not save the level reward.")
		return
	}

	_ = utils.RespondEmbed(s, i, utils.NewOKEmbed(
		"Level reward set",
		fmt.Sprintf("Members reaching **Level %d** will now receive %s.", level, role.Mention()),
	))
}

// Service returns nil as this module has no services requiring initialization
func (m *LevelingModule) Service() types.ModuleService {
	return nil
}
