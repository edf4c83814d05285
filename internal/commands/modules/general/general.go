package general

import (
	"fmt"
	"runtime"
	"time"

	"maxybot/internal/commands/types"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// GeneralModule implements the CommandModule interface for the
// serverinfo, userinfo, avatar and stats commands
type GeneralModule struct {
	startTime time.Time
}

// New creates a new general module
func New() *GeneralModule {
	return &GeneralModule{startTime: time.Now()}
}

// Register adds the general commands to the command map
func (m *GeneralModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	cmds["serverinfo"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "serverinfo",
			Description: "Show information about this server",
		},
		HandlerFunc: m.handleServerInfo,
	}

	cmds["userinfo"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "userinfo",
			Description: "Show information about a member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		HandlerFunc: m.handleUserInfo,
	}

	cmds["avatar"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "avatar",
			Description: "Show a member's avatar in full size",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member whose avatar to show (defaults to you)",
					Required:    false,
				},
			},
		},
		HandlerFunc: m.handleAvatar,
	}

	cmds["stats"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "stats",
			Description: "Show bot uptime and statistics",
		},
		HandlerFunc: m.handleStats,
	}
}

func (m *GeneralModule) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	uptime := time.Since(m.startTime).Round(time.Second)

	embed := utils.NewEmbed()
	embed.Title = "📊 Bot Stats"
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Uptime", Value: uptime.String(), Inline: true},
		{Name: "Servers", Value: fmt.Sprintf("%d", len(s.State.Guilds)), Inline: true},
		{Name: "Go", Value: runtime.Version(), Inline: true},
	}

	_ = utils.RespondEmbed(s, i, embed)
}

func (m *GeneralModule) handleServerInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	guild, err := s.Guild(i.GuildID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not fetch server information.")
		return
	}

	embed := utils.NewEmbed()
	embed.Title = guild.Name
	if guild.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("256")}
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Owner", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true},
		{Name: "Members", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
		{Name: "Roles", Value: fmt.Sprintf("%d", len(guild.Roles)), Inline: true},
		{Name: "Emojis", Value: fmt.Sprintf("%d", len(guild.Emojis)), Inline: true},
		{Name: "Boost Level", Value: fmt.Sprintf("%d", guild.PremiumTier), Inline: true},
		{Name: "Server ID", Value: guild.ID, Inline: true},
	}

	_ = utils.RespondEmbed(s, i, embed)
}

func (m *GeneralModule) handleUserInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := optionUserOrSelf(s, i)
	if user == nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not resolve that user.")
		return
	}

	embed := utils.NewEmbed()
	embed.Title = user.Username
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "User ID", Value: user.ID, Inline: true},
		{Name: "Bot", Value: fmt.Sprintf("%t", user.Bot), Inline: true},
	}

	if i.GuildID != "" {
		if member, err := s.GuildMember(i.GuildID, user.ID); err == nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "Joined",
				Value:  fmt.Sprintf("<t:%d:R>", member.JoinedAt.Unix()),
				Inline: true,
			})
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "Roles",
				Value:  fmt.Sprintf("%d", len(member.Roles)),
				Inline: true,
			})
		}
	}

	_ = utils.RespondEmbed(s, i, embed)
}

func (m *GeneralModule) handleAvatar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := optionUserOrSelf(s, i)
	if user == nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not resolve that user.")
		return
	}

	embed := utils.NewEmbed()
	embed.Title = user.Username + "'s avatar"
	embed.Image = &discordgo.MessageEmbedImage{URL: user.AvatarURL("1024")}

	_ = utils.RespondEmbed(s, i, embed)
}

// optionUserOrSelf resolves the optional "user" option, falling back to the
// invoking user.
func optionUserOrSelf(s *discordgo.Session, i *discordgo.InteractionCreate) *discordgo.User {
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "user" {
			return option.UserValue(s)
		}
	}
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// Service returns nil as this module has no services requiring initialization
func (m *GeneralModule) Service() types.ModuleService {
	return nil
}
