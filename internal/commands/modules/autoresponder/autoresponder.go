package autoresponder

import (
	"fmt"
	"regexp"
	"strings"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"
	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// AutoResponderModule implements the CommandModule interface for the
// autoresponse command and serves lookups for the message event handler
type AutoResponderModule struct {
	db     *database.DB
	guilds *guildconfig.Store
}

// New creates a new autoresponder module
func New() *AutoResponderModule {
	return &AutoResponderModule{}
}

// Register adds the autoresponse command to the command map
func (m *AutoResponderModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	m.db = deps.DB
	m.guilds = deps.Guilds

	var managePerms int64 = discordgo.PermissionManageGuild

	cmds["autoresponse"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:                     "autoresponse",
			Description:              "Manage automatic replies",
			DefaultMemberPermissions: &managePerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add an automatic reply",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "trigger",
							Description: "Text that triggers the reply",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "response",
							Description: "What the bot replies with",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "match",
							Description: "How the trigger is matched (default exact)",
							Required:    false,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "exact", Value: database.MatchExact},
								{Name: "contains", Value: database.MatchContains},
								{Name: "starts with", Value: database.MatchStartsWith},
								{Name: "ends with", Value: database.MatchEndsWith},
								{Name: "regex", Value: database.MatchRegex},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "case_sensitive",
							Description: "Match case exactly (default false)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove an automatic reply by its trigger",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "trigger",
							Description: "The trigger to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's automatic replies",
				},
			},
		},
		HandlerFunc: m.handleAutoResponse,
	}
}

func (m *AutoResponderModule) handleAutoResponse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "add":
			m.handleAdd(s, i, option)
		case "remove":
			m.handleRemove(s, i, option)
		case "list":
			m.handleList(s, i)
		}
	}
}

func (m *AutoResponderModule) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) {
	ar := &database.AutoResponse{
		GuildID:   i.GuildID,
		CreatorID: i.Member.User.ID,
		MatchType: database.MatchExact,
	}
	for _, sub := range option.Options {
		switch sub.Name {
		case "trigger":
			ar.Trigger = strings.TrimSpace(sub.StringValue())
		case "response":
			ar.Response = sub.StringValue()
		case "match":
			ar.MatchType = sub.StringValue()
		case "case_sensitive":
			ar.CaseSensitive = sub.BoolValue()
		}
	}

	if ar.Trigger == "" || ar.Response == "" {
		_ = utils.RespondEphemeral(s, i, "❌ Trigger and response must not be empty.")
		return
	}
	if ar.MatchType == database.MatchRegex {
		if _, err := regexp.Compile(ar.Trigger); err != nil {
			_ = utils.RespondEphemeral(s, i, "❌ Invalid regular expression: "+err.Error())
			return
		}
	}

	added, err := m.db.AddAutoResponse(ar)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not save the auto-response.")
		return
	}
	if !added {
		_ = utils.RespondEphemeral(s, i, "❌ A reply with that trigger already exists. Remove it first.")
		return
	}

	_ = utils.RespondEmbed(s, i, utils.NewOKEmbed(
		"Auto-response added",
		fmt.Sprintf("Messages matching `%s` (%s) will get a reply.", ar.Trigger, ar.MatchType),
	))
}

func (m *AutoResponderModule) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) {
	var trigger string
	for _, sub := range option.Options {
		if sub.Name == "trigger" {
			trigger = strings.TrimSpace(sub.StringValue())
		}
	}

	removed, err := m.db.RemoveAutoResponse(i.GuildID, trigger)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not remove the auto-response.")
		return
	}
	if !removed {
		_ = utils.RespondEphemeral(s, i, "❌ No auto-response with that trigger.")
		return
	}

	_ = utils.RespondEphemeral(s, i, "✅ Auto-response removed.")
}

func (m *AutoResponderModule) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	responses, err := m.db.AutoResponses(i.GuildID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not list auto-responses.")
		return
	}
	if len(responses) == 0 {
		_ = utils.RespondEphemeral(s, i, "No auto-responses configured in this server.")
		return
	}

	var b strings.Builder
	for _, ar := range responses {
		fmt.Fprintf(&b, "• `%s` (%s) → %s\n", ar.Trigger, ar.MatchType, ar.Response)
	}

	embed := utils.NewEmbed()
	embed.Title = "💬 Auto-Responses"
	embed.Description = b.String()
	_ = utils.RespondEphemeralEmbed(s, i, embed)
}

// ResponseFor returns the reply for a guild message, or "" when no trigger
// matches or the responder is disabled in the guild.
func (m *AutoResponderModule) ResponseFor(guildID int64, guildIDStr, content string) (string, error) {
	if guildID == 0 {
		return "", nil
	}
	if !guildconfig.Bool(m.guilds.Effective(guildID), "autoresponder", "enabled") {
		return "", nil
	}

	responses, err := m.db.AutoResponses(guildIDStr)
	if err != nil {
		return "", err
	}
	if match := FirstMatch(responses, content); match != nil {
		return match.Response, nil
	}
	return "", nil
}

// Service returns nil as this module has no services requiring initialization
func (m *AutoResponderModule) Service() types.ModuleService {
	return nil
}
