package giveaway

import (
	"fmt"
	"strings"
	"time"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// JoinButtonPrefix is the custom id prefix for giveaway join buttons; the
// giveaway's message id follows the colon.
const JoinButtonPrefix = "giveaway_join:"

// GiveawayModule implements the CommandModule interface for the giveaway
// command and the join button component
type GiveawayModule struct {
	db      *database.DB
	service *Service
}

// New creates a new giveaway module
func New() *GiveawayModule {
	return &GiveawayModule{}
}

// Register adds the giveaway command to the command map
func (m *GiveawayModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	m.db = deps.DB
	m.service = NewService(deps.DB, deps.Config.Logger)

	var managePerms int64 = discordgo.PermissionManageGuild
	minWinners := float64(1)

	cmds["giveaway"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:                     "giveaway",
			Description:              "Manage giveaways",
			DefaultMemberPermissions: &managePerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a new giveaway in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "duration",
							Description: "How long it runs, e.g. 10m, 1h, 2d",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "prize",
							Description: "What's being given away",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "winners",
							Description: "Number of winners (default 1)",
							Required:    false,
							MinValue:    &minWinners,
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "required_role",
							Description: "Role required to win (optional)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "End a giveaway early and draw winners",
					Options:     messageIDOption("Message ID of the giveaway"),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reroll",
					Description: "Draw new winners for an ended giveaway",
					Options:     messageIDOption("Message ID of the ended giveaway"),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's active giveaways",
				},
			},
		},
		HandlerFunc: m.handleGiveaway,
	}
}

func messageIDOption(description string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message_id",
			Description: description,
			Required:    true,
		},
	}
}

func (m *GiveawayModule) handleGiveaway(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "start":
			m.handleStart(s, i, option)
		case "end":
			m.handleEnd(s, i, option)
		case "reroll":
			m.handleReroll(s, i, option)
		case "list":
			m.handleList(s, i)
		}
	}
}

func (m *GiveawayModule) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) {
	var durationRaw, prize, requiredRole string
	winners := 1
	for _, sub := range option.Options {
		switch sub.Name {
		case "duration":
			durationRaw = sub.StringValue()
		case "prize":
			prize = sub.StringValue()
		case "winners":
			winners = int(sub.IntValue())
		case "required_role":
			requiredRole = sub.RoleValue(s, i.GuildID).ID
		}
	}

	duration, err := utils.ParseShortDuration(durationRaw)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ "+err.Error())
		return
	}

	endsAt := time.Now().Add(duration)

	embed := utils.NewEmbed()
	embed.Title = "🎉 Giveaway!"
	embed.Color = utils.Colors.Gold()
	embed.Description = fmt.Sprintf("**Prize:** %s\n**Winners:** %d\nEnds <t:%d:R>", prize, winners, endsAt.Unix())
	if requiredRole != "" {
		embed.Description += fmt.Sprintf("\nRequires <@&%s> to win.", requiredRole)
	}

	// Send the announcement first; its message id keys the giveaway row and
	// the join button.
	msg, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not post the giveaway announcement.")
		return
	}

	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      msg.ID,
		Channel: msg.ChannelID,
		Components: &[]discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "🎉 Join",
						Style:    discordgo.PrimaryButton,
						CustomID: JoinButtonPrefix + msg.ID,
					},
				},
			},
		},
	})
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not attach the join button.")
		return
	}

	err = m.db.CreateGiveaway(&database.Giveaway{
		MessageID:    msg.ID,
		GuildID:      i.GuildID,
		ChannelID:    i.ChannelID,
		Prize:        prize,
		EndTimestamp: endsAt.Unix(),
		WinnerCount:  winners,
		RequiredRole: requiredRole,
	})
	if err != nil {
		_ = s.ChannelMessageDelete(msg.ChannelID, msg.ID)
		_ = utils.RespondEphemeral(s, i, "❌ Could not save the giveaway.")
		return
	}

	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("✅ Giveaway started! It ends <t:%d:R>.", endsAt.Unix()))
}

func (m *GiveawayModule) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) {
	g := m.guildGiveaway(s, i, option)
	if g == nil {
		return
	}

	ended, err := m.db.MarkGiveawayEnded(g.MessageID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not end the giveaway.")
		return
	}
	if !ended {
		_ = utils.RespondEphemeral(s, i, "❌ That giveaway has already ended. Use `/giveaway reroll` to redraw.")
		return
	}

	if err := m.service.Conclude(g); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not draw winners: "+err.Error())
		return
	}

	_ = utils.RespondEphemeral(s, i, "✅ Giveaway ended and winners drawn.")
}

func (m *GiveawayModule) handleReroll(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) {
	g := m.guildGiveaway(s, i, option)
	if g == nil {
		return
	}

	if !g.IsEnded {
		_ = utils.RespondEphemeral(s, i, "❌ That giveaway is still running. End it first with `/giveaway end`.")
		return
	}

	if err := m.service.Conclude(g); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not redraw winners: "+err.Error())
		return
	}

	_ = utils.RespondEphemeral(s, i, "✅ New winners drawn.")
}

func (m *GiveawayModule) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	active, err := m.db.ActiveGiveaways(i.GuildID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not list giveaways.")
		return
	}
	if len(active) == 0 {
		_ = utils.RespondEphemeral(s, i, "No active giveaways in this server.")
		return
	}

	var b strings.Builder
	for _, g := range active {
		fmt.Fprintf(&b, "• **%s** — %d winner(s), ends <t:%d:R> (`%s`)\n",
			g.Prize, g.WinnerCount, g.EndTimestamp, g.MessageID)
	}

	embed := utils.NewEmbed()
	embed.Title = "🎉 Active Giveaways"
	embed.Color = utils.Colors.Gold()
	embed.Description = b.String()
	_ = utils.RespondEphemeralEmbed(s, i, embed)
}

// guildGiveaway resolves the message_id option to a giveaway in the invoking
// guild, replying with an error (and returning nil) when it can't.
func (m *GiveawayModule) guildGiveaway(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) *database.Giveaway {
	var messageID string
	for _, sub := range option.Options {
		if sub.Name == "message_id" {
			messageID = strings.TrimSpace(sub.StringValue())
		}
	}

	g, err := m.db.GetGiveaway(messageID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up that giveaway.")
		return nil
	}
	if g == nil || g.GuildID != i.GuildID {
		_ = utils.RespondEphemeral(s, i, "❌ No giveaway with that message ID in this server.")
		return nil
	}
	return g
}

// HandleComponent handles presses of the giveaway join button
func (m *GiveawayModule) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	messageID := strings.TrimPrefix(i.MessageComponentData().CustomID, JoinButtonPrefix)

	g, err := m.db.GetGiveaway(messageID)
	if err != nil || g == nil {
		_ = utils.RespondEphemeral(s, i, "❌ This giveaway no longer exists.")
		return
	}
	if g.IsEnded || g.EndTimestamp <= time.Now().Unix() {
		_ = utils.RespondEphemeral(s, i, "❌ This giveaway has already ended.")
		return
	}

	added, err := m.db.AddEntrant(messageID, i.Member.User.ID)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not record your entry.")
		return
	}
	if !added {
		_ = utils.RespondEphemeral(s, i, "You're already entered in this giveaway. Good luck!")
		return
	}

	_ = utils.RespondEphemeral(s, i, "🎉 You're in! Winners are drawn when the giveaway ends.")
}

// Service returns the sweep service for session hydration and scheduling
func (m *GiveawayModule) Service() types.ModuleService {
	if m.service == nil {
		return nil
	}
	return m.service
}
