package remind

import (
	"fmt"
	"strings"
	"time"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// RemindModule implements the CommandModule interface for the remind command
type RemindModule struct {
	db      *database.DB
	service *Service
}

// New creates a new remind module
func New() *RemindModule {
	return &RemindModule{}
}

// Register adds the remind command to the command map
func (m *RemindModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	m.db = deps.DB
	m.service = NewService(deps.DB, deps.Config.Logger)

	cmds["remind"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "remind",
			Description: "Set reminders for yourself",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set a new reminder",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "when",
							Description: "When to remind you, e.g. 'in 2 hours' or 'tomorrow 9am'",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "What to remind you about",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your pending reminders",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete one of your reminders",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Reminder ID, from /remind list",
							Required:    true,
						},
					},
				},
			},
		},
		HandlerFunc: m.handleRemind,
	}
}

func (m *RemindModule) handleRemind(s *discordgo.Session, i *discordgo.InteractionCreate) {
	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "set":
			m.handleSet(s, i, option)
		case "list":
			m.handleList(s, i)
		case "delete":
			m.handleDelete(s, i, option)
		}
	}
}

func (m *RemindModule) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) {
	var when, message string
	for _, sub := range option.Options {
		switch sub.Name {
		case "when":
			when = sub.StringValue()
		case "message":
			message = sub.StringValue()
		}
	}

	ts, err := utils.ParseUnixTimestamp(when)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ I couldn't understand that time. Try something like `in 2 hours` or `tomorrow 9am`.")
		return
	}
	due := time.Unix(ts, 0)
	if !due.After(time.Now()) {
		_ = utils.RespondEphemeral(s, i, "❌ That time is in the past.")
		return
	}

	id, err := m.db.AddReminder(invokingUserID(i), i.ChannelID, message, due)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not save the reminder.")
		return
	}

	_ = utils.RespondEphemeral(s, i, fmt.Sprintf("⏰ Reminder #%d set for <t:%d:F> (<t:%d:R>).", id, ts, ts))
}

func (m *RemindModule) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	reminders, err := m.db.UserReminders(invokingUserID(i))
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not list your reminders.")
		return
	}
	if len(reminders) == 0 {
		_ = utils.RespondEphemeral(s, i, "You have no pending reminders.")
		return
	}

	var b strings.Builder
	for _, r := range reminders {
		fmt.Fprintf(&b, "• **#%d** <t:%d:R> — %s\n", r.ReminderID, r.RemindTimestamp, r.Content)
	}

	embed := utils.NewEmbed()
	embed.Title = "⏰ Your Reminders"
	embed.Description = b.String()
	_ = utils.RespondEphemeralEmbed(s, i, embed)
}

func (m *RemindModule) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) {
	var id int64
	for _, sub := range option.Options {
		if sub.Name == "id" {
			id = sub.IntValue()
		}
	}

	// Only the owner may delete a reminder.
	reminders, err := m.db.UserReminders(invokingUserID(i))
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up your reminders.")
		return
	}
	owned := false
	for _, r := range reminders {
		if r.ReminderID == id {
			owned = true
			break
		}
	}
	if !owned {
		_ = utils.RespondEphemeral(s, i, "❌ You have no reminder with that ID.")
		return
	}

	if err := m.db.DeleteReminder(id); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not delete the reminder.")
		return
	}
	_ = utils.RespondEphemeral(s, i, "✅ Reminder deleted.")
}

func invokingUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// Service returns the delivery service for session hydration and scheduling
func (m *RemindModule) Service() types.ModuleService {
	if m.service == nil {
		return nil
	}
	return m.service
}
