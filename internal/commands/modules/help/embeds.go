package help

import (
	"maxybot/internal/utils"

	"github.com/MakeNowJust/heredoc"
	"github.com/bwmarrin/discordgo"
)

// helpCommandsEmbed creates the main help embed showing all available commands
func helpCommandsEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🤖 MaxyBot - Help",
		Description: "A general-purpose server companion: economy, leveling, giveaways, auto-responses and more.",
		Color:       utils.Colors.Info(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "📋 General Commands:",
				Inline: false,
			},
			{
				Name:   "/ping",
				Value:  "Check if the bot is responsive",
				Inline: false,
			},
			{
				Name:   "/serverinfo",
				Value:  "Show information about this server",
				Inline: false,
			},
			{
				Name:   "/userinfo",
				Value:  "Show information about a member\n• Use `/userinfo user:@someone` for another member",
				Inline: false,
			},
			{
				Name:   "/avatar",
				Value:  "Show a member's avatar in full size",
				Inline: false,
			},
			{
				Name: "/remind",
				Value: heredoc.Doc(`
					Set a reminder for yourself
					• Use ` + "`/remind set when:tomorrow 9am message:standup`" + ` to create one
					• Use ` + "`/remind list`" + ` and ` + "`/remind delete`" + ` to manage them
				`),
				Inline: false,
			},
			{
				Name:   "💰 Economy Commands:",
				Inline: false,
			},
			{
				Name:   "/balance",
				Value:  "Show your wallet and bank balance",
				Inline: false,
			},
			{
				Name:   "/daily",
				Value:  "Collect your daily coins (once every 24 hours)",
				Inline: false,
			},
			{
				Name:   "/deposit",
				Value:  "Move coins from your wallet into your bank",
				Inline: false,
			},
			{
				Name:   "/pay",
				Value:  "Pay another member from your wallet\n• Use `/pay user:@someone amount:100`",
				Inline: false,
			},
			{
				Name:   "/richest",
				Value:  "Show the richest members of the server",
				Inline: false,
			},
			{
				Name:   "⭐ Leveling Commands:",
				Inline: false,
			},
			{
				Name:   "/rank",
				Value:  "Show your level, XP and server rank",
				Inline: false,
			},
			{
				Name:   "/leaderboard",
				Value:  "Show the server XP leaderboard",
				Inline: false,
			},
			{
				Name:   "🎉 Giveaway Commands:",
				Inline: false,
			},
			{
				Name: "/giveaway",
				Value: heredoc.Doc(`
					Manage giveaways (Manage Server required)
					• ` + "`/giveaway start duration:1h winners:1 prize:Nitro`" + ` - start one
					• ` + "`/giveaway end`" + ` / ` + "`/giveaway reroll`" + ` - finish or redraw
					• ` + "`/giveaway list`" + ` - list active giveaways
				`),
				Inline: false,
			},
			{
				Name:   "🛠️ Moderator Commands:",
				Inline: false,
			},
			{
				Name:   "/warn",
				Value:  "Warn a member\n• Use `/warnings user:@someone` to review, `/clearwarnings` to reset",
				Inline: false,
			},
			{
				Name:   "/autoresponse",
				Value:  "Manage automatic replies\n• `add`, `remove` and `list` subcommands",
				Inline: false,
			},
			{
				Name:   "/config",
				Value:  "View or change this server's bot configuration\n• `get`, `set` and `reset` subcommands",
				Inline: false,
			},
		},
	}
}
