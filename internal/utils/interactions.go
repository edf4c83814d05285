package utils

import (
	"github.com/bwmarrin/discordgo"
)

var standardEmbedFooter = &discordgo.MessageEmbedFooter{
	Text: "Run /help for more options",
}

// NewEmbed creates a new embed with the standard footer and neutral color
func NewEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:  Colors.Ok(),
		Footer: standardEmbedFooter,
	}
}

// NewOKEmbed creates a new success embed with the given title and description
func NewOKEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       Colors.Ok(),
		Footer:      standardEmbedFooter,
	}
}

// NewErrorEmbed creates a new error embed with the given title and description
func NewErrorEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ " + title,
		Description: description,
		Color:       Colors.Error(),
		Footer:      standardEmbedFooter,
	}
}

// RespondEmbed sends an immediate embed response to an interaction.
func RespondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// RespondEphemeral sends an immediate ephemeral text response.
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondEphemeralEmbed sends an immediate ephemeral embed response.
func RespondEphemeralEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
