package events

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestStarCount(t *testing.T) {
	msg := &discordgo.Message{
		Reactions: []*discordgo.MessageReactions{
			{Emoji: &discordgo.Emoji{Name: "👍"}, Count: 12},
			{Emoji: &discordgo.Emoji{Name: starEmoji}, Count: 5},
		},
	}
	assert.Equal(t, 5, starCount(msg))

	assert.Zero(t, starCount(&discordgo.Message{}), "message without stars counts zero")
}

func TestStarboardEmbedLinksBackToSource(t *testing.T) {
	msg := &discordgo.Message{
		ID:        "111",
		ChannelID: "222",
		Content:   "a genuinely great message",
		Author:    &discordgo.User{Username: "alice"},
		Attachments: []*discordgo.MessageAttachment{
			{URL: "https://cdn.example/cat.png", Width: 640},
		},
	}

	embed := starboardEmbed(msg, "333")

	assert.Equal(t, "a genuinely great message", embed.Description)
	assert.Equal(t, "alice", embed.Author.Name)
	assert.Contains(t, embed.Fields[0].Value, "https://discord.com/channels/333/222/111")
	assert.Equal(t, "https://cdn.example/cat.png", embed.Image.URL)
}
