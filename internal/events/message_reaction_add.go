package events

import (
	"fmt"
	"time"

	"maxybot/internal/database"
	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const starEmoji = "⭐"

// OnMessageReactionAdd mirrors sufficiently starred messages into the
// guild's starboard channel. The first time a message crosses the star
// threshold it gets a mirror post; further stars edit the count on the
// existing mirror.
func (h *Handler) OnMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" || r.Emoji.Name != starEmoji {
		return
	}

	guildID := utils.ParseSnowflake(r.GuildID)
	if guildID == 0 {
		return
	}
	tree := h.guilds.Effective(guildID)
	if !guildconfig.Bool(tree, "starboard", "enabled") {
		return
	}
	boardChannelID := guildconfig.String(tree, "starboard", "channel_id")
	if boardChannelID == "" || boardChannelID == r.ChannelID {
		// No board configured, or the starred message is on the board
		// itself. Mirroring the board would loop.
		return
	}

	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		h.cfg.Logger.Warnf("failed to fetch starred message: %v", err)
		return
	}
	if msg.Author == nil || msg.Author.Bot {
		return
	}

	stars := starCount(msg)
	if stars < guildconfig.Int(tree, "starboard", "star_count") {
		return
	}

	link, err := h.db.StarboardLink(r.MessageID)
	if err != nil {
		h.cfg.Logger.Errorf("starboard lookup failed: %v", err)
		return
	}

	header := fmt.Sprintf("%s **%d** | <#%s>", starEmoji, stars, r.ChannelID)
	if link != nil {
		if _, err := s.ChannelMessageEdit(boardChannelID, link.StarboardMessageID, header); err != nil {
			h.cfg.Logger.Warnf("failed to update starboard post: %v", err)
		}
		return
	}

	posted, err := s.ChannelMessageSendComplex(boardChannelID, &discordgo.MessageSend{
		Content: header,
		Embed:   starboardEmbed(msg, r.GuildID),
	})
	if err != nil {
		h.cfg.Logger.Warnf("failed to post to starboard: %v", err)
		return
	}

	if err := h.db.SaveStarboardLink(&database.StarboardLink{
		OriginalMessageID:  r.MessageID,
		StarboardMessageID: posted.ID,
		GuildID:            r.GuildID,
	}); err != nil {
		h.cfg.Logger.Errorf("failed to save starboard link: %v", err)
	}
}

// starCount returns how many star reactions a message carries.
func starCount(msg *discordgo.Message) int {
	for _, reaction := range msg.Reactions {
		if reaction.Emoji != nil && reaction.Emoji.Name == starEmoji {
			return reaction.Count
		}
	}
	return 0
}

// starboardEmbed builds the mirror embed for a starred message.
func starboardEmbed(msg *discordgo.Message, guildID string) *discordgo.MessageEmbed {
	embed := utils.NewEmbed()
	embed.Color = utils.Colors.Gold()
	embed.Description = msg.Content
	embed.Author = &discordgo.MessageEmbedAuthor{
		Name:    msg.Author.Username,
		IconURL: msg.Author.AvatarURL(""),
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:  "Source",
			Value: fmt.Sprintf("[Jump to message](https://discord.com/channels/%s/%s/%s)", guildID, msg.ChannelID, msg.ID),
		},
	}
	embed.Timestamp = msg.Timestamp.Format(time.RFC3339)

	// Surface the first image attachment, if any.
	for _, attachment := range msg.Attachments {
		if attachment.Width > 0 {
			embed.Image = &discordgo.MessageEmbedImage{URL: attachment.URL}
			break
		}
	}

	return embed
}
