package events

import (
	"strings"

	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// OnGuildMemberAdd welcomes new members and applies the autorole.
func (h *Handler) OnGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	guildID := utils.ParseSnowflake(m.GuildID)
	if guildID == 0 {
		return
	}
	tree := h.guilds.Effective(guildID)

	h.applyAutorole(s, m, tree)
	h.sendFarewellOrWelcome(s, "welcome", m.GuildID, m.User, tree)
}

func (h *Handler) applyAutorole(s *discordgo.Session, m *discordgo.GuildMemberAdd, tree guildconfig.Tree) {
	if !guildconfig.Bool(tree, "autorole", "enabled") {
		return
	}

	key := "human_role_id"
	if m.User.Bot {
		key = "bot_role_id"
	}
	roleID := guildconfig.String(tree, "autorole", key)
	if roleID == "" {
		return
	}

	if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, roleID); err != nil {
		h.cfg.Logger.Warnf("failed to apply autorole %s in guild %s: %v", roleID, m.GuildID, err)
		return
	}
	h.cfg.Logger.Infof("applied autorole %s to %s in guild %s", roleID, m.User.ID, m.GuildID)
}

// sendFarewellOrWelcome posts the configured welcome or goodbye message.
// section is "welcome" or "goodbye"; both share the same config shape.
func (h *Handler) sendFarewellOrWelcome(s *discordgo.Session, section, guildID string, user *discordgo.User, tree guildconfig.Tree) {
	if !guildconfig.Bool(tree, section, "enabled") {
		return
	}
	channelID := guildconfig.String(tree, section, "channel_id")
	if channelID == "" {
		return
	}

	guildName := guildID
	if guild, err := s.Guild(guildID); err == nil {
		guildName = guild.Name
	}

	text := strings.NewReplacer(
		"{user}", user.Mention(),
		"{guild}", guildName,
	).Replace(guildconfig.String(tree, section, "message"))

	if guildconfig.Bool(tree, section, "embed", "enabled") {
		embed := utils.NewEmbed()
		embed.Title = guildconfig.String(tree, section, "embed", "title")
		embed.Description = guildconfig.String(tree, section, "embed", "description") + "\n\n" + text
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")}
		if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
			h.cfg.Logger.Warnf("failed to send %s embed: %v", section, err)
		}
		return
	}

	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		h.cfg.Logger.Warnf("failed to send %s message: %v", section, err)
	}
}
