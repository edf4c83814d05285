package events

import (
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// OnGuildMemberRemove posts the configured goodbye message.
func (h *Handler) OnGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	guildID := utils.ParseSnowflake(m.GuildID)
	if guildID == 0 {
		return
	}

	h.sendFarewellOrWelcome(s, "goodbye", m.GuildID, m.User, h.guilds.Effective(guildID))
}
