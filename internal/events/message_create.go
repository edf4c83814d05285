package events

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// OnMessageCreate handles message events: legacy prefix commands, the
// auto-responder, and the XP pipeline.
func (h *Handler) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from bots (including ourselves)
	if m.Author.Bot {
		return
	}

	guildID := utils.ParseSnowflake(m.GuildID)

	// Prefix lookup short-circuits outside guilds; DMs always use the
	// compiled-in default.
	prefix := h.guilds.Prefix(guildID)
	if strings.HasPrefix(m.Content, prefix) {
		h.handlePrefixCommand(s, m, strings.TrimPrefix(m.Content, prefix))
		return
	}

	if guildID == 0 {
		return
	}

	tree := h.guilds.Effective(guildID)

	if reply, err := h.responder.ResponseFor(guildID, m.GuildID, m.Content); err != nil {
		h.cfg.Logger.Errorf("auto-responder lookup failed: %v", err)
	} else if reply != "" {
		if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
			h.cfg.Logger.Warnf("failed to send auto-response: %v", err)
		}
	}

	h.awardMessageXP(s, m, guildID, tree)
}

// handlePrefixCommand serves the small legacy text-command surface. The real
// command set lives behind slash commands; the prefix only answers enough to
// point people there.
func (h *Handler) handlePrefixCommand(s *discordgo.Session, m *discordgo.MessageCreate, body string) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return
	}
	switch strings.ToLower(fields[0]) {
	case "ping":
		_, _ = s.ChannelMessageSend(m.ChannelID, "🏓 Pong!")
	case "help":
		_, _ = s.ChannelMessageSend(m.ChannelID, "All commands moved to slash commands. Try `/help`.")
	}
}

// awardMessageXP runs the leveling pipeline for one guild message: respect
// the per-guild XP cooldown, award a random amount in the configured range,
// and on level-up announce it and grant any reward role.
func (h *Handler) awardMessageXP(s *discordgo.Session, m *discordgo.MessageCreate, guildID int64, tree guildconfig.Tree) {
	if !guildconfig.Bool(tree, "leveling", "enabled") {
		return
	}

	cooldownSecs := guildconfig.Int(tree, "leveling", "xp_cooldown_seconds")
	policy := fmt.Sprintf("xp:%d", guildID)
	h.xpCooldowns.SetCommandCooldown(policy, 1, time.Duration(cooldownSecs)*time.Second)
	if retry := h.xpCooldowns.Acquire(utils.ParseSnowflake(m.Author.ID), policy); retry > 0 {
		return
	}

	min := guildconfig.Int(tree, "leveling", "xp_per_message_min")
	max := guildconfig.Int(tree, "leveling", "xp_per_message_max")
	if max < min {
		max = min
	}
	amount := int64(min + rand.Intn(max-min+1))

	record, leveledUp, err := h.db.AwardXP(m.GuildID, m.Author.ID, amount)
	if err != nil {
		h.cfg.Logger.Errorf("failed to award xp: %v", err)
		return
	}
	if !leveledUp {
		return
	}

	template := guildconfig.String(tree, "leveling", "levelup_message")
	announcement := strings.NewReplacer(
		"{user}", m.Author.Mention(),
		"{level}", fmt.Sprintf("%d", record.Level),
	).Replace(template)
	if _, err := s.ChannelMessageSend(m.ChannelID, announcement); err != nil {
		h.cfg.Logger.Warnf("failed to announce level-up: %v", err)
	}

	roleID, err := h.db.LevelReward(m.GuildID, record.Level)
	if err != nil {
		h.cfg.Logger.Errorf("failed to look up level reward: %v", err)
		return
	}
	if roleID != "" {
		if err := s.GuildMemberRoleAdd(m.GuildID, m.Author.ID, roleID); err != nil {
			h.cfg.Logger.Warnf("failed to grant level reward role %s: %v", roleID, err)
		}
	}
}
