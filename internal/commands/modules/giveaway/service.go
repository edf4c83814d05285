package giveaway

import (
	"fmt"
	"strings"
	"time"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Service sweeps for due giveaways and concludes them. The sweep runs every
// 15 seconds; MarkGiveawayEnded is the idempotency gate, so overlapping
// sweeps can never announce the same giveaway twice.
type Service struct {
	types.BaseService

	db     *database.DB
	logger *log.Logger
}

// NewService creates a new giveaway sweep service
func NewService(db *database.DB, logger *log.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Jobs returns the recurring sweep task.
func (s *Service) Jobs() []types.ScheduledJob {
	return []types.ScheduledJob{
		{Spec: "@every 15s", Name: "giveaway-sweep", Run: s.Sweep},
	}
}

// Sweep closes every giveaway whose end time has passed.
func (s *Service) Sweep() error {
	if s.Session == nil {
		return nil
	}

	due, err := s.db.DueGiveaways(time.Now())
	if err != nil {
		return fmt.Errorf("failed to list due giveaways: %w", err)
	}

	for _, g := range due {
		ended, err := s.db.MarkGiveawayEnded(g.MessageID)
		if err != nil {
			s.logger.Errorf("failed to end giveaway %s: %v", g.MessageID, err)
			continue
		}
		if !ended {
			// Another sweep got there first.
			continue
		}
		if err := s.Conclude(g); err != nil {
			s.logger.Errorf("failed to conclude giveaway %s: %v", g.MessageID, err)
		}
	}

	return nil
}

// Conclude draws winners for an already-ended giveaway and announces the
// result in its channel. Call only after MarkGiveawayEnded has returned true
// (or for a reroll of an ended giveaway).
func (s *Service) Conclude(g *database.Giveaway) error {
	winners, err := s.drawWinners(g)
	if err != nil {
		return err
	}

	var announcement string
	if len(winners) == 0 {
		announcement = fmt.Sprintf("🎉 The giveaway for **%s** ended with no valid entries.", g.Prize)
	} else {
		announcement = fmt.Sprintf("🎉 Congratulations %s! You won **%s**!", mentionList(winners), g.Prize)
	}

	_, err = s.Session.ChannelMessageSendComplex(g.ChannelID, &discordgo.MessageSend{
		Content: announcement,
		Reference: &discordgo.MessageReference{
			MessageID: g.MessageID,
			ChannelID: g.ChannelID,
			GuildID:   g.GuildID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to announce giveaway result: %w", err)
	}

	// Best effort: update the original announcement so the button stops
	// inviting entries.
	s.disableJoinButton(g)

	return nil
}

// drawWinners loads the entrant list, filters by the required role if one is
// set, and draws the configured number of winners.
func (s *Service) drawWinners(g *database.Giveaway) ([]string, error) {
	entrants, err := s.db.Entrants(g.MessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entrants: %w", err)
	}

	if g.RequiredRole != "" {
		eligible := entrants[:0]
		for _, userID := range entrants {
			member, err := s.Session.GuildMember(g.GuildID, userID)
			if err != nil {
				continue
			}
			for _, roleID := range member.Roles {
				if roleID == g.RequiredRole {
					eligible = append(eligible, userID)
					break
				}
			}
		}
		entrants = eligible
	}

	return pickWinners(entrants, g.WinnerCount), nil
}

func (s *Service) disableJoinButton(g *database.Giveaway) {
	embed := utils.NewEmbed()
	embed.Title = "🎉 Giveaway ended"
	embed.Color = utils.Colors.Gold()
	embed.Description = fmt.Sprintf("**Prize:** %s\nEnded <t:%d:R>.", g.Prize, g.EndTimestamp)

	_, err := s.Session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         g.MessageID,
		Channel:    g.ChannelID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &[]discordgo.MessageComponent{},
	})
	if err != nil {
		s.logger.Warnf("failed to edit ended giveaway message %s: %v", g.MessageID, err)
	}
}

func mentionList(userIDs []string) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = "<@" + id + ">"
	}
	return strings.Join(mentions, ", ")
}
