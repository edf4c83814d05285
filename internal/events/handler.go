package events

import (
	"maxybot/internal/config"
	"maxybot/internal/cooldown"
	"maxybot/internal/database"
	"maxybot/internal/guildconfig"
)

// Responder resolves an automatic reply for a guild message.
type Responder interface {
	ResponseFor(guildID int64, guildIDStr, content string) (string, error)
}

// Handler holds the dependencies shared by all gateway event handlers.
type Handler struct {
	cfg       *config.Config
	db        *database.DB
	guilds    *guildconfig.Store
	responder Responder

	// xpCooldowns tracks the per-guild XP award window so chat spam
	// doesn't translate into XP. Keyed by a per-guild policy name.
	xpCooldowns *cooldown.Limiter
}

// NewHandler creates the event handler set.
func NewHandler(cfg *config.Config, db *database.DB, guilds *guildconfig.Store, responder Responder) *Handler {
	return &Handler{
		cfg:         cfg,
		db:          db,
		guilds:      guilds,
		responder:   responder,
		xpCooldowns: cooldown.New(1, 0),
	}
}
