package types

import (
	"time"

	"maxybot/internal/config"
	"maxybot/internal/cooldown"
	"maxybot/internal/database"
	"maxybot/internal/guildconfig"

	"github.com/bwmarrin/discordgo"
)

// Command represents a Discord application command with its handler
type Command struct {
	ApplicationCommand *discordgo.ApplicationCommand
	HandlerFunc        func(s *discordgo.Session, i *discordgo.InteractionCreate)
	Development        bool

	// CooldownRate/CooldownPer override the default sliding-window cooldown
	// for this command. Zero values mean the default policy applies.
	CooldownRate int
	CooldownPer  time.Duration
}

// BaseService provides common session hydration functionality for all services
type BaseService struct {
	Session *discordgo.Session // Exported for external hydration
}

// HydrateServiceDiscordSession hydrates the service with a Discord session
func (b *BaseService) HydrateServiceDiscordSession(s *discordgo.Session) error {
	b.Session = s
	return nil
}

// ScheduledJob is a recurring task a module service wants run by the
// scheduler. Spec is a cron spec understood by robfig/cron, e.g.
// "@every 15s" or "@hourly".
type ScheduledJob struct {
	Spec string
	Name string
	Run  func() error
}

// ModuleService represents a service that requires session initialization
// and may have recurring scheduled tasks
type ModuleService interface {
	// HydrateServiceDiscordSession hydrates the service with a Discord session
	// This is called after the Discord session is established
	HydrateServiceDiscordSession(s *discordgo.Session) error

	// Jobs returns the recurring tasks this service wants scheduled.
	// Returns nil if no scheduling is needed.
	Jobs() []ScheduledJob
}

// CommandModule represents a module that can register commands
// Each module should contain:
// - Command definition(s)
// - Handler function(s)
// - Associated service if needed (max one service per module)
type CommandModule interface {
	// Register adds the module's commands to the provided map
	Register(commands map[string]*Command, deps *Dependencies)

	// Service returns the service that needs session initialization
	// Returns nil if the module has no service requiring initialization
	Service() ModuleService
}

// Dependencies contains shared dependencies that command modules may need
type Dependencies struct {
	Config    *config.Config
	DB        *database.DB
	Guilds    *guildconfig.Store
	Cooldowns *cooldown.Limiter
	Session   *discordgo.Session // Set after bot initialization
}
