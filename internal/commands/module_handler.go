package commands

import (
	"fmt"
	"strings"
	"time"

	"maxybot/internal/commands/modules/autoresponder"
	configmod "maxybot/internal/commands/modules/config"
	"maxybot/internal/commands/modules/economy"
	"maxybot/internal/commands/modules/general"
	"maxybot/internal/commands/modules/giveaway"
	"maxybot/internal/commands/modules/help"
	"maxybot/internal/commands/modules/leveling"
	"maxybot/internal/commands/modules/moderation"
	"maxybot/internal/commands/modules/ping"
	"maxybot/internal/commands/modules/remind"
	"maxybot/internal/commands/types"
	internalConfig "maxybot/internal/config"
	"maxybot/internal/cooldown"
	"maxybot/internal/database"
	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

// Default sliding-window cooldown applied to every command that does not
// declare its own policy: 1 use per 3 seconds per user.
const (
	defaultCooldownRate = 1
	defaultCooldownPer  = 3 * time.Second
)

// ModuleHandler manages command modules and routes interactions.
//
// Every slash command passes through two gates before its handler runs:
//
//  1. the per-guild disabled_commands list from the guild configuration
//  2. the per-user sliding-window cooldown for that command
//
// Some modules are also reached from outside the command system: the
// giveaway module owns the Join button component and a periodic sweep,
// and the autoresponder module is consulted by the message-create event
// handler. These are accessed via GetModule().
type ModuleHandler struct {
	commands  map[string]*types.Command
	modules   map[string]types.CommandModule
	config    *internalConfig.Config
	db        *database.DB
	guilds    *guildconfig.Store
	cooldowns *cooldown.Limiter
	deps      *types.Dependencies
}

// NewModuleHandler creates a new module-based command handler
func NewModuleHandler(cfg *internalConfig.Config, db *database.DB, guilds *guildconfig.Store) *ModuleHandler {
	limiter := cooldown.New(defaultCooldownRate, defaultCooldownPer)

	h := &ModuleHandler{
		commands:  make(map[string]*types.Command),
		modules:   make(map[string]types.CommandModule),
		config:    cfg,
		db:        db,
		guilds:    guilds,
		cooldowns: limiter,
		deps: &types.Dependencies{
			Config:    cfg,
			DB:        db,
			Guilds:    guilds,
			Cooldowns: limiter,
			Session:   nil, // Set later
		},
	}

	h.registerModules()

	return h
}

// registerModules registers all command modules
func (h *ModuleHandler) registerModules() {
	modules := []struct {
		name   string
		module types.CommandModule
	}{
		{"ping", ping.New()},
		{"help", help.New()},
		{"config", configmod.New()},
		{"general", general.New()},
		{"economy", economy.New()},
		{"leveling", leveling.New()},
		{"giveaway", giveaway.New()},
		{"autoresponder", autoresponder.New()},
		{"remind", remind.New()},
		{"moderation", moderation.New()},
	}

	for _, m := range modules {
		m.module.Register(h.commands, h.deps)
		h.modules[m.name] = m.module
	}

	// Commands that declared their own cooldown tuple get a dedicated
	// policy; everything else falls back to the limiter default.
	for name, c := range h.commands {
		if c.CooldownRate > 0 && c.CooldownPer > 0 {
			h.cooldowns.SetCommandCooldown(name, c.CooldownRate, c.CooldownPer)
		}
	}
}

// GetModule returns a module by name with type assertion.
// This is used for external access (event handlers, scheduler wiring).
//
// Example usage:
//
//	gwMod, ok := handler.GetModule("giveaway").(*giveaway.GiveawayModule)
func (h *ModuleHandler) GetModule(name string) types.CommandModule {
	return h.modules[name]
}

// GetDB returns the database instance
func (h *ModuleHandler) GetDB() *database.DB {
	return h.db
}

// RegisterCommands registers all slash commands with Discord
func (h *ModuleHandler) RegisterCommands(s *discordgo.Session) error {
	existingCommands, err := s.ApplicationCommands(s.State.User.ID, "")
	if err != nil {
		h.config.Logger.Warn("Error fetching existing commands: %v", err)
		return err
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, ec := range existingCommands {
		existingByName[ec.Name] = ec
	}

	for _, c := range h.commands {
		if c.Development {
			// Unregister development commands if they exist
			for _, existingCmd := range existingCommands {
				if existingCmd.Name == c.ApplicationCommand.Name {
					err := s.ApplicationCommandDelete(s.State.User.ID, "", existingCmd.ID)
					if err != nil {
						h.config.Logger.Warn("Error deleting command %s: %v", c.ApplicationCommand.Name, err)
					} else {
						h.config.Logger.Infof("Unregistered command: %s", c.ApplicationCommand.Name)
					}
				}
			}
			continue
		}

		if existing := existingByName[c.ApplicationCommand.Name]; existing != nil {
			cmd, err := s.ApplicationCommandEdit(s.State.User.ID, "", existing.ID, c.ApplicationCommand)
			if err != nil {
				return err
			}
			c.ApplicationCommand.ID = cmd.ID
			h.config.Logger.Infof("Updated command: %s", cmd.Name)
		} else {
			cmd, err := s.ApplicationCommandCreate(s.State.User.ID, "", c.ApplicationCommand)
			if err != nil {
				return err
			}
			c.ApplicationCommand.ID = cmd.ID
			h.config.Logger.Infof("Registered command: %s", cmd.Name)
		}
	}

	return nil
}

// HandleInteraction routes slash command interactions to appropriate handlers,
// applying the disabled-command and cooldown gates first.
func (h *ModuleHandler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ApplicationCommandData().Name == "" {
		return
	}

	commandName := i.ApplicationCommandData().Name
	cmd, exists := h.commands[commandName]
	if !exists {
		return
	}

	if guildID := interactionGuildID(i); guildID != 0 {
		tree := h.guilds.Effective(guildID)
		for _, disabled := range guildconfig.Strings(tree, "disabled_commands") {
			if strings.EqualFold(disabled, commandName) {
				_ = utils.RespondEphemeral(s, i, "❌ This command is disabled in this server.")
				return
			}
		}
	}

	if retry := h.cooldowns.Acquire(interactionUserID(i), commandName); retry > 0 {
		seconds := int(retry.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		_ = utils.RespondEphemeral(s, i, fmt.Sprintf("⏳ Slow down! Try again in %ds.", seconds))
		return
	}

	cmd.HandlerFunc(s, i)
}

// HandleComponentInteraction routes component interactions to appropriate module handlers
func (h *ModuleHandler) HandleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	// Currently only the giveaway module uses component interactions
	if strings.HasPrefix(customID, giveaway.JoinButtonPrefix) {
		if gwMod, ok := h.GetModule("giveaway").(*giveaway.GiveawayModule); ok {
			gwMod.HandleComponent(s, i)
			return
		}
	}

	h.config.Logger.Warn("Unhandled component interaction: %s", customID)
}

// UnregisterCommands removes all registered commands
func (h *ModuleHandler) UnregisterCommands(s *discordgo.Session) {
	existingCommands, err := s.ApplicationCommands(s.State.User.ID, "")
	if err != nil {
		h.config.Logger.Warn("Error fetching existing commands: %v", err)
		return
	}

	for _, existingCmd := range existingCommands {
		if _, exists := h.commands[existingCmd.Name]; exists {
			err := s.ApplicationCommandDelete(s.State.User.ID, "", existingCmd.ID)
			if err != nil {
				h.config.Logger.Warn("Error deleting command %s: %v", existingCmd.Name, err)
			} else {
				h.config.Logger.Infof("Unregistered command: %s", existingCmd.Name)
			}
		}
	}
}

// InitializeModuleServices hydrates services with the Discord session.
// Called after the Discord session is established.
func (h *ModuleHandler) InitializeModuleServices(s *discordgo.Session) error {
	// Update dependencies with session
	h.deps.Session = s

	// Hydrate services for all modules with the Discord session
	for _, module := range h.modules {
		if service := module.Service(); service != nil {
			if err := service.HydrateServiceDiscordSession(s); err != nil {
				return fmt.Errorf("failed to hydrate service with Discord session: %w", err)
			}
		}
	}

	return nil
}

// RegisterModuleSchedulers registers recurring tasks from all modules with the scheduler.
// Called after services are initialized.
func (h *ModuleHandler) RegisterModuleSchedulers(scheduler interface {
	RegisterFunc(spec, name string, fn func() error) error
}) error {
	for _, module := range h.modules {
		if service := module.Service(); service != nil {
			for _, job := range service.Jobs() {
				if err := scheduler.RegisterFunc(job.Spec, job.Name, job.Run); err != nil {
					return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
				}
			}
		}
	}

	return nil
}

// interactionUserID returns the numeric ID of the invoking user, whether the
// interaction came from a guild (Member set) or a DM (User set).
func interactionUserID(i *discordgo.InteractionCreate) int64 {
	if i.Member != nil && i.Member.User != nil {
		return utils.ParseSnowflake(i.Member.User.ID)
	}
	if i.User != nil {
		return utils.ParseSnowflake(i.User.ID)
	}
	return 0
}

// interactionGuildID returns the numeric guild ID, or 0 outside guilds.
func interactionGuildID(i *discordgo.InteractionCreate) int64 {
	return utils.ParseSnowflake(i.GuildID)
}
