package bot

import (
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"maxybot/internal/commands"
	"maxybot/internal/commands/modules/autoresponder"
	"maxybot/internal/config"
	"maxybot/internal/database"
	"maxybot/internal/events"
	"maxybot/internal/guildconfig"
	"maxybot/internal/scheduler"
)

// Bot represents the Discord bot
type Bot struct {
	session              *discordgo.Session
	config               *config.Config
	db                   *database.DB
	guilds               *guildconfig.Store
	commandModuleHandler *commands.ModuleHandler
	scheduler            *scheduler.Scheduler
	ready                atomic.Bool // guards interaction handling until startup completes
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.GetBotToken())
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	db, err := database.NewDB(cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Per-guild settings: overrides on disk, defaults compiled in.
	guilds := guildconfig.NewStore(cfg.GetGuildConfigPath(), cfg.GetDefaultPrefix(), cfg.Logger)
	guilds.LoadAll()

	// Create modular command handler
	handler := commands.NewModuleHandler(cfg, db, guilds)

	bot := &Bot{
		session:              session,
		config:               cfg,
		db:                   db,
		guilds:               guilds,
		commandModuleHandler: handler,
	}

	// mark not ready yet (zero value false, explicit for clarity)
	bot.ready.Store(false)

	// Set intents - we need guild, member, message, message content, and
	// direct message intents
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMessageReactions | discordgo.IntentMessageContent | discordgo.IntentDirectMessages

	// Add event handlers
	session.AddHandler(bot.onReady)

	// Slash commands
	session.AddHandler(bot.onInteractionCreate)

	// Other events
	responder, _ := handler.GetModule("autoresponder").(*autoresponder.AutoResponderModule)
	eventHandler := events.NewHandler(cfg, db, guilds, responder)
	session.AddHandler(eventHandler.OnMessageCreate)
	session.AddHandler(eventHandler.OnMessageReactionAdd)
	session.AddHandler(eventHandler.OnGuildMemberAdd)
	session.AddHandler(eventHandler.OnGuildMemberRemove)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start() error {
	// Open connection
	err := b.session.Open()
	if err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			b.config.Logger.Warn("error closing Discord session:", err)
		}
	}()

	// Set bot status to "initializing"
	if err := b.session.UpdateGameStatus(0, "Rolling out of bed..."); err != nil {
		b.config.Logger.Warn("error updating bot status:", err)
	}

	// Register slash commands
	if err := b.commandModuleHandler.RegisterCommands(b.session); err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}

	// Initialize module services that need the Discord session
	if err := b.commandModuleHandler.InitializeModuleServices(b.session); err != nil {
		return fmt.Errorf("error initializing module services: %w", err)
	}

	// Create and initialize scheduler
	b.scheduler = scheduler.NewScheduler(b.config)

	// Register module schedulers (modules declare their own recurring tasks)
	if err := b.commandModuleHandler.RegisterModuleSchedulers(b.scheduler); err != nil {
		return fmt.Errorf("error registering module schedulers: %w", err)
	}

	// Periodic guild-config flush (not part of a module)
	flushSpec := fmt.Sprintf("@every %s", b.config.GetGuildConfigFlushInterval())
	if err := b.scheduler.RegisterFunc(flushSpec, "guild-config-flush", b.guilds.SaveAll); err != nil {
		b.config.Logger.Errorf("Failed to register guild config flush: %v", err)
	}

	// Log pruning (not part of a module)
	if err := b.scheduler.RegisterFunc("@hourly", "log-pruning", b.config.PruneOldLogFiles); err != nil {
		b.config.Logger.Errorf("Failed to register log pruning: %v", err)
	}

	// Database health check (not part of a module)
	if err := b.scheduler.RegisterFunc("@every 1m", "db-health", b.checkDatabaseHealth); err != nil {
		b.config.Logger.Errorf("Failed to register database health check: %v", err)
	}

	b.scheduler.Start()
	defer b.scheduler.Stop()

	// Update status to indicate the bot is awake
	if err := b.session.UpdateGameStatus(0, "OK OK I'm awake!"); err != nil {
		b.config.Logger.Warn("error updating bot status:", err)
	}

	b.announceStatus("✅ MaxyBot is online.")

	// Signal readiness after all initialization steps complete.
	b.ready.Store(true)
	b.config.Logger.Info("Initialization complete; interactions enabled")
	b.config.Logger.Info("MaxyBot is now running. Press CTRL+C to exit.")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	b.announceStatus("💤 MaxyBot is going offline.")

	// Cleanup: Unregister commands, optionally
	if os.Getenv("UNREGISTER_COMMANDS") == "true" {
		b.commandModuleHandler.UnregisterCommands(b.session)
	}

	// Flush pending guild-config changes before the process dies.
	if err := b.guilds.SaveAll(); err != nil {
		b.config.Logger.Errorf("Failed to save guild config on shutdown: %v", err)
	}
	if err := b.db.Close(); err != nil {
		b.config.Logger.Errorf("Failed to close database: %v", err)
	}

	return nil
}

// checkDatabaseHealth pings the sqlite connection so a wedged database
// surfaces in the logs instead of as silently failing commands.
func (b *Bot) checkDatabaseHealth() error {
	if err := b.db.Ping(); err != nil {
		b.config.Logger.Errorf("Database health check failed: %v", err)
		return err
	}
	return nil
}

// announceStatus posts to the configured status channel, if any.
func (b *Bot) announceStatus(message string) {
	channelID := b.config.GetStatusChannelID()
	if channelID == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(channelID, message); err != nil {
		b.config.Logger.Warnf("Failed to post status announcement: %v", err)
	}
}

// onReady handles the ready event
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.config.Logger.Infof("Bot received ready signal! Logged in as: %s#%s\n", r.User.Username, r.User.Discriminator)

	// Set bot status to something fresh every hour
	c := time.NewTicker(time.Hour)
	go func() {
		for range c.C {
			err := s.UpdateGameStatus(0, b.randomStatus())
			if err != nil {
				b.config.Logger.Warn("Error setting status:", err)
			}
		}
	}()
}

func (b *Bot) randomStatus() string {
	randomStuff := []string{
		"Use /help for commands",
		"Counting coins...",
		"Handing out XP...",
		"Drawing giveaway winners...",
		"Watching the leaderboard...",
		"Trying not to cry...",
		"Eating bugs...",
	}

	return randomStuff[rand.IntN(len(randomStuff))]
}

// onInteractionCreate handles slash command interactions
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Initialization guard: reject interactions until startup has completed.
	if !b.ready.Load() {
		// Use the correct response type per interaction.
		switch i.Type {
		case discordgo.InteractionApplicationCommand, discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
			_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "⏳ Bot is starting up, try again in a few seconds.",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
		case discordgo.InteractionApplicationCommandAutocomplete:
			// Autocomplete must return an autocomplete result type, empty list is fine while starting up.
			_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionApplicationCommandAutocompleteResult,
				Data: &discordgo.InteractionResponseData{Choices: []*discordgo.ApplicationCommandOptionChoice{}},
			})
		case discordgo.InteractionPing:
			// Reply with a Pong to satisfy handshake, though this is rare here.
			_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
		default:
			// Fallback: generic ephemeral message.
			_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "⏳ Bot is starting up, try again shortly.",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
		}
		return
	}
	// Slash commands
	if i.Type == discordgo.InteractionApplicationCommand {
		if i.ApplicationCommandData().Name != "" {
			b.commandModuleHandler.HandleInteraction(s, i)
		}
		return
	}
	// Component interactions
	if i.Type == discordgo.InteractionMessageComponent {
		b.commandModuleHandler.HandleComponentInteraction(s, i)
		return
	}
}
