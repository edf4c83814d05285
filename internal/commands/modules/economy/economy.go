package economy

import (
	"fmt"
	"strings"
	"time"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"
	"maxybot/internal/guildconfig"
	"maxybot/internal/utils"

	"github.com/bwmarrin/discordgo"
)

const dailyCooldown = 24 * time.Hour

// EconomyModule implements the CommandModule interface for the
// balance, daily, deposit, withdraw, pay and richest commands
type EconomyModule struct {
	db     *database.DB
	guilds *guildconfig.Store
}

// New creates a new economy module
func New() *EconomyModule {
	return &EconomyModule{}
}

// Register adds the economy commands to the command map
func (m *EconomyModule) Register(cmds map[string]*types.Command, deps *types.Dependencies) {
	m.db = deps.DB
	m.guilds = deps.Guilds

	cmds["balance"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "balance",
			Description: "Show your wallet and bank balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member whose balance to show (defaults to you)",
					Required:    false,
				},
			},
		},
		HandlerFunc: m.handleBalance,
	}

	cmds["daily"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "daily",
			Description: "Collect your daily coins",
		},
		HandlerFunc:  m.handleDaily,
		CooldownRate: 2,
		CooldownPer:  10 * time.Second,
	}

	cmds["deposit"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "deposit",
			Description: "Move coins from your wallet into your bank",
			Options:     amountOption("Amount to deposit"),
		},
		HandlerFunc: m.handleDeposit,
	}

	cmds["withdraw"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "withdraw",
			Description: "Move coins from your bank back into your wallet",
			Options:     amountOption("Amount to withdraw"),
		},
		HandlerFunc: m.handleWithdraw,
	}

	cmds["pay"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "pay",
			Description: "Pay another member from your wallet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to pay",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to pay",
					Required:    true,
					MinValue:    float64Ptr(1),
				},
			},
		},
		HandlerFunc: m.handlePay,
		// Payments hit the database twice; keep them slower than chat pace.
		CooldownRate: 3,
		CooldownPer:  30 * time.Second,
	}

	cmds["richest"] = &types.Command{
		ApplicationCommand: &discordgo.ApplicationCommand{
			Name:        "richest",
			Description: "Show the richest members of the server",
		},
		HandlerFunc: m.handleRichest,
	}
}

func amountOption(description string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: description,
			Required:    true,
			MinValue:    float64Ptr(1),
		},
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}

// guildSettings resolves the economy settings for the invoking guild.
// Returns ok=false (after replying) when invoked outside a guild or when
// the economy feature is disabled there.
func (m *EconomyModule) guildSettings(s *discordgo.Session, i *discordgo.InteractionCreate) (guildconfig.Tree, bool) {
	guildID := utils.ParseSnowflake(i.GuildID)
	if guildID == 0 {
		_ = utils.RespondEphemeral(s, i, "❌ This command can only be used in a server.")
		return nil, false
	}

	tree := m.guilds.Effective(guildID)
	if !guildconfig.Bool(tree, "economy", "enabled") {
		_ = utils.RespondEphemeral(s, i, "❌ The economy is disabled in this server.")
		return nil, false
	}
	return tree, true
}

func (m *EconomyModule) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tree, ok := m.guildSettings(s, i)
	if !ok {
		return
	}

	user := i.Member.User
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "user" {
			user = option.UserValue(s)
		}
	}

	b, err := m.db.GetBalance(i.GuildID, user.ID, int64(guildconfig.Int(tree, "economy", "start_balance")))
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up that balance.")
		return
	}

	symbol := guildconfig.String(tree, "economy", "currency_symbol")
	embed := utils.NewEmbed()
	embed.Title = fmt.Sprintf("%s %s's balance", symbol, user.Username)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Wallet", Value: fmt.Sprintf("%s %d", symbol, b.Wallet), Inline: true},
		{Name: "Bank", Value: fmt.Sprintf("%s %d", symbol, b.Bank), Inline: true},
		{Name: "Total", Value: fmt.Sprintf("%s %d", symbol, b.Wallet+b.Bank), Inline: true},
	}

	_ = utils.RespondEmbed(s, i, embed)
}

func (m *EconomyModule) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tree, ok := m.guildSettings(s, i)
	if !ok {
		return
	}

	amount := int64(guildconfig.Int(tree, "economy", "daily_amount"))
	start := int64(guildconfig.Int(tree, "economy", "start_balance"))

	granted, remaining, err := m.db.ClaimDaily(i.GuildID, i.Member.User.ID, amount, start, dailyCooldown, time.Now())
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not process your daily claim.")
		return
	}
	if !granted {
		_ = utils.RespondEphemeral(s, i, fmt.Sprintf("⏳ You already claimed your daily. Try again in %s.", remaining.Round(time.Minute)))
		return
	}

	symbol := guildconfig.String(tree, "economy", "currency_symbol")
	name := guildconfig.String(tree, "economy", "currency_name")
	_ = utils.RespondEmbed(s, i, utils.NewOKEmbed(
		"Daily claimed!",
		fmt.Sprintf("%s **%d %s** added to your wallet. Come back in 24 hours!", symbol, amount, name),
	))
}

func (m *EconomyModule) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	m.handleBankTransfer(s, i, 1, "Deposited")
}

func (m *EconomyModule) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	m.handleBankTransfer(s, i, -1, "Withdrew")
}

func (m *EconomyModule) handleBankTransfer(s *discordgo.Session, i *discordgo.InteractionCreate, direction int64, verb string) {
	tree, ok := m.guildSettings(s, i)
	if !ok {
		return
	}

	var amount int64
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "amount" {
			amount = option.IntValue()
		}
	}
	if amount <= 0 {
		_ = utils.RespondEphemeral(s, i, "❌ Amount must be positive.")
		return
	}

	// Make sure the row exists before moving funds around.
	start := int64(guildconfig.Int(tree, "economy", "start_balance"))
	if _, err := m.db.GetBalance(i.GuildID, i.Member.User.ID, start); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up your balance.")
		return
	}

	if err := m.db.TransferToBank(i.GuildID, i.Member.User.ID, direction*amount); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ "+capitalize(err.Error())+".")
		return
	}

	symbol := guildconfig.String(tree, "economy", "currency_symbol")
	_ = utils.RespondEmbed(s, i, utils.NewOKEmbed(
		verb+"!",
		fmt.Sprintf("%s %s **%d** coins.", verb, symbol, amount),
	))
}

func (m *EconomyModule) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tree, ok := m.guildSettings(s, i)
	if !ok {
		return
	}

	var recipient *discordgo.User
	var amount int64
	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "user":
			recipient = option.UserValue(s)
		case "amount":
			amount = option.IntValue()
		}
	}
	if recipient == nil || amount <= 0 {
		_ = utils.RespondEphemeral(s, i, "❌ Invalid user or amount.")
		return
	}
	if recipient.ID == i.Member.User.ID {
		_ = utils.RespondEphemeral(s, i, "❌ You cannot pay yourself.")
		return
	}
	if recipient.Bot {
		_ = utils.RespondEphemeral(s, i, "❌ Bots don't need coins.")
		return
	}

	start := int64(guildconfig.Int(tree, "economy", "start_balance"))
	if _, err := m.db.GetBalance(i.GuildID, i.Member.User.ID, start); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not look up your balance.")
		return
	}
	if err := m.db.Pay(i.GuildID, i.Member.User.ID, recipient.ID, amount, start); err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ "+capitalize(err.Error())+".")
		return
	}

	symbol := guildconfig.String(tree, "economy", "currency_symbol")
	_ = utils.RespondEmbed(s, i, utils.NewOKEmbed(
		"Payment sent!",
		fmt.Sprintf("Paid %s **%d** coins to %s.", symbol, amount, recipient.Mention()),
	))
}

func (m *EconomyModule) handleRichest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tree, ok := m.guildSettings(s, i)
	if !ok {
		return
	}

	top, err := m.db.TopBalances(i.GuildID, 10)
	if err != nil {
		_ = utils.RespondEphemeral(s, i, "❌ Could not load the leaderboard.")
		return
	}
	if len(top) == 0 {
		_ = utils.RespondEphemeral(s, i, "Nobody has any coins yet.")
		return
	}

	symbol := guildconfig.String(tree, "economy", "currency_symbol")
	var b strings.Builder
	for idx, bal := range top {
		fmt.Fprintf(&b, "**%d.** <@%s> — %s %d\n", idx+1, bal.UserID, symbol, bal.Wallet+bal.Bank)
	}

	embed := utils.NewEmbed()
	embed.Title = "💰 Richest Members"
	embed.Color = utils.Colors.Gold()
	embed.Description = b.String()
	_ = utils.RespondEmbed(s, i, embed)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Service returns nil as this module has no services requiring initialization
func (m *EconomyModule) Service() types.ModuleService {
	return nil
}
