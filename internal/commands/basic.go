package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StartCommand handles the /start command
type StartCommand struct {
	registry *Registry
}

// NewStartCommand creates a new start command handler
func NewStartCommand(registry *Registry) *StartCommand {
	return &StartCommand{
		registry: registry,
	}
}

// Name returns the command name
func (c *StartCommand) Name() string {
	return "start"
}

// Description returns the command description
func (c *StartCommand) Description() string {
	return "Start interacting with the bot"
}

func (c *StartCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	welcomeText := `👋 Hi! I'm Bramify, your work hour assistant.

Tell me about your work in plain language and I'll log it to your spreadsheet:

"Worked 4 hours on the API for Globex Corp yesterday"

If I don't recognize the client yet, I'll ask you for a 3-letter code once and remember it.

Useful commands:
/today - summary of today's hours
/yesterday - summary of yesterday's hours
/week - summary of this week
/month - summary of this month
/clients - list known clients and their codes
/cancel - discard the entry I'm asking about
/test_mode - write entries to the trial sheet
/enable_production - write entries to the live sheet
/help - show all commands

I start in test mode, so nothing touches your live sheet until you run /enable_production.`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	return &msg
}

// HelpCommand handles the /help command
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates a new help command handler
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		registry: registry,
	}
}

// Name returns the command name
func (c *HelpCommand) Name() string {
	return "help"
}

// Description returns the command description
func (c *HelpCommand) Description() string {
	return "Show available commands"
}

func (c *HelpCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(message.Chat.ID, c.registry.GenerateHelpText())
	msg.ParseMode = "Markdown"
	return &msg
}
