package commands

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CancelCommand discards the entry the bot is currently asking a client
// code for.
type CancelCommand struct {
	pending Pending
}

func NewCancelCommand(pending Pending) *CancelCommand {
	return &CancelCommand{
		pending: pending,
	}
}

func (c *CancelCommand) Name() string {
	return "cancel"
}

func (c *CancelCommand) Description() string {
	return "Discard the work entry waiting for a client code"
}

func (c *CancelCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	entry, ok := c.pending.Get(message.From.ID)
	if !ok {
		msg := tgbotapi.NewMessage(message.Chat.ID, "There is nothing to cancel.")
		return &msg
	}

	c.pending.Delete(message.From.ID)
	text := fmt.Sprintf("Discarded the entry for %q (%s, %.1f hours).", entry.ClientName, entry.Date, entry.Hours)
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	return &msg
}
