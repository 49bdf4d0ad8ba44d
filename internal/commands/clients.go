package commands

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ClientsCommand lists all known client names and their codes.
type ClientsCommand struct {
	directory ClientDirectory
}

func NewClientsCommand(directory ClientDirectory) *ClientsCommand {
	return &ClientsCommand{
		directory: directory,
	}
}

func (c *ClientsCommand) Name() string {
	return "clients"
}

func (c *ClientsCommand) Description() string {
	return "List known clients and their codes"
}

func (c *ClientsCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	mappings := c.directory.AllMappings()
	if len(mappings) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "No clients saved yet. Mention a client in a work entry and I'll ask for its code.")
		return &msg
	}

	var b strings.Builder
	b.WriteString("*Known clients:*\n\n")
	for _, mapping := range mappings {
		fmt.Fprintf(&b, "`%s` - %s\n", mapping.Code, mapping.Name)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, b.String())
	msg.ParseMode = "Markdown"
	return &msg
}
