package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TestModeCommand switches writes to the trial sheet.
type TestModeCommand struct {
	mode ModeController
}

func NewTestModeCommand(mode ModeController) *TestModeCommand {
	return &TestModeCommand{
		mode: mode,
	}
}

func (c *TestModeCommand) Name() string {
	return "test_mode"
}

func (c *TestModeCommand) Description() string {
	return "Write new entries to the trial sheet"
}

func (c *TestModeCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if c.mode.TestMode() {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Test mode is already on. New entries go to the trial sheet.")
		return &msg
	}

	c.mode.SetTestMode(true)
	msg := tgbotapi.NewMessage(message.Chat.ID, "Test mode enabled. New entries go to the trial sheet.")
	return &msg
}

// ProductionModeCommand switches writes back to the live year sheet.
type ProductionModeCommand struct {
	mode ModeController
}

func NewProductionModeCommand(mode ModeController) *ProductionModeCommand {
	return &ProductionModeCommand{
		mode: mode,
	}
}

func (c *ProductionModeCommand) Name() string {
	return "enable_production"
}

func (c *ProductionModeCommand) Description() string {
	return "Write new entries to the live sheet"
}

func (c *ProductionModeCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.mode.TestMode() {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Production mode is already on. New entries go to the live sheet.")
		return &msg
	}

	c.mode.SetTestMode(false)
	msg := tgbotapi.NewMessage(message.Chat.ID, "Production mode enabled. New entries go to the live sheet.")
	return &msg
}
