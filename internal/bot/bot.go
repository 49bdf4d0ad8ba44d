package bot

import (
	"context"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/bramify/internal/ai"
	"github.com/user/bramify/internal/clientmap"
	"github.com/user/bramify/internal/commands"
	"github.com/user/bramify/internal/config"
	"github.com/user/bramify/internal/sheets"
	"github.com/user/bramify/internal/work"
)

type Bot struct {
	api             *tgbotapi.BotAPI
	commandRegistry *commands.Registry
	processor       *Processor
	allowedUsers    map[int64]bool
	wg              sync.WaitGroup
	stopCh          chan struct{}
}

func New(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	api.Debug = cfg.Debug

	aiClient, err := ai.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	sheetsAPI, err := sheets.New(context.Background(), cfg.SpreadsheetID, cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}
	service := sheets.NewService(sheetsAPI)

	mapper := clientmap.New(cfg.ClientCodesFile)
	pending := work.NewPendingStore()
	mode := NewMode()

	processor := NewProcessor(aiClient, service, mapper, pending, mode, cfg.DefaultHourlyRate)

	// Initialize command registry
	registry := commands.NewRegistry()
	registry.Register(commands.NewStartCommand(registry))
	registry.Register(commands.NewHelpCommand(registry))
	registry.Register(commands.NewCancelCommand(pending))
	registry.Register(commands.NewTestModeCommand(mode))
	registry.Register(commands.NewProductionModeCommand(mode))
	registry.Register(commands.NewClientsCommand(mapper))
	registry.Register(commands.NewTodayCommand(service))
	registry.Register(commands.NewYesterdayCommand(service))
	registry.Register(commands.NewWeekCommand(service))
	registry.Register(commands.NewMonthCommand(service))

	allowedUsers := make(map[int64]bool, len(cfg.AllowedUserIDs))
	for _, id := range cfg.AllowedUserIDs {
		allowedUsers[id] = true
	}
	if len(allowedUsers) == 0 {
		log.Printf("[BOT] Warning: no allowed user IDs configured, accepting messages from anyone")
	}

	return &Bot{
		api:             api,
		commandRegistry: registry,
		processor:       processor,
		allowedUsers:    allowedUsers,
		stopCh:          make(chan struct{}),
	}, nil
}

// Start begins listening for updates from Telegram
func (b *Bot) Start() error {
	log.Printf("[BOT] Authorized as @%s", b.api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handleUpdates(updates)
	}()

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() {
	close(b.stopCh)
	b.api.StopReceivingUpdates()
	b.wg.Wait()
}

// handleUpdates processes incoming updates from Telegram
func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-b.stopCh:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleMessage(update.Message)
			}
		}
	}
}

// handleMessage processes a single message from a user
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil || message.Text == "" {
		return
	}

	log.Printf("[%s] %s", message.From.UserName, message.Text)

	if len(b.allowedUsers) > 0 && !b.allowedUsers[message.From.ID] {
		log.Printf("[BOT] Rejected message from unauthorized user %d", message.From.ID)
		b.sendMessage(message.Chat.ID, "Sorry, this is a personal bot and I can't help you.")
		return
	}

	if message.IsCommand() {
		commandName := message.Command()
		log.Printf("[COMMAND] %s: %s", message.From.UserName, commandName)

		command, exists := b.commandRegistry.Get(commandName)
		if !exists {
			b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
			return
		}

		b.sendResponse(command.Execute(message))
		return
	}

	// Show a typing indicator while the model call is in flight.
	if _, err := b.api.Request(tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("Error sending chat action: %v", err)
	}

	reply, err := b.processor.Process(context.Background(), message.From.ID, message.Text)
	if err != nil {
		log.Printf("Error processing message: %v", err)
		b.sendMessage(message.Chat.ID, "Sorry, something went wrong while processing your message. Please try again.")
		return
	}

	b.sendMessage(message.Chat.ID, reply)
}

// sendResponse sends a message with debugging logs
func (b *Bot) sendResponse(msgConfig *tgbotapi.MessageConfig) {
	if msgConfig == nil {
		return
	}

	_, err := b.api.Send(msgConfig)
	if err != nil {
		log.Printf("Error sending message: %v", err)
		log.Printf("Message text was: %s", msgConfig.Text)
	}
}

// sendMessage simplified method for sending text messages
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.sendResponse(&msg)
}
