package commands

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"

	"github.com/user/bramify/internal/sheets"
)

// CreateCommandMessage is a helper function to create a Telegram message with a command
// for testing purposes. It properly sets up message entities required for commands.
func CreateCommandMessage(userID int64, commandText string, args ...string) *tgbotapi.Message {
	fullText := commandText
	if len(args) > 0 {
		fullText = commandText + " " + args[0]
	}

	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{
			ID: userID,
		},
		From: &tgbotapi.User{
			ID: userID,
		},
		Text: fullText,
		Entities: []tgbotapi.MessageEntity{
			{
				Type:   "bot_command",
				Offset: 0,
				Length: len(commandText),
			},
		},
	}
}

// MockSummarizer mocks the Summarizer interface for summary command tests.
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Entries(ctx context.Context, start, end time.Time) ([]sheets.Record, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sheets.Record), args.Error(1)
}

// fakeMode is a trivial in-memory ModeController.
type fakeMode struct {
	test bool
}

func (f *fakeMode) TestMode() bool           { return f.test }
func (f *fakeMode) SetTestMode(enabled bool) { f.test = enabled }
