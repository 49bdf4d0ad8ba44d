package commands

import (
	"context"
	"time"

	"github.com/user/bramify/internal/clientmap"
	"github.com/user/bramify/internal/sheets"
	"github.com/user/bramify/internal/work"
)

// Summarizer reads back stored work entries for summary commands.
type Summarizer interface {
	Entries(ctx context.Context, start, end time.Time) ([]sheets.Record, error)
}

// Pending exposes the per-user pending entry for the cancel command.
type Pending interface {
	Get(userID int64) (*work.Entry, bool)
	Delete(userID int64)
}

// ClientDirectory lists saved client mappings for the clients command.
type ClientDirectory interface {
	AllMappings() []clientmap.Mapping
}

// ModeController switches the bot between trial and production writes.
type ModeController interface {
	TestMode() bool
	SetTestMode(enabled bool)
}
