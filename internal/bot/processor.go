package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/user/bramify/internal/ai"
	"github.com/user/bramify/internal/dates"
	"github.com/user/bramify/internal/work"
)

// Persister stores completed work entries.
type Persister interface {
	AddEntry(ctx context.Context, entry *work.Entry, testMode bool) error
}

// CodeResolver maps client names to 3-letter codes.
type CodeResolver interface {
	GetCode(name string) (string, bool)
	AddMapping(name, code string) string
	SuggestCode(name string) string
}

// PendingEntries holds at most one unsaved entry per user while the bot
// waits for a client code.
type PendingEntries interface {
	Put(userID int64, entry *work.Entry)
	Get(userID int64) (*work.Entry, bool)
	Delete(userID int64)
}

// Processor turns free-form user messages into stored work entries. When a
// client is unknown it parks the entry and asks the user for a code; the
// user's next plain message is taken as that code.
type Processor struct {
	ai          ai.Client
	sheets      Persister
	codes       CodeResolver
	pending     PendingEntries
	mode        *Mode
	defaultRate float64
}

func NewProcessor(aiClient ai.Client, sheets Persister, codes CodeResolver, pending PendingEntries, mode *Mode, defaultRate float64) *Processor {
	if defaultRate <= 0 {
		defaultRate = work.DefaultHourlyRate
	}
	return &Processor{
		ai:          aiClient,
		sheets:      sheets,
		codes:       codes,
		pending:     pending,
		mode:        mode,
		defaultRate: defaultRate,
	}
}

// Process handles one non-command message and returns the reply text.
func (p *Processor) Process(ctx context.Context, userID int64, text string) (string, error) {
	if entry, ok := p.pending.Get(userID); ok {
		return p.resolvePending(ctx, userID, entry, text)
	}

	analysis, err := p.ai.AnalyzeWorkEntry(ctx, text)
	if err != nil {
		return "", fmt.Errorf("error analyzing message: %w", err)
	}

	if !analysis.IsWorkEntry {
		return p.ai.GenerateResponse(ctx, text)
	}

	entry := p.entryFromAnalysis(analysis)

	code, known := p.codes.GetCode(entry.ClientName)
	if !known {
		p.pending.Put(userID, entry)
		suggestion := p.codes.SuggestCode(entry.ClientName)
		return fmt.Sprintf("I don't know the client %q yet. Reply with a 3-letter code to use (suggestion: %s), or /cancel to discard the entry.",
			entry.ClientName, suggestion), nil
	}

	entry.ClientCode = code
	return p.saveEntry(ctx, userID, entry)
}

// resolvePending treats the user's message as the client code for the
// parked entry.
func (p *Processor) resolvePending(ctx context.Context, userID int64, entry *work.Entry, text string) (string, error) {
	code := strings.TrimSpace(text)
	if code == "" {
		return fmt.Sprintf("Please reply with a 3-letter code for %q, or /cancel to discard the entry.", entry.ClientName), nil
	}

	entry.ClientCode = p.codes.AddMapping(entry.ClientName, code)
	log.Printf("[PROCESSOR] Learned client mapping %q -> %s", entry.ClientName, entry.ClientCode)

	return p.saveEntry(ctx, userID, entry)
}

func (p *Processor) saveEntry(ctx context.Context, userID int64, entry *work.Entry) (string, error) {
	testMode := p.mode.TestMode()
	if err := p.sheets.AddEntry(ctx, entry, testMode); err != nil {
		return "", err
	}

	p.pending.Delete(userID)
	return confirmation(entry, testMode), nil
}

// entryFromAnalysis normalizes the model's extraction into an Entry with a
// canonical date and a concrete hourly rate.
func (p *Processor) entryFromAnalysis(analysis *ai.WorkAnalysis) *work.Entry {
	date := analysis.Date
	if parsed, ok := dates.ParseText(date); ok {
		date = parsed
	} else {
		date = dates.Reformat(date)
	}

	rate := analysis.HourlyRate
	if rate <= 0 {
		rate = p.defaultRate
	}

	return &work.Entry{
		Date:        date,
		ClientName:  strings.TrimSpace(analysis.Client),
		Description: strings.TrimSpace(analysis.Description),
		Hours:       analysis.Hours,
		Billable:    analysis.Billable,
		HourlyRate:  rate,
	}
}

func confirmation(entry *work.Entry, testMode bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Logged %.1f hours for %s on %s", entry.Hours, entry.ClientValue(), entry.Date)
	if entry.Description != "" {
		fmt.Fprintf(&b, ": %s", entry.Description)
	}
	if entry.Billable {
		fmt.Fprintf(&b, " (billable, €%.2f)", entry.Revenue())
	} else {
		b.WriteString(" (unbillable)")
	}
	if testMode {
		b.WriteString("\n🧪 Test mode: written to the trial sheet.")
	}
	return b.String()
}
