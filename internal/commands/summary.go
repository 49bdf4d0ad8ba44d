package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/bramify/internal/dates"
)

// SummaryCommand reports logged hours per client for a fixed period. The
// same implementation backs /today, /yesterday, /week and /month.
type SummaryCommand struct {
	name        string
	description string
	period      string
	summarizer  Summarizer
}

func NewTodayCommand(summarizer Summarizer) *SummaryCommand {
	return &SummaryCommand{name: "today", description: "Show today's hours", period: "today", summarizer: summarizer}
}

func NewYesterdayCommand(summarizer Summarizer) *SummaryCommand {
	return &SummaryCommand{name: "yesterday", description: "Show yesterday's hours", period: "yesterday", summarizer: summarizer}
}

func NewWeekCommand(summarizer Summarizer) *SummaryCommand {
	return &SummaryCommand{name: "week", description: "Show this week's hours", period: "week", summarizer: summarizer}
}

func NewMonthCommand(summarizer Summarizer) *SummaryCommand {
	return &SummaryCommand{name: "month", description: "Show this month's hours", period: "month", summarizer: summarizer}
}

func (c *SummaryCommand) Name() string {
	return c.name
}

func (c *SummaryCommand) Description() string {
	return c.description
}

func (c *SummaryCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	ctx := context.Background()

	start, end := dates.RangeForPeriod(c.period)
	records, err := c.summarizer.Entries(ctx, start, end)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Could not read your hours: %v", err))
		return &msg
	}

	if len(records) == 0 {
		text := fmt.Sprintf("No work entries for %s (%s - %s).", c.period, start.Format(dates.Layout), end.Format(dates.Layout))
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		return &msg
	}

	type clientTotals struct {
		billable   float64
		unbillable float64
		revenue    float64
	}

	totals := map[string]*clientTotals{}
	for _, record := range records {
		client := record.Client
		if client == "" {
			client = "?"
		}
		t, ok := totals[client]
		if !ok {
			t = &clientTotals{}
			totals[client] = t
		}
		t.billable += record.Hours
		t.unbillable += record.Unbillable
		t.revenue += record.Revenue
	}

	clients := make([]string, 0, len(totals))
	for client := range totals {
		clients = append(clients, client)
	}
	sort.Strings(clients)

	var b strings.Builder
	fmt.Fprintf(&b, "*Hours for %s (%s - %s)*\n\n", c.period, start.Format(dates.Layout), end.Format(dates.Layout))

	var grand clientTotals
	for _, client := range clients {
		t := totals[client]
		fmt.Fprintf(&b, "`%s`: %.1f billable", client, t.billable)
		if t.unbillable > 0 {
			fmt.Fprintf(&b, ", %.1f unbillable", t.unbillable)
		}
		if t.revenue > 0 {
			fmt.Fprintf(&b, ", €%.2f", t.revenue)
		}
		b.WriteString("\n")

		grand.billable += t.billable
		grand.unbillable += t.unbillable
		grand.revenue += t.revenue
	}

	fmt.Fprintf(&b, "\n*Total:* %.1f billable, %.1f unbillable, €%.2f", grand.billable, grand.unbillable, grand.revenue)

	msg := tgbotapi.NewMessage(message.Chat.ID, b.String())
	msg.ParseMode = "Markdown"
	return &msg
}
