package dates

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical date format used everywhere in the sheet and in
// messages to the user: day-month-year, zero padded.
const Layout = "02-01-2006"

// Accepted input layouts, tried in order. The extraction model is asked for
// DD-MM-YYYY but ISO and slash-delimited dates show up often enough that we
// convert them instead of rejecting the entry.
var inputLayouts = []string{
	"2-1-2006",
	"2006-1-2",
	"2/1/2006",
}

var dutchWeekdays = map[time.Weekday]string{
	time.Monday:    "Maandag",
	time.Tuesday:   "Dinsdag",
	time.Wednesday: "Woensdag",
	time.Thursday:  "Donderdag",
	time.Friday:    "Vrijdag",
	time.Saturday:  "Zaterdag",
	time.Sunday:    "Zondag",
}

var dutchMonths = map[time.Month]string{
	time.January:   "januari",
	time.February:  "februari",
	time.March:     "maart",
	time.April:     "april",
	time.May:       "mei",
	time.June:      "juni",
	time.July:      "juli",
	time.August:    "augustus",
	time.September: "september",
	time.October:   "oktober",
	time.November:  "november",
	time.December:  "december",
}

// Parse converts a date string in any accepted layout to a time.Time.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Reformat normalizes a date string to the canonical DD-MM-YYYY form.
// Unparseable input falls back to today, so a garbled date from the
// extraction step still produces a usable entry. Idempotent for any
// already-canonical date.
func Reformat(raw string) string {
	if t, ok := Parse(raw); ok {
		return t.Format(Layout)
	}
	return time.Now().Format(Layout)
}

// Representations returns every textual form of the given canonical date
// that may appear in a sheet's date column: the numeric form, English and
// Dutch long forms, and the partial day-month forms used by pre-filled
// template rows. If the input cannot be parsed it is returned as the only
// representation.
func Representations(date string) []string {
	t, ok := Parse(date)
	if !ok {
		return []string{date}
	}

	day := t.Day()
	english := fmt.Sprintf("%s %d %s %d", t.Weekday(), day, t.Month(), t.Year())
	dutch := fmt.Sprintf("%s %d %s %d", dutchWeekdays[t.Weekday()], day, dutchMonths[t.Month()], t.Year())

	return []string{
		t.Format(Layout),
		english,
		dutch,
		fmt.Sprintf("%d %s", day, t.Month()),
		fmt.Sprintf("%d %s", day, dutchMonths[t.Month()]),
	}
}

// MatchesCell reports whether an arbitrary sheet cell refers to the given
// canonical date. Comparison is case-insensitive and accepts containment in
// either direction, so both a bare "26 maart" template cell and a cell with
// trailing annotations match. Topmost-match tie-breaking is the caller's
// responsibility.
func MatchesCell(cell, date string) bool {
	cell = strings.ToLower(strings.TrimSpace(cell))
	if cell == "" {
		return false
	}
	for _, rep := range Representations(date) {
		rep = strings.ToLower(rep)
		if cell == rep || strings.Contains(cell, rep) || strings.Contains(rep, cell) {
			return true
		}
	}
	return false
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseText extracts a date from natural language. It understands
// today/yesterday/tomorrow, weekday names (the most recent occurrence,
// "last <day>" goes one week further back) and literal dates in any
// accepted layout. Returns the canonical form and whether anything matched.
func ParseText(text string) (string, bool) {
	lower := strings.ToLower(text)
	now := time.Now()

	switch {
	case strings.Contains(lower, "today") || strings.Contains(lower, "vandaag"):
		return now.Format(Layout), true
	case strings.Contains(lower, "yesterday") || strings.Contains(lower, "gisteren"):
		return now.AddDate(0, 0, -1).Format(Layout), true
	case strings.Contains(lower, "tomorrow") || strings.Contains(lower, "morgen"):
		return now.AddDate(0, 0, 1).Format(Layout), true
	}

	for name, weekday := range weekdayNames {
		if !strings.Contains(lower, name) {
			continue
		}
		diff := (int(now.Weekday()) - int(weekday) + 7) % 7
		if strings.Contains(lower, "last "+name) {
			diff += 7
		}
		return now.AddDate(0, 0, -diff).Format(Layout), true
	}

	for _, token := range strings.Fields(text) {
		if t, ok := Parse(strings.Trim(token, ".,!?")); ok {
			return t.Format(Layout), true
		}
	}

	return "", false
}

// RangeForPeriod returns the inclusive start and end days for a summary
// period: "today", "yesterday", "week"/"this week", "last week",
// "month"/"this month", "last month". Weeks start on Monday. Unknown
// periods default to today.
func RangeForPeriod(period string) (time.Time, time.Time) {
	today := truncate(time.Now())

	switch strings.ToLower(strings.TrimSpace(period)) {
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return y, y
	case "week", "this week":
		return startOfWeek(today), today
	case "last week":
		start := startOfWeek(today).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 6)
	case "month", "this month":
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), today
	case "last month":
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return firstOfThis.AddDate(0, -1, 0), firstOfThis.AddDate(0, 0, -1)
	default:
		return today, today
	}
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	diff := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	return t.AddDate(0, 0, -diff)
}
