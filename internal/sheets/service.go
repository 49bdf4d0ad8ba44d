package sheets

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/user/bramify/internal/dates"
	"github.com/user/bramify/internal/work"
)

const timestampLayout = "2006-01-02 15:04:05"

// Record is one work entry as read back from the spreadsheet.
type Record struct {
	Date        time.Time
	Client      string
	Description string
	Hours       float64
	Unbillable  float64
	Revenue     float64
	Sheet       string
}

// Service writes and reads work entries on top of the raw API. It owns
// sheet selection (live year sheet vs trial sheet), schema discovery and
// row placement.
type Service struct {
	api API

	mu      sync.Mutex
	columns map[string]ColumnMapping

	now func() time.Time
}

// NewService creates a Service over the given backend.
func NewService(api API) *Service {
	return &Service{
		api:     api,
		columns: map[string]ColumnMapping{},
		now:     time.Now,
	}
}

// LiveSheetName is the production sheet for the current year, e.g. "2025".
func (s *Service) LiveSheetName() string {
	return strconv.Itoa(s.now().Year())
}

// TestSheetName is the trial sheet for the current year, e.g. "Test-2025".
func (s *Service) TestSheetName() string {
	return "Test-" + strconv.Itoa(s.now().Year())
}

// targetSheet picks the sheet to write to. Trial mode always targets the
// test sheet; production mode targets the year sheet but silently falls
// back to the test sheet when no year sheet exists. The test sheet is
// created on first use.
func (s *Service) targetSheet(ctx context.Context, testMode bool) string {
	live := s.LiveSheetName()
	test := s.TestSheetName()

	titles, err := s.api.SheetTitles(ctx)
	if err != nil {
		log.Printf("[SHEETS] Could not list sheets: %v", err)
		if testMode {
			return test
		}
		return live
	}

	hasLive := containsTitle(titles, live)
	hasTest := containsTitle(titles, test)

	if !hasTest {
		s.createTestSheet(ctx, test, live, hasLive)
	}

	if testMode {
		return test
	}
	if hasLive {
		return live
	}
	log.Printf("[SHEETS] Sheet %q not found, writing to %q instead", live, test)
	return test
}

// createTestSheet creates the trial sheet and copies the live sheet's
// header row so discovery behaves identically on both. Failures are logged
// only; the subsequent write surfaces any real problem.
func (s *Service) createTestSheet(ctx context.Context, test, live string, hasLive bool) {
	if err := s.api.AddSheet(ctx, test); err != nil {
		log.Printf("[SHEETS] Could not create sheet %q: %v", test, err)
		return
	}

	headers := DefaultHeaders
	if hasLive {
		rows, err := s.api.ReadRange(ctx, fmt.Sprintf("'%s'!1:1", live))
		if err == nil && len(rows) > 0 && len(rows[0]) > 0 {
			headers = rows[0]
		}
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	a1 := fmt.Sprintf("'%s'!A1:%s1", test, columnLetter(len(headers)-1))
	if err := s.api.UpdateRange(ctx, a1, [][]interface{}{row}); err != nil {
		log.Printf("[SHEETS] Could not write header row to %q: %v", test, err)
	}
}

// columnsFor returns the column mapping for a sheet, reading and caching
// its header row on first use. A failed header read yields the default
// layout without caching, so a later read can still discover the schema.
func (s *Service) columnsFor(ctx context.Context, sheet string) ColumnMapping {
	s.mu.Lock()
	if cols, ok := s.columns[sheet]; ok {
		s.mu.Unlock()
		return cols
	}
	s.mu.Unlock()

	rows, err := s.api.ReadRange(ctx, fmt.Sprintf("'%s'!1:1", sheet))
	if err != nil || len(rows) == 0 {
		log.Printf("[SHEETS] No header row for %q, using default columns", sheet)
		return DefaultColumns()
	}

	cols, discovered := DiscoverColumns(rows[0])
	if !discovered {
		log.Printf("[SHEETS] No recognizable headers in %q, using default columns", sheet)
	}

	s.mu.Lock()
	s.columns[sheet] = cols
	s.mu.Unlock()
	return cols
}

// AddEntry writes a completed work entry to the spreadsheet. An existing
// row for the same date and client is overwritten; otherwise the entry is
// inserted at the end of the date's block, or appended when the date is new.
func (s *Service) AddEntry(ctx context.Context, entry *work.Entry, testMode bool) error {
	if !entry.Complete() {
		return fmt.Errorf("cannot save entry for %q: client code not resolved", entry.ClientName)
	}

	sheet := s.targetSheet(ctx, testMode)
	cols := s.columnsFor(ctx, sheet)

	dateColumn := s.readColumn(ctx, sheet, columnIndex(cols, FieldDate, 0))
	clientColumn := s.readColumn(ctx, sheet, columnIndex(cols, FieldClient, 1))

	tgt := resolveTarget(dateColumn, clientColumn, entry.Date, entry.ClientValue())
	row := buildRow(cols, entry, s.now())

	// Inserting at the end of a date block may land on a row that already
	// holds the next date; shift those rows down before writing.
	if tgt.kind == placeInsert && tgt.row <= lastPopulatedRow(dateColumn) {
		if err := s.api.InsertRow(ctx, sheet, tgt.row); err != nil {
			return fmt.Errorf("error making room for work entry: %w", err)
		}
	}

	a1 := fmt.Sprintf("'%s'!A%d:%s%d", sheet, tgt.row, columnLetter(len(row)-1), tgt.row)
	if err := s.api.UpdateRange(ctx, a1, [][]interface{}{row}); err != nil {
		return fmt.Errorf("error saving work entry: %w", err)
	}

	switch tgt.kind {
	case placeUpdate:
		log.Printf("[SHEETS] Updated row %d in %q for %s / %s", tgt.row, sheet, entry.Date, entry.ClientValue())
	case placeInsert:
		log.Printf("[SHEETS] Inserted row %d in %q for %s / %s", tgt.row, sheet, entry.Date, entry.ClientValue())
	default:
		log.Printf("[SHEETS] Appended row %d in %q for %s / %s", tgt.row, sheet, entry.Date, entry.ClientValue())
	}
	return nil
}

// Entries reads back all work entries whose date falls within [start, end],
// from both the live and trial sheets. Read failures degrade to an empty
// result rather than an error, so summaries stay usable.
func (s *Service) Entries(ctx context.Context, start, end time.Time) ([]Record, error) {
	titles, err := s.api.SheetTitles(ctx)
	if err != nil {
		log.Printf("[SHEETS] Could not list sheets: %v", err)
		return nil, nil
	}

	var sheetsToRead []string
	for _, name := range []string{s.LiveSheetName(), s.TestSheetName()} {
		if containsTitle(titles, name) {
			sheetsToRead = append(sheetsToRead, name)
		}
	}

	days := daysIn(start, end)
	var records []Record

	for _, sheet := range sheetsToRead {
		rows, err := s.api.ReadRange(ctx, fmt.Sprintf("'%s'!A:Z", sheet))
		if err != nil {
			log.Printf("[SHEETS] Could not read %q: %v", sheet, err)
			continue
		}
		if len(rows) < 2 {
			continue
		}

		cols, _ := DiscoverColumns(rows[0])
		for _, row := range rows[1:] {
			dateCell := cellAt(row, columnIndex(cols, FieldDate, 0))
			if strings.TrimSpace(dateCell) == "" {
				continue
			}
			for _, day := range days {
				if !dates.MatchesCell(dateCell, day.canonical) {
					continue
				}
				records = append(records, Record{
					Date:        day.date,
					Client:      cellAt(row, columnIndex(cols, FieldClient, 1)),
					Description: cellAt(row, columnIndex(cols, FieldDescription, 2)),
					Hours:       parseNumber(cellAt(row, columnIndex(cols, FieldHours, 3))),
					Unbillable:  parseNumber(cellAt(row, columnIndex(cols, FieldUnbillable, 4))),
					Revenue:     parseNumber(cellAt(row, columnIndex(cols, FieldRevenue, 5))),
					Sheet:       sheet,
				})
				break
			}
		}
	}

	return records, nil
}

// readColumn reads one whole column as a flat slice, row 1 first. A failed
// read comes back empty, which steers placement toward appending.
func (s *Service) readColumn(ctx context.Context, sheet string, idx int) []string {
	letter := columnLetter(idx)
	rows, err := s.api.ReadRange(ctx, fmt.Sprintf("'%s'!%s:%s", sheet, letter, letter))
	if err != nil {
		log.Printf("[SHEETS] Could not read column %s of %q: %v", letter, sheet, err)
		return nil
	}

	column := make([]string, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			column[i] = row[0]
		}
	}
	return column
}

// buildRow renders an entry as one sheet row, from column A through the
// last mapped column, with a write timestamp in the column after that.
func buildRow(cols ColumnMapping, entry *work.Entry, now time.Time) []interface{} {
	maxIdx := 0
	for _, idx := range cols {
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	row := make([]interface{}, maxIdx+2)
	for i := range row {
		row[i] = ""
	}

	setCell(row, cols, FieldDate, entry.Date)
	setCell(row, cols, FieldClient, entry.ClientValue())
	setCell(row, cols, FieldDescription, entry.Description)

	if entry.Billable {
		setCell(row, cols, FieldHours, entry.Hours)
		if revenue := entry.Revenue(); revenue > 0 {
			setCell(row, cols, FieldRevenue, revenue)
		}
	} else {
		setCell(row, cols, FieldUnbillable, entry.Hours)
	}

	row[maxIdx+1] = now.Format(timestampLayout)
	return row
}

func setCell(row []interface{}, cols ColumnMapping, field Field, value interface{}) {
	if idx, ok := cols[field]; ok && idx < len(row) {
		row[idx] = value
	}
}

func columnIndex(cols ColumnMapping, field Field, fallback int) int {
	if idx, ok := cols[field]; ok {
		return idx
	}
	return fallback
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseNumber reads a sheet cell as a float, tolerating comma decimals and
// currency markers. Anything unreadable counts as zero.
func parseNumber(cell string) float64 {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.TrimLeft(cleaned, "€$ ")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

type dayMatch struct {
	date      time.Time
	canonical string
}

func daysIn(start, end time.Time) []dayMatch {
	var days []dayMatch
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, dayMatch{date: d, canonical: d.Format(dates.Layout)})
	}
	return days
}

func containsTitle(titles []string, name string) bool {
	for _, title := range titles {
		if title == name {
			return true
		}
	}
	return false
}
