package sheets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/bramify/internal/work"
)

// fakeAPI is an in-memory spreadsheet: one grid of string cells per sheet.
type fakeAPI struct {
	titles  []string
	grids   map[string][][]string
	updates []string
	inserts []string

	failColumnReads bool
}

func newFakeAPI(titles ...string) *fakeAPI {
	f := &fakeAPI{grids: map[string][][]string{}}
	for _, title := range titles {
		f.titles = append(f.titles, title)
		f.grids[title] = [][]string{}
	}
	return f
}

var (
	columnRangePattern = regexp.MustCompile(`^([A-Z]+):([A-Z]+)$`)
	cellRangePattern   = regexp.MustCompile(`^([A-Z]+)(\d+):([A-Z]+)(\d+)$`)
)

func splitA1(a1 string) (string, string) {
	parts := strings.SplitN(a1, "!", 2)
	return strings.Trim(parts[0], "'"), parts[1]
}

func letterIndex(letters string) int {
	n := 0
	for _, c := range letters {
		n = n*26 + int(c-'A') + 1
	}
	return n - 1
}

func (f *fakeAPI) ReadRange(_ context.Context, a1 string) ([][]string, error) {
	sheet, ref := splitA1(a1)
	grid, ok := f.grids[sheet]
	if !ok {
		return nil, errors.New("sheet not found")
	}

	if ref == "1:1" {
		if len(grid) == 0 {
			return nil, nil
		}
		return [][]string{grid[0]}, nil
	}

	m := columnRangePattern.FindStringSubmatch(ref)
	if m == nil {
		return nil, fmt.Errorf("unsupported range %q", ref)
	}
	from, to := letterIndex(m[1]), letterIndex(m[2])

	if from == to && f.failColumnReads {
		return nil, errors.New("backend unavailable")
	}

	if from != to {
		// Multi-column read returns the whole grid.
		out := make([][]string, len(grid))
		for i, row := range grid {
			out[i] = append([]string(nil), row...)
		}
		return out, nil
	}

	out := make([][]string, len(grid))
	for i, row := range grid {
		cell := ""
		if from < len(row) {
			cell = row[from]
		}
		out[i] = []string{cell}
	}
	return out, nil
}

func (f *fakeAPI) UpdateRange(_ context.Context, a1 string, values [][]interface{}) error {
	f.updates = append(f.updates, a1)
	sheet, ref := splitA1(a1)
	grid, ok := f.grids[sheet]
	if !ok {
		return errors.New("sheet not found")
	}

	m := cellRangePattern.FindStringSubmatch(ref)
	if m == nil {
		return fmt.Errorf("unsupported range %q", ref)
	}
	startCol := letterIndex(m[1])
	row, _ := strconv.Atoi(m[2])

	for len(grid) < row {
		grid = append(grid, []string{})
	}
	cells := grid[row-1]
	for i, value := range values[0] {
		idx := startCol + i
		for len(cells) <= idx {
			cells = append(cells, "")
		}
		cells[idx] = renderCell(value)
	}
	grid[row-1] = cells
	f.grids[sheet] = grid
	return nil
}

func renderCell(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (f *fakeAPI) SheetTitles(_ context.Context) ([]string, error) {
	return append([]string(nil), f.titles...), nil
}

func (f *fakeAPI) AddSheet(_ context.Context, title string) error {
	f.titles = append(f.titles, title)
	f.grids[title] = [][]string{}
	return nil
}

func (f *fakeAPI) InsertRow(_ context.Context, sheetTitle string, row int) error {
	f.inserts = append(f.inserts, fmt.Sprintf("%s:%d", sheetTitle, row))
	grid := f.grids[sheetTitle]
	grid = append(grid, nil)
	copy(grid[row:], grid[row-1:])
	grid[row-1] = []string{}
	f.grids[sheetTitle] = grid
	return nil
}

func newTestService(api API) *Service {
	service := NewService(api)
	service.now = func() time.Time {
		return time.Date(2025, time.March, 26, 10, 0, 0, 0, time.UTC)
	}
	return service
}

func dutchHeader() []string {
	return []string{"Datum", "Klant", "Beschrijving", "Uren", "Uren onbetaald", "Omzet"}
}

func globexEntry() *work.Entry {
	return &work.Entry{
		Date:        "26-03-2025",
		ClientName:  "Globex Corp",
		ClientCode:  "GLX",
		Description: "API work",
		Hours:       4,
		Billable:    true,
		HourlyRate:  85,
	}
}

func TestAddEntryAppendsForNewDate(t *testing.T) {
	fake := newFakeAPI("2025", "Test-2025")
	fake.grids["2025"] = [][]string{
		dutchHeader(),
		{"25-03-2025", "ABC", "earlier work", "2", "", "170"},
	}

	service := newTestService(fake)
	require.NoError(t, service.AddEntry(context.Background(), globexEntry(), false))

	grid := fake.grids["2025"]
	require.Len(t, grid, 3)
	row := grid[2]
	assert.Equal(t, "26-03-2025", row[0])
	assert.Equal(t, "GLX", row[1])
	assert.Equal(t, "API work", row[2])
	assert.Equal(t, "4", row[3])
	assert.Equal(t, "", row[4])
	assert.Equal(t, "340", row[5])
	assert.Equal(t, "2025-03-26 10:00:00", row[6])
}

func TestAddEntryOverwritesSameDateAndClient(t *testing.T) {
	fake := newFakeAPI("2025", "Test-2025")
	fake.grids["2025"] = [][]string{dutchHeader()}

	service := newTestService(fake)
	require.NoError(t, service.AddEntry(context.Background(), globexEntry(), false))

	revised := globexEntry()
	revised.Description = "API work, revised"
	revised.Hours = 6
	require.NoError(t, service.AddEntry(context.Background(), revised, false))

	grid := fake.grids["2025"]
	require.Len(t, grid, 2)
	row := grid[1]
	assert.Equal(t, "API work, revised", row[2])
	assert.Equal(t, "6", row[3])
	assert.Equal(t, "510", row[5])

	require.Len(t, fake.updates, 2)
	assert.Equal(t, fake.updates[0], fake.updates[1])
}

func TestAddEntryInsertsWithinDateBlock(t *testing.T) {
	fake := newFakeAPI("2025", "Test-2025")
	fake.grids["2025"] = [][]string{
		dutchHeader(),
		{"26-03-2025", "ABC", "morning work", "3", "", "255"},
		{"27-03-2025", "DEF", "next day", "2", "", "170"},
	}

	service := newTestService(fake)
	require.NoError(t, service.AddEntry(context.Background(), globexEntry(), false))

	grid := fake.grids["2025"]
	require.Len(t, grid, 4)
	assert.Equal(t, []string{"2025:3"}, fake.inserts)
	assert.Equal(t, "GLX", grid[2][1])
	// The next day's row moved down intact.
	assert.Equal(t, "27-03-2025", grid[3][0])
	assert.Equal(t, "DEF", grid[3][1])
}

func TestAddEntryUnbillableHours(t *testing.T) {
	fake := newFakeAPI("2025", "Test-2025")
	fake.grids["2025"] = [][]string{dutchHeader()}

	entry := globexEntry()
	entry.Billable = false
	entry.Hours = 3

	service := newTestService(fake)
	require.NoError(t, service.AddEntry(context.Background(), entry, false))

	row := fake.grids["2025"][1]
	assert.Equal(t, "", row[3])
	assert.Equal(t, "3", row[4])
	assert.Equal(t, "", row[5])
}

func TestAddEntryTrialModeCreatesTestSheet(t *testing.T) {
	fake := newFakeAPI("2025")
	fake.grids["2025"] = [][]string{dutchHeader()}

	service := newTestService(fake)
	require.NoError(t, service.AddEntry(context.Background(), globexEntry(), true))

	grid, ok := fake.grids["Test-2025"]
	require.True(t, ok)
	require.Len(t, grid, 2)
	assert.Equal(t, dutchHeader(), grid[0])
	assert.Equal(t, "GLX", grid[1][1])
	// The live sheet stays untouched.
	assert.Len(t, fake.grids["2025"], 1)
}

func TestAddEntryFallsBackWhenLiveSheetMissing(t *testing.T) {
	fake := newFakeAPI()

	service := newTestService(fake)
	require.NoError(t, service.AddEntry(context.Background(), globexEntry(), false))

	grid, ok := fake.grids["Test-2025"]
	require.True(t, ok)
	require.Len(t, grid, 2)
	assert.Equal(t, dutchHeader(), grid[0])
	assert.Equal(t, "26-03-2025", grid[1][0])
}

func TestAddEntryColumnReadFailureNeverOverwritesHeader(t *testing.T) {
	fake := newFakeAPI("2025", "Test-2025")
	fake.grids["2025"] = [][]string{
		dutchHeader(),
		{"25-03-2025", "ABC", "earlier work", "2", "", "170"},
	}
	fake.failColumnReads = true

	service := newTestService(fake)
	require.NoError(t, service.AddEntry(context.Background(), globexEntry(), false))

	// Degraded placement appends blind, but the header row survives.
	grid := fake.grids["2025"]
	assert.Equal(t, dutchHeader(), grid[0])
	assert.Equal(t, "GLX", grid[1][1])
}

func TestAddEntryRequiresClientCode(t *testing.T) {
	fake := newFakeAPI("2025", "Test-2025")
	service := newTestService(fake)

	entry := globexEntry()
	entry.ClientCode = ""

	assert.Error(t, service.AddEntry(context.Background(), entry, false))
	assert.Empty(t, fake.updates)
}

func TestEntriesReadsBothSheets(t *testing.T) {
	fake := newFakeAPI("2025", "Test-2025")
	fake.grids["2025"] = [][]string{
		dutchHeader(),
		{"Woensdag 26 maart 2025", "GLX", "API work", "4", "", "340"},
		{"27-03-2025", "ABC", "planning", "", "2", ""},
		{"01-05-2025", "ABC", "out of range", "1", "", "85"},
	}
	fake.grids["Test-2025"] = [][]string{
		dutchHeader(),
		{"26-03-2025", "DEF", "trial entry", "1.5", "", "127.5"},
	}

	service := newTestService(fake)
	start := time.Date(2025, time.March, 26, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 27, 0, 0, 0, 0, time.UTC)

	records, err := service.Entries(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "GLX", records[0].Client)
	assert.InDelta(t, 4.0, records[0].Hours, 0.001)
	assert.InDelta(t, 340.0, records[0].Revenue, 0.001)
	assert.Equal(t, "2025", records[0].Sheet)

	assert.Equal(t, "ABC", records[1].Client)
	assert.InDelta(t, 2.0, records[1].Unbillable, 0.001)

	assert.Equal(t, "DEF", records[2].Client)
	assert.Equal(t, "Test-2025", records[2].Sheet)
	assert.InDelta(t, 1.5, records[2].Hours, 0.001)
}

func TestParseNumber(t *testing.T) {
	assert.InDelta(t, 2.5, parseNumber("2,5"), 0.001)
	assert.InDelta(t, 340.0, parseNumber("€ 340"), 0.001)
	assert.InDelta(t, 0.0, parseNumber(""), 0.001)
	assert.InDelta(t, 0.0, parseNumber("n/a"), 0.001)
}
