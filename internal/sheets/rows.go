package sheets

import (
	"strings"

	"github.com/user/bramify/internal/dates"
)

// clientScanWindow bounds how far below the first date match we look for an
// existing row of the same client before giving up and inserting.
const clientScanWindow = 10

type placement int

const (
	// placeUpdate overwrites an existing row for the same date and client.
	placeUpdate placement = iota
	// placeInsert writes directly below the block of rows for the date.
	placeInsert
	// placeAppend writes below the last populated row of the sheet.
	placeAppend
)

type target struct {
	row  int // 1-based sheet row
	kind placement
}

// findDateRow returns the 1-based row of the topmost cell matching the
// canonical date, or 0 when the date does not appear. The column slice is
// the full date column starting at row 1.
func findDateRow(dateColumn []string, date string) int {
	for i, cell := range dateColumn {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if dates.MatchesCell(cell, date) {
			return i + 1
		}
	}
	return 0
}

// lastPopulatedRow returns the 1-based row of the last non-empty cell in the
// column, or 0 for an entirely empty column.
func lastPopulatedRow(column []string) int {
	last := 0
	for i, cell := range column {
		if strings.TrimSpace(cell) != "" {
			last = i + 1
		}
	}
	return last
}

// resolveTarget decides where a row for (date, clientValue) belongs: update
// the client's existing row within the date block, insert at the end of the
// block, or append after all populated rows when the date is new.
func resolveTarget(dateColumn, clientColumn []string, date, clientValue string) target {
	blockStart := findDateRow(dateColumn, date)
	if blockStart == 0 {
		row := lastPopulatedRow(dateColumn) + 1
		// Row 1 is the header; never append over it, even when the date
		// column could not be read and looks empty.
		if row < 2 {
			row = 2
		}
		return target{row: row, kind: placeAppend}
	}

	blockEnd := blockStart
	for row := blockStart + 1; row <= len(dateColumn); row++ {
		cell := dateColumn[row-1]
		if strings.TrimSpace(cell) == "" || !dates.MatchesCell(cell, date) {
			break
		}
		blockEnd = row
	}

	want := strings.TrimSpace(clientValue)
	for row := blockStart; row <= blockEnd && row < blockStart+clientScanWindow; row++ {
		if row-1 >= len(clientColumn) {
			break
		}
		if strings.EqualFold(strings.TrimSpace(clientColumn[row-1]), want) {
			return target{row: row, kind: placeUpdate}
		}
	}

	return target{row: blockEnd + 1, kind: placeInsert}
}
