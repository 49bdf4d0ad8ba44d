package sheets

import "strings"

// Field names one logical column of a work entry row.
type Field string

const (
	FieldDate        Field = "date"
	FieldClient      Field = "client"
	FieldDescription Field = "description"
	FieldHours       Field = "hours"
	FieldUnbillable  Field = "unbillable"
	FieldRevenue     Field = "revenue"
)

// ColumnMapping maps each logical field to its zero-based column index.
type ColumnMapping map[Field]int

// DefaultColumns is the layout assumed when no header row can be read.
func DefaultColumns() ColumnMapping {
	return ColumnMapping{
		FieldDate:        0,
		FieldClient:      1,
		FieldDescription: 2,
		FieldHours:       3,
		FieldUnbillable:  4,
		FieldRevenue:     5,
	}
}

// DefaultHeaders is the header row written when the bot has to create a
// sheet from scratch.
var DefaultHeaders = []string{"Datum", "Klant", "Beschrijving", "Uren", "Uren onbetaald", "Omzet"}

// unbillableWords identify the unbillable-hours column and positively
// exclude a header from claiming the plain hours field.
var unbillableWords = []string{"onbetaald", "unbillable", "non-billable"}

// fieldSynonyms lists, per field, the Dutch and English header words that
// identify it. Order matters only across fields: unbillable is checked
// before plain hours so "Uren onbetaald" does not land on the hours column.
var fieldSynonyms = []struct {
	field Field
	words []string
}{
	{FieldDate, []string{"datum", "date", "dag", "day"}},
	{FieldClient, []string{"klant", "client", "opdrachtgever", "customer"}},
	{FieldDescription, []string{"beschrijving", "description", "omschrijving", "werkzaamheden", "project"}},
	{FieldUnbillable, unbillableWords},
	{FieldHours, []string{"uren", "hours", "tijd", "duur"}},
	{FieldRevenue, []string{"omzet", "revenue", "bedrag", "opbrengst"}},
}

// DiscoverColumns derives a column mapping from an actual header row. Each
// header cell is claimed by at most one field and each field keeps the first
// header that matched it. Returns the default mapping and false when nothing
// in the row looks like a known header.
func DiscoverColumns(headers []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{}

	for idx, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		if normalized == "" {
			continue
		}

		for _, candidate := range fieldSynonyms {
			if _, taken := mapping[candidate.field]; taken {
				continue
			}
			if candidate.field == FieldHours && matchesAny(normalized, unbillableWords) {
				continue
			}
			if matchesAny(normalized, candidate.words) {
				mapping[candidate.field] = idx
				break
			}
		}
	}

	if len(mapping) == 0 {
		return DefaultColumns(), false
	}

	// Fill fields the header did not name from the default layout, skipping
	// columns already claimed.
	claimed := map[int]bool{}
	for _, idx := range mapping {
		claimed[idx] = true
	}
	for field, idx := range DefaultColumns() {
		if _, ok := mapping[field]; ok {
			continue
		}
		if !claimed[idx] {
			mapping[field] = idx
			claimed[idx] = true
		}
	}

	return mapping, true
}

func matchesAny(normalized string, words []string) bool {
	for _, word := range words {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}

// columnLetter converts a zero-based column index to its A1 letter form.
func columnLetter(idx int) string {
	letters := ""
	for idx >= 0 {
		letters = string(rune('A'+idx%26)) + letters
		idx = idx/26 - 1
	}
	return letters
}
