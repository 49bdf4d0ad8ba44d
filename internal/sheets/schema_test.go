package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverColumnsDutchHeaders(t *testing.T) {
	cols, discovered := DiscoverColumns([]string{"Datum", "Klant", "Beschrijving", "Uren", "Uren onbetaald", "Omzet"})

	assert.True(t, discovered)
	assert.Equal(t, 0, cols[FieldDate])
	assert.Equal(t, 1, cols[FieldClient])
	assert.Equal(t, 2, cols[FieldDescription])
	assert.Equal(t, 3, cols[FieldHours])
	assert.Equal(t, 4, cols[FieldUnbillable])
	assert.Equal(t, 5, cols[FieldRevenue])

	// "Uren onbetaald" must never double as the hours column.
	assert.NotEqual(t, cols[FieldHours], cols[FieldUnbillable])
}

func TestDiscoverColumnsEnglishHeaders(t *testing.T) {
	cols, discovered := DiscoverColumns([]string{"Date", "Customer", "Project", "Hours", "Non-billable", "Revenue"})

	assert.True(t, discovered)
	assert.Equal(t, 0, cols[FieldDate])
	assert.Equal(t, 1, cols[FieldClient])
	assert.Equal(t, 2, cols[FieldDescription])
	assert.Equal(t, 3, cols[FieldHours])
	assert.Equal(t, 4, cols[FieldUnbillable])
	assert.Equal(t, 5, cols[FieldRevenue])
}

func TestDiscoverColumnsReordered(t *testing.T) {
	cols, discovered := DiscoverColumns([]string{"Klant", "Datum", "Uren"})

	assert.True(t, discovered)
	assert.Equal(t, 1, cols[FieldDate])
	assert.Equal(t, 0, cols[FieldClient])
	assert.Equal(t, 2, cols[FieldHours])
}

func TestDiscoverColumnsEnglishUnbillableNeverClaimsHours(t *testing.T) {
	cols, discovered := DiscoverColumns([]string{"Date", "Client", "Description", "Non-billable", "Unbillable hours", "Hours"})

	assert.True(t, discovered)
	assert.Equal(t, 3, cols[FieldUnbillable])
	assert.Equal(t, 5, cols[FieldHours])
}

func TestDiscoverColumnsUnknownHeaders(t *testing.T) {
	cols, discovered := DiscoverColumns([]string{"aap", "noot", "mies"})

	assert.False(t, discovered)
	assert.Equal(t, DefaultColumns(), cols)
}

func TestDiscoverColumnsEmptyRow(t *testing.T) {
	cols, discovered := DiscoverColumns(nil)

	assert.False(t, discovered)
	assert.Equal(t, DefaultColumns(), cols)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "F", columnLetter(5))
	assert.Equal(t, "Z", columnLetter(25))
	assert.Equal(t, "AA", columnLetter(26))
	assert.Equal(t, "AB", columnLetter(27))
}
