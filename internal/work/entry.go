// Package work holds the semantic work record and the per-user pending
// entry store that bridges conversation turns while a client code is being
// collected.
package work

// DefaultHourlyRate applies when the extraction step yields no rate.
const DefaultHourlyRate = 85.0

// Entry is one logged unit of work. The date is always in the canonical
// DD-MM-YYYY form. An entry is incomplete until ClientCode is set; only
// complete entries may be written to the sheet.
type Entry struct {
	Date        string
	ClientName  string
	ClientCode  string
	Description string
	Hours       float64
	Billable    bool
	HourlyRate  float64
}

// Complete reports whether the entry has a client code and can be persisted.
func (e *Entry) Complete() bool {
	return e.ClientCode != ""
}

// ClientValue returns what goes into the sheet's client column: the code
// when resolved, the raw name otherwise.
func (e *Entry) ClientValue() string {
	if e.ClientCode != "" {
		return e.ClientCode
	}
	return e.ClientName
}

// Revenue returns hours times rate for billable entries, zero otherwise.
func (e *Entry) Revenue() float64 {
	if !e.Billable || e.Hours <= 0 {
		return 0
	}
	rate := e.HourlyRate
	if rate == 0 {
		rate = DefaultHourlyRate
	}
	return e.Hours * rate
}
