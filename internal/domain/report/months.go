package report

import (
	"fmt"
	"time"
)

// Go carries no locale data for month names, so the pt-BR abbreviations the
// charts expect are a fixed table.
var monthAbbr = [13]string{
	"", "jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// monthKey identifies one calendar month.
type monthKey struct {
	Year  int
	Month time.Month
}

func keyOf(t time.Time) monthKey {
	return monthKey{Year: t.Year(), Month: t.Month()}
}

// label formats a month as the abbreviated pt-BR month plus 2-digit year,
// e.g. "jan/24".
func (k monthKey) label() string {
	return fmt.Sprintf("%s/%02d", monthAbbr[k.Month], k.Year%100)
}

// trailingMonths returns the window calendar months ending at ref's month,
// oldest first.
func trailingMonths(ref time.Time, window int) []monthKey {
	keys := make([]monthKey, 0, window)
	for i := window - 1; i >= 0; i-- {
		first := time.Date(ref.Year(), ref.Month()-time.Month(i), 1, 0, 0, 0, 0, ref.Location())
		keys = append(keys, keyOf(first))
	}
	return keys
}

// dayOf normalizes t to its calendar date as UTC midnight, so dates from
// different locations compare by day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
