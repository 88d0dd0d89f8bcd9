package status

import (
	"errors"
	"time"
)

// Status is the payment lifecycle value attached to every trackable item.
// The canonical values are stored as-is; presentation-language labels are
// produced only at the boundary via Label.
type Status string

const (
	Paid    Status = "PAGO"
	Overdue Status = "ATRASADO"
	Due     Status = "A_PAGAR"
)

var ErrInvalidStatus = errors.New("invalid payment status")

var labels = map[Status]string{
	Paid:    "Pago",
	Overdue: "Atrasado",
	Due:     "A Pagar",
}

// IsValid reports whether s is one of the three canonical statuses.
func (s Status) IsValid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the pt-BR presentation label for s.
func (s Status) Label() string {
	return labels[s]
}

// Parse validates a wire value and returns it as a Status.
func Parse(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Classify maps a due date to a lifecycle status. Paid is sticky: once an
// item was explicitly marked paid, recomputation never reverts it. All other
// items are Overdue when the due date is strictly before today, Due
// otherwise. Dates are compared at day granularity by calendar components,
// so a due date scanned as UTC midnight and a wall clock in local time name
// the same day when their components agree.
func Classify(dueDate, today time.Time, current Status) Status {
	if current == Paid {
		return Paid
	}
	if dayBefore(dueDate, today) {
		return Overdue
	}
	return Due
}

// dayBefore reports whether a's calendar date is strictly before b's,
// ignoring time of day and location.
func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
