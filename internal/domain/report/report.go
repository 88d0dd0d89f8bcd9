// Package report computes the dashboard figures: totals by payment method,
// monthly evolution, the current-month summary, overdue listings and the
// trailing monthly average. Every function is pure over caller-supplied
// collections; the handlers narrow with repository queries first and feed
// the loaded slices in.
//
// Parent expenses with installments contribute nothing directly anywhere
// here: their value flows exclusively through their installments. An
// installment whose parent is missing from the supplied expense slice is
// silently dropped from method-keyed aggregation rather than treated as an
// error, so a half-loaded dashboard still renders.
package report

import (
	"sort"
	"time"

	"contas/internal/domain/expense"
	"contas/internal/domain/fixedbill"
	"contas/internal/domain/status"
)

// DefaultMonthWindow is the trailing window of the evolution chart.
const DefaultMonthWindow = 6

// DefaultAverageMonths is the trailing window of the monthly average.
const DefaultAverageMonths = 3

// MonthTotal is one point of the monthly evolution series.
type MonthTotal struct {
	Label string  `json:"label"`
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// StatusCounts counts items per lifecycle status.
type StatusCounts struct {
	Paid    int `json:"paid"`
	Overdue int `json:"overdue"`
	Due     int `json:"due"`
}

// KindTotals breaks a total down by item kind.
type KindTotals struct {
	Expenses     float64 `json:"expenses"`
	FixedBills   float64 `json:"fixedBills"`
	Installments float64 `json:"installments"`
}

// Summary is the dashboard roll-up for one calendar month.
type Summary struct {
	TotalMonth   float64      `json:"totalMonth"`
	TotalPaid    float64      `json:"totalPaid"`
	TotalOverdue float64      `json:"totalOverdue"`
	OverdueCount int          `json:"overdueCount"`
	ByKind       KindTotals   `json:"byKind"`
	ByStatus     StatusCounts `json:"byStatus"`
}

// OverdueSet groups every overdue item by kind, each slice sorted by due
// date ascending.
type OverdueSet struct {
	Expenses     []*expense.Expense     `json:"expenses"`
	FixedBills   []*fixedbill.FixedBill `json:"fixedBills"`
	Installments []*expense.Installment `json:"installments"`
}

// TotalByMethod sums spending per payment method. Unparcelled expenses
// count under their own method; installments count under their parent's
// method. Every method appears in the result, zero or not.
func TotalByMethod(expenses []*expense.Expense, installments []*expense.Installment) map[expense.PaymentMethod]float64 {
	totals := make(map[expense.PaymentMethod]float64, len(expense.Methods))
	for _, m := range expense.Methods {
		totals[m] = 0
	}

	byID := make(map[string]*expense.Expense, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
		if !e.HasInstallments() {
			totals[e.Method] += e.Amount
		}
	}

	for _, inst := range installments {
		parent, ok := byID[inst.ExpenseID]
		if !ok {
			continue // orphan: excluded, not an error
		}
		totals[parent.Method] += inst.Amount
	}

	return totals
}

// MonthlyTotals produces the evolution series for the trailing window of
// calendar months ending at ref's month, oldest first. Months without
// matches still appear with a zero total. Unparcelled expenses and all
// installments count by due month.
func MonthlyTotals(expenses []*expense.Expense, installments []*expense.Installment, window int, ref time.Time) []MonthTotal {
	if window <= 0 {
		window = DefaultMonthWindow
	}

	keys := trailingMonths(ref, window)
	totals := make(map[monthKey]float64, window)
	for _, k := range keys {
		totals[k] = 0
	}

	for _, e := range expenses {
		if e.HasInstallments() {
			continue
		}
		k := keyOf(e.DueDate)
		if _, ok := totals[k]; ok {
			totals[k] += e.Amount
		}
	}
	for _, inst := range installments {
		k := keyOf(inst.DueDate)
		if _, ok := totals[k]; ok {
			totals[k] += inst.Amount
		}
	}

	series := make([]MonthTotal, 0, window)
	for _, k := range keys {
		series = append(series, MonthTotal{
			Label: k.label(),
			Year:  k.Year,
			Month: int(k.Month),
			Total: totals[k],
		})
	}
	return series
}

// MonthlySummary rolls up the calendar month containing ref. Callers supply
// collections already narrowed to that month or wider; anything due outside
// the month is ignored here.
func MonthlySummary(expenses []*expense.Expense, bills []*fixedbill.FixedBill, installments []*expense.Installment, ref time.Time) Summary {
	month := keyOf(ref)
	inMonth := func(due time.Time) bool {
		return keyOf(due) == month
	}

	var s Summary

	add := func(amount float64, st status.Status) {
		s.TotalMonth += amount
		switch st {
		case status.Paid:
			s.TotalPaid += amount
			s.ByStatus.Paid++
		case status.Overdue:
			s.TotalOverdue += amount
			s.ByStatus.Overdue++
		default:
			s.ByStatus.Due++
		}
	}

	for _, e := range expenses {
		if e.HasInstallments() || !inMonth(e.DueDate) {
			continue
		}
		s.ByKind.Expenses += e.Amount
		add(e.Amount, e.Status)
	}
	for _, b := range bills {
		if !inMonth(b.DueDate) {
			continue
		}
		s.ByKind.FixedBills += b.Amount
		add(b.Amount, b.Status)
	}
	for _, inst := range installments {
		if !inMonth(inst.DueDate) {
			continue
		}
		s.ByKind.Installments += inst.Amount
		add(inst.Amount, inst.Status)
	}

	s.OverdueCount = s.ByStatus.Overdue
	return s
}

// OverdueItems filters every collection to overdue items, sorted by due
// date ascending within each kind.
func OverdueItems(expenses []*expense.Expense, bills []*fixedbill.FixedBill, installments []*expense.Installment) OverdueSet {
	set := OverdueSet{
		Expenses:     []*expense.Expense{},
		FixedBills:   []*fixedbill.FixedBill{},
		Installments: []*expense.Installment{},
	}

	for _, e := range expenses {
		if !e.HasInstallments() && e.Status == status.Overdue {
			set.Expenses = append(set.Expenses, e)
		}
	}
	for _, b := range bills {
		if b.Status == status.Overdue {
			set.FixedBills = append(set.FixedBills, b)
		}
	}
	for _, inst := range installments {
		if inst.Status == status.Overdue {
			set.Installments = append(set.Installments, inst)
		}
	}

	sort.Slice(set.Expenses, func(i, j int) bool { return set.Expenses[i].DueDate.Before(set.Expenses[j].DueDate) })
	sort.Slice(set.FixedBills, func(i, j int) bool { return set.FixedBills[i].DueDate.Before(set.FixedBills[j].DueDate) })
	sort.Slice(set.Installments, func(i, j int) bool { return set.Installments[i].DueDate.Before(set.Installments[j].DueDate) })

	return set
}

// AverageMonthly averages unparcelled expense and installment amounts due
// in the trailing monthsBack months before ref (ref itself included, with
// no special handling of the partial current month).
func AverageMonthly(expenses []*expense.Expense, installments []*expense.Installment, monthsBack int, ref time.Time) float64 {
	if monthsBack <= 0 {
		return 0
	}

	// Rebuild both ends of the window from calendar components so due dates
	// stored as UTC midnight and a local-time ref compare on days, not
	// instants.
	refDay := dayOf(ref)
	cutoff := refDay.AddDate(0, -monthsBack, 0)

	var sum float64
	for _, e := range expenses {
		if e.HasInstallments() {
			continue
		}
		if due := dayOf(e.DueDate); !due.Before(cutoff) && !due.After(refDay) {
			sum += e.Amount
		}
	}
	for _, inst := range installments {
		if due := dayOf(inst.DueDate); !due.Before(cutoff) && !due.After(refDay) {
			sum += inst.Amount
		}
	}

	return sum / float64(monthsBack)
}
