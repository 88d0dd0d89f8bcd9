package expense

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"contas/internal/domain/status"
)

// GenerateInstallments expands a parent expense into its scheduled
// sub-payments. An expense with InstallmentCount <= 1 produces nothing.
//
// Amounts are divided equally and rounded to 2 decimals, with the last
// installment absorbing the rounding remainder so the amounts always sum to
// the parent amount exactly. Due dates advance one calendar month per
// installment; when the parent's day-of-month does not exist in a target
// month, it is clamped to that month's last day (Jan 31 -> Feb 28/29).
//
// Each installment is classified against today starting from Due, so an
// installment scheduled in the past comes out Overdue at creation. The
// caller persists the result and is responsible for invoking this exactly
// once per expense; every call mints fresh ids.
func GenerateInstallments(e *Expense, today time.Time) []*Installment {
	if e.InstallmentCount <= 1 {
		return nil
	}

	n := e.InstallmentCount
	per := round2(e.Amount / float64(n))
	last := round2(e.Amount - per*float64(n-1))

	installments := make([]*Installment, 0, n)
	for i := 1; i <= n; i++ {
		amount := per
		if i == n {
			amount = last
		}

		due := addMonthsClamped(e.DueDate, i-1)

		installments = append(installments, &Installment{
			ID:                uuid.New().String(),
			ExpenseID:         e.ID,
			Description:       fmt.Sprintf("%s - Parcela %d/%d", e.Description, i, n),
			Amount:            amount,
			DueDate:           due,
			InstallmentNumber: i,
			InstallmentTotal:  n,
			Status:            status.Classify(due, today, status.Due),
		})
	}

	return installments
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// addMonthsClamped advances t by the given number of months, keeping the
// day-of-month where possible and clamping to the target month's last day
// otherwise. time.AddDate is avoided because it normalizes overflow into the
// following month.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}
