package expense

import (
	"fmt"
	"math"
	"testing"
	"time"

	"contas/internal/domain/status"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parent(amount float64, due time.Time, count int) *Expense {
	return &Expense{
		ID:               "exp-1",
		UserID:           1,
		Description:      "Notebook",
		Amount:           amount,
		DueDate:          due,
		Method:           CreditCard,
		InstallmentCount: count,
	}
}

func TestGenerateInstallments_SingleIsEmpty(t *testing.T) {
	for _, count := range []int{0, 1} {
		got := GenerateInstallments(parent(100, date(2024, 1, 15), count), date(2024, 1, 1))
		if len(got) != 0 {
			t.Errorf("GenerateInstallments(count=%d) produced %d installments, want 0", count, len(got))
		}
	}
}

func TestGenerateInstallments_EvenSplit(t *testing.T) {
	// 1200.00 over 6 starting 2024-01-15, created 2024-01-01: all due,
	// 200.00 each, monthly due dates.
	got := GenerateInstallments(parent(1200, date(2024, 1, 15), 6), date(2024, 1, 1))

	if len(got) != 6 {
		t.Fatalf("got %d installments, want 6", len(got))
	}

	for i, inst := range got {
		n := i + 1
		if inst.InstallmentNumber != n || inst.InstallmentTotal != 6 {
			t.Errorf("installment %d: number/total = %d/%d", n, inst.InstallmentNumber, inst.InstallmentTotal)
		}
		if inst.Amount != 200 {
			t.Errorf("installment %d: amount = %.2f, want 200.00", n, inst.Amount)
		}
		wantDue := date(2024, time.Month(n), 15)
		if !inst.DueDate.Equal(wantDue) {
			t.Errorf("installment %d: due = %s, want %s", n, inst.DueDate, wantDue)
		}
		if inst.Status != status.Due {
			t.Errorf("installment %d: status = %q, want %q", n, inst.Status, status.Due)
		}
		wantDesc := fmt.Sprintf("Notebook - Parcela %d/6", n)
		if inst.Description != wantDesc {
			t.Errorf("installment %d: description = %q, want %q", n, inst.Description, wantDesc)
		}
		if inst.ExpenseID != "exp-1" {
			t.Errorf("installment %d: expenseId = %q", n, inst.ExpenseID)
		}
		if inst.ID == "" {
			t.Errorf("installment %d: empty id", n)
		}
	}
}

func TestGenerateInstallments_PastInstallmentsOverdue(t *testing.T) {
	// Same plan evaluated mid-cycle on 2024-03-20: installments due
	// 01-15, 02-15 and 03-15 are already overdue, the rest still due.
	got := GenerateInstallments(parent(1200, date(2024, 1, 15), 6), date(2024, 3, 20))

	want := []status.Status{status.Overdue, status.Overdue, status.Overdue, status.Due, status.Due, status.Due}
	for i, inst := range got {
		if inst.Status != want[i] {
			t.Errorf("installment %d: status = %q, want %q", i+1, inst.Status, want[i])
		}
	}
}

func TestGenerateInstallments_LastAbsorbsRemainder(t *testing.T) {
	// 100.00 over 3: 33.33 + 33.33 + 33.34.
	got := GenerateInstallments(parent(100, date(2024, 1, 10), 3), date(2024, 1, 1))

	if got[0].Amount != 33.33 || got[1].Amount != 33.33 {
		t.Errorf("leading amounts = %.2f, %.2f, want 33.33 each", got[0].Amount, got[1].Amount)
	}
	if got[2].Amount != 33.34 {
		t.Errorf("last amount = %.2f, want 33.34", got[2].Amount)
	}

	var sum float64
	for _, inst := range got {
		sum += inst.Amount
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("sum of installments = %.10f, want exactly 100", sum)
	}
}

func TestGenerateInstallments_YearRollover(t *testing.T) {
	got := GenerateInstallments(parent(400, date(2023, 11, 10), 4), date(2023, 11, 1))

	wantDue := []time.Time{
		date(2023, 11, 10),
		date(2023, 12, 10),
		date(2024, 1, 10),
		date(2024, 2, 10),
	}
	for i, inst := range got {
		if !inst.DueDate.Equal(wantDue[i]) {
			t.Errorf("installment %d: due = %s, want %s", i+1, inst.DueDate, wantDue[i])
		}
	}
}

func TestGenerateInstallments_MonthEndClamped(t *testing.T) {
	// Jan 31 plans land on the last day of shorter months instead of
	// spilling into the next one.
	got := GenerateInstallments(parent(500, date(2024, 1, 31), 5), date(2024, 1, 1))

	wantDue := []time.Time{
		date(2024, 1, 31),
		date(2024, 2, 29), // leap year
		date(2024, 3, 31),
		date(2024, 4, 30),
		date(2024, 5, 31),
	}
	for i, inst := range got {
		if !inst.DueDate.Equal(wantDue[i]) {
			t.Errorf("installment %d: due = %s, want %s", i+1, inst.DueDate, wantDue[i])
		}
	}
}

func TestGenerateInstallments_FreshIDsPerCall(t *testing.T) {
	e := parent(100, date(2024, 1, 10), 2)
	first := GenerateInstallments(e, date(2024, 1, 1))
	second := GenerateInstallments(e, date(2024, 1, 1))

	seen := map[string]bool{}
	for _, inst := range append(first, second...) {
		if seen[inst.ID] {
			t.Fatalf("duplicate installment id %q across calls", inst.ID)
		}
		seen[inst.ID] = true
	}
}

func TestRefreshStatuses(t *testing.T) {
	today := date(2024, 5, 1)
	expenses := []*Expense{
		{DueDate: date(2024, 4, 1), Status: status.Due},                      // past due, flips
		{DueDate: date(2024, 4, 1), Status: status.Paid},                     // paid stays
		{DueDate: date(2024, 6, 1), Status: status.Overdue},                  // due date moved forward, flips back
		{DueDate: date(2024, 4, 1), Status: status.Due, InstallmentCount: 3}, // parent, cleared
	}

	RefreshStatuses(expenses, today)

	if expenses[0].Status != status.Overdue {
		t.Errorf("expense 0: status = %q, want %q", expenses[0].Status, status.Overdue)
	}
	if expenses[1].Status != status.Paid {
		t.Errorf("expense 1: status = %q, want %q", expenses[1].Status, status.Paid)
	}
	if expenses[2].Status != status.Due {
		t.Errorf("expense 2: status = %q, want %q", expenses[2].Status, status.Due)
	}
	if expenses[3].Status != "" {
		t.Errorf("parcelled parent: status = %q, want cleared", expenses[3].Status)
	}
}

func TestRefreshInstallmentStatuses_PaidSurvivesSweep(t *testing.T) {
	// Mark installment 1 paid, recompute on 2024-05-01: it stays paid
	// while unpaid past installments become overdue.
	installments := GenerateInstallments(parent(1200, date(2024, 1, 15), 6), date(2024, 1, 1))
	installments[0].Status = status.Paid

	RefreshInstallmentStatuses(installments, date(2024, 5, 1))

	if installments[0].Status != status.Paid {
		t.Errorf("installment 1: status = %q, want %q", installments[0].Status, status.Paid)
	}
	for i := 1; i <= 3; i++ {
		if installments[i].Status != status.Overdue {
			t.Errorf("installment %d: status = %q, want %q", i+1, installments[i].Status, status.Overdue)
		}
	}
	for i := 4; i <= 5; i++ {
		if installments[i].Status != status.Due {
			t.Errorf("installment %d: status = %q, want %q", i+1, installments[i].Status, status.Due)
		}
	}
}
