package http

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contas/internal/domain/expense"
	"contas/internal/domain/fixedbill"
	"contas/internal/domain/status"
)

func dashboardFixtures() (*MockExpenseRepo, *MockFixedBillRepo, *MockInstallmentRepo) {
	expenseRepo := &MockExpenseRepo{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]*expense.Expense, error) {
			return []*expense.Expense{
				{ID: "e-1", Description: "Mercado", Amount: 250, Method: expense.Pix, InstallmentCount: 1, Status: status.Due, DueDate: time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)},
				// Parcelled parent: its value must flow only through installments.
				{ID: "e-p", Description: "Notebook", Amount: 1200, Method: expense.CreditCard, InstallmentCount: 6, DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	billRepo := &MockFixedBillRepo{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]*fixedbill.FixedBill, error) {
			return []*fixedbill.FixedBill{
				{ID: "b-1", Name: "Aluguel", Amount: 1500, Status: status.Paid, DueDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	installmentRepo := &MockInstallmentRepo{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]*expense.Installment, error) {
			return []*expense.Installment{
				{ID: "i-1", ExpenseID: "e-p", Amount: 200, Status: status.Due, DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	return expenseRepo, billRepo, installmentRepo
}

func TestHandleSummary(t *testing.T) {
	handler := NewDashboardHandler(dashboardFixtures())
	handler.now = fixedNow(2024, 3, 20)

	rr := httptest.NewRecorder()
	handler.HandleSummary(rr, authedRequest(http.MethodGet, "/api/dashboard/summary", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp SummaryResponse
	json.NewDecoder(rr.Body).Decode(&resp)

	// The 1200 parent is excluded; only its 200 installment counts.
	if math.Abs(resp.TotalMonth-1950) > 1e-9 {
		t.Errorf("TotalMonth = %v, want 1950", resp.TotalMonth)
	}
	if math.Abs(resp.TotalPaid-1500) > 1e-9 {
		t.Errorf("TotalPaid = %v, want 1500", resp.TotalPaid)
	}
	if math.Abs(resp.TotalOverdue-200) > 1e-9 {
		t.Errorf("TotalOverdue = %v, want 200 (installment past due)", resp.TotalOverdue)
	}
	if resp.OverdueCount != 1 {
		t.Errorf("OverdueCount = %d, want 1", resp.OverdueCount)
	}
	if math.Abs(resp.ByKind.Expenses-250) > 1e-9 {
		t.Errorf("ByKind.Expenses = %v, want 250", resp.ByKind.Expenses)
	}
	if math.Abs(resp.ByKind.Installments-200) > 1e-9 {
		t.Errorf("ByKind.Installments = %v, want 200", resp.ByKind.Installments)
	}
	if math.Abs(resp.AverageMonthly-150) > 1e-9 {
		t.Errorf("AverageMonthly = %v, want 150 (450 over 3 months)", resp.AverageMonthly)
	}
}

func TestHandleOverdue(t *testing.T) {
	handler := NewDashboardHandler(dashboardFixtures())
	handler.now = fixedNow(2024, 3, 20)

	rr := httptest.NewRecorder()
	handler.HandleOverdue(rr, authedRequest(http.MethodGet, "/api/dashboard/overdue", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Expenses     []*expense.Expense     `json:"expenses"`
		FixedBills   []*fixedbill.FixedBill `json:"fixedBills"`
		Installments []*expense.Installment `json:"installments"`
	}
	json.NewDecoder(rr.Body).Decode(&resp)

	if len(resp.Expenses) != 0 {
		t.Errorf("overdue expenses = %d, want 0", len(resp.Expenses))
	}
	if len(resp.FixedBills) != 0 {
		t.Errorf("overdue bills = %d, want 0 (paid never reverts)", len(resp.FixedBills))
	}
	if len(resp.Installments) != 1 {
		t.Errorf("overdue installments = %d, want 1", len(resp.Installments))
	}
}

func TestHandleCharts(t *testing.T) {
	handler := NewDashboardHandler(dashboardFixtures())
	handler.now = fixedNow(2024, 3, 20)

	rr := httptest.NewRecorder()
	handler.HandleCharts(rr, authedRequest(http.MethodGet, "/api/dashboard/charts", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp ChartsResponse
	json.NewDecoder(rr.Body).Decode(&resp)

	if len(resp.ByMethod) != 4 {
		t.Fatalf("byMethod length = %d, want every method present", len(resp.ByMethod))
	}

	totals := make(map[string]float64, len(resp.ByMethod))
	for _, mt := range resp.ByMethod {
		totals[mt.Method] = mt.Total
	}
	if math.Abs(totals["PIX"]-250) > 1e-9 {
		t.Errorf("PIX total = %v, want 250", totals["PIX"])
	}
	if math.Abs(totals["CREDIT_CARD"]-200) > 1e-9 {
		t.Errorf("CREDIT_CARD total = %v, want 200 (installment under parent's method)", totals["CREDIT_CARD"])
	}
	if totals["DEBIT"] != 0 || totals["BOLETO"] != 0 {
		t.Errorf("unused methods should be zero, got DEBIT=%v BOLETO=%v", totals["DEBIT"], totals["BOLETO"])
	}

	if len(resp.Monthly) != 6 {
		t.Fatalf("monthly series length = %d, want 6", len(resp.Monthly))
	}
	last := resp.Monthly[len(resp.Monthly)-1]
	if last.Label != "mar/24" {
		t.Errorf("last month label = %q, want mar/24", last.Label)
	}
	if math.Abs(last.Total-450) > 1e-9 {
		t.Errorf("march total = %v, want 450", last.Total)
	}
}

func TestHandleBatchStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
		expectedCount  int64
	}{
		{
			name:           "Fixed Bills",
			body:           map[string]any{"itemKind": "fixedBills", "ids": []string{"b-1", "b-2"}, "newStatus": "PAGO"},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "Expenses With Unknown ID Skipped",
			body:           map[string]any{"itemKind": "expenses", "ids": []string{"e-1", "ghost"}, "newStatus": "PAGO"},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "Installments",
			body:           map[string]any{"itemKind": "installments", "ids": []string{"i-1"}, "newStatus": "A_PAGAR"},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "Invalid Kind",
			body:           map[string]any{"itemKind": "subscriptions", "ids": []string{"x"}, "newStatus": "PAGO"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Status",
			body:           map[string]any{"itemKind": "expenses", "ids": []string{"e-1"}, "newStatus": "QUITADO"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "No IDs",
			body:           map[string]any{"itemKind": "expenses", "ids": []string{}, "newStatus": "PAGO"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	countByIDs := func(ids []string) int64 {
		var n int64
		for _, id := range ids {
			if id != "ghost" {
				n++
			}
		}
		return n
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenseRepo := &MockExpenseRepo{
				BatchUpdateStatusFunc: func(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
					return countByIDs(ids), nil
				},
			}
			billRepo := &MockFixedBillRepo{
				BatchUpdateStatusFunc: func(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
					return countByIDs(ids), nil
				},
			}
			installmentRepo := &MockInstallmentRepo{
				BatchUpdateStatusFunc: func(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
					return countByIDs(ids), nil
				},
			}

			handler := NewDashboardHandler(expenseRepo, billRepo, installmentRepo)

			rr := httptest.NewRecorder()
			handler.HandleBatchStatus(rr, authedRequest(http.MethodPut, "/api/dashboard/batch-status", tt.body))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				var resp BatchStatusResponse
				json.NewDecoder(rr.Body).Decode(&resp)
				if resp.Updated != tt.expectedCount {
					t.Errorf("updated = %d, want %d", resp.Updated, tt.expectedCount)
				}
			}
		})
	}
}

func TestHandleSummary_RepositoryError(t *testing.T) {
	expenseRepo := &MockExpenseRepo{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]*expense.Expense, error) {
			return nil, errors.New("db error")
		},
	}

	handler := NewDashboardHandler(expenseRepo, &MockFixedBillRepo{}, &MockInstallmentRepo{})

	rr := httptest.NewRecorder()
	handler.HandleSummary(rr, authedRequest(http.MethodGet, "/api/dashboard/summary", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
