package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"contas/internal/domain/expense"
	"contas/internal/domain/fixedbill"
	"contas/internal/domain/report"
	"contas/internal/domain/status"
	"contas/internal/shared/middleware"
)

type DashboardHandler struct {
	expenseRepo     expense.Repository
	billRepo        fixedbill.Repository
	installmentRepo expense.InstallmentRepository
	now             func() time.Time
}

func NewDashboardHandler(expenseRepo expense.Repository, billRepo fixedbill.Repository, installmentRepo expense.InstallmentRepository) *DashboardHandler {
	return &DashboardHandler{
		expenseRepo:     expenseRepo,
		billRepo:        billRepo,
		installmentRepo: installmentRepo,
		now:             time.Now,
	}
}

// SummaryResponse is the current-month roll-up plus the trailing average.
type SummaryResponse struct {
	report.Summary
	AverageMonthly float64 `json:"averageMonthly"`
}

// MethodTotal is one slice of the payment method breakdown.
type MethodTotal struct {
	Method string  `json:"method"`
	Label  string  `json:"label"`
	Total  float64 `json:"total"`
}

// ChartsResponse feeds the dashboard charts: spending per payment method
// and the trailing monthly evolution.
type ChartsResponse struct {
	ByMethod []MethodTotal       `json:"byMethod"`
	Monthly  []report.MonthTotal `json:"monthly"`
}

type BatchStatusRequest struct {
	ItemKind  string   `json:"itemKind"`
	IDs       []string `json:"ids"`
	NewStatus string   `json:"newStatus"`
}

type BatchStatusResponse struct {
	Updated int64 `json:"updated"`
}

// load fetches the user's full ledger with statuses recomputed against today.
func (h *DashboardHandler) load(r *http.Request, userID int64) ([]*expense.Expense, []*fixedbill.FixedBill, []*expense.Installment, error) {
	ctx := r.Context()

	expenses, err := h.expenseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	bills, err := h.billRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	installments, err := h.installmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	now := h.now()
	expense.RefreshStatuses(expenses, now)
	fixedbill.RefreshStatuses(bills, now)
	expense.RefreshInstallmentStatuses(installments, now)

	return expenses, bills, installments, nil
}

// HandleSummary returns the current calendar month roll-up and the
// trailing 3-month average.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenses, bills, installments, err := h.load(r, userID)
	if err != nil {
		log.Printf("Error loading dashboard data for user %d: %v", userID, err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	now := h.now()
	resp := SummaryResponse{
		Summary:        report.MonthlySummary(expenses, bills, installments, now),
		AverageMonthly: report.AverageMonthly(expenses, installments, report.DefaultAverageMonths, now),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleOverdue returns every overdue item grouped by kind.
func (h *DashboardHandler) HandleOverdue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenses, bills, installments, err := h.load(r, userID)
	if err != nil {
		log.Printf("Error loading dashboard data for user %d: %v", userID, err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report.OverdueItems(expenses, bills, installments))
}

// HandleCharts returns the payment method breakdown and the trailing
// 6-month evolution series.
func (h *DashboardHandler) HandleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenses, _, installments, err := h.load(r, userID)
	if err != nil {
		log.Printf("Error loading dashboard data for user %d: %v", userID, err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	totals := report.TotalByMethod(expenses, installments)
	byMethod := make([]MethodTotal, 0, len(expense.Methods))
	for _, m := range expense.Methods {
		byMethod = append(byMethod, MethodTotal{
			Method: string(m),
			Label:  m.Label(),
			Total:  totals[m],
		})
	}

	resp := ChartsResponse{
		ByMethod: byMethod,
		Monthly:  report.MonthlyTotals(expenses, installments, report.DefaultMonthWindow, h.now()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleBatchStatus updates the status of a set of items of one kind in a
// single set-based write scoped to the requesting user. IDs that match
// nothing are skipped; the response carries the affected count.
func (h *DashboardHandler) HandleBatchStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req BatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding batch status request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.IDs) == 0 {
		http.Error(w, "At least one ID is required", http.StatusBadRequest)
		return
	}

	newStatus, err := status.Parse(req.NewStatus)
	if err != nil {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	var count int64
	switch req.ItemKind {
	case "expenses":
		count, err = h.expenseRepo.BatchUpdateStatus(r.Context(), userID, req.IDs, newStatus)
	case "fixedBills":
		count, err = h.billRepo.BatchUpdateStatus(r.Context(), userID, req.IDs, newStatus)
	case "installments":
		count, err = h.installmentRepo.BatchUpdateStatus(r.Context(), userID, req.IDs, newStatus)
	default:
		http.Error(w, "Invalid item kind", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("Error batch updating %s status for user %d: %v", req.ItemKind, userID, err)
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BatchStatusResponse{Updated: count})
}
