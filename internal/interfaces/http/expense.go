package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"contas/internal/domain/expense"
	"contas/internal/domain/status"
	"contas/internal/shared/middleware"
)

type ExpenseHandler struct {
	expenseRepo     expense.Repository
	installmentRepo expense.InstallmentRepository
	now             func() time.Time
}

func NewExpenseHandler(expenseRepo expense.Repository, installmentRepo expense.InstallmentRepository) *ExpenseHandler {
	return &ExpenseHandler{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
		now:             time.Now,
	}
}

// Request/Response DTOs

type CreateExpenseRequest struct {
	Description      string    `json:"description"`
	Amount           float64   `json:"amount"`
	DueDate          time.Time `json:"dueDate"`
	PaymentMethod    string    `json:"paymentMethod"`
	InstallmentCount int       `json:"installmentCount"`
}

type UpdateExpenseRequest struct {
	Description   *string    `json:"description,omitempty"`
	Amount        *float64   `json:"amount,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	PaymentMethod *string    `json:"paymentMethod,omitempty"`
	Status        *string    `json:"status,omitempty"`
}

// ExpenseWithInstallments pairs an expense with the installments fanned out
// for it (empty for unparcelled expenses). Returned by create and by get on
// a parcelled parent.
type ExpenseWithInstallments struct {
	Expense      *expense.Expense       `json:"expense"`
	Installments []*expense.Installment `json:"installments"`
}

// HandleExpenses routes requests to the appropriate handler based on method
func (h *ExpenseHandler) HandleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListExpenses(w, r)
	case http.MethodPost:
		h.handleCreateExpense(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleExpenseByID routes requests for a specific expense
func (h *ExpenseHandler) HandleExpenseByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetExpense(w, r)
	case http.MethodPatch:
		h.handleUpdateExpense(w, r)
	case http.MethodDelete:
		h.handleDeleteExpense(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListExpenses returns all expenses for the authenticated user with
// statuses recomputed against today.
func (h *ExpenseHandler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenses, err := h.expenseRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing expenses for user %d: %v", userID, err)
		http.Error(w, "Failed to list expenses", http.StatusInternalServerError)
		return
	}

	expense.RefreshStatuses(expenses, h.now())
	if expenses == nil {
		expenses = []*expense.Expense{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenses)
}

// handleCreateExpense creates an expense; a request with
// installmentCount > 1 fans out the generated installments as well.
func (h *ExpenseHandler) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create expense request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	method, err := expense.ParseMethod(req.PaymentMethod)
	if err != nil {
		http.Error(w, "Invalid payment method", http.StatusBadRequest)
		return
	}

	installmentCount := req.InstallmentCount
	if installmentCount == 0 {
		installmentCount = 1
	}

	now := h.now()
	params := expense.CreateParams{
		ID:               uuid.NewString(),
		UserID:           userID,
		Description:      req.Description,
		Amount:           req.Amount,
		DueDate:          req.DueDate,
		Method:           method,
		InstallmentCount: installmentCount,
		Status:           status.Classify(req.DueDate, now, status.Due),
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.expenseRepo.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating expense for user %d: %v", userID, err)
		http.Error(w, "Failed to create expense", http.StatusInternalServerError)
		return
	}

	installments := []*expense.Installment{}
	if created.HasInstallments() {
		installments = expense.GenerateInstallments(created, now)
		if err := h.installmentRepo.CreateBatch(r.Context(), installments); err != nil {
			log.Printf("Error creating installments for expense %s: %v", created.ID, err)
			// Roll the parent back so a half-created plan never lingers.
			if delErr := h.expenseRepo.Delete(r.Context(), userID, created.ID); delErr != nil {
				log.Printf("Error rolling back expense %s: %v", created.ID, delErr)
			}
			http.Error(w, "Failed to create installments", http.StatusInternalServerError)
			return
		}
		created.Status = ""
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ExpenseWithInstallments{
		Expense:      created,
		Installments: installments,
	})
}

// handleGetExpense returns one expense; for a parcelled parent the
// installments come along too.
func (h *ExpenseHandler) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenseID := r.PathValue("id")
	if expenseID == "" {
		http.Error(w, "Expense ID is required", http.StatusBadRequest)
		return
	}

	e, err := h.expenseRepo.GetByID(r.Context(), userID, expenseID)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting expense %s: %v", expenseID, err)
		http.Error(w, "Failed to get expense", http.StatusInternalServerError)
		return
	}

	expense.RefreshStatuses([]*expense.Expense{e}, h.now())

	w.Header().Set("Content-Type", "application/json")
	if !e.HasInstallments() {
		json.NewEncoder(w).Encode(e)
		return
	}

	installments, err := h.installmentRepo.ListByExpense(r.Context(), userID, expenseID)
	if err != nil {
		log.Printf("Error listing installments for expense %s: %v", expenseID, err)
		http.Error(w, "Failed to list installments", http.StatusInternalServerError)
		return
	}
	if installments == nil {
		installments = []*expense.Installment{}
	}
	expense.RefreshInstallmentStatuses(installments, h.now())

	json.NewEncoder(w).Encode(ExpenseWithInstallments{
		Expense:      e,
		Installments: installments,
	})
}

// handleUpdateExpense partially updates an expense. A body carrying only
// a status change is valid.
func (h *ExpenseHandler) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenseID := r.PathValue("id")
	if expenseID == "" {
		http.Error(w, "Expense ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update expense request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := expense.UpdateParams{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
	}
	if req.PaymentMethod != nil {
		method, err := expense.ParseMethod(*req.PaymentMethod)
		if err != nil {
			http.Error(w, "Invalid payment method", http.StatusBadRequest)
			return
		}
		params.Method = &method
	}
	if req.Status != nil {
		st, err := status.Parse(*req.Status)
		if err != nil {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		params.Status = &st
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.expenseRepo.Update(r.Context(), userID, expenseID, params)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating expense %s: %v", expenseID, err)
		http.Error(w, "Failed to update expense", http.StatusInternalServerError)
		return
	}

	expense.RefreshStatuses([]*expense.Expense{e}, h.now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(e)
}

// handleDeleteExpense deletes an expense; installments cascade with it.
func (h *ExpenseHandler) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenseID := r.PathValue("id")
	if expenseID == "" {
		http.Error(w, "Expense ID is required", http.StatusBadRequest)
		return
	}

	if err := h.expenseRepo.Delete(r.Context(), userID, expenseID); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting expense %s: %v", expenseID, err)
		http.Error(w, "Failed to delete expense", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
