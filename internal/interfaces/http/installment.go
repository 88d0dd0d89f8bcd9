package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"contas/internal/domain/expense"
	"contas/internal/domain/status"
	"contas/internal/shared/middleware"
)

type InstallmentHandler struct {
	installmentRepo expense.InstallmentRepository
	now             func() time.Time
}

func NewInstallmentHandler(installmentRepo expense.InstallmentRepository) *InstallmentHandler {
	return &InstallmentHandler{
		installmentRepo: installmentRepo,
		now:             time.Now,
	}
}

type UpdateInstallmentRequest struct {
	DueDate *time.Time `json:"dueDate,omitempty"`
	Status  *string    `json:"status,omitempty"`
}

// HandleInstallments returns all installments for the authenticated user
func (h *InstallmentHandler) HandleInstallments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	installments, err := h.installmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing installments for user %d: %v", userID, err)
		http.Error(w, "Failed to list installments", http.StatusInternalServerError)
		return
	}

	expense.RefreshInstallmentStatuses(installments, h.now())
	if installments == nil {
		installments = []*expense.Installment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(installments)
}

// HandleOverdueInstallments returns the user's overdue installments sorted
// by due date ascending.
func (h *InstallmentHandler) HandleOverdueInstallments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	installments, err := h.installmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing installments for user %d: %v", userID, err)
		http.Error(w, "Failed to list installments", http.StatusInternalServerError)
		return
	}

	expense.RefreshInstallmentStatuses(installments, h.now())

	overdue := []*expense.Installment{}
	for _, inst := range installments {
		if inst.Status == status.Overdue {
			overdue = append(overdue, inst)
		}
	}
	sortInstallmentsByDueDate(overdue)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overdue)
}

// HandleInstallmentByID routes requests for a specific installment
func (h *InstallmentHandler) HandleInstallmentByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetInstallment(w, r)
	case http.MethodPatch:
		h.handleUpdateInstallment(w, r)
	case http.MethodDelete:
		h.handleDeleteInstallment(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InstallmentHandler) handleGetInstallment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	installmentID := r.PathValue("id")
	if installmentID == "" {
		http.Error(w, "Installment ID is required", http.StatusBadRequest)
		return
	}

	inst, err := h.installmentRepo.GetByID(r.Context(), userID, installmentID)
	if err != nil {
		if errors.Is(err, expense.ErrInstallmentNotFound) {
			http.Error(w, "Installment not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting installment %s: %v", installmentID, err)
		http.Error(w, "Failed to get installment", http.StatusInternalServerError)
		return
	}

	expense.RefreshInstallmentStatuses([]*expense.Installment{inst}, h.now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inst)
}

func (h *InstallmentHandler) handleUpdateInstallment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	installmentID := r.PathValue("id")
	if installmentID == "" {
		http.Error(w, "Installment ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update installment request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := expense.UpdateInstallmentParams{
		DueDate: req.DueDate,
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

	inst, err := h.installmentRepo.Update(r.Context(), userID, installmentID, params)
	if err != nil {
		if errors.Is(err, expense.ErrInstallmentNotFound) {
			http.Error(w, "Installment not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating installment %s: %v", installmentID, err)
		http.Error(w, "Failed to update installment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inst)
}

func (h *InstallmentHandler) handleDeleteInstallment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	installmentID := r.PathValue("id")
	if installmentID == "" {
		http.Error(w, "Installment ID is required", http.StatusBadRequest)
		return
	}

	if err := h.installmentRepo.Delete(r.Context(), userID, installmentID); err != nil {
		if errors.Is(err, expense.ErrInstallmentNotFound) {
			http.Error(w, "Installment not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting installment %s: %v", installmentID, err)
		http.Error(w, "Failed to delete installment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func sortInstallmentsByDueDate(installments []*expense.Installment) {
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].DueDate.Before(installments[j].DueDate)
	})
}
