package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"contas/internal/domain/fixedbill"
	"contas/internal/domain/status"
	"contas/internal/shared/middleware"
)

type FixedBillHandler struct {
	billRepo fixedbill.Repository
	now      func() time.Time
}

func NewFixedBillHandler(billRepo fixedbill.Repository) *FixedBillHandler {
	return &FixedBillHandler{
		billRepo: billRepo,
		now:      time.Now,
	}
}

type CreateFixedBillRequest struct {
	Name    string    `json:"name"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"dueDate"`
}

type UpdateFixedBillRequest struct {
	Name    *string    `json:"name,omitempty"`
	Amount  *float64   `json:"amount,omitempty"`
	DueDate *time.Time `json:"dueDate,omitempty"`
	Status  *string    `json:"status,omitempty"`
}

// HandleFixedBills routes requests to the appropriate handler based on method
func (h *FixedBillHandler) HandleFixedBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListFixedBills(w, r)
	case http.MethodPost:
		h.handleCreateFixedBill(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleFixedBillByID routes requests for a specific fixed bill
func (h *FixedBillHandler) HandleFixedBillByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetFixedBill(w, r)
	case http.MethodPatch:
		h.handleUpdateFixedBill(w, r)
	case http.MethodDelete:
		h.handleDeleteFixedBill(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FixedBillHandler) handleListFixedBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bills, err := h.billRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing fixed bills for user %d: %v", userID, err)
		http.Error(w, "Failed to list fixed bills", http.StatusInternalServerError)
		return
	}

	fixedbill.RefreshStatuses(bills, h.now())
	if bills == nil {
		bills = []*fixedbill.FixedBill{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bills)
}

func (h *FixedBillHandler) handleCreateFixedBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateFixedBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create fixed bill request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := fixedbill.CreateParams{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    req.Name,
		Amount:  req.Amount,
		DueDate: req.DueDate,
		Status:  status.Classify(req.DueDate, h.now(), status.Due),
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bill, err := h.billRepo.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating fixed bill for user %d: %v", userID, err)
		http.Error(w, "Failed to create fixed bill", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(bill)
}

func (h *FixedBillHandler) handleGetFixedBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	billID := r.PathValue("id")
	if billID == "" {
		http.Error(w, "Fixed bill ID is required", http.StatusBadRequest)
		return
	}

	bill, err := h.billRepo.GetByID(r.Context(), userID, billID)
	if err != nil {
		if errors.Is(err, fixedbill.ErrNotFound) {
			http.Error(w, "Fixed bill not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting fixed bill %s: %v", billID, err)
		http.Error(w, "Failed to get fixed bill", http.StatusInternalServerError)
		return
	}

	fixedbill.RefreshStatuses([]*fixedbill.FixedBill{bill}, h.now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bill)
}

func (h *FixedBillHandler) handleUpdateFixedBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	billID := r.PathValue("id")
	if billID == "" {
		http.Error(w, "Fixed bill ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateFixedBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update fixed bill request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := fixedbill.UpdateParams{
		Name:    req.Name,
		Amount:  req.Amount,
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

	bill, err := h.billRepo.Update(r.Context(), userID, billID, params)
	if err != nil {
		if errors.Is(err, fixedbill.ErrNotFound) {
			http.Error(w, "Fixed bill not found", http.StatusNotFound)
			return
		}
		log.Printf("Error updating fixed bill %s: %v", billID, err)
		http.Error(w, "Failed to update fixed bill", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bill)
}

func (h *FixedBillHandler) handleDeleteFixedBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	billID := r.PathValue("id")
	if billID == "" {
		http.Error(w, "Fixed bill ID is required", http.StatusBadRequest)
		return
	}

	if err := h.billRepo.Delete(r.Context(), userID, billID); err != nil {
		if errors.Is(err, fixedbill.ErrNotFound) {
			http.Error(w, "Fixed bill not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting fixed bill %s: %v", billID, err)
		http.Error(w, "Failed to delete fixed bill", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
