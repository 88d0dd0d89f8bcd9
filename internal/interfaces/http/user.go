package http

import (
	"encoding/json"
	"log"
	"net/http"

	"contas/internal/domain/user"
	"contas/internal/shared/auth"
	"contas/internal/shared/middleware"
)

type UserHandler struct {
	userRepo user.Repository
}

func NewUserHandler(userRepo user.Repository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// MeResponse is the profile shape: the user plus whether a privacy PIN
// has been configured (the hash itself never leaves the server).
type MeResponse struct {
	*user.User
	HasPin bool `json:"hasPin"`
}

type UpdatePrivacyRequest struct {
	HideValues bool `json:"hideValues"`
}

type SetPinRequest struct {
	Pin string `json:"pin"`
}

type VerifyPinRequest struct {
	Pin string `json:"pin"`
}

type VerifyPinResponse struct {
	Valid bool `json:"valid"`
}

// HandleMe returns the authenticated user's profile
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MeResponse{User: u, HasPin: u.HasPin()})
}

// HandlePrivacy toggles whether dashboard values are hidden. This is a UI
// convenience, not an authorization boundary.
func (h *UserHandler) HandlePrivacy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdatePrivacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding privacy request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userRepo.Update(r.Context(), userID, user.UpdateParams{
		HideValues: &req.HideValues,
	})
	if err != nil {
		log.Printf("Error updating privacy for user %d: %v", userID, err)
		http.Error(w, "Failed to update privacy", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MeResponse{User: u, HasPin: u.HasPin()})
}

// HandleSetPin sets (or replaces) the privacy PIN
func (h *UserHandler) HandleSetPin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding set pin request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Pin) != 4 {
		http.Error(w, "PIN must be exactly 4 digits", http.StatusBadRequest)
		return
	}
	for _, c := range req.Pin {
		if c < '0' || c > '9' {
			http.Error(w, "PIN must be exactly 4 digits", http.StatusBadRequest)
			return
		}
	}

	pinHash, err := auth.HashPassword(req.Pin)
	if err != nil {
		log.Printf("Error hashing PIN for user %d: %v", userID, err)
		http.Error(w, "Failed to set PIN", http.StatusInternalServerError)
		return
	}

	u, err := h.userRepo.Update(r.Context(), userID, user.UpdateParams{
		PinHash: &pinHash,
	})
	if err != nil {
		log.Printf("Error setting PIN for user %d: %v", userID, err)
		http.Error(w, "Failed to set PIN", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MeResponse{User: u, HasPin: u.HasPin()})
}

// HandleVerifyPin checks a candidate PIN against the stored hash
func (h *UserHandler) HandleVerifyPin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding verify pin request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if !u.HasPin() {
		http.Error(w, "No PIN configured", http.StatusBadRequest)
		return
	}

	valid := auth.VerifyPassword(*u.PinHash, req.Pin) == nil

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VerifyPinResponse{Valid: valid})
}
