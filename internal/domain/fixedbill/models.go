package fixedbill

import (
	"errors"
	"time"

	"contas/internal/domain/status"
)

var ErrNotFound = errors.New("fixed bill not found")

// FixedBill is a recurring monthly obligation tracked as one record per
// month instance, not a template.
type FixedBill struct {
	ID        string        `json:"id"`
	UserID    int64         `json:"-"`
	Name      string        `json:"name"`
	Amount    float64       `json:"amount"`
	DueDate   time.Time     `json:"dueDate"`
	Status    status.Status `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new fixed bill.
type CreateParams struct {
	ID      string
	UserID  int64
	Name    string
	Amount  float64
	DueDate time.Time
	Status  status.Status
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.DueDate.IsZero() {
		return errors.New("due date is required")
	}
	if !p.Status.IsValid() {
		return status.ErrInvalidStatus
	}
	return nil
}

// UpdateParams contains parameters for partially updating a fixed bill.
type UpdateParams struct {
	Name    *string
	Amount  *float64
	DueDate *time.Time
	Status  *status.Status
}

func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("name must not be empty")
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return status.ErrInvalidStatus
	}
	return nil
}

// RefreshStatuses recomputes non-paid bill statuses against today.
func RefreshStatuses(bills []*FixedBill, today time.Time) {
	for _, b := range bills {
		b.Status = status.Classify(b.DueDate, today, b.Status)
	}
}
