package expense

import (
	"errors"
	"time"

	"contas/internal/domain/status"
)

// Domain errors
var (
	ErrNotFound            = errors.New("expense not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrInvalidMethod       = errors.New("invalid payment method")
)

// PaymentMethod identifies how an expense is paid.
type PaymentMethod string

const (
	CreditCard PaymentMethod = "CREDIT_CARD"
	Debit      PaymentMethod = "DEBIT"
	Pix        PaymentMethod = "PIX"
	Boleto     PaymentMethod = "BOLETO"
)

// Methods lists every payment method in presentation order.
var Methods = []PaymentMethod{CreditCard, Debit, Pix, Boleto}

var methodLabels = map[PaymentMethod]string{
	CreditCard: "Cartão de Crédito",
	Debit:      "Débito",
	Pix:        "Pix",
	Boleto:     "Boleto",
}

func (m PaymentMethod) IsValid() bool {
	_, ok := methodLabels[m]
	return ok
}

// Label returns the pt-BR presentation label for m.
func (m PaymentMethod) Label() string {
	return methodLabels[m]
}

// ParseMethod validates a wire value and returns it as a PaymentMethod.
func ParseMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", ErrInvalidMethod
	}
	return m, nil
}

// Expense is a discretionary payment obligation. An expense created with
// InstallmentCount > 1 is a parent record: its amount is divided across
// generated installments and it carries no status of its own (Status is
// cleared before the record is serialized; aggregation reads the
// installments instead).
type Expense struct {
	ID               string        `json:"id"`
	UserID           int64         `json:"-"`
	Description      string        `json:"description"`
	Amount           float64       `json:"amount"`
	DueDate          time.Time     `json:"dueDate"`
	Method           PaymentMethod `json:"paymentMethod"`
	InstallmentCount int           `json:"installmentCount"`
	Status           status.Status `json:"status,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// HasInstallments reports whether this expense fans out into installments.
func (e *Expense) HasInstallments() bool {
	return e.InstallmentCount > 1
}

// Installment is one scheduled sub-payment of a parent expense. Installments
// are owned by their parent: deleting the expense cascades to them.
type Installment struct {
	ID                string        `json:"id"`
	ExpenseID         string        `json:"expenseId"`
	Description       string        `json:"description"`
	Amount            float64       `json:"amount"`
	DueDate           time.Time     `json:"dueDate"`
	InstallmentNumber int           `json:"installmentNumber"`
	InstallmentTotal  int           `json:"installmentTotal"`
	Status            status.Status `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new expense.
type CreateParams struct {
	ID               string
	UserID           int64
	Description      string
	Amount           float64
	DueDate          time.Time
	Method           PaymentMethod
	InstallmentCount int
	Status           status.Status
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.Description == "" {
		return errors.New("description is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.DueDate.IsZero() {
		return errors.New("due date is required")
	}
	if !p.Method.IsValid() {
		return ErrInvalidMethod
	}
	if p.InstallmentCount < 1 {
		return errors.New("installment count must be at least 1")
	}
	if !p.Status.IsValid() {
		return status.ErrInvalidStatus
	}
	return nil
}

// UpdateParams contains parameters for partially updating an expense.
// Nil fields are left unchanged.
type UpdateParams struct {
	Description *string
	Amount      *float64
	DueDate     *time.Time
	Method      *PaymentMethod
	Status      *status.Status
}

// Validate validates the update parameters.
func (p UpdateParams) Validate() error {
	if p.Description != nil && *p.Description == "" {
		return errors.New("description must not be empty")
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.Method != nil && !p.Method.IsValid() {
		return ErrInvalidMethod
	}
	if p.Status != nil && !p.Status.IsValid() {
		return status.ErrInvalidStatus
	}
	return nil
}

// UpdateInstallmentParams contains parameters for partially updating an
// installment; in practice the status is what changes.
type UpdateInstallmentParams struct {
	DueDate *time.Time
	Status  *status.Status
}

func (p UpdateInstallmentParams) Validate() error {
	if p.Status != nil && !p.Status.IsValid() {
		return status.ErrInvalidStatus
	}
	return nil
}

// RefreshStatuses recomputes non-paid expense statuses against today.
// Parents with installments have their status cleared so it is never
// serialized; their lifecycle lives in the installments.
func RefreshStatuses(expenses []*Expense, today time.Time) {
	for _, e := range expenses {
		if e.HasInstallments() {
			e.Status = ""
			continue
		}
		e.Status = status.Classify(e.DueDate, today, e.Status)
	}
}

// RefreshInstallmentStatuses recomputes non-paid installment statuses
// against today.
func RefreshInstallmentStatuses(installments []*Installment, today time.Time) {
	for _, i := range installments {
		i.Status = status.Classify(i.DueDate, today, i.Status)
	}
}
