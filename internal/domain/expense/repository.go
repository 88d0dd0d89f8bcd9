package expense

import (
	"context"
	"time"

	"contas/internal/domain/status"
)

// Repository defines the interface for expense data access. Every method is
// scoped to a user: an id that exists but belongs to someone else behaves
// exactly like one that does not exist.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Expense, error)
	GetByID(ctx context.Context, userID int64, id string) (*Expense, error)
	ListByUser(ctx context.Context, userID int64) ([]*Expense, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*Expense, error)
	ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*Expense, error)
	Update(ctx context.Context, userID int64, id string, params UpdateParams) (*Expense, error)
	// Delete removes an expense; its installments cascade with it.
	Delete(ctx context.Context, userID int64, id string) error
	// BatchUpdateStatus updates every matched id owned by the user and
	// returns the affected count; ids that match nothing are skipped.
	BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error)
	// MarkOverduePastDue flips non-paid expenses due strictly before the
	// given day to Overdue, returning the affected count.
	MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error)
}

// InstallmentRepository defines the interface for installment data access.
// Ownership is resolved through the parent expense's user.
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []*Installment) error
	GetByID(ctx context.Context, userID int64, id string) (*Installment, error)
	ListByUser(ctx context.Context, userID int64) ([]*Installment, error)
	ListByExpense(ctx context.Context, userID int64, expenseID string) ([]*Installment, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*Installment, error)
	ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*Installment, error)
	Update(ctx context.Context, userID int64, id string, params UpdateInstallmentParams) (*Installment, error)
	Delete(ctx context.Context, userID int64, id string) error
	BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error)
	MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error)
}
