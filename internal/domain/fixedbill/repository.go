package fixedbill

import (
	"context"
	"time"

	"contas/internal/domain/status"
)

// Repository defines the interface for fixed bill data access, scoped per
// user the same way expenses are.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*FixedBill, error)
	GetByID(ctx context.Context, userID int64, id string) (*FixedBill, error)
	ListByUser(ctx context.Context, userID int64) ([]*FixedBill, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*FixedBill, error)
	ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*FixedBill, error)
	Update(ctx context.Context, userID int64, id string, params UpdateParams) (*FixedBill, error)
	Delete(ctx context.Context, userID int64, id string) error
	BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error)
	MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error)
}
