package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"contas/internal/domain/expense"
	"contas/internal/domain/fixedbill"
	"contas/internal/domain/status"
	"contas/internal/domain/user"
	"contas/internal/shared/middleware"
)

// MockExpenseRepo implements expense.Repository for testing
type MockExpenseRepo struct {
	CreateFunc                 func(ctx context.Context, params expense.CreateParams) (*expense.Expense, error)
	GetByIDFunc                func(ctx context.Context, userID int64, id string) (*expense.Expense, error)
	ListByUserFunc             func(ctx context.Context, userID int64) ([]*expense.Expense, error)
	ListByUserAndDateRangeFunc func(ctx context.Context, userID int64, from, to time.Time) ([]*expense.Expense, error)
	ListByUserAndStatusFunc    func(ctx context.Context, userID int64, s status.Status) ([]*expense.Expense, error)
	UpdateFunc                 func(ctx context.Context, userID int64, id string, params expense.UpdateParams) (*expense.Expense, error)
	DeleteFunc                 func(ctx context.Context, userID int64, id string) error
	BatchUpdateStatusFunc      func(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error)
	MarkOverduePastDueFunc     func(ctx context.Context, userID int64, today time.Time) (int64, error)
}

func (m *MockExpenseRepo) Create(ctx context.Context, params expense.CreateParams) (*expense.Expense, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockExpenseRepo) GetByID(ctx context.Context, userID int64, id string) (*expense.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *MockExpenseRepo) ListByUser(ctx context.Context, userID int64) ([]*expense.Expense, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockExpenseRepo) ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*expense.Expense, error) {
	if m.ListByUserAndDateRangeFunc != nil {
		return m.ListByUserAndDateRangeFunc(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *MockExpenseRepo) ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*expense.Expense, error) {
	if m.ListByUserAndStatusFunc != nil {
		return m.ListByUserAndStatusFunc(ctx, userID, s)
	}
	return nil, nil
}

func (m *MockExpenseRepo) Update(ctx context.Context, userID int64, id string, params expense.UpdateParams) (*expense.Expense, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, nil
}

func (m *MockExpenseRepo) Delete(ctx context.Context, userID int64, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockExpenseRepo) BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
	if m.BatchUpdateStatusFunc != nil {
		return m.BatchUpdateStatusFunc(ctx, userID, ids, s)
	}
	return 0, nil
}

func (m *MockExpenseRepo) MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error) {
	if m.MarkOverduePastDueFunc != nil {
		return m.MarkOverduePastDueFunc(ctx, userID, today)
	}
	return 0, nil
}

// MockInstallmentRepo implements expense.InstallmentRepository for testing
type MockInstallmentRepo struct {
	CreateBatchFunc            func(ctx context.Context, installments []*expense.Installment) error
	GetByIDFunc                func(ctx context.Context, userID int64, id string) (*expense.Installment, error)
	ListByUserFunc             func(ctx context.Context, userID int64) ([]*expense.Installment, error)
	ListByExpenseFunc          func(ctx context.Context, userID int64, expenseID string) ([]*expense.Installment, error)
	ListByUserAndDateRangeFunc func(ctx context.Context, userID int64, from, to time.Time) ([]*expense.Installment, error)
	ListByUserAndStatusFunc    func(ctx context.Context, userID int64, s status.Status) ([]*expense.Installment, error)
	UpdateFunc                 func(ctx context.Context, userID int64, id string, params expense.UpdateInstallmentParams) (*expense.Installment, error)
	DeleteFunc                 func(ctx context.Context, userID int64, id string) error
	BatchUpdateStatusFunc      func(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error)
	MarkOverduePastDueFunc     func(ctx context.Context, userID int64, today time.Time) (int64, error)
}

func (m *MockInstallmentRepo) CreateBatch(ctx context.Context, installments []*expense.Installment) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, installments)
	}
	return nil
}

func (m *MockInstallmentRepo) GetByID(ctx context.Context, userID int64, id string) (*expense.Installment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *MockInstallmentRepo) ListByUser(ctx context.Context, userID int64) ([]*expense.Installment, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockInstallmentRepo) ListByExpense(ctx context.Context, userID int64, expenseID string) ([]*expense.Installment, error) {
	if m.ListByExpenseFunc != nil {
		return m.ListByExpenseFunc(ctx, userID, expenseID)
	}
	return nil, nil
}

func (m *MockInstallmentRepo) ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*expense.Installment, error) {
	if m.ListByUserAndDateRangeFunc != nil {
		return m.ListByUserAndDateRangeFunc(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *MockInstallmentRepo) ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*expense.Installment, error) {
	if m.ListByUserAndStatusFunc != nil {
		return m.ListByUserAndStatusFunc(ctx, userID, s)
	}
	return nil, nil
}

func (m *MockInstallmentRepo) Update(ctx context.Context, userID int64, id string, params expense.UpdateInstallmentParams) (*expense.Installment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, nil
}

func (m *MockInstallmentRepo) Delete(ctx context.Context, userID int64, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockInstallmentRepo) BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
	if m.BatchUpdateStatusFunc != nil {
		return m.BatchUpdateStatusFunc(ctx, userID, ids, s)
	}
	return 0, nil
}

func (m *MockInstallmentRepo) MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error) {
	if m.MarkOverduePastDueFunc != nil {
		return m.MarkOverduePastDueFunc(ctx, userID, today)
	}
	return 0, nil
}

// MockFixedBillRepo implements fixedbill.Repository for testing
type MockFixedBillRepo struct {
	CreateFunc                 func(ctx context.Context, params fixedbill.CreateParams) (*fixedbill.FixedBill, error)
	GetByIDFunc                func(ctx context.Context, userID int64, id string) (*fixedbill.FixedBill, error)
	ListByUserFunc             func(ctx context.Context, userID int64) ([]*fixedbill.FixedBill, error)
	ListByUserAndDateRangeFunc func(ctx context.Context, userID int64, from, to time.Time) ([]*fixedbill.FixedBill, error)
	ListByUserAndStatusFunc    func(ctx context.Context, userID int64, s status.Status) ([]*fixedbill.FixedBill, error)
	UpdateFunc                 func(ctx context.Context, userID int64, id string, params fixedbill.UpdateParams) (*fixedbill.FixedBill, error)
	DeleteFunc                 func(ctx context.Context, userID int64, id string) error
	BatchUpdateStatusFunc      func(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error)
	MarkOverduePastDueFunc     func(ctx context.Context, userID int64, today time.Time) (int64, error)
}

func (m *MockFixedBillRepo) Create(ctx context.Context, params fixedbill.CreateParams) (*fixedbill.FixedBill, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockFixedBillRepo) GetByID(ctx context.Context, userID int64, id string) (*fixedbill.FixedBill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *MockFixedBillRepo) ListByUser(ctx context.Context, userID int64) ([]*fixedbill.FixedBill, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockFixedBillRepo) ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*fixedbill.FixedBill, error) {
	if m.ListByUserAndDateRangeFunc != nil {
		return m.ListByUserAndDateRangeFunc(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *MockFixedBillRepo) ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*fixedbill.FixedBill, error) {
	if m.ListByUserAndStatusFunc != nil {
		return m.ListByUserAndStatusFunc(ctx, userID, s)
	}
	return nil, nil
}

func (m *MockFixedBillRepo) Update(ctx context.Context, userID int64, id string, params fixedbill.UpdateParams) (*fixedbill.FixedBill, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, nil
}

func (m *MockFixedBillRepo) Delete(ctx context.Context, userID int64, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockFixedBillRepo) BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
	if m.BatchUpdateStatusFunc != nil {
		return m.BatchUpdateStatusFunc(ctx, userID, ids, s)
	}
	return 0, nil
}

func (m *MockFixedBillRepo) MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error) {
	if m.MarkOverduePastDueFunc != nil {
		return m.MarkOverduePastDueFunc(ctx, userID, today)
	}
	return 0, nil
}

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	ListFunc       func(ctx context.Context) ([]*user.User, error)
	UpdateFunc     func(ctx context.Context, id int64, params user.UpdateParams) (*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) List(ctx context.Context) ([]*user.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserRepo) Update(ctx context.Context, id int64, params user.UpdateParams) (*user.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

// authedRequest builds a request carrying user 1 in its context, with an
// optional JSON body.
func authedRequest(method, path string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, int64(1))
	return req.WithContext(ctx)
}
