package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"contas/internal/domain/expense"
	"contas/internal/domain/status"
)

type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, user_id, description, amount, due_date, method, installment_count, status, created_at, updated_at`

func (r *ExpenseRepository) Create(ctx context.Context, params expense.CreateParams) (*expense.Expense, error) {
	query := `
		INSERT INTO expenses (id, user_id, description, amount, due_date, method, installment_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + expenseColumns

	e, err := scanExpense(r.db.QueryRowContext(
		ctx, query,
		params.ID, params.UserID, params.Description, params.Amount,
		params.DueDate, params.Method, params.InstallmentCount, params.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, userID int64, id string) (*expense.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND user_id = $2`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, expense.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND due_date >= $2 AND due_date <= $3
		ORDER BY due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by date range: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND status = $2
		ORDER BY due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, s)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by status: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) Update(ctx context.Context, userID int64, id string, params expense.UpdateParams) (*expense.Expense, error) {
	query := `
		UPDATE expenses
		SET description = COALESCE($1, description),
		    amount = COALESCE($2, amount),
		    due_date = COALESCE($3, due_date),
		    method = COALESCE($4, method),
		    status = COALESCE($5, status),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND user_id = $7
		RETURNING ` + expenseColumns

	e, err := scanExpense(r.db.QueryRowContext(
		ctx, query,
		params.Description, params.Amount, params.DueDate,
		(*string)(params.Method), (*string)(params.Status), id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, expense.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID int64, id string) error {
	// Installments go with the parent via ON DELETE CASCADE.
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return expense.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
	query := `
		UPDATE expenses
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND id = ANY($3)
	`

	result, err := r.db.ExecContext(ctx, query, s, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to batch update expense status: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return count, nil
}

func (r *ExpenseRepository) MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error) {
	query := `
		UPDATE expenses
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND due_date < $3 AND status = $4 AND installment_count <= 1
	`

	result, err := r.db.ExecContext(ctx, query, status.Overdue, userID, today, status.Due)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue expenses: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return count, nil
}

func scanExpense(row rowScanner) (*expense.Expense, error) {
	var e expense.Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Description, &e.Amount, &e.DueDate,
		&e.Method, &e.InstallmentCount, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanExpenses(rows *sql.Rows) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
