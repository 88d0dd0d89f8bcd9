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

type InstallmentRepository struct {
	db *DB
}

func NewInstallmentRepository(db *DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

const installmentColumns = `i.id, i.expense_id, i.description, i.amount, i.due_date,
	       i.installment_number, i.installment_total, i.status, i.created_at, i.updated_at`

// CreateBatch inserts all installments of one expense in a single
// transaction: either the whole plan persists or none of it does.
func (r *InstallmentRepository) CreateBatch(ctx context.Context, installments []*expense.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO installments (id, expense_id, description, amount, due_date,
		                          installment_number, installment_total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare installment insert: %w", err)
	}
	defer stmt.Close()

	for _, inst := range installments {
		_, err := stmt.ExecContext(ctx,
			inst.ID, inst.ExpenseID, inst.Description, inst.Amount, inst.DueDate,
			inst.InstallmentNumber, inst.InstallmentTotal, inst.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert installment %d/%d: %w", inst.InstallmentNumber, inst.InstallmentTotal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit installments: %w", err)
	}
	return nil
}

func (r *InstallmentRepository) GetByID(ctx context.Context, userID int64, id string) (*expense.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments i
		JOIN expenses e ON i.expense_id = e.id
		WHERE i.id = $1 AND e.user_id = $2
	`

	inst, err := scanInstallment(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, expense.ErrInstallmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return inst, nil
}

func (r *InstallmentRepository) ListByUser(ctx context.Context, userID int64) ([]*expense.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments i
		JOIN expenses e ON i.expense_id = e.id
		WHERE e.user_id = $1
		ORDER BY i.due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	return scanInstallments(rows)
}

func (r *InstallmentRepository) ListByExpense(ctx context.Context, userID int64, expenseID string) ([]*expense.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments i
		JOIN expenses e ON i.expense_id = e.id
		WHERE i.expense_id = $1 AND e.user_id = $2
		ORDER BY i.installment_number ASC
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments by expense: %w", err)
	}
	defer rows.Close()

	return scanInstallments(rows)
}

func (r *InstallmentRepository) ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*expense.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments i
		JOIN expenses e ON i.expense_id = e.id
		WHERE e.user_id = $1 AND i.due_date >= $2 AND i.due_date <= $3
		ORDER BY i.due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments by date range: %w", err)
	}
	defer rows.Close()

	return scanInstallments(rows)
}

func (r *InstallmentRepository) ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*expense.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments i
		JOIN expenses e ON i.expense_id = e.id
		WHERE e.user_id = $1 AND i.status = $2
		ORDER BY i.due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, s)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments by status: %w", err)
	}
	defer rows.Close()

	return scanInstallments(rows)
}

func (r *InstallmentRepository) Update(ctx context.Context, userID int64, id string, params expense.UpdateInstallmentParams) (*expense.Installment, error) {
	query := `
		UPDATE installments i
		SET due_date = COALESCE($1, i.due_date),
		    status = COALESCE($2, i.status),
		    updated_at = CURRENT_TIMESTAMP
		FROM expenses e
		WHERE i.expense_id = e.id AND i.id = $3 AND e.user_id = $4
		RETURNING ` + installmentColumns

	inst, err := scanInstallment(r.db.QueryRowContext(
		ctx, query,
		params.DueDate, (*string)(params.Status), id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, expense.ErrInstallmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update installment: %w", err)
	}
	return inst, nil
}

func (r *InstallmentRepository) Delete(ctx context.Context, userID int64, id string) error {
	query := `
		DELETE FROM installments i
		USING expenses e
		WHERE i.expense_id = e.id AND i.id = $1 AND e.user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete installment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return expense.ErrInstallmentNotFound
	}
	return nil
}

func (r *InstallmentRepository) BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
	query := `
		UPDATE installments i
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		FROM expenses e
		WHERE i.expense_id = e.id AND e.user_id = $2 AND i.id = ANY($3)
	`

	result, err := r.db.ExecContext(ctx, query, s, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to batch update installment status: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return count, nil
}

func (r *InstallmentRepository) MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error) {
	query := `
		UPDATE installments i
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		FROM expenses e
		WHERE i.expense_id = e.id AND e.user_id = $2 AND i.due_date < $3 AND i.status = $4
	`

	result, err := r.db.ExecContext(ctx, query, status.Overdue, userID, today, status.Due)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue installments: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return count, nil
}

func scanInstallment(row rowScanner) (*expense.Installment, error) {
	var inst expense.Installment
	err := row.Scan(
		&inst.ID, &inst.ExpenseID, &inst.Description, &inst.Amount, &inst.DueDate,
		&inst.InstallmentNumber, &inst.InstallmentTotal, &inst.Status, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func scanInstallments(rows *sql.Rows) ([]*expense.Installment, error) {
	var installments []*expense.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installments: %w", err)
	}
	return installments, nil
}
