package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"contas/internal/domain/fixedbill"
	"contas/internal/domain/status"
)

type FixedBillRepository struct {
	db *DB
}

func NewFixedBillRepository(db *DB) *FixedBillRepository {
	return &FixedBillRepository{db: db}
}

const fixedBillColumns = `id, user_id, name, amount, due_date, status, created_at, updated_at`

func (r *FixedBillRepository) Create(ctx context.Context, params fixedbill.CreateParams) (*fixedbill.FixedBill, error) {
	query := `
		INSERT INTO fixed_bills (id, user_id, name, amount, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fixedBillColumns

	b, err := scanFixedBill(r.db.QueryRowContext(
		ctx, query,
		params.ID, params.UserID, params.Name, params.Amount, params.DueDate, params.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create fixed bill: %w", err)
	}
	return b, nil
}

func (r *FixedBillRepository) GetByID(ctx context.Context, userID int64, id string) (*fixedbill.FixedBill, error) {
	query := `SELECT ` + fixedBillColumns + ` FROM fixed_bills WHERE id = $1 AND user_id = $2`

	b, err := scanFixedBill(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, fixedbill.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixed bill: %w", err)
	}
	return b, nil
}

func (r *FixedBillRepository) ListByUser(ctx context.Context, userID int64) ([]*fixedbill.FixedBill, error) {
	query := `
		SELECT ` + fixedBillColumns + `
		FROM fixed_bills
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed bills: %w", err)
	}
	defer rows.Close()

	return scanFixedBills(rows)
}

func (r *FixedBillRepository) ListByUserAndDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*fixedbill.FixedBill, error) {
	query := `
		SELECT ` + fixedBillColumns + `
		FROM fixed_bills
		WHERE user_id = $1 AND due_date >= $2 AND due_date <= $3
		ORDER BY due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed bills by date range: %w", err)
	}
	defer rows.Close()

	return scanFixedBills(rows)
}

func (r *FixedBillRepository) ListByUserAndStatus(ctx context.Context, userID int64, s status.Status) ([]*fixedbill.FixedBill, error) {
	query := `
		SELECT ` + fixedBillColumns + `
		FROM fixed_bills
		WHERE user_id = $1 AND status = $2
		ORDER BY due_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, s)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed bills by status: %w", err)
	}
	defer rows.Close()

	return scanFixedBills(rows)
}

func (r *FixedBillRepository) Update(ctx context.Context, userID int64, id string, params fixedbill.UpdateParams) (*fixedbill.FixedBill, error) {
	query := `
		UPDATE fixed_bills
		SET name = COALESCE($1, name),
		    amount = COALESCE($2, amount),
		    due_date = COALESCE($3, due_date),
		    status = COALESCE($4, status),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6
		RETURNING ` + fixedBillColumns

	b, err := scanFixedBill(r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Amount, params.DueDate, (*string)(params.Status), id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, fixedbill.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update fixed bill: %w", err)
	}
	return b, nil
}

func (r *FixedBillRepository) Delete(ctx context.Context, userID int64, id string) error {
	query := `DELETE FROM fixed_bills WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete fixed bill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fixedbill.ErrNotFound
	}
	return nil
}

func (r *FixedBillRepository) BatchUpdateStatus(ctx context.Context, userID int64, ids []string, s status.Status) (int64, error) {
	query := `
		UPDATE fixed_bills
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND id = ANY($3)
	`

	result, err := r.db.ExecContext(ctx, query, s, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to batch update fixed bill status: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return count, nil
}

func (r *FixedBillRepository) MarkOverduePastDue(ctx context.Context, userID int64, today time.Time) (int64, error) {
	query := `
		UPDATE fixed_bills
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND due_date < $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, status.Overdue, userID, today, status.Due)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue fixed bills: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return count, nil
}

func scanFixedBill(row rowScanner) (*fixedbill.FixedBill, error) {
	var b fixedbill.FixedBill
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanFixedBills(rows *sql.Rows) ([]*fixedbill.FixedBill, error) {
	var bills []*fixedbill.FixedBill
	for rows.Next() {
		b, err := scanFixedBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixed bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixed bills: %w", err)
	}
	return bills, nil
}
