package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"contas/internal/domain/expense"
	"contas/internal/domain/fixedbill"
	"contas/internal/domain/user"
)

// StatusSweepJob flips a user's unpaid items whose due date has passed to
// overdue. Expenses run first, then installments, then fixed bills, so a
// partial failure leaves at most the later collections untouched.
type StatusSweepJob struct {
	userID          int64
	expenseRepo     expense.Repository
	installmentRepo expense.InstallmentRepository
	billRepo        fixedbill.Repository
	now             func() time.Time
}

// NewStatusSweepJob creates a status sweep job for a user.
func NewStatusSweepJob(userID int64, expenseRepo expense.Repository, installmentRepo expense.InstallmentRepository, billRepo fixedbill.Repository) *StatusSweepJob {
	return &StatusSweepJob{
		userID:          userID,
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
		billRepo:        billRepo,
		now:             time.Now,
	}
}

// Execute runs the sweep. The local calendar day is rebuilt as UTC midnight
// to match how due dates come out of the store, so items due today stay
// pending until tomorrow's run regardless of the server's zone.
func (j *StatusSweepJob) Execute(ctx context.Context) error {
	log.Printf("Starting status sweep for user %d", j.userID)

	y, m, d := j.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	expenses, err := j.expenseRepo.MarkOverduePastDue(ctx, j.userID, today)
	if err != nil {
		log.Printf("Status sweep failed for user %d: %v", j.userID, err)
		return fmt.Errorf("expense sweep failed: %w", err)
	}

	installments, err := j.installmentRepo.MarkOverduePastDue(ctx, j.userID, today)
	if err != nil {
		log.Printf("Status sweep failed for user %d: %v", j.userID, err)
		return fmt.Errorf("installment sweep failed: %w", err)
	}

	bills, err := j.billRepo.MarkOverduePastDue(ctx, j.userID, today)
	if err != nil {
		log.Printf("Status sweep failed for user %d: %v", j.userID, err)
		return fmt.Errorf("fixed bill sweep failed: %w", err)
	}

	log.Printf("Status sweep for user %d completed: Expenses=%d, Installments=%d, FixedBills=%d",
		j.userID, expenses, installments, bills)

	return nil
}

// UserID returns the user ID associated with this job.
func (j *StatusSweepJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

// Description returns a human-readable description of the job.
func (j *StatusSweepJob) Description() string {
	return fmt.Sprintf("Status sweep for user %d", j.userID)
}

// NewSweepJobProvider returns a job provider that creates one status sweep
// job per registered user.
func NewSweepJobProvider(userRepo user.Repository, expenseRepo expense.Repository, installmentRepo expense.InstallmentRepository, billRepo fixedbill.Repository) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		users, err := userRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		jobs := make([]Job, 0, len(users))
		for _, u := range users {
			jobs = append(jobs, NewStatusSweepJob(u.ID, expenseRepo, installmentRepo, billRepo))
		}

		return jobs, nil
	}
}
