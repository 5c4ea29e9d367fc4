package wageadvance

import (
	"context"

	"github.com/google/uuid"
)

// InstallmentFor returns the amount one pay run should collect toward the
// advance. Installments are the floor of approved/count; the final one absorbs
// the division remainder so the advance closes exactly.
func InstallmentFor(a *WageAdvance) int64 {
	if !a.Outstanding() {
		return 0
	}

	remaining := a.ApprovedAmount - a.RepaidAmount
	if remaining <= 0 {
		return 0
	}

	base := a.ApprovedAmount / int64(a.InstallmentCount)
	if base <= 0 {
		return remaining
	}
	if remaining < 2*base {
		return remaining
	}
	return base
}

// ApplyRepayment moves the advance forward by amount and settles its status.
func ApplyRepayment(a *WageAdvance, amount int64) {
	a.RepaidAmount += amount
	if a.RepaidAmount >= a.ApprovedAmount {
		a.RepaidAmount = a.ApprovedAmount
		a.Status = StatusRepaid
		return
	}
	a.Status = StatusRepaying
}

// Ledger posts installments against outstanding advances. Callers hand it a
// transaction-bound repository so the repayment row and the advance update
// commit with the rest of the pay run.
type Ledger struct {
	repo Repository
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

func (l *Ledger) OutstandingForEmployee(ctx context.Context, companyID, employeeID string) ([]WageAdvance, error) {
	return l.repo.FindOutstandingByEmployee(ctx, companyID, employeeID)
}

// PostRepayment records one installment for the given run. It returns false
// without touching the advance when the run has already posted against it, so
// re-completing a run never double-collects.
func (l *Ledger) PostRepayment(
	ctx context.Context,
	advance *WageAdvance,
	payRunID uuid.UUID,
	amount int64,
) (bool, error) {
	if amount <= 0 {
		return false, nil
	}

	repayment := &AdvanceRepayment{
		ID:        uuid.New(),
		CompanyID: advance.CompanyID,
		AdvanceID: advance.ID,
		PayRunID:  payRunID,
		Amount:    amount,
	}

	inserted, err := l.repo.CreateRepayment(ctx, repayment)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil
	}

	ApplyRepayment(advance, amount)
	if err := l.repo.UpdateProgress(ctx, advance); err != nil {
		return false, err
	}

	return true, nil
}
