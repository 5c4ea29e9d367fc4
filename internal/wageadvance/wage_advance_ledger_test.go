package wageadvance_test

import (
	"context"
	"testing"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAdvanceRepository struct {
	wageadvance.Repository

	repayments map[string]bool
	updates    int
}

func newFakeAdvanceRepository() *fakeAdvanceRepository {
	return &fakeAdvanceRepository{repayments: map[string]bool{}}
}

func (f *fakeAdvanceRepository) CreateRepayment(_ context.Context, r *wageadvance.AdvanceRepayment) (bool, error) {
	key := r.AdvanceID.String() + "/" + r.PayRunID.String()
	if f.repayments[key] {
		return false, nil
	}
	f.repayments[key] = true
	return true, nil
}

func (f *fakeAdvanceRepository) UpdateProgress(_ context.Context, _ *wageadvance.WageAdvance) error {
	f.updates++
	return nil
}

func disbursedAdvance(approved int64, installments int) *wageadvance.WageAdvance {
	return &wageadvance.WageAdvance{
		ID:               uuid.New(),
		CompanyID:        uuid.New(),
		EmployeeID:       uuid.New(),
		RequestedAmount:  approved,
		ApprovedAmount:   approved,
		InstallmentCount: installments,
		Status:           wageadvance.StatusDisbursed,
	}
}

func TestInstallmentFor_EvenSchedule(t *testing.T) {
	advance := disbursedAdvance(30_000, 3)

	assert.Equal(t, int64(10_000), wageadvance.InstallmentFor(advance))

	wageadvance.ApplyRepayment(advance, 10_000)
	assert.Equal(t, wageadvance.StatusRepaying, advance.Status)
	assert.Equal(t, int64(10_000), wageadvance.InstallmentFor(advance))

	wageadvance.ApplyRepayment(advance, 10_000)
	assert.Equal(t, int64(10_000), wageadvance.InstallmentFor(advance))

	wageadvance.ApplyRepayment(advance, 10_000)
	assert.Equal(t, wageadvance.StatusRepaid, advance.Status)
	assert.Equal(t, int64(0), wageadvance.InstallmentFor(advance))
}

func TestInstallmentFor_LastInstallmentAbsorbsRemainder(t *testing.T) {
	advance := disbursedAdvance(10_000, 3)

	assert.Equal(t, int64(3_333), wageadvance.InstallmentFor(advance))
	wageadvance.ApplyRepayment(advance, 3_333)

	assert.Equal(t, int64(3_333), wageadvance.InstallmentFor(advance))
	wageadvance.ApplyRepayment(advance, 3_333)

	// 3,334 remains and must clear in the final installment
	assert.Equal(t, int64(3_334), wageadvance.InstallmentFor(advance))
	wageadvance.ApplyRepayment(advance, 3_334)

	assert.Equal(t, wageadvance.StatusRepaid, advance.Status)
	assert.Equal(t, advance.ApprovedAmount, advance.RepaidAmount)
}

func TestInstallmentFor_NotOutstanding(t *testing.T) {
	advance := disbursedAdvance(30_000, 3)
	advance.Status = wageadvance.StatusApproved

	assert.Equal(t, int64(0), wageadvance.InstallmentFor(advance))
}

func TestLedger_PostRepaymentAcrossRuns(t *testing.T) {
	repo := newFakeAdvanceRepository()
	ledger := wageadvance.NewLedger(repo)
	advance := disbursedAdvance(30_000, 3)

	for i := 0; i < 3; i++ {
		amount := wageadvance.InstallmentFor(advance)
		posted, err := ledger.PostRepayment(context.Background(), advance, uuid.New(), amount)
		assert.NoError(t, err)
		assert.True(t, posted)
	}

	assert.Equal(t, wageadvance.StatusRepaid, advance.Status)
	assert.Equal(t, int64(30_000), advance.RepaidAmount)
	assert.Equal(t, 3, repo.updates)
}

func TestLedger_PostRepaymentIsIdempotentPerRun(t *testing.T) {
	repo := newFakeAdvanceRepository()
	ledger := wageadvance.NewLedger(repo)
	advance := disbursedAdvance(30_000, 3)
	runID := uuid.New()

	posted, err := ledger.PostRepayment(context.Background(), advance, runID, 10_000)
	assert.NoError(t, err)
	assert.True(t, posted)

	// re-completing the same run must not collect twice
	posted, err = ledger.PostRepayment(context.Background(), advance, runID, 10_000)
	assert.NoError(t, err)
	assert.False(t, posted)

	assert.Equal(t, int64(10_000), advance.RepaidAmount)
	assert.Equal(t, 1, repo.updates)
}

func TestLedger_PostRepaymentSkipsZeroAmount(t *testing.T) {
	repo := newFakeAdvanceRepository()
	ledger := wageadvance.NewLedger(repo)
	advance := disbursedAdvance(30_000, 3)

	posted, err := ledger.PostRepayment(context.Background(), advance, uuid.New(), 0)
	assert.NoError(t, err)
	assert.False(t, posted)
	assert.Equal(t, int64(0), advance.RepaidAmount)
}
