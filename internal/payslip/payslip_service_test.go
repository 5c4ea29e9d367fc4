package payslip_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/payslip"
	paysliperrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/payslip/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePayslipRepository struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID string, id string) (*payslip.Payslip, error)
	findByRunFn          func(ctx context.Context, companyID string, payRunID string) ([]payslip.Payslip, error)
	cancelFn             func(ctx context.Context, companyID string, id string, reason string) error
	storePDFFn           func(ctx context.Context, companyID string, id string, data []byte, renderedAt time.Time) error
}

func (f *fakePayslipRepository) WithTx(tx *sql.Tx) payslip.Repository { return f }

func (f *fakePayslipRepository) Create(ctx context.Context, slip *payslip.Payslip) (bool, error) {
	return true, nil
}

func (f *fakePayslipRepository) SumYearToDate(ctx context.Context, companyID string, employeeID string, taxYear int) (payslip.YTDTotals, error) {
	return payslip.YTDTotals{}, nil
}

func (f *fakePayslipRepository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*payslip.Payslip, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}

func (f *fakePayslipRepository) FindByEmployee(ctx context.Context, companyID string, employeeID string, taxYear int) ([]payslip.Payslip, error) {
	return nil, nil
}

func (f *fakePayslipRepository) FindByRun(ctx context.Context, companyID string, payRunID string) ([]payslip.Payslip, error) {
	return f.findByRunFn(ctx, companyID, payRunID)
}

func (f *fakePayslipRepository) Cancel(ctx context.Context, companyID string, id string, reason string) error {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, companyID, id, reason)
	}
	return nil
}

func (f *fakePayslipRepository) StorePDF(ctx context.Context, companyID string, id string, data []byte, renderedAt time.Time) error {
	if f.storePDFFn != nil {
		return f.storePDFFn(ctx, companyID, id, data, renderedAt)
	}
	return nil
}

func issuedSlip() *payslip.Payslip {
	return &payslip.Payslip{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		PayRunID:    uuid.New(),
		EmployeeID:  uuid.New(),
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		GrossPay:    300_000,
		NetPay:      287_200,
		Status:      payslip.StatusIssued,
	}
}

func TestPayslipService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("reason required", func(t *testing.T) {
		svc := payslip.NewService(nil, &fakePayslipRepository{})

		_, err := svc.Cancel(ctx, companyID, uuid.New().String(), payslip.CancelPayslipRequest{})

		assert.ErrorIs(t, err, paysliperrors.ErrCancelReasonRequired)
	})

	t.Run("already cancelled", func(t *testing.T) {
		slip := issuedSlip()
		slip.Status = payslip.StatusCancelled
		repo := &fakePayslipRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*payslip.Payslip, error) {
				return slip, nil
			},
		}
		svc := payslip.NewService(nil, repo)

		_, err := svc.Cancel(ctx, companyID, slip.ID.String(), payslip.CancelPayslipRequest{Reason: "dup"})

		assert.ErrorIs(t, err, paysliperrors.ErrAlreadyCancelled)
	})

	t.Run("success", func(t *testing.T) {
		slip := issuedSlip()
		var cancelledReason string
		repo := &fakePayslipRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*payslip.Payslip, error) {
				return slip, nil
			},
			cancelFn: func(ctx context.Context, cid, id, reason string) error {
				cancelledReason = reason
				return nil
			},
		}
		svc := payslip.NewService(nil, repo)

		resp, err := svc.Cancel(ctx, companyID, slip.ID.String(), payslip.CancelPayslipRequest{Reason: "issued in error"})

		assert.NoError(t, err)
		assert.Equal(t, payslip.StatusCancelled, resp.Status)
		assert.Equal(t, "issued in error", resp.CancelReason)
		assert.Equal(t, "issued in error", cancelledReason)
	})
}

func TestPayslipService_RenderPDF_CachesDocument(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	slip := issuedSlip()

	stored := 0
	repo := &fakePayslipRepository{
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*payslip.Payslip, error) {
			return slip, nil
		},
		storePDFFn: func(ctx context.Context, cid, id string, data []byte, renderedAt time.Time) error {
			stored++
			slip.PDFData = data
			return nil
		},
	}
	svc := payslip.NewService(nil, repo)

	first, err := svc.RenderPDF(ctx, companyID, slip.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(first[:8]))
	assert.Equal(t, 1, stored)

	// Second call serves the stored document without re-rendering.
	second, err := svc.RenderPDF(ctx, companyID, slip.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, stored)
}

func TestPayslipService_RenderForRun_SkipsRendered(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	rendered := issuedSlip()
	rendered.PDFData = []byte("%PDF-1.4 existing")
	fresh := issuedSlip()

	stored := map[string]int{}
	repo := &fakePayslipRepository{
		findByRunFn: func(ctx context.Context, cid, runID string) ([]payslip.Payslip, error) {
			return []payslip.Payslip{*rendered, *fresh}, nil
		},
		storePDFFn: func(ctx context.Context, cid, id string, data []byte, renderedAt time.Time) error {
			stored[id]++
			return nil
		},
	}
	svc := payslip.NewService(nil, repo)

	count, err := svc.RenderForRun(ctx, companyID, uuid.New().String())

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, stored[fresh.ID.String()])
	assert.Zero(t, stored[rendered.ID.String()])
}
