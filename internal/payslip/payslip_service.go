package payslip

import (
	"context"
	"database/sql"
	"errors"
	"time"

	paysliperrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/payslip/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, companyID, id string) (PayslipResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string, taxYear int) ([]PayslipResponse, error)
	GetByRun(ctx context.Context, companyID, payRunID string) ([]PayslipResponse, error)
	Cancel(ctx context.Context, companyID, id string, req CancelPayslipRequest) (PayslipResponse, error)
	RenderPDF(ctx context.Context, companyID, id string) ([]byte, error)
	RenderForRun(ctx context.Context, companyID, payRunID string) (int, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayslipResponse, error) {
	slip, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapToResponse(*slip), nil
}

func (s *service) GetByEmployee(
	ctx context.Context,
	companyID, employeeID string,
	taxYear int,
) ([]PayslipResponse, error) {
	slips, err := s.repo.FindByEmployee(ctx, companyID, employeeID, taxYear)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(slips), nil
}

func (s *service) GetByRun(
	ctx context.Context,
	companyID, payRunID string,
) ([]PayslipResponse, error) {
	slips, err := s.repo.FindByRun(ctx, companyID, payRunID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(slips), nil
}

// Cancel voids an issued slip. The slip itself stays on record; year-to-date
// aggregation excludes it from then on.
func (s *service) Cancel(
	ctx context.Context,
	companyID, id string,
	req CancelPayslipRequest,
) (PayslipResponse, error) {
	if req.Reason == "" {
		return PayslipResponse{}, paysliperrors.ErrCancelReasonRequired
	}

	slip, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	if slip.Status == StatusCancelled {
		return PayslipResponse{}, paysliperrors.ErrAlreadyCancelled
	}

	if err := s.repo.Cancel(ctx, companyID, id, req.Reason); err != nil {
		return PayslipResponse{}, err
	}

	slip.Status = StatusCancelled
	slip.CancelReason = req.Reason
	return mapToResponse(*slip), nil
}

func (s *service) RenderPDF(ctx context.Context, companyID, id string) ([]byte, error) {
	slip, err := s.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if len(slip.PDFData) > 0 {
		return slip.PDFData, nil
	}

	data, err := buildPayslipDocument(slip)
	if err != nil {
		return nil, err
	}

	if err := s.repo.StorePDF(ctx, companyID, id, data, time.Now().UTC()); err != nil {
		return nil, err
	}

	return data, nil
}

// RenderForRun pre-renders documents for every slip of a completed run. Driven
// by the completion event consumer; rendering is off the request path.
func (s *service) RenderForRun(ctx context.Context, companyID, payRunID string) (int, error) {
	slips, err := s.repo.FindByRun(ctx, companyID, payRunID)
	if err != nil {
		return 0, err
	}

	rendered := 0
	for i := range slips {
		if len(slips[i].PDFData) > 0 {
			continue
		}

		data, err := buildPayslipDocument(&slips[i])
		if err != nil {
			return rendered, err
		}
		if err := s.repo.StorePDF(ctx, companyID, slips[i].ID.String(), data, time.Now().UTC()); err != nil {
			return rendered, err
		}
		rendered++
	}

	return rendered, nil
}

func (s *service) find(ctx context.Context, companyID, id string) (*Payslip, error) {
	slip, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paysliperrors.ErrPayslipNotFound
		}
		return nil, err
	}
	return slip, nil
}

func mapToResponse(slip Payslip) PayslipResponse {
	return PayslipResponse{
		ID:                  slip.ID.String(),
		CompanyID:           slip.CompanyID.String(),
		PayRunID:            slip.PayRunID.String(),
		EmployeeID:          slip.EmployeeID.String(),
		PeriodStart:         slip.PeriodStart.Format("2006-01-02"),
		PeriodEnd:           slip.PeriodEnd.Format("2006-01-02"),
		TaxYear:             slip.TaxYear,
		GrossPay:            slip.GrossPay,
		TaxableIncome:       slip.TaxableIncome,
		ReliefTotal:         slip.ReliefTotal,
		Tax:                 slip.Tax,
		PreTaxDeductions:    slip.PreTaxDeductions,
		PostTaxDeductions:   slip.PostTaxDeductions,
		Pension:             slip.Pension,
		AdvanceRepayment:    slip.AdvanceRepayment,
		NetPay:              slip.NetPay,
		EmployerPension:     slip.EmployerPension,
		EmployerHousingFund: slip.EmployerHousingFund,
		TaxLawVersion:       slip.TaxLawVersion,
		Breakdown:           slip.Breakdown,
		YTDGross:            slip.YTDGross,
		YTDTax:              slip.YTDTax,
		YTDPension:          slip.YTDPension,
		YTDNet:              slip.YTDNet,
		Status:              slip.Status,
		CancelReason:        slip.CancelReason,
		CreatedAt:           slip.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(slips []Payslip) []PayslipResponse {
	resp := make([]PayslipResponse, len(slips))
	for i, slip := range slips {
		resp[i] = mapToResponse(slip)
	}
	return resp
}
