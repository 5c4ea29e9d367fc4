package payrun

import (
	"strings"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	payrunerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/payrun/errors"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw"
)

type CreatePayRunRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	PayDate     string `json:"pay_date" binding:"required"`
}

type GetPayRunsFilterRequest struct {
	Status string `form:"status"`
	Period string `form:"period"`
}

// PayRunQueryFilter is the repository shape of GetPayRunsFilterRequest. A nil
// field leaves that predicate out of the query.
type PayRunQueryFilter struct {
	Status      *string
	PeriodStart *string
	PeriodEnd   *string
}

func (r GetPayRunsFilterRequest) toQueryFilter() (PayRunQueryFilter, error) {
	var filter PayRunQueryFilter

	if r.Status != "" {
		status := strings.ToUpper(r.Status)
		if _, ok := transitions[status]; !ok {
			return filter, payrunerrors.ErrInvalidFilter
		}
		filter.Status = &status
	}

	if r.Period != "" {
		month, err := time.Parse("2006-01", r.Period)
		if err != nil {
			return filter, payrunerrors.ErrInvalidFilter
		}
		start := month.Format("2006-01-02")
		end := month.AddDate(0, 1, -1).Format("2006-01-02")
		filter.PeriodStart = &start
		filter.PeriodEnd = &end
	}

	return filter, nil
}

type ApprovePayRunRequest struct {
	AllowErrors bool `json:"allow_errors"`
}

type CancelPayRunRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

type PayRunResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`

	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PayDate     string `json:"pay_date"`
	Status      string `json:"status"`

	TotalGross        int64 `json:"total_gross"`
	TotalDeductions   int64 `json:"total_deductions"`
	TotalTax          int64 `json:"total_tax"`
	TotalNet          int64 `json:"total_net"`
	TotalEmployerCost int64 `json:"total_employer_cost"`
	EmployeeCount     int   `json:"employee_count"`
	ErrorCount        int   `json:"error_count"`

	CreatedBy    string  `json:"created_by"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CancelledAt  *string `json:"cancelled_at,omitempty"`
	CancelReason string  `json:"cancel_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type PayRunItemResponse struct {
	ID           string `json:"id"`
	PayRunID     string `json:"pay_run_id"`
	EmployeeID   string `json:"employee_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`

	GrossPay          int64 `json:"gross_pay"`
	TaxableIncome     int64 `json:"taxable_income"`
	ReliefTotal       int64 `json:"relief_total"`
	Tax               int64 `json:"tax"`
	PreTaxDeductions  int64 `json:"pre_tax_deductions"`
	PostTaxDeductions int64 `json:"post_tax_deductions"`
	AdvanceRepayment  int64 `json:"advance_repayment"`
	NetPay            int64 `json:"net_pay"`

	EmployerPension     int64 `json:"employer_pension"`
	EmployerHousingFund int64 `json:"employer_housing_fund"`

	TaxLawVersion string `json:"tax_law_version,omitempty"`

	Earnings   []EarningItem          `json:"earnings,omitempty"`
	Deductions []deduction.Applied    `json:"deductions,omitempty"`
	Reliefs    []taxlaw.ReliefLine    `json:"reliefs,omitempty"`
	TaxBands   []taxlaw.BandBreakdown `json:"tax_bands,omitempty"`
	Advances   []AdvanceInstallment   `json:"advances,omitempty"`
}
