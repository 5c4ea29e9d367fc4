package payslip

import "encoding/json"

type CancelPayslipRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

type PayslipResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	PayRunID   string `json:"pay_run_id"`
	EmployeeID string `json:"employee_id"`

	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	TaxYear     int    `json:"tax_year"`

	GrossPay          int64 `json:"gross_pay"`
	TaxableIncome     int64 `json:"taxable_income"`
	ReliefTotal       int64 `json:"relief_total"`
	Tax               int64 `json:"tax"`
	PreTaxDeductions  int64 `json:"pre_tax_deductions"`
	PostTaxDeductions int64 `json:"post_tax_deductions"`
	Pension           int64 `json:"pension"`
	AdvanceRepayment  int64 `json:"advance_repayment"`
	NetPay            int64 `json:"net_pay"`

	EmployerPension     int64 `json:"employer_pension"`
	EmployerHousingFund int64 `json:"employer_housing_fund"`

	TaxLawVersion string          `json:"tax_law_version"`
	Breakdown     json.RawMessage `json:"breakdown,omitempty"`

	YTDGross   int64 `json:"ytd_gross"`
	YTDTax     int64 `json:"ytd_tax"`
	YTDPension int64 `json:"ytd_pension"`
	YTDNet     int64 `json:"ytd_net"`

	Status       string `json:"status"`
	CancelReason string `json:"cancel_reason,omitempty"`
	CreatedAt    string `json:"created_at"`
}
