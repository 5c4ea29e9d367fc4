package deduction

type CreateDeductionTypeRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category" binding:"required,oneof=STATUTORY LOAN ADVANCE VOLUNTARY"`
	CalcKind  string `json:"calc_kind" binding:"required,oneof=FIXED PERCENTAGE"`
	CalcBase  string `json:"calc_base" binding:"omitempty,oneof=GROSS BASIC TAXABLE PENSIONABLE"`
	Rate      string `json:"rate"`
	Amount    int64  `json:"amount"`
	PeriodCap int64  `json:"period_cap"`
	AnnualCap int64  `json:"annual_cap"`
	PreTax    bool   `json:"pre_tax"`
	Mandatory bool   `json:"mandatory"`
	Priority  int    `json:"priority"`
}

type UpdateDeductionTypeRequest struct {
	Name      string `json:"name" binding:"required"`
	Rate      string `json:"rate"`
	Amount    int64  `json:"amount"`
	PeriodCap int64  `json:"period_cap"`
	AnnualCap int64  `json:"annual_cap"`
	PreTax    bool   `json:"pre_tax"`
	Mandatory bool   `json:"mandatory"`
	Priority  int    `json:"priority"`
	Active    bool   `json:"active"`
}

type DeductionTypeResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	CalcKind  string `json:"calc_kind"`
	CalcBase  string `json:"calc_base"`
	Rate      string `json:"rate"`
	Amount    int64  `json:"amount"`
	PeriodCap int64  `json:"period_cap"`
	AnnualCap int64  `json:"annual_cap"`
	PreTax    bool   `json:"pre_tax"`
	Mandatory bool   `json:"mandatory"`
	Priority  int    `json:"priority"`
	Active    bool   `json:"active"`
}

type CreateEmployeeDeductionRequest struct {
	EmployeeID       string  `json:"employee_id" binding:"required,uuid"`
	DeductionTypeID  string  `json:"deduction_type_id" binding:"required,uuid"`
	EffectiveFrom    string  `json:"effective_from" binding:"required"`
	EffectiveTo      *string `json:"effective_to"`
	AmountOverride   *int64  `json:"amount_override"`
	RateOverride     *string `json:"rate_override"`
	CumulativeTarget int64   `json:"cumulative_target"`
}

type EmployeeDeductionResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	DeductionTypeID    string  `json:"deduction_type_id"`
	Code               string  `json:"code,omitempty"`
	EffectiveFrom      string  `json:"effective_from"`
	EffectiveTo        *string `json:"effective_to,omitempty"`
	AmountOverride     *int64  `json:"amount_override,omitempty"`
	RateOverride       *string `json:"rate_override,omitempty"`
	CumulativeTarget   int64   `json:"cumulative_target"`
	CumulativeDeducted int64   `json:"cumulative_deducted"`
	Active             bool    `json:"active"`
}
