package wageadvance

type RequestAdvanceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Reason     string `json:"reason" binding:"omitempty,max=255"`
}

type ApproveAdvanceRequest struct {
	ApprovedAmount   int64 `json:"approved_amount" binding:"omitempty,gt=0"`
	InstallmentCount int   `json:"installment_count" binding:"required,gte=1,lte=24"`
}

type WageAdvanceResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	EmployeeID       string  `json:"employee_id"`
	RequestedAmount  int64   `json:"requested_amount"`
	ApprovedAmount   int64   `json:"approved_amount"`
	InstallmentCount int     `json:"installment_count"`
	RepaidAmount     int64   `json:"repaid_amount"`
	NextInstallment  int64   `json:"next_installment"`
	Status           string  `json:"status"`
	Reason           string  `json:"reason,omitempty"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	DisbursedAt      *string `json:"disbursed_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type AdvanceRepaymentResponse struct {
	ID        string `json:"id"`
	AdvanceID string `json:"advance_id"`
	PayRunID  string `json:"pay_run_id"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}
