package payslip

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusIssued    = "ISSUED"
	StatusCancelled = "CANCELLED"
)

// Payslip is the immutable record cut for one employee when a pay run
// completes. Monetary fields are a snapshot; later catalog or tax law changes
// never rewrite an issued slip. The unique (pay_run_id, employee_id) pair
// keeps re-completion from issuing duplicates.
type Payslip struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	PayRunID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payrun_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payrun_employee;index"`

	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	TaxYear     int       `gorm:"not null"`

	GrossPay          int64 `gorm:"type:bigint;not null"`
	TaxableIncome     int64 `gorm:"type:bigint;not null"`
	ReliefTotal       int64 `gorm:"type:bigint;not null;default:0"`
	Tax               int64 `gorm:"type:bigint;not null;default:0"`
	PreTaxDeductions  int64 `gorm:"type:bigint;not null;default:0"`
	PostTaxDeductions int64 `gorm:"type:bigint;not null;default:0"`
	Pension           int64 `gorm:"type:bigint;not null;default:0"`
	AdvanceRepayment  int64 `gorm:"type:bigint;not null;default:0"`
	NetPay            int64 `gorm:"type:bigint;not null"`

	EmployerPension     int64 `gorm:"type:bigint;not null;default:0"`
	EmployerHousingFund int64 `gorm:"type:bigint;not null;default:0"`

	TaxLawVersion string `gorm:"type:varchar(40);not null"`
	Breakdown     []byte `gorm:"type:jsonb"`

	YTDGross   int64 `gorm:"type:bigint;not null;default:0"`
	YTDTax     int64 `gorm:"type:bigint;not null;default:0"`
	YTDPension int64 `gorm:"type:bigint;not null;default:0"`
	YTDNet     int64 `gorm:"type:bigint;not null;default:0"`

	Status       string `gorm:"type:varchar(20);not null;default:'ISSUED'"`
	CancelReason string `gorm:"type:varchar(255)"`

	PDFData    []byte `gorm:"type:bytea"`
	RenderedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// YTDTotals aggregates issued payslips for one employee within a tax year.
// Pension is the employee-side contribution summed from the slips' pension
// deduction line.
type YTDTotals struct {
	Gross   int64
	Tax     int64
	Pension int64
	Net     int64
}
