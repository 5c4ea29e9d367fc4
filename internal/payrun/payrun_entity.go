package payrun

import (
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft         = "DRAFT"
	StatusCalculating   = "CALCULATING"
	StatusPendingReview = "PENDING_REVIEW"
	StatusApproved      = "APPROVED"
	StatusCompleted     = "COMPLETED"
	StatusCancelled     = "CANCELLED"
)

const (
	ItemStatusCalculated = "CALCULATED"
	ItemStatusError      = "ERROR"
)

// PayRun orchestrates one payroll period for a company. Aggregate totals are
// recomputed from items by the single writer that finishes a calculation
// pass; nothing else mutates them.
type PayRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	PayDate     time.Time `gorm:"type:date;not null"`

	Status string `gorm:"type:varchar(20);not null;default:'DRAFT'"`

	TotalGross        int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions   int64 `gorm:"type:bigint;not null;default:0"`
	TotalTax          int64 `gorm:"type:bigint;not null;default:0"`
	TotalNet          int64 `gorm:"type:bigint;not null;default:0"`
	TotalEmployerCost int64 `gorm:"type:bigint;not null;default:0"`
	EmployeeCount     int   `gorm:"not null;default:0"`
	ErrorCount        int   `gorm:"not null;default:0"`

	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// EarningItem is one gross pay component on an item's breakdown.
type EarningItem struct {
	Code        string `json:"code"`
	Amount      int64  `json:"amount"`
	Taxable     bool   `json:"taxable"`
	Pensionable bool   `json:"pensionable"`
}

// AdvanceInstallment is one planned wage advance collection. Planned at
// calculation time; posted to the ledger only when the run completes.
type AdvanceInstallment struct {
	AdvanceID string `json:"advance_id"`
	Amount    int64  `json:"amount"`
}

// PayRunItem is one employee's computed payslip-to-be within a run. A failed
// employee is isolated here as ERROR without poisoning the rest of the run.
type PayRunItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	PayRunID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_run_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_run_employee"`

	Status       string `gorm:"type:varchar(20);not null"`
	ErrorMessage string `gorm:"type:varchar(500)"`

	GrossPay          int64 `gorm:"type:bigint;not null;default:0"`
	TaxableIncome     int64 `gorm:"type:bigint;not null;default:0"`
	ReliefTotal       int64 `gorm:"type:bigint;not null;default:0"`
	Tax               int64 `gorm:"type:bigint;not null;default:0"`
	PreTaxDeductions  int64 `gorm:"type:bigint;not null;default:0"`
	PostTaxDeductions int64 `gorm:"type:bigint;not null;default:0"`
	AdvanceRepayment  int64 `gorm:"type:bigint;not null;default:0"`
	NetPay            int64 `gorm:"type:bigint;not null;default:0"`

	EmployerPension     int64 `gorm:"type:bigint;not null;default:0"`
	EmployerHousingFund int64 `gorm:"type:bigint;not null;default:0"`

	TaxLawVersion string `gorm:"type:varchar(40)"`

	Earnings   []EarningItem          `gorm:"serializer:json;type:jsonb"`
	Deductions []deduction.Applied    `gorm:"serializer:json;type:jsonb"`
	Reliefs    []taxlaw.ReliefLine    `gorm:"serializer:json;type:jsonb"`
	TaxBands   []taxlaw.BandBreakdown `gorm:"serializer:json;type:jsonb"`
	Advances   []AdvanceInstallment   `gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
