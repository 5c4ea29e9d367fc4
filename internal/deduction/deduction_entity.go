package deduction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CategoryStatutory = "STATUTORY"
	CategoryLoan      = "LOAN"
	CategoryAdvance   = "ADVANCE"
	CategoryVoluntary = "VOLUNTARY"
)

const (
	CalcKindFixed      = "FIXED"
	CalcKindPercentage = "PERCENTAGE"
)

// CodePension is the conventional catalog code for the employee pension
// contribution. Payslips roll lines with this code into the pension YTD
// figure.
const CodePension = "PENSION"

const (
	BaseGross       = "GROSS"
	BaseBasic       = "BASIC"
	BaseTaxable     = "TAXABLE"
	BasePensionable = "PENSIONABLE"
)

// DeductionType is the tenant-scoped catalog entry. Priority strictly orders
// application within a payslip; lower runs first.
type DeductionType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_code;index"`
	Code      string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_company_code"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Category  string    `gorm:"type:varchar(20);not null"`

	CalcKind string          `gorm:"type:varchar(20);not null"`
	CalcBase string          `gorm:"type:varchar(20);not null;default:'GROSS'"`
	Rate     decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	Amount   int64           `gorm:"type:bigint;not null;default:0"`

	PeriodCap int64 `gorm:"type:bigint;not null;default:0"` // 0 = uncapped
	AnnualCap int64 `gorm:"type:bigint;not null;default:0"`

	PreTax    bool `gorm:"not null;default:false"`
	Mandatory bool `gorm:"not null;default:false"`
	Priority  int  `gorm:"not null;default:100"`
	Active    bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// EmployeeDeduction binds an employee to a DeductionType for an effective
// range. CumulativeDeducted is only advanced when a pay run completes; the
// binding deactivates once the cumulative target is reached.
type EmployeeDeduction struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	DeductionTypeID uuid.UUID      `gorm:"type:uuid;not null"`
	DeductionType   *DeductionType `gorm:"foreignKey:DeductionTypeID"`

	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`

	AmountOverride *int64           `gorm:"type:bigint"`
	RateOverride   *decimal.Decimal `gorm:"type:numeric(8,4)"`

	CumulativeTarget   int64 `gorm:"type:bigint;not null;default:0"` // 0 = open-ended
	CumulativeDeducted int64 `gorm:"type:bigint;not null;default:0"`

	// YearDeducted counts completed-run deductions within DeductionYear; a
	// completion in a later year resets the count. Bounds the type's AnnualCap.
	YearDeducted  int64 `gorm:"type:bigint;not null;default:0"`
	DeductionYear int   `gorm:"not null;default:0"`

	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveOn reports whether the binding is in force for a period starting
// at date.
func (d *EmployeeDeduction) EffectiveOn(date time.Time) bool {
	if !d.Active {
		return false
	}
	if date.Before(d.EffectiveFrom) {
		return false
	}
	if d.EffectiveTo != nil && !date.Before(*d.EffectiveTo) {
		return false
	}
	return true
}

// RemainingAnnualCap returns how much may still be deducted within year under
// the type's annual cap, or -1 when the type carries no cap. A YearDeducted
// balance from a different year does not count against the cap.
func (d *EmployeeDeduction) RemainingAnnualCap(year int) int64 {
	if d.DeductionType == nil || d.DeductionType.AnnualCap <= 0 {
		return -1
	}
	deducted := d.YearDeducted
	if d.DeductionYear != year {
		deducted = 0
	}
	remaining := d.DeductionType.AnnualCap - deducted
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingTarget returns how much may still be deducted toward the lifetime
// target, or -1 when the binding has no target.
func (d *EmployeeDeduction) RemainingTarget() int64 {
	if d.CumulativeTarget <= 0 {
		return -1
	}
	remaining := d.CumulativeTarget - d.CumulativeDeducted
	if remaining < 0 {
		return 0
	}
	return remaining
}
