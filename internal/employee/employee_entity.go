package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pay configuration and attendance are owned by the HR side of the platform.
// This package only reads them; payroll never mutates employee records.

const (
	PayFrequencyMonthly  = "MONTHLY"
	PayFrequencyBiweekly = "BIWEEKLY"
	PayFrequencyWeekly   = "WEEKLY"
	PayFrequencyAnnual   = "ANNUAL"
)

const (
	EarningKindFixed      = "FIXED"
	EarningKindPercentage = "PERCENTAGE"
	EarningKindHourly     = "HOURLY"
	EarningKindCommission = "COMMISSION"
)

type PayConfiguration struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	BaseSalary   int64  `gorm:"type:bigint;not null"` // per period
	PayFrequency string `gorm:"type:varchar(10);not null;default:'MONTHLY'"`
	Jurisdiction string `gorm:"type:varchar(10);not null"`
	IsHomeowner  bool   `gorm:"not null;default:false"`

	PensionEnabled          bool            `gorm:"not null;default:false"`
	PensionEmployerRate     decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	HousingFundEnabled      bool            `gorm:"not null;default:false"`
	HousingFundEmployerRate decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`

	StandardHours      int64           `gorm:"type:bigint;not null;default:160"`
	OvertimeMultiplier decimal.Decimal `gorm:"type:numeric(6,3);not null;default:1.5"`
	WeekendMultiplier  decimal.Decimal `gorm:"type:numeric(6,3);not null;default:2"`
	HolidayMultiplier  decimal.Decimal `gorm:"type:numeric(6,3);not null;default:2.5"`

	CommissionRate decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	CommissionCap  int64           `gorm:"type:bigint;not null;default:0"` // 0 = uncapped

	// Relief codes whose documentation requirement is satisfied, as stored by
	// the HR document workflow.
	ReliefProofCodes []string `gorm:"serializer:json;type:jsonb"`

	Earnings []EarningLine `gorm:"foreignKey:PayConfigurationID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EarningLine is one recurring or ad-hoc earning component on top of base
// salary, independently classified taxable/pensionable.
type EarningLine struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayConfigurationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Code   string          `gorm:"type:varchar(40);not null"`
	Kind   string          `gorm:"type:varchar(20);not null"`
	Amount int64           `gorm:"type:bigint;not null;default:0"`
	Rate   decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"` // % of base salary

	Taxable     bool `gorm:"not null;default:true"`
	Pensionable bool `gorm:"not null;default:false"`
	Recurring   bool `gorm:"not null;default:true"`
}

// AttendanceSummary is the validated, approved aggregate for one employee and
// one payroll period.
type AttendanceSummary struct {
	EmployeeID     uuid.UUID
	RegularHours   int64
	OvertimeHours  int64
	WeekendHours   int64
	HolidayHours   int64
	CommissionBase int64 // approved sales volume commissions are computed on
}

// PeriodsPerYear is used to annualize period income for thresholds that are
// defined per tax year.
func PeriodsPerYear(frequency string) int64 {
	switch frequency {
	case PayFrequencyWeekly:
		return 52
	case PayFrequencyBiweekly:
		return 26
	case PayFrequencyAnnual:
		return 1
	default:
		return 12
	}
}
