package taxlaw

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Relief calculation kinds. Closed set: reliefs are never free-text formulas.
const (
	ReliefKindFixed              = "FIXED"
	ReliefKindPercentage         = "PERCENTAGE"
	ReliefKindCappedPercentage   = "CAPPED_PERCENTAGE"
	ReliefKindLowIncomeExemption = "LOW_INCOME_EXEMPTION"
)

// Income bases a relief or deduction can be computed against.
const (
	BaseGross   = "GROSS"
	BaseTaxable = "TAXABLE"
)

// TaxLawTable is one generation of tax law for a jurisdiction. Tables for the
// same jurisdiction never overlap in [EffectiveFrom, EffectiveTo).
type TaxLawTable struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Version       string     `gorm:"type:varchar(40);not null;uniqueIndex:idx_jurisdiction_version"`
	Jurisdiction  string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_jurisdiction_version;index"`
	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"` // nil = open-ended

	Bands   []TaxBand `gorm:"foreignKey:TableID"`
	Reliefs []Relief  `gorm:"foreignKey:TableID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TaxBand struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Position int       `gorm:"not null"`

	LowerBound int64           `gorm:"type:bigint;not null"`
	UpperBound *int64          `gorm:"type:bigint"` // nil = unbounded top band
	Rate       decimal.Decimal `gorm:"type:numeric(8,4);not null"`

	// Tax owed on all lower bands combined, precomputed at authoring time.
	CumulativeAtLower int64 `gorm:"type:bigint;not null"`
}

type Relief struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code    string    `gorm:"type:varchar(40);not null"`
	Kind    string    `gorm:"type:varchar(30);not null"`

	Amount      int64           `gorm:"type:bigint;not null;default:0"`
	Rate        decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	Cap         int64           `gorm:"type:bigint;not null;default:0"` // 0 = uncapped
	FloorAmount int64           `gorm:"type:bigint;not null;default:0"`
	FloorRate   decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	Threshold   int64           `gorm:"type:bigint;not null;default:0"` // low-income exemption
	Base        string          `gorm:"type:varchar(10);not null;default:'GROSS'"`

	AutoApply        bool `gorm:"not null;default:true"`
	RequiresProof    bool `gorm:"not null;default:false"`
	NonHomeownerOnly bool `gorm:"not null;default:false"`
}
