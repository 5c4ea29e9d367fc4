package wageadvance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusDisbursed = "DISBURSED"
	StatusRepaying  = "REPAYING"
	StatusRepaid    = "REPAID"
	StatusRejected  = "REJECTED"
)

// WageAdvance is an employee cash advance repaid through payroll in equal
// installments. RepaidAmount only moves when a pay run completes.
type WageAdvance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	RequestedAmount  int64  `gorm:"type:bigint;not null"`
	ApprovedAmount   int64  `gorm:"type:bigint;not null;default:0"`
	InstallmentCount int    `gorm:"not null;default:1"`
	RepaidAmount     int64  `gorm:"type:bigint;not null;default:0"`
	Status           string `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Reason           string `gorm:"type:varchar(255)"`

	RequestedBy uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	DisbursedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Outstanding reports whether the advance still collects installments.
func (a *WageAdvance) Outstanding() bool {
	return a.Status == StatusDisbursed || a.Status == StatusRepaying
}

// AdvanceRepayment records one installment collected by a pay run. The unique
// index on (advance_id, pay_run_id) makes posting idempotent per run.
type AdvanceRepayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	AdvanceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_advance_payrun"`
	PayRunID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_advance_payrun"`
	Amount    int64     `gorm:"type:bigint;not null"`

	CreatedAt time.Time
}
