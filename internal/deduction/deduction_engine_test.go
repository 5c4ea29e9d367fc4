package deduction_test

import (
	"testing"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var periodStart = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func binding(dtype *deduction.DeductionType) deduction.EmployeeDeduction {
	return deduction.EmployeeDeduction{
		ID:              uuid.New(),
		EmployeeID:      uuid.New(),
		DeductionTypeID: dtype.ID,
		DeductionType:   dtype,
		EffectiveFrom:   periodStart.AddDate(-1, 0, 0),
		Active:          true,
	}
}

func percentageType(code string, priority int, rate int64, preTax bool, base string) *deduction.DeductionType {
	return &deduction.DeductionType{
		ID:       uuid.New(),
		Code:     code,
		Name:     code,
		Category: deduction.CategoryStatutory,
		CalcKind: deduction.CalcKindPercentage,
		CalcBase: base,
		Rate:     decimal.NewFromInt(rate),
		PreTax:   preTax,
		Priority: priority,
		Active:   true,
	}
}

func TestResolve_PriorityOrderAffectsTaxableBase(t *testing.T) {
	// Priority 10 pension (8% of gross, pre-tax) must reduce the taxable base
	// seen by the priority 50 percentage-of-taxable deduction.
	pension := percentageType("PENSION", 10, 8, true, deduction.BaseGross)
	union := percentageType("UNION_DUES", 50, 2, true, deduction.BaseTaxable)

	input := deduction.EngineInput{
		PeriodStart: periodStart,
		GrossPay:    1_000_000,
		BasicSalary: 1_000_000,
		TaxableBase: 1_000_000,
	}

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{binding(union), binding(pension)},
		input,
	)

	assert.NoError(t, err)
	// pension 80,000 first, then 2% of the remaining 920,000 = 18,400
	assert.Equal(t, int64(98_400), result.PreTaxTotal)
	assert.Equal(t, int64(901_600), result.TaxableBase)
	assert.Equal(t, "PENSION", result.Applied[0].Code)
	assert.Equal(t, "UNION_DUES", result.Applied[1].Code)
}

func TestResolve_PostTaxDoesNotTouchTaxableBase(t *testing.T) {
	welfare := percentageType("WELFARE", 20, 5, false, deduction.BaseGross)

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{binding(welfare)},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 500_000, TaxableBase: 500_000},
	)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.PreTaxTotal)
	assert.Equal(t, int64(25_000), result.PostTaxTotal)
	assert.Equal(t, int64(500_000), result.TaxableBase)
}

func TestResolve_PeriodCapAndCumulativeTarget(t *testing.T) {
	loanType := &deduction.DeductionType{
		ID:       uuid.New(),
		Code:     "STAFF_LOAN",
		Name:     "Staff Loan",
		Category: deduction.CategoryLoan,
		CalcKind: deduction.CalcKindFixed,
		Amount:   50_000,
		Priority: 30,
		Active:   true,
	}

	loan := binding(loanType)
	loan.CumulativeTarget = 120_000
	loan.CumulativeDeducted = 90_000

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{loan},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 400_000, TaxableBase: 400_000},
	)

	assert.NoError(t, err)
	// remaining target 30,000 < configured 50,000
	assert.Equal(t, int64(30_000), result.PostTaxTotal)
	assert.True(t, result.Applied[0].TargetReached)
}

func TestResolve_AnnualCapClampsWithinYear(t *testing.T) {
	pensionType := percentageType("PENSION", 10, 8, true, deduction.BaseGross)
	pensionType.AnnualCap = 250_000

	b := binding(pensionType)
	b.YearDeducted = 240_000
	b.DeductionYear = periodStart.Year()

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{b},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 500_000, TaxableBase: 500_000},
	)

	assert.NoError(t, err)
	// 8% of 500,000 = 40,000, but only 10,000 of annual headroom remains.
	assert.Equal(t, int64(10_000), result.PreTaxTotal)
	assert.Equal(t, int64(490_000), result.TaxableBase)
}

func TestResolve_AnnualCapResetsOnNewYear(t *testing.T) {
	pensionType := percentageType("PENSION", 10, 8, true, deduction.BaseGross)
	pensionType.AnnualCap = 250_000

	b := binding(pensionType)
	// The stored counter belongs to last year and must not bound this period.
	b.YearDeducted = 250_000
	b.DeductionYear = periodStart.Year() - 1

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{b},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 500_000, TaxableBase: 500_000},
	)

	assert.NoError(t, err)
	assert.Equal(t, int64(40_000), result.PreTaxTotal)
}

func TestResolve_PreTaxNeverPushesTaxableBelowZero(t *testing.T) {
	big := &deduction.DeductionType{
		ID:       uuid.New(),
		Code:     "HUGE",
		Name:     "Huge",
		Category: deduction.CategoryVoluntary,
		CalcKind: deduction.CalcKindFixed,
		Amount:   900_000,
		PreTax:   true,
		Priority: 10,
		Active:   true,
	}

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{binding(big)},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 300_000, TaxableBase: 300_000},
	)

	assert.NoError(t, err)
	assert.Equal(t, int64(300_000), result.PreTaxTotal)
	assert.Equal(t, int64(0), result.TaxableBase)
}

func TestResolve_MandatoryWithoutRateIsError(t *testing.T) {
	broken := percentageType("HEALTH", 15, 0, true, deduction.BaseGross)
	broken.Mandatory = true

	_, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{binding(broken)},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 300_000, TaxableBase: 300_000},
	)

	assert.Error(t, err)
	assert.Equal(t, apperror.CodeConfigError, apperror.ToHTTP(err).Code)
}

func TestResolve_VoluntaryWithoutRateIsSkipped(t *testing.T) {
	broken := percentageType("GYM", 60, 0, false, deduction.BaseGross)

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{binding(broken)},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 300_000, TaxableBase: 300_000},
	)

	assert.NoError(t, err)
	assert.Empty(t, result.Applied)
}

func TestResolve_ExpiredAndInactiveBindingsIgnored(t *testing.T) {
	dtype := percentageType("PENSION", 10, 8, true, deduction.BaseGross)

	expired := binding(dtype)
	past := periodStart.AddDate(0, -1, 0)
	expired.EffectiveTo = &past

	inactive := binding(dtype)
	inactive.Active = false

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{expired, inactive},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 300_000, TaxableBase: 300_000},
	)

	assert.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Equal(t, int64(300_000), result.TaxableBase)
}

func TestResolve_OverridesTakePrecedence(t *testing.T) {
	dtype := percentageType("PENSION", 10, 8, true, deduction.BaseGross)

	b := binding(dtype)
	override := decimal.NewFromInt(10)
	b.RateOverride = &override

	result, err := deduction.Resolve(
		[]deduction.EmployeeDeduction{b},
		deduction.EngineInput{PeriodStart: periodStart, GrossPay: 500_000, TaxableBase: 500_000},
	)

	assert.NoError(t, err)
	assert.Equal(t, int64(50_000), result.PreTaxTotal)
}
