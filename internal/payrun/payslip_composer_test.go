package payrun_test

import (
	"context"
	"testing"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/employee"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/payrun"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakePaySource struct {
	configFn     func(ctx context.Context, companyID, employeeID string) (*employee.PayConfiguration, error)
	attendanceFn func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (*employee.AttendanceSummary, error)
}

func (f *fakePaySource) FindPayConfiguration(ctx context.Context, companyID, employeeID string) (*employee.PayConfiguration, error) {
	return f.configFn(ctx, companyID, employeeID)
}

func (f *fakePaySource) FindAttendance(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (*employee.AttendanceSummary, error) {
	if f.attendanceFn != nil {
		return f.attendanceFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return &employee.AttendanceSummary{}, nil
}

type fakeDeductionSource struct {
	bindings []deduction.EmployeeDeduction
}

func (f *fakeDeductionSource) FindActiveByEmployee(ctx context.Context, companyID, employeeID string, date time.Time) ([]deduction.EmployeeDeduction, error) {
	return f.bindings, nil
}

type fakeAdvanceSource struct {
	outstanding []wageadvance.WageAdvance
}

func (f *fakeAdvanceSource) FindOutstandingByEmployee(ctx context.Context, companyID, employeeID string) ([]wageadvance.WageAdvance, error) {
	return f.outstanding, nil
}

type fakeTaxLawSource struct {
	table *taxlaw.TaxLawTable
}

func (f *fakeTaxLawSource) SelectForDate(ctx context.Context, jurisdiction string, date time.Time) (*taxlaw.TaxLawTable, error) {
	return f.table, nil
}

func legacyTable(t *testing.T) *taxlaw.TaxLawTable {
	t.Helper()
	table, err := taxlaw.LegacyRegime2011()
	assert.NoError(t, err)
	return table
}

func ntaTable(t *testing.T) *taxlaw.TaxLawTable {
	t.Helper()
	table, err := taxlaw.NTARegime2025()
	assert.NoError(t, err)
	return table
}

func monthlyConfig(baseSalary int64) *employee.PayConfiguration {
	return &employee.PayConfiguration{
		ID:           uuid.New(),
		EmployeeID:   uuid.New(),
		BaseSalary:   baseSalary,
		PayFrequency: employee.PayFrequencyMonthly,
		Jurisdiction: "NG",
	}
}

func testRun() *payrun.PayRun {
	return &payrun.PayRun{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Status:      payrun.StatusCalculating,
	}
}

func composerWith(
	config *employee.PayConfiguration,
	attendance *employee.AttendanceSummary,
	table *taxlaw.TaxLawTable,
	bindings []deduction.EmployeeDeduction,
	outstanding []wageadvance.WageAdvance,
) *payrun.Composer {
	pay := &fakePaySource{
		configFn: func(ctx context.Context, companyID, employeeID string) (*employee.PayConfiguration, error) {
			return config, nil
		},
	}
	if attendance != nil {
		pay.attendanceFn = func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (*employee.AttendanceSummary, error) {
			return attendance, nil
		}
	}
	return payrun.NewComposer(
		pay,
		&fakeDeductionSource{bindings: bindings},
		&fakeAdvanceSource{outstanding: outstanding},
		&fakeTaxLawSource{table: table},
	)
}

func TestComposer_BaseSalaryWithConsolidatedRelief(t *testing.T) {
	ctx := context.Background()
	run := testRun()
	employeeID := uuid.New().String()

	composer := composerWith(monthlyConfig(300_000), nil, legacyTable(t), nil, nil)

	item, err := composer.Compose(ctx, run, employeeID)

	assert.NoError(t, err)
	assert.Equal(t, payrun.ItemStatusCalculated, item.Status)
	assert.Equal(t, int64(300_000), item.GrossPay)
	// Consolidated relief: max(200,000, 1% x 300,000) + 20% x 300,000.
	assert.Equal(t, int64(260_000), item.ReliefTotal)
	assert.Equal(t, int64(40_000), item.TaxableIncome)
	// 40,000 sits entirely in the 7% band.
	assert.Equal(t, int64(2_800), item.Tax)
	assert.Equal(t, int64(297_200), item.NetPay)
	assert.Equal(t, taxlaw.VersionLegacy2011, item.TaxLawVersion)
	assert.Len(t, item.Earnings, 1)
	assert.Equal(t, "BASE_SALARY", item.Earnings[0].Code)
	assert.Len(t, item.TaxBands, 1)
}

func TestComposer_AttendancePremiumsAndEmployerPension(t *testing.T) {
	ctx := context.Background()
	run := testRun()

	config := monthlyConfig(160_000)
	config.StandardHours = 160
	config.OvertimeMultiplier = decimal.NewFromFloat(1.5)
	config.WeekendMultiplier = decimal.NewFromInt(2)
	config.PensionEnabled = true
	config.PensionEmployerRate = decimal.NewFromInt(10)

	attendance := &employee.AttendanceSummary{
		OvertimeHours: 10,
		WeekendHours:  4,
	}

	composer := composerWith(config, attendance, ntaTable(t), nil, nil)

	item, err := composer.Compose(ctx, run, uuid.New().String())

	assert.NoError(t, err)
	// Hourly rate 1,000: overtime 10h x 1.5, weekend 4h x 2.
	assert.Equal(t, int64(160_000+15_000+8_000), item.GrossPay)
	assert.Len(t, item.Earnings, 3)
	// Premiums are taxable but not pensionable; employer pension runs on base
	// salary only.
	assert.Equal(t, int64(16_000), item.EmployerPension)
	assert.Equal(t, int64(0), item.EmployerHousingFund)
	// 183,000 monthly sits in the zero band of the 2025 table.
	assert.Equal(t, int64(0), item.Tax)
	assert.Equal(t, int64(183_000), item.NetPay)
}

func TestComposer_LowIncomeExemption(t *testing.T) {
	ctx := context.Background()
	run := testRun()

	// 60,000 monthly annualizes to 720,000, under the 800,000 threshold.
	composer := composerWith(monthlyConfig(60_000), nil, ntaTable(t), nil, nil)

	item, err := composer.Compose(ctx, run, uuid.New().String())

	assert.NoError(t, err)
	assert.Equal(t, int64(0), item.Tax)
	assert.Equal(t, int64(60_000), item.TaxableIncome)
	assert.Equal(t, int64(60_000), item.NetPay)
	assert.Empty(t, item.TaxBands)
}

func TestComposer_CommissionCapAndEarningLines(t *testing.T) {
	ctx := context.Background()
	run := testRun()

	config := monthlyConfig(300_000)
	config.CommissionRate = decimal.NewFromInt(5)
	config.CommissionCap = 10_000
	config.Earnings = []employee.EarningLine{
		{Code: "TRANSPORT", Kind: employee.EarningKindFixed, Amount: 20_000, Taxable: false},
	}

	attendance := &employee.AttendanceSummary{CommissionBase: 400_000}

	composer := composerWith(config, attendance, ntaTable(t), nil, nil)

	item, err := composer.Compose(ctx, run, uuid.New().String())

	assert.NoError(t, err)
	// 5% of 400,000 is 20,000, capped at 10,000.
	assert.Equal(t, int64(330_000), item.GrossPay)
	assert.Len(t, item.Earnings, 3)
	assert.Equal(t, "COMMISSION", item.Earnings[1].Code)
	assert.Equal(t, int64(10_000), item.Earnings[1].Amount)
	// The non-taxable transport line keeps 310,000 taxable, still inside the
	// 2025 zero band for the month.
	assert.Equal(t, int64(310_000), item.TaxableIncome)
	assert.Equal(t, int64(0), item.Tax)
	assert.Equal(t, int64(330_000), item.NetPay)
}

func TestComposer_AdvanceTrimmedToAvailableNet(t *testing.T) {
	ctx := context.Background()
	run := testRun()

	advance := wageadvance.WageAdvance{
		ID:               uuid.New(),
		EmployeeID:       uuid.New(),
		ApprovedAmount:   400_000,
		InstallmentCount: 1,
		Status:           wageadvance.StatusDisbursed,
	}

	composer := composerWith(monthlyConfig(300_000), nil, legacyTable(t), nil, []wageadvance.WageAdvance{advance})

	item, err := composer.Compose(ctx, run, uuid.New().String())

	assert.NoError(t, err)
	// The 400,000 installment cannot exceed what is left after tax.
	assert.Equal(t, int64(297_200), item.AdvanceRepayment)
	assert.Equal(t, int64(0), item.NetPay)
	assert.Len(t, item.Advances, 1)
	assert.Equal(t, advance.ID.String(), item.Advances[0].AdvanceID)
	assert.Equal(t, int64(297_200), item.Advances[0].Amount)
}

func TestComposer_DeductionsExceedingGrossFail(t *testing.T) {
	ctx := context.Background()
	run := testRun()

	bindings := []deduction.EmployeeDeduction{{
		ID:            uuid.New(),
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
		DeductionType: &deduction.DeductionType{
			Code:     "COURT_ORDER",
			Name:     "Court Order",
			Category: deduction.CategoryLoan,
			CalcKind: deduction.CalcKindFixed,
			Amount:   400_000,
			Priority: 10,
			Active:   true,
		},
	}}

	composer := composerWith(monthlyConfig(300_000), nil, legacyTable(t), bindings, nil)

	item, err := composer.Compose(ctx, run, uuid.New().String())

	assert.Error(t, err)
	assert.Nil(t, item)
	assert.Contains(t, err.Error(), "exceed gross pay")
}

func TestComposer_PreTaxDeductionReducesTaxable(t *testing.T) {
	ctx := context.Background()
	run := testRun()

	// 8% of gross pre-tax pension on 300,000 leaves 276,000 before reliefs.
	rate := decimal.NewFromInt(8)
	bindings := []deduction.EmployeeDeduction{{
		ID:            uuid.New(),
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
		DeductionType: &deduction.DeductionType{
			Code:     "PENSION",
			Name:     "Pension",
			Category: deduction.CategoryStatutory,
			CalcKind: deduction.CalcKindPercentage,
			CalcBase: deduction.BaseGross,
			Rate:     rate,
			PreTax:   true,
			Priority: 10,
			Active:   true,
		},
	}}

	composer := composerWith(monthlyConfig(300_000), nil, legacyTable(t), bindings, nil)

	item, err := composer.Compose(ctx, run, uuid.New().String())

	assert.NoError(t, err)
	assert.Equal(t, int64(24_000), item.PreTaxDeductions)
	// Reliefs still run on the 300,000 gross: 276,000 - 260,000 = 16,000.
	assert.Equal(t, int64(16_000), item.TaxableIncome)
	assert.Equal(t, int64(1_120), item.Tax)
	assert.Equal(t, int64(300_000-24_000-1_120), item.NetPay)
}
