package payrun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/employee"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/money"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/wageadvance"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The composer reads from these narrow views of the surrounding repositories
// so a single employee's payslip can be computed and tested in isolation.
type PayConfigSource interface {
	FindPayConfiguration(ctx context.Context, companyID string, employeeID string) (*employee.PayConfiguration, error)
	FindAttendance(ctx context.Context, companyID string, employeeID string, periodStart, periodEnd time.Time) (*employee.AttendanceSummary, error)
}

type DeductionSource interface {
	FindActiveByEmployee(ctx context.Context, companyID string, employeeID string, date time.Time) ([]deduction.EmployeeDeduction, error)
}

type AdvanceSource interface {
	FindOutstandingByEmployee(ctx context.Context, companyID string, employeeID string) ([]wageadvance.WageAdvance, error)
}

type TaxLawSource interface {
	SelectForDate(ctx context.Context, jurisdiction string, date time.Time) (*taxlaw.TaxLawTable, error)
}

// Composer computes one employee's pay for one run: earnings, deductions,
// reliefs, tax and advance installments, in that order.
type Composer struct {
	employees  PayConfigSource
	deductions DeductionSource
	advances   AdvanceSource
	laws       TaxLawSource
}

func NewComposer(
	employees PayConfigSource,
	deductions DeductionSource,
	advances AdvanceSource,
	laws TaxLawSource,
) *Composer {
	return &Composer{
		employees:  employees,
		deductions: deductions,
		advances:   advances,
		laws:       laws,
	}
}

func (c *Composer) Compose(ctx context.Context, run *PayRun, employeeID string) (*PayRunItem, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, errors.New("invalid employee id")
	}

	companyID := run.CompanyID.String()

	config, err := c.employees.FindPayConfiguration(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("employee has no pay configuration")
		}
		return nil, err
	}

	attendance, err := c.employees.FindAttendance(ctx, companyID, employeeID, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return nil, err
	}

	earnings := composeEarnings(config, attendance)

	var gross, taxableGross, pensionableBase int64
	for _, e := range earnings {
		gross += e.Amount
		if e.Taxable {
			taxableGross += e.Amount
		}
		if e.Pensionable {
			pensionableBase += e.Amount
		}
	}

	bindings, err := c.deductions.FindActiveByEmployee(ctx, companyID, employeeID, run.PeriodStart)
	if err != nil {
		return nil, err
	}

	engineResult, err := deduction.Resolve(bindings, deduction.EngineInput{
		PeriodStart:     run.PeriodStart,
		GrossPay:        gross,
		BasicSalary:     config.BaseSalary,
		PensionableBase: pensionableBase,
		TaxableBase:     taxableGross,
	})
	if err != nil {
		return nil, err
	}

	table, err := c.laws.SelectForDate(ctx, config.Jurisdiction, run.PeriodEnd)
	if err != nil {
		return nil, err
	}

	proof := make(map[string]bool, len(config.ReliefProofCodes))
	for _, code := range config.ReliefProofCodes {
		proof[code] = true
	}

	reliefResult := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   taxableGross,
		TaxableIncome: engineResult.TaxableBase,
		AnnualIncome:  taxableGross * employee.PeriodsPerYear(config.PayFrequency),
		IsHomeowner:   config.IsHomeowner,
		ProofProvided: proof,
	})

	var taxResult taxlaw.TaxResult
	taxable := engineResult.TaxableBase
	if !reliefResult.Exempt {
		taxable -= reliefResult.Total
		if taxable < 0 {
			taxable = 0
		}
		taxResult = taxlaw.ComputeTax(table, taxable)
	}

	available := gross - engineResult.PreTaxTotal - taxResult.Tax - engineResult.PostTaxTotal
	if available < 0 {
		return nil, fmt.Errorf("deductions and tax exceed gross pay by %d", -available)
	}

	outstanding, err := c.advances.FindOutstandingByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	var installments []AdvanceInstallment
	var advanceTotal int64
	for i := range outstanding {
		amount := money.Min(wageadvance.InstallmentFor(&outstanding[i]), available)
		if amount <= 0 {
			continue
		}
		installments = append(installments, AdvanceInstallment{
			AdvanceID: outstanding[i].ID.String(),
			Amount:    amount,
		})
		advanceTotal += amount
		available -= amount
	}

	net := gross - engineResult.PreTaxTotal - taxResult.Tax - engineResult.PostTaxTotal - advanceTotal

	return &PayRunItem{
		ID:         uuid.New(),
		CompanyID:  run.CompanyID,
		PayRunID:   run.ID,
		EmployeeID: employeeUUID,
		Status:     ItemStatusCalculated,

		GrossPay:          gross,
		TaxableIncome:     taxable,
		ReliefTotal:       reliefResult.Total,
		Tax:               taxResult.Tax,
		PreTaxDeductions:  engineResult.PreTaxTotal,
		PostTaxDeductions: engineResult.PostTaxTotal,
		AdvanceRepayment:  advanceTotal,
		NetPay:            net,

		EmployerPension:     employerPension(config, pensionableBase),
		EmployerHousingFund: employerHousingFund(config, pensionableBase),

		TaxLawVersion: table.Version,

		Earnings:   earnings,
		Deductions: engineResult.Applied,
		Reliefs:    reliefResult.Lines,
		TaxBands:   taxResult.Bands,
		Advances:   installments,
	}, nil
}

// composeEarnings expands base salary, attendance-driven premiums, commission
// and the configured earning lines into breakdown items.
func composeEarnings(config *employee.PayConfiguration, attendance *employee.AttendanceSummary) []EarningItem {
	earnings := []EarningItem{{
		Code:        "BASE_SALARY",
		Amount:      config.BaseSalary,
		Taxable:     true,
		Pensionable: true,
	}}

	if config.StandardHours > 0 {
		hourly := config.BaseSalary / config.StandardHours

		if attendance.OvertimeHours > 0 {
			earnings = append(earnings, EarningItem{
				Code:    "OVERTIME",
				Amount:  money.MulRate(attendance.OvertimeHours*hourly, config.OvertimeMultiplier),
				Taxable: true,
			})
		}
		if attendance.WeekendHours > 0 {
			earnings = append(earnings, EarningItem{
				Code:    "WEEKEND",
				Amount:  money.MulRate(attendance.WeekendHours*hourly, config.WeekendMultiplier),
				Taxable: true,
			})
		}
		if attendance.HolidayHours > 0 {
			earnings = append(earnings, EarningItem{
				Code:    "HOLIDAY",
				Amount:  money.MulRate(attendance.HolidayHours*hourly, config.HolidayMultiplier),
				Taxable: true,
			})
		}
	}

	if attendance.CommissionBase > 0 && config.CommissionRate.IsPositive() {
		earnings = append(earnings, EarningItem{
			Code:    "COMMISSION",
			Amount:  money.Clamp(money.PercentOf(attendance.CommissionBase, config.CommissionRate), config.CommissionCap),
			Taxable: true,
		})
	}

	for _, line := range config.Earnings {
		var amount int64
		switch line.Kind {
		case employee.EarningKindFixed:
			amount = line.Amount
		case employee.EarningKindPercentage:
			amount = money.PercentOf(config.BaseSalary, line.Rate)
		case employee.EarningKindHourly:
			amount = line.Amount * attendance.RegularHours
		case employee.EarningKindCommission:
			amount = money.PercentOf(attendance.CommissionBase, line.Rate)
		}
		if amount <= 0 {
			continue
		}
		earnings = append(earnings, EarningItem{
			Code:        line.Code,
			Amount:      amount,
			Taxable:     line.Taxable,
			Pensionable: line.Pensionable,
		})
	}

	return earnings
}

func employerPension(config *employee.PayConfiguration, pensionableBase int64) int64 {
	if !config.PensionEnabled {
		return 0
	}
	return money.PercentOf(pensionableBase, config.PensionEmployerRate)
}

func employerHousingFund(config *employee.PayConfiguration, pensionableBase int64) int64 {
	if !config.HousingFundEnabled {
		return 0
	}
	return money.PercentOf(pensionableBase, config.HousingFundEmployerRate)
}
