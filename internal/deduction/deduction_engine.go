package deduction

import (
	"fmt"
	"sort"
	"time"

	deductionerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/deduction/errors"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/apperror"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/money"
)

// EngineInput carries the income bases one employee's deductions are computed
// against for a single period.
type EngineInput struct {
	PeriodStart     time.Time
	GrossPay        int64
	BasicSalary     int64
	PensionableBase int64
	TaxableBase     int64
}

// Applied is one resolved deduction line for breakdown storage. TargetReached
// marks bindings whose cumulative target is met by this period's amount; the
// pay run persists the deactivation at completion.
type Applied struct {
	EmployeeDeductionID string `json:"employee_deduction_id"`
	Code                string `json:"code"`
	Name                string `json:"name"`
	Category            string `json:"category"`
	Amount              int64  `json:"amount"`
	PreTax              bool   `json:"pre_tax"`
	TargetReached       bool   `json:"target_reached"`
}

type EngineResult struct {
	PreTaxTotal  int64
	PostTaxTotal int64
	// TaxableBase is the running base after all pre-tax deductions, floored
	// at zero. Tax computation sees this value.
	TaxableBase int64
	Applied     []Applied
}

// Resolve applies the employee's active deductions in strict priority order.
// Pre-tax amounts reduce the running taxable base immediately, so a later
// percentage-of-taxable deduction and the tax calculator both observe the
// reduced base.
func Resolve(deductions []EmployeeDeduction, input EngineInput) (EngineResult, error) {
	active := make([]EmployeeDeduction, 0, len(deductions))
	for _, d := range deductions {
		if d.DeductionType == nil || !d.DeductionType.Active {
			continue
		}
		if !d.EffectiveOn(input.PeriodStart) {
			continue
		}
		active = append(active, d)
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].DeductionType.Priority != active[j].DeductionType.Priority {
			return active[i].DeductionType.Priority < active[j].DeductionType.Priority
		}
		return active[i].DeductionType.Code < active[j].DeductionType.Code
	})

	result := EngineResult{TaxableBase: input.TaxableBase}

	for _, d := range active {
		dtype := d.DeductionType

		amount, ok := rawAmount(d, input, result.TaxableBase)
		if !ok {
			if dtype.Mandatory {
				return EngineResult{}, apperror.Wrap(
					fmt.Errorf("deduction type %s has no resolvable amount", dtype.Code),
					apperror.CodeConfigError,
					deductionerrors.ErrMandatoryUnresolvable.Message,
					deductionerrors.ErrMandatoryUnresolvable.HTTPStatus,
				)
			}
			continue
		}

		amount = money.Clamp(amount, dtype.PeriodCap)

		if remaining := d.RemainingAnnualCap(input.PeriodStart.Year()); remaining >= 0 && amount > remaining {
			amount = remaining
		}

		targetReached := false
		if remaining := d.RemainingTarget(); remaining >= 0 {
			if amount >= remaining {
				amount = remaining
				targetReached = true
			}
		}

		if dtype.PreTax {
			// Pre-tax deductions may not push the taxable base below zero.
			if amount > result.TaxableBase {
				amount = result.TaxableBase
			}
			result.TaxableBase -= amount
			result.PreTaxTotal += amount
		} else {
			result.PostTaxTotal += amount
		}

		if amount == 0 && !targetReached {
			continue
		}

		result.Applied = append(result.Applied, Applied{
			EmployeeDeductionID: d.ID.String(),
			Code:                dtype.Code,
			Name:                dtype.Name,
			Category:            dtype.Category,
			Amount:              amount,
			PreTax:              dtype.PreTax,
			TargetReached:       targetReached,
		})
	}

	return result, nil
}

// rawAmount resolves the configured amount before caps. The second return is
// false when neither the binding nor the type yields a usable figure.
func rawAmount(d EmployeeDeduction, input EngineInput, runningTaxable int64) (int64, bool) {
	dtype := d.DeductionType

	switch dtype.CalcKind {
	case CalcKindFixed:
		if d.AmountOverride != nil {
			if *d.AmountOverride < 0 {
				return 0, false
			}
			return *d.AmountOverride, true
		}
		if dtype.Amount < 0 {
			return 0, false
		}
		return dtype.Amount, true
	case CalcKindPercentage:
		rate := dtype.Rate
		if d.RateOverride != nil {
			rate = *d.RateOverride
		}
		if rate.IsNegative() || rate.IsZero() {
			return 0, false
		}

		var base int64
		switch dtype.CalcBase {
		case BaseBasic:
			base = input.BasicSalary
		case BaseTaxable:
			base = runningTaxable
		case BasePensionable:
			base = input.PensionableBase
		default:
			base = input.GrossPay
		}
		return money.PercentOf(base, rate), true
	default:
		return 0, false
	}
}
