package taxlaw

import "github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/money"

// ReliefInput carries the income figures and eligibility facts a relief
// evaluation needs.
type ReliefInput struct {
	GrossIncome   int64
	TaxableIncome int64
	// AnnualIncome is the annualized gross used by low-income exemption
	// thresholds, which are defined per year regardless of pay frequency.
	AnnualIncome int64
	IsHomeowner  bool
	// ProofProvided marks relief codes whose documentation requirement is
	// satisfied for this employee.
	ProofProvided map[string]bool
}

type ReliefLine struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

type ReliefResult struct {
	Total int64        `json:"total"`
	Lines []ReliefLine `json:"lines"`
	// Exempt is set when a low-income exemption fired: total tax is zero and
	// band computation is skipped entirely.
	Exempt bool `json:"exempt"`
}

// CalculateReliefs evaluates every applicable relief on the table. A firing
// low-income exemption supersedes everything else, so it is checked first.
func CalculateReliefs(table *TaxLawTable, input ReliefInput) ReliefResult {
	var result ReliefResult

	for _, relief := range table.Reliefs {
		if relief.Kind != ReliefKindLowIncomeExemption {
			continue
		}
		if !eligible(relief, input) {
			continue
		}
		if input.AnnualIncome <= relief.Threshold {
			result.Exempt = true
			result.Lines = append(result.Lines, ReliefLine{Code: relief.Code, Amount: 0})
			return result
		}
	}

	for _, relief := range table.Reliefs {
		if relief.Kind == ReliefKindLowIncomeExemption {
			continue
		}
		if !eligible(relief, input) {
			continue
		}

		amount := reliefAmount(relief, input)
		if amount <= 0 {
			continue
		}

		result.Total += amount
		result.Lines = append(result.Lines, ReliefLine{Code: relief.Code, Amount: amount})
	}

	return result
}

// eligible gates whether a relief is evaluated at all. A relief requiring
// unprovided proof is skipped, not failed.
func eligible(relief Relief, input ReliefInput) bool {
	if !relief.AutoApply {
		return false
	}
	if relief.NonHomeownerOnly && input.IsHomeowner {
		return false
	}
	if relief.RequiresProof && !input.ProofProvided[relief.Code] {
		return false
	}
	return true
}

func reliefAmount(relief Relief, input ReliefInput) int64 {
	base := input.GrossIncome
	if relief.Base == BaseTaxable {
		base = input.TaxableIncome
	}

	switch relief.Kind {
	case ReliefKindFixed:
		return relief.Amount
	case ReliefKindPercentage:
		return money.PercentOf(base, relief.Rate)
	case ReliefKindCappedPercentage:
		if relief.FloorAmount > 0 {
			// Composite form: max(floor_amount, floor_rate% × base) + rate% × base.
			// Used by the legacy regime's consolidated relief.
			floor := money.PercentOf(base, relief.FloorRate)
			if relief.FloorAmount > floor {
				floor = relief.FloorAmount
			}
			return floor + money.PercentOf(base, relief.Rate)
		}
		return money.Clamp(money.PercentOf(base, relief.Rate), relief.Cap)
	default:
		return 0
	}
}
