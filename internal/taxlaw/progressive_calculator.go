package taxlaw

import (
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/money"
	"github.com/shopspring/decimal"
)

type BandBreakdown struct {
	Position   int             `json:"position"`
	LowerBound int64           `json:"lower_bound"`
	UpperBound *int64          `json:"upper_bound,omitempty"`
	Rate       decimal.Decimal `json:"rate"`
	Taxed      int64           `json:"taxed"`
	Tax        int64           `json:"tax"`
}

type TaxResult struct {
	Tax   int64           `json:"tax"`
	Bands []BandBreakdown `json:"bands,omitempty"`
}

// ComputeTax applies taxable income to the band table. It locates the highest
// band whose lower bound is at or below the income and uses that band's
// precomputed cumulative tax:
//
//	tax = cumulative_at_lower + (taxable - lower) × rate / 100
//
// Zero or negative taxable income yields zero tax with no breakdown.
func ComputeTax(table *TaxLawTable, taxable int64) TaxResult {
	if taxable <= 0 {
		return TaxResult{}
	}

	bands := table.SortedBands()

	selected := 0
	for i, band := range bands {
		if band.LowerBound <= taxable {
			selected = i
			continue
		}
		break
	}

	top := bands[selected]
	inBand := taxable - top.LowerBound
	result := TaxResult{
		Tax: top.CumulativeAtLower + money.PercentOf(inBand, top.Rate),
	}

	for i := 0; i <= selected; i++ {
		band := bands[i]
		if i < selected {
			width := *band.UpperBound - band.LowerBound
			result.Bands = append(result.Bands, BandBreakdown{
				Position:   band.Position,
				LowerBound: band.LowerBound,
				UpperBound: band.UpperBound,
				Rate:       band.Rate,
				Taxed:      width,
				Tax:        money.PercentOf(width, band.Rate),
			})
			continue
		}
		result.Bands = append(result.Bands, BandBreakdown{
			Position:   band.Position,
			LowerBound: band.LowerBound,
			UpperBound: band.UpperBound,
			Rate:       band.Rate,
			Taxed:      inBand,
			Tax:        money.PercentOf(inBand, band.Rate),
		})
	}

	return result
}
