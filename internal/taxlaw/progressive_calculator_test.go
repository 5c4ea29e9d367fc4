package taxlaw_test

import (
	"testing"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/money"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw"
	"github.com/stretchr/testify/assert"
)

func legacyTable(t *testing.T) *taxlaw.TaxLawTable {
	t.Helper()
	table, err := taxlaw.LegacyRegime2011()
	assert.NoError(t, err)
	return table
}

// manualTax iterates every band and sums per-bracket tax, as the oracle for
// the cumulative-lookup formula.
func manualTax(table *taxlaw.TaxLawTable, taxable int64) int64 {
	var total int64
	remain := taxable
	for _, band := range table.SortedBands() {
		if remain <= 0 {
			break
		}
		width := remain
		if band.UpperBound != nil {
			bandWidth := *band.UpperBound - band.LowerBound
			if width > bandWidth {
				width = bandWidth
			}
		}
		total += money.PercentOf(width, band.Rate)
		remain -= width
	}
	return total
}

func TestComputeTax_MatchesManualIteration(t *testing.T) {
	table := legacyTable(t)

	incomes := []int64{
		1, 150_000, 299_999, 300_000, 300_001, 599_999, 600_000,
		1_000_000, 1_100_000, 1_599_999, 2_000_000, 3_200_000, 10_000_000,
	}

	for _, income := range incomes {
		got := taxlaw.ComputeTax(table, income)
		assert.Equalf(t, manualTax(table, income), got.Tax, "income %d", income)
	}
}

func TestComputeTax_ZeroAndNegativeIncome(t *testing.T) {
	table := legacyTable(t)

	assert.Equal(t, int64(0), taxlaw.ComputeTax(table, 0).Tax)
	assert.Equal(t, int64(0), taxlaw.ComputeTax(table, -5_000).Tax)
	assert.Empty(t, taxlaw.ComputeTax(table, 0).Bands)
}

func TestComputeTax_UnboundedTopBand(t *testing.T) {
	table := legacyTable(t)

	got := taxlaw.ComputeTax(table, 5_000_000)
	// 3,200,000 fully banded plus 1,800,000 at 24%
	assert.Equal(t, manualTax(table, 5_000_000), got.Tax)

	top := got.Bands[len(got.Bands)-1]
	assert.Nil(t, top.UpperBound)
	assert.Equal(t, int64(1_800_000), top.Taxed)
}

func TestComputeTax_BreakdownSumsToTotal(t *testing.T) {
	table := legacyTable(t)

	got := taxlaw.ComputeTax(table, 750_000)
	var sum int64
	for _, band := range got.Bands {
		sum += band.Tax
	}
	assert.Equal(t, got.Tax, sum)
	assert.Len(t, got.Bands, 3)
}

func TestComputeTax_FirstBandPartial(t *testing.T) {
	table := legacyTable(t)

	// 40,000 at 7%
	got := taxlaw.ComputeTax(table, 40_000)
	assert.Equal(t, int64(2_800), got.Tax)
	assert.Len(t, got.Bands, 1)
}
