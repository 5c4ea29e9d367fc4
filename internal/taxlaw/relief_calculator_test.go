package taxlaw_test

import (
	"testing"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw"
	"github.com/stretchr/testify/assert"
)

func TestCalculateReliefs_ConsolidatedRelief(t *testing.T) {
	table := legacyTable(t)

	// max(200,000, 1% × 300,000) + 20% × 300,000 = 200,000 + 60,000
	got := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   300_000,
		TaxableIncome: 300_000,
		AnnualIncome:  300_000,
	})

	assert.False(t, got.Exempt)
	assert.Equal(t, int64(260_000), got.Total)
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, "CONSOLIDATED_RELIEF", got.Lines[0].Code)
}

func TestCalculateReliefs_ConsolidatedRelief_PercentageFloorWins(t *testing.T) {
	table := legacyTable(t)

	// 1% × 30,000,000 = 300,000 exceeds the 200,000 fixed floor
	got := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   30_000_000,
		TaxableIncome: 30_000_000,
		AnnualIncome:  30_000_000,
	})

	assert.Equal(t, int64(300_000+6_000_000), got.Total)
}

func TestCalculateReliefs_LowIncomeExemption(t *testing.T) {
	table, err := taxlaw.NTARegime2025()
	assert.NoError(t, err)

	got := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   700_000,
		TaxableIncome: 700_000,
		AnnualIncome:  700_000,
		ProofProvided: map[string]bool{"RENT_RELIEF": true},
	})

	// Exemption supersedes every other relief, including an eligible rent relief.
	assert.True(t, got.Exempt)
	assert.Equal(t, int64(0), got.Total)
}

func TestCalculateReliefs_AboveExemptionThreshold(t *testing.T) {
	table, err := taxlaw.NTARegime2025()
	assert.NoError(t, err)

	got := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   900_000,
		TaxableIncome: 900_000,
		AnnualIncome:  900_000,
	})

	assert.False(t, got.Exempt)
}

func TestCalculateReliefs_ProofRequiredSkippedNotFailed(t *testing.T) {
	table, err := taxlaw.NTARegime2025()
	assert.NoError(t, err)

	input := taxlaw.ReliefInput{
		GrossIncome:   2_000_000,
		TaxableIncome: 2_000_000,
		AnnualIncome:  2_000_000,
	}

	noProof := taxlaw.CalculateReliefs(table, input)
	assert.Equal(t, int64(0), noProof.Total)

	input.ProofProvided = map[string]bool{"RENT_RELIEF": true}
	withProof := taxlaw.CalculateReliefs(table, input)
	// min(500,000, 20% × 2,000,000)
	assert.Equal(t, int64(400_000), withProof.Total)
}

func TestCalculateReliefs_HomeownerIneligibleForRentRelief(t *testing.T) {
	table, err := taxlaw.NTARegime2025()
	assert.NoError(t, err)

	got := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   2_000_000,
		TaxableIncome: 2_000_000,
		AnnualIncome:  2_000_000,
		IsHomeowner:   true,
		ProofProvided: map[string]bool{"RENT_RELIEF": true},
	})

	assert.Equal(t, int64(0), got.Total)
}

func TestCalculateReliefs_CapApplied(t *testing.T) {
	table, err := taxlaw.NTARegime2025()
	assert.NoError(t, err)

	got := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   10_000_000,
		TaxableIncome: 10_000_000,
		AnnualIncome:  10_000_000,
		ProofProvided: map[string]bool{"RENT_RELIEF": true},
	})

	// 20% × 10,000,000 = 2,000,000, clamped to the 500,000 cap
	assert.Equal(t, int64(500_000), got.Total)
}

func TestLegacyEndToEnd_ReliefThenTax(t *testing.T) {
	table := legacyTable(t)

	reliefs := taxlaw.CalculateReliefs(table, taxlaw.ReliefInput{
		GrossIncome:   300_000,
		TaxableIncome: 300_000,
		AnnualIncome:  300_000,
	})
	assert.Equal(t, int64(260_000), reliefs.Total)

	taxable := int64(300_000) - reliefs.Total
	got := taxlaw.ComputeTax(table, taxable)
	assert.Equal(t, int64(2_800), got.Tax)
}
