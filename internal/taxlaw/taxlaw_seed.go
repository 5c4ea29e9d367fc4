package taxlaw

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Built-in regimes for the default jurisdiction. Amounts are annual, in minor
// units of the jurisdiction currency.

const DefaultJurisdiction = "NG"

const (
	VersionLegacy2011 = "2011-regime"
	VersionNTA2025    = "2025-regime"
)

func ptr(v int64) *int64 { return &v }

// LegacyRegime2011 is the 2011 personal income tax act: six progressive bands
// plus the consolidated relief of max(200,000, 1% of gross) + 20% of gross.
func LegacyRegime2011() (*TaxLawTable, error) {
	from := time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	return NewTable(
		VersionLegacy2011,
		DefaultJurisdiction,
		from,
		&to,
		[]BandSpec{
			{LowerBound: 0, UpperBound: ptr(300_000), Rate: decimal.NewFromInt(7)},
			{LowerBound: 300_000, UpperBound: ptr(600_000), Rate: decimal.NewFromInt(11)},
			{LowerBound: 600_000, UpperBound: ptr(1_100_000), Rate: decimal.NewFromInt(15)},
			{LowerBound: 1_100_000, UpperBound: ptr(1_600_000), Rate: decimal.NewFromInt(19)},
			{LowerBound: 1_600_000, UpperBound: ptr(3_200_000), Rate: decimal.NewFromInt(21)},
			{LowerBound: 3_200_000, UpperBound: nil, Rate: decimal.NewFromInt(24)},
		},
		[]Relief{
			{
				Code:        "CONSOLIDATED_RELIEF",
				Kind:        ReliefKindCappedPercentage,
				FloorAmount: 200_000,
				FloorRate:   decimal.NewFromInt(1),
				Rate:        decimal.NewFromInt(20),
				Base:        BaseGross,
				AutoApply:   true,
			},
		},
	)
}

// NTARegime2025 is the 2025 act: full exemption at or below 800,000 annual
// income, new band layout, and a rent relief for non-homeowners with proof.
func NTARegime2025() (*TaxLawTable, error) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	return NewTable(
		VersionNTA2025,
		DefaultJurisdiction,
		from,
		nil,
		[]BandSpec{
			{LowerBound: 0, UpperBound: ptr(800_000), Rate: decimal.NewFromInt(0)},
			{LowerBound: 800_000, UpperBound: ptr(3_000_000), Rate: decimal.NewFromInt(15)},
			{LowerBound: 3_000_000, UpperBound: ptr(12_000_000), Rate: decimal.NewFromInt(18)},
			{LowerBound: 12_000_000, UpperBound: ptr(25_000_000), Rate: decimal.NewFromInt(21)},
			{LowerBound: 25_000_000, UpperBound: ptr(50_000_000), Rate: decimal.NewFromInt(23)},
			{LowerBound: 50_000_000, UpperBound: nil, Rate: decimal.NewFromInt(25)},
		},
		[]Relief{
			{
				Code:      "LOW_INCOME_EXEMPTION",
				Kind:      ReliefKindLowIncomeExemption,
				Threshold: 800_000,
				Base:      BaseGross,
				AutoApply: true,
			},
			{
				Code:             "RENT_RELIEF",
				Kind:             ReliefKindCappedPercentage,
				Rate:             decimal.NewFromInt(20),
				Cap:              500_000,
				Base:             BaseGross,
				AutoApply:        true,
				RequiresProof:    true,
				NonHomeownerOnly: true,
			},
		},
	)
}

// SeedDefaults installs the built-in regimes when they are missing. Safe to
// run on every boot.
func SeedDefaults(ctx context.Context, repo Repository) error {
	builders := []func() (*TaxLawTable, error){
		LegacyRegime2011,
		NTARegime2025,
	}

	for _, build := range builders {
		table, err := build()
		if err != nil {
			return err
		}

		_, err = repo.FindByVersion(ctx, table.Jurisdiction, table.Version)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := repo.Create(ctx, table); err != nil {
			return err
		}
	}

	return nil
}
