package taxlaw

import (
	"fmt"
	"sort"
	"time"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BandSpec is the authoring-time shape of one band, before cumulative tax at
// the lower bound is precomputed.
type BandSpec struct {
	LowerBound int64
	UpperBound *int64 // nil = unbounded
	Rate       decimal.Decimal
}

// NewTable builds a validated table from ordered band specs, precomputing
// cumulative tax at each lower bound:
//
//	cumulative[n] = cumulative[n-1] + (upper[n-1] - lower[n-1]) * rate[n-1] / 100
func NewTable(
	version, jurisdiction string,
	effectiveFrom time.Time,
	effectiveTo *time.Time,
	bands []BandSpec,
	reliefs []Relief,
) (*TaxLawTable, error) {
	table := &TaxLawTable{
		ID:            uuid.New(),
		Version:       version,
		Jurisdiction:  jurisdiction,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
	}

	var cumulative int64
	for i, spec := range bands {
		table.Bands = append(table.Bands, TaxBand{
			ID:                uuid.New(),
			TableID:           table.ID,
			Position:          i + 1,
			LowerBound:        spec.LowerBound,
			UpperBound:        spec.UpperBound,
			Rate:              spec.Rate,
			CumulativeAtLower: cumulative,
		})
		if spec.UpperBound != nil {
			cumulative += money.PercentOf(*spec.UpperBound-spec.LowerBound, spec.Rate)
		}
	}

	for i := range reliefs {
		reliefs[i].ID = uuid.New()
		reliefs[i].TableID = table.ID
	}
	table.Reliefs = reliefs

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Validate enforces the band invariants: ordered by position, contiguous,
// non-overlapping, first band starts at zero, only the last band unbounded.
func (t *TaxLawTable) Validate() error {
	if len(t.Bands) == 0 {
		return fmt.Errorf("tax law table %s has no bands", t.Version)
	}

	bands := t.SortedBands()

	if bands[0].LowerBound != 0 {
		return fmt.Errorf("tax law table %s: first band must start at 0, got %d", t.Version, bands[0].LowerBound)
	}

	for i, band := range bands {
		if band.Position != i+1 {
			return fmt.Errorf("tax law table %s: band positions are not sequential", t.Version)
		}
		if band.UpperBound == nil {
			if i != len(bands)-1 {
				return fmt.Errorf("tax law table %s: only the top band may be unbounded", t.Version)
			}
			continue
		}
		if *band.UpperBound <= band.LowerBound {
			return fmt.Errorf("tax law table %s: band %d upper bound must exceed lower bound", t.Version, band.Position)
		}
		if i < len(bands)-1 && bands[i+1].LowerBound != *band.UpperBound {
			return fmt.Errorf("tax law table %s: bands %d and %d are not contiguous", t.Version, band.Position, bands[i+1].Position)
		}
	}

	return nil
}

// SortedBands returns the bands ordered by position without mutating the
// stored slice.
func (t *TaxLawTable) SortedBands() []TaxBand {
	bands := make([]TaxBand, len(t.Bands))
	copy(bands, t.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Position < bands[j].Position })
	return bands
}

// Covers reports whether date falls inside [EffectiveFrom, EffectiveTo).
func (t *TaxLawTable) Covers(date time.Time) bool {
	if date.Before(t.EffectiveFrom) {
		return false
	}
	if t.EffectiveTo != nil && !date.Before(*t.EffectiveTo) {
		return false
	}
	return true
}
