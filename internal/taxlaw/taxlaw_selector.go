package taxlaw

import (
	"context"
	"time"

	taxlawerrors "github.com/gHoSTeCHs/shelfwiser-sub002/internal/taxlaw/errors"
)

// Selector resolves the single tax law table in force for a jurisdiction on a
// given date. The table is loaded fresh per computation and treated as an
// immutable value from there on.
type Selector struct {
	repo Repository
}

func NewSelector(repo Repository) *Selector {
	return &Selector{repo: repo}
}

func (s *Selector) SelectForDate(
	ctx context.Context,
	jurisdiction string,
	date time.Time,
) (*TaxLawTable, error) {
	tables, err := s.repo.FindByJurisdictionAndDate(ctx, jurisdiction, date)
	if err != nil {
		return nil, err
	}

	switch len(tables) {
	case 0:
		return nil, taxlawerrors.ErrNoApplicableTaxLaw
	case 1:
		table := tables[0]
		if err := table.Validate(); err != nil {
			return nil, taxlawerrors.ErrInvalidBandLayout
		}
		return &table, nil
	default:
		// Overlapping effective ranges break the versioning invariant.
		// Fatal data-integrity violation, never retried or auto-corrected.
		return nil, taxlawerrors.ErrAmbiguousTaxLaw
	}
}
