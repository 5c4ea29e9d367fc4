package taxlawerrors

import (
	"net/http"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/apperror"
)

var (
	ErrNoApplicableTaxLaw = apperror.New(
		apperror.CodeConfigError,
		"no tax law table covers the calculation date",
		http.StatusUnprocessableEntity,
	)
	ErrAmbiguousTaxLaw = apperror.New(
		apperror.CodeInvariantViolation,
		"multiple tax law tables cover the calculation date",
		http.StatusInternalServerError,
	)
	ErrInvalidBandLayout = apperror.New(
		apperror.CodeInvariantViolation,
		"tax bands are not contiguous and ordered",
		http.StatusInternalServerError,
	)
)
