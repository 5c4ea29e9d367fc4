package payrunerrors

import (
	"net/http"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/apperror"
)

var (
	ErrPayRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"pay run not found",
		http.StatusNotFound,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"pay run cannot move to the requested status from its current status",
		http.StatusConflict,
	)
	ErrOverlappingPeriod = apperror.New(
		apperror.CodeConflict,
		"a pay run already covers part of this period",
		http.StatusConflict,
	)
	ErrRunHasErrors = apperror.New(
		apperror.CodeInvalidState,
		"pay run has items in error; resolve them or approve with allow_errors",
		http.StatusConflict,
	)
	ErrNotDraft = apperror.New(
		apperror.CodeInvalidState,
		"only draft pay runs can be deleted",
		http.StatusConflict,
	)
	ErrInvalidFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status or period filter is not valid",
		http.StatusBadRequest,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"no active employees to include in the pay run",
		http.StatusUnprocessableEntity,
	)
	ErrAggregateMismatch = apperror.New(
		apperror.CodeInvariantViolation,
		"pay run aggregates do not match item totals",
		http.StatusInternalServerError,
	)
)
