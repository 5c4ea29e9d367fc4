package deductionerrors

import (
	"net/http"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/apperror"
)

var (
	ErrDeductionTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"deduction type not found",
		http.StatusNotFound,
	)
	ErrDeductionCodeExists = apperror.New(
		apperror.CodeConflict,
		"a deduction type with this code already exists",
		http.StatusConflict,
	)
	ErrInvalidCalcKind = apperror.New(
		apperror.CodeInvalidInput,
		"calculation kind must be FIXED or PERCENTAGE",
		http.StatusBadRequest,
	)
	ErrInvalidCalcBase = apperror.New(
		apperror.CodeInvalidInput,
		"calculation base must be GROSS, BASIC, TAXABLE or PENSIONABLE",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"rate must be a non-negative decimal",
		http.StatusBadRequest,
	)
	ErrMandatoryUnresolvable = apperror.New(
		apperror.CodeConfigError,
		"a mandatory deduction cannot resolve an amount",
		http.StatusUnprocessableEntity,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"deduction amounts cannot be negative",
		http.StatusBadRequest,
	)
)
