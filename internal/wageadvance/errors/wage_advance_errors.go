package wageadvanceerrors

import (
	"net/http"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/apperror"
)

var (
	ErrAdvanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"wage advance not found",
		http.StatusNotFound,
	)
	ErrInvalidAdvanceState = apperror.New(
		apperror.CodeInvalidState,
		"wage advance is not in a state that allows this operation",
		http.StatusConflict,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"advance amount must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidInstallments = apperror.New(
		apperror.CodeInvalidInput,
		"installment count must be at least 1",
		http.StatusBadRequest,
	)
	ErrOutstandingAdvance = apperror.New(
		apperror.CodeConflict,
		"employee already has an outstanding wage advance",
		http.StatusConflict,
	)
)
