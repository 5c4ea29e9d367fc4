package paysliperrors

import (
	"net/http"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/shared/apperror"
)

var (
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrPayslipCancelled = apperror.New(
		apperror.CodeInvalidState,
		"payslip has been cancelled",
		http.StatusConflict,
	)
	ErrAlreadyCancelled = apperror.New(
		apperror.CodeInvalidState,
		"payslip is already cancelled",
		http.StatusConflict,
	)
	ErrCancelReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a cancellation reason is required",
		http.StatusBadRequest,
	)
)
