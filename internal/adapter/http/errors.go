package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	appDomain "coopvest-backend/internal/domain/application"
	featureDomain "coopvest-backend/internal/domain/feature"
	guarantorDomain "coopvest-backend/internal/domain/guarantor"
	loanDomain "coopvest-backend/internal/domain/loan"
	typeDomain "coopvest-backend/internal/domain/loantype"
	qrDomain "coopvest-backend/internal/domain/qrtoken"
	userDomain "coopvest-backend/internal/domain/user"
	ucApp "coopvest-backend/internal/usecase/application"
	ucGuarantor "coopvest-backend/internal/usecase/guarantor"
	ucLoan "coopvest-backend/internal/usecase/loan"
	ucQR "coopvest-backend/internal/usecase/qr"
)

var notFoundErrs = []error{
	loanDomain.ErrNotFound,
	appDomain.ErrNotFound,
	guarantorDomain.ErrNotFound,
	guarantorDomain.ErrInvitationNotFound,
	qrDomain.ErrNotFound,
	typeDomain.ErrNotFound,
	featureDomain.ErrNotFound,
	userDomain.ErrNotFound,
}

var forbiddenErrs = []error{
	ucLoan.ErrUnauthorized,
	ucApp.ErrUnauthorized,
	ucGuarantor.ErrUnauthorized,
	ucGuarantor.ErrFeatureDisabled,
	ucQR.ErrUnauthorized,
	guarantorDomain.ErrNotLoanGuarantor,
}

var conflictErrs = []error{
	loanDomain.ErrInvalidTransition,
	loanDomain.ErrAlreadyApproved,
	loanDomain.ErrAlreadyDisbursed,
	loanDomain.ErrNotActive,
	loanDomain.ErrGuarantorRequirementNotMet,
	appDomain.ErrInvalidState,
	appDomain.ErrImmutableState,
	guarantorDomain.ErrDuplicateInvitation,
	guarantorDomain.ErrAlreadyResponded,
	ucGuarantor.ErrLoanNotOpen,
	qrDomain.ErrAlreadyProcessed,
	qrDomain.ErrTokenExpired,
	qrDomain.ErrTokenNotActive,
	qrDomain.ErrInvalidLoanState,
}

var unprocessableErrs = []error{
	ucLoan.ErrValidation,
	ucLoan.ErrKYCRequired,
	ucLoan.ErrReasonRequired,
	ucApp.ErrValidation,
	ucApp.ErrAmountOutOfRange,
	ucApp.ErrReasonRequired,
	appDomain.ErrNotEligible,
	ucGuarantor.ErrValidation,
	ucGuarantor.ErrSelfGuarantee,
	guarantorDomain.ErrRejectionNeedsReason,
	qrDomain.ErrDurationOutOfRange,
}

func matchesAny(err error, list []error) bool {
	for _, e := range list {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// statusFor maps domain and usecase errors onto HTTP codes. Anything
// unrecognized is a 500; handlers never leak raw internals beyond the
// error message of a known sentinel.
func statusFor(err error) int {
	switch {
	case matchesAny(err, notFoundErrs):
		return http.StatusNotFound
	case matchesAny(err, forbiddenErrs):
		return http.StatusForbidden
	case matchesAny(err, conflictErrs):
		return http.StatusConflict
	case matchesAny(err, unprocessableErrs):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
