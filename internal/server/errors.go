package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/archival"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
	ratedomain "github.com/resellhq/tldpricing/internal/exchangerate/domain"
	margindomain "github.com/resellhq/tldpricing/internal/margin/domain"
	"github.com/resellhq/tldpricing/internal/operation"
	quotedomain "github.com/resellhq/tldpricing/internal/quote/domain"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	"github.com/resellhq/tldpricing/internal/schedule"
	tlddomain "github.com/resellhq/tldpricing/internal/tld/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware turns the last recorded error into a JSON response
// once the handler chain finishes without writing one itself.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: "validation error",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Code:    err.Error(),
			Message: "resource not found",
		}
	case errors.Is(err, schedule.ErrPolicyViolation):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "policy_violation",
			Code:    err.Error(),
			Message: "schedule policy violation",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflicting interval state",
		}
	case errors.Is(err, ratedomain.ErrConversionUnavailable):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "conversion_unavailable",
			Code:    err.Error(),
			Message: "no exchange rate covers the requested conversion",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidRequest,
		archival.ErrUnknownFamily,
		operation.ErrInvalidOperation,
		tlddomain.ErrInvalidName,
		tlddomain.ErrInvalidID,
		tlddomain.ErrDuplicate,
		registrardomain.ErrInvalidName,
		registrardomain.ErrInvalidCode,
		registrardomain.ErrInvalidID,
		registrardomain.ErrInvalidTld,
		registrardomain.ErrDuplicate,
		registrardomain.ErrDuplicateRelation,
		costdomain.ErrInvalidRegistrarTld,
		costdomain.ErrInvalidCurrency,
		costdomain.ErrInvalidAmount,
		costdomain.ErrInvalidEffectiveTo,
		costdomain.ErrInvalidID,
		salesdomain.ErrInvalidTld,
		salesdomain.ErrInvalidCurrency,
		salesdomain.ErrInvalidAmount,
		salesdomain.ErrInvalidPromotion,
		salesdomain.ErrInvalidEffectiveTo,
		salesdomain.ErrInvalidID,
		discountdomain.ErrInvalidReseller,
		discountdomain.ErrInvalidTld,
		discountdomain.ErrInvalidKind,
		discountdomain.ErrInvalidValue,
		discountdomain.ErrInvalidCurrency,
		discountdomain.ErrInvalidEffectiveTo,
		discountdomain.ErrInvalidID,
		ratedomain.ErrInvalidCurrency,
		ratedomain.ErrInvalidRate,
		ratedomain.ErrInvalidExpiry,
		quotedomain.ErrInvalidTld,
		quotedomain.ErrInvalidOperation,
		quotedomain.ErrInvalidYears,
		margindomain.ErrInvalidTld,
		margindomain.ErrInvalidOperation,
		margindomain.ErrInvalidRegistrar,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	for _, sentinel := range []error{
		tlddomain.ErrNotFound,
		registrardomain.ErrNotFound,
		registrardomain.ErrRelationNotFound,
		registrardomain.ErrNoActiveRegistrar,
		costdomain.ErrNotFound,
		salesdomain.ErrNotFound,
		discountdomain.ErrNotFound,
		quotedomain.ErrPricingNotConfigured,
		gorm.ErrRecordNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isConflictError(err error) bool {
	for _, sentinel := range []error{
		costdomain.ErrConflict,
		costdomain.ErrEffectiveOverlap,
		salesdomain.ErrConflict,
		salesdomain.ErrEffectiveOverlap,
		discountdomain.ErrConflict,
		discountdomain.ErrEffectiveOverlap,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
