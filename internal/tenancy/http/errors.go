package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/apierror"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/validator"
)

// unavailableRetryAfter is the Retry-After hint, in seconds, sent with 503s.
const unavailableRetryAfter = 1

// publicErrors are the service errors whose text is safe to show callers.
// More specific errors come first.
var publicErrors = []error{
	service.ErrEmailTaken,
	service.ErrInvalidCredentials,
	service.ErrInvalidRefreshToken,
	service.ErrInvalidAccessToken,
	service.ErrRefreshTokenRevoked,
	service.ErrRefreshTokenExpired,
	service.ErrRefreshTokenReuse,
	service.ErrUserNotFound,
	service.ErrNotTenantMember,
	service.ErrInsufficientRole,
	service.ErrInvalidRole,
	service.ErrSlugTaken,
	service.ErrInvalidSlug,
	service.ErrTenantNotFound,
	service.ErrAlreadyMember,
	service.ErrInviteNotFound,
	service.ErrInviteNotPending,
	service.ErrInviteExpired,
	service.ErrInviteEmailMismatch,
}

// toAPIError maps a service error onto the HTTP error envelope by kind.
func toAPIError(err error) *apierror.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apierror.ValidationFailed(verrs).WithError(err)
	}

	msg := publicMessage(err)
	switch {
	case errors.Is(err, service.ErrUnavailable):
		return apierror.ServiceUnavailable(unavailableRetryAfter).WithError(err)
	case errors.Is(err, service.ErrConflict):
		return apierror.Conflict(msg).WithError(err)
	case errors.Is(err, service.ErrUnauthenticated):
		return apierror.Unauthorized(msg).WithError(err)
	case errors.Is(err, service.ErrForbidden):
		return apierror.Forbidden(msg).WithError(err)
	case errors.Is(err, service.ErrNotFound):
		return apierror.New(http.StatusNotFound, apierror.CodeNotFound, msg).WithError(err)
	case errors.Is(err, service.ErrBadRequest):
		return apierror.BadRequest(msg).WithError(err)
	default:
		return apierror.InternalError(err)
	}
}

// publicMessage returns the specific error text without its kind prefix,
// or a generic message for its kind.
func publicMessage(err error) string {
	for _, pe := range publicErrors {
		if errors.Is(err, pe) {
			_, msg, _ := strings.Cut(pe.Error(), ": ")
			return msg
		}
	}
	switch {
	case errors.Is(err, service.ErrBadRequest):
		// Plain bad requests carry their reason after the kind.
		if _, msg, ok := strings.Cut(err.Error(), ": "); ok {
			return msg
		}
		return "Bad request"
	case errors.Is(err, service.ErrConflict):
		return "Conflict"
	case errors.Is(err, service.ErrNotFound):
		return "Resource not found"
	default:
		return ""
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, toAPIError(err))
}

func apiNotFound() *apierror.Error {
	return apierror.NotFound("Route")
}
