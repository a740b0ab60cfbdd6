package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/tenancy/pkg/apierror"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/validator"
)

// decodeBody decodes and validates a JSON body into dst. On failure it
// writes the error response and returns false. An empty body is only
// accepted when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst any, allowEmpty bool) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			httpx.WriteError(w, r, badJSON())
			return false
		}
	}
	if err := v.Validate(dst); err != nil {
		writeServiceError(w, r, err)
		return false
	}
	return true
}

// requireUser returns the authenticated subject or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, apierror.Unauthorized(""))
	}
	return userID, ok
}

func badJSON() *apierror.Error {
	return apierror.BadRequest("Invalid JSON body")
}
