package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/models"
	"github.com/marmos91/gridaccounts/pkg/provisioning"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// decodeJSONBody decodes a JSON request body into v. On failure a 400
// problem is written and false is returned.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// scopeParam returns the scope query parameter, defaulting to the grid-wide
// scope.
func scopeParam(r *http.Request) string {
	if s := strings.TrimSpace(r.URL.Query().Get("scope")); s != "" {
		return s
	}
	return models.ZeroID
}

// writeError maps a domain error to a problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *provisioning.ValidationError
	switch {
	case errors.As(err, &verr):
		UnprocessableEntity(w, "Registration is invalid", verr.Messages)
	case errors.Is(err, models.ErrDuplicateAccount):
		Conflict(w, "Account already exists")
	case errors.Is(err, provisioning.ErrNotPending):
		Conflict(w, "Account is not pending approval")
	case errors.Is(err, models.ErrAccountNotFound):
		NotFound(w, "Account not found")
	case errors.Is(err, models.ErrMappingNotFound):
		NotFound(w, "Mapping not found")
	case errors.Is(err, models.ErrMissingPrincipal),
		errors.Is(err, mapping.ErrUnsupportedField),
		errors.Is(err, mapping.ErrFieldValueMismatch):
		BadRequest(w, err.Error())
	default:
		logger.ErrorCtx(r.Context(), "API request failed", logger.KeyPath, r.URL.Path, logger.KeyError, err)
		InternalServerError(w, "Internal error")
	}
}

// errorStrings renders warnings for a response body.
func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

// publicAccount returns a copy of account safe to return to clients.
func publicAccount(account *models.Account) *models.Account {
	if account == nil {
		return nil
	}
	out := account.Clone()
	delete(out.ServiceURLs, models.ServiceURLPassword)
	return out
}
