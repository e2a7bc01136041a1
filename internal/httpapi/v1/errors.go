package v1

import (
	"errors"
	"net/http"

	"github.com/tinoosan/bank/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func unauthorized(w http.ResponseWriter) {
	writeErr(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
}

// writeDomainErr maps service errors to transport responses. Storage failures
// stay opaque to the caller.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalid):
		writeErr(w, http.StatusUnprocessableEntity, err.Error(), "validation_error")
	case errors.Is(err, errs.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found", "not_found")
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, err.Error(), "conflict")
	case errors.Is(err, errs.ErrInsufficientFunds):
		writeErr(w, http.StatusConflict, err.Error(), "insufficient_funds")
	case errors.Is(err, errs.ErrUnauthorized):
		unauthorized(w)
	case errors.Is(err, errs.ErrStorage):
		writeErr(w, http.StatusInternalServerError, "storage failure", "storage_error")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error", "")
	}
}
