package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubapi"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// writeError maps a service error to a status code and an ErrorResponse.
// Unrecognised errors are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := errorResponse(r, err)
	if code == http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	}
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="club"`)
	}
	httpx.WriteJSON(w, code, body)
}

func errorResponse(r *http.Request, err error) (int, clubapi.ErrorResponse) {
	desc := err.Error()
	switch {
	case errors.Is(err, policy.ErrPermissionDenied):
		if principalFrom(r.Context()).IsAnonymous() {
			return http.StatusUnauthorized, clubapi.ErrorResponse{Error: clubapi.ErrorCodeUnauthorized, ErrorDescription: "sign in required"}
		}
		return http.StatusForbidden, clubapi.ErrorResponse{Error: clubapi.ErrorCodePermissionDenied, ErrorDescription: desc}

	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, clubapi.ErrorResponse{Error: clubapi.ErrorCodeValidation, ErrorDescription: desc}

	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest, clubapi.ErrorResponse{Error: clubapi.ErrorCodeInvalidToken, ErrorDescription: desc}

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, clubapi.ErrorResponse{Error: clubapi.ErrorCodeNotFound, ErrorDescription: desc}

	case errors.Is(err, service.ErrAlreadyActive):
		return http.StatusConflict, clubapi.ErrorResponse{Error: clubapi.ErrorCodeAlreadyActive, ErrorDescription: desc}

	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrBootstrapAlready):
		return http.StatusConflict, clubapi.ErrorResponse{Error: clubapi.ErrorCodeConflict, ErrorDescription: desc}

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, clubapi.ErrorResponse{Error: clubapi.ErrorCodeInvalidCredentials, ErrorDescription: "invalid username or password"}

	case errors.Is(err, service.ErrBootstrapUnauthorized):
		return http.StatusUnauthorized, clubapi.ErrorResponse{Error: clubapi.ErrorCodeUnauthorized, ErrorDescription: desc}
	}

	return http.StatusInternalServerError, clubapi.ErrorResponse{Error: clubapi.ErrorCodeServerError, ErrorDescription: "internal error"}
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, clubapi.ErrorResponse{
		Error:            clubapi.ErrorCodeInvalidRequest,
		ErrorDescription: desc,
	})
}

// decode reads a JSON body, answering 400 itself when it cannot.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		writeBadRequest(w, err.Error())
		return false
	}
	return true
}

// warningText renders a non-fatal warning for a response body.
func warningText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
