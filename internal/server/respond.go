package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	sferrors "github.com/matzehuels/spaceforge/pkg/errors"
)

type errorBody struct {
	Code    sferrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps coded errors onto HTTP statuses. Uncoded errors are
// reported as internal without leaking their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := sferrors.GetCode(err)
	status := statusFor(code)
	body := errorBody{Code: code, Message: sferrors.UserMessage(err)}
	if code == "" || status == http.StatusInternalServerError {
		loggerFrom(r).Error("request failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		body = errorBody{Code: sferrors.ErrCodeInternal, Message: "internal error"}
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, body)
}

func statusFor(code sferrors.Code) int {
	switch code {
	case sferrors.ErrCodeInvalidInput, sferrors.ErrCodeInvalidShape, sferrors.ErrCodeInvalidCanvas,
		sferrors.ErrCodeInvalidIndex, sferrors.ErrCodeInvalidFormat, sferrors.ErrCodeInvalidName:
		return http.StatusBadRequest
	case sferrors.ErrCodeNotFound, sferrors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case sferrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case sferrors.ErrCodeStorage, sferrors.ErrCodeNetwork:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func notFoundRoute(r *http.Request) error {
	return sferrors.New(sferrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
