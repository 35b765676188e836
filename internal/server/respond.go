package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Error: msg})
}

// writeError maps err to a status and writes the error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	jsonError(w, status, string(code), errors.UserMessage(err))
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidDimension,
		errors.ErrCodeOutOfBounds,
		errors.ErrCodeInvalidName,
		errors.ErrCodeHeaderNotFound:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCapacityExceeded,
		errors.ErrCodeOccupiedTarget,
		errors.ErrCodeMinimumSize,
		errors.ErrCodeNoGrid,
		errors.ErrCodeGridExists,
		errors.ErrCodeItemExists,
		errors.ErrCodeCorruptState:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// decode reads a JSON request body into v.
func decode(r *http.Request, w http.ResponseWriter, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
