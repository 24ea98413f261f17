package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/hearthcloud/internal/apperr"
)

type APIError struct {
	Success bool     `json:"success"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// M is a success payload; WriteOK adds "success": true.
type M map[string]any

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteOK(w http.ResponseWriter, status int, payload M) {
	if payload == nil {
		payload = M{}
	}
	payload["success"] = true
	WriteJSON(w, status, payload)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details []string) {
	WriteJSON(w, status, APIError{
		Code:    code,
		Message: msg,
		Errors:  details,
	})
}

// WriteAppError renders err with the status of its kind. Internal causes are
// logged, never sent.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindInternal {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "msg", ae.Message, "err", ae.Cause)
	}
	WriteJSON(w, ae.Status(), APIError{
		Code:    ae.Code,
		Message: ae.Message,
		Field:   ae.Field,
		Errors:  ae.Details,
	})
}

// DecodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("invalid request body")
	}
	return nil
}
