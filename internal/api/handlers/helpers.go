package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
	"github.com/baharkarakas/hearthcloud/internal/apperr"
	"github.com/baharkarakas/hearthcloud/internal/middleware"
)

// pathID parses a positive numeric URL param. Anything else is reported as
// a missing entity.
func pathID(r *http.Request, param, code, msg string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(code, msg)
	}
	return id, nil
}

// currentUser is only called behind RequireAuthenticated.
func currentUser(r *http.Request) int64 {
	id, _ := middleware.UserID(r.Context())
	return id
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteAppError(w, r, err)
}
