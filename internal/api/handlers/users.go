package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
	"github.com/baharkarakas/hearthcloud/internal/services"
	"github.com/baharkarakas/hearthcloud/internal/session"
)

type UserHandler struct {
	Svc      *services.UserService
	Sessions *session.Manager
}

func NewUserHandler(svc *services.UserService, sessions *session.Manager) *UserHandler {
	return &UserHandler{Svc: svc, Sessions: sessions}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Profile(r.Context(), currentUser(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"user": p})
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	uid := currentUser(r)
	if err := h.Svc.DeleteAccount(r.Context(), uid, req.Password); err != nil {
		fail(w, r, err)
		return
	}
	// the account is gone either way; a stale session fails auth on next use
	if err := h.Sessions.DestroyUser(r.Context(), w, uid); err != nil {
		slog.ErrorContext(r.Context(), "destroy sessions after account delete", "user_id", uid, "err", err)
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "account deleted"})
}
