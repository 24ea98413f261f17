package handlers

import (
	"net/http"

	"github.com/baharkarakas/hearthcloud/internal/api/httpx"
	"github.com/baharkarakas/hearthcloud/internal/apperr"
	"github.com/baharkarakas/hearthcloud/internal/middleware"
	"github.com/baharkarakas/hearthcloud/internal/services"
	"github.com/baharkarakas/hearthcloud/internal/session"
)

type AuthHandler struct {
	Svc      *services.AuthService
	Sessions *session.Manager
}

func NewAuthHandler(svc *services.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Sessions: sessions}
}

type registerReq struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
	AcceptTerms      bool   `json:"acceptTerms"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := h.Svc.Register(r.Context(), services.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
		AcceptTerms:      req.AcceptTerms,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := h.Sessions.Create(r.Context(), w, middleware.Session(r.Context()), u.ID, u.Username, session.DefaultLifetime); err != nil {
		fail(w, r, apperr.Internal("account created but login failed", err))
		return
	}
	httpx.WriteOK(w, http.StatusCreated, httpx.M{"message": "account created", "user": u})
}

type loginReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	lifetime := session.DefaultLifetime
	if req.RememberMe {
		lifetime = session.RememberLifetime
	}
	if _, err := h.Sessions.Create(r.Context(), w, middleware.Session(r.Context()), u.ID, u.Username, lifetime); err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "logged in", "user": u})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(r.Context(), w, middleware.Session(r.Context())); err != nil {
		fail(w, r, apperr.Internal("could not log out", err))
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "logged out"})
}

func (h *AuthHandler) RecoveryInit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	ch, rec, err := h.Svc.RecoveryInit(r.Context(), req.Email)
	if err != nil {
		fail(w, r, err)
		return
	}
	// restarting the flow drops any earlier verification
	if s := middleware.Session(r.Context()); s != nil && s.Recovery != rec {
		if _, err := h.Sessions.SaveRecovery(r.Context(), w, s, rec); err != nil {
			fail(w, r, err)
			return
		}
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{
		"securityQuestion": ch.SecurityQuestion,
		"userId":           ch.UserID,
	})
}

func (h *AuthHandler) RecoveryVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64  `json:"user_id"`
		UserIDAlias int64  `json:"userId"`
		Answer      string `json:"answer"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	// user_id is canonical; userId mirrors the init response
	uid := req.UserID
	if uid == 0 {
		uid = req.UserIDAlias
	}
	rec, err := h.Svc.RecoveryVerify(r.Context(), uid, req.Answer)
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := h.Sessions.SaveRecovery(r.Context(), w, middleware.Session(r.Context()), rec); err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "answer verified"})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	s := middleware.Session(r.Context())
	var current session.Recovery
	if s != nil {
		current = s.Recovery
	}
	rec, err := h.Svc.ChangePassword(r.Context(), current, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := h.Sessions.SaveRecovery(r.Context(), w, s, rec); err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{"message": "password updated"})
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	s := middleware.Session(r.Context())
	if !s.Authenticated() {
		httpx.WriteOK(w, http.StatusOK, httpx.M{"authenticated": false})
		return
	}
	httpx.WriteOK(w, http.StatusOK, httpx.M{
		"authenticated": true,
		"user":          httpx.M{"id": s.UserID, "username": s.Username},
	})
}
