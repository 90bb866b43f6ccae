package handler

import (
	"errors"
	"net/http"

	"github.com/smartscholars/accounts/internal/api/middleware"
	"github.com/smartscholars/accounts/internal/api/request"
	"github.com/smartscholars/accounts/internal/api/response"
	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/services/credential"
	"github.com/smartscholars/accounts/internal/services/session"
)

// AccountHandler handles registration, login and the authenticated account endpoints
type AccountHandler struct {
	credentials *credential.Service
	sessions    *session.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(credentials *credential.Service, sessions *session.Service) *AccountHandler {
	return &AccountHandler{
		credentials: credentials,
		sessions:    sessions,
	}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	account, err := h.credentials.Register(r.Context(), model.Identity(req.Identity), req.DisplayName, req.Password, req.ConfirmPassword)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromModel(account))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Identity == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("identity and password are required"))
		return
	}

	account, err := h.credentials.Verify(r.Context(), model.Identity(req.Identity), req.Password)
	if errors.Is(err, model.ErrNotFound) {
		// Unknown identity and wrong password look the same from outside
		err = model.ErrInvalidCredential
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, err := h.sessions.Start(account)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(account, sess))
}

// Logout handles POST /api/v1/accounts/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		h.sessions.End(sess.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/accounts/me
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	account, err := h.credentials.Get(r.Context(), identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}

// ChangePassword handles POST /api/v1/accounts/me/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	account, err := h.credentials.ChangePassword(r.Context(), identity, req.Password, req.ConfirmPassword)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}

// UpgradePremium handles POST /api/v1/accounts/me/premium.
// Payment is handled upstream; this only records the upgrade.
func (h *AccountHandler) UpgradePremium(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	account, err := h.credentials.SetPremium(r.Context(), identity, true)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}
