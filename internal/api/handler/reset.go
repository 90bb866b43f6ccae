package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/smartscholars/accounts/internal/api/request"
	"github.com/smartscholars/accounts/internal/api/response"
	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/services/reset"
	"github.com/smartscholars/accounts/internal/services/session"
)

// ResetHandler handles the password reset endpoints
type ResetHandler struct {
	resets   *reset.Service
	sessions *session.Service
	logger   *slog.Logger
}

// NewResetHandler creates a new reset handler
func NewResetHandler(resets *reset.Service, sessions *session.Service, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{
		resets:   resets,
		sessions: sessions,
		logger:   logger,
	}
}

// Request handles POST /api/v1/password-resets
func (h *ResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Identity == "" {
		WriteError(w, NewInvalidRequestError("identity is required"))
		return
	}

	// The token only travels through the delivery channel, never the response
	if _, err := h.resets.Issue(r.Context(), model.Identity(req.Identity)); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Message{
		Message: "Password reset link sent to your email. Please check your inbox.",
	})
}

// Check handles GET /api/v1/password-resets/{token}
func (h *ResetHandler) Check(w http.ResponseWriter, r *http.Request) {
	handle, err := h.resets.Redeem(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResetTokenFromHandle(handle))
}

// Complete handles POST /api/v1/password-resets/{token}
func (h *ResetHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	account, err := h.resets.Consume(r.Context(), mux.Vars(r)["token"], req.Password, req.ConfirmPassword)
	if err != nil {
		WriteError(w, err)
		return
	}

	if ended := h.sessions.EndAllFor(account.Identity); ended > 0 {
		h.logger.InfoContext(r.Context(), "sessions ended after password reset",
			slog.String("identity", string(account.Identity)),
			slog.Int("count", ended),
		)
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}
