package http

import (
	"net/http"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/service"
	"github.com/dtroode/quidalert-auth/internal/validator"
)

type resetRequest struct {
	Email string `json:"email" validate:"required,max=128"`
}

type confirmResetRequest struct {
	Email    string `json:"email" validate:"required,max=128"`
	Code     string `json:"code" validate:"required,max=32"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.auth.Register(r.Context(), in, service.ClientFromContext(r.Context())); err != nil {
		h.writeError(w, r, apperrors.FlowRegister, err)
		return
	}
	writeMessage(w, http.StatusAccepted, apperrors.MsgAccepted)
}

// Activate handles GET /api/activate and renders a localized page.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.auth.Activate(r.Context(), q.Get("email"), q.Get("token"), service.ClientFromContext(r.Context()))
	if err != nil {
		h.logger.WithContext(r.Context()).Error("HTTP handler: activation failed", "error", err.Error())
		renderActivation(w, http.StatusInternalServerError, res)
		return
	}
	renderActivation(w, activationStatus(res.Result), res)
}

// Login handles POST /api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), in, service.ClientFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, apperrors.FlowLogin, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(res.Tokens, res.LoginToken))
}

// RequestReset handles POST /api/password/reset.
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.auth.RequestReset(r.Context(), req.Email, service.ClientFromContext(r.Context())); err != nil {
		h.writeError(w, r, apperrors.FlowResetRequest, err)
		return
	}
	writeMessage(w, http.StatusAccepted, apperrors.MsgAccepted)
}

// ConfirmReset handles POST /api/password/reset/confirm.
func (h *Handler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	in := service.ConfirmResetInput{Email: req.Email, Code: req.Code, Password: req.Password}
	if err := h.auth.ConfirmReset(r.Context(), in, service.ClientFromContext(r.Context())); err != nil {
		h.writeError(w, r, apperrors.FlowReset, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
