package http

import (
	"net/http"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/service"
	"github.com/dtroode/quidalert-auth/internal/validator"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=4096"`
}

type revokeAllResponse struct {
	Revoked int64 `json:"revoked"`
}

// Refresh handles POST /api/token/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	pair, err := h.tokens.Refresh(r.Context(), req.RefreshToken, service.ClientFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, apperrors.FlowToken, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(pair, ""))
}

// Revoke handles POST /api/token/revoke.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.tokens.Revoke(r.Context(), req.RefreshToken, service.ClientFromContext(r.Context())); err != nil {
		h.writeError(w, r, apperrors.FlowToken, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RevokeAll handles POST /api/sessions/revoke-all.
func (h *Handler) RevokeAll(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	n, err := h.tokens.RevokeAll(r.Context(), principal.AccountID, service.ClientFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, apperrors.FlowSession, err)
		return
	}
	writeJSON(w, http.StatusOK, revokeAllResponse{Revoked: n})
}
