package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
	"github.com/dtroode/quidalert-auth/internal/service"
	"github.com/dtroode/quidalert-auth/internal/validator"
)

// AuthService is the pre-authentication account lifecycle.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput, client service.Client) error
	Activate(ctx context.Context, email, token string, client service.Client) (service.Activation, error)
	Login(ctx context.Context, in service.LoginInput, client service.Client) (service.LoginResult, error)
	RequestReset(ctx context.Context, email string, client service.Client) error
	ConfirmReset(ctx context.Context, in service.ConfirmResetInput, client service.Client) error
}

// TokenService manages refresh sessions and resolves access tokens.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string, client service.Client) (model.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string, client service.Client) error
	RevokeAll(ctx context.Context, accountID uuid.UUID, client service.Client) (int64, error)
	Authenticate(ctx context.Context, accessToken string) (model.Principal, error)
}

// UserService serves profile lookups.
type UserService interface {
	Me(ctx context.Context, principal model.Principal) (service.Profile, error)
	Get(ctx context.Context, principal model.Principal, id uuid.UUID) (service.Profile, error)
}

// TermsService serves the terms of service document.
type TermsService interface {
	Get(ctx context.Context, lang model.Language) ([]byte, error)
}

// Handler serves the public HTTP API.
type Handler struct {
	auth   AuthService
	tokens TokenService
	users  UserService
	terms  TermsService
	logger *logger.Logger
}

func NewHandler(auth AuthService, tokens TokenService, users UserService, terms TermsService, logger *logger.Logger) *Handler {
	return &Handler{auth: auth, tokens: tokens, users: users, terms: terms, logger: logger}
}

type messageResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	LoginToken   string `json:"login_token,omitempty"`
	TokenType    string `json:"token_type"`
}

func newTokenResponse(pair model.TokenPair, loginToken string) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		LoginToken:   loginToken,
		TokenType:    "bearer",
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError renders err the way flow exposes it and logs internal causes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, flow apperrors.Flow, err error) {
	public := apperrors.Resolve(flow, err)
	if public.Status >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).Error("HTTP handler: request failed",
			"path", r.URL.Path,
			"error", err.Error())
	}

	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, public.Status, messageResponse{Message: public.Message, Fields: ve.Fields()})
		return
	}
	writeMessage(w, public.Status, public.Message)
}

// writeDecodeError reports a malformed or oversized body, or failed field
// validation.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: ve.Error(), Fields: ve.Fields()})
		return
	}
	writeMessage(w, http.StatusBadRequest, "Invalid request body")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
