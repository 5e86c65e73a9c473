package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/model"
)

var languageMatcher = language.NewMatcher([]language.Tag{language.English, language.Italian})

// requestLanguage picks en or it from Accept-Language.
func requestLanguage(r *http.Request) model.Language {
	_, idx := language.MatchStrings(languageMatcher, r.Header.Get("Accept-Language"))
	if idx == 1 {
		return model.LanguageIT
	}
	return model.LanguageEN
}

// Me handles GET /api/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	profile, err := h.users.Me(r.Context(), principal)
	if err != nil {
		h.writeError(w, r, apperrors.FlowSession, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetUser handles GET /api/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		if !principal.IsAdmin {
			h.writeError(w, r, apperrors.FlowSession, apperrors.PermissionDenied())
			return
		}
		h.writeError(w, r, apperrors.FlowSession, apperrors.NotFound(err))
		return
	}

	profile, err := h.users.Get(r.Context(), principal, id)
	if err != nil {
		h.writeError(w, r, apperrors.FlowSession, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Terms handles GET /api/terms.
func (h *Handler) Terms(w http.ResponseWriter, r *http.Request) {
	lang := requestLanguage(r)

	doc, err := h.terms.Get(r.Context(), lang)
	if err != nil {
		h.writeError(w, r, apperrors.FlowSession, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Language", string(lang))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
