package http

import (
	"html/template"
	"net/http"

	"github.com/dtroode/quidalert-auth/internal/model"
	"github.com/dtroode/quidalert-auth/internal/service"
)

type activationText struct {
	Title   string
	Message string
}

var activationTexts = map[model.Language]map[service.ActivationResult]activationText{
	model.LanguageEN: {
		service.ActivationDone:          {"Activation done successfully", "Activation done successfully. Now you can login using the app"},
		service.ActivationAlreadyActive: {"User already active", "User already active. You can login using the app"},
		service.ActivationExpired:       {"Activation expired", "Activation code expired, retry account registration"},
		service.ActivationNotValid:      {"Activation code not valid", "Activation code not valid"},
	},
	model.LanguageIT: {
		service.ActivationDone:          {"Attivazione completata con successo", "Attivazione completata con successo. Ora puoi fare l'accesso (login) mediante app"},
		service.ActivationAlreadyActive: {"Utente già attivato", "Utente già attivato, puoi fare l'accesso (login) tramite app"},
		service.ActivationExpired:       {"Attivazione scaduta", "Codice di attivazione scaduto, ritenta la registrazione tramite app"},
		service.ActivationNotValid:      {"Codice di attivazione non valido", "Codice di attivazione non valido"},
	},
}

var activationPage = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 32rem; margin: 4rem auto; padding: 0 1rem; }
.success { color: #1b5e20; }
.warning { color: #e65100; }
.error { color: #b71c1c; }
</style>
</head>
<body>
<h1 class="{{.Class}}">{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

type activationView struct {
	Lang    string
	Class   string
	Title   string
	Message string
}

func activationStatus(res service.ActivationResult) int {
	switch res {
	case service.ActivationDone, service.ActivationAlreadyActive:
		return http.StatusOK
	case service.ActivationExpired:
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}

func activationClass(res service.ActivationResult) string {
	switch res {
	case service.ActivationDone:
		return "success"
	case service.ActivationAlreadyActive:
		return "warning"
	default:
		return "error"
	}
}

func renderActivation(w http.ResponseWriter, status int, a service.Activation) {
	texts, ok := activationTexts[a.Language]
	if !ok {
		texts = activationTexts[model.LanguageEN]
	}
	text := texts[a.Result]

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = activationPage.Execute(w, activationView{
		Lang:    string(a.Language),
		Class:   activationClass(a.Result),
		Title:   text.Title,
		Message: text.Message,
	})
}
