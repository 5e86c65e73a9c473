package mail

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dtroode/quidalert-auth/internal/model"
)

type catalog struct {
	activationSubject string
	activationBody    string
	resetCodeSubject  string
	resetCodeBody     string
	resetDoneSubject  string
	resetDoneBody     string
	loginCodeSubject  string
	loginCodeBody     string
	loginDoneSubject  string
	loginDoneBody     string
}

var catalogs = map[model.Language]catalog{
	model.LanguageEN: {
		activationSubject: "Activate your account",
		activationBody: `Hello,

to activate your account click on the following link:

%s

If you haven't asked this mail message, you can ignore it.
`,
		resetCodeSubject: "Password reset verification code",
		resetCodeBody: `Hello,

you have requested a reset of your password.

Your verification code is:

%s

This code is valid for %d minutes.
If you haven't asked the reset, you can ignore this message.
`,
		resetDoneSubject: "Password change done",
		resetDoneBody: `Hello,

you have changed your password successfully.

If it wasn't you, we recommend to do a new password reset immediately (in the app, login page, "forgot password").

If the problem persists, please contact the competent territorial authority.
`,
		loginCodeSubject: "Login verification code",
		loginCodeBody: `Hello,

a login to your account has been requested.

Your verification code is:

%s

This code is valid for %d minutes.
If it wasn't you, we recommend to change your password immediately.
`,
		loginDoneSubject: "Successful login notification",
		loginDoneBody: `Hello,

you have logged in successfully.

If it wasn't you, we recommend to change your password immediately (in the app, login page, "forgot password").

If the problem persists, please contact the competent territorial authority.
`,
	},
	model.LanguageIT: {
		activationSubject: "Attiva il tuo account",
		activationBody: `Ciao,

per attivare il tuo account clicca sul seguente link:

%s

Se non hai richiesto questa registrazione, puoi ignorare questa email.
`,
		resetCodeSubject: "Codice di verifica del reset password",
		resetCodeBody: `Ciao,

hai richiesto il reset della password.

Il tuo codice di verifica è:

%s

Questo codice è valido per %d minuti.
Se non hai richiesto tu il reset, puoi ignorare questo messaggio.
`,
		resetDoneSubject: "Modifica password effettuata",
		resetDoneBody: `Ciao,

hai modificato la password con successo.

Se non sei stato tu, si raccomanda di effettuare al più presto un nuovo reset della password (nell'app, schermata di login, "password dimenticata").

Se il problema persiste, contattare l'autorità territoriale competente.
`,
		loginCodeSubject: "Codice di verifica per l'accesso",
		loginCodeBody: `Ciao,

è stato richiesto l'accesso (login) al tuo account.

Il tuo codice di verifica è:

%s

Questo codice è valido per %d minuti.
Se non sei stato tu, si raccomanda di modificare al più presto la password.
`,
		loginDoneSubject: "Notifica di accesso (login) effettuato con successo",
		loginDoneBody: `Ciao,

hai effettuato l'accesso (login) con successo.

Se non sei stato tu, si raccomanda di modificare al più presto la password (nell'app, schermata di login, "password dimenticata").

Se il problema persiste, contattare l'autorità territoriale competente.
`,
	},
}

func lookup(lang model.Language) catalog {
	if c, ok := catalogs[lang]; ok {
		return c
	}
	return catalogs[model.LanguageEN]
}

// Composer renders localized messages.
type Composer struct {
	publicURL string
}

func NewComposer(publicURL string) *Composer {
	return &Composer{publicURL: strings.TrimRight(publicURL, "/")}
}

// ActivationURL builds the link embedded in activation mail.
func (c *Composer) ActivationURL(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return c.publicURL + "/api/activate?" + q.Encode()
}

func (c *Composer) Activation(lang model.Language, to, token string) model.Mail {
	cat := lookup(lang)
	return model.Mail{
		To:      to,
		Subject: cat.activationSubject,
		Body:    fmt.Sprintf(cat.activationBody, c.ActivationURL(to, token)),
	}
}

func (c *Composer) ResetCode(lang model.Language, to, code string, ttl time.Duration) model.Mail {
	cat := lookup(lang)
	return model.Mail{
		To:      to,
		Subject: cat.resetCodeSubject,
		Body:    fmt.Sprintf(cat.resetCodeBody, code, int(ttl.Minutes())),
	}
}

func (c *Composer) ResetDone(lang model.Language, to string) model.Mail {
	cat := lookup(lang)
	return model.Mail{To: to, Subject: cat.resetDoneSubject, Body: cat.resetDoneBody}
}

func (c *Composer) LoginCode(lang model.Language, to, code string, ttl time.Duration) model.Mail {
	cat := lookup(lang)
	return model.Mail{
		To:      to,
		Subject: cat.loginCodeSubject,
		Body:    fmt.Sprintf(cat.loginCodeBody, code, int(ttl.Minutes())),
	}
}

func (c *Composer) LoginSucceeded(lang model.Language, to string) model.Mail {
	cat := lookup(lang)
	return model.Mail{To: to, Subject: cat.loginDoneSubject, Body: cat.loginDoneBody}
}
