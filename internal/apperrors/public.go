package apperrors

import (
	"errors"
	"net/http"
)

// Flow identifies an externally reachable operation. Pre-authentication
// flows collapse failures so that account state is not observable.
type Flow string

const (
	FlowRegister     Flow = "register"
	FlowLogin        Flow = "login"
	FlowResetRequest Flow = "reset_request"
	FlowReset        Flow = "reset_confirm"
	FlowToken        Flow = "token"
	FlowSession      Flow = "session"
)

// Public messages shown to clients.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgTwoFactorRequired  = "2FA required"
	MsgResetCodeNotValid  = "Reset code not valid"
	MsgTokenExpired       = "Token expired"
	MsgTokenInvalid       = "Token not valid"
	MsgPermissionDenied   = "Permission denied"
	MsgNotFound           = "Not found"
	MsgLocked             = "Account locked"
	MsgTooManyRequests    = "Too many requests"
	MsgInternal           = "Internal server error"
	MsgAccepted           = "If the data provided is valid, you will receive an email shortly"
)

// Public is the client-visible rendering of an error.
type Public struct {
	Status  int
	Message string
}

var (
	invalidCredentials = Public{http.StatusUnauthorized, MsgInvalidCredentials}
	resetNotValid      = Public{http.StatusBadRequest, MsgResetCodeNotValid}
	tokenExpired       = Public{http.StatusUnauthorized, MsgTokenExpired}
	tokenInvalid       = Public{http.StatusUnauthorized, MsgTokenInvalid}
	tooManyRequests    = Public{http.StatusTooManyRequests, MsgTooManyRequests}
	accepted           = Public{http.StatusAccepted, MsgAccepted}
	internal           = Public{http.StatusInternalServerError, MsgInternal}
)

var publicByFlow = map[Flow]map[Kind]Public{
	FlowLogin: {
		KindInvalidCredentials: invalidCredentials,
		KindInvalidCode:        invalidCredentials,
		KindExpired:            invalidCredentials,
		KindLocked:             invalidCredentials,
		KindTokenExpired:       invalidCredentials,
		KindTokenInvalid:       invalidCredentials,
		KindTwoFactorRequired:  {http.StatusUnauthorized, MsgTwoFactorRequired},
		KindTooManyRequests:    tooManyRequests,
	},
	FlowReset: {
		KindInvalidCredentials: resetNotValid,
		KindInvalidCode:        resetNotValid,
		KindExpired:            resetNotValid,
		KindLocked:             resetNotValid,
		KindNotFound:           resetNotValid,
		KindTooManyRequests:    tooManyRequests,
	},
	FlowResetRequest: {
		KindInvalidCredentials: accepted,
		KindLocked:             accepted,
		KindNotFound:           accepted,
		KindTooManyRequests:    accepted,
	},
	FlowRegister: {
		KindInvalidCredentials: accepted,
		KindNotFound:           accepted,
	},
	FlowToken: {
		KindTokenExpired:       tokenExpired,
		KindExpired:            tokenExpired,
		KindTokenInvalid:       tokenInvalid,
		KindInvalidCredentials: tokenInvalid,
		KindNotFound:           tokenInvalid,
		KindLocked:             tokenInvalid,
	},
	FlowSession: {
		KindTokenExpired:     tokenExpired,
		KindTokenInvalid:     tokenInvalid,
		KindLocked:           {http.StatusForbidden, MsgLocked},
		KindPermissionDenied: {http.StatusForbidden, MsgPermissionDenied},
		KindNotFound:         {http.StatusNotFound, MsgNotFound},
	},
}

// Resolve returns the public status and message for err within flow.
// Validation messages are passed through since they only describe the input.
func Resolve(flow Flow, err error) Public {
	kind := KindOf(err)
	if p, ok := publicByFlow[flow][kind]; ok {
		return p
	}
	var appErr *Error
	if kind == KindInvalidInput && errors.As(err, &appErr) {
		return Public{http.StatusBadRequest, appErr.Message}
	}
	return internal
}
