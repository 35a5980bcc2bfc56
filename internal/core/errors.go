package core

import "errors"

// Error codes for protocol errors reported by the transport.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
)

// Messages carried by failure events.
const (
	MsgPasswordMismatch    = "Passwords don't match."
	MsgInvalidRegistration = "Please provide a name, a valid email address and a password."
	MsgPasswordTooLong     = "Password must be at most 72 bytes long."
	MsgRegistrationFailed  = "Registration failed"
	MsgDuplicateEmail      = "This email is already registered."
	MsgIncorrectLogin      = "Username or password is incorrect."
	MsgTryAgainLater       = "Something went wrong! Please try again later."
	MsgGroupFailure        = "Something went wrong."
	MsgInvalidUser         = "User is not valid"
	MsgLogoutFailure       = "Something went wrong! Please try again after some time."
)

var (
	// ErrUnknownUser is returned when an action needs an identity that does not exist.
	ErrUnknownUser = errors.New("unknown user")
	// ErrHubClosed is returned when a session is registered after shutdown.
	ErrHubClosed = errors.New("hub closed")
)
