package services

import (
	"github.com/cpphub/hubclient/internal/client/models"
)

// User-facing messages shared by several operations.
const (
	MsgNetworkError    = "Network error or server unavailable."
	MsgResetCodeSent   = "If an account with that email or username exists, a password reset code has been sent."
	MsgSessionExpired  = "Your session has expired. Please log in again."
	MsgNoToken         = "No authentication token found."
	MsgPrivateProfile  = "This profile is private."
	MsgLoggedOut       = "You have been logged out."
	MsgSessionNotSaved = "Signed in, but the session could not be saved locally."
)

// Result is the uniform outcome of every gateway operation. Errors holds
// field-scoped validation failures, from the client or the backend.
type Result struct {
	Success bool
	Message string
	Errors  models.FieldErrors
}

type VerifyCodeResult struct {
	Result
	// TempToken is the short-lived continuation token of the reset flow,
	// not a session token.
	TempToken string
}

type ProfileResult struct {
	Result
	User *models.User
}

type CurrentUserResult struct {
	Result
	User *models.UserPayload
	// Rejected is true when the backend answered and refused the token, as
	// opposed to being unreachable.
	Rejected bool
}

type PublicProfileResult struct {
	Result
	Profile *models.PublicProfile
}

type VerifyEmailStatus string

const (
	EmailVerified        VerifyEmailStatus = "verified"
	EmailAlreadyVerified VerifyEmailStatus = "already_verified"
	EmailVerifyFailed    VerifyEmailStatus = "failed"
)

type VerifyEmailResult struct {
	Result
	Status VerifyEmailStatus
}

func failure(msg string, errs models.FieldErrors) Result {
	return Result{Success: false, Message: msg, Errors: errs}
}

func success(msg, fallback string) Result {
	if msg == "" {
		msg = fallback
	}
	return Result{Success: true, Message: msg}
}
