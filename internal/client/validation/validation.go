// Package validation checks form input before anything is sent to the
// backend. Every validator returns field-scoped errors; an empty result means
// the form may be submitted.
package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/cpphub/hubclient/internal/client/models"
)

const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	ResetCodeLength   = 6
	MaxBioLength      = 1000
)

// Field names match the backend's JSON keys so server and client errors
// can be shown side by side.
const (
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldName                 = "name"
	FieldUsername             = "username"
	FieldPasswordConfirmation = "password_confirmation"
	FieldEmailOrUsername      = "emailOrUsername"
	FieldResetCode            = "code"
	FieldNewPassword          = "newPassword"
	FieldConfirmNewPassword   = "confirmPassword"
	FieldBio                  = "bio"
	FieldProfilePicture       = "profilePicture"
	FieldToken                = "token"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

func Login(email, password string) models.FieldErrors {
	var errs models.FieldErrors
	checkEmail(&errs, email)
	checkPassword(&errs, FieldPassword, password, "Password")
	return errs
}

func Register(name, username, email, password, confirmation string) models.FieldErrors {
	var errs models.FieldErrors
	if name == "" {
		errs.Add(FieldName, "Full Name is required.")
	}
	switch {
	case username == "":
		errs.Add(FieldUsername, "Username is required.")
	case utf8.RuneCountInString(username) < MinUsernameLength:
		errs.Add(FieldUsername, "Username must be at least 3 characters.")
	}
	checkEmail(&errs, email)
	checkPassword(&errs, FieldPassword, password, "Password")
	if password != confirmation {
		errs.Add(FieldPasswordConfirmation, "Passwords do not match.")
	}
	return errs
}

// Email validates a lone email field, as used by the resend form.
func Email(email string) models.FieldErrors {
	var errs models.FieldErrors
	checkEmail(&errs, email)
	return errs
}

func ResetRequest(emailOrUsername string) models.FieldErrors {
	var errs models.FieldErrors
	checkEmailOrUsername(&errs, emailOrUsername)
	return errs
}

func ResetCode(emailOrUsername, code string) models.FieldErrors {
	var errs models.FieldErrors
	checkEmailOrUsername(&errs, emailOrUsername)
	checkCode(&errs, code)
	return errs
}

func ResetWithCode(emailOrUsername, code, newPassword, confirmation string) models.FieldErrors {
	errs := ResetCode(emailOrUsername, code)
	checkNewPassword(&errs, newPassword, confirmation)
	return errs
}

func ResetWithToken(token, newPassword, confirmation string) models.FieldErrors {
	var errs models.FieldErrors
	if token == "" {
		errs.Add(FieldToken, "Reset link is missing its token.")
	}
	checkNewPassword(&errs, newPassword, confirmation)
	return errs
}

// Profile validates the editable text fields of a profile.
func Profile(name, username, bio string) models.FieldErrors {
	var errs models.FieldErrors
	if name == "" {
		errs.Add(FieldName, "Full Name is required.")
	}
	if username != "" && utf8.RuneCountInString(username) < MinUsernameLength {
		errs.Add(FieldUsername, "Username must be at least 3 characters.")
	}
	if utf8.RuneCountInString(bio) > MaxBioLength {
		errs.Add(FieldBio, "Bio must be at most 1000 characters.")
	}
	return errs
}

func checkEmail(errs *models.FieldErrors, email string) {
	switch {
	case email == "":
		errs.Add(FieldEmail, "Email is required.")
	case !emailPattern.MatchString(email):
		errs.Add(FieldEmail, "Email is invalid.")
	}
}

func checkPassword(errs *models.FieldErrors, field, password, label string) {
	switch {
	case password == "":
		errs.Add(field, label+" is required.")
	case len(password) < MinPasswordLength:
		errs.Add(field, label+" must be at least 6 characters.")
	}
}

func checkEmailOrUsername(errs *models.FieldErrors, v string) {
	if v == "" {
		errs.Add(FieldEmailOrUsername, "Email or Username is required.")
	}
}

func checkCode(errs *models.FieldErrors, code string) {
	switch {
	case code == "":
		errs.Add(FieldResetCode, "Reset code is required.")
	case len(code) != ResetCodeLength:
		errs.Add(FieldResetCode, "Code must be 6 digits.")
	}
}

func checkNewPassword(errs *models.FieldErrors, password, confirmation string) {
	checkPassword(errs, FieldNewPassword, password, "New password")
	if password != confirmation {
		errs.Add(FieldConfirmNewPassword, "Passwords do not match.")
	}
}
