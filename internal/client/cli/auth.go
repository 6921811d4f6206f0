package cli

import (
	"context"
	"time"

	"github.com/cpphub/hubclient/internal/client/client"
	"github.com/cpphub/hubclient/internal/client/services"
	"github.com/cpphub/hubclient/internal/common"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

// Register prompts for the registration form and submits it. The session is
// not touched; the new account has to verify its email before logging in.
func (a *App) Register(ctx context.Context) error {
	var in services.RegisterInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Full name", a.out); err != nil {
		return err
	}
	if in.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	in.Password, in.PasswordConfirmation = string(password), string(confirm)
	a.printResult(a.auth.Register(ctx, in))
	return nil
}

// Login prompts for credentials and starts a session on success.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Already logged in. Use 'logout' first.")
		return nil
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.auth.Login(ctx, email, string(password))
	a.printResult(res)
	if res.Success {
		a.log.Info(ctx, "login successful")
	}
	return nil
}

// Logout ends the session locally.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("You are not logged in.")
		return nil
	}
	a.printResult(a.auth.Logout(ctx))
	return nil
}

// WhoAmI prints the active user together with what can be read from the
// bearer token.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.store.User()
	if u == nil {
		a.println("Not logged in.")
		return nil
	}

	a.printUser(u, a.auth.PictureURL(u))
	if u.IsVerified {
		a.printf("Verified:    yes (%s)\n", formatTime(u.VerifiedAt))
	} else {
		a.println("Verified:    no")
	}
	if a.store.IsBanned() {
		a.printf("Banned until: %s\n", formatTime(u.BannedUntil))
	}

	info, err := client.InspectToken(a.store.Token())
	if err != nil {
		a.log.Debug(ctx, "token is not a readable JWT", "error", err)
		return nil
	}
	if info.ExpiresAt != nil {
		status := "valid"
		if info.Expired(time.Now()) {
			status = "expired"
		}
		a.printf("Token:       %s, expires %s\n", status, formatTime(info.ExpiresAt))
	}
	return nil
}

// Resend requests a new verification email, at most once per cooldown
// period.
func (a *App) Resend(ctx context.Context) error {
	if ok, left := a.cooldown.Try(); !ok {
		a.printf("Please wait %ds before requesting another email.\n", int(left.Round(time.Second)/time.Second))
		return nil
	}

	var email string
	if u := a.store.User(); u != nil {
		email = u.Email
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	a.printResult(a.auth.ResendVerificationEmail(ctx, email))
	return nil
}

// VerifyEmail consumes the token of an email verification link.
func (a *App) VerifyEmail(ctx context.Context, token string) error {
	res := a.auth.VerifyEmail(ctx, token)
	a.printResult(res.Result)
	switch res.Status {
	case services.EmailVerified, services.EmailAlreadyVerified:
		if !a.isLoggedIn() {
			a.println("You can now log in.")
		}
	default:
		a.println("Use 'resend' to request a new verification link.")
	}
	return nil
}
