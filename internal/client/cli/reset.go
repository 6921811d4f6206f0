package cli

import (
	"context"

	"github.com/cpphub/hubclient/internal/common"
)

// ResetRequest asks for a reset code by email or username. The answer does
// not reveal whether the account exists.
func (a *App) ResetRequest(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Email or username", a.out)
	if err != nil {
		return err
	}

	res := a.auth.RequestPasswordResetCode(ctx, id)
	a.printResult(res)
	if res.Success {
		a.resetIdentifier, a.resetCode = id, ""
		a.println("Next: 'reset-verify' to enter the code you received.")
	}
	return nil
}

// ResetVerify checks the emailed code before the new password is asked for.
func (a *App) ResetVerify(ctx context.Context) error {
	id, err := a.resetAccount()
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Reset code", a.out)
	if err != nil {
		return err
	}

	res := a.auth.VerifyResetCode(ctx, id, code)
	a.printResult(res.Result)
	if res.Success {
		a.resetIdentifier, a.resetCode = id, code
		a.log.Debug(ctx, "reset code accepted", "temp_token_issued", res.TempToken != "")
		a.println("Next: 'reset-code' to choose a new password.")
	}
	return nil
}

// ResetCode completes the code-based reset with a new password.
func (a *App) ResetCode(ctx context.Context) error {
	id, err := a.resetAccount()
	if err != nil {
		return err
	}
	code := a.resetCode
	if code == "" {
		if code, err = getSimpleText(a.reader, "Reset code", a.out); err != nil {
			return err
		}
	}

	pw, confirm, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	defer common.WipeByteArray(confirm)

	res := a.auth.ResetPasswordWithCode(ctx, id, code, string(pw), string(confirm))
	a.printResult(res)
	if res.Success {
		a.resetIdentifier, a.resetCode = "", ""
	}
	return nil
}

// ResetLink completes a reset started from an emailed link. The token is
// validated before the new password is asked for.
func (a *App) ResetLink(ctx context.Context, token string) error {
	if res := a.auth.ValidateResetToken(ctx, token); !res.Success {
		a.printResult(res)
		return nil
	}

	pw, confirm, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	defer common.WipeByteArray(confirm)

	a.printResult(a.auth.ResetPasswordWithToken(ctx, token, string(pw), string(confirm)))
	return nil
}

// resetAccount returns the account of the reset in progress, prompting when
// there is none.
func (a *App) resetAccount() (string, error) {
	if a.resetIdentifier != "" {
		return a.resetIdentifier, nil
	}
	return getSimpleText(a.reader, "Email or username", a.out)
}

func (a *App) newPassword() ([]byte, []byte, error) {
	pw, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return nil, nil, err
	}
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, nil, err
	}
	return pw, confirm, nil
}
