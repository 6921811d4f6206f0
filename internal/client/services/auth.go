// Package services contains the application services of the hub client:
// the auth gateway wrapping every backend operation in a uniform Result,
// and the bootstrapper that restores and revalidates a saved session.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cpphub/hubclient/internal/client/client"
	"github.com/cpphub/hubclient/internal/client/models"
	"github.com/cpphub/hubclient/internal/client/session"
	"github.com/cpphub/hubclient/internal/client/validation"
	"github.com/cpphub/hubclient/internal/logging"
)

// AuthService is the auth gateway used by the terminal UI.
//
// Contract:
//   - Every operation returns a Result and never an error; transport and
//     parse failures become MsgNetworkError.
//   - Form input is validated before any request is sent.
//   - Operations that change remote state mark the store as loading for
//     their whole duration.
//   - Only Login, Logout, UpdateProfile and VerifyEmail touch the session.
type AuthService interface {
	Login(ctx context.Context, email, password string) Result
	Register(ctx context.Context, in RegisterInput) Result
	Logout(ctx context.Context) Result
	ResendVerificationEmail(ctx context.Context, email string) Result
	VerifyEmail(ctx context.Context, token string) VerifyEmailResult

	RequestPasswordResetCode(ctx context.Context, emailOrUsername string) Result
	VerifyResetCode(ctx context.Context, emailOrUsername, code string) VerifyCodeResult
	ResetPasswordWithCode(ctx context.Context, emailOrUsername, code, newPassword, confirmPassword string) Result
	ValidateResetToken(ctx context.Context, token string) Result
	ResetPasswordWithToken(ctx context.Context, token, newPassword, confirmPassword string) Result

	UpdateProfile(ctx context.Context, in ProfileInput) ProfileResult
	FetchCurrentUser(ctx context.Context, token string) CurrentUserResult
	FetchPublicProfile(ctx context.Context, userID string) PublicProfileResult

	// PictureURL resolves the picture reference of u for display.
	PictureURL(u *models.User) string
}

type RegisterInput struct {
	Name                 string
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// ProfileInput is the edit-profile form. PicturePath names a local image to
// upload; ClearPicture removes the current one. With neither, the current
// picture is kept.
type ProfileInput struct {
	Name            string
	Username        string
	Bio             string
	Nationality     string
	IsProfilePublic bool
	PicturePath     string
	ClearPicture    bool
}

type authService struct {
	client  client.Client
	store   *session.Store
	baseURL string
	log     logging.Logger
	now     func() time.Time
}

type AuthOption func(*authService)

func WithAuthLogger(l logging.Logger) AuthOption {
	return func(a *authService) { a.log = l }
}

func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *authService) { a.now = now }
}

// NewAuthService binds the gateway to a transport and the session store.
// baseURL is used to resolve profile picture references.
func NewAuthService(c client.Client, store *session.Store, baseURL string, opts ...AuthOption) AuthService {
	a := &authService{
		client:  c,
		store:   store,
		baseURL: baseURL,
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *authService) Login(ctx context.Context, email, password string) Result {
	if errs := validation.Login(email, password); len(errs) > 0 {
		return failure("", errs)
	}
	defer a.store.BeginLoading()()

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return a.fail(ctx, "login", err, "Login failed.")
	}

	token := resp.Token
	if err := a.store.SetSession(ctx, resp.User, &token); err != nil {
		a.log.Error(ctx, "login succeeded but session was not stored", "error", err)
		return failure(MsgSessionNotSaved, nil)
	}
	a.log.Info(ctx, "logged in", "user_id", resp.User.ID)
	return success(resp.Message, "Logged in successfully.")
}

// Register creates an account. The session is not touched: the account has
// to be verified by email before logging in.
func (a *authService) Register(ctx context.Context, in RegisterInput) Result {
	if errs := validation.Register(in.Name, in.Username, in.Email, in.Password, in.PasswordConfirmation); len(errs) > 0 {
		return failure("", errs)
	}
	defer a.store.BeginLoading()()

	resp, err := a.client.Register(ctx, client.RegisterRequest{
		Name:                 in.Name,
		Username:             in.Username,
		Email:                in.Email,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
	})
	if err != nil {
		return a.fail(ctx, "register", err, "Registration failed.")
	}
	return success(resp.Message, "Registration successful. Please check your email to verify your account.")
}

// Logout clears the session locally. No request is made.
func (a *authService) Logout(ctx context.Context) Result {
	if err := a.store.ClearSession(ctx); err != nil {
		a.log.Error(ctx, "saved session not removed on logout", "error", err)
	}
	return success(MsgLoggedOut, "")
}

func (a *authService) ResendVerificationEmail(ctx context.Context, email string) Result {
	if errs := validation.Email(email); len(errs) > 0 {
		return failure("", errs)
	}
	defer a.store.BeginLoading()()

	resp, err := a.client.ResendVerification(ctx, email)
	if err != nil {
		return a.fail(ctx, "resend verification", err, "Failed to resend email.")
	}
	return success(resp.Message, "Verification email sent.")
}

// VerifyEmail consumes an email verification link. On success an active
// session is marked verified locally.
func (a *authService) VerifyEmail(ctx context.Context, token string) VerifyEmailResult {
	if token == "" {
		return VerifyEmailResult{Result: failure("Verification link is missing its token.", nil), Status: EmailVerifyFailed}
	}
	defer a.store.BeginLoading()()

	resp, err := a.client.VerifyEmail(ctx, token)
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && errors.Is(err, client.ErrConflict) {
			return VerifyEmailResult{
				Result: success(apiErr.Message, "Email is already verified."),
				Status: EmailAlreadyVerified,
			}
		}
		return VerifyEmailResult{Result: a.fail(ctx, "verify email", err, "Verification failed."), Status: EmailVerifyFailed}
	}

	verified := true
	if a.store.User() != nil {
		if _, err := a.store.UpdateSession(ctx, models.UserPatch{IsVerified: &verified}); err != nil {
			a.log.Error(ctx, "verification not stored in session", "error", err)
		}
	}
	return VerifyEmailResult{Result: success(resp.Message, "Email verified successfully!"), Status: EmailVerified}
}

// RequestPasswordResetCode answers with the same message whether or not the
// account exists.
func (a *authService) RequestPasswordResetCode(ctx context.Context, emailOrUsername string) Result {
	if errs := validation.ResetRequest(emailOrUsername); len(errs) > 0 {
		return failure("", errs)
	}
	defer a.store.BeginLoading()()

	_, err := a.client.RequestPasswordResetCode(ctx, emailOrUsername)
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		return a.fail(ctx, "request reset code", err, "Failed to request password reset code.")
	}
	return success(MsgResetCodeSent, "")
}

func (a *authService) VerifyResetCode(ctx context.Context, emailOrUsername, code string) VerifyCodeResult {
	if errs := validation.ResetCode(emailOrUsername, code); len(errs) > 0 {
		return VerifyCodeResult{Result: failure("", errs)}
	}
	defer a.store.BeginLoading()()

	resp, err := a.client.VerifyResetCode(ctx, emailOrUsername, code)
	if err != nil {
		return VerifyCodeResult{Result: a.fail(ctx, "verify reset code", err, "Invalid or expired reset code.")}
	}
	return VerifyCodeResult{
		Result:    success(resp.Message, "Code verified successfully! Please set your new password."),
		TempToken: resp.TempToken,
	}
}

func (a *authService) ResetPasswordWithCode(ctx context.Context, emailOrUsername, code, newPassword, confirmPassword string) Result {
	if errs := validation.ResetWithCode(emailOrUsername, code, newPassword, confirmPassword); len(errs) > 0 {
		return failure("", errs)
	}
	defer a.store.BeginLoading()()

	resp, err := a.client.ResetPasswordWithCode(ctx, emailOrUsername, code, newPassword)
	if err != nil {
		return a.fail(ctx, "reset password with code", err, "Failed to reset password.")
	}
	return success(resp.Message, "Password reset successfully! You can now log in.")
}

// ValidateResetToken checks a reset link without consuming it.
func (a *authService) ValidateResetToken(ctx context.Context, token string) Result {
	if token == "" {
		return failure("Password reset link is missing or invalid.", nil)
	}
	if err := a.client.ValidateResetToken(ctx, token); err != nil {
		return a.fail(ctx, "validate reset token", err, "Invalid or expired password reset link.")
	}
	return success("Reset link is valid.", "")
}

func (a *authService) ResetPasswordWithToken(ctx context.Context, token, newPassword, confirmPassword string) Result {
	if errs := validation.ResetWithToken(token, newPassword, confirmPassword); len(errs) > 0 {
		return failure("", errs)
	}
	defer a.store.BeginLoading()()

	resp, err := a.client.ResetPasswordWithToken(ctx, token, newPassword, confirmPassword)
	if err != nil {
		return a.fail(ctx, "reset password with token", err, "Failed to reset password. Please try again.")
	}
	return success(resp.Message, "Your password has been reset successfully. You can now log in.")
}

// UpdateProfile sends the form and replaces the session user with the
// record returned by the backend, keeping the current token.
func (a *authService) UpdateProfile(ctx context.Context, in ProfileInput) ProfileResult {
	defer a.store.BeginLoading()()

	token := a.store.Token()
	if token == "" {
		return ProfileResult{Result: failure(MsgNoToken, nil)}
	}
	if errs := validation.Profile(in.Name, in.Username, in.Bio); len(errs) > 0 {
		return ProfileResult{Result: failure("", errs)}
	}

	update := client.ProfileUpdate{
		Name:            in.Name,
		Username:        in.Username,
		Bio:             in.Bio,
		Nationality:     in.Nationality,
		IsProfilePublic: in.IsProfilePublic,
		ClearPicture:    in.ClearPicture,
	}
	if u := a.store.User(); u != nil {
		update.ExistingPictureURL = u.ProfilePictureURL
	}

	if in.PicturePath != "" && !in.ClearPicture {
		f, errs, err := openPicture(in.PicturePath)
		if err != nil {
			return ProfileResult{Result: failure(fmt.Sprintf("Could not read picture: %v", err), nil)}
		}
		if len(errs) > 0 {
			return ProfileResult{Result: failure("", errs)}
		}
		defer func() { _ = f.Close() }()
		update.Picture = &client.Picture{Filename: in.PicturePath, Content: f}
	}

	resp, err := a.client.UpdateProfile(ctx, token, update)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return ProfileResult{Result: a.expire(ctx)}
		}
		return ProfileResult{Result: a.fail(ctx, "update profile", err, "Failed to update profile.")}
	}

	if err := a.store.SetSession(ctx, resp.User, nil); err != nil {
		a.log.Error(ctx, "updated profile not stored in session", "error", err)
		return ProfileResult{Result: failure("Profile updated, but the session could not be saved locally.", nil)}
	}
	return ProfileResult{Result: success(resp.Message, "Profile updated successfully!"), User: a.store.User()}
}

// openPicture opens path and validates it as a profile picture.
func openPicture(path string) (*os.File, models.FieldErrors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, nil, err
	}
	if errs := validation.Picture(path, info.Size(), head[:n]); len(errs) > 0 {
		_ = f.Close()
		return nil, errs, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, nil, nil
}

// FetchCurrentUser is used by the bootstrapper to revalidate a saved token.
func (a *authService) FetchCurrentUser(ctx context.Context, token string) CurrentUserResult {
	u, err := a.client.CurrentUser(ctx, token)
	if err != nil {
		_, rejected := client.AsAPIError(err)
		return CurrentUserResult{Result: a.fail(ctx, "fetch current user", err, "Session is no longer valid."), Rejected: rejected}
	}
	return CurrentUserResult{Result: success("", ""), User: u}
}

// FetchPublicProfile loads another user's profile. Private profiles are only
// shown to their owner.
func (a *authService) FetchPublicProfile(ctx context.Context, userID string) PublicProfileResult {
	if userID == "" {
		return PublicProfileResult{Result: failure("User not found.", nil)}
	}

	payload, err := a.client.GetUser(ctx, a.store.Token(), userID)
	if err != nil {
		return PublicProfileResult{Result: a.fail(ctx, "fetch public profile", err, "Failed to fetch user profile.")}
	}

	profile := models.NewPublicProfile(*payload, a.now())
	if !profile.VisibleTo(a.store.User()) {
		return PublicProfileResult{Result: failure(MsgPrivateProfile, nil)}
	}
	return PublicProfileResult{Result: success("", ""), Profile: &profile}
}

func (a *authService) PictureURL(u *models.User) string {
	if u == nil {
		return ProfilePictureURL(a.baseURL, nil)
	}
	return ProfilePictureURL(a.baseURL, u.ProfilePictureURL)
}

// expire logs out after the backend refused the session token.
func (a *authService) expire(ctx context.Context) Result {
	a.log.Warn(ctx, "session token rejected, logging out")
	if err := a.store.ClearSession(ctx); err != nil {
		a.log.Error(ctx, "saved session not removed", "error", err)
	}
	return failure(MsgSessionExpired, nil)
}

// fail converts a transport error into a Result. Backend rejections keep
// their message and field errors; anything else becomes MsgNetworkError.
func (a *authService) fail(ctx context.Context, op string, err error, fallback string) Result {
	if apiErr, ok := client.AsAPIError(err); ok {
		a.log.Debug(ctx, op+" rejected", "status", apiErr.Status)
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return failure(msg, apiErr.Errors)
	}
	a.log.Warn(ctx, op+" failed", "error", err)
	return failure(MsgNetworkError, nil)
}
