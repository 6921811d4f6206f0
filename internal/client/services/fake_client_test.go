package services

import (
	"context"
	"io"
	"sync"

	"github.com/cpphub/hubclient/internal/client/client"
	"github.com/cpphub/hubclient/internal/client/models"
)

// fakeClient implements client.Client for unit tests of the gateway.
type fakeClient struct {
	mu sync.Mutex

	// results
	LoginResp   *client.LoginResponse
	LoginErr    error
	MsgResp     *client.MessageResponse
	MsgErr      error
	VerifyResp  *client.VerifyResetCodeResponse
	VerifyErr   error
	ValidateErr error
	UserResp    *client.UserResponse
	UserErr     error
	CurrentResp *models.UserPayload
	CurrentErr  error
	// CurrentGate, when set, blocks CurrentUser until it is closed.
	CurrentGate chan struct{}

	// OnCall runs inside every request, while it is in flight.
	OnCall func()

	// captured arguments
	Calls           int
	LastOp          string
	LastEmail       string
	LastPassword    string
	LastRegister    client.RegisterRequest
	LastIdentifier  string
	LastCode        string
	LastToken       string
	LastUserID      string
	LastUpdate      client.ProfileUpdate
	LastPictureData []byte
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(op string) {
	f.mu.Lock()
	f.Calls++
	f.LastOp = op
	hook := f.OnCall
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (f *fakeClient) msg() (*client.MessageResponse, error) {
	if f.MsgErr != nil {
		return nil, f.MsgErr
	}
	if f.MsgResp == nil {
		return &client.MessageResponse{}, nil
	}
	return f.MsgResp, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.LoginResponse, error) {
	f.record("login")
	f.LastEmail, f.LastPassword = email, password
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) (*client.MessageResponse, error) {
	f.record("register")
	f.LastRegister = req
	return f.msg()
}

func (f *fakeClient) ResendVerification(ctx context.Context, email string) (*client.MessageResponse, error) {
	f.record("resend")
	f.LastEmail = email
	return f.msg()
}

func (f *fakeClient) VerifyEmail(ctx context.Context, token string) (*client.MessageResponse, error) {
	f.record("verify-email")
	f.LastToken = token
	return f.msg()
}

func (f *fakeClient) RequestPasswordResetCode(ctx context.Context, emailOrUsername string) (*client.MessageResponse, error) {
	f.record("reset-request")
	f.LastIdentifier = emailOrUsername
	return f.msg()
}

func (f *fakeClient) VerifyResetCode(ctx context.Context, emailOrUsername, code string) (*client.VerifyResetCodeResponse, error) {
	f.record("reset-verify")
	f.LastIdentifier, f.LastCode = emailOrUsername, code
	return f.VerifyResp, f.VerifyErr
}

func (f *fakeClient) ResetPasswordWithCode(ctx context.Context, emailOrUsername, code, newPassword string) (*client.MessageResponse, error) {
	f.record("reset-code")
	f.LastIdentifier, f.LastCode, f.LastPassword = emailOrUsername, code, newPassword
	return f.msg()
}

func (f *fakeClient) ValidateResetToken(ctx context.Context, token string) error {
	f.record("reset-validate")
	f.LastToken = token
	return f.ValidateErr
}

func (f *fakeClient) ResetPasswordWithToken(ctx context.Context, token, newPassword, confirmPassword string) (*client.MessageResponse, error) {
	f.record("reset-link")
	f.LastToken, f.LastPassword = token, newPassword
	return f.msg()
}

func (f *fakeClient) CurrentUser(ctx context.Context, token string) (*models.UserPayload, error) {
	f.record("me")
	f.mu.Lock()
	f.LastToken = token
	gate := f.CurrentGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.CurrentResp, f.CurrentErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, token string, update client.ProfileUpdate) (*client.UserResponse, error) {
	f.record("profile-update")
	f.LastToken = token
	f.LastUpdate = update
	if update.Picture != nil {
		f.LastPictureData, _ = io.ReadAll(update.Picture.Content)
	}
	return f.UserResp, f.UserErr
}

func (f *fakeClient) GetUser(ctx context.Context, token, userID string) (*models.UserPayload, error) {
	f.record("get-user")
	f.LastToken, f.LastUserID = token, userID
	if f.UserErr != nil {
		return nil, f.UserErr
	}
	return f.UserResp.User, nil
}
