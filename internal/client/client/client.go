package client

import (
	"context"
	"io"

	"github.com/cpphub/hubclient/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error)
	ResendVerification(ctx context.Context, email string) (*MessageResponse, error)
	VerifyEmail(ctx context.Context, token string) (*MessageResponse, error)

	RequestPasswordResetCode(ctx context.Context, emailOrUsername string) (*MessageResponse, error)
	VerifyResetCode(ctx context.Context, emailOrUsername, code string) (*VerifyResetCodeResponse, error)
	ResetPasswordWithCode(ctx context.Context, emailOrUsername, code, newPassword string) (*MessageResponse, error)
	ValidateResetToken(ctx context.Context, token string) error
	ResetPasswordWithToken(ctx context.Context, token, newPassword, confirmPassword string) (*MessageResponse, error)

	CurrentUser(ctx context.Context, token string) (*models.UserPayload, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*UserResponse, error)
	GetUser(ctx context.Context, token, userID string) (*models.UserPayload, error)
}

// MessageResponse is the body of most endpoints.
type MessageResponse struct {
	Message string             `json:"message"`
	Errors  models.FieldErrors `json:"errors,omitempty"`
}

type LoginResponse struct {
	User    *models.UserPayload `json:"user"`
	Token   string              `json:"token"`
	Message string              `json:"message"`
}

type UserResponse struct {
	User    *models.UserPayload `json:"user"`
	Message string              `json:"message"`
}

type VerifyResetCodeResponse struct {
	Message   string `json:"message"`
	TempToken string `json:"tempToken"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Picture is a new profile picture to upload.
type Picture struct {
	Filename string
	Content  io.Reader
}

// ProfileUpdate is the edit-profile form. Exactly one picture outcome is
// sent: a new Picture, ClearPicture, or the unchanged ExistingPictureURL.
type ProfileUpdate struct {
	Name            string
	Username        string
	Bio             string
	Nationality     string
	IsProfilePublic bool

	Picture            *Picture
	ClearPicture       bool
	ExistingPictureURL *string
}
