package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpphub/hubclient/internal/client/models"
	"github.com/cpphub/hubclient/internal/common"
	"github.com/cpphub/hubclient/internal/logging"
	"github.com/google/uuid"
)

const DefaultBaseURL = "https://api.cpp-hub.com"

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL: base,
		http:    &http.Client{},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised backend origin.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, unavailable(fmt.Errorf("login response without user"))
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/resend-verification", "", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/verify-email/"+url.PathEscape(token), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RequestPasswordResetCode(ctx context.Context, emailOrUsername string) (*MessageResponse, error) {
	body := map[string]string{"emailOrUsername": emailOrUsername}
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/request-password-reset-code", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyResetCode(ctx context.Context, emailOrUsername, code string) (*VerifyResetCodeResponse, error) {
	body := map[string]string{"emailOrUsername": emailOrUsername, "code": code}
	var out VerifyResetCodeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/verify-reset-code", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResetPasswordWithCode(ctx context.Context, emailOrUsername, code, newPassword string) (*MessageResponse, error) {
	body := map[string]string{"emailOrUsername": emailOrUsername, "code": code, "newPassword": newPassword}
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password-with-code", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateResetToken checks a reset-link token without consuming it.
func (c *HTTPClient) ValidateResetToken(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/validate-reset-token/"+url.PathEscape(token), "", nil, nil)
}

func (c *HTTPClient) ResetPasswordWithToken(ctx context.Context, token, newPassword, confirmPassword string) (*MessageResponse, error) {
	body := map[string]string{"newPassword": newPassword, "confirmPassword": confirmPassword}
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password/"+url.PathEscape(token), "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*models.UserPayload, error) {
	var out UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, unavailable(fmt.Errorf("current user response without user"))
	}
	return out.User, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, token, userID string) (*models.UserPayload, error) {
	var out UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), token, nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, unavailable(fmt.Errorf("user response without user"))
	}
	return out.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*UserResponse, error) {
	body, contentType, err := encodeProfileForm(update)
	if err != nil {
		return nil, fmt.Errorf("encode profile form: %w", err)
	}

	var out UserResponse
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", token, body, contentType, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, unavailable(fmt.Errorf("profile response without user"))
	}
	return &out, nil
}

// encodeProfileForm writes the multipart body of a profile update.
func encodeProfileForm(u ProfileUpdate) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"name", u.Name},
		{"username", u.Username},
		{"bio", u.Bio},
		{"nationality", u.Nationality},
		{"is_profile_public", strconv.FormatBool(u.IsProfilePublic)},
	}

	switch {
	case u.Picture != nil:
		fields = append(fields, [2]string{"clearProfilePicture", "false"})
	case u.ClearPicture:
		fields = append(fields,
			[2]string{"profilePicture", "null"},
			[2]string{"clearProfilePicture", "true"},
		)
	default:
		existing := "null"
		if u.ExistingPictureURL != nil && *u.ExistingPictureURL != "" {
			existing = *u.ExistingPictureURL
		}
		fields = append(fields,
			[2]string{"profile_picture_url", existing},
			[2]string{"clearProfilePicture", "false"},
		)
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if u.Picture != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profilePicture"; filename=%q`, filepath.Base(u.Picture.Filename)))
		ct := mime.TypeByExtension(filepath.Ext(u.Picture.Filename))
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, u.Picture.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	log := c.log.With("request_id", requestID, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return unavailable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "reading response failed", "error", err)
		return unavailable(err)
	}

	log.Debug(ctx, "response received", "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg MessageResponse
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &msg); err == nil {
				apiErr.Message = msg.Message
				apiErr.Errors = msg.Errors
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn(ctx, "decoding response failed", "error", err)
		return unavailable(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
