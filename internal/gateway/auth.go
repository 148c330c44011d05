package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// Login exchanges email and password for a credential and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	req := call{op: "login", method: http.MethodPost, path: "/auth/user/login", body: dto.UserLoginRequest{Email: email, Password: password}}
	return c.authenticate(ctx, req)
}

// SignUp creates an account and returns its credential and profile.
func (c *Client) SignUp(ctx context.Context, payload dto.UserSignupRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" || strings.TrimSpace(payload.FullName) == "" || strings.TrimSpace(payload.Username) == "" {
		return nil, apperrors.NewValidationError("full name, username, email and password required", nil)
	}
	req := call{op: "sign up", method: http.MethodPost, path: "/auth/user", body: payload}
	return c.authenticate(ctx, req)
}

func (c *Client) authenticate(ctx context.Context, req call) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, c.rejected(req, errors.New("response carries no token"))
	}
	return &resp, nil
}
