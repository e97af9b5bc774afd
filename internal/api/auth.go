package api

import (
	"context"
	"net/http"

	"github.com/Iron-Ham/fintrack/internal/models"
)

// AuthAPI wraps the /auth/ endpoints.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI creates an AuthAPI over client.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// Register creates an account and returns the issued tokens.
func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := a.client.send(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/register/",
		body:      req,
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for tokens.
func (a *AuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := a.client.send(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login/",
		body:      req,
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes refreshToken server-side.
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	return a.client.Post(ctx, "/auth/logout/", models.LogoutRequest{RefreshToken: refreshToken}, nil)
}

// Profile returns the authenticated user.
func (a *AuthAPI) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.client.Get(ctx, "/auth/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves profile changes and returns the updated user.
func (a *AuthAPI) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := a.client.Put(ctx, "/auth/profile/", upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the user's password.
func (a *AuthAPI) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := a.client.Put(ctx, "/auth/change-password/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges refresh for a new access token.
func (a *AuthAPI) RefreshToken(ctx context.Context, refresh string) (*models.RefreshResponse, error) {
	var resp models.RefreshResponse
	err := a.client.send(ctx, request{
		method:    http.MethodPost,
		path:      refreshPath,
		body:      models.RefreshRequest{Refresh: refresh},
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
