package models

import (
	"strings"

	"github.com/Iron-Ham/fintrack/internal/errors"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// Tokens is the access/refresh credential pair issued at login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IsZero reports whether no access token is held.
func (t Tokens) IsZero() bool {
	return t.Access == ""
}

// User is the authenticated user's profile.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DisplayName returns "First Last", falling back to the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User    User   `json:"user"`
	Tokens  Tokens `json:"tokens"`
	Message string `json:"message,omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.NewValidationError("Please fill in all required fields")
	}
	return nil
}

// RegisterRequest is the registration payload. Phone is optional.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// Validate runs the registration checks in order: required fields, matching
// passwords, minimum length.
func (r RegisterRequest) Validate() error {
	required := []string{r.Username, r.Email, r.FirstName, r.LastName, r.Password, r.PasswordConfirm}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return errors.NewValidationError("Please fill in all required fields")
		}
	}
	if r.Password != r.PasswordConfirm {
		return errors.NewValidationError("Passwords do not match").WithField("password_confirm")
	}
	if len([]rune(r.Password)) < MinPasswordLength {
		return errors.NewValidationError("Password must be at least 8 characters long").WithField("password")
	}
	return nil
}

// ProfileUpdate is the profile edit payload. Empty fields are omitted so the
// server keeps its current value.
type ProfileUpdate struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// Validate checks required fields and that the new passwords agree.
func (r ChangePasswordRequest) Validate() error {
	if r.OldPassword == "" || r.NewPassword == "" || r.NewPasswordConfirm == "" {
		return errors.NewValidationError("Please fill in all required fields")
	}
	if r.NewPassword != r.NewPasswordConfirm {
		return errors.NewValidationError("Passwords do not match").WithField("new_password_confirm")
	}
	if len([]rune(r.NewPassword)) < MinPasswordLength {
		return errors.NewValidationError("Password must be at least 8 characters long").WithField("new_password")
	}
	return nil
}

// MessageResponse is the generic {"message": ...} acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// LogoutRequest revokes a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the new access token and, when the server rotates
// refresh tokens, a new refresh token.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
