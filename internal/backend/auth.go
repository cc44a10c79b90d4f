package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 6

// AuthService covers admin login and the admin's own profile.
type AuthService struct {
	c *apiclient.Client
}

// Login exchanges credentials for a bearer token. Rejected credentials come
// back as a server error carrying the backend's message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "Email and password are required", nil)
	}
	body := map[string]string{"email": email, "password": password}
	var res domain.LoginResult
	if _, err := s.c.Send(ctx, http.MethodPost, endpoint("login"), body, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, domain.NewAppError(domain.CodeInternal, "Invalid response format from server", nil)
	}
	return &res, nil
}

// Profile returns the signed-in admin.
func (s *AuthService) Profile(ctx context.Context) (*domain.AdminProfile, error) {
	var p domain.AdminProfile
	if err := s.c.Get(ctx, endpoint("profile"), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes the admin's display name and email.
func (s *AuthService) UpdateProfile(ctx context.Context, name, email string) (string, error) {
	body := map[string]string{"nama": strings.TrimSpace(name), "email": strings.TrimSpace(email)}
	return s.c.Send(ctx, http.MethodPut, endpoint("profile"), body, nil)
}

// ChangePassword sets a new password for the admin.
func (s *AuthService) ChangePassword(ctx context.Context, newPassword string) (string, error) {
	if len(newPassword) < MinPasswordLength {
		return "", domain.NewAppError(domain.CodeValidation, "Password must be at least 6 characters", nil)
	}
	body := map[string]string{"new_password": newPassword}
	return s.c.Send(ctx, http.MethodPut, endpoint("profile", "change-password"), body, nil)
}
