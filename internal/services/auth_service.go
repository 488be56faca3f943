package services

import (
	"context"
	"fmt"

	"bookreview/internal/models"
)

// AuthService handles login, signup and logout against the session.
type AuthService struct {
	env *Env
}

// NewAuthService creates a new AuthService.
func NewAuthService(env *Env) *AuthService {
	return &AuthService{env: env}
}

// Login authenticates and stores the returned token and user. On success the
// caller should go to RouteHome.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	if err := s.env.validate.Struct(creds); err != nil {
		return nil, invalid("Email and password are required", err)
	}

	auth, err := s.env.Client.Login(ctx, creds)
	if err != nil {
		s.env.Log.WithError(err).WithField("email", creds.Email).Info("login failed")
		return nil, alert(err, "Error")
	}
	if err := s.env.Session.Establish(auth); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	s.env.Log.WithField("user", auth.User.PrimaryID()).Debug("logged in")
	return auth, nil
}

// Signup registers a new account and logs it in.
func (s *AuthService) Signup(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	if err := s.env.validate.Struct(reg); err != nil {
		return nil, invalid("Name, email and password are required", err)
	}

	auth, err := s.env.Client.Register(ctx, reg)
	if err != nil {
		s.env.Log.WithError(err).WithField("email", reg.Email).Info("signup failed")
		return nil, alert(err, "Error")
	}
	if err := s.env.Session.Establish(auth); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return auth, nil
}

// Logout forgets the token and user locally. Nothing is sent to the backend.
func (s *AuthService) Logout() (Route, error) {
	if err := s.env.Session.Clear(); err != nil {
		return RouteHome, fmt.Errorf("failed to clear session: %w", err)
	}
	return RouteHome, nil
}
