package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bookreview/internal/models"
	"bookreview/internal/repositories"
)

// Theme is the stored UI preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Session holds the current user, bearer token and theme. It is read from
// the state store once and written back on every transition. There is no
// expiry check; a stale token just makes later requests fail.
type Session struct {
	store repositories.StateRepository

	mu    sync.RWMutex
	user  *models.User
	token string
	theme Theme
}

// LoadSession restores the session persisted in store.
func LoadSession(store repositories.StateRepository) (*Session, error) {
	s := &Session{store: store, theme: ThemeLight}

	token, err := lookup(store, repositories.KeyToken)
	if err != nil {
		return nil, err
	}
	s.token = token

	rawUser, err := lookup(store, repositories.KeyUser)
	if err != nil {
		return nil, err
	}
	if rawUser != "" && rawUser != "null" {
		var u models.User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			return nil, fmt.Errorf("stored user is corrupt: %w", err)
		}
		s.user = &u
	}

	theme, err := lookup(store, repositories.KeyTheme)
	if err != nil {
		return nil, err
	}
	if Theme(theme) == ThemeDark {
		s.theme = ThemeDark
	}
	return s, nil
}

func lookup(store repositories.StateRepository, key string) (string, error) {
	v, err := store.Get(key)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}

// Token implements apiclient.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, nil when anonymous.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a user record is cached.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Establish persists a fresh login and makes it current.
func (s *Session) Establish(auth *models.AuthResponse) error {
	raw, err := json.Marshal(auth.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(repositories.KeyToken, auth.Token); err != nil {
		return err
	}
	if err := s.store.Set(repositories.KeyUser, string(raw)); err != nil {
		return err
	}
	u := auth.User
	s.user = &u
	s.token = auth.Token
	return nil
}

// Clear drops token and user, leaving the theme alone.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""
	return s.store.Delete(repositories.KeyToken, repositories.KeyUser)
}

// Theme returns the current theme.
func (s *Session) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// ToggleTheme flips between light and dark and persists the result.
func (s *Session) ToggleTheme() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := ThemeDark
	if s.theme == ThemeDark {
		next = ThemeLight
	}
	if err := s.store.Set(repositories.KeyTheme, string(next)); err != nil {
		return s.theme, err
	}
	s.theme = next
	return next, nil
}
