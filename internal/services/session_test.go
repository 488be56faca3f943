package services_test

import (
	"testing"

	"bookreview/internal/models"
	"bookreview/internal/repositories"
	"bookreview/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_EmptyStore(t *testing.T) {
	s, err := services.LoadSession(repositories.NewMockStateRepository())
	require.NoError(t, err)

	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.Equal(t, services.ThemeLight, s.Theme())
}

func TestSession_EstablishPersistsAndRestores(t *testing.T) {
	store := repositories.NewMockStateRepository()
	s, err := services.LoadSession(store)
	require.NoError(t, err)

	require.NoError(t, s.Establish(&models.AuthResponse{
		Token: "tok",
		User:  models.User{MongoID: "u1", Name: "Ada", Email: "ada@example.com"},
	}))
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "tok", s.Token())

	restored, err := services.LoadSession(store)
	require.NoError(t, err)
	assert.Equal(t, "tok", restored.Token())
	require.NotNil(t, restored.User())
	assert.Equal(t, "u1", restored.User().PrimaryID())
	assert.Equal(t, "Ada", restored.User().Name)
}

func TestSession_UserIsACopy(t *testing.T) {
	s, err := services.LoadSession(repositories.NewMockStateRepository())
	require.NoError(t, err)
	require.NoError(t, s.Establish(&models.AuthResponse{Token: "t", User: models.User{ID: "u1", Name: "Ada"}}))

	u := s.User()
	u.Name = "changed"
	assert.Equal(t, "Ada", s.User().Name)
}

func TestSession_ClearKeepsTheme(t *testing.T) {
	store := repositories.NewMockStateRepository()
	s, err := services.LoadSession(store)
	require.NoError(t, err)
	require.NoError(t, s.Establish(&models.AuthResponse{Token: "t", User: models.User{ID: "u1"}}))

	theme, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, services.ThemeDark, theme)

	require.NoError(t, s.Clear())
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Token())

	_, err = store.Get(repositories.KeyToken)
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)
	_, err = store.Get(repositories.KeyUser)
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)

	restored, err := services.LoadSession(store)
	require.NoError(t, err)
	assert.Equal(t, services.ThemeDark, restored.Theme())
}

func TestSession_ToggleTwiceReturnsToLight(t *testing.T) {
	s, err := services.LoadSession(repositories.NewMockStateRepository())
	require.NoError(t, err)

	_, err = s.ToggleTheme()
	require.NoError(t, err)
	theme, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, services.ThemeLight, theme)
}

func TestSession_CorruptUser(t *testing.T) {
	store := repositories.NewMockStateRepository()
	require.NoError(t, store.Set(repositories.KeyUser, "{not json"))

	_, err := services.LoadSession(store)
	assert.Error(t, err)
}

func TestSession_NullUserIsAnonymous(t *testing.T) {
	store := repositories.NewMockStateRepository()
	require.NoError(t, store.Set(repositories.KeyUser, "null"))

	s, err := services.LoadSession(store)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}
