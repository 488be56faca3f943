package repositories_test

import (
	"path/filepath"
	"testing"

	"bookreview/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, repo repositories.StateRepository) {
	t.Helper()

	_, err := repo.Get(repositories.KeyToken)
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)

	require.NoError(t, repo.Set(repositories.KeyToken, "abc"))
	require.NoError(t, repo.Set(repositories.KeyTheme, "dark"))
	require.NoError(t, repo.Set(repositories.KeyToken, "def"))

	v, err := repo.Get(repositories.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, repo.Delete(repositories.KeyToken, repositories.KeyUser))
	_, err = repo.Get(repositories.KeyToken)
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)

	v, err = repo.Get(repositories.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	require.NoError(t, repo.Delete())
}

func TestMockStateRepository(t *testing.T) {
	exercise(t, repositories.NewMockStateRepository())
}

func TestGORMStateRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	repo, err := repositories.OpenSQLiteState(path)
	require.NoError(t, err)
	exercise(t, repo)
	require.NoError(t, repo.Close())

	// Values survive reopening the file.
	reopened, err := repositories.OpenSQLiteState(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, err := reopened.Get(repositories.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}
