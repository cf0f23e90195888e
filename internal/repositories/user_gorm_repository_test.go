package repositories_test

import (
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository_CreateAndGet(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	user := &models.User{Username: "catalog_fan", Email: "fan@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID)

	byUsername, err := repo.GetByUsername("catalog_fan")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := repo.GetByEmail("fan@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "catalog_fan", byID.Username)
}

func TestGORMUserRepository_NotFound(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	_, err := repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGORMUserRepository_UniqueConstraints(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(&models.User{Username: "unique_one", Email: "one@example.com", Password: "hashed"}))

	err := repo.Create(&models.User{Username: "unique_one", Email: "other@example.com", Password: "hashed"})
	assert.Error(t, err)

	err = repo.Create(&models.User{Username: "unique_two", Email: "one@example.com", Password: "hashed"})
	assert.Error(t, err)
}
