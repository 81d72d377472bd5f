package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/logger"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/internal/testutil"
)

func newUser(username, email string) *models.User {
	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Roles:        []string{models.DefaultRole},
	}
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := database.NewUserRepository(testutil.NewDB(t), logger.Discard())

	user := newUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, "alice@example.com", byName.Email)
	assert.Equal(t, "$2a$10$hash", byName.PasswordHash)
	assert.Equal(t, []string{"USER"}, byName.Roles)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := database.NewUserRepository(testutil.NewDB(t), logger.Discard())

	_, err := repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUserRepositoryExists(t *testing.T) {
	ctx := context.Background()
	repo := database.NewUserRepository(testutil.NewDB(t), logger.Discard())
	require.NoError(t, repo.Create(ctx, newUser("alice", "alice@example.com")))

	ok, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepositoryDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := database.NewUserRepository(testutil.NewDB(t), logger.Discard())
	require.NoError(t, repo.Create(ctx, newUser("alice", "alice@example.com")))

	err := repo.Create(ctx, newUser("alice", "other@example.com"))
	assert.ErrorIs(t, err, database.ErrDuplicateUsername)

	err = repo.Create(ctx, newUser("bob", "alice@example.com"))
	assert.ErrorIs(t, err, database.ErrDuplicateEmail)

	// failed inserts leave nothing behind
	ok, err := repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}
