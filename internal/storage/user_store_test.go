package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
)

func TestUserCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)

	u := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		PasswordHash: "hashed",
	}
	require.NoError(t, store.Create(context.Background(), u))
	require.NotZero(t, u.ID)

	byName, err := store.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "alice@example.com", byName.Email)
	assert.Equal(t, "hashed", byName.PasswordHash)
	assert.Nil(t, byName.LastLogin)

	byID, err := store.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserNotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)

	_, err := store.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = store.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserDuplicateUsernameRejected(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)

	require.NoError(t, store.Create(context.Background(), &models.User{
		Username: "alice", Email: "a@example.com", PasswordHash: "x",
	}))
	err := store.Create(context.Background(), &models.User{
		Username: "alice", Email: "b@example.com", PasswordHash: "y",
	})
	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestTouchLastLogin(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)

	u := &models.User{Username: "alice", Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, store.Create(context.Background(), u))

	at := time.Now().UTC()
	require.NoError(t, store.TouchLastLogin(context.Background(), u.ID, at))

	got, err := store.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, at, *got.LastLogin, time.Second)
}
