package jsonfile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUser(t *testing.T, username, origin string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, "hashed-password", origin)
	require.NoError(t, err)
	return u
}

func TestUserStoreCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("assigns sequential ids", func(t *testing.T) {
		t.Parallel()
		s := NewUserStore(t.TempDir(), testLogger())

		first := newUser(t, "alice", "203.0.113.1")
		second := newUser(t, "bob", "203.0.113.2")
		require.NoError(t, s.Create(ctx, first))
		require.NoError(t, s.Create(ctx, second))

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("rejects duplicate username case-insensitively", func(t *testing.T) {
		t.Parallel()
		s := NewUserStore(t.TempDir(), testLogger())

		require.NoError(t, s.Create(ctx, newUser(t, "Alice", "203.0.113.1")))
		err := s.Create(ctx, newUser(t, "alice", "203.0.113.2"))
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("rejects duplicate signup origin", func(t *testing.T) {
		t.Parallel()
		s := NewUserStore(t.TempDir(), testLogger())

		require.NoError(t, s.Create(ctx, newUser(t, "alice", "203.0.113.1")))
		err := s.Create(ctx, newUser(t, "bob", "203.0.113.1"))
		assert.ErrorIs(t, err, store.ErrSignupOriginExists)
	})

	t.Run("allows many accounts with empty origin", func(t *testing.T) {
		t.Parallel()
		s := NewUserStore(t.TempDir(), testLogger())

		require.NoError(t, s.Create(ctx, newUser(t, "admin", "")))
		require.NoError(t, s.Create(ctx, newUser(t, "other", "")))
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		t.Parallel()
		s := NewUserStore(t.TempDir(), testLogger())

		bad := &domain.User{Username: "", HashedPassword: "x"}
		err := s.Create(ctx, bad)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestUserStoreGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore(t.TempDir(), testLogger())

	created := newUser(t, "Alice", "203.0.113.1")
	require.NoError(t, s.Create(ctx, created))

	byID, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Username)

	byName, err := s.GetByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = s.GetByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestUserStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	s := NewUserStore(dir, testLogger())
	created := newUser(t, "alice", "203.0.113.1")
	created.Coins = 7
	require.NoError(t, s.Create(ctx, created))

	reopened := NewUserStore(dir, testLogger())
	stored, err := reopened.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Coins)
	assert.Equal(t, "203.0.113.1", stored.SignupOrigin)
}

func TestUserStoreRecoversFromCorruptFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))

	s := NewUserStore(dir, testLogger())
	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// The store is usable again after the replace.
	require.NoError(t, s.Create(ctx, newUser(t, "alice", "203.0.113.1")))
}

func TestUserStoreAdjust(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore(t.TempDir(), testLogger())

	created := newUser(t, "alice", "203.0.113.1")
	created.Coins = 5
	require.NoError(t, s.Create(ctx, created))

	t.Run("applies and persists the mutation", func(t *testing.T) {
		updated, err := s.Adjust(ctx, created.ID, func(u *domain.User) error {
			u.Coins += 3
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 8, updated.Coins)

		stored, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, stored.Coins)
	})

	t.Run("a failing mutation leaves the record untouched", func(t *testing.T) {
		errRejected := errors.New("rejected")
		_, err := s.Adjust(ctx, created.ID, func(u *domain.User) error {
			u.Coins = 0
			return errRejected
		})
		require.ErrorIs(t, err, errRejected)

		stored, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, stored.Coins)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Adjust(ctx, 42, func(u *domain.User) error { return nil })
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
