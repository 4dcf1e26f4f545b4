package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/skillverge/pkg/auth"
)

func TestUserRepository_Postgres(t *testing.T) {
	repo, err := NewUserRepository(testPool(t))
	require.NoError(t, err)
	ctx := context.Background()

	email := uuid.NewString() + "@Example.COM"
	u := auth.User{
		ID:           uuid.New(),
		Email:        "  " + email,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		IsAdmin:      true,
	}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, auth.NormalizeEmail(email), got.Email)
	assert.Equal(t, u.CreatedAt, got.CreatedAt)
	assert.True(t, got.IsAdmin)

	dup := auth.User{ID: uuid.New(), Email: auth.NormalizeEmail(email), PasswordHash: "x", CreatedAt: u.CreatedAt}
	assert.ErrorIs(t, repo.Create(ctx, dup), auth.ErrUserAlreadyExists)

	_, err = repo.GetByEmail(ctx, "missing-"+email)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}
