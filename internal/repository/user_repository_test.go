package repository

import (
	"context"
	"testing"

	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_ResetTokenLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "v@example.com", models.RoleVolunteer)

	require.NoError(t, repo.SetResetToken(ctx, user.ID, "reset-token"))

	found, err := repo.FindByEmail(ctx, "v@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.ResetPasswordToken)
	require.Equal(t, "reset-token", *found.ResetPasswordToken)

	err = repo.ConsumeResetToken(ctx, user.ID, "other-token", "wrong-hash")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.ConsumeResetToken(ctx, user.ID, "reset-token", "new-hash"))

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, found.ResetPasswordToken)
	require.Equal(t, "new-hash", found.PasswordHash)
}

func TestUserRepository_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.SetResetToken(context.Background(), 404, "x")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ConsumeResetTokenOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "v@example.com", models.RoleVolunteer)

	require.NoError(t, repo.SetResetToken(ctx, user.ID, "reset-token"))
	require.NoError(t, repo.ConsumeResetToken(ctx, user.ID, "reset-token", "first-hash"))

	err := repo.ConsumeResetToken(ctx, user.ID, "reset-token", "second-hash")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "first-hash", found.PasswordHash)
}
