package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/repository/postgres"
)

var userCols = []string{"id", "email", "name", "phone", "avatar_url", "role", "blocked", "deleted", "created_at", "updated_at"}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)
	now := time.Now()

	t.Run("CaseInsensitive", func(t *testing.T) {
		mock.ExpectQuery("WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("OWNER@renthub.ph").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "owner@renthub.ph", "Ana", "", "", "owner", false, false, now, now))

		u, err := repo.GetByEmail(context.Background(), "OWNER@renthub.ph")
		require.NoError(t, err)
		assert.Equal(t, int32(3), u.ID)
		assert.Equal(t, domain.UserRoleOwner, u.Role)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("ghost@renthub.ph").
			WillReturnRows(sqlmock.NewRows(userCols))

		_, err := repo.GetByEmail(context.Background(), "ghost@renthub.ph")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("new@renthub.ph", "New", "", "", domain.UserRoleRenter, false, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))

	u := &domain.User{Email: "new@renthub.ph", Name: "New", Role: domain.UserRoleRenter}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int32(8), u.ID)
}

func TestUserRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM users WHERE deleted = FALSE AND role = \\$1 AND").
		WithArgs("owner", "%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE deleted = FALSE").
		WithArgs("owner", "%ana%", int32(10), int32(10)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "ana@renthub.ph", "Ana", "", "", "owner", false, false, now, now))

	users, count, err := repo.List(context.Background(), "owner", "ana", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(1), count)
	require.Len(t, users, 1)
	assert.Equal(t, "ana@renthub.ph", users[0].Email)
}
