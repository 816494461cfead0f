package repository

import (
	"context"
	"regexp"
	"testing"

	"devflow/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
		errorCode     string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "provider", "provider_id", "name", "email"}).
					AddRow(1, "google", "sub-123", "Test User", "test@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Provider: "google", ProviderID: "sub-123", Name: "Test User", Email: "test@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
			errorCode:     models.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError {
				require.Error(t, err)
				assert.True(t, models.IsCode(err, tt.errorCode))
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedUser.ID, user.ID)
				assert.Equal(t, tt.expectedUser.ProviderID, user.ProviderID)
				assert.Equal(t, tt.expectedUser.Email, user.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByProviderID_NotFoundIsNil(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE provider = $1 AND provider_id = $2 ORDER BY "users"."id" LIMIT $3`)).
		WithArgs("google", "unknown-sub", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	user, err := repo.GetByProviderID(context.Background(), "google", "unknown-sub")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Upsert_CreatesOnFirstLogin(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.Upsert(ctx, &models.User{
		Provider:   "google",
		ProviderID: "sub-first",
		Name:       "New User",
		Email:      "new@example.com",
		AvatarURL:  "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_Upsert_RefreshesOnReLogin(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &models.User{
		Provider:   "google",
		ProviderID: "sub-stable",
		Name:       "Old Name",
		Email:      "old@example.com",
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, &models.User{
		Provider:   "google",
		ProviderID: "sub-stable",
		Name:       "New Name",
		Email:      "new@example.com",
		AvatarURL:  "https://example.com/new.png",
	})
	require.NoError(t, err)

	// same account, refreshed profile
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "New Name", second.Name)
	assert.Equal(t, "new@example.com", second.Email)
	assert.Equal(t, "https://example.com/new.png", second.AvatarURL)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_GetByID_Sqlite(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	created := createTestUser(t, db, "lookup")

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
}
