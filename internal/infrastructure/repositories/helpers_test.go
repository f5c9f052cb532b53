package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/you/shopauth/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&DBUser{}, &DBSession{}), "failed to migrate database")
	return db
}

func seedUser(t *testing.T, repo domain.UserRepository, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "Shopper",
		Phone:        "+15555550100",
		PasswordHash: "hashed_password",
		Status:       domain.StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedSession(t *testing.T, repo domain.SessionRepository, id string, userID uint, token string, expiresAt time.Time) *domain.Session {
	t.Helper()

	session := &domain.Session{
		ID:        id,
		UserID:    userID,
		Token:     token,
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.0.2.1",
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), session))
	return session
}
