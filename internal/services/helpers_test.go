package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/infrastructure/auth"
	"github.com/you/shopauth/internal/infrastructure/repositories"
	"github.com/you/shopauth/internal/mocks"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const strongPassword = "Correct-Horse-42"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

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

	require.NoError(t, db.AutoMigrate(&repositories.DBUser{}, &repositories.DBSession{}))
	return db
}

type testEnv struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	sessSvc  *SessionServiceImpl
	authSvc  *AuthServiceImpl
	audit    *mocks.MockAuditLogger
	clock    *testClock
}

func newTestEnv(t *testing.T, sliding bool) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	clock := newTestClock()
	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)
	sessSvc := NewSessionService(sessions, SessionConfig{
		TTL:     7 * 24 * time.Hour,
		Sliding: sliding,
		Now:     clock.Now,
	}, quietLogger())
	audit := mocks.NewMockAuditLogger()
	authSvc := NewAuthService(users, sessSvc, auth.NewPasswordService(bcrypt.MinCost), NewPasswordPolicy(), audit, quietLogger()).
		WithClock(clock.Now)

	return &testEnv{
		users:    users,
		sessions: sessions,
		sessSvc:  sessSvc,
		authSvc:  authSvc,
		audit:    audit,
		clock:    clock,
	}
}

func (e *testEnv) register(t *testing.T, email string) *domain.AuthResult {
	t.Helper()

	res, err := e.authSvc.Register(context.Background(), domain.Registration{
		Email:     email,
		Password:  strongPassword,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "+44 20 7946 0958",
	}, domain.SessionMetadata{UserAgent: "test-agent", IPAddress: "192.0.2.10"})
	require.NoError(t, err)
	return res
}
