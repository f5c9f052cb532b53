package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/config"
	"github.com/you/shopauth/internal/http/cookie"
	"github.com/you/shopauth/internal/infrastructure/audit"
	"github.com/you/shopauth/internal/infrastructure/auth"
	"github.com/you/shopauth/internal/infrastructure/database"
	"github.com/you/shopauth/internal/infrastructure/repositories"
	"github.com/you/shopauth/internal/ratelimit"
	"github.com/you/shopauth/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    *logrus.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository

	// Services
	PasswordSvc domain.PasswordService
	Policy      domain.PasswordPolicy
	AdminPolicy domain.AdminPolicy
	Audit       domain.AuditLogger
	SessionSvc  domain.SessionService
	AuthSvc     domain.AuthService
	AccountSvc  *services.AccountService
	Sweeper     *services.Sweeper

	// HTTP
	Cookies        cookie.Transport
	AuthLimiter    *ratelimit.Limiter
	CatalogLimiter *ratelimit.Limiter
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Container, error) {
	container := &Container{Config: cfg, Log: log}

	// Initialize infrastructure
	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	container.initRedis(ctx)

	// Initialize repositories
	container.initRepositories()

	// Initialize services
	if err := container.initServices(); err != nil {
		_ = container.Close()
		return nil, err
	}
	container.initRateLimits()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DBDriver, c.Config.DSN, c.Log)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return err
	}
	c.DB = db
	return nil
}

// initRedis connects only when the shared counter store is selected. An
// unreachable Redis is not fatal; the store falls back to local counters.
func (c *Container) initRedis(ctx context.Context) {
	if c.Config.RateLimitStore != "redis" {
		return
	}
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := database.Ping(ctx, c.RedisClient); err != nil {
		c.Log.WithError(err).WithField("addr", c.Config.RedisAddr).Warn("redis unreachable, rate limits fall back to local counters")
	}
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.DB)
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.Policy = services.NewPasswordPolicy()
	c.Audit = audit.NewLogrusAuditLogger(c.Log)

	casbinSvc, err := auth.NewCasbinService()
	if err != nil {
		return fmt.Errorf("failed to build admin policy: %w", err)
	}
	c.AdminPolicy = casbinSvc

	c.SessionSvc = services.NewSessionService(c.SessionRepo, services.SessionConfig{
		TTL:     c.Config.SessionTTL,
		Sliding: c.Config.SlidingSession,
	}, c.Log)
	c.AuthSvc = services.NewAuthService(c.UserRepo, c.SessionSvc, c.PasswordSvc, c.Policy, c.Audit, c.Log)
	c.AccountSvc = services.NewAccountService(c.UserRepo, c.SessionSvc, c.Audit)
	c.Sweeper = services.NewSweeper(c.SessionSvc, c.Config.SweepInterval, c.Audit, c.Log)

	c.Cookies = cookie.New(c.Config.CookieName, c.Config.SessionTTL, c.Config.IsProduction())
	return nil
}

func (c *Container) initRateLimits() {
	var store domain.RateLimitStore
	if c.RedisClient != nil {
		store = ratelimit.NewRedisStore(c.RedisClient, c.Log)
	} else {
		store = ratelimit.NewMemoryStore()
	}

	c.AuthLimiter = ratelimit.New(store, ratelimit.Policy{
		Name:   "auth",
		Window: c.Config.AuthLimit.Window,
		Max:    c.Config.AuthLimit.MaxRequests,
	})
	c.CatalogLimiter = ratelimit.New(store, ratelimit.Policy{
		Name:   "catalog",
		Window: c.Config.CatalogLimit.Window,
		Max:    c.Config.CatalogLimit.MaxRequests,
	})
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}

	if c.DB != nil {
		return database.Close(c.DB)
	}

	return nil
}
