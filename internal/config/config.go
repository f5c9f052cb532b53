package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the YAML file when no path is given
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	CookieName    string `yaml:"cookie_name"`
	TTLDays       int    `yaml:"ttl_days"`
	Sliding       *bool  `yaml:"sliding"`
	SweepInterval string `yaml:"sweep_interval"`
}

type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type PolicyConfig struct {
	Window      string `yaml:"window"`
	MaxRequests int    `yaml:"max_requests"`
}

type RateLimitConfig struct {
	Store          string       `yaml:"store"`
	Auth           PolicyConfig `yaml:"auth"`
	Catalog        PolicyConfig `yaml:"catalog"`
	TrustedProxies []string     `yaml:"trusted_proxies"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	Password  PasswordConfig  `yaml:"password"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RatePolicy is a parsed fixed-window policy
type RatePolicy struct {
	Window      time.Duration
	MaxRequests int
}

type Config struct {
	Port           string
	GinMode        string
	Environment    string
	LogLevel       string
	LogFormat      string
	DBDriver       string
	DSN            string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CookieName     string
	SessionTTL     time.Duration
	SlidingSession bool
	SweepInterval  time.Duration
	BcryptCost     int
	RateLimitStore string
	AuthLimit      RatePolicy
	CatalogLimit   RatePolicy
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the socket peer is the client.
	TrustedProxies []string
}

// IsProduction reports whether the service runs behind HTTPS in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Defaults returns the file layout used when no config file exists
func Defaults() *ConfigFile {
	sliding := true
	return &ConfigFile{
		App:      AppConfig{Port: 8080, GinMode: "release", Environment: "development"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "shopauth.db"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Session: SessionConfig{
			CookieName:    "session_token",
			TTLDays:       7,
			Sliding:       &sliding,
			SweepInterval: "1h",
		},
		Password: PasswordConfig{BcryptCost: 10},
		RateLimit: RateLimitConfig{
			Store:   "memory",
			Auth:    PolicyConfig{Window: "15m", MaxRequests: 5},
			Catalog: PolicyConfig{Window: "15m", MaxRequests: 100},
		},
	}
}

// Load reads .env, the YAML file at path and SHOPAUTH_* environment overrides
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if path == "" {
		path = env("SHOPAUTH_CONFIG", DefaultPath)
	}

	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyEnv(configFile)

	return build(configFile)
}

func build(f *ConfigFile) (*Config, error) {
	sweep, err := time.ParseDuration(f.Session.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep interval: %w", err)
	}
	authLimit, err := parsePolicy("auth", f.RateLimit.Auth)
	if err != nil {
		return nil, err
	}
	catalogLimit, err := parsePolicy("catalog", f.RateLimit.Catalog)
	if err != nil {
		return nil, err
	}

	sliding := true
	if f.Session.Sliding != nil {
		sliding = *f.Session.Sliding
	}

	cfg := &Config{
		Port:           strconv.Itoa(f.App.Port),
		GinMode:        f.App.GinMode,
		Environment:    f.App.Environment,
		LogLevel:       f.Log.Level,
		LogFormat:      f.Log.Format,
		DBDriver:       f.Database.Driver,
		DSN:            f.Database.DSN,
		RedisAddr:      f.Redis.Addr,
		RedisPassword:  f.Redis.Password,
		RedisDB:        f.Redis.DB,
		CookieName:     f.Session.CookieName,
		SessionTTL:     time.Duration(f.Session.TTLDays) * 24 * time.Hour,
		SlidingSession: sliding,
		SweepInterval:  sweep,
		BcryptCost:     f.Password.BcryptCost,
		RateLimitStore: f.RateLimit.Store,
		AuthLimit:      authLimit,
		CatalogLimit:   catalogLimit,
		TrustedProxies: f.RateLimit.TrustedProxies,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Port == "" || c.Port == "0" {
		return errors.New("app.port is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if c.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.CookieName == "" {
		return errors.New("session.cookie_name is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session.ttl_days must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("session.sweep_interval must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("password.bcrypt_cost must be in [4,31]; got %d", c.BcryptCost)
	}
	switch c.RateLimitStore {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("redis.addr is required for the redis rate limit store")
		}
	default:
		return fmt.Errorf("unsupported rate limit store %q", c.RateLimitStore)
	}
	for _, p := range c.TrustedProxies {
		if !validProxy(p) {
			return fmt.Errorf("rate_limit.trusted_proxies: %q is not an IP address or CIDR", p)
		}
	}
	return nil
}

func validProxy(p string) bool {
	if net.ParseIP(p) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(p)
	return err == nil
}

func parsePolicy(name string, p PolicyConfig) (RatePolicy, error) {
	window, err := time.ParseDuration(p.Window)
	if err != nil {
		return RatePolicy{}, fmt.Errorf("invalid %s rate limit window: %w", name, err)
	}
	if window <= 0 || p.MaxRequests <= 0 {
		return RatePolicy{}, fmt.Errorf("%s rate limit window and max_requests must be positive", name)
	}
	return RatePolicy{Window: window, MaxRequests: p.MaxRequests}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	config := Defaults()

	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return config, nil
}

func applyEnv(f *ConfigFile) {
	f.App.Port = atoi(env("SHOPAUTH_PORT", strconv.Itoa(f.App.Port)), f.App.Port)
	f.App.Environment = env("SHOPAUTH_ENV", f.App.Environment)
	f.App.GinMode = env("GIN_MODE", f.App.GinMode)
	f.Log.Level = env("SHOPAUTH_LOG_LEVEL", f.Log.Level)
	f.Log.Format = env("SHOPAUTH_LOG_FORMAT", f.Log.Format)
	f.Database.Driver = env("SHOPAUTH_DB_DRIVER", f.Database.Driver)
	f.Database.DSN = env("SHOPAUTH_DB_DSN", f.Database.DSN)
	f.Redis.Addr = env("SHOPAUTH_REDIS_ADDR", f.Redis.Addr)
	f.Redis.Password = env("SHOPAUTH_REDIS_PASSWORD", f.Redis.Password)
	f.RateLimit.Store = env("SHOPAUTH_RATE_LIMIT_STORE", f.RateLimit.Store)
	if v := os.Getenv("SHOPAUTH_TRUSTED_PROXIES"); v != "" {
		f.RateLimit.TrustedProxies = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
