// Package config はプロセス起動時に一度だけ環境変数から設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"market_sync/internal/feature/marketdata/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// エラーにはフィールド名ではなく環境変数名を載せる
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Config is the full process configuration.
type Config struct {
	Env           string `env:"APP_ENV" default:"production"`
	Port          string `env:"PORT" default:"8080"`
	TriggerSecret string `env:"SYNC_TRIGGER_SECRET"`
	JWTSecret     string `env:"SYNC_JWT_SECRET"`

	Store    StoreConfig
	Sync     SyncConfig
	Provider ProviderConfig
	Redis    RedisConfig
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Driver        string        `env:"STORE_DRIVER" default:"rest" validate:"oneof=rest postgres sqlite"`
	Timeout       time.Duration `env:"STORE_TIMEOUT" default:"10s"`
	RunMigrations bool          `env:"RUN_MIGRATIONS"`

	Credentials StoreCredentials `validate:"-"`
}

// StoreCredentials are the secrets the batch needs before it may start.
// For sqlite, URL is the database file and ServiceKey is unused.
type StoreCredentials struct {
	Driver     string `env:"STORE_DRIVER"`
	URL        string `env:"STORE_URL" validate:"required"`
	ServiceKey string `env:"STORE_SERVICE_KEY" validate:"required_unless=Driver sqlite"`
}

// SyncConfig tunes the batch.
type SyncConfig struct {
	Symbols     []string      `env:"SYNC_SYMBOLS" default:"[\"AAPL\",\"MSFT\",\"NVDA\",\"META\",\"GOOGL\"]" validate:"min=1,dive,required"`
	MaxAttempts int           `env:"SYNC_MAX_ATTEMPTS" default:"3" validate:"min=1"`
	BaseDelay   time.Duration `env:"SYNC_BASE_DELAY" default:"500ms" validate:"min=0"`
	PaceDelay   time.Duration `env:"SYNC_PACE_DELAY" default:"500ms" validate:"min=0"`
}

// ProviderConfig selects and configures the upstream quote provider.
type ProviderConfig struct {
	Name      string        `env:"QUOTE_PROVIDER" default:"yahoo" validate:"oneof=yahoo financego twelvedata"`
	BaseURL   string        `env:"YAHOO_BASE_URL" default:"https://query2.finance.yahoo.com" validate:"url"`
	CookieURL string        `env:"YAHOO_COOKIE_URL" default:"https://fc.yahoo.com" validate:"url"`
	UserAgent string        `env:"YAHOO_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
	Timeout   time.Duration `env:"PROVIDER_TIMEOUT" default:"10s"`

	TwelveDataAPIKey  string `env:"TWELVE_DATA_API_KEY" validate:"required_if=Name twelvedata"`
	TwelveDataBaseURL string `env:"TWELVE_DATA_BASE_URL" default:"https://api.twelvedata.com" validate:"url"`

	// 1分あたりの呼び出し上限。0 で無効
	RateLimit int `env:"PROVIDER_RATE_LIMIT" default:"0" validate:"min=0"`
}

// RedisConfig configures the optional read-path cache.
type RedisConfig struct {
	Host     string        `env:"REDIS_HOST"`
	Port     string        `env:"REDIS_PORT" default:"6379"`
	Password string        `env:"REDIS_PASSWORD"`
	TTL      time.Duration `env:"REDIS_TTL" default:"5m"`
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// TriggerOpen reports whether /api/sync-stocks accepts unauthenticated requests.
func (c *Config) TriggerOpen() bool {
	return c.TriggerSecret == "" && c.JWTSecret == ""
}

// IsDev reports whether APP_ENV selects development mode.
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}

// Load reads .env (if present), applies defaults and environment overrides,
// and validates the structural settings. Missing store credentials are not
// an error here; they are reported per invocation by StoreCredentials.Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromLookup(os.LookupEnv)
}

// LoadFromLookup is Load without the .env file, reading variables through lookup.
func LoadFromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := get(k); ok {
				*dst = v
				return
			}
		}
	}
	dur := func(dst *time.Duration, key string) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(&c.Env, "APP_ENV")
	str(&c.Port, "PORT")
	str(&c.TriggerSecret, "SYNC_TRIGGER_SECRET")
	str(&c.JWTSecret, "SYNC_JWT_SECRET")

	str(&c.Store.Driver, "STORE_DRIVER")
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	c.Store.Credentials.Driver = c.Store.Driver
	// SUPABASE_* は旧名として受け付ける
	str(&c.Store.Credentials.URL, "STORE_URL", "SUPABASE_URL")
	str(&c.Store.Credentials.ServiceKey, "STORE_SERVICE_KEY", "SUPABASE_SERVICE_ROLE_KEY")
	if v, ok := get("RUN_MIGRATIONS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_MIGRATIONS: %w", err)
		}
		c.Store.RunMigrations = b
	}

	if v, ok := get("SYNC_SYMBOLS"); ok {
		c.Sync.Symbols = ParseSymbols(v)
	}
	if v, ok := get("SYNC_MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SYNC_MAX_ATTEMPTS: %w", err)
		}
		c.Sync.MaxAttempts = n
	}

	str(&c.Provider.Name, "QUOTE_PROVIDER")
	c.Provider.Name = strings.ToLower(c.Provider.Name)
	str(&c.Provider.BaseURL, "YAHOO_BASE_URL")
	str(&c.Provider.CookieURL, "YAHOO_COOKIE_URL")
	str(&c.Provider.UserAgent, "YAHOO_USER_AGENT")
	str(&c.Provider.TwelveDataAPIKey, "TWELVE_DATA_API_KEY")
	str(&c.Provider.TwelveDataBaseURL, "TWELVE_DATA_BASE_URL")
	if v, ok := get("PROVIDER_RATE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROVIDER_RATE_LIMIT: %w", err)
		}
		c.Provider.RateLimit = n
	}

	str(&c.Redis.Host, "REDIS_HOST")
	str(&c.Redis.Port, "REDIS_PORT")
	str(&c.Redis.Password, "REDIS_PASSWORD")

	for key, dst := range map[string]*time.Duration{
		"STORE_TIMEOUT":    &c.Store.Timeout,
		"SYNC_BASE_DELAY":  &c.Sync.BaseDelay,
		"SYNC_PACE_DELAY":  &c.Sync.PaceDelay,
		"PROVIDER_TIMEOUT": &c.Provider.Timeout,
		"REDIS_TTL":        &c.Redis.TTL,
	} {
		if err := dur(dst, key); err != nil {
			return err
		}
	}
	return nil
}

// ParseSymbols splits a comma separated list, upper-casing entries and
// dropping blanks and duplicates while keeping order.
func ParseSymbols(s string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Validate reports missing credentials as a *domain.ConfigurationError
// naming the environment variables to set.
func (s StoreCredentials) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &domain.ConfigurationError{Missing: missing}
}
