package main

import (
	"time"

	"github.com/dmitrymomot/servicebond/modules/site"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the application configuration, read from the environment.
// Connection settings of pg, redis and the HTTP server live in their own
// packages.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"servicebond"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	Debug   bool   `env:"DEBUG" envDefault:"false"`

	CSRFDisabled       bool     `env:"CSRF_DISABLED" envDefault:"false"`
	CSRFTrustedOrigins []string `env:"CSRF_TRUSTED_ORIGINS" envSeparator:","`

	// UIPackageJSON is the package.json of the bundled UI; empty disables
	// the X-UI-Version header.
	UIPackageJSON string `env:"UI_PACKAGE_JSON" envDefault:"ui/package.json"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	TenantFailClosed  bool          `env:"TENANT_FAIL_CLOSED" envDefault:"true"`
	TenantCacheDriver string        `env:"TENANT_CACHE_DRIVER" envDefault:"memory"`
	TenantCacheTTL    time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	TenantCacheSize   int           `env:"TENANT_CACHE_SIZE" envDefault:"1000"`
	TenantCachePrefix string        `env:"TENANT_CACHE_PREFIX" envDefault:"servicebond:tenant:"`

	GlobalConf site.GlobalConf
}
