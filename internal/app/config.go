package app

import (
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/config"
	"github.com/dmitrymomot/sprayshop/pkg/httpserver"
	"github.com/dmitrymomot/sprayshop/pkg/identity"
	"github.com/dmitrymomot/sprayshop/pkg/mongo"
	"github.com/dmitrymomot/sprayshop/pkg/profile"
	"github.com/dmitrymomot/sprayshop/pkg/redis"
)

// Config is the full process configuration.
type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`  // overrides the environment default when set
	LogFormat string `env:"LOG_FORMAT"` // json or text, overrides the environment default when set

	SessionMaxAge         time.Duration `env:"AUTHSTATE_MAX_AGE" envDefault:"1h"`
	SessionProfileTimeout time.Duration `env:"AUTHSTATE_PROFILE_TIMEOUT" envDefault:"3s"`
	SessionCacheKey       string        `env:"AUTHSTATE_CACHE_KEY" envDefault:"authstate:snapshot"`

	CatalogCacheSize int           `env:"CATALOG_CACHE_SIZE" envDefault:"256"`
	CatalogCacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	HTTP     httpserver.Config
	Mongo    mongo.Config
	Redis    redis.Config
	Identity identity.Config
	Breaker  profile.BreakerConfig
}

// LoadConfig reads Config from the environment and the optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
