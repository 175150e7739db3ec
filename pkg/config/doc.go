// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: LoadEnv
// reads .env files into the process environment, Load parses the environment
// into any struct annotated with `env` tags and caches the result per type,
// so each configuration struct is parsed once per process.
//
//	type HTTPConfig struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Errors are sentinel values usable with errors.Is: ErrParsingConfig,
// ErrInvalidConfigType, ErrNilPointer and ErrLoadingEnvFile. Reset clears the
// cache between tests.
package config
