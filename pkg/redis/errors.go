package redis

import "errors"

var (
	ErrNotConfigured     = errors.New("redis.not_configured")
	ErrInvalidURL        = errors.New("redis.invalid_url")
	ErrNotReady          = errors.New("redis.not_ready")
	ErrHealthcheckFailed = errors.New("redis.healthcheck_failed")
)
