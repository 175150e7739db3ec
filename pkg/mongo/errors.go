package mongo

import "errors"

var (
	ErrConnect           = errors.New("mongo.connect_failed")
	ErrHealthcheckFailed = errors.New("mongo.healthcheck_failed")
)
