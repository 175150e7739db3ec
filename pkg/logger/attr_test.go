package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sprayshop/pkg/logger"
)

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	type role string

	assert.Equal(t, "user_id", logger.UserID("uid-1").Key)
	assert.True(t, logger.UserID("").Equal(slog.Attr{}))

	r := logger.Role(role("administrator"))
	assert.Equal(t, "role", r.Key)
	assert.Equal(t, "administrator", r.Value.String())

	assert.Equal(t, "p-1", logger.ProductID("p-1").Value.String())
	assert.True(t, logger.ProductID("").Equal(slog.Attr{}))
	assert.Equal(t, "authstate", logger.Component("authstate").Value.String())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
}
