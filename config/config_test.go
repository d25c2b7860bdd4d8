package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ANONTALK_DATABASE_DRIVER", "sqlite")
	t.Setenv("ANONTALK_DATABASE_DSN", ":memory:")
	t.Setenv("ANONTALK_JWT_SECRET", "s3cret")
	t.Setenv("ANONTALK_SEEN_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2, cfg.Seen.Workers)
	assert.Equal(t, 5*time.Second, cfg.Detect.Timeout)
	assert.Equal(t, "test", cfg.Detect.APIKey)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ANONTALK_DATABASE_DRIVER", "mysql")
	t.Setenv("ANONTALK_JWT_SECRET", "s3cret")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported database driver")
}

// chdir 到没有 config.yaml 的目录，只剩默认值与环境变量
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	chdirTemp(t)

	_, err := Load()
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ANONTALK_JWT_SECRET", "s3cret")
	t.Setenv("ANONTALK_REDIS_ADDR", "cache:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.DetectTTL)
	assert.Equal(t, 6, cfg.RateLimit.AskPerMinute)
}
