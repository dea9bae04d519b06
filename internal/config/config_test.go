package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "redis", cfg.LockBackend)
	assert.Equal(t, 6*time.Second, cfg.SpinDuration)
	assert.Equal(t, 4*time.Second, cfg.SpinGrace)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.UsesRedis())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("LOCK_BACKEND", "sql")
	t.Setenv("EVENTS_BACKEND", "local")
	t.Setenv("SPIN_DURATION", "3s")
	t.Setenv("SPIN_GRACE", "1s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.UsesRedis())
	assert.Equal(t, 3*time.Second, cfg.SpinDuration)
	assert.Equal(t, time.Second, cfg.SpinGrace)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"JWT_SECRET": "0123456789abcdef0123"},
		},
		{
			name: "short jwt secret",
			env:  map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "short"},
		},
		{
			name: "unknown lock backend",
			env: map[string]string{
				"DATABASE_URL": "x", "JWT_SECRET": "0123456789abcdef0123", "LOCK_BACKEND": "etcd",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("JWT_SECRET", "")
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
