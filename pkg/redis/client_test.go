package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	t.Run("plain URL with default port", func(t *testing.T) {
		opts, err := options(Config{URL: "redis://cache.internal"})
		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6379", opts.Addr)
		assert.Equal(t, 0, opts.DB)
		assert.Nil(t, opts.TLSConfig)
	})

	t.Run("TLS scheme with password and db", func(t *testing.T) {
		opts, err := options(Config{URL: "rediss://:s3cret@cache.internal:6380/2"})
		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, "s3cret", opts.Password)
		assert.Equal(t, 2, opts.DB)
		assert.NotNil(t, opts.TLSConfig)
	})

	t.Run("explicit password wins", func(t *testing.T) {
		opts, err := options(Config{URL: "redis://:fromurl@localhost", Password: "explicit"})
		require.NoError(t, err)
		assert.Equal(t, "explicit", opts.Password)
	})

	for name, url := range map[string]string{
		"empty":      "",
		"bad scheme": "http://localhost:6379",
		"no host":    "redis://",
		"bad db":     "redis://localhost/abc",
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := options(Config{URL: url})
			assert.Error(t, err)
		})
	}
}

func TestHealthCheckWithoutClient(t *testing.T) {
	require.NoError(t, Close())
	assert.Nil(t, Client())
	assert.Error(t, HealthCheck(context.Background()))
}
